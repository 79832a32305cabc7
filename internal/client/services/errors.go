package services

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tradejournal/internal/client/remote"
)

var (
	// ErrDatabase wraps every remote failure surfaced by a write.
	ErrDatabase = errors.New("database error")
	// ErrStorage wraps attachment upload failures.
	ErrStorage = errors.New("storage error")
	ErrNoIDs   = errors.New("no ids given")
)

const (
	msgTimeout      = "Connection timeout - please try again"
	msgSignIn       = "Please sign in to continue"
	msgPermission   = "You do not have permission to change this record"
	msgSignedOut    = "You have been signed out."
	msgLoadTemplate = "Unable to load %s - please check your connection"
)

// loadFailedMessage is the notification for a list read that gave up.
func loadFailedMessage(resource string, err error) string {
	if kind, ok := remote.KindOf(err); ok && kind == remote.KindTimeout {
		return msgTimeout
	}
	return fmt.Sprintf(msgLoadTemplate, resource)
}

// writeFailedMessage is the notification for a failed write, e.g. action
// "save trade".
func writeFailedMessage(action string, err error) string {
	kind, _ := remote.KindOf(err)
	switch kind {
	case remote.KindTimeout:
		return msgTimeout
	case remote.KindAuthRequired:
		return msgSignIn
	case remote.KindPermission:
		return msgPermission
	default:
		return fmt.Sprintf("Unable to %s - please check your connection", action)
	}
}
