package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/dmitrijs2005/tradejournal/internal/client/attachments"
	"github.com/dmitrijs2005/tradejournal/internal/client/remote"
	"github.com/dmitrijs2005/tradejournal/internal/client/status"
)

// Upload describes a stored attachment.
type Upload struct {
	Path      string
	PublicURL string
}

type AttachmentService struct {
	ds    *DataStore
	store attachments.Store
}

// objectName keeps the base name and replaces characters that do not
// belong in an object key.
func objectName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

// Upload stores data under <uid>/<unixmillis>_<name>. It makes a single
// deadline-bounded attempt.
func (s *AttachmentService) Upload(ctx context.Context, name string, data []byte, contentType string) (Upload, error) {
	if s.store == nil {
		s.ds.notify(ctx, "Attachments are not configured", status.Warning)
		return Upload{}, attachments.ErrNotConfigured
	}
	userID := s.ds.owner.UserID()
	if userID == "" {
		err := remote.AuthRequired("upload-attachment")
		s.ds.notify(ctx, msgSignIn, status.Error)
		return Upload{}, err
	}

	key := fmt.Sprintf("%s/%d_%s", userID, s.ds.opts.Clock.Now().UnixMilli(), objectName(name))
	_, err := call(ctx, s.ds, "upload-attachment", s.ds.opts.CallTimeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.store.Upload(ctx, key, data, contentType)
	})
	if err != nil {
		s.ds.log.Error(ctx, "attachment upload failed", "path", key, "error", err)
		s.ds.notify(ctx, writeFailedMessage("upload attachment", err), status.Error)
		return Upload{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return Upload{Path: key, PublicURL: s.store.PublicURL(key)}, nil
}

// AttachToTrade uploads a file and links it to the trade.
func (s *AttachmentService) AttachToTrade(ctx context.Context, tradeID, name string, data []byte, contentType string) (Upload, error) {
	up, err := s.Upload(ctx, name, data, contentType)
	if err != nil {
		return Upload{}, err
	}
	if err := s.ds.Trades.SetAttachment(ctx, tradeID, up.PublicURL); err != nil {
		return up, err
	}
	return up, nil
}
