package remote

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/tradejournal/internal/common"
)

// Postgres SQLSTATE codes that change how a failure is handled.
const (
	pgInsufficientPrivilege = "42501"
	pgInvalidAuthClass      = "28"
)

// Classify wraps err as an *Error for op. Errors that already carry a
// classification and context cancellation are returned unchanged.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var re *Error
	if errors.As(err, &re) {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	return &Error{Op: op, Kind: kindFor(err), Err: err}
}

func kindFor(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, common.ErrorUnauthorized) {
		return KindPermission
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgInsufficientPrivilege:
			return KindPermission
		case strings.HasPrefix(pgErr.Code, pgInvalidAuthClass):
			return KindAuthRequired
		default:
			return KindRemote
		}
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return KindNoConnection
	}

	var netErr net.Error
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) || errors.As(err, &netErr) {
		return KindNoConnection
	}

	return KindRemote
}
