package remote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/tradejournal/internal/common"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		sentinel  error
		retryable bool
	}{
		{"plain error", errors.New("network error"), ErrRemote, true},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), ErrTimeout, false},
		{"permission", &pgconn.PgError{Code: "42501", Message: "permission denied for table trades"}, ErrPermission, false},
		{"invalid password", &pgconn.PgError{Code: "28P01"}, ErrAuthRequired, false},
		{"unique violation", &pgconn.PgError{Code: "23505"}, ErrRemote, true},
		{"conn done", sql.ErrConnDone, ErrNoConnection, true},
		{"row owned by someone else", fmt.Errorf("upsert: %w", common.ErrorUnauthorized), ErrPermission, false},
		{"net error", &net.OpError{Op: "dial", Err: errors.New("refused")}, ErrNoConnection, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Classify("op", tc.err)
			assert.ErrorIs(t, err, tc.sentinel)
			assert.ErrorIs(t, err, tc.err)
			assert.Equal(t, tc.retryable, IsRetryable(err))
		})
	}
}

func TestClassify_Passthrough(t *testing.T) {
	assert.NoError(t, Classify("op", nil))

	already := Timeout("Fetch trades", time.Second)
	assert.Same(t, already, Classify("other", already))

	assert.Equal(t, context.Canceled, Classify("op", context.Canceled))
}

func TestError_Messages(t *testing.T) {
	assert.Equal(t, "Fetch trades timed out after 10s", Timeout("Fetch trades", 10*time.Second).Error())
	assert.Equal(t, "Save challenge: auth required", AuthRequired("Save challenge").Error())

	e := &Error{Op: "Delete trade", Kind: KindPermission, Err: errors.New("denied")}
	assert.Equal(t, "Delete trade: permission denied: denied", e.Error())
	assert.NotErrorIs(t, e, ErrRemote)
}

func TestKindOf_Unclassified(t *testing.T) {
	_, ok := KindOf(errors.New("x"))
	assert.False(t, ok)
	assert.False(t, IsRetryable(nil))
}
