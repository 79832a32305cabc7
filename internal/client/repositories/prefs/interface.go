// Package prefs stores UI preferences in the local SQLite database.
package prefs

import "context"

// Keys that survive Clean.
const (
	KeyTheme       = "theme"
	KeyCurrentPage = "currentPage"
)

// Repository is a string key/value store for UI state.
type Repository interface {
	// Get returns ok=false when key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
	// Clean removes data-shaped keys (trades, ledger, partial_exits_*) and
	// keeps UI preferences. It returns the number of keys removed.
	Clean(ctx context.Context) (int64, error)
}

// GetOr returns the stored value for key or def when absent or on error.
func GetOr(ctx context.Context, r Repository, key, def string) string {
	v, ok, err := r.Get(ctx, key)
	if err != nil || !ok {
		return def
	}
	return v
}
