package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	local, err := fs.Glob(Local(), "*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"00001_prefs.sql"}, local)

	remote, err := fs.Glob(Remote(), "*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"00001_accounts.sql", "00002_journal.sql"}, remote)

	b, err := fs.ReadFile(Remote(), "00002_journal.sql")
	require.NoError(t, err)
	for _, table := range []string{"trades", "ledger", "challenges", "partial_exits"} {
		assert.Contains(t, string(b), "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
}
