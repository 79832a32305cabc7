package profiles

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/tradejournal/internal/client/models"
	"github.com/dmitrijs2005/tradejournal/internal/common"
)

func TestCreate_IgnoresExisting(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec(`(?s)INSERT INTO profiles \(id, name, email\).*ON CONFLICT \(id\) DO NOTHING`).
		WithArgs("u1", models.DefaultProfileName, "a@b.c").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Create(context.Background(), models.Profile{ID: "u1", Name: models.DefaultProfileName, Email: "a@b.c"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGet(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`^SELECT id, name, email FROM profiles WHERE id = \$1$`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).AddRow("u1", "Ann", "a@b.c"))
	mock.ExpectQuery(`FROM profiles`).
		WithArgs("u2").
		WillReturnError(sql.ErrNoRows)

	p, err := repo.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", p.Name)

	_, err = repo.Get(context.Background(), "u2")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdateName(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec(`^UPDATE profiles SET name = \$2 WHERE id = \$1$`).
		WithArgs("u1", "Bob").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^UPDATE profiles`).
		WithArgs("ghost", "Bob").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpdateName(context.Background(), "u1", "Bob"))
	assert.ErrorIs(t, repo.UpdateName(context.Background(), "ghost", "Bob"), common.ErrorNotFound)
}
