package challenges

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/tradejournal/internal/client/models"
	"github.com/dmitrijs2005/tradejournal/internal/common"
)

var challengeCols = []string{"id", "user_id", "title", "description", "timeframe", "max_risk", "start_date",
	"end_date", "created_at", "success", "starting_capital", "target_capital", "status"}

func TestList_NewestFirst(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`(?s)FROM challenges\s+WHERE user_id = \$1\s+ORDER BY created_at DESC$`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(challengeCols).
			AddRow("c2", "u1", "Double", "", "monthly", "2", start, start.AddDate(0, 1, 0), start.AddDate(0, 0, 1),
				true, "1000", "2000", models.ChallengeCompleted).
			AddRow("c1", "u1", "Grow", "", "weekly", "1", start, start.AddDate(0, 0, 7), start,
				false, "500", "600", models.ChallengeActive))

	got, err := repo.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c2", got[0].ID)
	assert.True(t, got[0].Success)
	assert.True(t, decimal.NewFromInt(2000).Equal(got[0].TargetCapital))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	rec := models.ChallengeRecord{ID: "c1", UserID: "u1", Title: "Grow", Status: models.ChallengeActive}

	mock.ExpectExec(`(?s)INSERT INTO challenges .*WHERE challenges\.user_id = EXCLUDED\.user_id`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)INSERT INTO challenges`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Upsert(context.Background(), rec))
	assert.ErrorIs(t, repo.Upsert(context.Background(), rec), common.ErrorUnauthorized)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec(`^DELETE FROM challenges WHERE user_id = \$1 AND id = \$2$`).
		WithArgs("u1", "c1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "u1", "c1"))
}
