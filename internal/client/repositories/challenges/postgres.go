package challenges

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/tradejournal/internal/client/models"
	"github.com/dmitrijs2005/tradejournal/internal/common"
	"github.com/dmitrijs2005/tradejournal/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]models.ChallengeRecord, error) {
	query := `SELECT id, user_id, title, description, timeframe, max_risk, start_date, end_date,
		created_at, success, starting_capital, target_capital, status
		FROM challenges
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select challenges: %w", err)
	}
	defer rows.Close()

	result := make([]models.ChallengeRecord, 0)
	for rows.Next() {
		var c models.ChallengeRecord
		err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.Description, &c.Timeframe, &c.MaxRisk,
			&c.StartDate, &c.EndDate, &c.CreatedAt, &c.Success, &c.StartingCapital, &c.TargetCapital, &c.Status)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, c models.ChallengeRecord) error {
	query := `
		INSERT INTO challenges (id, user_id, title, description, timeframe, max_risk, start_date, end_date,
			created_at, success, starting_capital, target_capital, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id)
		DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			timeframe = EXCLUDED.timeframe,
			max_risk = EXCLUDED.max_risk,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			success = EXCLUDED.success,
			starting_capital = EXCLUDED.starting_capital,
			target_capital = EXCLUDED.target_capital,
			status = EXCLUDED.status
			WHERE challenges.user_id = EXCLUDED.user_id
	`
	res, err := r.db.ExecContext(ctx, query, c.ID, c.UserID, c.Title, c.Description, c.Timeframe, c.MaxRisk,
		c.StartDate, c.EndDate, c.CreatedAt, c.Success, c.StartingCapital, c.TargetCapital, c.Status)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorUnauthorized
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM challenges WHERE user_id = $1 AND id = $2`, userID, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
