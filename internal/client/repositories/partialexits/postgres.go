package partialexits

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

func (r *PostgresRepository) List(ctx context.Context, userID, tradeID string) ([]models.PartialExit, error) {
	query := `SELECT id, trade_id, user_id, quantity, exit_price, exit_date, note FROM partial_exits
		WHERE user_id = $1 AND trade_id = $2
		ORDER BY exit_date ASC`

	rows, err := r.db.QueryContext(ctx, query, userID, tradeID)
	if err != nil {
		return nil, fmt.Errorf("failed to select partial exits: %w", err)
	}
	defer rows.Close()

	result := make([]models.PartialExit, 0)
	for rows.Next() {
		var p models.PartialExit
		if err := rows.Scan(&p.ID, &p.TradeID, &p.UserID, &p.Quantity, &p.ExitPrice, &p.ExitDate, &p.Note); err != nil {
			return nil, fmt.Errorf("failed to scan partial exit: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Save inserts or updates p. The parent trade must belong to the same owner.
func (r *PostgresRepository) Save(ctx context.Context, p models.PartialExit) error {
	query := `
		INSERT INTO partial_exits (id, trade_id, user_id, quantity, exit_price, exit_date, note)
		SELECT $1, $2, $3, $4, $5, $6, $7
		WHERE EXISTS (SELECT 1 FROM trades WHERE id = $2 AND user_id = $3)
		ON CONFLICT (id)
		DO UPDATE SET
			quantity = EXCLUDED.quantity,
			exit_price = EXCLUDED.exit_price,
			exit_date = EXCLUDED.exit_date,
			note = EXCLUDED.note
			WHERE partial_exits.user_id = EXCLUDED.user_id
	`
	res, err := r.db.ExecContext(ctx, query, p.ID, p.TradeID, p.UserID, p.Quantity, p.ExitPrice, p.ExitDate, p.Note)
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
	if _, err := r.db.ExecContext(ctx, `DELETE FROM partial_exits WHERE user_id = $1 AND id = $2`, userID, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
