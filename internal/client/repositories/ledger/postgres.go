package ledger

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

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]models.LedgerEntry, error) {
	query := `SELECT id, user_id, date, kind, amount, note FROM ledger
		WHERE user_id = $1
		ORDER BY date ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select ledger: %w", err)
	}
	defer rows.Close()

	result := make([]models.LedgerEntry, 0)
	for rows.Next() {
		var e models.LedgerEntry
		var kind string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Date, &kind, &e.Amount, &e.Note); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		e.Kind = models.LedgerKind(kind)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, e models.LedgerEntry) error {
	query := `
		INSERT INTO ledger (id, user_id, date, kind, amount, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id)
		DO UPDATE SET
			date = EXCLUDED.date,
			kind = EXCLUDED.kind,
			amount = EXCLUDED.amount,
			note = EXCLUDED.note
			WHERE ledger.user_id = EXCLUDED.user_id
	`
	res, err := r.db.ExecContext(ctx, query, e.ID, e.UserID, e.Date, string(e.Kind), e.Amount, e.Note)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorUnauthorized
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM ledger WHERE user_id = $1 AND id = $2`, userID, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
