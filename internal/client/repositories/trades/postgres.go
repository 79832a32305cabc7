package trades

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tradejournal/internal/client/models"
	"github.com/dmitrijs2005/tradejournal/internal/common"
	"github.com/dmitrijs2005/tradejournal/internal/dbx"
)

const columns = `id, user_id, asset, direction, entry_price, exit_price, quantity, pnl, entry_date, exit_date, notes, attachment_url`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(s scanner) (models.Trade, error) {
	var t models.Trade
	var direction string
	err := s.Scan(&t.ID, &t.UserID, &t.Asset, &direction, &t.EntryPrice, &t.ExitPrice,
		&t.Quantity, &t.PnL, &t.EntryDate, &t.ExitDate, &t.Notes, &t.AttachmentURL)
	if err != nil {
		return models.Trade{}, err
	}
	t.Direction = models.Direction(direction)
	t.DeriveStatus()
	return t, nil
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]models.Trade, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select trades: %w", err)
	}
	defer rows.Close()

	result := make([]models.Trade, 0)
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]models.Trade, error) {
	return r.query(ctx, `SELECT `+columns+` FROM trades
		WHERE user_id = $1
		ORDER BY entry_date ASC`, userID)
}

func (r *PostgresRepository) ListClosedBetween(ctx context.Context, userID string, from, to time.Time) ([]models.Trade, error) {
	return r.query(ctx, `SELECT `+columns+` FROM trades
		WHERE user_id = $1 AND exit_date >= $2 AND exit_date <= $3
		ORDER BY exit_date ASC`, userID, from, to)
}

func (r *PostgresRepository) Insert(ctx context.Context, t models.Trade) (models.Trade, error) {
	query := `
		INSERT INTO trades (` + columns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + columns
	row := r.db.QueryRowContext(ctx, query, t.ID, t.UserID, t.Asset, string(t.Direction), t.EntryPrice, t.ExitPrice,
		t.Quantity, t.PnL, t.EntryDate, t.ExitDate, t.Notes, t.AttachmentURL)

	stored, err := scanTrade(row)
	if err != nil {
		return models.Trade{}, fmt.Errorf("db error: %w", err)
	}
	return stored, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, t models.Trade) error {
	query := `
		INSERT INTO trades (` + columns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id)
		DO UPDATE SET
			asset = EXCLUDED.asset,
			direction = EXCLUDED.direction,
			entry_price = EXCLUDED.entry_price,
			exit_price = EXCLUDED.exit_price,
			quantity = EXCLUDED.quantity,
			pnl = EXCLUDED.pnl,
			entry_date = EXCLUDED.entry_date,
			exit_date = EXCLUDED.exit_date,
			notes = EXCLUDED.notes,
			attachment_url = EXCLUDED.attachment_url
			WHERE trades.user_id = EXCLUDED.user_id
	`
	res, err := r.db.ExecContext(ctx, query, t.ID, t.UserID, t.Asset, string(t.Direction), t.EntryPrice, t.ExitPrice,
		t.Quantity, t.PnL, t.EntryDate, t.ExitDate, t.Notes, t.AttachmentURL)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res.RowsAffected())
}

func expectOne(n int64, err error) error {
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
	query := `DELETE FROM trades WHERE user_id = $1 AND id = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// deleteBatchSize keeps each statement well below the Postgres limit of
// 65535 bind parameters.
var deleteBatchSize = 1000

// DeleteMany removes the given trades of userID. Large selections are split
// into batches that run in one transaction when the repository holds a
// *sql.DB.
func (r *PostgresRepository) DeleteMany(ctx context.Context, userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	if len(ids) <= deleteBatchSize {
		return deleteBatch(ctx, r.db, userID, ids)
	}

	var total int64
	run := func(ctx context.Context, db dbx.DBTX) error {
		total = 0
		for start := 0; start < len(ids); start += deleteBatchSize {
			end := min(start+deleteBatchSize, len(ids))
			n, err := deleteBatch(ctx, db, userID, ids[start:end])
			if err != nil {
				return err
			}
			total += n
		}
		return nil
	}

	var err error
	if db, ok := r.db.(*sql.DB); ok {
		err = dbx.WithTx(ctx, db, nil, run)
	} else {
		err = run(ctx, r.db)
	}
	if err != nil {
		return 0, err
	}
	return total, nil
}

func deleteBatch(ctx context.Context, db dbx.DBTX, userID string, ids []string) (int64, error) {
	args := make([]any, 0, len(ids)+1)
	args = append(args, userID)
	for _, id := range ids {
		args = append(args, id)
	}

	query := `DELETE FROM trades WHERE user_id = $1 AND id IN (` + dbx.Placeholders(2, len(ids)) + `)`
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}

func (r *PostgresRepository) DeleteAll(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trades WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}

func (r *PostgresRepository) SetAttachment(ctx context.Context, userID, id, url string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE trades SET attachment_url = $3 WHERE user_id = $1 AND id = $2`, userID, id, url)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
