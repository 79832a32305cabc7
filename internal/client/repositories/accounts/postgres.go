package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/tradejournal/internal/client/models"
	"github.com/dmitrijs2005/tradejournal/internal/common"
	"github.com/dmitrijs2005/tradejournal/internal/dbx"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *PostgresRepository) Create(ctx context.Context, a models.Account) (models.Account, error) {
	query := `
		INSERT INTO accounts (email, salt, verifier)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	a.Email = normalizeEmail(a.Email)
	if err := r.db.QueryRowContext(ctx, query, a.Email, a.Salt, a.Verifier).Scan(&a.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.Account{}, common.ErrorAlreadyExists
		}
		return models.Account{}, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) get(ctx context.Context, where string, arg any) (models.Account, error) {
	query := `SELECT id, email, salt, verifier FROM accounts WHERE ` + where + ` = $1`

	var a models.Account
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&a.ID, &a.Email, &a.Salt, &a.Verifier); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, common.ErrorNotFound
		}
		return models.Account{}, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (models.Account, error) {
	return r.get(ctx, "email", normalizeEmail(email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (models.Account, error) {
	return r.get(ctx, "id", id)
}
