package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/go-ddd-auth-service/internal/domain/entity"
	"github.com/oksasatya/go-ddd-auth-service/internal/domain/repository"
)

// DBTX is the subset of *pgxpool.Pool used by the repository.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// accountsEmailKey is the unique constraint created by the accounts migration.
const accountsEmailKey = "accounts_email_key"

type AccountRepository struct {
	db DBTX
}

func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts the account. A unique violation on email maps to
// repository.ErrEmailTaken; the unique index is what decides concurrent signups.
func (r *AccountRepository) Create(ctx context.Context, a *entity.Account) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO accounts (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, a.Name, a.Email, a.PasswordHash)

	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if isEmailUniqueViolation(err) {
			return repository.ErrEmailTaken
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`, id)
	return scanAccount(row)
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM accounts
		WHERE email = $1
	`, email)
	return scanAccount(row)
}

func scanAccount(row pgx.Row) (*entity.Account, error) {
	a := &entity.Account{}
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrAccountNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidTextRepresentation {
			// ids are uuids; anything else cannot name an account
			return nil, repository.ErrAccountNotFound
		}
		return nil, fmt.Errorf("select account: %w", err)
	}
	return a, nil
}

func isEmailUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return false
	}
	return pgErr.ConstraintName == "" || pgErr.ConstraintName == accountsEmailKey
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
