package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-ddd-auth-service/internal/domain/entity"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	// ErrEmailTaken is returned by Create when the email uniqueness constraint rejects the insert.
	ErrEmailTaken = errors.New("email already taken")
)

// AccountRepository defines the persistence operations the auth core depends on.
// Create assigns ID, CreatedAt and UpdatedAt on success.
type AccountRepository interface {
	Create(ctx context.Context, a *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
}
