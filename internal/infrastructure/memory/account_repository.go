package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-auth-service/internal/domain/entity"
	"github.com/oksasatya/go-ddd-auth-service/internal/domain/repository"
)

// AccountRepository keeps accounts in process memory. The email index is
// checked and written under one lock, which gives the same uniqueness
// guarantee as the Postgres unique index.
type AccountRepository struct {
	mu      sync.RWMutex
	byID    map[string]*entity.Account
	byEmail map[string]string
	now     func() time.Time
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		byID:    make(map[string]*entity.Account),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (r *AccountRepository) Create(ctx context.Context, a *entity.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[a.Email]; ok {
		return repository.ErrEmailTaken
	}
	now := r.now().UTC()
	a.ID = uuid.NewString()
	a.CreatedAt = now
	a.UpdatedAt = now

	stored := *a
	r.byID[a.ID] = &stored
	r.byEmail[a.Email] = a.ID
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	out := *a
	return &out, nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	out := *r.byID[id]
	return &out, nil
}

// Delete removes an account. Only used to simulate out-of-band removal.
func (r *AccountRepository) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.byID[id]; ok {
		delete(r.byEmail, a.Email)
		delete(r.byID, id)
	}
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
