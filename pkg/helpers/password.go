package helpers

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"github.com/oksasatya/go-ddd-auth-service/internal/domain/service"
	"github.com/oksasatya/go-ddd-auth-service/pkg/validation"
)

// ErrMalformedHash is returned by Verify when the stored hash is not a bcrypt hash.
var ErrMalformedHash = errors.New("malformed password hash")

// PasswordHasher hashes passwords with bcrypt at a fixed cost.
// Concurrent bcrypt work is bounded so slow hashes cannot starve the process.
type PasswordHasher struct {
	cost int
	sem  *semaphore.Weighted

	dummyOnce sync.Once
	dummy     []byte
}

// NewPasswordHasher validates cost against bcrypt's range. A non-positive
// concurrency defaults to GOMAXPROCS.
func NewPasswordHasher(cost, concurrency int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	return &PasswordHasher{cost: cost, sem: semaphore.NewWeighted(int64(concurrency))}, nil
}

// Hash hashes the plain text password using bcrypt with a fresh salt.
func (h *PasswordHasher) Hash(ctx context.Context, plain string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify compares a bcrypt hash with a plain password in constant time.
// bcrypt only reads the first 72 bytes, so longer input never matches.
func (h *PasswordHasher) Verify(ctx context.Context, plain, hash string) (bool, error) {
	if len(plain) > validation.MaxPasswordBytes {
		return false, nil
	}
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer h.sem.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}

// Burn runs one comparison against a throwaway hash of the same cost, so a
// lookup miss costs as much as a wrong password.
func (h *PasswordHasher) Burn(ctx context.Context, plain string) {
	h.dummyOnce.Do(func() {
		h.dummy, _ = bcrypt.GenerateFromPassword([]byte("dummy-password"), h.cost)
	})
	if h.dummy == nil {
		return
	}
	_, _ = h.Verify(ctx, plain, string(h.dummy))
}

var _ service.CredentialHasher = (*PasswordHasher)(nil)
