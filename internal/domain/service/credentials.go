// Package service declares the stateless credential capabilities the auth core consumes.
package service

import (
	"context"
	"time"
)

// CredentialHasher hashes and verifies passwords.
type CredentialHasher interface {
	// Hash returns a salted one-way hash of plain. Two calls never return the same value.
	Hash(ctx context.Context, plain string) (string, error)
	// Verify reports whether plain matches hash. A non-nil error means hash is malformed.
	Verify(ctx context.Context, plain, hash string) (bool, error)
}

// TokenClaims is the verified content of an identity token.
type TokenClaims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies identity tokens.
type TokenIssuer interface {
	Issue(accountID string, now time.Time) (string, TokenClaims, error)
	Verify(token string, now time.Time) (TokenClaims, error)
}
