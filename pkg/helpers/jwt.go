package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/oksasatya/go-ddd-auth-service/internal/domain/service"
)

// TokenTTL is the fixed validity window of an identity token.
const TokenTTL = 7 * 24 * time.Hour

var (
	ErrMissingSigningKey = errors.New("token signing key is empty")
	ErrTokenMalformed    = errors.New("token malformed")
	ErrTokenBadSignature = errors.New("token signature invalid")
	ErrTokenExpired      = errors.New("token expired")
)

// TokenIssuer signs and verifies HS256 identity tokens.
// The key is copied at construction and never changes afterwards.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string) (*TokenIssuer, error) {
	if secret == "" {
		return nil, ErrMissingSigningKey
	}
	return &TokenIssuer{secret: []byte(secret), ttl: TokenTTL}, nil
}

// Issue signs claims {sub, iat, exp}. JWT timestamps have second precision:
// iat is now truncated to the second and the token is valid for [iat, iat+7d),
// so a token issued at 12:00:00.7 stops verifying at 12:00:00 seven days later.
func (m *TokenIssuer) Issue(accountID string, now time.Time) (string, service.TokenClaims, error) {
	iat := now.UTC().Truncate(time.Second)
	exp := iat.Add(m.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   accountID,
		IssuedAt:  jwt.NewNumericDate(iat),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.secret)
	if err != nil {
		return "", service.TokenClaims{}, err
	}
	return s, service.TokenClaims{Subject: accountID, IssuedAt: iat, ExpiresAt: exp}, nil
}

// Verify checks signature first, then expiry against now. A token is valid
// while now is strictly before exp.
func (m *TokenIssuer) Verify(tokenStr string, now time.Time) (service.TokenClaims, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return service.TokenClaims{}, classify(err)
	}
	if !tkn.Valid || claims.Subject == "" || claims.IssuedAt == nil {
		return service.TokenClaims{}, ErrTokenMalformed
	}
	return service.TokenClaims{
		Subject:   claims.Subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrTokenBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	default:
		return ErrTokenMalformed
	}
}

var _ service.TokenIssuer = (*TokenIssuer)(nil)
