package helpers

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var issuedAt = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func newTestIssuer(t *testing.T, secret string) *TokenIssuer {
	t.Helper()
	m, err := NewTokenIssuer(secret)
	require.NoError(t, err)
	return m
}

func TestNewTokenIssuer_EmptySecret(t *testing.T) {
	_, err := NewTokenIssuer("")
	assert.ErrorIs(t, err, ErrMissingSigningKey)
}

func TestTokenIssuer_IssueAndVerify(t *testing.T) {
	m := newTestIssuer(t, "super-secret")

	tok, claims, err := m.Issue("acc-1", issuedAt)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.Subject)
	assert.Equal(t, issuedAt, claims.IssuedAt)
	assert.Equal(t, issuedAt.Add(7*24*time.Hour), claims.ExpiresAt)
	assert.Len(t, strings.Split(tok, "."), 3)

	got, err := m.Verify(tok, issuedAt)
	require.NoError(t, err)
	assert.Equal(t, claims.Subject, got.Subject)
	assert.True(t, got.IssuedAt.Equal(issuedAt))
	assert.True(t, got.ExpiresAt.Equal(claims.ExpiresAt))
}

func TestTokenIssuer_DeterministicForSameInstant(t *testing.T) {
	m := newTestIssuer(t, "super-secret")
	a, _, err := m.Issue("acc-1", issuedAt)
	require.NoError(t, err)
	b, _, err := m.Issue("acc-1", issuedAt)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestTokenIssuer_ValidityWindow(t *testing.T) {
	m := newTestIssuer(t, "super-secret")
	tok, _, err := m.Issue("acc-1", issuedAt)
	require.NoError(t, err)

	tests := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{name: "at issuance", at: issuedAt},
		{name: "mid window", at: issuedAt.Add(3 * 24 * time.Hour)},
		{name: "last second", at: issuedAt.Add(7*24*time.Hour - time.Second)},
		{name: "exactly at expiry", at: issuedAt.Add(7 * 24 * time.Hour), wantErr: ErrTokenExpired},
		{name: "after expiry", at: issuedAt.Add(8 * 24 * time.Hour), wantErr: ErrTokenExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Verify(tok, tt.at)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTokenIssuer_SubSecondIssueTruncatesWindow(t *testing.T) {
	m := newTestIssuer(t, "super-secret")
	tok, claims, err := m.Issue("acc-1", issuedAt.Add(700*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, issuedAt, claims.IssuedAt)
	assert.Equal(t, issuedAt.Add(TokenTTL), claims.ExpiresAt)

	_, err = m.Verify(tok, issuedAt.Add(TokenTTL-300*time.Millisecond))
	assert.NoError(t, err)
	_, err = m.Verify(tok, issuedAt.Add(TokenTTL))
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	tok, _, err := newTestIssuer(t, "right-secret").Issue("acc-1", issuedAt)
	require.NoError(t, err)

	_, err = newTestIssuer(t, "wrong-secret").Verify(tok, issuedAt)
	assert.ErrorIs(t, err, ErrTokenBadSignature)
}

func TestTokenIssuer_TamperedPayload(t *testing.T) {
	m := newTestIssuer(t, "super-secret")
	tok, _, err := m.Issue("acc-1", issuedAt)
	require.NoError(t, err)
	other, _, err := m.Issue("acc-2", issuedAt)
	require.NoError(t, err)

	a := strings.Split(tok, ".")
	b := strings.Split(other, ".")
	forged := a[0] + "." + b[1] + "." + a[2]

	_, err = m.Verify(forged, issuedAt)
	assert.ErrorIs(t, err, ErrTokenBadSignature)
}

func TestTokenIssuer_RejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "acc-1",
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
	}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestIssuer(t, "super-secret").Verify(none, issuedAt)
	assert.ErrorIs(t, err, ErrTokenBadSignature)
}

func TestTokenIssuer_Malformed(t *testing.T) {
	m := newTestIssuer(t, "super-secret")
	for _, s := range []string{"", "not.a.jwt", "abc", "a.b.c.d"} {
		_, err := m.Verify(s, issuedAt)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", s)
	}
}

func TestTokenIssuer_MissingExpiry(t *testing.T) {
	claims := jwt.RegisteredClaims{Subject: "acc-1", IssuedAt: jwt.NewNumericDate(issuedAt)}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("super-secret"))
	require.NoError(t, err)

	_, err = newTestIssuer(t, "super-secret").Verify(tok, issuedAt)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}
