package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenManager() *TokenManager {
	return NewTokenManager("test-secret-key-for-testing-purposes", 15*time.Minute, "pharmacy-test")
}

func TestTokenManager_IssueAndParse(t *testing.T) {
	m := newTestTokenManager()

	token, expiresAt, err := m.Issue("user-1", "pat@pharmacy.com", "Pharmacist")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "pat@pharmacy.com", claims.Email)
	assert.Equal(t, "Pharmacist", claims.Role)
	assert.Equal(t, "pharmacy-test", claims.Issuer)
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager("test-secret", -time.Minute, "pharmacy-test")

	token, _, err := m.Issue("user-1", "a@b.c", "Admin")
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	token, _, err := newTestTokenManager().Issue("user-1", "a@b.c", "Admin")
	require.NoError(t, err)

	_, err = NewTokenManager("another-secret", time.Minute, "pharmacy-test").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsOtherSigningMethods(t *testing.T) {
	claims := Claims{Role: "Admin", RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestTokenManager().Parse(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Garbage(t *testing.T) {
	_, err := newTestTokenManager().Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
