package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *TokenManager {
	return NewTokenManager("test-secret", "test-issuer", "test-audience")
}

func TestGenerateAndValidate(t *testing.T) {
	m := newTestManager()

	token, err := m.Generate(42, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "test-issuer", claims.Issuer)
}

func TestValidate_WrongSecret(t *testing.T) {
	m := newTestManager()
	other := NewTokenManager("different-secret", "test-issuer", "test-audience")

	token, err := m.Generate(42, "alice")
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestValidate_WrongIssuer(t *testing.T) {
	m := newTestManager()
	other := NewTokenManager("test-secret", "other-issuer", "test-audience")

	token, err := m.Generate(42, "alice")
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidIssuer)
}

func TestValidate_WrongAudience(t *testing.T) {
	m := newTestManager()
	other := NewTokenManager("test-secret", "test-issuer", "other-audience")

	token, err := m.Generate(42, "alice")
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidAudience)
}

func TestValidate_Expired(t *testing.T) {
	m := newTestManager()
	m.ttl = -time.Hour

	token, err := m.Generate(42, "alice")
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.Error(t, err)
}

func TestValidate_Garbage(t *testing.T) {
	m := newTestManager()

	_, err := m.Validate("not.a.token")
	assert.Error(t, err)
}
