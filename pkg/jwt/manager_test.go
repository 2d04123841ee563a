package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	m := NewManager("test-secret", 60)

	token, err := m.GenerateToken("user-1")
	require.NoError(t, err)
	assert.True(t, LooksLikeJWT(token))

	claims, err := m.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestVerify_Expired(t *testing.T) {
	m := NewManager("test-secret", -60)

	token, err := m.GenerateToken("user-1")
	require.NoError(t, err)

	_, err = m.VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := NewManager("a", 60).GenerateToken("user-1")
	require.NoError(t, err)

	_, err = NewManager("b", 60).VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLooksLikeJWT(t *testing.T) {
	assert.False(t, LooksLikeJWT("3f2a9c0d1e"))
	assert.True(t, LooksLikeJWT("a.b.c"))
}
