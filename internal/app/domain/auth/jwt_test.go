package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() JWTConfig {
	return JWTConfig{
		SecretKey:       "test-secret-key-for-unit-tests-only",
		TokenExpiration: time.Hour,
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService()
	cfg := testJWTConfig()
	userID := uuid.NewString()

	token, err := svc.GenerateToken(cfg, userID, "a@example.com", "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "alice", claims.Username)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc := NewJWTService()
	cfg := testJWTConfig()

	token, err := svc.GenerateToken(cfg, uuid.NewString(), "a@example.com", "alice")
	require.NoError(t, err)

	other := cfg
	other.SecretKey = "a-different-secret-key-entirely"
	_, err = svc.ValidateToken(other, token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpiredToken(t *testing.T) {
	svc := NewJWTService()
	cfg := testJWTConfig()
	cfg.TokenExpiration = -time.Minute

	token, err := svc.GenerateToken(cfg, uuid.NewString(), "a@example.com", "alice")
	require.NoError(t, err)

	_, err = svc.ValidateToken(cfg, token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewJWTService()

	_, err := svc.ValidateToken(testJWTConfig(), "not.a.token")
	assert.Error(t, err)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	svc := NewJWTService()

	hash, err := svc.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, svc.CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, svc.CheckPassword(hash, "wrong password"))
}
