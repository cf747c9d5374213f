package services

import (
	"testing"
	"time"

	"github.com/findin/findin-backend/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessTokenClaims(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret", JWTAccessExpiry: 15 * time.Minute}
	svc := NewAuthService(nil, cfg)

	user := testAuthor()
	signed, err := svc.generateAccessToken(user)
	require.NoError(t, err)

	parsed, err := jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, user.ID.String(), claims["sub"])
	assert.Equal(t, user.Email, claims["email"])
	assert.Equal(t, user.UserType, claims["user_type"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp.Time, 5*time.Second)
}

func TestHashTokenIsDeterministic(t *testing.T) {
	assert.Equal(t, hashToken("abc"), hashToken("abc"))
	assert.NotEqual(t, hashToken("abc"), hashToken("abd"))
	assert.Len(t, hashToken("abc"), 64)
}
