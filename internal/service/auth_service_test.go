package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keikodev/keiko-economy/internal/service"
	"github.com/keikodev/keiko-economy/internal/testutil"
)

func TestAuthService_Login(t *testing.T) {
	authService := service.NewAuthService(testutil.TestConfig())

	t.Run("correct password issues a token", func(t *testing.T) {
		token, err := authService.Login(testutil.TestPassword)
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		claims, err := authService.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "operator", (*claims)["sub"])
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := authService.Login("wrong")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("no hash configured", func(t *testing.T) {
		cfg := testutil.TestConfig()
		cfg.AdminPasswordHash = ""
		_, err := service.NewAuthService(cfg).Login(testutil.TestPassword)
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := service.NewAuthService(testutil.TestConfig())

	t.Run("garbage token", func(t *testing.T) {
		_, err := authService.ValidateToken("not-a-jwt")
		assert.Error(t, err)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		otherCfg := testutil.TestConfig()
		otherCfg.JWTSecret = "some-other-secret"
		token, err := service.NewAuthService(otherCfg).Login(testutil.TestPassword)
		require.NoError(t, err)

		_, err = authService.ValidateToken(token)
		assert.Error(t, err)
	})
}
