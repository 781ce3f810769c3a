// Package tests contains integration tests for the authentication and link flows
package tests

import (
	"context"
	"testing"
	"time"

	"github.com/amirphl/Kusanagi-no-Tsurugi/app/dto"
	"github.com/amirphl/Kusanagi-no-Tsurugi/app/services"
	businessflow "github.com/amirphl/Kusanagi-no-Tsurugi/business_flow"
	"github.com/amirphl/Kusanagi-no-Tsurugi/repository"
	testingutil "github.com/amirphl/Kusanagi-no-Tsurugi/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) services.TokenService {
	t.Helper()
	tokenService, err := services.NewTokenService(
		15*time.Minute,
		7*24*time.Hour,
		"test-issuer",
		"test-audience",
		false,
		"",
		"",
		"test-secret-key-for-jwt-signing-32-chars",
	)
	require.NoError(t, err)
	return tokenService
}

func TestLogin(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		userRepo := repository.NewUserRepository(testDB.DB)
		tokenService := newTestTokenService(t)
		loginFlow := businessflow.NewLoginFlow(userRepo, tokenService, testDB.DB)

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		t.Run("SuccessfulLogin", func(t *testing.T) {
			result, err := loginFlow.Login(context.Background(), &dto.LoginRequest{
				Username: user.Username,
				Password: "TestPass123!",
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, user.Username, result.User.Username)
			assert.NotEmpty(t, result.Tokens.AccessToken)
			assert.NotEmpty(t, result.Tokens.RefreshToken)
			assert.Equal(t, "Bearer", result.Tokens.TokenType)

			// expires_in mirrors the TTL the token service was built with
			assert.Equal(t, int((15 * time.Minute).Seconds()), result.Tokens.ExpiresIn)

			// Access token resolves back to the same user
			claims, err := tokenService.ValidateToken(result.Tokens.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, user.Username, claims.Subject)

			// Login stamps last_login_at
			reloaded, err := userRepo.ByID(context.Background(), user.ID)
			require.NoError(t, err)
			require.NotNil(t, reloaded)
			assert.NotNil(t, reloaded.LastLoginAt)
		})

		t.Run("WrongPassword", func(t *testing.T) {
			result, err := loginFlow.Login(context.Background(), &dto.LoginRequest{
				Username: user.Username,
				Password: "WrongPass123!",
			}, metadata)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsInvalidCredentials(err))
		})

		t.Run("UnknownUsername", func(t *testing.T) {
			result, err := loginFlow.Login(context.Background(), &dto.LoginRequest{
				Username: "no-such-user",
				Password: "TestPass123!",
			}, metadata)
			require.Error(t, err)
			assert.Nil(t, result)

			// Same sentinel as a wrong password, nothing to enumerate
			assert.True(t, businessflow.IsInvalidCredentials(err))
		})

		t.Run("InactiveAccount", func(t *testing.T) {
			inactive, err := fixtures.CreateInactiveTestUser()
			require.NoError(t, err)

			result, err := loginFlow.Login(context.Background(), &dto.LoginRequest{
				Username: inactive.Username,
				Password: "TestPass123!",
			}, metadata)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsAccountInactive(err))
		})

		t.Run("EmptyCredentials", func(t *testing.T) {
			result, err := loginFlow.Login(context.Background(), &dto.LoginRequest{}, metadata)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsInvalidCredentials(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestRefresh(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		userRepo := repository.NewUserRepository(testDB.DB)
		tokenService := newTestTokenService(t)
		loginFlow := businessflow.NewLoginFlow(userRepo, tokenService, testDB.DB)

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		login, err := loginFlow.Login(context.Background(), &dto.LoginRequest{
			Username: user.Username,
			Password: "TestPass123!",
		}, metadata)
		require.NoError(t, err)

		t.Run("SuccessfulRefresh", func(t *testing.T) {
			result, err := loginFlow.Refresh(context.Background(), &dto.RefreshRequest{
				RefreshToken: login.Tokens.RefreshToken,
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.NotEmpty(t, result.Tokens.AccessToken)
			assert.NotEmpty(t, result.Tokens.RefreshToken)

			claims, err := tokenService.ValidateToken(result.Tokens.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, user.Username, claims.Subject)
		})

		t.Run("AccessTokenRejected", func(t *testing.T) {
			result, err := loginFlow.Refresh(context.Background(), &dto.RefreshRequest{
				RefreshToken: login.Tokens.AccessToken,
			}, metadata)
			require.Error(t, err)
			assert.Nil(t, result)
		})

		t.Run("GarbageTokenRejected", func(t *testing.T) {
			result, err := loginFlow.Refresh(context.Background(), &dto.RefreshRequest{
				RefreshToken: "not-a-token",
			}, metadata)
			require.Error(t, err)
			assert.Nil(t, result)
		})

		t.Run("DeactivatedAccountRejected", func(t *testing.T) {
			inactive, err := fixtures.CreateInactiveTestUser()
			require.NoError(t, err)

			// Token minted before deactivation would look like this
			_, refreshToken, err := tokenService.GenerateTokens(inactive.Username)
			require.NoError(t, err)

			result, err := loginFlow.Refresh(context.Background(), &dto.RefreshRequest{
				RefreshToken: refreshToken,
			}, metadata)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsAccountInactive(err))
		})

		return nil
	})
	require.NoError(t, err)
}
