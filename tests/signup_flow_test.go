package tests

import (
	"context"
	"testing"

	"github.com/amirphl/Kusanagi-no-Tsurugi/app/dto"
	businessflow "github.com/amirphl/Kusanagi-no-Tsurugi/business_flow"
	"github.com/amirphl/Kusanagi-no-Tsurugi/repository"
	testingutil "github.com/amirphl/Kusanagi-no-Tsurugi/testing"
	"github.com/amirphl/Kusanagi-no-Tsurugi/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		userRepo := repository.NewUserRepository(testDB.DB)
		signupFlow := businessflow.NewSignupFlow(userRepo, testDB.DB, bcrypt.MinCost)

		t.Run("SuccessfulRegistration", func(t *testing.T) {
			req := &dto.RegisterRequest{
				Username: "alice",
				Email:    "alice@example.com",
				Password: "SecurePass123!",
			}

			result, err := signupFlow.Register(context.Background(), req, businessflow.NewClientMetadata("127.0.0.1", "test-agent"))
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, "alice", result.Username)
			assert.Equal(t, "alice@example.com", result.Email)
			assert.NotEmpty(t, result.UUID)
			assert.NotZero(t, result.ID)

			// Verify user was persisted
			user, err := userRepo.ByUsername(context.Background(), "alice")
			require.NoError(t, err)
			require.NotNil(t, user)
			assert.True(t, utils.IsTrue(user.IsActive))
			assert.False(t, utils.IsTrue(user.IsSuperuser))

			// Password is stored as a bcrypt hash, never in the clear
			assert.NotEqual(t, "SecurePass123!", user.PasswordHash)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("SecurePass123!")))

			// Hash carries the cost the flow was configured with
			cost, err := bcrypt.Cost([]byte(user.PasswordHash))
			require.NoError(t, err)
			assert.Equal(t, bcrypt.MinCost, cost)
		})

		t.Run("DuplicateUsername", func(t *testing.T) {
			req := &dto.RegisterRequest{
				Username: "alice",
				Email:    "alice2@example.com",
				Password: "SecurePass123!",
			}

			result, err := signupFlow.Register(context.Background(), req, businessflow.NewClientMetadata("127.0.0.1", "test-agent"))
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsUsernameAlreadyExists(err))
		})

		t.Run("DuplicateEmail", func(t *testing.T) {
			req := &dto.RegisterRequest{
				Username: "alice-two",
				Email:    "alice@example.com",
				Password: "SecurePass123!",
			}

			result, err := signupFlow.Register(context.Background(), req, businessflow.NewClientMetadata("127.0.0.1", "test-agent"))
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsEmailAlreadyExists(err))
		})

		t.Run("BlankUsername", func(t *testing.T) {
			req := &dto.RegisterRequest{
				Username: "   ",
				Email:    "blank@example.com",
				Password: "SecurePass123!",
			}

			result, err := signupFlow.Register(context.Background(), req, businessflow.NewClientMetadata("127.0.0.1", "test-agent"))
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsInvalidUsername(err))
			assert.False(t, businessflow.IsUserNotFound(err))
		})

		t.Run("WeakPassword", func(t *testing.T) {
			req := &dto.RegisterRequest{
				Username: "bob",
				Email:    "bob@example.com",
				Password: "alllowercase",
			}

			result, err := signupFlow.Register(context.Background(), req, businessflow.NewClientMetadata("127.0.0.1", "test-agent"))
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsWeakPassword(err))

			// Nothing was persisted
			user, err := userRepo.ByUsername(context.Background(), "bob")
			require.NoError(t, err)
			assert.Nil(t, user)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestIsValidPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"all character classes", "SecurePass123!", true},
		{"minimum length", "Aa1!aaaa", true},
		{"too short", "Aa1!aaa", false},
		{"too long", "Aa1!" + string(make([]byte, 40)), false},
		{"no uppercase", "securepass123!", false},
		{"no lowercase", "SECUREPASS123!", false},
		{"no digit", "SecurePass!!!!", false},
		{"no special character", "SecurePass1234", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, businessflow.IsValidPassword(tt.password))
		})
	}
}
