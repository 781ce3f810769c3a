// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/amirphl/Kusanagi-no-Tsurugi/models"
	"github.com/amirphl/Kusanagi-no-Tsurugi/repository"
	testingutil "github.com/amirphl/Kusanagi-no-Tsurugi/testing"
	"github.com/amirphl/Kusanagi-no-Tsurugi/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		repo := repository.NewUserRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		t.Run("ByID", func(t *testing.T) {
			found, err := repo.ByID(ctx, user.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, user.Username, found.Username)
		})

		t.Run("ByIDNotFound", func(t *testing.T) {
			found, err := repo.ByID(ctx, 999999)
			assert.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("ByUsername", func(t *testing.T) {
			found, err := repo.ByUsername(ctx, user.Username)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, user.ID, found.ID)

			missing, err := repo.ByUsername(ctx, "no-such-user")
			require.NoError(t, err)
			assert.Nil(t, missing)
		})

		t.Run("ByEmail", func(t *testing.T) {
			found, err := repo.ByEmail(ctx, user.Email)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, user.ID, found.ID)
		})

		t.Run("ByUUID", func(t *testing.T) {
			found, err := repo.ByUUID(ctx, user.UUID.String())
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, user.ID, found.ID)

			_, err = repo.ByUUID(ctx, "not-a-uuid")
			assert.Error(t, err)
		})

		t.Run("UpdateLastLogin", func(t *testing.T) {
			require.Nil(t, user.LastLoginAt)

			err := repo.UpdateLastLogin(ctx, user.ID)
			require.NoError(t, err)

			reloaded, err := repo.ByID(ctx, user.ID)
			require.NoError(t, err)
			require.NotNil(t, reloaded.LastLoginAt)
		})

		t.Run("DuplicateUsernameRejected", func(t *testing.T) {
			dup := &models.User{
				UUID:         uuid.New(),
				Username:     user.Username,
				Email:        "different@example.com",
				PasswordHash: "x",
				IsActive:     utils.ToPtr(true),
				IsSuperuser:  utils.ToPtr(false),
			}
			err := repo.Save(ctx, dup)
			require.Error(t, err)
			assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestLinkRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		repo := repository.NewLinkRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		link, err := fixtures.CreateTestLink(&user.ID)
		require.NoError(t, err)
		anon, err := fixtures.CreateTestLink(nil)
		require.NoError(t, err)

		t.Run("ByShortID", func(t *testing.T) {
			found, err := repo.ByShortID(ctx, link.ShortID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, link.OriginalURL, found.OriginalURL)

			missing, err := repo.ByShortID(ctx, "zzzzzz0")
			require.NoError(t, err)
			assert.Nil(t, missing)
		})

		t.Run("ListByUser", func(t *testing.T) {
			links, err := repo.ListByUser(ctx, user.ID)
			require.NoError(t, err)
			require.Len(t, links, 1)
			assert.Equal(t, link.ShortID, links[0].ShortID)
		})

		t.Run("AnonymousLinkHasNoOwner", func(t *testing.T) {
			found, err := repo.ByShortID(ctx, anon.ShortID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Nil(t, found.UserID)
		})

		t.Run("DuplicateShortIDRejected", func(t *testing.T) {
			dup := &models.Link{
				ShortID:     link.ShortID,
				OriginalURL: "https://example.com/other",
			}
			err := repo.Save(ctx, dup)
			require.Error(t, err)
			assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
		})

		t.Run("CountByUser", func(t *testing.T) {
			count, err := repo.Count(ctx, models.LinkFilter{UserID: &user.ID})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestVisitorRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		repo := repository.NewVisitorRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		link, err := fixtures.CreateTestLinkWithVisits(nil, 3)
		require.NoError(t, err)
		other, err := fixtures.CreateTestLink(nil)
		require.NoError(t, err)

		t.Run("CountByLink", func(t *testing.T) {
			count, err := repo.CountByLink(ctx, link.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(3), count)

			count, err = repo.CountByLink(ctx, other.ID)
			require.NoError(t, err)
			assert.Zero(t, count)
		})

		t.Run("ListByLink", func(t *testing.T) {
			visitors, err := repo.ListByLink(ctx, link.ID, 0, 0)
			require.NoError(t, err)
			require.Len(t, visitors, 3)

			// Newest first
			assert.GreaterOrEqual(t, visitors[0].ID, visitors[1].ID)
			assert.GreaterOrEqual(t, visitors[1].ID, visitors[2].ID)
		})

		t.Run("ListByLinkPaged", func(t *testing.T) {
			visitors, err := repo.ListByLink(ctx, link.ID, 2, 0)
			require.NoError(t, err)
			assert.Len(t, visitors, 2)

			visitors, err = repo.ListByLink(ctx, link.ID, 2, 2)
			require.NoError(t, err)
			assert.Len(t, visitors, 1)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestWithTransaction(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		linkRepo := repository.NewLinkRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		t.Run("RollbackOnError", func(t *testing.T) {
			sentinel := errors.New("abort")

			err := repository.WithTransaction(ctx, testDB.DB, func(txCtx context.Context) error {
				link := &models.Link{ShortID: "txRoll1", OriginalURL: "https://example.com/tx"}
				if err := linkRepo.Save(txCtx, link); err != nil {
					return err
				}
				return sentinel
			})
			require.ErrorIs(t, err, sentinel)

			// The insert was rolled back
			link, err := linkRepo.ByShortID(ctx, "txRoll1")
			require.NoError(t, err)
			assert.Nil(t, link)
		})

		t.Run("CommitOnSuccess", func(t *testing.T) {
			err := repository.WithTransaction(ctx, testDB.DB, func(txCtx context.Context) error {
				link := &models.Link{ShortID: "txComm1", OriginalURL: "https://example.com/tx"}
				return linkRepo.Save(txCtx, link)
			})
			require.NoError(t, err)

			link, err := linkRepo.ByShortID(ctx, "txComm1")
			require.NoError(t, err)
			require.NotNil(t, link)
		})

		return nil
	})
	require.NoError(t, err)
}
