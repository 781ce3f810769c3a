// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"encoding/json"
	"testing"

	"github.com/amirphl/Kusanagi-no-Tsurugi/models"
	testingutil "github.com/amirphl/Kusanagi-no-Tsurugi/testing"
	"github.com/amirphl/Kusanagi-no-Tsurugi/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserModel(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		t.Run("TableName", func(t *testing.T) {
			assert.Equal(t, "users", models.User{}.TableName())
		})

		t.Run("CreateUser", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			assert.NotZero(t, user.ID)
			assert.NotEqual(t, "", user.UUID.String())
			assert.True(t, utils.IsTrue(user.IsActive))
			assert.False(t, utils.IsTrue(user.IsSuperuser))
			assert.NotZero(t, user.CreatedAt)
			assert.Nil(t, user.LastLoginAt)
		})

		t.Run("PasswordHashNeverSerialized", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			data, err := json.Marshal(user)
			require.NoError(t, err)
			assert.NotContains(t, string(data), user.PasswordHash)
			assert.NotContains(t, string(data), "password")
		})

		return nil
	})
	require.NoError(t, err)
}

func TestLinkModel(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		t.Run("TableName", func(t *testing.T) {
			assert.Equal(t, "links", models.Link{}.TableName())
		})

		t.Run("OwnedLink", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			link, err := fixtures.CreateTestLink(&user.ID)
			require.NoError(t, err)
			assert.NotZero(t, link.ID)
			assert.Len(t, link.ShortID, utils.ShortIDLength)
			require.NotNil(t, link.UserID)
			assert.Equal(t, user.ID, *link.UserID)
		})

		t.Run("AnonymousLink", func(t *testing.T) {
			link, err := fixtures.CreateTestLink(nil)
			require.NoError(t, err)
			assert.Nil(t, link.UserID)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestVisitorModel(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		t.Run("TableName", func(t *testing.T) {
			assert.Equal(t, "visitors", models.Visitor{}.TableName())
		})

		t.Run("VisitCarriesClientContext", func(t *testing.T) {
			link, err := fixtures.CreateTestLink(nil)
			require.NoError(t, err)

			visitor, err := fixtures.CreateTestVisitor(link.ID)
			require.NoError(t, err)
			assert.NotZero(t, visitor.ID)
			assert.Equal(t, link.ID, visitor.LinkID)
			require.NotNil(t, visitor.IP)
			require.NotNil(t, visitor.UserAgent)
			assert.NotZero(t, visitor.CreatedAt)
		})

		return nil
	})
	require.NoError(t, err)
}
