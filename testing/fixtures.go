// Package testing provides test utilities and database setup for testing the link shortener
package testing

import (
	"fmt"
	"math/rand"

	"github.com/amirphl/Kusanagi-no-Tsurugi/models"
	"github.com/amirphl/Kusanagi-no-Tsurugi/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestUser creates an active user with a bcrypt password hash.
// The password is TestPass123! for all fixture users.
func (tf *TestFixtures) CreateTestUser() (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("TestPass123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	suffix := rand.Intn(10000000)

	user := &models.User{
		UUID:         uuid.New(),
		Username:     fmt.Sprintf("user%d", suffix),
		Email:        fmt.Sprintf("user%d@example.com", suffix),
		PasswordHash: string(hashedPassword),
		IsActive:     utils.ToPtr(true),
		IsSuperuser:  utils.ToPtr(false),
	}

	if err := tf.DB.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}

	return user, nil
}

// CreateInactiveTestUser creates a user whose account is disabled
func (tf *TestFixtures) CreateInactiveTestUser() (*models.User, error) {
	user, err := tf.CreateTestUser()
	if err != nil {
		return nil, err
	}

	user.IsActive = utils.ToPtr(false)
	if err := tf.DB.DB.Save(user).Error; err != nil {
		return nil, fmt.Errorf("failed to deactivate test user: %w", err)
	}

	return user, nil
}

// CreateTestLink creates a link owned by the given user. Pass nil for an
// anonymous link.
func (tf *TestFixtures) CreateTestLink(userID *uint) (*models.Link, error) {
	shortID := randomShortID()

	link := &models.Link{
		ShortID:     shortID,
		OriginalURL: fmt.Sprintf("https://example.com/page/%s", shortID),
		UserID:      userID,
	}

	if err := tf.DB.DB.Create(link).Error; err != nil {
		return nil, fmt.Errorf("failed to create test link: %w", err)
	}

	return link, nil
}

// CreateTestVisitor records a visit against the given link
func (tf *TestFixtures) CreateTestVisitor(linkID uint) (*models.Visitor, error) {
	ip := "127.0.0.1"
	ua := "Test User Agent"

	visitor := &models.Visitor{
		LinkID:    linkID,
		IP:        &ip,
		UserAgent: &ua,
	}

	if err := tf.DB.DB.Create(visitor).Error; err != nil {
		return nil, fmt.Errorf("failed to create test visitor: %w", err)
	}

	return visitor, nil
}

// CreateTestLinkWithVisits creates a link and the requested number of visit records
func (tf *TestFixtures) CreateTestLinkWithVisits(userID *uint, visits int) (*models.Link, error) {
	link, err := tf.CreateTestLink(userID)
	if err != nil {
		return nil, err
	}

	for i := 0; i < visits; i++ {
		if _, err := tf.CreateTestVisitor(link.ID); err != nil {
			return nil, err
		}
	}

	return link, nil
}

func randomShortID() string {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, utils.ShortIDLength)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}
