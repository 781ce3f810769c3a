// Package businessflow contains the core business logic and use cases for the URL shortening workflows
package businessflow

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/amirphl/Kusanagi-no-Tsurugi/app/dto"
	"github.com/amirphl/Kusanagi-no-Tsurugi/models"
	"github.com/amirphl/Kusanagi-no-Tsurugi/repository"
	"github.com/amirphl/Kusanagi-no-Tsurugi/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SignupFlow handles user registration
type SignupFlow interface {
	Register(ctx context.Context, req *dto.RegisterRequest, metadata *ClientMetadata) (*dto.RegisterResponse, error)
}

// SignupFlowImpl implements the signup business flow
type SignupFlowImpl struct {
	userRepo   repository.UserRepository
	db         *gorm.DB
	bcryptCost int
}

// NewSignupFlow creates a new signup flow instance
func NewSignupFlow(userRepo repository.UserRepository, db *gorm.DB, bcryptCost int) SignupFlow {
	return &SignupFlowImpl{
		userRepo:   userRepo,
		db:         db,
		bcryptCost: bcryptCost,
	}
}

// Register validates the request, hashes the password and persists the user
func (s *SignupFlowImpl) Register(ctx context.Context, req *dto.RegisterRequest, metadata *ClientMetadata) (*dto.RegisterResponse, error) {
	// Validate business rules
	if err := s.validateRegisterRequest(req); err != nil {
		return nil, NewBusinessError("REGISTER_VALIDATION_FAILED", "Registration validation failed", err)
	}

	var user *models.User

	err := repository.WithTransaction(ctx, s.db, func(ctx context.Context) error {
		// Check if username already exists
		existing, err := s.userRepo.ByUsername(ctx, req.Username)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrUsernameAlreadyExists
		}

		// Check if email already exists
		existing, err = s.userRepo.ByEmail(ctx, req.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrEmailAlreadyExists
		}

		// Hash password
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
		if err != nil {
			return err
		}

		user = &models.User{
			UUID:         uuid.New(),
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: string(hashedPassword),
			IsActive:     utils.ToPtr(true),
			IsSuperuser:  utils.ToPtr(false),
			CreatedAt:    utils.UTCNow(),
			UpdatedAt:    utils.UTCNow(),
		}

		return s.userRepo.Save(ctx, user)
	})

	if err != nil {
		return nil, NewBusinessError("REGISTER_FAILED", "Registration failed", err)
	}

	return &dto.RegisterResponse{
		ID:        user.ID,
		UUID:      user.UUID.String(),
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (s *SignupFlowImpl) validateRegisterRequest(req *dto.RegisterRequest) error {
	if strings.TrimSpace(req.Username) == "" {
		return ErrInvalidUsername
	}
	if !IsValidPassword(req.Password) {
		return ErrWeakPassword
	}
	return nil
}

// IsValidPassword enforces the password policy: 8 to 30 characters with at
// least one uppercase letter, one lowercase letter, one digit and one
// special character from the accepted set.
func IsValidPassword(password string) bool {
	if len(password) < utils.PasswordMinLength || len(password) > utils.PasswordMaxLength {
		return false
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, c := range password {
		switch {
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= '0' && c <= '9':
			hasDigit = true
		case strings.ContainsRune(utils.PasswordSpecialChars, c):
			hasSpecial = true
		}
	}

	return hasUpper && hasLower && hasDigit && hasSpecial
}
