// Package businessflow contains the core business logic and use cases for the URL shortening workflows
package businessflow

import (
	"context"

	"github.com/amirphl/Kusanagi-no-Tsurugi/app/dto"
	"github.com/amirphl/Kusanagi-no-Tsurugi/app/services"
	"github.com/amirphl/Kusanagi-no-Tsurugi/repository"
	"github.com/amirphl/Kusanagi-no-Tsurugi/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LoginFlow handles user authentication and token refresh
type LoginFlow interface {
	Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, request *dto.RefreshRequest, metadata *ClientMetadata) (*dto.RefreshResponse, error)
}

// LoginFlowImpl implements the login business flow
type LoginFlowImpl struct {
	userRepo     repository.UserRepository
	tokenService services.TokenService
	db           *gorm.DB
}

// NewLoginFlow creates a new login flow instance
func NewLoginFlow(userRepo repository.UserRepository, tokenService services.TokenService, db *gorm.DB) LoginFlow {
	return &LoginFlowImpl{
		userRepo:     userRepo,
		tokenService: tokenService,
		db:           db,
	}
}

// Login authenticates a user with username and password.
// Unknown usernames and wrong passwords both map to ErrInvalidCredentials
// so the response never reveals which part was wrong.
func (lf *LoginFlowImpl) Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	if request.Username == "" || request.Password == "" {
		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", ErrInvalidCredentials)
	}

	user, err := lf.userRepo.ByUsername(ctx, request.Username)
	if err != nil {
		return nil, NewBusinessError("LOGIN_LOOKUP_FAILED", "Login failed", err)
	}
	if user == nil {
		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", ErrInvalidCredentials)
	}

	if !utils.IsTrue(user.IsActive) {
		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", ErrAccountInactive)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)); err != nil {
		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", ErrInvalidCredentials)
	}

	accessToken, refreshToken, err := lf.tokenService.GenerateTokens(user.Username)
	if err != nil {
		return nil, NewBusinessError("LOGIN_TOKEN_FAILED", "Failed to issue tokens", err)
	}

	// Best effort, a failed stamp must not block the login
	_ = lf.userRepo.UpdateLastLogin(ctx, user.ID)

	return &dto.LoginResponse{
		User: ToUserDTO(*user),
		Tokens: dto.TokenPairDTO{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			TokenType:    "Bearer",
			ExpiresIn:    int(lf.tokenService.AccessTokenTTL().Seconds()),
		},
	}, nil
}

// Refresh exchanges a refresh-scope token for a new token pair.
// The user is re-checked so tokens for a deactivated or deleted account
// cannot be renewed.
func (lf *LoginFlowImpl) Refresh(ctx context.Context, request *dto.RefreshRequest, metadata *ClientMetadata) (*dto.RefreshResponse, error) {
	claims, err := lf.tokenService.ValidateRefreshToken(request.RefreshToken)
	if err != nil {
		return nil, NewBusinessError("REFRESH_TOKEN_INVALID", "Invalid refresh token", err)
	}

	user, err := lf.userRepo.ByUsername(ctx, claims.Subject)
	if err != nil {
		return nil, NewBusinessError("REFRESH_LOOKUP_FAILED", "Token refresh failed", err)
	}
	if user == nil {
		return nil, NewBusinessError("REFRESH_TOKEN_INVALID", "Invalid refresh token", ErrUserNotFound)
	}
	if !utils.IsTrue(user.IsActive) {
		return nil, NewBusinessError("REFRESH_TOKEN_INVALID", "Invalid refresh token", ErrAccountInactive)
	}

	accessToken, refreshToken, err := lf.tokenService.GenerateTokens(user.Username)
	if err != nil {
		return nil, NewBusinessError("REFRESH_TOKEN_FAILED", "Failed to issue tokens", err)
	}

	return &dto.RefreshResponse{
		Tokens: dto.TokenPairDTO{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			TokenType:    "Bearer",
			ExpiresIn:    int(lf.tokenService.AccessTokenTTL().Seconds()),
		},
	}, nil
}
