// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"errors"
	"strings"

	"github.com/amirphl/Kusanagi-no-Tsurugi/app/dto"
	"github.com/amirphl/Kusanagi-no-Tsurugi/app/services"
	"github.com/gofiber/fiber/v3"
)

// AuthMiddleware handles JWT token validation for protected endpoints
type AuthMiddleware struct {
	tokenService services.TokenService
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(tokenService services.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
	}
}

// Authenticate is the middleware function that validates JWT tokens.
// A missing or malformed Authorization header yields 403, a credential
// that is present but invalid or expired yields 401.
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := extractBearerToken(c)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.APIResponse{
				Success: false,
				Message: "Not authenticated",
				Error: dto.ErrorDetail{
					Code: "NOT_AUTHENTICATED",
				},
			})
		}

		claims, err := m.tokenService.ValidateToken(token)
		if err != nil {
			code, message := tokenErrorDetail(err)
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: message,
				Error: dto.ErrorDetail{
					Code: code,
				},
			})
		}

		// Store user information in context for downstream handlers
		c.Locals("username", claims.Subject)
		c.Locals("token_id", claims.TokenID)
		c.Locals("token_claims", claims)

		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		// Continue to the next handler
		return c.Next()
	}
}

// OptionalAuth validates the JWT when one is supplied. A request without
// credentials passes through anonymously, but a credential that is present
// and invalid is rejected rather than silently ignored.
func (m *AuthMiddleware) OptionalAuth() fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			// No authorization header, continue without authentication
			return c.Next()
		}

		token, ok := extractBearerToken(c)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.APIResponse{
				Success: false,
				Message: "Not authenticated",
				Error: dto.ErrorDetail{
					Code: "NOT_AUTHENTICATED",
				},
			})
		}

		claims, err := m.tokenService.ValidateToken(token)
		if err != nil {
			code, message := tokenErrorDetail(err)
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: message,
				Error: dto.ErrorDetail{
					Code: code,
				},
			})
		}

		c.Locals("username", claims.Subject)
		c.Locals("token_id", claims.TokenID)
		c.Locals("token_claims", claims)

		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}

func extractBearerToken(c fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", false
	}
	return token, true
}

func tokenErrorDetail(err error) (code, message string) {
	switch {
	case errors.Is(err, services.ErrTokenExpired):
		return "TOKEN_EXPIRED", "Access token has expired"
	case errors.Is(err, services.ErrTokenScopeInvalid):
		return "TOKEN_SCOPE_INVALID", "Token cannot be used for this operation"
	case errors.Is(err, services.ErrTokenInvalid):
		return "TOKEN_INVALID", "Invalid access token"
	default:
		return "TOKEN_VALIDATION_FAILED", "Token validation failed"
	}
}

// GetUsernameFromContext extracts the authenticated username from the request context
func GetUsernameFromContext(c fiber.Ctx) (string, bool) {
	username, ok := c.Locals("username").(string)
	if !ok || username == "" {
		return "", false
	}
	return username, true
}

// GetTokenClaimsFromContext extracts token claims from the request context
func GetTokenClaimsFromContext(c fiber.Ctx) (*services.TokenClaims, bool) {
	claims, ok := c.Locals("token_claims").(*services.TokenClaims)
	return claims, ok
}
