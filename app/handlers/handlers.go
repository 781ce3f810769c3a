// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	businessflow "github.com/amirphl/Kusanagi-no-Tsurugi/business_flow"
	"github.com/go-playground/validator/v10"
)

// newValidator builds a validator with the custom rules the DTOs use
func newValidator() *validator.Validate {
	v := validator.New()

	// Register custom validation for password strength
	_ = v.RegisterValidation("password_strength", func(fl validator.FieldLevel) bool {
		return businessflow.IsValidPassword(fl.Field().String())
	})

	return v
}

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return err.Field() + " must be at least " + err.Param() + " characters"
	case "max":
		return err.Field() + " must be at most " + err.Param() + " characters"
	case "alphanum":
		return err.Field() + " must contain only letters and numbers"
	case "http_url":
		return err.Field() + " must be an absolute http(s) URL"
	case "password_strength":
		return "Password must contain at least 1 uppercase letter, 1 lowercase letter, 1 number and 1 special character"
	default:
		return err.Field() + " is invalid"
	}
}
