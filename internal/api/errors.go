package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/leetcoach/leetcoach-api/internal/domain"
	"github.com/leetcoach/leetcoach-api/internal/service/auth"
	"github.com/leetcoach/leetcoach-api/internal/service/practice"
	"github.com/leetcoach/leetcoach-api/internal/service/review"
	"github.com/leetcoach/leetcoach-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrProblemNotFound),
		errors.Is(err, store.ErrCardNotFound),
		errors.Is(err, review.ErrCardNotFound),
		errors.Is(err, review.ErrProblemNotFound),
		errors.Is(err, practice.ErrCardNotFound),
		errors.Is(err, practice.ErrProblemNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, review.ErrReviewConflict):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, review.ErrInvalidQuality),
		errors.Is(err, review.ErrInvalidResult),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidQuality),
		errors.Is(err, domain.ErrInvalidResult),
		errors.Is(err, domain.ErrInvalidDifficulty),
		errors.Is(err, domain.ErrReviewInvalidDuration),
		errors.Is(err, domain.ErrReviewNotesTooLong),
		errors.Is(err, domain.ErrProblemTitleEmpty),
		errors.Is(err, domain.ErrProblemURLEmpty):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid email or password"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrProblemNotFound),
		errors.Is(err, review.ErrProblemNotFound),
		errors.Is(err, practice.ErrProblemNotFound):
		return "Problem not found"

	case errors.Is(err, store.ErrCardNotFound),
		errors.Is(err, review.ErrCardNotFound),
		errors.Is(err, practice.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, review.ErrReviewConflict):
		return "Card is being reviewed, try again"

	case errors.Is(err, review.ErrInvalidQuality),
		errors.Is(err, domain.ErrInvalidQuality):
		return "Quality score must be between 0 and 5"

	case errors.Is(err, review.ErrInvalidResult),
		errors.Is(err, domain.ErrInvalidResult):
		return "Result must be pass, fail or partial"

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example: "Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "url":
		return "invalid URL"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
