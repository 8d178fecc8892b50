package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/leetcoach/leetcoach-api/internal/domain"
	"github.com/leetcoach/leetcoach-api/internal/service/digest"
	"github.com/leetcoach/leetcoach-api/internal/service/practice"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name"     validate:"max=100"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// Token is the JWT token used for API authorization
	Token string `json:"token"`

	// ExpiresAt is the ISO 8601 timestamp when the token expires
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateProblemRequest defines the payload for adding a tracked problem.
type CreateProblemRequest struct {
	Title      string   `json:"title"      validate:"required,max=200"`
	URL        string   `json:"url"        validate:"required,url"`
	Difficulty string   `json:"difficulty" validate:"required,oneof=Easy Medium Hard"`
	Tags       []string `json:"tags"       validate:"max=20,dive,max=50"`
}

// ProblemResponse pairs a problem with its scheduling card.
type ProblemResponse struct {
	Problem *domain.Problem `json:"problem"`
	Card    *domain.Card    `json:"card,omitempty"`
}

// SubmitReviewRequest defines the payload for recording a graded attempt.
type SubmitReviewRequest struct {
	CardID      uuid.UUID `json:"card_id"      validate:"required"`
	Result      string    `json:"result"       validate:"required,oneof=pass fail partial"`
	Q           int       `json:"q"            validate:"min=0,max=5"`
	DurationSec int       `json:"duration_sec" validate:"min=0"`
	ErrorTypes  []string  `json:"error_types"  validate:"max=20,dive,max=50"`
	Notes       string    `json:"notes"        validate:"max=200"`
}

// SubmitReviewResponse defines the successful response for a review submission.
type SubmitReviewResponse struct {
	Review *domain.Review `json:"review"`
	Card   *domain.Card   `json:"card"`
}

// RescheduleCardRequest defines the payload for manually moving a due date.
type RescheduleCardRequest struct {
	DueAt string `json:"due_at" validate:"required"`
}

// QueueResponse defines the due-queue response.
type QueueResponse struct {
	Day   domain.Day           `json:"day"`
	Items []practice.QueueItem `json:"items"`
}

// WeekResponse defines the week-ahead response.
type WeekResponse struct {
	Days []practice.WeekDay `json:"days"`
}

// PushSubscribeRequest mirrors the browser PushSubscription JSON shape.
type PushSubscribeRequest struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
	Keys     struct {
		P256dh string `json:"p256dh" validate:"required"`
		Auth   string `json:"auth"   validate:"required"`
	} `json:"keys"`
}

// DigestRunResponse defines the response of the cron digest trigger.
type DigestRunResponse struct {
	Report *digest.Report `json:"report"`
}
