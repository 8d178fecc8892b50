package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// PushSubscription validation errors.
var (
	// ErrPushSubscriptionIDEmpty is returned when a subscription ID is empty or nil.
	ErrPushSubscriptionIDEmpty = errors.New("push subscription ID cannot be empty")

	// ErrPushSubscriptionUserIDEmpty is returned when the owning user ID is empty or nil.
	ErrPushSubscriptionUserIDEmpty = errors.New("push subscription user ID cannot be empty")

	// ErrPushSubscriptionEndpointEmpty is returned when the endpoint is empty.
	ErrPushSubscriptionEndpointEmpty = errors.New("push subscription endpoint cannot be empty")

	// ErrPushSubscriptionKeysEmpty is returned when either encryption key is missing.
	ErrPushSubscriptionKeysEmpty = errors.New("push subscription keys cannot be empty")
)

// PushSubscription is a browser web-push registration for one user.
// The endpoint is unique per user; re-subscribing with the same endpoint
// is treated as a benign no-op by the store.
type PushSubscription struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Endpoint  string    `json:"endpoint"`
	P256dh    string    `json:"p256dh"`
	Auth      string    `json:"auth"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPushSubscription creates a PushSubscription for the given user.
// Returns an error if validation fails.
func NewPushSubscription(userID uuid.UUID, endpoint, p256dh, auth string) (*PushSubscription, error) {
	sub := &PushSubscription{
		ID:        uuid.New(),
		UserID:    userID,
		Endpoint:  endpoint,
		P256dh:    p256dh,
		Auth:      auth,
		CreatedAt: time.Now().UTC(),
	}

	if err := sub.Validate(); err != nil {
		return nil, err
	}

	return sub, nil
}

// Validate checks if the PushSubscription has valid data.
func (s *PushSubscription) Validate() error {
	if s.ID == uuid.Nil {
		return ErrPushSubscriptionIDEmpty
	}

	if s.UserID == uuid.Nil {
		return ErrPushSubscriptionUserIDEmpty
	}

	if s.Endpoint == "" {
		return ErrPushSubscriptionEndpointEmpty
	}

	if s.P256dh == "" || s.Auth == "" {
		return ErrPushSubscriptionKeysEmpty
	}

	return nil
}
