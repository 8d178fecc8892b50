package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/leetcoach/leetcoach-api/internal/domain"
)

// PushSubscriptionStore defines the interface for push subscription persistence.
type PushSubscriptionStore interface {
	// Create saves a subscription. Inserting a duplicate endpoint for the
	// same user is a benign no-op, not an error.
	Create(ctx context.Context, sub *domain.PushSubscription) error

	// ListByUser returns all subscriptions registered by the user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.PushSubscription, error)

	// Delete removes a subscription, typically after the push service reports
	// its endpoint gone. Deleting a missing subscription is a no-op.
	Delete(ctx context.Context, id uuid.UUID) error
}
