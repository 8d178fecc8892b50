package postgres

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/leetcoach/leetcoach-api/internal/domain"
	"github.com/leetcoach/leetcoach-api/internal/platform/logger"
	"github.com/leetcoach/leetcoach-api/internal/store"
)

// PushSubscriptionStore implements the store.PushSubscriptionStore interface
// using a PostgreSQL database as the storage backend.
type PushSubscriptionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPushSubscriptionStore creates a new PostgreSQL implementation of the
// PushSubscriptionStore interface. If logger is nil, a default logger will
// be used.
func NewPushSubscriptionStore(db store.DBTX, logger *slog.Logger) *PushSubscriptionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PushSubscriptionStore{
		db:     db,
		logger: logger.With(slog.String("component", "push_subscription_store")),
	}
}

// Ensure PushSubscriptionStore implements store.PushSubscriptionStore interface
var _ store.PushSubscriptionStore = (*PushSubscriptionStore)(nil)

// Create implements store.PushSubscriptionStore.Create.
// Re-subscribing an endpoint the user already registered is a benign no-op.
func (s *PushSubscriptionStore) Create(ctx context.Context, sub *domain.PushSubscription) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := sub.Validate(); err != nil {
		log.Warn("push subscription validation failed",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO push_subscriptions (id, user_id, endpoint, p256dh, auth, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, endpoint) DO NOTHING
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		sub.ID,
		sub.UserID,
		sub.Endpoint,
		sub.P256dh,
		sub.Auth,
		sub.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create push subscription",
			slog.String("error", err.Error()),
			slog.String("user_id", sub.UserID.String()))
		return err
	}

	log.Debug("push subscription stored",
		slog.String("user_id", sub.UserID.String()))
	return nil
}

// Delete implements store.PushSubscriptionStore.Delete.
func (s *PushSubscriptionStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM push_subscriptions WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete push subscription",
			slog.String("error", err.Error()),
			slog.String("subscription_id", id.String()))
		return err
	}
	return nil
}

// ListByUser implements store.PushSubscriptionStore.ListByUser.
func (s *PushSubscriptionStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.PushSubscription, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, endpoint, p256dh, auth, created_at
		FROM push_subscriptions
		WHERE user_id = $1
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list push subscriptions",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer closeRows(rows, s.logger)

	subs := []*domain.PushSubscription{}
	for rows.Next() {
		var sub domain.PushSubscription
		err := rows.Scan(
			&sub.ID,
			&sub.UserID,
			&sub.Endpoint,
			&sub.P256dh,
			&sub.Auth,
			&sub.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		subs = append(subs, &sub)
	}

	return subs, rows.Err()
}
