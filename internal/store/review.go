package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/leetcoach/leetcoach-api/internal/domain"
)

// ReviewStats aggregates a window of reviews for digest rendering.
type ReviewStats struct {
	Total int
	Pass  int
}

// ReviewStore defines the interface for review data persistence.
// Reviews are append-only: there is no update or delete.
type ReviewStore interface {
	// Create appends a review to the log.
	Create(ctx context.Context, review *domain.Review) error

	// ListByUser returns the user's reviews, newest first, optionally bounded
	// by finished_at. Nil bounds are open.
	ListByUser(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]*domain.Review, error)

	// CountByFinishedRange returns the number of reviews finished in
	// [from, to] together with how many of them passed.
	CountByFinishedRange(ctx context.Context, userID uuid.UUID, from, to time.Time) (ReviewStats, error)

	// WithTx returns a ReviewStore bound to the given transaction.
	WithTx(tx *sql.Tx) ReviewStore
}
