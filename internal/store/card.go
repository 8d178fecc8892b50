package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/leetcoach/leetcoach-api/internal/domain"
)

// CardStore defines the interface for card data persistence.
//
// The scheduling read-modify-write (GetByIDForUpdate followed by
// UpdateScheduling) must run inside a transaction so the row lock serializes
// concurrent reviews of the same card. Use WithTx together with
// store.RunInTransaction.
type CardStore interface {
	// Create saves a new card to the store.
	// Returns ErrDuplicate if the owner already has a card for the problem.
	Create(ctx context.Context, card *domain.Card) error

	// GetByProblem retrieves the owner's card for the given problem.
	// Returns ErrCardNotFound if no card exists.
	GetByProblem(ctx context.Context, userID, problemID uuid.UUID) (*domain.Card, error)

	// GetByIDForUpdate retrieves a card by ID, scoped to its owner, taking a
	// row lock for the remainder of the enclosing transaction. A lock held by
	// a concurrent writer surfaces as ErrUpdateConflict rather than blocking
	// indefinitely. Returns ErrCardNotFound if the card does not exist or is
	// not owned by the given user.
	GetByIDForUpdate(ctx context.Context, id, userID uuid.UUID) (*domain.Card, error)

	// UpdateScheduling persists the scheduling fields produced by a review:
	// state, ease factor, interval, repetitions, lapses, last_q and due_at.
	// Returns ErrCardNotFound if the card does not exist.
	UpdateScheduling(ctx context.Context, card *domain.Card) error

	// UpdateDueAt reschedules a card without touching its other fields.
	// Returns ErrCardNotFound if the card does not exist or is not owned.
	UpdateDueAt(ctx context.Context, id, userID uuid.UUID, dueAt domain.Day) error

	// ListByUser returns all of the user's cards.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error)

	// ListDue returns up to limit cards with due_at <= ref, ordered ascending
	// by due_at with ties broken by creation time then ID (the same order
	// produced by sm2.SelectDue). A limit <= 0 means no limit.
	ListDue(ctx context.Context, userID uuid.UUID, ref domain.Day, limit int) ([]*domain.Card, error)

	// CountDue counts cards with due_at <= ref.
	CountDue(ctx context.Context, userID uuid.UUID, ref domain.Day) (int, error)

	// CountOverdue counts cards with due_at < ref.
	CountOverdue(ctx context.Context, userID uuid.UUID, ref domain.Day) (int, error)

	// CountDueOn counts cards with due_at == day.
	CountDueOn(ctx context.Context, userID uuid.UUID, day domain.Day) (int, error)

	// DistinctOwnersWithDue returns the IDs of every user owning at least one
	// card with due_at <= ref. This is the digest candidate set.
	DistinctOwnersWithDue(ctx context.Context, ref domain.Day) ([]uuid.UUID, error)

	// WithTx returns a CardStore bound to the given transaction.
	WithTx(tx *sql.Tx) CardStore
}
