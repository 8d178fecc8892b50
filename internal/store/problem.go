package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/leetcoach/leetcoach-api/internal/domain"
)

// ProblemStore defines the interface for problem data persistence.
type ProblemStore interface {
	// Upsert inserts the problem or, when the owner already has a problem
	// with the same slug, updates its mutable fields. Returns the stored row.
	Upsert(ctx context.Context, problem *domain.Problem) (*domain.Problem, error)

	// GetByID retrieves a problem by ID, scoped to its owner.
	// Returns ErrProblemNotFound if the problem does not exist or is not
	// owned by the given user.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Problem, error)

	// GetByIDs retrieves several problems at once, keyed by ID. Problems not
	// found are simply absent from the result; no error is returned for them.
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Problem, error)

	// ListByUser returns all problems owned by the user, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Problem, error)

	// Delete removes a problem owned by the user. The problem's card and
	// reviews are removed by ON DELETE CASCADE constraints in the schema.
	// Returns ErrProblemNotFound if the problem does not exist or is not owned.
	Delete(ctx context.Context, id, userID uuid.UUID) error

	// WithTx returns a ProblemStore bound to the given transaction.
	WithTx(tx *sql.Tx) ProblemStore
}
