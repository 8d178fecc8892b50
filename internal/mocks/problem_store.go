package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/leetcoach/leetcoach-api/internal/domain"
	"github.com/leetcoach/leetcoach-api/internal/store"
)

// MockProblemStore implements store.ProblemStore for testing.
type MockProblemStore struct {
	UpsertFn     func(ctx context.Context, problem *domain.Problem) (*domain.Problem, error)
	GetByIDFn    func(ctx context.Context, id, userID uuid.UUID) (*domain.Problem, error)
	GetByIDsFn   func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Problem, error)
	ListByUserFn func(ctx context.Context, userID uuid.UUID) ([]*domain.Problem, error)
	DeleteFn     func(ctx context.Context, id, userID uuid.UUID) error

	Problem  *domain.Problem
	Problems []*domain.Problem
	ByID     map[uuid.UUID]*domain.Problem
	Err      error
}

var _ store.ProblemStore = (*MockProblemStore)(nil)

func (m *MockProblemStore) Upsert(ctx context.Context, problem *domain.Problem) (*domain.Problem, error) {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, problem)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return problem, nil
}

func (m *MockProblemStore) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Problem, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id, userID)
	}
	return m.Problem, m.Err
}

func (m *MockProblemStore) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Problem, error) {
	if m.GetByIDsFn != nil {
		return m.GetByIDsFn(ctx, ids)
	}
	if m.ByID != nil {
		return m.ByID, m.Err
	}
	return map[uuid.UUID]*domain.Problem{}, m.Err
}

func (m *MockProblemStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Problem, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return m.Problems, m.Err
}

func (m *MockProblemStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id, userID)
	}
	return m.Err
}

func (m *MockProblemStore) WithTx(tx *sql.Tx) store.ProblemStore {
	return m
}
