package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/leetcoach/leetcoach-api/internal/domain"
	"github.com/leetcoach/leetcoach-api/internal/store"
)

// MockCardStore implements store.CardStore for testing.
type MockCardStore struct {
	CreateFn                func(ctx context.Context, card *domain.Card) error
	GetByProblemFn          func(ctx context.Context, userID, problemID uuid.UUID) (*domain.Card, error)
	GetByIDForUpdateFn      func(ctx context.Context, id, userID uuid.UUID) (*domain.Card, error)
	UpdateSchedulingFn      func(ctx context.Context, card *domain.Card) error
	UpdateDueAtFn           func(ctx context.Context, id, userID uuid.UUID, dueAt domain.Day) error
	ListByUserFn            func(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error)
	ListDueFn               func(ctx context.Context, userID uuid.UUID, ref domain.Day, limit int) ([]*domain.Card, error)
	CountDueFn              func(ctx context.Context, userID uuid.UUID, ref domain.Day) (int, error)
	CountOverdueFn          func(ctx context.Context, userID uuid.UUID, ref domain.Day) (int, error)
	CountDueOnFn            func(ctx context.Context, userID uuid.UUID, day domain.Day) (int, error)
	DistinctOwnersWithDueFn func(ctx context.Context, ref domain.Day) ([]uuid.UUID, error)

	Card   *domain.Card
	Cards  []*domain.Card
	Owners []uuid.UUID
	Count  int
	Err    error
}

var _ store.CardStore = (*MockCardStore)(nil)

func (m *MockCardStore) Create(ctx context.Context, card *domain.Card) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, card)
	}
	return m.Err
}

func (m *MockCardStore) GetByProblem(ctx context.Context, userID, problemID uuid.UUID) (*domain.Card, error) {
	if m.GetByProblemFn != nil {
		return m.GetByProblemFn(ctx, userID, problemID)
	}
	return m.Card, m.Err
}

func (m *MockCardStore) GetByIDForUpdate(ctx context.Context, id, userID uuid.UUID) (*domain.Card, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id, userID)
	}
	return m.Card, m.Err
}

func (m *MockCardStore) UpdateScheduling(ctx context.Context, card *domain.Card) error {
	if m.UpdateSchedulingFn != nil {
		return m.UpdateSchedulingFn(ctx, card)
	}
	return m.Err
}

func (m *MockCardStore) UpdateDueAt(ctx context.Context, id, userID uuid.UUID, dueAt domain.Day) error {
	if m.UpdateDueAtFn != nil {
		return m.UpdateDueAtFn(ctx, id, userID, dueAt)
	}
	return m.Err
}

func (m *MockCardStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return m.Cards, m.Err
}

func (m *MockCardStore) ListDue(ctx context.Context, userID uuid.UUID, ref domain.Day, limit int) ([]*domain.Card, error) {
	if m.ListDueFn != nil {
		return m.ListDueFn(ctx, userID, ref, limit)
	}
	return m.Cards, m.Err
}

func (m *MockCardStore) CountDue(ctx context.Context, userID uuid.UUID, ref domain.Day) (int, error) {
	if m.CountDueFn != nil {
		return m.CountDueFn(ctx, userID, ref)
	}
	return m.Count, m.Err
}

func (m *MockCardStore) CountOverdue(ctx context.Context, userID uuid.UUID, ref domain.Day) (int, error) {
	if m.CountOverdueFn != nil {
		return m.CountOverdueFn(ctx, userID, ref)
	}
	return m.Count, m.Err
}

func (m *MockCardStore) CountDueOn(ctx context.Context, userID uuid.UUID, day domain.Day) (int, error) {
	if m.CountDueOnFn != nil {
		return m.CountDueOnFn(ctx, userID, day)
	}
	return m.Count, m.Err
}

func (m *MockCardStore) DistinctOwnersWithDue(ctx context.Context, ref domain.Day) ([]uuid.UUID, error) {
	if m.DistinctOwnersWithDueFn != nil {
		return m.DistinctOwnersWithDueFn(ctx, ref)
	}
	return m.Owners, m.Err
}

func (m *MockCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return m
}
