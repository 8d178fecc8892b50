package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/leetcoach/leetcoach-api/internal/domain"
	"github.com/leetcoach/leetcoach-api/internal/store"
)

// MockReviewStore implements store.ReviewStore for testing.
type MockReviewStore struct {
	CreateFn               func(ctx context.Context, review *domain.Review) error
	ListByUserFn           func(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]*domain.Review, error)
	CountByFinishedRangeFn func(ctx context.Context, userID uuid.UUID, from, to time.Time) (store.ReviewStats, error)

	Reviews []*domain.Review
	Stats   store.ReviewStats
	Err     error
}

var _ store.ReviewStore = (*MockReviewStore)(nil)

func (m *MockReviewStore) Create(ctx context.Context, review *domain.Review) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, review)
	}
	return m.Err
}

func (m *MockReviewStore) ListByUser(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]*domain.Review, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID, from, to)
	}
	return m.Reviews, m.Err
}

func (m *MockReviewStore) CountByFinishedRange(ctx context.Context, userID uuid.UUID, from, to time.Time) (store.ReviewStats, error) {
	if m.CountByFinishedRangeFn != nil {
		return m.CountByFinishedRangeFn(ctx, userID, from, to)
	}
	return m.Stats, m.Err
}

func (m *MockReviewStore) WithTx(tx *sql.Tx) store.ReviewStore {
	return m
}
