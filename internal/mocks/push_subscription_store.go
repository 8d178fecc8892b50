package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/leetcoach/leetcoach-api/internal/domain"
	"github.com/leetcoach/leetcoach-api/internal/store"
)

// MockPushSubscriptionStore implements store.PushSubscriptionStore for testing.
type MockPushSubscriptionStore struct {
	CreateFn     func(ctx context.Context, sub *domain.PushSubscription) error
	ListByUserFn func(ctx context.Context, userID uuid.UUID) ([]*domain.PushSubscription, error)
	DeleteFn     func(ctx context.Context, id uuid.UUID) error

	Subs []*domain.PushSubscription
	Err  error

	mu      sync.Mutex
	Deleted []uuid.UUID
}

var _ store.PushSubscriptionStore = (*MockPushSubscriptionStore)(nil)

func (m *MockPushSubscriptionStore) Create(ctx context.Context, sub *domain.PushSubscription) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, sub)
	}
	return m.Err
}

func (m *MockPushSubscriptionStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.PushSubscription, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return m.Subs, m.Err
}

func (m *MockPushSubscriptionStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	m.Deleted = append(m.Deleted, id)
	m.mu.Unlock()
	return nil
}
