package digest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leetcoach/leetcoach-api/internal/domain"
	"github.com/leetcoach/leetcoach-api/internal/mocks"
)

// fakeEmailSender records deliveries and can fail selected recipients.
type fakeEmailSender struct {
	mu     sync.Mutex
	sent   []string
	failTo map[string]error
}

func (f *fakeEmailSender) Send(ctx context.Context, to, subject, html string) error {
	if err, ok := f.failTo[to]; ok {
		return err
	}
	f.mu.Lock()
	f.sent = append(f.sent, to)
	f.mu.Unlock()
	return nil
}

// fakePushSender records deliveries and can fail selected endpoints.
type fakePushSender struct {
	mu     sync.Mutex
	sent   []string
	failAt map[string]error
}

func (f *fakePushSender) Send(ctx context.Context, sub *domain.PushSubscription, payload []byte) error {
	if err, ok := f.failAt[sub.Endpoint]; ok {
		return err
	}
	f.mu.Lock()
	f.sent = append(f.sent, sub.Endpoint)
	f.mu.Unlock()
	return nil
}

type dispatcherFixture struct {
	day      domain.Day
	users    *mocks.MockUserStore
	cards    *mocks.MockCardStore
	problems *mocks.MockProblemStore
	reviews  *mocks.MockReviewStore
	subs     *mocks.MockPushSubscriptionStore
	email    *fakeEmailSender
	push     *fakePushSender
}

// newDispatcherFixture wires a dispatcher over two users who both have work
// due. Tests mutate the mocks before calling Run.
func newDispatcherFixture(t *testing.T, owners []uuid.UUID) *dispatcherFixture {
	t.Helper()

	f := &dispatcherFixture{
		day: domain.NewDay(2026, time.August, 31),
		users: &mocks.MockUserStore{
			GetByIDFn: nil,
		},
		cards:    &mocks.MockCardStore{Owners: owners, Count: 2},
		problems: &mocks.MockProblemStore{},
		reviews:  &mocks.MockReviewStore{},
		subs:     &mocks.MockPushSubscriptionStore{},
		email:    &fakeEmailSender{failTo: map[string]error{}},
		push:     &fakePushSender{failAt: map[string]error{}},
	}
	f.users.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
		return &domain.User{ID: id, Email: id.String() + "@example.com", Name: "Dev"}, nil
	}
	return f
}

func (f *dispatcherFixture) dispatcher(workers int) *Dispatcher {
	agg := NewAggregator(f.users, f.cards, f.problems, f.reviews, nil)
	return NewDispatcher(agg, f.cards, f.subs, f.email, f.push, "https://app.example.com", workers, nil)
}

func TestDispatcherRunNotifiesAllCandidates(t *testing.T) {
	t.Parallel()

	owners := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	f := newDispatcherFixture(t, owners)
	for _, id := range owners {
		f.subs.Subs = append(f.subs.Subs, &domain.PushSubscription{
			ID: uuid.New(), UserID: id, Endpoint: "https://push.example.com/" + id.String(),
		})
	}
	// Every user sees the full subscription list from the shared mock; pin it
	// to one subscription per user instead.
	subsByUser := map[uuid.UUID][]*domain.PushSubscription{}
	for i, id := range owners {
		subsByUser[id] = f.subs.Subs[i : i+1]
	}
	f.subs.ListByUserFn = func(ctx context.Context, userID uuid.UUID) ([]*domain.PushSubscription, error) {
		return subsByUser[userID], nil
	}

	report, err := f.dispatcher(2).Run(context.Background(), f.day)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Candidates)
	assert.Equal(t, 3, report.Notified)
	assert.Equal(t, 3, report.EmailsSent)
	assert.Equal(t, 3, report.PushesSent)
	assert.Equal(t, 0, report.Failures)
	assert.Len(t, f.email.sent, 3)
	assert.Len(t, f.push.sent, 3)
}

func TestDispatcherSkipsUsersWithNothingDue(t *testing.T) {
	t.Parallel()

	owners := []uuid.UUID{uuid.New(), uuid.New()}
	f := newDispatcherFixture(t, owners)
	f.cards.CountDueFn = func(ctx context.Context, id uuid.UUID, ref domain.Day) (int, error) {
		if id == owners[0] {
			return 0, nil
		}
		return 1, nil
	}

	report, err := f.dispatcher(1).Run(context.Background(), f.day)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Candidates)
	assert.Equal(t, 1, report.Notified, "a user whose queue emptied since the candidate query is skipped")
	assert.Equal(t, 1, report.EmailsSent)
	assert.Equal(t, 0, report.Failures)
}

func TestDispatcherIsolatesUserFailures(t *testing.T) {
	t.Parallel()

	owners := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	f := newDispatcherFixture(t, owners)
	f.users.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
		if id == owners[1] {
			return nil, errors.New("connection reset")
		}
		return &domain.User{ID: id, Email: id.String() + "@example.com"}, nil
	}

	report, err := f.dispatcher(2).Run(context.Background(), f.day)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Notified, "one user's failure must not block the others")
	assert.Equal(t, 2, report.EmailsSent)
	assert.Equal(t, 1, report.Failures)
}

func TestDispatcherIsolatesChannelFailures(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	f := newDispatcherFixture(t, []uuid.UUID{owner})
	f.email.failTo[owner.String()+"@example.com"] = errors.New("smtp down")
	f.subs.Subs = []*domain.PushSubscription{
		{ID: uuid.New(), UserID: owner, Endpoint: "https://push.example.com/a"},
	}

	report, err := f.dispatcher(1).Run(context.Background(), f.day)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Notified)
	assert.Equal(t, 0, report.EmailsSent)
	assert.Equal(t, 1, report.PushesSent, "a failed email must not stop the push delivery")
	assert.Equal(t, 1, report.Failures)
}

func TestDispatcherPrunesGoneSubscriptions(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	f := newDispatcherFixture(t, []uuid.UUID{owner})
	gone := &domain.PushSubscription{ID: uuid.New(), UserID: owner, Endpoint: "https://push.example.com/gone"}
	live := &domain.PushSubscription{ID: uuid.New(), UserID: owner, Endpoint: "https://push.example.com/live"}
	f.subs.Subs = []*domain.PushSubscription{gone, live}
	f.push.failAt[gone.Endpoint] = ErrSubscriptionGone

	report, err := f.dispatcher(1).Run(context.Background(), f.day)
	require.NoError(t, err)

	assert.Equal(t, 1, report.PushesSent)
	assert.Equal(t, 0, report.Failures, "a gone endpoint is pruned, not counted as a failure")
	assert.Equal(t, []uuid.UUID{gone.ID}, f.subs.Deleted)
}

func TestDispatcherDisabledChannels(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	f := newDispatcherFixture(t, []uuid.UUID{owner})
	f.subs.Subs = []*domain.PushSubscription{
		{ID: uuid.New(), UserID: owner, Endpoint: "https://push.example.com/a"},
	}

	agg := NewAggregator(f.users, f.cards, f.problems, f.reviews, nil)
	d := NewDispatcher(agg, f.cards, f.subs, nil, nil, "https://app.example.com", 1, nil)

	report, err := d.Run(context.Background(), f.day)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Notified)
	assert.Equal(t, 0, report.EmailsSent)
	assert.Equal(t, 0, report.PushesSent)
	assert.Equal(t, 0, report.Failures)
}

func TestDispatcherCandidateQueryFailure(t *testing.T) {
	t.Parallel()

	f := newDispatcherFixture(t, nil)
	f.cards.DistinctOwnersWithDueFn = func(ctx context.Context, ref domain.Day) ([]uuid.UUID, error) {
		return nil, errors.New("timeout")
	}

	_, err := f.dispatcher(1).Run(context.Background(), f.day)
	assert.Error(t, err)
}
