package digest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leetcoach/leetcoach-api/internal/domain"
	"github.com/leetcoach/leetcoach-api/internal/mocks"
	"github.com/leetcoach/leetcoach-api/internal/store"
)

func aggregatorFixture(t *testing.T) (uuid.UUID, domain.Day, *mocks.MockUserStore, *mocks.MockCardStore, *mocks.MockProblemStore, *mocks.MockReviewStore) {
	t.Helper()

	userID := uuid.New()
	day := domain.NewDay(2026, time.August, 31)

	users := &mocks.MockUserStore{
		User: &domain.User{ID: userID, Email: "dev@example.com", Name: "Ada"},
	}
	cards := &mocks.MockCardStore{}
	problems := &mocks.MockProblemStore{}
	reviews := &mocks.MockReviewStore{}
	return userID, day, users, cards, problems, reviews
}

func TestAggregatorSummarize(t *testing.T) {
	t.Parallel()

	userID, day, users, cards, problems, reviews := aggregatorFixture(t)

	problemID := uuid.New()
	dueCard := &domain.Card{
		ID:        uuid.New(),
		UserID:    userID,
		ProblemID: problemID,
		DueAt:     day.AddDays(-1),
	}

	cards.CountDueFn = func(ctx context.Context, id uuid.UUID, ref domain.Day) (int, error) {
		assert.Equal(t, userID, id)
		assert.True(t, ref.Equal(day))
		return 3, nil
	}
	cards.CountOverdueFn = func(ctx context.Context, id uuid.UUID, ref domain.Day) (int, error) {
		return 1, nil
	}
	cards.CountDueOnFn = func(ctx context.Context, id uuid.UUID, on domain.Day) (int, error) {
		switch {
		case on.Equal(day):
			return 2, nil
		case on.Equal(day.AddDays(1)):
			return 4, nil
		case on.Equal(day.AddDays(2)):
			return 5, nil
		case on.Equal(day.AddDays(3)):
			return 6, nil
		default:
			return 0, nil
		}
	}
	cards.ListDueFn = func(ctx context.Context, id uuid.UUID, ref domain.Day, limit int) ([]*domain.Card, error) {
		assert.Equal(t, 5, limit, "preview is capped at five items")
		return []*domain.Card{dueCard}, nil
	}
	problems.ByID = map[uuid.UUID]*domain.Problem{
		problemID: {ID: problemID, Title: "Two Sum", URL: "https://leetcode.com/problems/two-sum", Difficulty: domain.DifficultyEasy},
	}
	reviews.Stats = store.ReviewStats{Total: 10, Pass: 7}

	agg := NewAggregator(users, cards, problems, reviews, nil)
	sum, err := agg.Summarize(context.Background(), userID, day)
	require.NoError(t, err)

	assert.Equal(t, "dev@example.com", sum.Email)
	assert.Equal(t, "Ada", sum.Name)
	assert.Equal(t, 3, sum.DueCount)
	assert.Equal(t, 1, sum.Overdue)
	assert.Equal(t, 2, sum.DueToday)
	assert.Equal(t, 4, sum.DueTomorrow)
	assert.Equal(t, 5, sum.DueIn2Days)
	assert.Equal(t, 6, sum.DueIn3Days)
	require.Len(t, sum.Preview, 1)
	assert.Equal(t, "Two Sum", sum.Preview[0].Title)
	require.NotNil(t, sum.Weekly)
	assert.Equal(t, store.ReviewStats{Total: 10, Pass: 7}, *sum.Weekly)
}

func TestAggregatorWeeklyWindowAnchoredAtDay(t *testing.T) {
	t.Parallel()

	userID, day, users, cards, problems, reviews := aggregatorFixture(t)

	day = domain.NewDay(2026, time.August, 1)
	var gotFrom, gotTo time.Time
	reviews.CountByFinishedRangeFn = func(ctx context.Context, id uuid.UUID, from, to time.Time) (store.ReviewStats, error) {
		gotFrom, gotTo = from, to
		return store.ReviewStats{Total: 1, Pass: 1}, nil
	}

	agg := NewAggregator(users, cards, problems, reviews, nil)
	sum, err := agg.Summarize(context.Background(), userID, day)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, time.July, 25, 0, 0, 0, 0, time.UTC), gotFrom,
		"window starts seven days before the reference day, not the wall clock")
	assert.Equal(t, time.Date(2026, time.August, 2, 0, 0, 0, 0, time.UTC), gotTo,
		"window covers the whole reference day")
	require.NotNil(t, sum.Weekly)
	assert.Equal(t, 1, sum.Weekly.Total)
}

func TestAggregatorWeeklyOmittedWithoutHistory(t *testing.T) {
	t.Parallel()

	userID, day, users, cards, problems, reviews := aggregatorFixture(t)
	reviews.Stats = store.ReviewStats{}

	agg := NewAggregator(users, cards, problems, reviews, nil)
	sum, err := agg.Summarize(context.Background(), userID, day)
	require.NoError(t, err)
	assert.Nil(t, sum.Weekly)
}

func TestAggregatorSummarizeSoftFailures(t *testing.T) {
	t.Parallel()

	userID, day, users, cards, problems, reviews := aggregatorFixture(t)

	cards.CountDueFn = func(ctx context.Context, id uuid.UUID, ref domain.Day) (int, error) {
		return 2, nil
	}
	cards.CountOverdueFn = func(ctx context.Context, id uuid.UUID, ref domain.Day) (int, error) {
		return 0, errors.New("boom")
	}
	cards.CountDueOnFn = func(ctx context.Context, id uuid.UUID, on domain.Day) (int, error) {
		return 0, errors.New("boom")
	}
	cards.ListDueFn = func(ctx context.Context, id uuid.UUID, ref domain.Day, limit int) ([]*domain.Card, error) {
		return nil, errors.New("boom")
	}
	reviews.Err = errors.New("boom")

	agg := NewAggregator(users, cards, problems, reviews, nil)
	sum, err := agg.Summarize(context.Background(), userID, day)
	require.NoError(t, err, "secondary query failures do not fail the summary")

	assert.Equal(t, 2, sum.DueCount)
	assert.Equal(t, 0, sum.Overdue)
	assert.Equal(t, 0, sum.DueToday)
	assert.Empty(t, sum.Preview)
	assert.Nil(t, sum.Weekly)
}

func TestAggregatorSummarizeDueCountFailureIsFatal(t *testing.T) {
	t.Parallel()

	userID, day, users, cards, problems, reviews := aggregatorFixture(t)

	cards.CountDueFn = func(ctx context.Context, id uuid.UUID, ref domain.Day) (int, error) {
		return 0, errors.New("connection reset")
	}

	agg := NewAggregator(users, cards, problems, reviews, nil)
	_, err := agg.Summarize(context.Background(), userID, day)
	assert.Error(t, err, "the due count drives the notification gate and must be accurate")
}

func TestAggregatorSummarizeUnknownUser(t *testing.T) {
	t.Parallel()

	userID, day, users, cards, problems, reviews := aggregatorFixture(t)
	users.User = nil
	users.Err = store.ErrUserNotFound

	agg := NewAggregator(users, cards, problems, reviews, nil)
	_, err := agg.Summarize(context.Background(), userID, day)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
