package review

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leetcoach/leetcoach-api/internal/domain"
	"github.com/leetcoach/leetcoach-api/internal/mocks"
	"github.com/leetcoach/leetcoach-api/internal/store"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("pgx", "postgres://unused")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// testService wires a Service to the given fakes. The transaction runner is
// replaced so the submission flow runs without a database; the fakes' WithTx
// returns the fake itself.
func testService(
	t *testing.T,
	cards *mocks.MockCardStore,
	reviews *mocks.MockReviewStore,
	problems *mocks.MockProblemStore,
) *Service {
	t.Helper()

	svc := NewService(testDB(t), cards, reviews, problems, time.UTC, nil)
	svc.runTx = func(ctx context.Context, db *sql.DB, fn store.TxFn) error {
		return fn(ctx, nil)
	}
	return svc
}

func reviewCard(userID uuid.UUID) *domain.Card {
	now := time.Now().UTC()
	return &domain.Card{
		ID:           uuid.New(),
		UserID:       userID,
		ProblemID:    uuid.New(),
		State:        domain.CardStateReview,
		EaseFactor:   2.5,
		IntervalDays: 3,
		Repetitions:  2,
		Lapses:       0,
		DueAt:        domain.Today(time.UTC),
		LastQ:        4,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestSubmitAdvancesCard(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	card := reviewCard(userID)
	problem := &domain.Problem{
		ID:         card.ProblemID,
		UserID:     userID,
		Title:      "Two Sum",
		Difficulty: domain.DifficultyMedium,
		Tags:       []string{"Array"},
	}

	var created *domain.Review
	var updated *domain.Card
	cards := &mocks.MockCardStore{
		GetByIDForUpdateFn: func(ctx context.Context, id, owner uuid.UUID) (*domain.Card, error) {
			assert.Equal(t, card.ID, id)
			assert.Equal(t, userID, owner)
			return card, nil
		},
		UpdateSchedulingFn: func(ctx context.Context, c *domain.Card) error {
			updated = c
			return nil
		},
	}
	reviews := &mocks.MockReviewStore{
		CreateFn: func(ctx context.Context, r *domain.Review) error {
			created = r
			return nil
		},
	}
	problems := &mocks.MockProblemStore{Problem: problem}

	svc := testService(t, cards, reviews, problems)
	result, err := svc.Submit(context.Background(), userID, SubmitRequest{
		CardID:      card.ID,
		Result:      domain.ReviewResultPass,
		Q:           5,
		DurationSec: 120,
	})
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, domain.ReviewModeReview, created.Mode, "mode comes from the pre-review repetition count")
	assert.Equal(t, card.ID, created.CardID)
	assert.Equal(t, 5, created.Q)
	assert.Equal(t, created.FinishedAt.Add(-2*time.Minute), created.StartedAt)

	require.NotNil(t, updated)
	assert.Equal(t, 8, updated.IntervalDays, "round(3 * 2.5)")
	assert.InDelta(t, 2.6, updated.EaseFactor, 1e-9)
	assert.Equal(t, 3, updated.Repetitions)
	assert.Equal(t, 0, updated.Lapses)
	assert.Equal(t, domain.CardStateReview, updated.State)
	assert.Equal(t, 5, updated.LastQ)
	assert.True(t, updated.DueAt.Equal(domain.Today(time.UTC).AddDays(8)))

	assert.Same(t, updated, result.Card)
	assert.True(t, result.NextDue.Equal(updated.DueAt))
}

func TestSubmitFirstReviewRunsInLearnMode(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	card := reviewCard(userID)
	card.State = domain.CardStateLearning
	card.Repetitions = 0
	card.IntervalDays = 0

	var created *domain.Review
	cards := &mocks.MockCardStore{Card: card}
	reviews := &mocks.MockReviewStore{
		CreateFn: func(ctx context.Context, r *domain.Review) error {
			created = r
			return nil
		},
	}
	problems := &mocks.MockProblemStore{
		Problem: &domain.Problem{ID: card.ProblemID, UserID: userID, Difficulty: domain.DifficultyEasy},
	}

	svc := testService(t, cards, reviews, problems)
	result, err := svc.Submit(context.Background(), userID, SubmitRequest{
		CardID: card.ID,
		Result: domain.ReviewResultPass,
		Q:      4,
	})
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, domain.ReviewModeLearn, created.Mode)
	assert.Equal(t, 1, result.Card.IntervalDays)
	assert.Equal(t, domain.CardStateReview, result.Card.State)
}

func TestSubmitUnknownCard(t *testing.T) {
	t.Parallel()

	cards := &mocks.MockCardStore{Err: store.ErrCardNotFound}
	svc := testService(t, cards, &mocks.MockReviewStore{}, &mocks.MockProblemStore{})

	_, err := svc.Submit(context.Background(), uuid.New(), SubmitRequest{
		CardID: uuid.New(),
		Result: domain.ReviewResultPass,
		Q:      4,
	})
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestSubmitLockedCardConflicts(t *testing.T) {
	t.Parallel()

	cards := &mocks.MockCardStore{Err: store.ErrUpdateConflict}
	svc := testService(t, cards, &mocks.MockReviewStore{}, &mocks.MockProblemStore{})

	_, err := svc.Submit(context.Background(), uuid.New(), SubmitRequest{
		CardID: uuid.New(),
		Result: domain.ReviewResultFail,
		Q:      1,
	})
	assert.ErrorIs(t, err, ErrReviewConflict)
}

func TestSubmitRejectsOutOfRangeQuality(t *testing.T) {
	t.Parallel()

	svc := testService(t, &mocks.MockCardStore{}, &mocks.MockReviewStore{}, &mocks.MockProblemStore{})

	_, err := svc.Submit(context.Background(), uuid.New(), SubmitRequest{
		CardID: uuid.New(),
		Result: domain.ReviewResultPass,
		Q:      6,
	})
	assert.ErrorIs(t, err, ErrInvalidQuality)

	_, err = svc.Submit(context.Background(), uuid.New(), SubmitRequest{
		CardID: uuid.New(),
		Result: domain.ReviewResultPass,
		Q:      -1,
	})
	assert.ErrorIs(t, err, ErrInvalidQuality)
}

func TestSubmitRejectsUnknownResult(t *testing.T) {
	t.Parallel()

	svc := testService(t, &mocks.MockCardStore{}, &mocks.MockReviewStore{}, &mocks.MockProblemStore{})

	_, err := svc.Submit(context.Background(), uuid.New(), SubmitRequest{
		CardID: uuid.New(),
		Result: "meh",
		Q:      4,
	})
	assert.ErrorIs(t, err, ErrInvalidResult)
}

func TestSubmitRejectsNegativeDuration(t *testing.T) {
	t.Parallel()

	svc := testService(t, &mocks.MockCardStore{}, &mocks.MockReviewStore{}, &mocks.MockProblemStore{})

	_, err := svc.Submit(context.Background(), uuid.New(), SubmitRequest{
		CardID:      uuid.New(),
		Result:      domain.ReviewResultPass,
		Q:           4,
		DurationSec: -10,
	})
	assert.ErrorIs(t, err, domain.ErrReviewInvalidDuration)
}
