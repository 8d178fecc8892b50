// Package review implements review submission: each graded attempt is
// recorded append-only and the card's schedule is advanced with the SM-2
// variant in internal/domain/sm2, inside a transaction that serializes
// writers per card.
package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/leetcoach/leetcoach-api/internal/domain"
	"github.com/leetcoach/leetcoach-api/internal/domain/sm2"
	"github.com/leetcoach/leetcoach-api/internal/platform/logger"
	"github.com/leetcoach/leetcoach-api/internal/store"
)

// SubmitRequest carries one graded attempt against a card.
type SubmitRequest struct {
	CardID      uuid.UUID
	Result      domain.ReviewResult
	Q           int
	DurationSec int
	ErrorTypes  []string
	Notes       string
}

// SubmitResult is the outcome of a review submission: the recorded review
// and the card with its advanced schedule.
type SubmitResult struct {
	Review  *domain.Review
	Card    *domain.Card
	NextDue domain.Day
}

// Service processes review submissions.
type Service struct {
	db       *sql.DB
	cards    store.CardStore
	reviews  store.ReviewStore
	problems store.ProblemStore
	loc      *time.Location
	logger   *slog.Logger

	// runTx wraps fn in a database transaction. Tests substitute it to run
	// the submission flow against fakes without a database.
	runTx func(ctx context.Context, db *sql.DB, fn store.TxFn) error
}

// NewService creates a review Service. The location determines the user-local
// midnight from which due dates are counted; nil means time.Local.
func NewService(
	db *sql.DB,
	cards store.CardStore,
	reviews store.ReviewStore,
	problems store.ProblemStore,
	loc *time.Location,
	logger *slog.Logger,
) *Service {
	if db == nil {
		panic("db cannot be nil")
	}
	if cards == nil || reviews == nil || problems == nil {
		panic("stores cannot be nil")
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		db:       db,
		cards:    cards,
		reviews:  reviews,
		problems: problems,
		loc:      loc,
		logger:   logger.With(slog.String("component", "review_service")),
		runTx:    store.RunInTransaction,
	}
}

// Submit records one graded attempt and advances the card's schedule.
//
// The card row is locked for the duration of the transaction so concurrent
// submissions for the same card cannot interleave their read-modify-write;
// the loser observes ErrReviewConflict and may retry. Out-of-range quality
// scores are rejected here, before the scheduler is invoked.
func (s *Service) Submit(ctx context.Context, userID uuid.UUID, req SubmitRequest) (*SubmitResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if req.Q < 0 || req.Q > 5 {
		return nil, ErrInvalidQuality
	}
	if !req.Result.IsValid() {
		return nil, ErrInvalidResult
	}
	if req.DurationSec < 0 {
		return nil, domain.ErrReviewInvalidDuration
	}

	now := time.Now().In(s.loc)
	today := domain.DayOf(now)

	var result *SubmitResult
	err := s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cards.WithTx(tx)
		reviews := s.reviews.WithTx(tx)

		card, err := cards.GetByIDForUpdate(ctx, req.CardID, userID)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrCardNotFound):
				return ErrCardNotFound
			case errors.Is(err, store.ErrUpdateConflict):
				return ErrReviewConflict
			default:
				return fmt.Errorf("failed to load card: %w", err)
			}
		}

		problem, err := s.problems.GetByID(ctx, card.ProblemID, userID)
		if err != nil {
			if errors.Is(err, store.ErrProblemNotFound) {
				return ErrProblemNotFound
			}
			return fmt.Errorf("failed to load problem: %w", err)
		}

		// Mode derivation in NewReview needs the pre-review repetition count,
		// so the review is built before the schedule advances.
		rec, err := domain.NewReview(card, req.Result, req.Q, req.DurationSec, req.ErrorTypes, req.Notes, now.UTC())
		if err != nil {
			return err
		}
		if err := reviews.Create(ctx, rec); err != nil {
			return fmt.Errorf("failed to record review: %w", err)
		}

		next := sm2.Advance(sm2.SnapshotOf(card), req.Q, problem.Difficulty, problem.Tags)
		card.State = next.State
		card.EaseFactor = next.EaseFactor
		card.IntervalDays = next.IntervalDays
		card.Repetitions = next.Repetitions
		card.Lapses = next.Lapses
		card.LastQ = req.Q
		card.DueAt = sm2.NextDue(today, next)

		if err := cards.UpdateScheduling(ctx, card); err != nil {
			return fmt.Errorf("failed to update card: %w", err)
		}

		result = &SubmitResult{Review: rec, Card: card, NextDue: card.DueAt}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCardNotFound) ||
			errors.Is(err, ErrProblemNotFound) ||
			errors.Is(err, ErrReviewConflict) {
			return nil, err
		}
		log.Error("failed to submit review",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", req.CardID.String()))
		return nil, err
	}

	log.Info("review submitted",
		slog.String("user_id", userID.String()),
		slog.String("card_id", req.CardID.String()),
		slog.Int("q", req.Q),
		slog.Int("interval_days", result.Card.IntervalDays),
		slog.String("next_due", result.NextDue.String()))
	return result, nil
}
