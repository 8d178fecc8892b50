// Package practice manages the user's problem collection and the views
// derived from it: the due queue for today and the week-ahead schedule.
package practice

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

// Service errors.
var (
	// ErrProblemNotFound is returned when a problem does not exist or is not
	// owned by the requesting user.
	ErrProblemNotFound = errors.New("problem not found")

	// ErrCardNotFound is returned when a card does not exist or is not owned
	// by the requesting user.
	ErrCardNotFound = errors.New("card not found")
)

// QueueItem pairs a due card with its problem for presentation.
type QueueItem struct {
	Card    *domain.Card    `json:"card"`
	Problem *domain.Problem `json:"problem"`
}

// WeekDay is one day of the week-ahead view.
type WeekDay struct {
	Day   domain.Day  `json:"day"`
	Items []QueueItem `json:"items"`
}

// AddProblemRequest carries the fields of a tracked problem.
type AddProblemRequest struct {
	Title      string
	URL        string
	Difficulty domain.Difficulty
	Tags       []string
}

// Service implements problem and queue operations.
type Service struct {
	db       *sql.DB
	problems store.ProblemStore
	cards    store.CardStore
	loc      *time.Location
	logger   *slog.Logger
}

// NewService creates a practice Service. The location determines the
// user-local midnight used as "today"; nil means time.Local.
func NewService(
	db *sql.DB,
	problems store.ProblemStore,
	cards store.CardStore,
	loc *time.Location,
	logger *slog.Logger,
) *Service {
	if db == nil {
		panic("db cannot be nil")
	}
	if problems == nil || cards == nil {
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
		problems: problems,
		cards:    cards,
		loc:      loc,
		logger:   logger.With(slog.String("component", "practice_service")),
	}
}

// AddProblem stores a problem and ensures it has a card. New cards start in
// the learning state, due today. Re-adding a problem the user already tracks
// (same slug) updates the problem's fields and leaves its card untouched, so
// accumulated scheduling history survives.
func (s *Service) AddProblem(ctx context.Context, userID uuid.UUID, req AddProblemRequest) (*domain.Problem, *domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	problem, err := domain.NewProblem(userID, req.URL, req.Title, req.Difficulty, req.Tags)
	if err != nil {
		return nil, nil, err
	}

	today := domain.Today(s.loc)

	var card *domain.Card
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		stored, err := s.problems.WithTx(tx).Upsert(ctx, problem)
		if err != nil {
			return fmt.Errorf("failed to store problem: %w", err)
		}
		problem = stored

		cards := s.cards.WithTx(tx)
		card, err = cards.GetByProblem(ctx, userID, problem.ID)
		if errors.Is(err, store.ErrCardNotFound) {
			card, err = domain.NewCard(userID, problem.ID, today)
			if err != nil {
				return err
			}
			if err := cards.Create(ctx, card); err != nil {
				return fmt.Errorf("failed to create card: %w", err)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load card: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	log.Info("problem added",
		slog.String("user_id", userID.String()),
		slog.String("problem_id", problem.ID.String()),
		slog.String("slug", problem.Slug))
	return problem, card, nil
}

// ListProblems returns the user's problems with their cards, newest first.
func (s *Service) ListProblems(ctx context.Context, userID uuid.UUID) ([]QueueItem, error) {
	problems, err := s.problems.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list problems: %w", err)
	}

	cards, err := s.cards.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	byProblem := make(map[uuid.UUID]*domain.Card, len(cards))
	for _, c := range cards {
		byProblem[c.ProblemID] = c
	}

	items := make([]QueueItem, 0, len(problems))
	for _, p := range problems {
		items = append(items, QueueItem{Card: byProblem[p.ID], Problem: p})
	}
	return items, nil
}

// DeleteProblem removes a problem along with its card and reviews.
func (s *Service) DeleteProblem(ctx context.Context, userID, problemID uuid.UUID) error {
	err := s.problems.Delete(ctx, problemID, userID)
	if errors.Is(err, store.ErrProblemNotFound) {
		return ErrProblemNotFound
	}
	return err
}

// DueQueue returns the cards due on or before today, ordered ascending by
// due date with ties broken by creation time then ID. A limit <= 0 returns
// the whole queue.
func (s *Service) DueQueue(ctx context.Context, userID uuid.UUID, limit int) ([]QueueItem, error) {
	today := domain.Today(s.loc)

	cards, err := s.cards.ListDue(ctx, userID, today, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list due cards: %w", err)
	}
	return s.attachProblems(ctx, cards)
}

// WeekView returns the next seven days of scheduled work starting today.
// Overdue cards are folded into the first day rather than dropped.
func (s *Service) WeekView(ctx context.Context, userID uuid.UUID) ([]WeekDay, error) {
	today := domain.Today(s.loc)

	cards, err := s.cards.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}

	days := make([]WeekDay, 0, 7)
	for offset := 0; offset < 7; offset++ {
		day := today.AddDays(offset)
		var bucket []*domain.Card
		if offset == 0 {
			bucket = sm2.SelectDue(cards, day)
		} else {
			bucket = sm2.SelectInRange(cards, day, day)
		}
		items, err := s.attachProblems(ctx, bucket)
		if err != nil {
			return nil, err
		}
		days = append(days, WeekDay{Day: day, Items: items})
	}
	return days, nil
}

// RescheduleCard moves a card's due date without altering its scheduling
// state. The ease factor, interval and repetition count are untouched, so
// the next review advances from the same snapshot as before.
func (s *Service) RescheduleCard(ctx context.Context, userID, cardID uuid.UUID, dueAt domain.Day) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.cards.UpdateDueAt(ctx, cardID, userID, dueAt)
	if errors.Is(err, store.ErrCardNotFound) {
		return ErrCardNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to reschedule card: %w", err)
	}

	log.Info("card rescheduled",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("due_at", dueAt.String()))
	return nil
}

func (s *Service) attachProblems(ctx context.Context, cards []*domain.Card) ([]QueueItem, error) {
	if len(cards) == 0 {
		return []QueueItem{}, nil
	}

	ids := make([]uuid.UUID, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.ProblemID)
	}
	problems, err := s.problems.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load problems: %w", err)
	}

	items := make([]QueueItem, 0, len(cards))
	for _, c := range cards {
		items = append(items, QueueItem{Card: c, Problem: problems[c.ProblemID]})
	}
	return items, nil
}
