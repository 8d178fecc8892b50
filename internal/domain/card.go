package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// CardState tracks whether a card is still being learned or is in its
// long-interval review phase.
type CardState string

// Possible card states.
const (
	CardStateLearning CardState = "learning"
	CardStateReview   CardState = "review"
)

// IsValid reports whether the state is one of the known values.
func (s CardState) IsValid() bool {
	switch s {
	case CardStateLearning, CardStateReview:
		return true
	default:
		return false
	}
}

// MinEaseFactor is the floor for a card's ease factor. The SM-2 family of
// algorithms never lets ease drop below this value.
const MinEaseFactor = 1.3

// DefaultEaseFactor is the ease factor assigned to newly created cards.
const DefaultEaseFactor = 2.5

// Card-specific validation errors.
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardUserIDEmpty is returned when a card's user ID is empty or nil.
	ErrCardUserIDEmpty = errors.New("card user ID cannot be empty")

	// ErrCardProblemIDEmpty is returned when a card's problem ID is empty or nil.
	ErrCardProblemIDEmpty = errors.New("card problem ID cannot be empty")

	// ErrCardInvalidState is returned when a card's state is not learning or review.
	ErrCardInvalidState = errors.New("card state must be learning or review")

	// ErrCardInvalidEaseFactor is returned when a card's ease factor is below the floor.
	ErrCardInvalidEaseFactor = errors.New("card ease factor cannot be below 1.3")

	// ErrCardInvalidInterval is returned when a card's interval is negative.
	ErrCardInvalidInterval = errors.New("card interval cannot be negative")

	// ErrCardInvalidCounts is returned when repetitions or lapses are negative.
	ErrCardInvalidCounts = errors.New("card repetitions and lapses cannot be negative")
)

// Card is the per-user, per-problem spaced-repetition record that tracks
// when the problem is next due. Its scheduling fields are mutated exclusively
// through review submission; it is never deleted independently of its Problem.
type Card struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	ProblemID    uuid.UUID `json:"problem_id"`
	State        CardState `json:"state"`
	EaseFactor   float64   `json:"ease_factor"`
	IntervalDays int       `json:"interval_days"`
	Repetitions  int       `json:"repetitions"`
	Lapses       int       `json:"lapses"`
	DueAt        Day       `json:"due_at"`
	LastQ        int       `json:"last_q"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewCard creates the Card that accompanies a newly added Problem.
// New cards are due immediately: state learning, ease 2.5, interval 0.
func NewCard(userID, problemID uuid.UUID, today Day) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:           uuid.New(),
		UserID:       userID,
		ProblemID:    problemID,
		State:        CardStateLearning,
		EaseFactor:   DefaultEaseFactor,
		IntervalDays: 0,
		Repetitions:  0,
		Lapses:       0,
		DueAt:        today,
		LastQ:        0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.UserID == uuid.Nil {
		return ErrCardUserIDEmpty
	}

	if c.ProblemID == uuid.Nil {
		return ErrCardProblemIDEmpty
	}

	if !c.State.IsValid() {
		return ErrCardInvalidState
	}

	if c.EaseFactor < MinEaseFactor {
		return ErrCardInvalidEaseFactor
	}

	if c.IntervalDays < 0 {
		return ErrCardInvalidInterval
	}

	if c.Repetitions < 0 || c.Lapses < 0 {
		return ErrCardInvalidCounts
	}

	if c.LastQ < 0 || c.LastQ > 5 {
		return ErrInvalidQuality
	}

	return nil
}

// IsDue reports whether the card is due on or before the reference date.
func (c *Card) IsDue(ref Day) bool {
	return !c.DueAt.After(ref)
}
