package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReviewMode distinguishes a first exposure from a repeat review.
// A review runs in learn mode iff the card's repetition count was zero
// before the review was submitted.
type ReviewMode string

// Possible review modes.
const (
	ReviewModeLearn  ReviewMode = "learn"
	ReviewModeReview ReviewMode = "review"
)

// ReviewResult is the user's self-assessed outcome of one attempt.
type ReviewResult string

// Possible review results.
const (
	ReviewResultPass    ReviewResult = "pass"
	ReviewResultFail    ReviewResult = "fail"
	ReviewResultPartial ReviewResult = "partial"
)

// IsValid reports whether the result is one of the known values.
func (r ReviewResult) IsValid() bool {
	switch r {
	case ReviewResultPass, ReviewResultFail, ReviewResultPartial:
		return true
	default:
		return false
	}
}

// MaxReviewNotesLen bounds the free-text notes attached to a review.
const MaxReviewNotesLen = 200

// Review-specific validation errors.
var (
	// ErrReviewIDEmpty is returned when a review ID is empty or nil.
	ErrReviewIDEmpty = errors.New("review ID cannot be empty")

	// ErrReviewUserIDEmpty is returned when a review's user ID is empty or nil.
	ErrReviewUserIDEmpty = errors.New("review user ID cannot be empty")

	// ErrReviewCardIDEmpty is returned when a review's card ID is empty or nil.
	ErrReviewCardIDEmpty = errors.New("review card ID cannot be empty")

	// ErrReviewProblemIDEmpty is returned when a review's problem ID is empty or nil.
	ErrReviewProblemIDEmpty = errors.New("review problem ID cannot be empty")

	// ErrReviewInvalidDuration is returned when a review's duration is negative.
	ErrReviewInvalidDuration = errors.New("review duration cannot be negative")

	// ErrReviewNotesTooLong is returned when a review's notes exceed 200 characters.
	ErrReviewNotesTooLong = errors.New("review notes cannot exceed 200 characters")
)

// Review is one self-graded attempt at a problem. Reviews are append-only;
// the core never mutates or deletes them.
type Review struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"user_id"`
	ProblemID   uuid.UUID    `json:"problem_id"`
	CardID      uuid.UUID    `json:"card_id"`
	Mode        ReviewMode   `json:"mode"`
	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  time.Time    `json:"finished_at"`
	DurationSec int          `json:"duration_sec"`
	Result      ReviewResult `json:"result"`
	Q           int          `json:"q"`
	ErrorTypes  []string     `json:"error_types"`
	Notes       string       `json:"notes,omitempty"`
}

// NewReview records one attempt against a card. The mode is derived from the
// card's pre-review repetition count and the start time is back-dated from
// finishedAt by the reported duration.
func NewReview(
	card *Card,
	result ReviewResult,
	q int,
	durationSec int,
	errorTypes []string,
	notes string,
	finishedAt time.Time,
) (*Review, error) {
	mode := ReviewModeReview
	if card.Repetitions == 0 {
		mode = ReviewModeLearn
	}

	if errorTypes == nil {
		errorTypes = []string{}
	}

	review := &Review{
		ID:          uuid.New(),
		UserID:      card.UserID,
		ProblemID:   card.ProblemID,
		CardID:      card.ID,
		Mode:        mode,
		StartedAt:   finishedAt.Add(-time.Duration(durationSec) * time.Second),
		FinishedAt:  finishedAt,
		DurationSec: durationSec,
		Result:      result,
		Q:           q,
		ErrorTypes:  errorTypes,
		Notes:       notes,
	}

	if err := review.Validate(); err != nil {
		return nil, err
	}

	return review, nil
}

// Validate checks if the Review has valid data.
// Returns an error if any field fails validation.
func (r *Review) Validate() error {
	if r.ID == uuid.Nil {
		return ErrReviewIDEmpty
	}

	if r.UserID == uuid.Nil {
		return ErrReviewUserIDEmpty
	}

	if r.ProblemID == uuid.Nil {
		return ErrReviewProblemIDEmpty
	}

	if r.CardID == uuid.Nil {
		return ErrReviewCardIDEmpty
	}

	if r.Q < 0 || r.Q > 5 {
		return ErrInvalidQuality
	}

	if !r.Result.IsValid() {
		return ErrInvalidResult
	}

	if r.DurationSec < 0 {
		return ErrReviewInvalidDuration
	}

	if len(r.Notes) > MaxReviewNotesLen {
		return ErrReviewNotesTooLong
	}

	return nil
}
