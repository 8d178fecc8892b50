package review

import "errors"

// Service errors surfaced to the review-submission caller.
var (
	// ErrCardNotFound is returned when the card does not exist or is not
	// owned by the submitting user.
	ErrCardNotFound = errors.New("card not found")

	// ErrProblemNotFound is returned when the card's problem is missing.
	ErrProblemNotFound = errors.New("problem not found")

	// ErrInvalidQuality is returned when the quality score is outside [0,5].
	ErrInvalidQuality = errors.New("quality score must be between 0 and 5")

	// ErrInvalidResult is returned when the result is not pass, fail or partial.
	ErrInvalidResult = errors.New("invalid review result")

	// ErrReviewConflict is returned when a concurrent review holds the card's
	// row lock. The submission can be retried.
	ErrReviewConflict = errors.New("card is being reviewed concurrently")
)
