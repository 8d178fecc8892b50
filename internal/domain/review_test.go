package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reviewTestCard(repetitions int) *Card {
	return &Card{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		ProblemID:   uuid.New(),
		State:       CardStateLearning,
		EaseFactor:  DefaultEaseFactor,
		Repetitions: repetitions,
	}
}

func TestNewReviewModeDerivation(t *testing.T) {
	t.Parallel()

	finishedAt := time.Date(2026, time.August, 31, 10, 0, 0, 0, time.UTC)

	review, err := NewReview(reviewTestCard(0), ReviewResultPass, 5, 120, nil, "", finishedAt)
	require.NoError(t, err)
	assert.Equal(t, ReviewModeLearn, review.Mode, "first exposure runs in learn mode")

	review, err = NewReview(reviewTestCard(3), ReviewResultPass, 5, 120, nil, "", finishedAt)
	require.NoError(t, err)
	assert.Equal(t, ReviewModeReview, review.Mode)
}

func TestNewReviewBackdatesStart(t *testing.T) {
	t.Parallel()

	finishedAt := time.Date(2026, time.August, 31, 10, 0, 0, 0, time.UTC)

	review, err := NewReview(reviewTestCard(0), ReviewResultPartial, 3, 300, []string{"off-by-one"}, "tricky", finishedAt)
	require.NoError(t, err)
	assert.Equal(t, finishedAt.Add(-5*time.Minute), review.StartedAt)
	assert.Equal(t, 300, review.DurationSec)
	assert.Equal(t, []string{"off-by-one"}, review.ErrorTypes)
}

func TestNewReviewValidation(t *testing.T) {
	t.Parallel()

	finishedAt := time.Now().UTC()

	_, err := NewReview(reviewTestCard(0), ReviewResultPass, 6, 10, nil, "", finishedAt)
	assert.ErrorIs(t, err, ErrInvalidQuality)

	_, err = NewReview(reviewTestCard(0), "meh", 4, 10, nil, "", finishedAt)
	assert.ErrorIs(t, err, ErrInvalidResult)

	_, err = NewReview(reviewTestCard(0), ReviewResultPass, 4, -1, nil, "", finishedAt)
	assert.ErrorIs(t, err, ErrReviewInvalidDuration)

	_, err = NewReview(reviewTestCard(0), ReviewResultPass, 4, 10, nil, strings.Repeat("x", MaxReviewNotesLen+1), finishedAt)
	assert.ErrorIs(t, err, ErrReviewNotesTooLong)
}
