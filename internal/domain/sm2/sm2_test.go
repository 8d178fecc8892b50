package sm2

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/leetcoach/leetcoach-api/internal/domain"
)

func TestAdvanceQualifyingReviews(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		snapshot     Snapshot
		q            int
		wantInterval int
		wantEase     float64
		wantReps     int
	}{
		{
			name:         "first review gets one day",
			snapshot:     Snapshot{EaseFactor: 2.5, IntervalDays: 0, Repetitions: 0},
			q:            5,
			wantInterval: 1,
			wantEase:     2.6,
			wantReps:     1,
		},
		{
			name:         "second review gets three days",
			snapshot:     Snapshot{EaseFactor: 2.5, IntervalDays: 1, Repetitions: 1},
			q:            4,
			wantInterval: 3,
			wantEase:     2.5,
			wantReps:     2,
		},
		{
			name:         "third review multiplies interval by ease",
			snapshot:     Snapshot{EaseFactor: 2.6, IntervalDays: 3, Repetitions: 2},
			q:            5,
			wantInterval: 8, // round(3 * 2.6)
			wantEase:     2.7,
			wantReps:     3,
		},
		{
			name:         "half intervals round away from zero",
			snapshot:     Snapshot{EaseFactor: 2.5, IntervalDays: 3, Repetitions: 2},
			q:            4,
			wantInterval: 8, // round(7.5)
			wantEase:     2.5,
			wantReps:     3,
		},
		{
			name:         "quality three shrinks ease",
			snapshot:     Snapshot{EaseFactor: 2.5, IntervalDays: 10, Repetitions: 4},
			q:            3,
			wantInterval: 25,
			wantEase:     2.36,
			wantReps:     5,
		},
		{
			name:         "ease never drops below floor on qualifying review",
			snapshot:     Snapshot{EaseFactor: 1.35, IntervalDays: 2, Repetitions: 3},
			q:            3,
			wantInterval: 3, // round(2 * 1.35)
			wantEase:     1.3,
			wantReps:     4,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Advance(tt.snapshot, tt.q, domain.DifficultyMedium, nil)

			assert.Equal(t, tt.wantInterval, got.IntervalDays)
			assert.InDelta(t, tt.wantEase, got.EaseFactor, 1e-9)
			assert.Equal(t, tt.wantReps, got.Repetitions)
			assert.Equal(t, tt.snapshot.Lapses, got.Lapses, "qualifying review must not add a lapse")
			assert.Equal(t, domain.CardStateReview, got.State)
		})
	}
}

func TestAdvanceLapse(t *testing.T) {
	t.Parallel()

	got := Advance(Snapshot{
		EaseFactor:   2.5,
		IntervalDays: 30,
		Repetitions:  5,
		Lapses:       1,
	}, 2, domain.DifficultyMedium, nil)

	assert.Equal(t, 0, got.Repetitions, "lapse resets repetition progress")
	assert.Equal(t, 1, got.IntervalDays)
	assert.InDelta(t, 2.3, got.EaseFactor, 1e-9)
	assert.Equal(t, 2, got.Lapses)
	assert.Equal(t, domain.CardStateLearning, got.State)
}

func TestAdvanceLapseEaseFloor(t *testing.T) {
	t.Parallel()

	got := Advance(Snapshot{EaseFactor: 1.3, IntervalDays: 5, Repetitions: 2}, 0, domain.DifficultyMedium, nil)
	assert.InDelta(t, 1.3, got.EaseFactor, 1e-9)

	got = Advance(Snapshot{EaseFactor: 1.4, IntervalDays: 5, Repetitions: 2}, 1, domain.DifficultyMedium, nil)
	assert.InDelta(t, 1.3, got.EaseFactor, 1e-9)
}

func TestAdvanceAdjustments(t *testing.T) {
	t.Parallel()

	base := Snapshot{EaseFactor: 2.5, IntervalDays: 10, Repetitions: 2}

	tests := []struct {
		name         string
		q            int
		difficulty   domain.Difficulty
		tags         []string
		wantInterval int
	}{
		{
			name:         "no adjustment",
			q:            5,
			difficulty:   domain.DifficultyMedium,
			wantInterval: 25, // round(10 * 2.5)
		},
		{
			name:         "hard scales by 0.8 rounded up",
			q:            5,
			difficulty:   domain.DifficultyHard,
			wantInterval: 20, // ceil(25 * 0.8)
		},
		{
			name:         "graph tag scales by 0.9 rounded up",
			q:            5,
			difficulty:   domain.DifficultyMedium,
			tags:         []string{"Array", "Graph"},
			wantInterval: 23, // ceil(25 * 0.9)
		},
		{
			name:         "hard and graph stack",
			q:            5,
			difficulty:   domain.DifficultyHard,
			tags:         []string{"Graph"},
			wantInterval: 18, // ceil(ceil(25 * 0.8) * 0.9)
		},
		{
			name:         "adjustments keep a failed card at one day",
			q:            1,
			difficulty:   domain.DifficultyHard,
			tags:         []string{"Graph"},
			wantInterval: 1, // ceil(ceil(1 * 0.8) * 0.9)
		},
		{
			name:         "graph match is case sensitive",
			q:            5,
			difficulty:   domain.DifficultyMedium,
			tags:         []string{"graph"},
			wantInterval: 25,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Advance(base, tt.q, tt.difficulty, tt.tags)
			assert.Equal(t, tt.wantInterval, got.IntervalDays)
		})
	}
}

func TestAdvanceIsPure(t *testing.T) {
	t.Parallel()

	s := Snapshot{EaseFactor: 2.5, IntervalDays: 10, Repetitions: 2, Lapses: 1}
	first := Advance(s, 4, domain.DifficultyHard, []string{"Graph"})
	second := Advance(s, 4, domain.DifficultyHard, []string{"Graph"})

	assert.Equal(t, first, second, "same inputs must produce the same result")
	assert.Equal(t, Snapshot{EaseFactor: 2.5, IntervalDays: 10, Repetitions: 2, Lapses: 1}, s,
		"input snapshot must not be modified")
}

func TestAdvanceIntervalGrowsWithoutCap(t *testing.T) {
	t.Parallel()

	s := Snapshot{EaseFactor: 2.5, IntervalDays: 0, Repetitions: 0}
	for i := 0; i < 20; i++ {
		r := Advance(s, 5, domain.DifficultyEasy, nil)
		s = Snapshot{
			EaseFactor:   r.EaseFactor,
			IntervalDays: r.IntervalDays,
			Repetitions:  r.Repetitions,
			Lapses:       r.Lapses,
		}
	}
	assert.Greater(t, s.IntervalDays, 365, "a long pass streak should exceed a year")
}

func TestNextDue(t *testing.T) {
	t.Parallel()

	today := domain.NewDay(2026, time.August, 31)

	due := NextDue(today, Result{IntervalDays: 8})
	assert.Equal(t, domain.NewDay(2026, time.September, 8), due)

	due = NextDue(today, Result{IntervalDays: 1})
	assert.Equal(t, domain.NewDay(2026, time.September, 1), due)
}
