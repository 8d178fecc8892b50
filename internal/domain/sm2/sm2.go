// Package sm2 implements the review scheduling algorithm: a deterministic
// SM-2 variant with difficulty and tag adjustments, plus the due-queue
// selection used by review and digest flows. Everything in this package is
// pure: no I/O, no randomness, no clock access.
package sm2

import (
	"math"

	"github.com/leetcoach/leetcoach-api/internal/domain"
)

// QualityThreshold is the minimum quality score that counts as a qualifying
// review. Anything below it is a lapse.
const QualityThreshold = 3

// Snapshot is the immutable scheduling state of a card before a review.
type Snapshot struct {
	EaseFactor   float64
	IntervalDays int
	Repetitions  int
	Lapses       int
}

// Result is the scheduling state produced by one graded review.
type Result struct {
	EaseFactor   float64
	IntervalDays int
	Repetitions  int
	Lapses       int
	State        domain.CardState
}

// SnapshotOf captures the scheduling fields of a card.
func SnapshotOf(card *domain.Card) Snapshot {
	return Snapshot{
		EaseFactor:   card.EaseFactor,
		IntervalDays: card.IntervalDays,
		Repetitions:  card.Repetitions,
		Lapses:       card.Lapses,
	}
}

// Advance computes the card state that follows one graded review.
//
// q is the self-assessed quality score in [0,5]. Values below the qualifying
// threshold reset repetition progress, shorten the interval to one day, lower
// the ease factor by 0.2 (floored at 1.3) and count a lapse. Qualifying
// reviews grow the interval (1 day, then 3 days, then interval*ease) and
// adjust the ease factor with the standard SM-2 update, again floored at 1.3.
// Hard problems get their interval scaled by 0.8 and problems tagged "Graph"
// by 0.9, both rounded up.
//
// q outside [0,5] is a caller contract violation; validate upstream.
// The caller turns Result.IntervalDays into a due date from its own local
// midnight; intervals grow without cap.
func Advance(s Snapshot, q int, difficulty domain.Difficulty, tags []string) Result {
	r := Result{
		EaseFactor:   s.EaseFactor,
		IntervalDays: s.IntervalDays,
		Repetitions:  s.Repetitions,
		Lapses:       s.Lapses,
	}

	if q < QualityThreshold {
		r.Repetitions = 0
		r.IntervalDays = 1
		r.EaseFactor = math.Max(domain.MinEaseFactor, s.EaseFactor-0.2)
		r.Lapses = s.Lapses + 1
		r.State = domain.CardStateLearning
	} else {
		switch s.Repetitions {
		case 0:
			r.IntervalDays = 1
		case 1:
			r.IntervalDays = 3
		default:
			r.IntervalDays = int(math.Round(float64(s.IntervalDays) * s.EaseFactor))
		}
		penalty := float64(5-q)*(0.08+float64(5-q)*0.02) - 0.1
		r.EaseFactor = math.Max(domain.MinEaseFactor, s.EaseFactor-penalty)
		r.Repetitions = s.Repetitions + 1
		r.State = domain.CardStateReview
	}

	if difficulty == domain.DifficultyHard {
		r.IntervalDays = int(math.Ceil(float64(r.IntervalDays) * 0.8))
	}

	if hasTag(tags, "Graph") {
		r.IntervalDays = int(math.Ceil(float64(r.IntervalDays) * 0.9))
	}

	return r
}

// NextDue returns the due date implied by a result, counted from the
// caller's local today.
func NextDue(today domain.Day, r Result) domain.Day {
	return today.AddDays(r.IntervalDays)
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}
