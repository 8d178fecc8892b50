package sm2

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leetcoach/leetcoach-api/internal/domain"
)

func queueCard(due domain.Day, createdAt time.Time) *domain.Card {
	return &domain.Card{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		ProblemID: uuid.New(),
		DueAt:     due,
		CreatedAt: createdAt,
	}
}

func TestSelectDue(t *testing.T) {
	t.Parallel()

	today := domain.NewDay(2026, time.August, 31)
	base := time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC)

	overdue := queueCard(today.AddDays(-3), base)
	dueToday := queueCard(today, base.Add(time.Hour))
	future := queueCard(today.AddDays(1), base)

	got := SelectDue([]*domain.Card{future, dueToday, overdue}, today)

	require.Len(t, got, 2)
	assert.Equal(t, overdue.ID, got[0].ID, "most overdue card comes first")
	assert.Equal(t, dueToday.ID, got[1].ID)
}

func TestSelectDueTieBreak(t *testing.T) {
	t.Parallel()

	today := domain.NewDay(2026, time.August, 31)
	early := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(48 * time.Hour)

	first := queueCard(today, early)
	second := queueCard(today, late)

	got := SelectDue([]*domain.Card{second, first}, today)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID, "same due date orders by creation time")

	// Same due date and creation time falls back to ID order.
	a := queueCard(today, early)
	b := queueCard(today, early)
	wantFirst, wantSecond := a, b
	if b.ID.String() < a.ID.String() {
		wantFirst, wantSecond = b, a
	}
	got = SelectDue([]*domain.Card{a, b}, today)
	require.Len(t, got, 2)
	assert.Equal(t, wantFirst.ID, got[0].ID)
	assert.Equal(t, wantSecond.ID, got[1].ID)
}

func TestSelectDueDeterministic(t *testing.T) {
	t.Parallel()

	today := domain.NewDay(2026, time.August, 31)
	base := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)

	cards := []*domain.Card{
		queueCard(today.AddDays(-1), base),
		queueCard(today, base),
		queueCard(today.AddDays(-5), base.Add(time.Minute)),
		queueCard(today, base.Add(time.Hour)),
	}

	first := SelectDue(cards, today)
	second := SelectDue(cards, today)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID, "repeated selection must return the same order")
	}
}

func TestSelectDueDoesNotModifyInput(t *testing.T) {
	t.Parallel()

	today := domain.NewDay(2026, time.August, 31)
	base := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)

	a := queueCard(today, base.Add(time.Hour))
	b := queueCard(today.AddDays(-1), base)
	cards := []*domain.Card{a, b}

	_ = SelectDue(cards, today)

	assert.Equal(t, a.ID, cards[0].ID)
	assert.Equal(t, b.ID, cards[1].ID)
}

func TestSelectDueShrinksAsReviewsComplete(t *testing.T) {
	t.Parallel()

	today := domain.NewDay(2026, time.August, 31)
	base := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)

	cards := []*domain.Card{
		queueCard(today.AddDays(-2), base),
		queueCard(today.AddDays(-1), base),
		queueCard(today, base),
	}

	before := SelectDue(cards, today)
	require.Len(t, before, 3)

	// Reviewing the first card pushes its due date past today.
	cards[0].DueAt = today.AddDays(3)
	after := SelectDue(cards, today)

	require.Len(t, after, 2)
	assert.Equal(t, before[1].ID, after[0].ID, "remaining cards keep their relative order")
	assert.Equal(t, before[2].ID, after[1].ID)
}

func TestSelectInRange(t *testing.T) {
	t.Parallel()

	today := domain.NewDay(2026, time.August, 31)
	base := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)

	past := queueCard(today.AddDays(-1), base)
	day1 := queueCard(today.AddDays(1), base)
	day2 := queueCard(today.AddDays(2), base)
	day5 := queueCard(today.AddDays(5), base)

	got := SelectInRange([]*domain.Card{day5, day2, past, day1}, today.AddDays(1), today.AddDays(2))

	require.Len(t, got, 2)
	assert.Equal(t, day1.ID, got[0].ID)
	assert.Equal(t, day2.ID, got[1].ID)
}
