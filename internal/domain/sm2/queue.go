package sm2

import (
	"sort"

	"github.com/leetcoach/leetcoach-api/internal/domain"
)

// SelectDue returns the cards due on or before ref, ordered ascending by due
// date. Ties are broken by creation time and then card ID so that repeated
// calls over the same input always produce the same sequence. The input
// slice is not modified.
func SelectDue(cards []*domain.Card, ref domain.Day) []*domain.Card {
	due := make([]*domain.Card, 0, len(cards))
	for _, c := range cards {
		if c.IsDue(ref) {
			due = append(due, c)
		}
	}
	sortQueue(due)
	return due
}

// SelectInRange returns the cards with from <= due_at <= to, in the same
// deterministic order as SelectDue. Callers building a weekly view that
// starts today should use SelectDue for the first bucket so overdue cards
// are folded in rather than dropped.
func SelectInRange(cards []*domain.Card, from, to domain.Day) []*domain.Card {
	out := make([]*domain.Card, 0, len(cards))
	for _, c := range cards {
		if !c.DueAt.Before(from) && !c.DueAt.After(to) {
			out = append(out, c)
		}
	}
	sortQueue(out)
	return out
}

func sortQueue(cards []*domain.Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		if cmp := cards[i].DueAt.Compare(cards[j].DueAt); cmp != 0 {
			return cmp < 0
		}
		if !cards[i].CreatedAt.Equal(cards[j].CreatedAt) {
			return cards[i].CreatedAt.Before(cards[j].CreatedAt)
		}
		return cards[i].ID.String() < cards[j].ID.String()
	})
}
