// Package digest builds per-user daily practice summaries and fans them out
// over email and web push.
package digest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/leetcoach/leetcoach-api/internal/domain"
	"github.com/leetcoach/leetcoach-api/internal/platform/logger"
	"github.com/leetcoach/leetcoach-api/internal/store"
)

// previewSize is the number of due problems shown in a digest.
const previewSize = 5

// weeklyWindowDays is the review-history window summarized in a digest.
const weeklyWindowDays = 7

// PreviewItem is one due problem shown in a digest.
type PreviewItem struct {
	Title      string            `json:"title"`
	URL        string            `json:"url"`
	Difficulty domain.Difficulty `json:"difficulty"`
	DueAt      domain.Day        `json:"due_at"`
}

// Summary is one user's digest for a given day.
type Summary struct {
	UserID      uuid.UUID         `json:"user_id"`
	Email       string            `json:"email"`
	Name        string            `json:"name"`
	Day         domain.Day        `json:"day"`
	DueCount    int               `json:"due_count"`
	Overdue     int               `json:"overdue"`
	DueToday    int               `json:"due_today"`
	DueTomorrow int               `json:"due_tomorrow"`
	DueIn2Days  int               `json:"due_in_2_days"`
	DueIn3Days  int               `json:"due_in_3_days"`
	Preview     []PreviewItem     `json:"preview"`

	// Weekly is nil when no reviews were finished in the window.
	Weekly *store.ReviewStats `json:"weekly,omitempty"`
}

// Aggregator assembles digest summaries from the stores.
type Aggregator struct {
	users    store.UserStore
	cards    store.CardStore
	problems store.ProblemStore
	reviews  store.ReviewStore
	logger   *slog.Logger
}

// NewAggregator creates an Aggregator.
func NewAggregator(
	users store.UserStore,
	cards store.CardStore,
	problems store.ProblemStore,
	reviews store.ReviewStore,
	logger *slog.Logger,
) *Aggregator {
	if users == nil || cards == nil || problems == nil || reviews == nil {
		panic("stores cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Aggregator{
		users:    users,
		cards:    cards,
		problems: problems,
		reviews:  reviews,
		logger:   logger.With(slog.String("component", "digest_aggregator")),
	}
}

// Summarize builds one user's digest for the given day. The count queries run
// concurrently. The due count drives the notification gate, so its failure
// fails the whole summary; any other query that fails leaves its field at the
// zero value and the digest still goes out.
func (a *Aggregator) Summarize(ctx context.Context, userID uuid.UUID, day domain.Day) (*Summary, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)

	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	sum := &Summary{
		UserID:  userID,
		Email:   user.Email,
		Name:    user.Name,
		Day:     day,
		Preview: []PreviewItem{},
	}

	soft := func(field string, fn func() error) func() error {
		return func() error {
			if err := fn(); err != nil {
				log.Warn("digest query failed, using zero value",
					slog.String("field", field),
					slog.String("error", err.Error()),
					slog.String("user_id", userID.String()))
			}
			return nil
		}
	}

	var g errgroup.Group

	g.Go(func() error {
		n, err := a.cards.CountDue(ctx, userID, day)
		if err != nil {
			return fmt.Errorf("failed to count due cards: %w", err)
		}
		sum.DueCount = n
		return nil
	})
	g.Go(soft("overdue", func() error {
		n, err := a.cards.CountOverdue(ctx, userID, day)
		sum.Overdue = n
		return err
	}))
	g.Go(soft("due_today", func() error {
		n, err := a.cards.CountDueOn(ctx, userID, day)
		sum.DueToday = n
		return err
	}))
	g.Go(soft("due_tomorrow", func() error {
		n, err := a.cards.CountDueOn(ctx, userID, day.AddDays(1))
		sum.DueTomorrow = n
		return err
	}))
	g.Go(soft("due_in_2_days", func() error {
		n, err := a.cards.CountDueOn(ctx, userID, day.AddDays(2))
		sum.DueIn2Days = n
		return err
	}))
	g.Go(soft("due_in_3_days", func() error {
		n, err := a.cards.CountDueOn(ctx, userID, day.AddDays(3))
		sum.DueIn3Days = n
		return err
	}))
	g.Go(soft("preview", func() error {
		preview, err := a.preview(ctx, userID, day)
		if err != nil {
			return err
		}
		sum.Preview = preview
		return nil
	}))
	g.Go(soft("weekly", func() error {
		// Anchored at the reference day, not the wall clock, so the same day
		// always yields the same window: the day itself plus the seven days
		// before it, in UTC.
		from := day.AddDays(-weeklyWindowDays).Time(time.UTC)
		to := day.AddDays(1).Time(time.UTC)
		stats, err := a.reviews.CountByFinishedRange(ctx, userID, from, to)
		if err != nil {
			return err
		}
		if stats.Total > 0 {
			sum.Weekly = &stats
		}
		return nil
	}))

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return sum, nil
}

// preview returns the first cards of the due queue with their problems, in
// queue order.
func (a *Aggregator) preview(ctx context.Context, userID uuid.UUID, day domain.Day) ([]PreviewItem, error) {
	cards, err := a.cards.ListDue(ctx, userID, day, previewSize)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return []PreviewItem{}, nil
	}

	ids := make([]uuid.UUID, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.ProblemID)
	}
	problems, err := a.problems.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]PreviewItem, 0, len(cards))
	for _, c := range cards {
		p := problems[c.ProblemID]
		if p == nil {
			continue
		}
		items = append(items, PreviewItem{
			Title:      p.Title,
			URL:        p.URL,
			Difficulty: p.Difficulty,
			DueAt:      c.DueAt,
		})
	}
	return items, nil
}
