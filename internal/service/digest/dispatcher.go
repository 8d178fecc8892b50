package digest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/leetcoach/leetcoach-api/internal/domain"
	"github.com/leetcoach/leetcoach-api/internal/platform/logger"
	"github.com/leetcoach/leetcoach-api/internal/store"
)

// ErrSubscriptionGone is returned by a PushSender when the push service
// reports the endpoint permanently gone. The dispatcher prunes the
// subscription and does not count the delivery as a failure.
var ErrSubscriptionGone = errors.New("push subscription gone")

// EmailSender delivers a rendered digest email.
type EmailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// PushSender delivers a rendered digest payload to one subscription.
type PushSender interface {
	Send(ctx context.Context, sub *domain.PushSubscription, payload []byte) error
}

// Report summarizes one dispatch run.
type Report struct {
	Day        domain.Day `json:"day"`
	Candidates int        `json:"candidates"`
	Notified   int        `json:"notified"`
	EmailsSent int        `json:"emails_sent"`
	PushesSent int        `json:"pushes_sent"`
	Failures   int        `json:"failures"`
}

// Dispatcher fans digests out to every user with work due. Users are
// processed by a fixed-size worker pool; one user's delivery failure never
// blocks or fails another's.
type Dispatcher struct {
	agg     *Aggregator
	cards   store.CardStore
	subs    store.PushSubscriptionStore
	email   EmailSender
	push    PushSender
	appURL  string
	workers int
	logger  *slog.Logger
}

// NewDispatcher creates a Dispatcher. A nil email or push sender disables
// that channel. Workers below 1 are clamped to 1.
func NewDispatcher(
	agg *Aggregator,
	cards store.CardStore,
	subs store.PushSubscriptionStore,
	email EmailSender,
	push PushSender,
	appURL string,
	workers int,
	logger *slog.Logger,
) *Dispatcher {
	if agg == nil {
		panic("aggregator cannot be nil")
	}
	if cards == nil || subs == nil {
		panic("stores cannot be nil")
	}
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		agg:     agg,
		cards:   cards,
		subs:    subs,
		email:   email,
		push:    push,
		appURL:  appURL,
		workers: workers,
		logger:  logger.With(slog.String("component", "digest_dispatcher")),
	}
}

// counters collects run totals across workers.
type counters struct {
	notified atomic.Int64
	emails   atomic.Int64
	pushes   atomic.Int64
	failures atomic.Int64
}

// Run dispatches digests for the given day to every user owning at least one
// due card. It returns once all workers have drained the candidate set, so
// callers observe a complete Report. Run is idempotent with respect to
// scheduling state: it only reads cards and never advances them.
func (d *Dispatcher) Run(ctx context.Context, day domain.Day) (*Report, error) {
	log := logger.FromContextOrDefault(ctx, d.logger)

	owners, err := d.cards.DistinctOwnersWithDue(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list digest candidates: %w", err)
	}

	log.Info("digest run starting",
		slog.String("day", day.String()),
		slog.Int("candidates", len(owners)),
		slog.Int("workers", d.workers))

	var c counters
	jobs := make(chan uuid.UUID)

	var wg sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for userID := range jobs {
				d.notifyUser(ctx, userID, day, &c)
			}
		}()
	}

feed:
	for _, userID := range owners {
		select {
		case jobs <- userID:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	report := &Report{
		Day:        day,
		Candidates: len(owners),
		Notified:   int(c.notified.Load()),
		EmailsSent: int(c.emails.Load()),
		PushesSent: int(c.pushes.Load()),
		Failures:   int(c.failures.Load()),
	}

	log.Info("digest run finished",
		slog.String("day", day.String()),
		slog.Int("candidates", report.Candidates),
		slog.Int("notified", report.Notified),
		slog.Int("emails_sent", report.EmailsSent),
		slog.Int("pushes_sent", report.PushesSent),
		slog.Int("failures", report.Failures))

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// notifyUser builds one user's summary and delivers it on every enabled
// channel. Channel failures are isolated: a failed email does not stop the
// pushes and vice versa.
func (d *Dispatcher) notifyUser(ctx context.Context, userID uuid.UUID, day domain.Day, c *counters) {
	log := logger.FromContextOrDefault(ctx, d.logger)

	sum, err := d.agg.Summarize(ctx, userID, day)
	if err != nil {
		log.Error("failed to summarize user digest",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		c.failures.Add(1)
		return
	}

	// Nothing due means nothing to say. The candidate query makes this rare,
	// but a review submitted between the two queries can empty the queue.
	if sum.DueCount == 0 {
		return
	}
	c.notified.Add(1)

	if d.email != nil && sum.Email != "" {
		d.sendEmail(ctx, sum, c)
	}
	if d.push != nil {
		d.sendPushes(ctx, sum, c)
	}
}

func (d *Dispatcher) sendEmail(ctx context.Context, sum *Summary, c *counters) {
	log := logger.FromContextOrDefault(ctx, d.logger)

	html, err := RenderEmail(sum, d.appURL)
	if err != nil {
		log.Error("failed to render digest email",
			slog.String("error", err.Error()),
			slog.String("user_id", sum.UserID.String()))
		c.failures.Add(1)
		return
	}

	if err := d.email.Send(ctx, sum.Email, EmailSubject(sum), html); err != nil {
		log.Error("failed to send digest email",
			slog.String("error", err.Error()),
			slog.String("user_id", sum.UserID.String()))
		c.failures.Add(1)
		return
	}
	c.emails.Add(1)
}

func (d *Dispatcher) sendPushes(ctx context.Context, sum *Summary, c *counters) {
	log := logger.FromContextOrDefault(ctx, d.logger)

	subs, err := d.subs.ListByUser(ctx, sum.UserID)
	if err != nil {
		log.Error("failed to list push subscriptions",
			slog.String("error", err.Error()),
			slog.String("user_id", sum.UserID.String()))
		c.failures.Add(1)
		return
	}
	if len(subs) == 0 {
		return
	}

	payload, err := RenderPush(sum, d.appURL)
	if err != nil {
		log.Error("failed to render digest push payload",
			slog.String("error", err.Error()),
			slog.String("user_id", sum.UserID.String()))
		c.failures.Add(1)
		return
	}

	for _, sub := range subs {
		err := d.push.Send(ctx, sub, payload)
		switch {
		case err == nil:
			c.pushes.Add(1)
		case errors.Is(err, ErrSubscriptionGone):
			log.Info("pruning gone push subscription",
				slog.String("user_id", sum.UserID.String()),
				slog.String("subscription_id", sub.ID.String()))
			if err := d.subs.Delete(ctx, sub.ID); err != nil {
				log.Warn("failed to prune push subscription",
					slog.String("error", err.Error()),
					slog.String("subscription_id", sub.ID.String()))
			}
		default:
			log.Error("failed to send digest push",
				slog.String("error", err.Error()),
				slog.String("user_id", sum.UserID.String()),
				slog.String("subscription_id", sub.ID.String()))
			c.failures.Add(1)
		}
	}
}
