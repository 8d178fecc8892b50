// Package webpush delivers Web Push notifications signed with VAPID keys.
package webpush

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"github.com/leetcoach/leetcoach-api/internal/domain"
	"github.com/leetcoach/leetcoach-api/internal/platform/logger"
	"github.com/leetcoach/leetcoach-api/internal/service/digest"
)

// notificationTTL is how long, in seconds, the push service may hold an
// undelivered notification. A daily digest is stale after a day.
const notificationTTL = 86400

// Sender implements digest.PushSender using the Web Push protocol.
type Sender struct {
	subject string
	public  string
	private string
	logger  *slog.Logger
}

// NewSender creates a Sender signing with the given VAPID key pair. The
// subject is the contact URI (mailto: or https:) sent to push services.
func NewSender(subject, publicKey, privateKey string, logger *slog.Logger) *Sender {
	if subject == "" || publicKey == "" || privateKey == "" {
		panic("VAPID subject and keys cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Sender{
		subject: subject,
		public:  publicKey,
		private: privateKey,
		logger:  logger.With(slog.String("component", "webpush_sender")),
	}
}

// Ensure Sender implements digest.PushSender
var _ digest.PushSender = (*Sender)(nil)

// Send implements digest.PushSender.Send. Endpoints the push service reports
// as expired surface as digest.ErrSubscriptionGone so the caller can prune.
func (s *Sender) Send(ctx context.Context, sub *domain.PushSubscription, payload []byte) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      s.subject,
		VAPIDPublicKey:  s.public,
		VAPIDPrivateKey: s.private,
		TTL:             notificationTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to send push notification: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Warn("failed to close push response body",
				slog.String("error", err.Error()))
		}
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return digest.ErrSubscriptionGone
	case resp.StatusCode >= 400:
		return fmt.Errorf("push service returned status %d", resp.StatusCode)
	}

	log.Debug("push notification sent",
		slog.String("subscription_id", sub.ID.String()),
		slog.Int("status", resp.StatusCode))
	return nil
}
