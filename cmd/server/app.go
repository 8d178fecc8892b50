package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/leetcoach/leetcoach-api/internal/config"
	"github.com/leetcoach/leetcoach-api/internal/platform/mailer"
	"github.com/leetcoach/leetcoach-api/internal/platform/postgres"
	"github.com/leetcoach/leetcoach-api/internal/platform/webpush"
	"github.com/leetcoach/leetcoach-api/internal/service/auth"
	"github.com/leetcoach/leetcoach-api/internal/service/digest"
	"github.com/leetcoach/leetcoach-api/internal/service/practice"
	"github.com/leetcoach/leetcoach-api/internal/service/review"
	"github.com/leetcoach/leetcoach-api/internal/store"
)

// application holds the assembled dependency graph of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	loc    *time.Location

	userStore    store.UserStore
	problemStore store.ProblemStore
	cardStore    store.CardStore
	reviewStore  store.ReviewStore
	pushStore    store.PushSubscriptionStore

	jwtService      auth.JWTService
	passwordHasher  auth.PasswordHasher
	reviewService   *review.Service
	practiceService *practice.Service
	dispatcher      *digest.Dispatcher

	server *http.Server
}

// newApplication connects the database, applies migrations and wires every
// store and service.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	loc := time.Local
	if cfg.Digest.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(cfg.Digest.Timezone)
		if err != nil {
			return nil, fmt.Errorf("failed to load digest timezone: %w", err)
		}
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := postgres.MigrateUp(ctx, db); err != nil {
		return nil, err
	}

	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
		loc:    loc,
	}

	app.userStore = postgres.NewUserStore(db, logger)
	app.problemStore = postgres.NewProblemStore(db, logger)
	app.cardStore = postgres.NewCardStore(db, logger)
	app.reviewStore = postgres.NewReviewStore(db, logger)
	app.pushStore = postgres.NewPushSubscriptionStore(db, logger)

	app.jwtService = auth.NewJWTService(
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenLifetimeMinutes)*time.Minute,
	)
	app.passwordHasher = auth.NewBcryptHasher(0)

	app.reviewService = review.NewService(
		db, app.cardStore, app.reviewStore, app.problemStore, loc, logger)
	app.practiceService = practice.NewService(
		db, app.problemStore, app.cardStore, loc, logger)

	aggregator := digest.NewAggregator(
		app.userStore, app.cardStore, app.problemStore, app.reviewStore, logger)

	var emailSender digest.EmailSender
	if cfg.Email.ResendAPIKey != "" && cfg.Email.FromAddress != "" {
		emailSender = mailer.NewResendMailer(cfg.Email.ResendAPIKey, cfg.Email.FromAddress, logger)
	} else {
		logger.Warn("email channel disabled, no Resend credentials configured")
	}

	var pushSender digest.PushSender
	if cfg.Push.VAPIDSubject != "" && cfg.Push.VAPIDPublicKey != "" && cfg.Push.VAPIDPrivateKey != "" {
		pushSender = webpush.NewSender(
			cfg.Push.VAPIDSubject, cfg.Push.VAPIDPublicKey, cfg.Push.VAPIDPrivateKey, logger)
	} else {
		logger.Warn("push channel disabled, no VAPID keys configured")
	}

	app.dispatcher = digest.NewDispatcher(
		aggregator,
		app.cardStore,
		app.pushStore,
		emailSender,
		pushSender,
		cfg.Digest.AppURL,
		cfg.Digest.Workers,
		logger,
	)

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           app.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
		// Digest runs triggered over HTTP can outlive the default timeouts.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	return app, nil
}

// shutdown stops the HTTP server and closes the database.
func (app *application) shutdown(ctx context.Context) error {
	if err := app.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	if err := app.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
