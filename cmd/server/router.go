package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/leetcoach/leetcoach-api/internal/api"
	apiMiddleware "github.com/leetcoach/leetcoach-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{app.config.Digest.AppURL},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	r.Use(c.Handler)

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordHasher)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	problemHandler := api.NewProblemHandler(app.practiceService)
	reviewHandler := api.NewReviewHandler(
		app.reviewService, app.practiceService, app.reviewStore, app.loc)
	cardHandler := api.NewCardHandler(app.practiceService)
	pushHandler := api.NewPushHandler(app.pushStore)
	cronHandler := api.NewCronHandler(app.dispatcher, app.config.Digest.CronSecret, app.loc)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Scheduler trigger, authenticated by shared secret
		r.Post("/cron/daily", cronHandler.RunDaily)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/problems", problemHandler.Create)
			r.Get("/problems", problemHandler.List)
			r.Delete("/problems/{id}", problemHandler.Delete)

			r.Get("/review-queue", reviewHandler.Queue)
			r.Get("/review-week", reviewHandler.Week)
			r.Post("/reviews", reviewHandler.Submit)
			r.Get("/reviews", reviewHandler.History)

			r.Patch("/cards/{id}", cardHandler.Reschedule)

			r.Post("/push/subscribe", pushHandler.Subscribe)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
