package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/leetcoach/leetcoach-api/internal/domain"
	"github.com/leetcoach/leetcoach-api/internal/platform/logger"
	"github.com/leetcoach/leetcoach-api/internal/store"
)

// ReviewStore implements the store.ReviewStore interface using a PostgreSQL
// database as the storage backend. Error types are stored as JSONB.
type ReviewStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewReviewStore creates a new PostgreSQL implementation of the ReviewStore
// interface. If logger is nil, a default logger will be used.
func NewReviewStore(db store.DBTX, logger *slog.Logger) *ReviewStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ReviewStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_store")),
	}
}

// Ensure ReviewStore implements store.ReviewStore interface
var _ store.ReviewStore = (*ReviewStore)(nil)

// WithTx implements store.ReviewStore.WithTx.
func (s *ReviewStore) WithTx(tx *sql.Tx) store.ReviewStore {
	return &ReviewStore{db: tx, logger: s.logger}
}

// Create implements store.ReviewStore.Create.
func (s *ReviewStore) Create(ctx context.Context, review *domain.Review) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := review.Validate(); err != nil {
		log.Warn("review validation failed during create",
			slog.String("error", err.Error()),
			slog.String("review_id", review.ID.String()))
		return err
	}

	errorTypes, err := json.Marshal(review.ErrorTypes)
	if err != nil {
		return fmt.Errorf("failed to marshal error types: %w", err)
	}

	query := `
		INSERT INTO reviews (id, user_id, problem_id, card_id, mode, started_at,
			finished_at, duration_sec, result, q, error_types, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		review.ID,
		review.UserID,
		review.ProblemID,
		review.CardID,
		string(review.Mode),
		review.StartedAt,
		review.FinishedAt,
		review.DurationSec,
		string(review.Result),
		review.Q,
		errorTypes,
		review.Notes,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: card or problem for review not found",
				store.ErrInvalidEntity)
		}
		log.Error("failed to create review",
			slog.String("error", err.Error()),
			slog.String("review_id", review.ID.String()))
		return err
	}

	log.Info("review recorded",
		slog.String("review_id", review.ID.String()),
		slog.String("card_id", review.CardID.String()),
		slog.Int("q", review.Q),
		slog.String("result", string(review.Result)))
	return nil
}

// ListByUser implements store.ReviewStore.ListByUser.
func (s *ReviewStore) ListByUser(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]*domain.Review, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, problem_id, card_id, mode, started_at,
			finished_at, duration_sec, result, q, error_types, notes
		FROM reviews
		WHERE user_id = $1
	`
	args := []any{userID}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(` AND finished_at >= $%d`, len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(` AND finished_at <= $%d`, len(args))
	}
	query += ` ORDER BY finished_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list reviews",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer closeRows(rows, s.logger)

	reviews := []*domain.Review{}
	for rows.Next() {
		var review domain.Review
		var mode, result string
		var errorTypes []byte
		var notes sql.NullString

		err := rows.Scan(
			&review.ID,
			&review.UserID,
			&review.ProblemID,
			&review.CardID,
			&mode,
			&review.StartedAt,
			&review.FinishedAt,
			&review.DurationSec,
			&result,
			&review.Q,
			&errorTypes,
			&notes,
		)
		if err != nil {
			return nil, err
		}

		review.Mode = domain.ReviewMode(mode)
		review.Result = domain.ReviewResult(result)
		review.Notes = notes.String
		if err := json.Unmarshal(errorTypes, &review.ErrorTypes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal error types: %w", err)
		}
		reviews = append(reviews, &review)
	}

	return reviews, rows.Err()
}

// CountByFinishedRange implements store.ReviewStore.CountByFinishedRange.
func (s *ReviewStore) CountByFinishedRange(ctx context.Context, userID uuid.UUID, from, to time.Time) (store.ReviewStats, error) {
	var stats store.ReviewStats

	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE result = 'pass')
		FROM reviews
		WHERE user_id = $1 AND finished_at >= $2 AND finished_at <= $3
	`
	err := s.db.QueryRowContext(ctx, query, userID, from, to).Scan(&stats.Total, &stats.Pass)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count reviews",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return store.ReviewStats{}, err
	}

	return stats, nil
}
