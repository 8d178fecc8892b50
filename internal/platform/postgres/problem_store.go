package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/leetcoach/leetcoach-api/internal/domain"
	"github.com/leetcoach/leetcoach-api/internal/platform/logger"
	"github.com/leetcoach/leetcoach-api/internal/store"
)

// ProblemStore implements the store.ProblemStore interface using a PostgreSQL
// database as the storage backend. Tags are stored as JSONB.
type ProblemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewProblemStore creates a new PostgreSQL implementation of the ProblemStore
// interface. If logger is nil, a default logger will be used.
func NewProblemStore(db store.DBTX, logger *slog.Logger) *ProblemStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ProblemStore{
		db:     db,
		logger: logger.With(slog.String("component", "problem_store")),
	}
}

// Ensure ProblemStore implements store.ProblemStore interface
var _ store.ProblemStore = (*ProblemStore)(nil)

// WithTx implements store.ProblemStore.WithTx.
func (s *ProblemStore) WithTx(tx *sql.Tx) store.ProblemStore {
	return &ProblemStore{db: tx, logger: s.logger}
}

// Upsert implements store.ProblemStore.Upsert.
// The conflict target is the per-user slug; on conflict the mutable fields
// are refreshed and the existing row (with its original ID) is returned.
func (s *ProblemStore) Upsert(ctx context.Context, problem *domain.Problem) (*domain.Problem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := problem.Validate(); err != nil {
		log.Warn("problem validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("problem_id", problem.ID.String()))
		return nil, err
	}

	tags, err := json.Marshal(problem.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tags: %w", err)
	}

	query := `
		INSERT INTO problems (id, user_id, source, slug, url, title, difficulty, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, slug) DO UPDATE
		SET url = EXCLUDED.url,
		    title = EXCLUDED.title,
		    difficulty = EXCLUDED.difficulty,
		    tags = EXCLUDED.tags,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, user_id, source, slug, url, title, difficulty, tags, created_at, updated_at
	`
	row := s.db.QueryRowContext(
		ctx,
		query,
		problem.ID,
		problem.UserID,
		problem.Source,
		problem.Slug,
		problem.URL,
		problem.Title,
		string(problem.Difficulty),
		tags,
		problem.CreatedAt,
		problem.UpdatedAt,
	)

	stored, err := scanProblem(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, problem.UserID)
		}
		log.Error("failed to upsert problem",
			slog.String("error", err.Error()),
			slog.String("problem_id", problem.ID.String()))
		return nil, err
	}

	log.Info("problem upserted",
		slog.String("problem_id", stored.ID.String()),
		slog.String("slug", stored.Slug))
	return stored, nil
}

// GetByID implements store.ProblemStore.GetByID.
func (s *ProblemStore) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Problem, error) {
	query := `
		SELECT id, user_id, source, slug, url, title, difficulty, tags, created_at, updated_at
		FROM problems
		WHERE id = $1 AND user_id = $2
	`
	problem, err := scanProblem(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProblemNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get problem",
			slog.String("error", err.Error()),
			slog.String("problem_id", id.String()))
		return nil, err
	}
	return problem, nil
}

// GetByIDs implements store.ProblemStore.GetByIDs.
func (s *ProblemStore) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Problem, error) {
	result := make(map[uuid.UUID]*domain.Problem, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `
		SELECT id, user_id, source, slug, url, title, difficulty, tags, created_at, updated_at
		FROM problems
		WHERE id = ANY($1)
	`
	rows, err := s.db.QueryContext(ctx, query, uuidStrings(ids))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to query problems by IDs",
			slog.String("error", err.Error()))
		return nil, err
	}
	defer closeRows(rows, s.logger)

	for rows.Next() {
		problem, err := scanProblem(rows)
		if err != nil {
			return nil, err
		}
		result[problem.ID] = problem
	}

	return result, rows.Err()
}

// ListByUser implements store.ProblemStore.ListByUser.
func (s *ProblemStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Problem, error) {
	query := `
		SELECT id, user_id, source, slug, url, title, difficulty, tags, created_at, updated_at
		FROM problems
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list problems",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer closeRows(rows, s.logger)

	problems := []*domain.Problem{}
	for rows.Next() {
		problem, err := scanProblem(rows)
		if err != nil {
			return nil, err
		}
		problems = append(problems, problem)
	}

	return problems, rows.Err()
}

// Delete implements store.ProblemStore.Delete.
// The problem's card and reviews are removed by ON DELETE CASCADE.
func (s *ProblemStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM problems WHERE id = $1 AND user_id = $2`,
		id,
		userID,
	)
	if err != nil {
		log.Error("failed to delete problem",
			slog.String("error", err.Error()),
			slog.String("problem_id", id.String()))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrProblemNotFound
	}

	log.Info("problem deleted", slog.String("problem_id", id.String()))
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProblem(row rowScanner) (*domain.Problem, error) {
	var problem domain.Problem
	var difficulty string
	var tags []byte

	err := row.Scan(
		&problem.ID,
		&problem.UserID,
		&problem.Source,
		&problem.Slug,
		&problem.URL,
		&problem.Title,
		&difficulty,
		&tags,
		&problem.CreatedAt,
		&problem.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	problem.Difficulty = domain.Difficulty(difficulty)
	if err := json.Unmarshal(tags, &problem.Tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
	}

	return &problem, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func closeRows(rows *sql.Rows, log *slog.Logger) {
	if err := rows.Close(); err != nil {
		log.Error("failed to close rows", slog.String("error", err.Error()))
	}
}

// touchTime is a shared helper for update timestamps.
func touchTime() time.Time {
	return time.Now().UTC()
}
