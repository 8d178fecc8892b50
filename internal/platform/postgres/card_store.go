package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/leetcoach/leetcoach-api/internal/domain"
	"github.com/leetcoach/leetcoach-api/internal/platform/logger"
	"github.com/leetcoach/leetcoach-api/internal/store"
)

// cardColumns is the column list shared by every card query.
const cardColumns = `id, user_id, problem_id, state, ease_factor, interval_days,
	repetitions, lapses, due_at, last_q, created_at, updated_at`

// CardStore implements the store.CardStore interface using a PostgreSQL
// database as the storage backend.
type CardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCardStore creates a new PostgreSQL implementation of the CardStore
// interface. It accepts a database connection or transaction that should be
// initialized and managed by the caller. If logger is nil, a default logger
// will be used.
func NewCardStore(db store.DBTX, logger *slog.Logger) *CardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure CardStore implements store.CardStore interface
var _ store.CardStore = (*CardStore)(nil)

// WithTx implements store.CardStore.WithTx.
func (s *CardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &CardStore{db: tx, logger: s.logger}
}

// Create implements store.CardStore.Create.
// Returns store.ErrDuplicate if the owner already has a card for the problem.
func (s *CardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	query := `
		INSERT INTO cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		card.ID,
		card.UserID,
		card.ProblemID,
		string(card.State),
		card.EaseFactor,
		card.IntervalDays,
		card.Repetitions,
		card.Lapses,
		card.DueAt,
		card.LastQ,
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	log.Info("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("problem_id", card.ProblemID.String()))
	return nil
}

// GetByProblem implements store.CardStore.GetByProblem.
func (s *CardStore) GetByProblem(ctx context.Context, userID, problemID uuid.UUID) (*domain.Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE user_id = $1 AND problem_id = $2
	`
	card, err := scanCard(s.db.QueryRowContext(ctx, query, userID, problemID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		return nil, err
	}
	return card, nil
}

// GetByIDForUpdate implements store.CardStore.GetByIDForUpdate.
// The FOR UPDATE NOWAIT lock makes concurrent reviews of the same card fail
// fast with store.ErrUpdateConflict instead of queueing behind each other.
func (s *CardStore) GetByIDForUpdate(ctx context.Context, id, userID uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE id = $1 AND user_id = $2
		FOR UPDATE NOWAIT
	`
	card, err := scanCard(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		if isLockNotAvailable(err) {
			log.Warn("card row locked by concurrent review",
				slog.String("card_id", id.String()))
			return nil, store.ErrUpdateConflict
		}
		log.Error("failed to get card for update",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, err
	}
	return card, nil
}

// UpdateScheduling implements store.CardStore.UpdateScheduling.
func (s *CardStore) UpdateScheduling(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during scheduling update",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	query := `
		UPDATE cards
		SET state = $1, ease_factor = $2, interval_days = $3, repetitions = $4,
		    lapses = $5, due_at = $6, last_q = $7, updated_at = $8
		WHERE id = $9 AND user_id = $10
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		string(card.State),
		card.EaseFactor,
		card.IntervalDays,
		card.Repetitions,
		card.Lapses,
		card.DueAt,
		card.LastQ,
		touchTime(),
		card.ID,
		card.UserID,
	)
	if err != nil {
		log.Error("failed to update card scheduling",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrCardNotFound
	}

	log.Info("card scheduling updated",
		slog.String("card_id", card.ID.String()),
		slog.String("due_at", card.DueAt.String()),
		slog.Int("interval_days", card.IntervalDays))
	return nil
}

// UpdateDueAt implements store.CardStore.UpdateDueAt.
func (s *CardStore) UpdateDueAt(ctx context.Context, id, userID uuid.UUID, dueAt domain.Day) error {
	result, err := s.db.ExecContext(
		ctx,
		`UPDATE cards SET due_at = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`,
		dueAt,
		touchTime(),
		id,
		userID,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update card due date",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrCardNotFound
	}
	return nil
}

// ListByUser implements store.CardStore.ListByUser.
func (s *CardStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE user_id = $1
	`
	return s.queryCards(ctx, query, userID)
}

// ListDue implements store.CardStore.ListDue. Ordering matches sm2.SelectDue:
// due_at, then created_at, then id.
func (s *CardStore) ListDue(ctx context.Context, userID uuid.UUID, ref domain.Day, limit int) ([]*domain.Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE user_id = $1 AND due_at <= $2
		ORDER BY due_at ASC, created_at ASC, id ASC
	`
	if limit > 0 {
		return s.queryCards(ctx, query+` LIMIT $3`, userID, ref, limit)
	}
	return s.queryCards(ctx, query, userID, ref)
}

// CountDue implements store.CardStore.CountDue.
func (s *CardStore) CountDue(ctx context.Context, userID uuid.UUID, ref domain.Day) (int, error) {
	return s.countWhere(ctx, `user_id = $1 AND due_at <= $2`, userID, ref)
}

// CountOverdue implements store.CardStore.CountOverdue.
func (s *CardStore) CountOverdue(ctx context.Context, userID uuid.UUID, ref domain.Day) (int, error) {
	return s.countWhere(ctx, `user_id = $1 AND due_at < $2`, userID, ref)
}

// CountDueOn implements store.CardStore.CountDueOn.
func (s *CardStore) CountDueOn(ctx context.Context, userID uuid.UUID, day domain.Day) (int, error) {
	return s.countWhere(ctx, `user_id = $1 AND due_at = $2`, userID, day)
}

// DistinctOwnersWithDue implements store.CardStore.DistinctOwnersWithDue.
func (s *CardStore) DistinctOwnersWithDue(ctx context.Context, ref domain.Day) ([]uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT DISTINCT user_id FROM cards WHERE due_at <= $1 ORDER BY user_id`,
		ref,
	)
	if err != nil {
		log.Error("failed to query digest candidates",
			slog.String("error", err.Error()))
		return nil, err
	}
	defer closeRows(rows, s.logger)

	var owners []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		owners = append(owners, id)
	}

	return owners, rows.Err()
}

func (s *CardStore) countWhere(ctx context.Context, where string, args ...any) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards WHERE `+where, args...).Scan(&count)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count cards",
			slog.String("error", err.Error()))
		return 0, err
	}
	return count, nil
}

func (s *CardStore) queryCards(ctx context.Context, query string, args ...any) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query cards", slog.String("error", err.Error()))
		return nil, err
	}
	defer closeRows(rows, s.logger)

	cards := []*domain.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}

	return cards, rows.Err()
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var card domain.Card
	var state string

	err := row.Scan(
		&card.ID,
		&card.UserID,
		&card.ProblemID,
		&state,
		&card.EaseFactor,
		&card.IntervalDays,
		&card.Repetitions,
		&card.Lapses,
		&card.DueAt,
		&card.LastQ,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	card.State = domain.CardState(state)
	return &card, nil
}
