package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/desertthunder/vidhi/internal/models"
	"github.com/desertthunder/vidhi/internal/shared"
)

// DefaultActivityLimit bounds [ActivityRepository.List] when no limit is given.
const DefaultActivityLimit = 20

// ActivityRepository persists [models.Activity] entries.
type ActivityRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewActivityRepository creates a new [ActivityRepository] with the given database connection
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db, now: time.Now}
}

// Create inserts entry with a generated ID, sequence and timestamp.
func (r *ActivityRepository) Create(ctx context.Context, entry *models.Activity) error {
	if entry.Kind == "" {
		return fmt.Errorf("%w: activity kind is required", shared.ErrInvalidInput)
	}

	sequence, err := NextSequence(ctx, r.db, "activity")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	entry.ID = shared.GenerateID()
	entry.Sequence = sequence
	entry.CreatedAt = r.now().UTC()

	query := `
		INSERT INTO activity (id, sequence, kind, detail, success, created_at)
		VALUES (:id, :sequence, :kind, :detail, :success, :created_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}

	return nil
}

// Record creates an entry from its parts. It satisfies app.Recorder.
func (r *ActivityRepository) Record(ctx context.Context, kind models.ActivityKind, detail string, success bool) error {
	return r.Create(ctx, &models.Activity{Kind: kind, Detail: detail, Success: success})
}

// Get retrieves an entry by ID.
func (r *ActivityRepository) Get(ctx context.Context, id string) (*models.Activity, error) {
	query := `
		SELECT id, sequence, kind, detail, success, created_at
		FROM activity
		WHERE id = ?
	`

	var entry models.Activity
	err := r.db.GetContext(ctx, &entry, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("activity not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}

	return &entry, nil
}

// List returns the most recent entries, newest first. A limit ≤ 0 uses [DefaultActivityLimit].
func (r *ActivityRepository) List(ctx context.Context, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}

	query := `
		SELECT id, sequence, kind, detail, success, created_at
		FROM activity
		ORDER BY sequence DESC
		LIMIT ?
	`

	entries := []models.Activity{}
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}

	return entries, nil
}

// Count returns the number of stored entries.
func (r *ActivityRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM activity"); err != nil {
		return 0, fmt.Errorf("failed to count activity: %w", err)
	}
	return n, nil
}

// Prune deletes entries created before cutoff and returns how many were removed.
func (r *ActivityRepository) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM activity WHERE created_at < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune activity: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}
