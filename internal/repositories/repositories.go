package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// NextSequence atomically increments and returns the next sequence number for the given table.
//
// Sequence numbers give a stable insertion order independent of UUIDs and clock skew.
// They are NOT exposed in CLI output but used internally for sorting.
func NextSequence(ctx context.Context, db *sqlx.DB, table string) (int, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequenceTable := table + "_sequence"

	_, err = tx.ExecContext(ctx, fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1", sequenceTable))
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int
	err = tx.GetContext(ctx, &sequence, fmt.Sprintf("SELECT value FROM %s WHERE id = 1", sequenceTable))
	if err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return sequence, nil
}
