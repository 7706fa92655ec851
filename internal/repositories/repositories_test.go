package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jmoiron/sqlx"

	"github.com/desertthunder/vidhi/internal/models"
	"github.com/desertthunder/vidhi/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db.DB); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func TestNextSequence(t *testing.T) {
	ctx := context.Background()

	t.Run("Increments", func(t *testing.T) {
		db := setupTestDB(t)

		for want := 1; want <= 3; want++ {
			got, err := NextSequence(ctx, db, "activity")
			if err != nil {
				t.Fatalf("failed to get sequence: %v", err)
			}
			if got != want {
				t.Errorf("expected sequence %d, got %d", want, got)
			}
		}
	})

	t.Run("Missing Sequence Table", func(t *testing.T) {
		db := setupTestDB(t)

		if _, err := NextSequence(ctx, db, "nonexistent"); err == nil {
			t.Error("expected error for missing sequence table")
		}
	})

	t.Run("Closed Database", func(t *testing.T) {
		db := setupTestDB(t)
		db.Close()

		if _, err := NextSequence(ctx, db, "activity"); err == nil {
			t.Error("expected error for closed database")
		}
	})
}

func TestActivityRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewActivityRepository(db)

		entry := &models.Activity{Kind: models.ActivityScrape, Success: true}
		if err := repo.Create(ctx, entry); err != nil {
			t.Fatalf("failed to create activity: %v", err)
		}

		if entry.ID == "" {
			t.Error("ID should be set after creation")
		}
		if entry.Sequence != 1 {
			t.Errorf("expected sequence 1, got %d", entry.Sequence)
		}
		if entry.CreatedAt.IsZero() {
			t.Error("CreatedAt should be set after creation")
		}
	})

	t.Run("Create Requires Kind", func(t *testing.T) {
		repo := NewActivityRepository(setupTestDB(t))

		err := repo.Create(ctx, &models.Activity{})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewActivityRepository(setupTestDB(t))

		entry := &models.Activity{Kind: models.ActivityDelete, Detail: "42", Success: false}
		if err := repo.Create(ctx, entry); err != nil {
			t.Fatalf("failed to create activity: %v", err)
		}

		got, err := repo.Get(ctx, entry.ID)
		if err != nil {
			t.Fatalf("failed to get activity: %v", err)
		}

		if diff := cmp.Diff(entry.CreatedAt.Unix(), got.CreatedAt.Unix()); diff != "" {
			t.Errorf("created_at mismatch (-want +got):\n%s", diff)
		}
		got.CreatedAt = entry.CreatedAt
		if diff := cmp.Diff(entry, got); diff != "" {
			t.Errorf("activity mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Get Not Found", func(t *testing.T) {
		repo := NewActivityRepository(setupTestDB(t))

		if _, err := repo.Get(ctx, "missing"); err == nil {
			t.Error("expected error for missing activity")
		}
	})

	t.Run("Record And List Newest First", func(t *testing.T) {
		repo := NewActivityRepository(setupTestDB(t))

		kinds := []models.ActivityKind{models.ActivityLogin, models.ActivityScrape, models.ActivityLogout}
		for _, k := range kinds {
			if err := repo.Record(ctx, k, "", true); err != nil {
				t.Fatalf("failed to record %s: %v", k, err)
			}
		}

		entries, err := repo.List(ctx, 2)
		if err != nil {
			t.Fatalf("failed to list activity: %v", err)
		}

		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].Kind != models.ActivityLogout || entries[1].Kind != models.ActivityScrape {
			t.Errorf("expected newest first, got %s, %s", entries[0].Kind, entries[1].Kind)
		}

		n, err := repo.Count(ctx)
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if n != 3 {
			t.Errorf("expected 3 entries, got %d", n)
		}
	})

	t.Run("List Empty", func(t *testing.T) {
		repo := NewActivityRepository(setupTestDB(t))

		entries, err := repo.List(ctx, 0)
		if err != nil {
			t.Fatalf("failed to list activity: %v", err)
		}
		if entries == nil || len(entries) != 0 {
			t.Errorf("expected empty slice, got %#v", entries)
		}
	})

	t.Run("Prune", func(t *testing.T) {
		repo := NewActivityRepository(setupTestDB(t))

		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := range 3 {
			repo.now = func() time.Time { return base.Add(time.Duration(i) * 24 * time.Hour) }
			if err := repo.Record(ctx, models.ActivityScrape, "", true); err != nil {
				t.Fatalf("failed to record: %v", err)
			}
		}

		removed, err := repo.Prune(ctx, base.Add(36*time.Hour))
		if err != nil {
			t.Fatalf("failed to prune: %v", err)
		}
		if removed != 2 {
			t.Errorf("expected 2 removed, got %d", removed)
		}

		n, _ := repo.Count(ctx)
		if n != 1 {
			t.Errorf("expected 1 remaining, got %d", n)
		}
	})

	t.Run("Closed Database", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewActivityRepository(db)
		db.Close()

		if err := repo.Record(ctx, models.ActivityLogin, "", true); err == nil {
			t.Error("expected error for closed database")
		}
		if _, err := repo.List(ctx, 5); err == nil {
			t.Error("expected error for closed database")
		}
		if _, err := repo.Count(ctx); err == nil {
			t.Error("expected error for closed database")
		}
	})
}
