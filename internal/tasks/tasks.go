// package tasks implements multi-request operations against the updates service.
//
// The core abstraction is UpdatesEngine, which runs bulk deletes and multi-category collection.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/vidhi/internal/models"
	"github.com/desertthunder/vidhi/internal/services"
	"github.com/desertthunder/vidhi/internal/shared"
)

// CategoryResult is the outcome of listing one category.
type CategoryResult struct {
	Category models.Category
	Updates  []models.Update
	Error    error
}

// CollectResult contains every category fetched by [UpdatesEngine.Collect].
type CollectResult struct {
	Categories []CategoryResult // In the order requested
	Total      int              // Number of updates across all categories
}

// Updates flattens the successful categories in request order.
func (r *CollectResult) Updates() []models.Update {
	out := make([]models.Update, 0, r.Total)
	for _, c := range r.Categories {
		if c.Error == nil {
			out = append(out, c.Updates...)
		}
	}
	return out
}

// Failed returns the categories that could not be fetched.
func (r *CollectResult) Failed() []CategoryResult {
	var out []CategoryResult
	for _, c := range r.Categories {
		if c.Error != nil {
			out = append(out, c)
		}
	}
	return out
}

// UpdatesEngine runs operations that span many requests. It never touches view state.
type UpdatesEngine struct {
	service services.Service
}

// NewUpdatesEngine creates a new UpdatesEngine over service.
func NewUpdatesEngine(service services.Service) *UpdatesEngine {
	return &UpdatesEngine{service: service}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Collect lists each category concurrently.
//
// Per-category failures are reported in the result. An [*services.AuthError] from any
// category is returned as the error since no other category can succeed with the same key.
func (e *UpdatesEngine) Collect(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	s models.Session,
	categories []models.Category,
	limit int,
) (*CollectResult, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: updates service not initialized", shared.ErrServiceUnavailable)
	}
	if len(categories) == 0 {
		categories = models.Categories()
	}

	result := &CollectResult{Categories: make([]CategoryResult, len(categories))}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)
	for i, c := range categories {
		wg.Add(1)
		go func() {
			defer wg.Done()

			updates, err := e.service.ListUpdates(ctx, s, c, limit)
			result.Categories[i] = CategoryResult{Category: c, Updates: updates, Error: err}

			mu.Lock()
			done++
			step := done
			mu.Unlock()
			sendProgress(prog, collectUpdate(step, len(categories), c, len(updates), err))
		}()
	}
	wg.Wait()

	for _, c := range result.Categories {
		if c.Error != nil && services.IsAuthError(c.Error) {
			return result, c.Error
		}
		result.Total += len(c.Updates)
	}

	return result, nil
}
