package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/desertthunder/vidhi/internal/models"
	"github.com/desertthunder/vidhi/internal/services"
	"github.com/desertthunder/vidhi/internal/shared"
)

const (
	DefaultWorkers   = 4
	MaxWorkers       = 10
	DefaultRateLimit = 5.0
)

// BulkDeleteOpts contains configuration for bulk deletes.
type BulkDeleteOpts struct {
	NumWorkers int     // Concurrent workers (default: 4, max: 10)
	RateLimit  float64 // Requests per second (default: 5)
}

// DeleteResult is the outcome for one identifier.
type DeleteResult struct {
	ID      models.UpdateID
	Success bool
	Error   error // [shared.ErrAborted] when the request was never sent
}

// BulkDeleteResult summarizes a [UpdatesEngine.BulkDelete] run.
type BulkDeleteResult struct {
	Results   []DeleteResult // In input order, duplicates removed
	Succeeded int
	Failed    int
	Skipped   int
}

// BulkDelete deletes ids with a bounded worker pool under a shared rate limit.
//
// Duplicate ids are sent once. Failures are collected per id. An [*services.AuthError]
// cancels the remaining work and is returned alongside the partial result, as is a
// cancellation of ctx.
func (e *UpdatesEngine) BulkDelete(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	s models.Session,
	ids []models.UpdateID,
	opts BulkDeleteOpts,
) (*BulkDeleteResult, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: updates service not initialized", shared.ErrServiceUnavailable)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = DefaultWorkers
	}
	if opts.NumWorkers > MaxWorkers {
		opts.NumWorkers = MaxWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = DefaultRateLimit
	}

	ids = dedupe(ids)
	results := make([]DeleteResult, len(ids))
	for i, id := range ids {
		results[i] = DeleteResult{ID: id, Error: shared.ErrAborted}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg        sync.WaitGroup
		abortOnce sync.Once
		authErr   error
		completed atomic.Int64
	)

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan int)

	sendProgress(prog, deleteStartUpdate(len(ids)))

	for range opts.NumWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				// Jobs received after an abort stay skipped.
				if runCtx.Err() != nil {
					continue
				}
				err := e.service.DeleteUpdate(runCtx, s, ids[i])
				results[i] = DeleteResult{ID: ids[i], Success: err == nil, Error: err}

				if err != nil && services.IsAuthError(err) {
					abortOnce.Do(func() {
						authErr = err
						cancel()
					})
				}

				step := int(completed.Add(1))
				sendProgress(prog, deleteUpdate(step, len(ids), ids[i], err))
			}
		}()
	}

dispatch:
	for i := range ids {
		if err := limiter.Wait(runCtx); err != nil {
			break
		}
		if runCtx.Err() != nil {
			break
		}
		select {
		case jobs <- i:
		case <-runCtx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	summary := &BulkDeleteResult{Results: results}
	for _, r := range results {
		switch {
		case r.Success:
			summary.Succeeded++
		case errors.Is(r.Error, shared.ErrAborted):
			summary.Skipped++
		default:
			summary.Failed++
		}
	}

	if authErr != nil {
		return summary, authErr
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

func dedupe(ids []models.UpdateID) []models.UpdateID {
	seen := make(map[models.UpdateID]bool, len(ids))
	out := make([]models.UpdateID, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
