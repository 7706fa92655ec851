package app

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/vidhi/internal/models"
	"github.com/desertthunder/vidhi/internal/services"
)

// Recorder stores activity outcomes. The SQLite activity repository implements it.
type Recorder interface {
	Record(ctx context.Context, kind models.ActivityKind, detail string, success bool) error
}

// Machine is implemented by [LoginMachine] and [Dashboard].
type Machine interface {
	Handle(ctx context.Context, ev Event) []Effect
}

// Executor performs effects against a [services.Service].
type Executor struct {
	service  services.Service
	recorder Recorder
	logger   *log.Logger
}

// NewExecutor creates an executor. Activity is not recorded until [Executor.WithRecorder] is used.
func NewExecutor(service services.Service, logger *log.Logger) *Executor {
	if logger == nil {
		logger = log.Default()
	}
	return &Executor{service: service, logger: logger}
}

// WithRecorder sets the activity recorder and returns e.
func (e *Executor) WithRecorder(r Recorder) *Executor {
	e.recorder = r
	return e
}

// Run performs eff and returns its completion event.
//
// [RedirectEffect] is not a request; Run records its reason, if any, and returns nil.
func (e *Executor) Run(ctx context.Context, eff Effect) Event {
	switch eff := eff.(type) {
	case LoginEffect:
		key, err := e.service.Login(ctx, eff.Username, eff.Password)
		e.record(ctx, models.ActivityLogin, eff.Username, err)
		return LoginCompleted{Username: eff.Username, APIKey: key, Err: err}

	case FetchEffect:
		updates, err := e.service.ListUpdates(ctx, eff.Session, eff.Category, eff.Limit)
		if err == nil {
			e.logger.Debug("fetched updates", "category", eff.Category, "count", len(updates))
		}
		return FetchCompleted{Category: eff.Category, Updates: updates, Err: err}

	case ScrapeEffect:
		err := e.service.TriggerScrape(ctx, eff.Session)
		e.record(ctx, models.ActivityScrape, "", err)
		return ScrapeCompleted{Err: err}

	case ClearEffect:
		err := e.service.DeleteAllUpdates(ctx, eff.Session)
		e.record(ctx, models.ActivityClear, "", err)
		return ClearCompleted{Err: err}

	case DeleteEffect:
		err := e.service.DeleteUpdate(ctx, eff.Session, eff.ID)
		e.record(ctx, models.ActivityDelete, eff.ID.String(), err)
		return DeleteCompleted{ID: eff.ID, Err: err}

	case RedirectEffect:
		if eff.Reason != "" {
			e.record(ctx, eff.Reason, "", nil)
		}
		return nil
	}

	e.logger.Warn("unknown effect", "effect", eff)
	return nil
}

func (e *Executor) record(ctx context.Context, kind models.ActivityKind, detail string, err error) {
	if err != nil {
		e.logger.Debug("request failed", "kind", kind, "error", err)
		if detail == "" {
			detail = services.Message(err)
		}
	}
	if e.recorder == nil {
		return
	}
	if rerr := e.recorder.Record(ctx, kind, detail, err == nil); rerr != nil {
		e.logger.Warn("failed to record activity", "kind", kind, "error", rerr)
	}
}

// Drive applies ev to m and runs every resulting effect to completion, feeding each completion back into m.
//
// It returns the last redirect requested, if any.
func Drive(ctx context.Context, m Machine, exec *Executor, ev Event) (Route, bool) {
	var (
		route      Route
		redirected bool
	)

	queue := m.Handle(ctx, ev)
	for len(queue) > 0 {
		eff := queue[0]
		queue = queue[1:]

		if r, ok := eff.(RedirectEffect); ok {
			route, redirected = r.Route, true
		}

		next := exec.Run(ctx, eff)
		if next == nil {
			continue
		}
		queue = append(queue, m.Handle(ctx, next)...)
	}
	return route, redirected
}
