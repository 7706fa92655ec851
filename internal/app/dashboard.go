package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/vidhi/internal/models"
	"github.com/desertthunder/vidhi/internal/services"
	"github.com/desertthunder/vidhi/internal/session"
)

const (
	ScrapeSuccessMessage = "Scraping completed successfully!"
	ClearSuccessMessage  = "All data cleared successfully."

	ConfirmClearText  = "Are you sure you want to delete ALL data? This cannot be undone."
	ConfirmDeleteText = "Delete this update?"
)

// DashboardState is the phase of the dashboard view.
type DashboardState int

const (
	DashboardGuarding DashboardState = iota
	DashboardLoading
	DashboardPopulated
	DashboardEmpty
	DashboardRedirected
)

func (s DashboardState) String() string {
	switch s {
	case DashboardLoading:
		return "loading"
	case DashboardPopulated:
		return "populated"
	case DashboardEmpty:
		return "empty"
	case DashboardRedirected:
		return "redirected"
	default:
		return "guarding"
	}
}

// Confirmation identifies a destructive action awaiting approval.
type Confirmation int

const (
	ConfirmNone Confirmation = iota
	ConfirmClear
	ConfirmDelete
)

// Dashboard drives the dashboard view.
//
// Rows are replaced only by a completed fetch, or narrowed by a successful delete.
// Fetch completions are applied in arrival order regardless of the active category.
type Dashboard struct {
	store  session.Store
	limit  int
	logger *log.Logger

	State    DashboardState
	Category models.Category
	Updates  []models.Update
	Loading  bool
	Scraping bool

	Pending   Confirmation
	PendingID models.UpdateID

	Notice string
	Error  string
}

// NewDashboard creates a dashboard on the default category. A limit ≤ 0 uses [services.DefaultListLimit].
func NewDashboard(store session.Store, limit int, logger *log.Logger) *Dashboard {
	if limit <= 0 {
		limit = services.DefaultListLimit
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Dashboard{
		store:    store,
		limit:    limit,
		logger:   logger,
		Category: models.DefaultCategory,
	}
}

// Limit returns the number of updates requested per fetch.
func (d *Dashboard) Limit() int {
	return d.limit
}

// ConfirmText returns the prompt for the pending confirmation, or "".
func (d *Dashboard) ConfirmText() string {
	switch d.Pending {
	case ConfirmClear:
		return ConfirmClearText
	case ConfirmDelete:
		return ConfirmDeleteText
	default:
		return ""
	}
}

// Handle applies ev and returns the effects to run.
func (d *Dashboard) Handle(ctx context.Context, ev Event) []Effect {
	switch ev := ev.(type) {
	case Entered:
		d.Pending, d.PendingID = ConfirmNone, ""
		d.Notice, d.Error = "", ""
		d.Scraping = false
		return d.fetch(ctx)

	case CategoryChanged:
		if ev.Category == d.Category && d.State != DashboardGuarding && d.State != DashboardRedirected {
			return nil
		}
		d.Category = ev.Category
		return d.fetch(ctx)

	case FetchCompleted:
		return d.fetched(ctx, ev)

	case ScrapeRequested:
		if d.Scraping {
			return nil
		}
		s, redirect := d.guard(ctx)
		if redirect != nil {
			return redirect
		}
		d.Scraping = true
		return []Effect{ScrapeEffect{Session: s}}

	case ScrapeCompleted:
		d.Scraping = false
		if ev.Err != nil {
			if services.IsAuthError(ev.Err) {
				return d.expire(ctx)
			}
			d.fail("Scraping failed: %s", ev.Err)
			return nil
		}
		d.succeed(ScrapeSuccessMessage)
		return d.fetch(ctx)

	case ClearRequested:
		d.Pending, d.PendingID = ConfirmClear, ""
		return nil

	case DeleteRequested:
		if ev.ID == "" {
			return nil
		}
		d.Pending, d.PendingID = ConfirmDelete, ev.ID
		return nil

	case Cancelled:
		d.Pending, d.PendingID = ConfirmNone, ""
		return nil

	case Confirmed:
		return d.confirm(ctx)

	case ClearCompleted:
		if ev.Err != nil {
			if services.IsAuthError(ev.Err) {
				return d.expire(ctx)
			}
			d.Loading = false
			d.settle()
			d.fail("Failed to clear data: %s", ev.Err)
			return nil
		}
		d.succeed(ClearSuccessMessage)
		return d.fetch(ctx)

	case DeleteCompleted:
		if ev.Err != nil {
			if services.IsAuthError(ev.Err) {
				return d.expire(ctx)
			}
			d.fail("Failed to delete: %s", ev.Err)
			return nil
		}
		d.Updates = models.RemoveUpdate(d.Updates, ev.ID)
		if !d.Loading {
			d.settle()
		}
		return nil

	case Dismissed:
		d.Notice, d.Error = "", ""
		return nil

	case LogoutRequested:
		return d.leave(ctx, models.ActivityLogout)
	}
	return nil
}

func (d *Dashboard) confirm(ctx context.Context) []Effect {
	pending, id := d.Pending, d.PendingID
	d.Pending, d.PendingID = ConfirmNone, ""

	switch pending {
	case ConfirmClear:
		s, redirect := d.guard(ctx)
		if redirect != nil {
			return redirect
		}
		d.Loading = true
		d.State = DashboardLoading
		return []Effect{ClearEffect{Session: s}}

	case ConfirmDelete:
		s, redirect := d.guard(ctx)
		if redirect != nil {
			return redirect
		}
		return []Effect{DeleteEffect{Session: s, ID: id}}
	}
	return nil
}

func (d *Dashboard) fetched(ctx context.Context, ev FetchCompleted) []Effect {
	d.Loading = false
	if ev.Err != nil {
		if services.IsAuthError(ev.Err) {
			return d.expire(ctx)
		}
		d.logger.Error("failed to fetch updates", "category", ev.Category, "error", ev.Err)
		d.Updates = nil
		d.settle()
		return nil
	}

	d.Updates = ev.Updates
	d.settle()
	return nil
}

// fetch guards on the stored session and requests the active category.
func (d *Dashboard) fetch(ctx context.Context) []Effect {
	s, redirect := d.guard(ctx)
	if redirect != nil {
		return redirect
	}
	d.Loading = true
	d.State = DashboardLoading
	return []Effect{FetchEffect{Session: s, Category: d.Category, Limit: d.limit}}
}

// guard returns the stored session, or the effects that leave the dashboard when there is none.
func (d *Dashboard) guard(ctx context.Context) (models.Session, []Effect) {
	s, err := d.store.Get(ctx)
	if err != nil {
		d.logger.Warn("failed to read session", "error", err)
	}
	if err != nil || !s.Valid() {
		d.redirect()
		return models.Session{}, []Effect{RedirectEffect{Route: RouteLogin}}
	}
	return s, nil
}

// expire handles a rejected API key.
func (d *Dashboard) expire(ctx context.Context) []Effect {
	d.logger.Warn("session rejected by server")
	return d.leave(ctx, models.ActivityExpire)
}

func (d *Dashboard) leave(ctx context.Context, reason models.ActivityKind) []Effect {
	if err := d.store.Clear(ctx); err != nil {
		d.logger.Error("failed to clear session", "error", err)
	}
	d.redirect()
	return []Effect{RedirectEffect{Route: RouteLogin, Reason: reason}}
}

func (d *Dashboard) redirect() {
	d.State = DashboardRedirected
	d.Loading = false
	d.Scraping = false
	d.Updates = nil
	d.Pending, d.PendingID = ConfirmNone, ""
}

func (d *Dashboard) settle() {
	if len(d.Updates) == 0 {
		d.State = DashboardEmpty
	} else {
		d.State = DashboardPopulated
	}
}

func (d *Dashboard) succeed(msg string) {
	d.Notice, d.Error = msg, ""
}

func (d *Dashboard) fail(format string, err error) {
	d.Notice, d.Error = "", fmt.Sprintf(format, services.Message(err))
}
