package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/vidhi/internal/app"
	"github.com/desertthunder/vidhi/internal/models"
	"github.com/desertthunder/vidhi/internal/server"
	"github.com/desertthunder/vidhi/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options configures a [Handler].
type Options struct {
	Store    session.Store
	Executor *app.Executor
	Limit    int
	Logger   *log.Logger
	Now      func() time.Time
}

// Handler serves the login and dashboard pages.
//
// One browser drives one pair of machines; every request holds mu for its whole dispatch.
type Handler struct {
	mu sync.Mutex

	store  session.Store
	exec   *app.Executor
	logger *log.Logger
	now    func() time.Time

	login *app.LoginMachine
	dash  *app.Dashboard
	// entered is set once the dashboard has been entered for the current session.
	entered bool

	pages map[string]*template.Template
	mux   *server.BasicRouter
}

// NewHandler parses the embedded templates and builds the page routes.
func NewHandler(opts Options) (*Handler, error) {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	pages, err := parsePages("login", "dashboard")
	if err != nil {
		return nil, err
	}

	h := &Handler{
		store:  opts.Store,
		exec:   opts.Executor,
		logger: opts.Logger,
		now:    opts.Now,
		login:  app.NewLoginMachine(opts.Store, opts.Logger),
		dash:   app.NewDashboard(opts.Store, opts.Limit, opts.Logger),
		pages:  pages,
		mux:    server.NewBasicRouter(),
	}

	h.mux.HandleFunc(http.MethodGet, "/{$}", h.showLogin)
	h.mux.HandleFunc(http.MethodPost, "/{$}", h.submitLogin)
	h.mux.HandleFunc(http.MethodGet, "/dashboard", h.showDashboard)
	h.mux.HandleFunc(http.MethodPost, "/dashboard/{action}", h.dashboardAction)
	h.mux.HandleFunc(http.MethodPost, "/logout", h.logout)
	return h, nil
}

// Routes implements [server.Handler].
func (h *Handler) Routes() []string {
	return []string{"/{$}", "/dashboard", "/dashboard/{action}", "/logout"}
}

// ServeHTTP implements [http.Handler].
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mux.ServeHTTP(w, r)
}

// NewRouter mounts h with request logging and panic recovery.
// Unknown paths redirect to the route they resolve to.
func NewRouter(h *Handler, logger *log.Logger) *server.BasicRouter {
	r := server.NewBasicRouter()
	r.Use(server.Recoverer(logger), server.Logging(logger), server.NoCache)
	r.Handler(h)
	r.NotFound(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, app.Resolve(req.URL.Path).String(), http.StatusFound)
	}))
	return r
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	if h.authenticated(r.Context()) {
		http.Redirect(w, r, app.RouteDashboard.String(), http.StatusFound)
		return
	}
	switch h.login.State {
	case app.LoginRedirected:
		h.login.Reset()
	case app.LoginEditing:
		h.login.Error = ""
	}
	h.renderLogin(w, http.StatusOK)
}

func (h *Handler) submitLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	ev := app.LoginSubmitted{Username: r.PostForm.Get("username"), Password: r.PostForm.Get("password")}
	route, redirected := app.Drive(r.Context(), h.login, h.exec, ev)
	if redirected {
		h.entered = false
		h.see(w, r, route)
		return
	}
	h.renderLogin(w, http.StatusUnauthorized)
}

func (h *Handler) showDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.entered || r.URL.Query().Has("refresh") || !h.authenticated(ctx) {
		h.entered = true
		if route, redirected := app.Drive(ctx, h.dash, h.exec, app.Entered{}); redirected {
			h.entered = false
			http.Redirect(w, r, route.String(), http.StatusFound)
			return
		}
	}
	h.renderDashboard(w)
}

func (h *Handler) dashboardAction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	var ev app.Event
	switch r.PathValue("action") {
	case "category":
		c, err := models.ParseCategory(r.PostForm.Get("category"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		ev = app.CategoryChanged{Category: c}
	case "scrape":
		ev = app.ScrapeRequested{}
	case "clear":
		ev = app.ClearRequested{}
	case "delete":
		ev = app.DeleteRequested{ID: models.UpdateID(r.PostForm.Get("id"))}
	case "confirm":
		ev = app.Confirmed{}
	case "cancel":
		ev = app.Cancelled{}
	case "dismiss":
		ev = app.Dismissed{}
	default:
		http.NotFound(w, r)
		return
	}

	h.dispatch(w, r, ev)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, app.LogoutRequested{})
}

// dispatch drives ev through the dashboard and answers with a redirect, so a reload never repeats a POST.
func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, ev app.Event) {
	route, redirected := app.Drive(r.Context(), h.dash, h.exec, ev)
	if redirected && route != app.RouteDashboard {
		h.entered = false
		h.see(w, r, route)
		return
	}
	h.see(w, r, app.RouteDashboard)
}

func (h *Handler) see(w http.ResponseWriter, r *http.Request, route app.Route) {
	http.Redirect(w, r, route.String(), http.StatusSeeOther)
}

func (h *Handler) authenticated(ctx context.Context) bool {
	s, err := h.store.Get(ctx)
	if err != nil {
		h.logger.Warn("failed to read session", "error", err)
		return false
	}
	return s.Valid()
}

type page struct {
	Title     string
	Brand     string
	Copyright string
	Credit    string
	EmptyText string
	LoggedIn  bool

	Login     *loginPage
	Dashboard *dashboardPage
}

type loginPage struct {
	Username string
	Error    string
}

type dashboardPage struct {
	Tabs     []tab
	Updates  []models.Update
	Loading  bool
	Scraping bool
	Confirm  string
	Notice   string
	Error    string
}

type tab struct {
	Value  string
	Title  string
	Active bool
}

func (h *Handler) chrome(title string) page {
	return page{
		Title:     title,
		Brand:     app.Brand,
		Copyright: app.Copyright(h.now().Year()),
		Credit:    app.Credit,
		EmptyText: app.EmptyText,
	}
}

func (h *Handler) renderLogin(w http.ResponseWriter, status int) {
	p := h.chrome("Login")
	p.Login = &loginPage{Username: h.login.Username, Error: h.login.Error}
	h.render(w, "login", status, p)
}

func (h *Handler) renderDashboard(w http.ResponseWriter) {
	d := h.dash
	tabs := make([]tab, 0, len(models.Categories()))
	for _, c := range models.Categories() {
		tabs = append(tabs, tab{Value: c.String(), Title: c.Title(), Active: c == d.Category})
	}

	p := h.chrome("Dashboard")
	p.LoggedIn = true
	p.Dashboard = &dashboardPage{
		Tabs:     tabs,
		Updates:  d.Updates,
		Loading:  d.Loading,
		Scraping: d.Scraping,
		Confirm:  d.ConfirmText(),
		Notice:   d.Notice,
		Error:    d.Error,
	}
	h.render(w, "dashboard", http.StatusOK, p)
}

func (h *Handler) render(w http.ResponseWriter, name string, status int, p page) {
	var buf bytes.Buffer
	if err := h.pages[name].ExecuteTemplate(&buf, "layout", p); err != nil {
		h.logger.Error("failed to render page", "page", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func parsePages(names ...string) (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}
