package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/vidhi/internal/app"
	"github.com/desertthunder/vidhi/internal/session"
)

// Options configures [NewModel].
type Options struct {
	Store    session.Store
	Executor *app.Executor
	Limit    int         // Updates per fetch; ≤ 0 uses the service default
	Logger   *log.Logger // Should not write to the terminal the TUI draws on
	Now      func() time.Time
}

// Model is the root TUI model. It owns both views and switches between them on redirects.
type Model struct {
	ctx       context.Context
	route     app.Route
	store     session.Store
	exec      *app.Executor
	logger    *log.Logger
	login     loginView
	dashboard dashboardView
	spinner   spinner.Model
	help      help.Model
	keys      keyMap
	width     int
	height    int
	now       func() time.Time
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.warn

	return &Model{
		ctx:       ctx,
		route:     app.RouteLogin,
		store:     opts.Store,
		exec:      opts.Executor,
		logger:    opts.Logger,
		login:     newLoginView(app.NewLoginMachine(opts.Store, opts.Logger)),
		dashboard: newDashboardView(app.NewDashboard(opts.Store, opts.Limit, opts.Logger)),
		spinner:   sp,
		help:      help.New(),
		keys:      newKeyMap(),
		now:       opts.Now,
	}
}

// Route returns the active view.
func (m *Model) Route() app.Route {
	return m.route
}

// Init opens the dashboard when a session is already stored, otherwise the login form.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, textinput.Blink}

	s, err := m.store.Get(m.ctx)
	if err != nil {
		m.logger.Warn("failed to read session", "error", err)
	}
	if err == nil && s.Valid() {
		cmds = append(cmds, m.enter(app.RouteDashboard))
	}
	return tea.Batch(cmds...)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.login.setWidth(msg.Width)
		m.dashboard.setSize(msg.Width, msg.Height)
		m.dashboard.sync()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.forceQuit) {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}

	if m.route == app.RouteLogin {
		return m, m.login.update(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.route == app.RouteLogin {
		effects, cmd := m.login.handleKey(m.ctx, msg, m.keys)
		return m, tea.Batch(cmd, m.run(app.RouteLogin, effects))
	}

	if m.dashboard.machine.Pending == app.ConfirmNone && key.Matches(msg, m.keys.quit) {
		return m, tea.Quit
	}

	effects, cmd := m.dashboard.handleKey(m.ctx, msg, m.keys)
	m.dashboard.sync()
	return m, tea.Batch(cmd, m.run(app.RouteDashboard, effects))
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgRedirect:
		return m, m.enter(msg.data.(app.Route))

	case MsgCompleted:
		c := msg.data.(completion)
		if c.target != m.route {
			m.logger.Debug("dropping completion for inactive view", "target", c.target, "event", c.event)
			return m, nil
		}

		var effects []app.Effect
		if c.target == app.RouteLogin {
			effects = m.login.machine.Handle(m.ctx, c.event)
		} else {
			effects = m.dashboard.machine.Handle(m.ctx, c.event)
			m.dashboard.sync()
		}
		return m, m.run(c.target, effects)
	}
	return m, nil
}

// enter switches to route and sends the view its entry event.
func (m *Model) enter(route app.Route) tea.Cmd {
	m.route = route
	if route == app.RouteLogin {
		return m.login.reset()
	}

	effects := m.dashboard.machine.Handle(m.ctx, app.Entered{})
	m.dashboard.sync()
	return m.run(app.RouteDashboard, effects)
}

// run turns effects into commands. Each request runs off the update loop and reports back as a [Msg].
func (m *Model) run(target app.Route, effects []app.Effect) tea.Cmd {
	if len(effects) == 0 {
		return nil
	}

	cmds := make([]tea.Cmd, 0, len(effects))
	for _, eff := range effects {
		if r, ok := eff.(app.RedirectEffect); ok {
			cmds = append(cmds, func() tea.Msg {
				m.exec.Run(m.ctx, r)
				return redirectMsg(r.Route)
			})
			continue
		}
		cmds = append(cmds, func() tea.Msg {
			return completedMsg(target, m.exec.Run(m.ctx, eff))
		})
	}
	return tea.Batch(cmds...)
}

// View renders the active view above the footer.
func (m *Model) View() string {
	var body string
	if m.route == app.RouteLogin {
		body = m.login.view(m)
	} else {
		body = m.dashboard.view(m)
	}
	return body + "\n" + m.footer()
}

func (m *Model) footer() string {
	return styles.footer.Render(app.Copyright(m.now().Year()) + "\n" + app.Credit)
}

// Run starts the TUI on the alternate screen and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(NewModel(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
