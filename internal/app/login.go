package app

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/vidhi/internal/models"
	"github.com/desertthunder/vidhi/internal/services"
	"github.com/desertthunder/vidhi/internal/session"
)

// LoginState is the phase of the login view.
type LoginState int

const (
	LoginEditing LoginState = iota
	LoginSubmitting
	LoginRedirected
)

func (s LoginState) String() string {
	switch s {
	case LoginSubmitting:
		return "submitting"
	case LoginRedirected:
		return "redirected"
	default:
		return "editing"
	}
}

// LoginMachine drives the login view: editing → submitting → {redirected, editing with error}.
type LoginMachine struct {
	store  session.Store
	logger *log.Logger

	State        LoginState
	Username     string
	ShowPassword bool
	Error        string
}

// NewLoginMachine creates a login machine in the editing state.
func NewLoginMachine(store session.Store, logger *log.Logger) *LoginMachine {
	if logger == nil {
		logger = log.Default()
	}
	return &LoginMachine{store: store, logger: logger}
}

// Reset returns the machine to an empty editing state.
func (m *LoginMachine) Reset() {
	m.State = LoginEditing
	m.Username = ""
	m.ShowPassword = false
	m.Error = ""
}

// Busy reports whether a login request is in flight.
func (m *LoginMachine) Busy() bool {
	return m.State == LoginSubmitting
}

// Handle applies ev and returns the effects to run.
func (m *LoginMachine) Handle(ctx context.Context, ev Event) []Effect {
	switch ev := ev.(type) {
	case PasswordVisibilityToggled:
		m.ShowPassword = !m.ShowPassword
		return nil

	case LoginSubmitted:
		if m.State == LoginSubmitting {
			return nil
		}
		m.State = LoginSubmitting
		m.Username = ev.Username
		m.Error = ""
		return []Effect{LoginEffect{Username: ev.Username, Password: ev.Password}}

	case LoginCompleted:
		if m.State != LoginSubmitting {
			return nil
		}
		if ev.Err != nil {
			m.fail(services.Message(ev.Err))
			return nil
		}

		if err := m.store.Set(ctx, models.Session{APIKey: ev.APIKey}); err != nil {
			m.logger.Error("failed to persist session", "error", err)
			m.fail(err.Error())
			return nil
		}

		m.State = LoginRedirected
		return []Effect{RedirectEffect{Route: RouteDashboard}}
	}
	return nil
}

func (m *LoginMachine) fail(msg string) {
	if msg == "" {
		msg = services.DefaultLoginMessage
	}
	m.State = LoginEditing
	m.Error = msg
}
