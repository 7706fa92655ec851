package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/vidhi/internal/app"
)

const (
	fieldUsername = iota
	fieldPassword
)

// loginView renders [app.LoginMachine] as a two-field form.
type loginView struct {
	machine  *app.LoginMachine
	username textinput.Model
	password textinput.Model
	focus    int
}

func newLoginView(machine *app.LoginMachine) loginView {
	u := textinput.New()
	u.Placeholder = "Username"
	u.Prompt = "Username: "
	u.CharLimit = 128

	p := textinput.New()
	p.Placeholder = "Password"
	p.Prompt = "Password: "
	p.CharLimit = 128
	p.EchoMode = textinput.EchoPassword
	p.EchoCharacter = '•'

	v := loginView{machine: machine, username: u, password: p}
	v.username.Focus()
	return v
}

// reset clears both fields and focuses the username.
func (v *loginView) reset() tea.Cmd {
	v.machine.Reset()
	v.username.SetValue("")
	v.password.SetValue("")
	v.password.EchoMode = textinput.EchoPassword
	v.focus = fieldUsername
	v.password.Blur()
	return v.username.Focus()
}

func (v *loginView) setWidth(w int) {
	v.username.Width = max(w-16, 10)
	v.password.Width = max(w-16, 10)
}

func (v *loginView) setFocus(field int) tea.Cmd {
	v.focus = field
	if field == fieldUsername {
		v.password.Blur()
		return v.username.Focus()
	}
	v.username.Blur()
	return v.password.Focus()
}

// handleKey returns the machine effects and any input command for msg.
func (v *loginView) handleKey(ctx context.Context, msg tea.KeyMsg, keys keyMap) ([]app.Effect, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.reveal):
		effects := v.machine.Handle(ctx, app.PasswordVisibilityToggled{})
		v.syncEcho()
		return effects, nil

	case key.Matches(msg, keys.focusNext):
		return nil, v.setFocus((v.focus + 1) % 2)

	case key.Matches(msg, keys.focusPrev):
		return nil, v.setFocus((v.focus + 1) % 2)

	case key.Matches(msg, keys.submit):
		if v.focus == fieldUsername {
			return nil, v.setFocus(fieldPassword)
		}
		return v.machine.Handle(ctx, app.LoginSubmitted{
			Username: strings.TrimSpace(v.username.Value()),
			Password: v.password.Value(),
		}), nil
	}

	if v.machine.Busy() {
		return nil, nil
	}

	var cmd tea.Cmd
	if v.focus == fieldUsername {
		v.username, cmd = v.username.Update(msg)
	} else {
		v.password, cmd = v.password.Update(msg)
	}
	return nil, cmd
}

func (v *loginView) syncEcho() {
	if v.machine.ShowPassword {
		v.password.EchoMode = textinput.EchoNormal
	} else {
		v.password.EchoMode = textinput.EchoPassword
	}
}

// update forwards non-key messages, such as cursor blinks, to the focused input.
func (v *loginView) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if v.focus == fieldUsername {
		v.username, cmd = v.username.Update(msg)
	} else {
		v.password, cmd = v.password.Update(msg)
	}
	return cmd
}

func (v *loginView) view(m *Model) string {
	var b strings.Builder

	b.WriteString(styles.title.Render(app.Brand + " Admin"))
	b.WriteString("\n")
	b.WriteString(v.username.View())
	b.WriteString("\n")
	b.WriteString(v.password.View())
	b.WriteString("\n\n")

	switch {
	case v.machine.Busy():
		b.WriteString(m.spinner.View() + " Logging in...")
	case v.machine.Error != "":
		b.WriteString(styles.err.Render(v.machine.Error))
	default:
		b.WriteString(styles.help.Render("Enter your credentials"))
	}

	return styles.box.Render(b.String()) + "\n\n" + m.help.ShortHelpView(m.keys.loginHelp())
}
