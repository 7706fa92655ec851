package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	next      key.Binding
	prev      key.Binding
	submit    key.Binding
	reveal    key.Binding
	tab1      key.Binding
	tab2      key.Binding
	tab3      key.Binding
	scrape    key.Binding
	clear     key.Binding
	remove    key.Binding
	yes       key.Binding
	no        key.Binding
	dismiss   key.Binding
	logout    key.Binding
	quit      key.Binding
	forceQuit key.Binding
	focusNext key.Binding
	focusPrev key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		next:      key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next tab")),
		prev:      key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "prev tab")),
		submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "login")),
		reveal:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "show/hide password")),
		tab1:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "hiring")),
		tab2:      key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "notice")),
		tab3:      key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "blog")),
		scrape:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start scraper")),
		clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear data")),
		remove:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		yes:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:        key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		dismiss:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
		logout:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		forceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		focusNext: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		focusPrev: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.next, k.prev},
		{k.scrape, k.clear, k.remove, k.logout},
		{k.yes, k.no, k.dismiss, k.quit},
	}
}

// loginHelp lists the bindings shown under the login form.
func (k keyMap) loginHelp() []key.Binding {
	return []key.Binding{k.submit, k.focusNext, k.reveal, k.forceQuit}
}

// dashboardHelp lists the bindings shown under the table.
func (k keyMap) dashboardHelp() []key.Binding {
	return []key.Binding{k.next, k.scrape, k.clear, k.remove, k.dismiss, k.logout, k.quit}
}

// confirmHelp lists the bindings shown while a confirmation is pending.
func (k keyMap) confirmHelp() []key.Binding {
	return []key.Binding{k.yes, k.no}
}
