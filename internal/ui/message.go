package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/vidhi/internal/app"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgCompleted MsgKind = iota
	MsgRedirect
)

// completion is the payload of [MsgCompleted]: an effect result addressed to one view.
type completion struct {
	target app.Route
	event  app.Event
}

// completedMsg is the constructor for [MsgCompleted]
func completedMsg(target app.Route, ev app.Event) Msg {
	return Msg{kind: MsgCompleted, data: completion{target: target, event: ev}}
}

// redirectMsg is the constructor for [MsgRedirect]
func redirectMsg(route app.Route) Msg {
	return Msg{kind: MsgRedirect, data: route}
}
