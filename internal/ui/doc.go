// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI has two views, mirroring the routes in package app:
//  1. Login : username and password inputs with a show/hide toggle (ctrl+r)
//  2. Dashboard : category tabs over a table of updates, with scrape, clear and delete actions
//
// The root [Model] owns both views and switches between them when a state machine emits a
// redirect. View logic lives in app.LoginMachine and app.Dashboard; this package only maps
// keys to events and renders machine state. Each effect runs as a tea.Cmd and its
// completion comes back as a [Msg], so the screen keeps redrawing while requests are in flight.
//
// Destructive actions ask for y/n confirmation. A footer with the copyright and credit lines
// is rendered under both views.
package ui
