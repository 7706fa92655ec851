// Package app holds the view logic shared by every front end.
//
// The Login and Dashboard views are explicit state machines. A front end feeds an [Event]
// to a machine's Handle method and receives zero or more [Effect] values describing the
// work to do next: network calls, or a redirect between routes. An [Executor] turns each
// network effect into a completion event, which is fed back into the same machine.
//
// The terminal UI runs each effect as a tea.Cmd so the screen keeps redrawing while
// requests are in flight. The local web shell and the CLI call [Drive], which runs an
// event and all of its follow-up effects synchronously.
//
// # Session
//
// Machines read the [session.Store] before every authorized effect and pass the
// [models.Session] explicitly. Any completion carrying a [services.AuthError] clears the
// store and redirects to [RouteLogin].
package app
