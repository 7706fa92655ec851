// Package services defines the [Service] interface for the Vidhi Sahayak updates API and implements it over HTTP.
//
// # Service Interface
//
// [Service] is the only path to the backend. The TUI, the local web shell and the CLI all
// drive it through the state machines in package app, so every front end sees the same
// request sequence for the same user action.
//
// # Transport
//
// [APIService] performs raw requests and returns an [APIResponse] without interpreting
// status codes. It is also used directly by the `api` debugging commands.
//
// [Client] builds typed operations on top of it:
//   - Login: POST /auth/login with {username, password}, returns api_key
//   - ListUpdates: GET /updates/?type=<category>&limit=<n>
//   - TriggerScrape: POST /updates/fetch-live with {}
//   - DeleteUpdate: DELETE /updates/{id}
//   - DeleteAllUpdates: DELETE /updates/all
//
// Every call except Login carries the session key in the [APIKeyHeader] header.
//
// # Error Handling
//
// Failures are reported as one of two types:
//   - [*AuthError]: rejected credentials, or HTTP 401 from an authorized route. Wraps [shared.ErrNotAuthenticated] for 401.
//   - [*TransportError]: network failure or any other non-2xx status. Wraps [shared.ErrAPIRequest].
//
// Messages prefer the server's detail field and fall back to "request failed with status code N".
package services
