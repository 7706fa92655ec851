// Package server provides HTTP routing, middleware, and the listener for the local web shell.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
// One path may carry several methods; [BasicRouter.NotFound] installs the fallback for unmatched paths.
//
// # Middleware
//
//   - [Logging] : one structured log line per request
//   - [Recoverer] : converts panics into 500 responses
//   - [NoCache] : disables caching of rendered pages
//
// # Listener
//
// [Serve] binds the address, reports the URL and shuts down gracefully when its context ends.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
