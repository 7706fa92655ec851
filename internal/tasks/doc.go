// Package tasks runs operations against the updates service that span many requests, with real-time progress reporting.
//
// # Core Operations
//
// [UpdatesEngine] provides two operations:
//
//  1. [UpdatesEngine.BulkDelete] : Delete many updates by id
//     - Bounded worker pool sharing one golang.org/x/time/rate limiter
//     - Failures collected per id, never fatal to the rest of the batch
//     - An auth failure cancels everything not yet sent
//
//  2. [UpdatesEngine.Collect] : List several categories concurrently
//     - Used by exports spanning every tab
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data.
// Updates use select with default to prevent blocking.
package tasks
