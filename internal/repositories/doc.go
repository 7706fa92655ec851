// Package repositories implements SQLite persistence for the local audit trail.
//
// Update records are never stored; the server owns them. What is kept locally is an
// [ActivityRepository] of actions taken from this client (login, logout, scrape, clear,
// delete, session expiry) with their outcome.
//
// Sequence numbers provide stable ordering independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
