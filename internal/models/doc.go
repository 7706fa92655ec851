// Package models defines the domain entities shared by every front end of vidhi.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): records owned by the remote updates service
//   - [Update] : A single job posting, notice or blog entry
//   - [Category] : The fixed tab enumeration used to filter updates
//   - [UpdateID], [Timestamp] : Lenient JSON decoders for server fields
//
// 2. Local state: values that this client creates and persists itself
//   - [Session] : The opaque API key issued at login
//   - [Activity] : Audit entries for actions taken from this machine
//
// Update records are never persisted locally; only [Session] and [Activity] are.
package models
