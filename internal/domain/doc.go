// Package domain contains the core value types and errors for presenced.
//
// It has no dependencies on infrastructure concerns (IPC, file system, logging).
//
// # Entities
//
//   - [PresenceSnapshot]: the status shown by the external rich-presence service
//
// Snapshots are built once at startup and never mutated afterwards, so they can
// be read from the publisher goroutine without synchronization.
package domain
