// Package daemon coordinates the long-running streamsched process.
//
// It wires the snapshot database, the slot store, the display board, the
// config document service, and the HTTP API into a single lifecycle with
// flock-based locking so only one instance writes the snapshot. Preflight
// directory checks run before the lock is taken.
//
// Keep orchestration here: slot semantics live in schedule, rendering in
// view, and request handling in api.
package daemon
