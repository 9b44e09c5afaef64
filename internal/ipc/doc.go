// Package ipc is the CLI's client for a running streamsched daemon.
//
// The daemon owns the in-memory slot store, so while it runs every slot
// mutation from the CLI goes through its HTTP API instead of writing the
// snapshot database directly. Calls carry context timeouts so commands fail
// fast when the daemon is offline; ErrUnavailable tells callers to fall back
// to local storage.
package ipc
