// Command streamsched edits and publishes a streamer's daily schedule.
//
// Slot commands talk to a running streamschedd over its HTTP API so the
// overlay updates live. When no daemon answers they open the snapshot
// database directly. "streamsched serve" runs the daemon in the foreground.
package main
