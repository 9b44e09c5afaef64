// Package kvstore persists opaque blobs in a SQLite key/value table.
//
// The slot store writes its whole snapshot under a single key on every
// mutation, so the table stays tiny. Schema changes ship as embedded
// migrations applied on Open.
package kvstore
