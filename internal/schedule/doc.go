// Package schedule owns the stream slot model and the Store that mediates
// every read and write of the four slot collections.
//
// A collection is addressed by a Key crossing the day context (today,
// tomorrow) with the schedule type (normal, work). The Store seeds each
// collection from built-in defaults, replaces them wholesale with a persisted
// snapshot when one parses, and writes a full snapshot after every mutation.
// Observers are told which displays and editors must be re-rendered.
//
// Time ranges are kept as display strings ("9:30 AM - 12:30 PM"); ParseRange,
// FormatRange and DeriveNext are the only places that interpret them.
package schedule
