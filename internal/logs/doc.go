// Package logs reads the streamsched log file for "streamsched logs".
//
// Tail returns the last N lines or everything after a byte offset, and in
// follow mode polls until new lines arrive or the wait expires. Filter narrows
// lines to one component and works on both the console and JSON formats the
// logging package writes.
package logs
