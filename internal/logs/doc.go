// Package logs reads the persistent ingest log for the CLI.
//
// Tail returns the last lines of the log, optionally limited to one run, and
// Follow polls for lines appended after a byte offset until the context ends.
package logs
