// Package logging assembles structured slog loggers and formatting helpers used
// across ingest.
//
// It owns the console and JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so planning and render code can tag log
// lines with the run identifier, footage path, and shot number. NewNop provides
// a silent logger for tests and wiring code that cannot fail.
package logging
