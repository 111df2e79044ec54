// Package services defines shared utilities consumed by the planning, render,
// and import layers.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, footage paths, shot numbers, and
//     stage names for logging.
//   - Structured error markers plus the Wrap helper so callers can tell
//     configuration problems apart from external tool failures.
//
// Use these helpers when wiring new components so operational behaviour
// (error reporting, observability) stays uniform across the tool.
package services
