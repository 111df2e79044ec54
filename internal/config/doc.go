// Package config loads, normalizes, and validates ingest configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// INGEST_FFMPEG. The Config type centralizes the knobs the CLI needs so
// render backends, EDL defaults, and the run journal are discovered in one
// pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
