// Package ingestrun wires configuration, session loading, planning and
// execution into a single ingest run.
//
// Load decodes a session file, builds the session (probing footage and
// importing an EDL when the file names one) and hands back everything the
// CLI needs to plan. Run executes a plan under a single-instance file lock,
// tags the context with a fresh run id, checks output directories, and
// journals every job.
package ingestrun
