// Package preflight provides readiness checks for the filesystem paths and
// external binaries ingest depends on.
//
// The CLI "ingest check" command prints every result; "ingest run" calls
// RunAll with the output directories of the plan and refuses to start when a
// check fails, so a permission problem surfaces before the first frame renders
// instead of after an hour of rendering.
package preflight
