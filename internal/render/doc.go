// Package render executes a plan.
//
// The Executor runs every per-shot hook first, then every job strictly in
// plan order through a Renderer backend. The first failing job stops the run;
// nothing already written is rolled back. Two backends exist: FFmpeg renders
// image sequences directly, Nuke generates a Python script realizing the
// Read → ModifyMetaData → [Reformat] → Write graph and executes it with
// `nuke -t`.
package render
