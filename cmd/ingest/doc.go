// Package main hosts the ingest CLI entrypoint and command graph.
//
// Commands load a session file, show the render plan it produces, run it
// against the configured backend, and inspect the run journal. Supporting
// commands preview EDL imports, test mapping rules, and scaffold the
// configuration file. The heavy lifting lives in the internal packages; this
// package resolves configuration and logging once and renders results for
// the terminal or as JSON.
package main
