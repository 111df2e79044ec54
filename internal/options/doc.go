// Package options defines the global render options of an ingest session and
// the fixed value sets they draw from.
//
// Fields projects a set of options onto the enablement state of every
// dependent input, so front ends can render controls without reimplementing
// the toggling rules.
package options
