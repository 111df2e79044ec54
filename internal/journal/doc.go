// Package journal records ingest runs and their render jobs in SQLite.
//
// The journal is an audit trail: it is written while a run executes and read
// by `ingest history`. Planning never reads it.
package journal
