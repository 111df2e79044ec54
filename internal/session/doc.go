// Package session holds the in-memory state of one ingest: the imported
// footage with its shot lists, the mapping table, the metadata entries, and
// the global render options.
//
// Every mutation goes through a Session method so the same validation applies
// whether state comes from a session file, an EDL import, or a front end.
// The plan builder only reads a Session; it never mutates one.
package session
