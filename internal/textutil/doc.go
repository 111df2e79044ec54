// Package textutil provides text helpers shared by the session loader, the
// render backends, and the CLI.
//
// Paths are normalized to Unicode NFC before pattern matching so footage
// imported from filesystems that store decomposed names (HFS+, some SMB
// shares) matches mapping rules typed in composed form.
package textutil
