// Package history keeps a sqlite journal of organized files.
//
// Each non-skipped move is one row: where it came from, where it went, its
// category, outcome, size and content hash. The journal is append-only.
package history
