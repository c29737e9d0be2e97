// Package library persists the photo index in SQLite and keeps it consistent
// with the on-disk year/month library tree.
//
// Store covers the index-only operations: insert, point lookup, ordered
// listing, filtered search, duration updates, and row removal. Library wraps
// a Store with the maintenance operations that touch both sides of the
// boundary: delete (backing files to trash, then the row) and stats
// (index counts plus aggregate on-disk size).
//
// Capture timestamps are stored as fixed-width UTC strings so that SQL
// string comparison is chronological. Schema changes bump schemaVersion in
// schema.go.
package library
