// Package importer moves classified Live Photo candidates into the
// year/month library tree and records them in the index.
//
// Each candidate is handled atomically: the record is inserted only after
// its backing files are in place, and partially copied files are removed
// when a later step fails, so the index and the tree never disagree about a
// photo. One candidate's failure never aborts the run. Imports take a file
// lock on the library so only one writer touches the tree and index at a
// time.
package importer
