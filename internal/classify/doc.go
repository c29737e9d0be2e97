// Package classify groups loose still and video files into Live Photo
// candidates. Classification is a pure function of directory contents: it
// stats and lists but never writes, and re-running it over an unchanged tree
// yields the same candidate set.
package classify
