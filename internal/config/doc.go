// Package config loads, normalizes, and validates Lightbox configuration.
//
// It supplies repository defaults, expands tilde paths, reads TOML files, and
// centralizes every knob the CLI and core components need: library and export
// directories, the index database path, playback cadence, and external codec
// binaries. Core components never read ambient environment state; they
// receive a *Config at construction.
package config
