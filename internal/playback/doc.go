// Package playback implements the hover playback state machine for Live
// Photos. A Session moves Idle -> Armed -> Playing -> Idle: arming starts a
// dwell timer, the timer entering Playing opens a frame decoder, and
// playback emits letterboxed frames at a fixed rate until the tick budget
// runs out or the pointer leaves. Every return to Idle shows the still frame
// and releases the decoder. A failed decode drops the session into a
// permanent still-only fallback.
package playback
