// Package domain defines scan session states, outcomes and errors.
package domain

import (
	"time"
)

// State is the lifecycle state of a scan session.
type State string

const (
	StateIdle        State = "idle"
	StateCapturing   State = "capturing"
	StateFound       State = "found"
	StateTimedOut    State = "timed_out"
	StateCancelled   State = "cancelled"
	StateUnavailable State = "unavailable"
)

// IsTerminal reports whether s ends a session.
func (s State) IsTerminal() bool {
	switch s {
	case StateFound, StateTimedOut, StateCancelled, StateUnavailable:
		return true
	default:
		return false
	}
}

// String returns the state name.
func (s State) String() string {
	return string(s)
}

// Result describes how a session ended.
type Result struct {
	// Outcome is the terminal state reached.
	Outcome State
	// Token is the decoded text when Outcome is StateFound.
	Token string
	// Frames counts frames read from the camera.
	Frames int
	// Decoded counts frames passed to the decoder.
	Decoded int
	// Elapsed is the time spent capturing.
	Elapsed time.Duration
}

// Found reports whether the session produced a token.
func (r Result) Found() bool {
	return r.Outcome == StateFound
}
