// Package logic contains the pure decision logic of the access panel.
// This package has NO external dependencies (no GPIO, display, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// MaxCapacity is the default number of occupants the room admits.
const MaxCapacity = 8

// DebounceThreshold is the default minimum spacing between accepted edges on one control.
const DebounceThreshold = 200 * time.Millisecond

// Control identifies one of the three physical inputs of the panel.
type Control int

const (
	ControlEntry Control = iota // button A
	ControlExit                 // button B
	ControlReset                // joystick press
	numControls
)

// String returns the control name used in logs.
func (c Control) String() string {
	switch c {
	case ControlEntry:
		return "ENTRY"
	case ControlExit:
		return "EXIT"
	case ControlReset:
		return "RESET"
	default:
		return "UNKNOWN"
	}
}

// EventKind tags an Event for the task that consumes it.
type EventKind string

const (
	EventEntry EventKind = "ENTRY"
	EventExit  EventKind = "EXIT"
)

// Event is a validated button press handed from the edge handler to a task.
type Event struct {
	Kind EventKind
	Time time.Time
}

// KindFor maps a control to the event it produces.
// The reset control has no event kind; it raises the reset signal instead.
func KindFor(c Control) (EventKind, bool) {
	switch c {
	case ControlEntry:
		return EventEntry, true
	case ControlExit:
		return EventExit, true
	default:
		return "", false
	}
}

// Counts tracks panel outcomes since startup.
type Counts struct {
	Admitted      int
	Rejected      int
	Released      int
	EmptyReleases int
	Resets        int
	Dropped       int
}

// HeartbeatData contains information for a heartbeat log line.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
}
