// File: api/events.go
// Package api defines the readiness-event and handler-status vocabulary.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// EventKind identifies the readiness notification delivered to a handler.
// The reactor multiplexes exactly two kinds: a listening socket becoming
// acceptable and a connected socket becoming readable.
type EventKind int

const (
	// EventAcceptable means the listening socket has a pending connection.
	EventAcceptable EventKind = iota

	// EventReadable means the connected socket has data available.
	EventReadable
)

// String returns a human-readable event kind name for logs.
func (k EventKind) String() string {
	switch k {
	case EventAcceptable:
		return "acceptable"
	case EventReadable:
		return "readable"
	default:
		return "unknown"
	}
}

// Status is the result of a handler processing one readiness event.
// It is the only signaling channel between handlers and the reactor;
// handlers never panic to report disconnects.
type Status int

const (
	// StatusOK means the event was consumed, possibly as a no-op on a
	// spurious wakeup.
	StatusOK Status = iota

	// StatusWrongEvent means the handler was dispatched an event kind it
	// does not serve. No side effect took place.
	StatusWrongEvent

	// StatusDisconnected means the peer went away (EOF or read fault).
	// The reactor must unregister the handler and close its channel.
	StatusDisconnected
)

// String returns a human-readable status name for logs.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusWrongEvent:
		return "wrong-event"
	case StatusDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}
