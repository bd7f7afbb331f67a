// File: api/handler.go
// Package api defines the Handler contract served by the reactor.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// Handler processes readiness events for one registered channel.
// Implementations are the acceptor (acceptable events) and per-connection
// handlers (readable events); a handler serves exactly one kind.
//
// Process runs on the reactor goroutine and must not be called concurrently.
type Handler interface {
	// Process consumes one readiness event and reports the outcome.
	Process(kind EventKind) Status

	// FD exposes the underlying channel's descriptor used as the
	// registration key.
	FD() int

	// Close releases the underlying channel. Called by the reactor after
	// a StatusDisconnected result. Safe to call more than once.
	Close() error
}
