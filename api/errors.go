// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error values shared across the reactor-echo packages.

package api

import "errors"

var (
	// ErrWouldBlock reports that a non-blocking accept or read found
	// nothing ready. Callers treat it as a spurious wakeup, not a fault.
	ErrWouldBlock = errors.New("operation would block")

	// ErrClosed reports use of a listener, connection or poller after
	// Close.
	ErrClosed = errors.New("resource is closed")

	// ErrNotSupported reports a platform without a poller or transport
	// implementation.
	ErrNotSupported = errors.New("operation not supported on this platform")
)
