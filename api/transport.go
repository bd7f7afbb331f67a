// File: api/transport.go
// Author: momentics <momentics@gmail.com>
//
// Defines the transport collaborator contract consumed by the core:
// non-blocking accept and read, synchronous write, idempotent close.

package api

// Conn abstracts one accepted full-duplex connection.
//
// Read never blocks: it returns ErrWouldBlock when no data is ready and
// io.EOF when the peer half-closed. Write is synchronous and must provide
// its own mutual exclusion, because two workers may hold messages from the
// same connection at the same time.
type Conn interface {
	// Read reads at most len(p) bytes into p without blocking.
	Read(p []byte) (n int, err error)

	// Write sends p in full, blocking the calling goroutine until done.
	Write(p []byte) (n int, err error)

	// Close releases the descriptor. Safe to call more than once.
	Close() error

	// FD returns the underlying OS-level descriptor.
	FD() int

	// RemoteAddr returns the peer address for diagnostics.
	RemoteAddr() string
}

// Listener abstracts the listening socket.
type Listener interface {
	// Accept performs one non-blocking accept attempt. It returns
	// ErrWouldBlock when no connection is pending.
	Accept() (Conn, error)

	// FD returns the listening descriptor.
	FD() int

	// Close releases the listening socket. Safe to call more than once.
	Close() error

	// Addr returns the bound address, with the port resolved when the
	// listener was opened on ":0".
	Addr() string
}
