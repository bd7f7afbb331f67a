// File: server/acceptor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/momentics/reactor-echo/api"
	"github.com/momentics/reactor-echo/queue"
)

// Registrar is the slice of the reactor the acceptor needs: the ability to
// register the connection handlers it creates.
type Registrar interface {
	Register(h api.Handler, kind api.EventKind)
}

// Acceptor turns accept-readiness on the listening socket into new
// connections, each wrapped in a ConnHandler registered for read events.
type Acceptor struct {
	ln        api.Listener
	reg       Registrar
	out       *queue.Queue
	nextID    *atomic.Uint64
	chunkSize int
	log       zerolog.Logger
	connLog   zerolog.Logger
}

// NewAcceptor wires the listener to the registrar. Connection handler
// identities are drawn from nextID, owned by the server.
func NewAcceptor(ln api.Listener, reg Registrar, out *queue.Queue, nextID *atomic.Uint64, chunkSize int, log zerolog.Logger) *Acceptor {
	return &Acceptor{
		ln:        ln,
		reg:       reg,
		out:       out,
		nextID:    nextID,
		chunkSize: chunkSize,
		log:       log.With().Str("component", "acceptor").Logger(),
		connLog:   log,
	}
}

// Process consumes one acceptable event with exactly one accept attempt.
// A spurious wakeup is a no-op; accept-level transport faults are logged
// and never fatal.
func (a *Acceptor) Process(kind api.EventKind) api.Status {
	if kind != api.EventAcceptable {
		return api.StatusWrongEvent
	}

	conn, err := a.ln.Accept()
	if err != nil {
		if errors.Is(err, api.ErrWouldBlock) {
			return api.StatusOK
		}
		a.log.Warn().Err(err).Msg("accept failed")
		return api.StatusOK
	}

	h := NewConnHandler(a.nextID.Add(1), conn, a.out, a.chunkSize, a.connLog)
	a.reg.Register(h, api.EventReadable)
	a.log.Debug().Uint64("conn_id", h.ID()).Str("remote", conn.RemoteAddr()).
		Msg("connection accepted")
	return api.StatusOK
}

// FD exposes the listening descriptor.
func (a *Acceptor) FD() int { return a.ln.FD() }

// Close releases the listening socket.
func (a *Acceptor) Close() error { return a.ln.Close() }
