// File: server/conn_handler.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/momentics/reactor-echo/api"
	"github.com/momentics/reactor-echo/queue"
)

// ConnHandler serves one connection's read-readiness: one bounded read per
// event, then a hand-off onto the shared queue. Process runs only on the
// reactor goroutine, so the read buffer is reused across events.
type ConnHandler struct {
	id   uint64
	conn api.Conn
	out  *queue.Queue
	buf  []byte
	log  zerolog.Logger
}

// NewConnHandler builds a handler for one accepted connection. The id is
// assigned once, monotonically increasing across the process, and is used
// for diagnostics only.
func NewConnHandler(id uint64, conn api.Conn, out *queue.Queue, chunkSize int, log zerolog.Logger) *ConnHandler {
	return &ConnHandler{
		id:   id,
		conn: conn,
		out:  out,
		buf:  make([]byte, chunkSize),
		log:  log.With().Str("component", "conn").Uint64("conn_id", id).Logger(),
	}
}

// ID returns the handler's stable identity.
func (h *ConnHandler) ID() uint64 { return h.id }

// Process consumes one readable event: a single non-blocking read of at
// most one chunk. EOF or a read fault disconnects; otherwise the chunk is
// pushed onto the queue. Push blocks the reactor goroutine while the queue
// is full, which stalls accepting and reading for every connection. That
// is the system's backpressure point, not an accident.
func (h *ConnHandler) Process(kind api.EventKind) api.Status {
	if kind != api.EventReadable {
		return api.StatusWrongEvent
	}

	n, err := h.conn.Read(h.buf)
	if err != nil {
		if errors.Is(err, api.ErrWouldBlock) {
			return api.StatusOK
		}
		if !errors.Is(err, io.EOF) {
			h.log.Debug().Err(err).Msg("read failed")
		}
		return api.StatusDisconnected
	}

	msg := queue.Message{Payload: string(h.buf[:n]), Conn: h.conn}
	if !h.out.Push(msg) {
		// Queue closed: the service is shutting down.
		return api.StatusDisconnected
	}
	return api.StatusOK
}

// FD exposes the connection descriptor.
func (h *ConnHandler) FD() int { return h.conn.FD() }

// Close releases the connection.
func (h *ConnHandler) Close() error { return h.conn.Close() }
