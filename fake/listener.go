// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package fake

import (
	"sync"

	"github.com/momentics/reactor-echo/api"
)

type acceptStep struct {
	conn api.Conn
	err  error
}

// Listener is a fake api.Listener with scripted accept results. When the
// script is exhausted, Accept reports api.ErrWouldBlock.
type Listener struct {
	mu      sync.Mutex
	fd      int
	accepts []acceptStep
	calls   int
	closed  bool
}

// NewListener creates a fake listener with the given descriptor number.
func NewListener(fd int) *Listener {
	return &Listener{fd: fd}
}

// AddConn queues one successful accept returning conn.
func (l *Listener) AddConn(conn api.Conn) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accepts = append(l.accepts, acceptStep{conn: conn})
}

// AddAcceptError queues one failing accept attempt.
func (l *Listener) AddAcceptError(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accepts = append(l.accepts, acceptStep{err: err})
}

// Accept implements api.Listener.Accept against the scripted steps.
func (l *Listener) Accept() (api.Conn, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls++
	if l.closed {
		return nil, api.ErrClosed
	}
	if len(l.accepts) == 0 {
		return nil, api.ErrWouldBlock
	}

	step := l.accepts[0]
	l.accepts = l.accepts[1:]
	if step.err != nil {
		return nil, step.err
	}
	return step.conn, nil
}

// AcceptCalls returns how many times Accept was invoked.
func (l *Listener) AcceptCalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

// FD implements api.Listener.FD.
func (l *Listener) FD() int { return l.fd }

// Addr implements api.Listener.Addr.
func (l *Listener) Addr() string { return "fake-listener" }

// Close implements api.Listener.Close.
func (l *Listener) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}
