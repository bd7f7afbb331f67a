// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development.
// Provides predictable, controllable behavior for the core interfaces.

package fake

import (
	"fmt"
	"sync"

	"github.com/momentics/reactor-echo/api"
)

type readStep struct {
	data []byte
	err  error
}

// Conn is a fake api.Conn with scripted reads and recorded writes.
// When the read script is exhausted, Read reports api.ErrWouldBlock,
// modelling a spurious wakeup.
type Conn struct {
	mu         sync.Mutex
	fd         int
	reads      []readStep
	writes     [][]byte
	writeErr   error
	closed     bool
	closeCalls int
}

// NewConn creates a fake connection with the given descriptor number.
func NewConn(fd int) *Conn {
	return &Conn{fd: fd}
}

// AddReadData queues one successful read returning a copy of data.
func (c *Conn) AddReadData(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	c.reads = append(c.reads, readStep{data: buf})
}

// AddReadError queues one failing read (use io.EOF for a half-close).
func (c *Conn) AddReadError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads = append(c.reads, readStep{err: err})
}

// SetWriteError configures Write to fail without recording anything.
func (c *Conn) SetWriteError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeErr = err
}

// Read implements api.Conn.Read against the scripted steps.
func (c *Conn) Read(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, api.ErrClosed
	}
	if len(c.reads) == 0 {
		return 0, api.ErrWouldBlock
	}

	step := c.reads[0]
	c.reads = c.reads[1:]
	if step.err != nil {
		return 0, step.err
	}
	n := copy(p, step.data)
	return n, nil
}

// Write implements api.Conn.Write, recording the payload.
func (c *Conn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, api.ErrClosed
	}
	if c.writeErr != nil {
		return 0, c.writeErr
	}

	buf := make([]byte, len(p))
	copy(buf, p)
	c.writes = append(c.writes, buf)
	return len(p), nil
}

// Writes returns copies of every recorded write, in order.
func (c *Conn) Writes() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.writes))
	for i, w := range c.writes {
		buf := make([]byte, len(w))
		copy(buf, w)
		out[i] = buf
	}
	return out
}

// WriteStrings returns every recorded write as a string.
func (c *Conn) WriteStrings() []string {
	ws := c.Writes()
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = string(w)
	}
	return out
}

// Close implements api.Conn.Close, counting invocations.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.closeCalls++
	return nil
}

// Closed reports whether Close has been called.
func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// CloseCalls returns how many times Close was invoked.
func (c *Conn) CloseCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeCalls
}

// FD implements api.Conn.FD.
func (c *Conn) FD() int { return c.fd }

// RemoteAddr implements api.Conn.RemoteAddr.
func (c *Conn) RemoteAddr() string { return fmt.Sprintf("fake:%d", c.fd) }
