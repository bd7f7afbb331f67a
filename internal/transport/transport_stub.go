//go:build !linux
// +build !linux

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Stub for platforms without a transport backend.

package transport

import "github.com/momentics/reactor-echo/api"

// Listener is unavailable on this platform.
type Listener struct{}

// Listen always fails on platforms without a socket backend.
func Listen(addr string) (*Listener, error) {
	return nil, api.ErrNotSupported
}

func (l *Listener) Accept() (api.Conn, error) { return nil, api.ErrNotSupported }
func (l *Listener) FD() int                   { return -1 }
func (l *Listener) Addr() string              { return "" }
func (l *Listener) Close() error              { return nil }
