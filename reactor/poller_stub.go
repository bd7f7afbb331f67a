//go:build !linux
// +build !linux

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Stub for platforms without a poller backend.

package reactor

import "github.com/momentics/reactor-echo/api"

// NewPoller always fails on platforms without an epoll equivalent.
func NewPoller() (Poller, error) {
	return nil, api.ErrNotSupported
}
