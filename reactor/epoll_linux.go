//go:build linux
// +build linux

// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor - Linux epoll poller backend.

package reactor

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/momentics/reactor-echo/api"
)

// epollPoller implements Poller over level-triggered epoll. An eventfd is
// registered alongside the watched sockets so Close can wake a Wait that
// would otherwise block forever (the loop has no timeout).
type epollPoller struct {
	epfd   int
	wakefd int
	sysEvs []unix.EpollEvent
	closed atomic.Bool
}

// NewPoller creates the epoll instance and its wakeup eventfd.
func NewPoller() (Poller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll create: %w", err)
	}

	wakefd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		unix.Close(epfd)
		return nil, fmt.Errorf("eventfd create: %w", err)
	}

	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(wakefd)}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, wakefd, &ev); err != nil {
		unix.Close(wakefd)
		unix.Close(epfd)
		return nil, fmt.Errorf("epoll ctl add wakefd: %w", err)
	}

	return &epollPoller{
		epfd:   epfd,
		wakefd: wakefd,
		sysEvs: make([]unix.EpollEvent, maxEvents),
	}, nil
}

// Add sets fd non-blocking and subscribes it to read readiness. Both
// accept-readiness on a listener and data-readiness on a connection
// surface as EPOLLIN.
func (p *epollPoller) Add(fd int) error {
	if p.closed.Load() {
		return api.ErrClosed
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		return fmt.Errorf("set nonblock: %w", err)
	}
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("epoll ctl add: %w", err)
	}
	return nil
}

// Remove cancels the subscription for fd.
func (p *epollPoller) Remove(fd int) error {
	if p.closed.Load() {
		return api.ErrClosed
	}
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return fmt.Errorf("epoll ctl del: %w", err)
	}
	return nil
}

// Wait blocks without timeout until at least one descriptor is ready.
// EINTR is not an error; the wakeup eventfd turns into api.ErrClosed.
func (p *epollPoller) Wait(events []Event) (int, error) {
	limit := len(p.sysEvs)
	if len(events) < limit {
		limit = len(events)
	}

	for {
		if p.closed.Load() {
			return 0, api.ErrClosed
		}

		n, err := unix.EpollWait(p.epfd, p.sysEvs[:limit], -1)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			if p.closed.Load() {
				return 0, api.ErrClosed
			}
			return 0, fmt.Errorf("epoll wait: %w", err)
		}

		out := 0
		for i := 0; i < n; i++ {
			fd := int(p.sysEvs[i].Fd)
			if fd == p.wakefd {
				return 0, api.ErrClosed
			}
			events[out] = Event{FD: fd}
			out++
		}
		if out > 0 {
			return out, nil
		}
	}
}

// Close marks the poller closed and pokes the eventfd so a blocked Wait
// observes the shutdown. The epoll descriptors are left for the process to
// reclaim; closing them under a concurrent Wait would race on fd reuse.
func (p *epollPoller) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return api.ErrClosed
	}
	var one [8]byte
	one[0] = 1
	_, _ = unix.Write(p.wakefd, one[:])
	return nil
}
