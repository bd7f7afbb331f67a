// internal/transport/transport_linux.go
//go:build linux
// +build linux

//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux sockets via x/sys/unix: SOCK_NONBLOCK descriptors end to end,
// accept4 on the listener, poll(POLLOUT) to complete synchronous writes.

package transport

import (
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/momentics/reactor-echo/api"
)

// Listener is a non-blocking IPv4 TCP listening socket.
type Listener struct {
	fd     int
	addr   string
	closed atomic.Bool
}

// Listen binds addr (host:port, ":0" allowed) and starts listening.
// The returned listener and every socket it accepts are non-blocking.
func Listen(addr string) (*Listener, error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp4", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", addr, err)
	}

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("socket create: %w", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("setsockopt SO_REUSEADDR: %w", err)
	}

	sa := &unix.SockaddrInet4{Port: tcpAddr.Port}
	if ip4 := tcpAddr.IP.To4(); ip4 != nil {
		copy(sa.Addr[:], ip4)
	}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("bind %q: %w", addr, err)
	}
	if err := unix.Listen(fd, unix.SOMAXCONN); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("listen %q: %w", addr, err)
	}

	bound, err := unix.Getsockname(fd)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("getsockname: %w", err)
	}

	return &Listener{fd: fd, addr: sockaddrString(bound)}, nil
}

// Accept performs exactly one non-blocking accept attempt.
// api.ErrWouldBlock means no connection was pending.
func (l *Listener) Accept() (api.Conn, error) {
	if l.closed.Load() {
		return nil, api.ErrClosed
	}

	nfd, sa, err := unix.Accept4(l.fd, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return nil, api.ErrWouldBlock
		}
		return nil, fmt.Errorf("accept: %w", err)
	}

	_ = unix.SetsockoptInt(nfd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)
	return &Conn{fd: nfd, remote: sockaddrString(sa)}, nil
}

// FD returns the listening descriptor.
func (l *Listener) FD() int { return l.fd }

// Addr returns the bound address with the resolved port.
func (l *Listener) Addr() string { return l.addr }

// Close releases the listening socket. Safe to call more than once.
func (l *Listener) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	return unix.Close(l.fd)
}

// Conn is one accepted non-blocking socket. Write holds writeMu for the
// whole send: messages from the same connection can sit on two workers at
// once, and interleaved partial writes would corrupt both replies.
type Conn struct {
	fd      int
	remote  string
	writeMu sync.Mutex
	closed  atomic.Bool
}

// Read performs one non-blocking read into p. io.EOF reports a half-closed
// peer, api.ErrWouldBlock a spurious wakeup.
func (c *Conn) Read(p []byte) (int, error) {
	if c.closed.Load() {
		return 0, api.ErrClosed
	}

	n, err := unix.Read(c.fd, p)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return 0, api.ErrWouldBlock
		}
		return 0, fmt.Errorf("read: %w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Write sends p in full. The descriptor stays non-blocking, so EAGAIN is
// absorbed by waiting for POLLOUT before retrying.
func (c *Conn) Write(p []byte) (int, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.closed.Load() {
		return 0, api.ErrClosed
	}

	written := 0
	for written < len(p) {
		n, err := unix.Write(c.fd, p[written:])
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				if perr := c.waitWritable(); perr != nil {
					return written, perr
				}
				continue
			}
			return written, fmt.Errorf("write: %w", err)
		}
		written += n
	}
	return written, nil
}

// waitWritable blocks until the socket accepts more bytes.
func (c *Conn) waitWritable() error {
	pfd := []unix.PollFd{{Fd: int32(c.fd), Events: unix.POLLOUT}}
	for {
		_, err := unix.Poll(pfd, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return fmt.Errorf("poll POLLOUT: %w", err)
		}
		return nil
	}
}

// FD returns the connection descriptor.
func (c *Conn) FD() int { return c.fd }

// RemoteAddr returns the peer address captured at accept time.
func (c *Conn) RemoteAddr() string { return c.remote }

// Close releases the descriptor. Safe to call more than once.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return unix.Close(c.fd)
}

// sockaddrString renders an IPv4/IPv6 sockaddr as host:port.
func sockaddrString(sa unix.Sockaddr) string {
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return fmt.Sprintf("%s:%d", net.IP(a.Addr[:]).String(), a.Port)
	case *unix.SockaddrInet6:
		return fmt.Sprintf("[%s]:%d", net.IP(a.Addr[:]).String(), a.Port)
	default:
		return "unknown"
	}
}
