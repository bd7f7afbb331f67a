// File: server/server.go
// Package server wires the reactor, the bounded hand-off queue and the
// worker pool into the TCP echo service facade.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/momentics/reactor-echo/api"
	"github.com/momentics/reactor-echo/internal/transport"
	"github.com/momentics/reactor-echo/queue"
	"github.com/momentics/reactor-echo/reactor"
	"github.com/momentics/reactor-echo/worker"
)

// Server owns one reactor, one queue and one worker pool. It is built
// explicitly and passed where needed; there is no package-level instance.
type Server struct {
	cfg      *Config
	log      zerolog.Logger
	ln       *transport.Listener
	reactor  *reactor.Reactor
	queue    *queue.Queue
	pool     *worker.Pool
	acceptor *Acceptor

	// nextConnID mints connection handler identities, monotonically
	// increasing for the whole process lifetime.
	nextConnID atomic.Uint64

	closeOnce sync.Once
}

// New opens the listening socket and the poller and assembles the service.
// Nothing runs until Run is called.
func New(cfg *Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &Server{
		cfg: cfg,
		log: zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	poller, err := reactor.NewPoller()
	if err != nil {
		return nil, err
	}
	ln, err := transport.Listen(cfg.ListenAddr)
	if err != nil {
		_ = poller.Close()
		return nil, err
	}

	s.ln = ln
	s.reactor = reactor.New(poller, s.log)
	s.queue = queue.New(cfg.QueueCapacity)
	s.pool = worker.NewPool(cfg.Workers, s.queue, s.log)
	s.acceptor = NewAcceptor(ln, s.reactor, s.queue, &s.nextConnID, cfg.ChunkSize, s.log)
	return s, nil
}

// Addr returns the bound listen address, with the port resolved when the
// configuration asked for ":0".
func (s *Server) Addr() string { return s.ln.Addr() }

// Queue exposes the hand-off queue for observation.
func (s *Server) Queue() *queue.Queue { return s.queue }

// Run starts the worker pool, registers the acceptor and executes the
// reactor loop on the calling goroutine. It returns api.ErrClosed after
// Close, or the poller fault that ended the loop.
func (s *Server) Run() error {
	s.pool.Start()
	s.reactor.Register(s.acceptor, api.EventAcceptable)
	s.log.Info().
		Str("addr", s.ln.Addr()).
		Int("workers", s.cfg.Workers).
		Int("queue_capacity", s.cfg.QueueCapacity).
		Int("chunk_size", s.cfg.ChunkSize).
		Msg("echo server running")
	return s.reactor.Run()
}

// Close is the abrupt external cancellation: it wakes the reactor loop,
// closes the listener and closes the queue so workers exit. In-flight
// messages are dropped, matching the no-drain contract.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		_ = s.reactor.Close()
		_ = s.ln.Close()
		_ = s.queue.Close()
	})
	return nil
}
