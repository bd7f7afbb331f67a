// File: reactor/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral reactor core. The poller backend is injected so the
// dispatch logic can run against a fake in tests.

package reactor

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/momentics/reactor-echo/api"
)

// Event contains one readiness notification returned by a Poller.
type Event struct {
	FD int
}

// Poller abstracts the OS demultiplexing primitive (epoll on Linux).
type Poller interface {
	// Add sets fd non-blocking and subscribes it to read readiness.
	Add(fd int) error

	// Remove cancels the subscription for fd.
	Remove(fd int) error

	// Wait blocks until at least one descriptor is ready and fills
	// events. Returns api.ErrClosed after Close.
	Wait(events []Event) (int, error)

	// Close wakes a blocked Wait and shuts the poller down.
	Close() error
}

// maxEvents bounds one Wait batch: big enough to drain a burst, small
// enough to keep one loop iteration cheap.
const maxEvents = 128

type registration struct {
	handler api.Handler
	kind    api.EventKind
}

// Reactor owns the poller and the descriptor registry and runs the
// demultiplexing loop on exactly one goroutine. The registry is mutated
// only from that goroutine (including registrations made synchronously
// inside dispatch, e.g. the acceptor adding a new connection handler), so
// it needs no lock.
type Reactor struct {
	poller   Poller
	registry map[int]registration
	events   []Event
	log      zerolog.Logger
}

// New builds a reactor on top of the given poller. Construct one per
// process and hand it to whatever needs to register handlers; there is no
// global instance.
func New(p Poller, log zerolog.Logger) *Reactor {
	return &Reactor{
		poller:   p,
		registry: make(map[int]registration),
		events:   make([]Event, maxEvents),
		log:      log.With().Str("component", "reactor").Logger(),
	}
}

// Register binds the handler's descriptor to the requested event kind.
// A handler serves exactly one kind. Registration failures are logged and
// swallowed: the handler simply never receives events.
func (r *Reactor) Register(h api.Handler, kind api.EventKind) {
	fd := h.FD()
	if _, dup := r.registry[fd]; dup {
		r.log.Error().Int("fd", fd).Msg("descriptor already registered")
		return
	}
	if err := r.poller.Add(fd); err != nil {
		r.log.Error().Err(err).Int("fd", fd).Stringer("kind", kind).
			Msg("poller registration failed, handler will not receive events")
		return
	}
	r.registry[fd] = registration{handler: h, kind: kind}
	r.log.Debug().Int("fd", fd).Stringer("kind", kind).Msg("handler registered")
}

// Remove cancels the registration for fd and forgets its handler. Callers
// must not remove the same key twice; the dispatch loop guarantees that by
// skipping descriptors already gone from the registry.
func (r *Reactor) Remove(fd int) {
	if err := r.poller.Remove(fd); err != nil {
		r.log.Warn().Err(err).Int("fd", fd).Msg("poller removal failed")
	}
	delete(r.registry, fd)
	r.log.Debug().Int("fd", fd).Msg("handler unregistered")
}

// Registered reports whether fd currently has a handler bound.
func (r *Reactor) Registered(fd int) bool {
	_, ok := r.registry[fd]
	return ok
}

// Run executes the demultiplexing loop on the calling goroutine: block
// until readiness, dispatch each ready descriptor to its handler, and
// unregister-and-close on a disconnected result. Handler outcomes never
// stop the loop; Run returns only when the poller is shut down.
func (r *Reactor) Run() error {
	for {
		n, err := r.poller.Wait(r.events)
		if err != nil {
			if errors.Is(err, api.ErrClosed) {
				r.log.Info().Msg("poller closed, reactor loop exiting")
				return err
			}
			return err
		}

		for i := 0; i < n; i++ {
			fd := r.events[i].FD
			reg, ok := r.registry[fd]
			if !ok {
				// Invalidated earlier in this batch.
				continue
			}
			if st := reg.handler.Process(reg.kind); st == api.StatusDisconnected {
				r.Remove(fd)
				if cerr := reg.handler.Close(); cerr != nil {
					r.log.Debug().Err(cerr).Int("fd", fd).Msg("handler close")
				}
			}
		}
	}
}

// Close shuts the poller down, releasing a goroutine blocked in Run.
func (r *Reactor) Close() error {
	return r.poller.Close()
}
