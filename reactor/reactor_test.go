// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package reactor_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/momentics/reactor-echo/api"
	"github.com/momentics/reactor-echo/fake"
	"github.com/momentics/reactor-echo/reactor"
)

// stubHandler records dispatches and replies with a scripted status,
// falling back to StatusOK when the script is exhausted.
type stubHandler struct {
	mu         sync.Mutex
	fd         int
	script     []api.Status
	dispatched chan api.EventKind
	closeCalls int
}

func newStubHandler(fd int, script ...api.Status) *stubHandler {
	return &stubHandler{
		fd:         fd,
		script:     script,
		dispatched: make(chan api.EventKind, 16),
	}
}

func (h *stubHandler) Process(kind api.EventKind) api.Status {
	h.mu.Lock()
	st := api.StatusOK
	if len(h.script) > 0 {
		st = h.script[0]
		h.script = h.script[1:]
	}
	h.mu.Unlock()
	h.dispatched <- kind
	return st
}

func (h *stubHandler) FD() int { return h.fd }

func (h *stubHandler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closeCalls++
	return nil
}

func (h *stubHandler) closed() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closeCalls
}

func waitKind(t *testing.T, h *stubHandler) api.EventKind {
	t.Helper()
	select {
	case k := <-h.dispatched:
		return k
	case <-time.After(time.Second):
		t.Fatal("handler was never dispatched")
		return 0
	}
}

func startReactor(t *testing.T, r *reactor.Reactor) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		done <- r.Run()
		close(done)
	}()
	t.Cleanup(func() {
		_ = r.Close()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Error("reactor loop did not exit after close")
		}
	})
	return done
}

func TestReactorDispatchesRegisteredKind(t *testing.T) {
	p := fake.NewPoller()
	r := reactor.New(p, zerolog.Nop())

	h := newStubHandler(5)
	r.Register(h, api.EventReadable)
	require.Equal(t, []int{5}, p.Added())

	startReactor(t, r)
	p.Push(5)
	require.Equal(t, api.EventReadable, waitKind(t, h))
}

func TestReactorAcceptableKindReachesAcceptorHandler(t *testing.T) {
	p := fake.NewPoller()
	r := reactor.New(p, zerolog.Nop())

	h := newStubHandler(3)
	r.Register(h, api.EventAcceptable)

	startReactor(t, r)
	p.Push(3)
	require.Equal(t, api.EventAcceptable, waitKind(t, h))
}

func TestReactorDisconnectUnregistersAndClosesOnce(t *testing.T) {
	p := fake.NewPoller()
	r := reactor.New(p, zerolog.Nop())

	h := newStubHandler(7, api.StatusDisconnected)
	r.Register(h, api.EventReadable)

	done := startReactor(t, r)
	p.Push(7)
	waitKind(t, h)

	// Further readiness for the removed descriptor must be skipped.
	p.Push(7)
	p.Push(7)

	select {
	case <-h.dispatched:
		t.Fatal("handler dispatched after unregistration")
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, r.Close())
	require.ErrorIs(t, <-done, api.ErrClosed)

	require.Equal(t, 1, h.closed())
	require.Equal(t, []int{7}, p.Removed())
	require.False(t, r.Registered(7))
}

func TestReactorSkipsInvalidatedKeysWithinBatch(t *testing.T) {
	p := fake.NewPoller()
	r := reactor.New(p, zerolog.Nop())

	h := newStubHandler(9, api.StatusDisconnected)
	r.Register(h, api.EventReadable)

	done := startReactor(t, r)
	// Two readiness events for the same descriptor in one batch: the
	// first disconnects, the second must hit an invalidated key.
	p.Push(9, 9)
	waitKind(t, h)

	select {
	case <-h.dispatched:
		t.Fatal("invalidated key was dispatched")
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, r.Close())
	require.ErrorIs(t, <-done, api.ErrClosed)
	require.Equal(t, 1, h.closed())
}

func TestReactorRegistrationFailureIsSilent(t *testing.T) {
	p := fake.NewPoller()
	p.SetAddError(errors.New("no kernel resources"))
	r := reactor.New(p, zerolog.Nop())

	h := newStubHandler(11)
	r.Register(h, api.EventReadable)

	require.False(t, r.Registered(11))
	require.Empty(t, p.Added())
}

func TestReactorRejectsDuplicateRegistration(t *testing.T) {
	p := fake.NewPoller()
	r := reactor.New(p, zerolog.Nop())

	first := newStubHandler(13)
	second := newStubHandler(13)
	r.Register(first, api.EventReadable)
	r.Register(second, api.EventReadable)

	require.Equal(t, []int{13}, p.Added(), "one handler per descriptor")
}

func TestReactorWrongEventStatusLeavesRegistration(t *testing.T) {
	p := fake.NewPoller()
	r := reactor.New(p, zerolog.Nop())

	h := newStubHandler(15, api.StatusWrongEvent, api.StatusOK)
	r.Register(h, api.EventReadable)

	done := startReactor(t, r)
	p.Push(15)
	waitKind(t, h)
	p.Push(15)
	waitKind(t, h)

	require.NoError(t, r.Close())
	require.ErrorIs(t, <-done, api.ErrClosed)
	require.Zero(t, h.closed())
	require.True(t, r.Registered(15))
}
