// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package fake

import (
	"sync"

	"github.com/momentics/reactor-echo/api"
	"github.com/momentics/reactor-echo/reactor"
)

// Poller is a fake reactor.Poller fed with scripted readiness batches.
// Wait blocks until a batch is pushed or the poller is closed, mirroring
// the no-timeout contract of the real backend.
type Poller struct {
	mu        sync.Mutex
	batches   chan []reactor.Event
	added     []int
	removed   []int
	addErr    error
	closeOnce sync.Once
	closedCh  chan struct{}
}

// NewPoller creates a fake poller able to buffer scripted batches.
func NewPoller() *Poller {
	return &Poller{
		batches:  make(chan []reactor.Event, 64),
		closedCh: make(chan struct{}),
	}
}

// SetAddError makes subsequent Add calls fail with err.
func (p *Poller) SetAddError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.addErr = err
}

// Push schedules one readiness batch for delivery to Wait.
func (p *Poller) Push(fds ...int) {
	batch := make([]reactor.Event, len(fds))
	for i, fd := range fds {
		batch[i] = reactor.Event{FD: fd}
	}
	p.batches <- batch
}

// Add implements reactor.Poller.Add, recording the descriptor.
func (p *Poller) Add(fd int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.addErr != nil {
		return p.addErr
	}
	p.added = append(p.added, fd)
	return nil
}

// Remove implements reactor.Poller.Remove, recording the descriptor.
func (p *Poller) Remove(fd int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removed = append(p.removed, fd)
	return nil
}

// Wait implements reactor.Poller.Wait against the scripted batches.
func (p *Poller) Wait(events []reactor.Event) (int, error) {
	select {
	case batch := <-p.batches:
		n := copy(events, batch)
		return n, nil
	case <-p.closedCh:
		return 0, api.ErrClosed
	}
}

// Close implements reactor.Poller.Close, waking a blocked Wait.
func (p *Poller) Close() error {
	p.closeOnce.Do(func() { close(p.closedCh) })
	return nil
}

// Added returns descriptors passed to Add, in order.
func (p *Poller) Added() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.added...)
}

// Removed returns descriptors passed to Remove, in order.
func (p *Poller) Removed() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.removed...)
}
