// File: worker/pool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fixed pool of echo workers: the synchronous half of the hand-off. Each
// worker blocks on the shared queue, formats a reply tagged with its own
// identity and writes it back through the referenced connection.

package worker

import (
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/momentics/reactor-echo/queue"
)

// Pool runs a fixed number of worker goroutines over one shared queue.
// There is no resize and no drain: workers exit only when the queue is
// closed from outside.
type Pool struct {
	size    int
	in      *queue.Queue
	log     zerolog.Logger
	started atomic.Bool
}

// NewPool builds a pool of size workers consuming in. Size is clamped to
// at least one.
func NewPool(size int, in *queue.Queue, log zerolog.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		size: size,
		in:   in,
		log:  log.With().Str("component", "worker-pool").Logger(),
	}
}

// Size returns the fixed worker count.
func (p *Pool) Size() int { return p.size }

// Start launches the worker goroutines once. Identities are 1-based and
// stable for each goroutine's lifetime.
func (p *Pool) Start() {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	for id := 1; id <= p.size; id++ {
		go p.run(id)
	}
	p.log.Info().Int("workers", p.size).Msg("worker pool started")
}

// run is one worker's loop: pop, format, write back, repeat.
func (p *Pool) run(id int) {
	log := p.log.With().Int("worker", id).Logger()
	for {
		msg, ok := p.in.Pop()
		if !ok {
			log.Debug().Msg("queue closed, worker exiting")
			return
		}

		reply := Reply(id, msg.Payload)
		if _, err := msg.Conn.Write([]byte(reply)); err != nil {
			// Reply dropped, connection left open. No retry.
			log.Warn().Err(err).Str("remote", msg.Conn.RemoteAddr()).
				Msg("reply write failed")
		}
	}
}

// Reply renders the wire reply for a worker identity and payload chunk.
func Reply(id int, payload string) string {
	return fmt.Sprintf("%d : %s", id, payload)
}
