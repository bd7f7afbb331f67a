// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package queue_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/momentics/reactor-echo/api"
	"github.com/momentics/reactor-echo/fake"
	"github.com/momentics/reactor-echo/queue"
)

func TestQueueFIFOOrder(t *testing.T) {
	q := queue.New(8)
	for i := 0; i < 5; i++ {
		require.True(t, q.Push(queue.Message{Payload: fmt.Sprintf("m%d", i)}))
	}
	require.Equal(t, 5, q.Len())

	for i := 0; i < 5; i++ {
		m, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, fmt.Sprintf("m%d", i), m.Payload)
	}
	require.Equal(t, 0, q.Len())
}

func TestQueueOccupancyNeverExceedsCapacity(t *testing.T) {
	q := queue.New(2)
	require.Equal(t, 2, q.Cap())

	require.True(t, q.Push(queue.Message{Payload: "a"}))
	require.True(t, q.Push(queue.Message{Payload: "b"}))
	require.Equal(t, 2, q.Len())
}

func TestQueuePushBlocksWhileFull(t *testing.T) {
	q := queue.New(1)
	require.True(t, q.Push(queue.Message{Payload: "first"}))

	pushed := make(chan struct{})
	go func() {
		q.Push(queue.Message{Payload: "second"})
		close(pushed)
	}()

	select {
	case <-pushed:
		t.Fatal("push must block while the queue is at capacity")
	case <-time.After(100 * time.Millisecond):
	}

	m, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, "first", m.Payload)

	select {
	case <-pushed:
	case <-time.After(time.Second):
		t.Fatal("push did not complete after a pop freed capacity")
	}

	m, ok = q.Pop()
	require.True(t, ok)
	require.Equal(t, "second", m.Payload)
}

func TestQueuePopBlocksWhileEmpty(t *testing.T) {
	q := queue.New(4)

	popped := make(chan queue.Message, 1)
	go func() {
		m, ok := q.Pop()
		if ok {
			popped <- m
		}
	}()

	select {
	case <-popped:
		t.Fatal("pop must block while the queue is empty")
	case <-time.After(100 * time.Millisecond):
	}

	require.True(t, q.Push(queue.Message{Payload: "wake"}))

	select {
	case m := <-popped:
		require.Equal(t, "wake", m.Payload)
	case <-time.After(time.Second):
		t.Fatal("pop did not complete after a push")
	}
}

func TestQueueCloseWakesBlockedCallers(t *testing.T) {
	q := queue.New(1)
	require.True(t, q.Push(queue.Message{Payload: "fill"}))

	pushDone := make(chan bool, 1)
	popDone := make(chan bool, 1)
	go func() {
		pushDone <- q.Push(queue.Message{Payload: "blocked"})
	}()
	go func() {
		_, ok := q.Pop()
		popDone <- ok
	}()

	// The popper may consume the fill message first; either way both
	// goroutines must observe the close.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, q.Close())

	for i, ch := range []chan bool{pushDone, popDone} {
		select {
		case ok := <-ch:
			_ = ok
		case <-time.After(time.Second):
			t.Fatalf("blocked caller %d not woken by close", i)
		}
	}

	require.False(t, q.Push(queue.Message{Payload: "after"}))
	_, ok := q.Pop()
	require.False(t, ok)
	require.ErrorIs(t, q.Close(), api.ErrClosed)
}

func TestQueueConcurrentProducersConsumers(t *testing.T) {
	const (
		producers   = 4
		consumers   = 4
		perProducer = 200
	)
	q := queue.New(8)
	conn := fake.NewConn(1)

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(queue.Message{Payload: fmt.Sprintf("p%d-%d", p, i), Conn: conn})
			}
		}(p)
	}

	got := make(chan string, producers*perProducer)
	for c := 0; c < consumers; c++ {
		go func() {
			for {
				m, ok := q.Pop()
				if !ok {
					return
				}
				got <- m.Payload
			}
		}()
	}

	wg.Wait()
	seen := make(map[string]bool)
	for i := 0; i < producers*perProducer; i++ {
		select {
		case s := <-got:
			require.False(t, seen[s], "message %q consumed twice", s)
			seen[s] = true
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d of %d messages consumed", i, producers*perProducer)
		}
	}
	require.NoError(t, q.Close())
}
