package transport

import (
	"math/rand"
	"sync"
	"time"

	"github.com/Felipelussi/paxos/internal/paxos"
)

// Memory delivers messages between in-process nodes. Each delivery runs on
// its own goroutine after a simulated latency of delay plus a uniformly
// random slice of jitter, so concurrent deliveries race and reorder the way
// a real network would.
type Memory struct {
	delay  time.Duration
	jitter time.Duration

	mu       sync.RWMutex
	handlers map[string]Handler

	inflight sync.WaitGroup
}

// NewMemory returns a transport with the given base delay and jitter bound.
// Both may be zero for immediate delivery.
func NewMemory(delay, jitter time.Duration) *Memory {
	return &Memory{
		delay:    delay,
		jitter:   jitter,
		handlers: make(map[string]Handler),
	}
}

// Register adds a node to the addressable set, replacing any previous
// handler registered under the same id.
func (t *Memory) Register(id string, h Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[id] = h
}

// Size returns the number of registered nodes.
func (t *Memory) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.handlers)
}

// Send delivers m to m.To on a fresh goroutine after the simulated latency.
// Unknown receivers are dropped silently.
func (t *Memory) Send(m paxos.Message) {
	t.mu.RLock()
	h, ok := t.handlers[m.To]
	t.mu.RUnlock()
	if !ok {
		return
	}
	t.inflight.Add(1)
	go func() {
		defer t.inflight.Done()
		if d := t.latency(); d > 0 {
			time.Sleep(d)
		}
		h.Deliver(m)
	}()
}

// Broadcast sends a distinct copy of m, addressed per recipient, to every
// registered node except exclude. Message is a value type, so each copy is
// independent of the sender's and of every other recipient's.
func (t *Memory) Broadcast(m paxos.Message, exclude string) {
	t.mu.RLock()
	ids := make([]string, 0, len(t.handlers))
	for id := range t.handlers {
		if id != exclude {
			ids = append(ids, id)
		}
	}
	t.mu.RUnlock()
	for _, id := range ids {
		mc := m
		mc.To = id
		t.Send(mc)
	}
}

// Wait blocks until every in-flight delivery, including the ones those
// deliveries trigger in turn, has completed. Handlers send their follow-up
// messages before returning, so the count can only reach zero once the
// whole cascade has quiesced.
func (t *Memory) Wait() {
	t.inflight.Wait()
}

func (t *Memory) latency() time.Duration {
	d := t.delay
	if t.jitter > 0 {
		d += time.Duration(rand.Int63n(int64(t.jitter)))
	}
	return d
}
