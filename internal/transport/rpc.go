package transport

import (
	"log"
	"net"
	"net/rpc"
	"sync"

	"github.com/Felipelussi/paxos/internal/paxos"
)

// RPC carries messages between processes over net/rpc on Unix domain
// sockets. Each node runs one RPC transport that serves its local handler
// and dials peers from a static address table; membership is the table
// itself, fixed for the run.
type RPC struct {
	self  string
	addrs map[string]string

	mu      sync.Mutex
	handler Handler
	l       net.Listener

	inflight sync.WaitGroup
}

// NewRPC returns a transport for node self. addrs maps every member's id,
// including self, to its socket path.
func NewRPC(self string, addrs map[string]string) *RPC {
	return &RPC{self: self, addrs: addrs}
}

// Register installs the local handler and starts serving the node's socket.
// Only the transport's own node can register here; remote ids are served by
// their own RPC transports.
func (t *RPC) Register(id string, h Handler) {
	if id != t.self {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handler = h
	if t.l != nil {
		return
	}
	l, err := net.Listen("unix", t.addrs[t.self])
	if err != nil {
		log.Printf("[%s] listen %s: %v", t.self, t.addrs[t.self], err)
		return
	}
	t.l = l
	srv := rpc.NewServer()
	srv.RegisterName("Endpoint", &endpoint{transport: t})
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			go srv.ServeConn(conn)
		}
	}()
}

// Size returns the number of members in the address table.
func (t *RPC) Size() int {
	return len(t.addrs)
}

// Send dials the receiver and delivers m on a fresh goroutine. Unknown or
// unreachable receivers are dropped silently, matching the in-memory
// transport.
func (t *RPC) Send(m paxos.Message) {
	addr, ok := t.addrs[m.To]
	if !ok {
		return
	}
	t.inflight.Add(1)
	go func() {
		defer t.inflight.Done()
		call(addr, "Endpoint.Deliver", &m, &Ack{})
	}()
}

// Broadcast sends a distinct addressed copy of m to every member except
// exclude.
func (t *RPC) Broadcast(m paxos.Message, exclude string) {
	for id := range t.addrs {
		if id == exclude {
			continue
		}
		mc := m
		mc.To = id
		t.Send(mc)
	}
}

// Wait blocks until every send this transport issued has been answered or
// dropped. Unlike Memory.Wait it covers only the local node's traffic.
func (t *RPC) Wait() {
	t.inflight.Wait()
}

// Close stops serving the node's socket.
func (t *RPC) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.l != nil {
		t.l.Close()
		t.l = nil
	}
}

// Ack is the empty RPC reply; Deliver has nothing to report back because
// protocol replies travel as separate messages.
type Ack struct{}

// endpoint is the RPC-visible surface of a transport. It is a separate type
// so only Deliver is exported to the wire.
type endpoint struct {
	transport *RPC
}

// Endpoint.Deliver hands one message to the local node.
func (e *endpoint) Deliver(m *paxos.Message, _ *Ack) error {
	e.transport.mu.Lock()
	h := e.transport.handler
	e.transport.mu.Unlock()
	if h != nil {
		h.Deliver(*m)
	}
	return nil
}

// call dials srv, issues one RPC and closes the connection, reporting
// success. Dial and call errors are treated as message loss.
func call(srv string, name string, args interface{}, reply interface{}) bool {
	c, err := rpc.Dial("unix", srv)
	if err != nil {
		return false
	}
	defer c.Close()
	return c.Call(name, args, reply) == nil
}
