// Package sim drives simulated Paxos runs: it builds a cluster over the
// in-memory transport, schedules proposals, and collects what every node
// learned once the message traffic has drained. Retry and timeout policy,
// deliberately absent from the protocol layer, would live with callers of
// this package.
package sim

import (
	"errors"
	"sync"
	"time"

	"github.com/Felipelussi/paxos/internal/node"
	"github.com/Felipelussi/paxos/internal/paxos"
	"github.com/Felipelussi/paxos/internal/storage"
	"github.com/Felipelussi/paxos/internal/transport"
)

var (
	ErrDuplicateNode = errors.New("sim: node id already exists")
	ErrUnknownNode   = errors.New("sim: unknown node id")
)

// Controller owns a cluster and a queue of scheduled proposals. Membership
// is fixed once Run is called; nodes are created up front.
type Controller struct {
	transport *transport.Memory
	stagger   time.Duration
	nodes     map[string]*node.Node
	order     []string
	proposals []proposal
}

type proposal struct {
	nodeID string
	value  paxos.Value
}

// New returns a controller whose cluster talks over an in-memory transport
// with the given latency. Scheduled proposals fire stagger apart; a zero
// stagger fires them all at once.
func New(delay, jitter, stagger time.Duration) *Controller {
	return &Controller{
		transport: transport.NewMemory(delay, jitter),
		stagger:   stagger,
		nodes:     make(map[string]*node.Node),
	}
}

// CreateNode builds a node, registers it with the transport and returns it.
func (c *Controller) CreateNode(id string) (*node.Node, error) {
	if _, exists := c.nodes[id]; exists {
		return nil, ErrDuplicateNode
	}
	n := node.New(id, c.transport, storage.NewMemory())
	c.transport.Register(id, n)
	c.nodes[id] = n
	c.order = append(c.order, id)
	return n, nil
}

// Submit schedules a future Propose call on the named node.
func (c *Controller) Submit(nodeID string, value paxos.Value) error {
	if _, exists := c.nodes[nodeID]; !exists {
		return ErrUnknownNode
	}
	c.proposals = append(c.proposals, proposal{nodeID: nodeID, value: value})
	return nil
}

// Run fires every scheduled proposal on its own goroutine, staggered in
// submission order, waits for the resulting message traffic to quiesce and
// returns each node's learned map keyed by node id. The queue is cleared so
// the controller can be reused for another round of proposals.
func (c *Controller) Run() map[string]map[paxos.ProposalID]paxos.Value {
	var wg sync.WaitGroup
	for i, p := range c.proposals {
		wg.Add(1)
		go func(p proposal, delay time.Duration) {
			defer wg.Done()
			if delay > 0 {
				time.Sleep(delay)
			}
			c.nodes[p.nodeID].Propose(p.value)
		}(p, time.Duration(i)*c.stagger)
	}
	wg.Wait()
	c.transport.Wait()
	c.proposals = nil

	results := make(map[string]map[paxos.ProposalID]paxos.Value, len(c.nodes))
	for _, id := range c.order {
		results[id] = c.nodes[id].Learned()
	}
	return results
}

// Nodes returns the cluster's nodes in creation order.
func (c *Controller) Nodes() []*node.Node {
	out := make([]*node.Node, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.nodes[id])
	}
	return out
}
