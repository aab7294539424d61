// Package node assembles the three Paxos roles into one participant. A Node
// is the unit of mutual exclusion: a single lock spans every
// check-then-update across its proposer, acceptor and learner state, and all
// interaction between nodes goes through messages on the transport — no node
// ever touches another's state directly.
package node

import (
	"log"
	"sync"

	"github.com/Felipelussi/paxos/internal/paxos"
)

// Network is the slice of the transport a node uses: fire-and-forget
// delivery plus the membership size quorum thresholds are computed from.
// transport.Memory and transport.RPC both satisfy it.
type Network interface {
	Send(m paxos.Message)
	Broadcast(m paxos.Message, exclude string)
	Size() int
}

// Node is one Paxos participant playing proposer, acceptor and learner at
// once. Propose and Deliver may be called from any number of goroutines.
type Node struct {
	id      string
	network Network

	mu       sync.Mutex
	seq      *paxos.Sequencer
	proposer *paxos.Proposer
	acceptor *paxos.Acceptor
	learner  *paxos.Learner
}

// New returns a node backed by the given network and acceptor store. The
// caller registers it with the transport under the same id.
func New(id string, network Network, store paxos.Store) *Node {
	seq := paxos.NewSequencer(id)
	return &Node{
		id:       id,
		network:  network,
		seq:      seq,
		proposer: paxos.NewProposer(id, seq),
		acceptor: paxos.NewAcceptor(id, store),
		learner:  paxos.NewLearner(id),
	}
}

// ID returns the node's identifier.
func (n *Node) ID() string {
	return n.id
}

// Propose starts a new round seeking agreement on value and returns its
// proposal id. It broadcasts the Prepare and returns without waiting for
// replies; a Propose issued while an earlier round is in flight supersedes
// it. Whether the round succeeds — and whether it decides value or a value
// adopted from an earlier acceptance — shows up later in Learned.
func (n *Node) Propose(value paxos.Value) paxos.ProposalID {
	n.mu.Lock()
	prepare := n.proposer.Start(value)
	id := n.proposer.CurrentID()
	n.mu.Unlock()
	n.network.Broadcast(prepare, n.id)
	return id
}

// Deliver processes one inbound message. Role handlers run under the node's
// lock; the messages they emit are sent after it is released, so the
// transport's simulated latency never stalls the node. A failure while
// handling one message is logged and confined to that message.
func (n *Node) Deliver(m paxos.Message) {
	for _, out := range n.dispatch(m) {
		if out.To != "" {
			n.network.Send(out)
		} else {
			n.network.Broadcast(out, n.id)
		}
	}
}

// dispatch runs the matching role handler under the node's lock and returns
// the messages to send once it is released.
func (n *Node) dispatch(m paxos.Message) (out []paxos.Message) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[%s] fault handling %s from %s: %v", n.id, m.Kind, m.From, r)
			out = nil
		}
	}()
	n.mu.Lock()
	defer n.mu.Unlock()

	// Every id that passes through outbids this node's future proposals.
	n.seq.Observe(m.ProposalID)
	n.seq.Observe(m.PriorID)

	quorum := paxos.MajorityThreshold(n.network.Size())
	switch m.Kind {
	case paxos.KindPrepare:
		if reply, ok := n.acceptor.HandlePrepare(m); ok {
			out = append(out, reply)
		}
	case paxos.KindPromise:
		if accept, ok := n.proposer.HandlePromise(m, quorum); ok {
			out = append(out, accept)
		}
	case paxos.KindAccept:
		if accepted, ok := n.acceptor.HandleAccept(m); ok {
			out = append(out, accepted)
			// The broadcast excludes this node, so its own vote is
			// registered here; waiting for a later foreign Accepted
			// to supply it would lose the vote whenever the last
			// foreign one arrived first.
			if value, done := n.learner.AddVote(m.ProposalID, m.Value, n.id, quorum); done {
				log.Printf("[%s] learned %s = %q", n.id, m.ProposalID, value)
			}
		}
	case paxos.KindAccepted:
		ownID, ownValue := n.acceptor.Accepted()
		if value, ok := n.learner.HandleAccepted(m, ownID, ownValue, quorum); ok {
			log.Printf("[%s] learned %s = %q", n.id, m.ProposalID, value)
		}
	default:
		log.Printf("[%s] unknown message kind %d from %s", n.id, m.Kind, m.From)
	}
	return out
}

// Learned returns a copy of the node's decided values, the only state a node
// exposes to the outside.
func (n *Node) Learned() map[paxos.ProposalID]paxos.Value {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.learner.Learned()
}

// LearnedValue returns the decided value for one proposal id.
func (n *Node) LearnedValue(id paxos.ProposalID) (paxos.Value, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.learner.LearnedValue(id)
}
