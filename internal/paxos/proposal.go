// Package paxos implements the single-decree Paxos protocol core: proposal
// identifiers, the four protocol messages, and the proposer, acceptor and
// learner role state machines. The roles are plain state machines driven by
// message handlers; locking and message delivery belong to the surrounding
// node and transport layers.
package paxos

import "fmt"

// ProposalID totally orders proposals across all nodes. It pairs a
// monotonically increasing counter with the proposing node's id so that two
// nodes picking the same counter still produce distinct, strictly ordered
// ids. The zero value means "no proposal" and orders below every real id.
type ProposalID struct {
	Counter int64
	NodeID  string
}

// IsZero reports whether p is the "no proposal" sentinel.
func (p ProposalID) IsZero() bool {
	return p.Counter == 0 && p.NodeID == ""
}

// Less orders by counter first, node id second.
func (p ProposalID) Less(o ProposalID) bool {
	if p.Counter != o.Counter {
		return p.Counter < o.Counter
	}
	return p.NodeID < o.NodeID
}

// Greater reports whether p orders strictly above o.
func (p ProposalID) Greater(o ProposalID) bool {
	return o.Less(p)
}

func (p ProposalID) String() string {
	if p.IsZero() {
		return "none"
	}
	return fmt.Sprintf("%d.%s", p.Counter, p.NodeID)
}

// Sequencer issues proposal ids for one node. Every id it returns is
// strictly greater than any id the node has previously generated or observed
// in delivered messages, so a proposer never reuses a counter that has
// already lost a round elsewhere.
//
// A Sequencer is not safe for concurrent use; the owning node's lock covers
// it.
type Sequencer struct {
	nodeID  string
	counter int64
}

// NewSequencer returns a Sequencer issuing ids on behalf of nodeID.
func NewSequencer(nodeID string) *Sequencer {
	return &Sequencer{nodeID: nodeID}
}

// Next returns a fresh proposal id above everything seen so far.
func (s *Sequencer) Next() ProposalID {
	s.counter++
	return ProposalID{Counter: s.counter, NodeID: s.nodeID}
}

// Observe folds a foreign proposal id into the sequence so that the next
// Next call outbids it. Zero ids are ignored.
func (s *Sequencer) Observe(id ProposalID) {
	if id.Counter > s.counter {
		s.counter = id.Counter
	}
}
