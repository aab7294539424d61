package paxos

// Proposer is the initiating role. Start opens a round with a fresh proposal
// id; HandlePromise tallies phase-1 replies and, at quorum, produces the
// single Accept broadcast for the round. The proposer never blocks waiting
// for replies — a round that stalls simply never reaches quorum, and a later
// Start supersedes it.
//
// The proposer does not promise to itself: the threshold is measured purely
// against peer promises.
//
// A Proposer is not safe for concurrent use; the owning node's lock covers
// it.
type Proposer struct {
	nodeID    string
	seq       *Sequencer
	currentID ProposalID
	value     Value
	promises  map[string]struct{}
	bestID    ProposalID
	bestValue Value
}

// NewProposer returns a proposer for nodeID drawing ids from seq.
func NewProposer(nodeID string, seq *Sequencer) *Proposer {
	return &Proposer{nodeID: nodeID, seq: seq}
}

// Start begins a new round for value, discarding any round in flight, and
// returns the Prepare to broadcast. Replies tagged with the superseded id
// fail HandlePromise's equality check and are ignored.
func (p *Proposer) Start(value Value) Message {
	p.currentID = p.seq.Next()
	p.value = value
	p.promises = make(map[string]struct{})
	p.bestID = ProposalID{}
	p.bestValue = ""
	return NewPrepare(p.currentID, p.nodeID)
}

// HandlePromise records one phase-1 reply. Promises for anything other than
// the current round are stale or foreign and dropped. When the promise count
// reaches quorum, ok is true and out holds the Accept to broadcast; the
// promise set is cleared so a late redundant promise cannot trigger a second
// broadcast.
//
// If any promise carried a previously accepted pair, the value from the
// highest such pair replaces the proposer's own: a value that may already
// have been chosen must be carried forward, never overwritten.
func (p *Proposer) HandlePromise(m Message, quorum int) (out Message, ok bool) {
	if m.ProposalID != p.currentID || p.promises == nil {
		return Message{}, false
	}
	p.promises[m.From] = struct{}{}
	if !m.PriorID.IsZero() && m.PriorID.Greater(p.bestID) {
		p.bestID = m.PriorID
		p.bestValue = m.PriorValue
	}
	if len(p.promises) < quorum {
		return Message{}, false
	}
	p.promises = make(map[string]struct{})
	value := p.value
	if !p.bestID.IsZero() {
		value = p.bestValue
	}
	return NewAccept(p.currentID, p.nodeID, value), true
}

// CurrentID returns the id of the round in progress; zero before the first
// Start.
func (p *Proposer) CurrentID() ProposalID {
	return p.currentID
}
