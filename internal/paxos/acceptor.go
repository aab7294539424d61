package paxos

import "log"

// Store records acceptor state as it changes. The acceptor writes through to
// it on every promise and acceptance and reads it back on construction, so a
// store that outlives the acceptor preserves its votes. The in-memory
// implementation lives in internal/storage.
type Store interface {
	SavePromised(id ProposalID) error
	LoadPromised() (ProposalID, error)
	SaveAccepted(id ProposalID, value Value) error
	LoadAccepted() (ProposalID, Value, error)
}

// Acceptor is the voting role. It remembers the highest proposal id it has
// promised never to undercut and the latest proposal it has accepted, and it
// never retreats on either: the promise is monotonic, and an acceptance only
// happens at or above the current promise. Those two rules carry the whole
// safety argument.
//
// Stale Prepare and Accept messages are dropped without a reply. A proposer
// holding an outbid id gets no signal; that is a known liveness limitation
// of this design, not an oversight.
//
// An Acceptor is not safe for concurrent use; the owning node's lock covers
// it.
type Acceptor struct {
	nodeID        string
	promised      ProposalID
	acceptedID    ProposalID
	acceptedValue Value
	store         Store
}

// NewAcceptor returns an acceptor for nodeID, seeded from whatever state the
// store already holds.
func NewAcceptor(nodeID string, store Store) *Acceptor {
	a := &Acceptor{nodeID: nodeID, store: store}
	if id, err := store.LoadPromised(); err == nil {
		a.promised = id
	}
	if id, value, err := store.LoadAccepted(); err == nil {
		a.acceptedID = id
		a.acceptedValue = value
	}
	return a
}

// HandlePrepare processes a phase-1 request. If the proposal id is strictly
// greater than the current promise, the promise moves up and ok is true with
// reply holding the Promise to send back, carrying the previously accepted
// pair if there is one. Otherwise the message is stale and silently dropped.
func (a *Acceptor) HandlePrepare(m Message) (reply Message, ok bool) {
	if !m.ProposalID.Greater(a.promised) {
		return Message{}, false
	}
	a.promised = m.ProposalID
	if err := a.store.SavePromised(a.promised); err != nil {
		log.Printf("[%s] save promised %s: %v", a.nodeID, a.promised, err)
	}
	return NewPromise(m.ProposalID, a.nodeID, m.From, a.acceptedID, a.acceptedValue), true
}

// HandleAccept processes a phase-2 request. If the proposal id is at least
// the current promise the value is accepted and ok is true with out holding
// the Accepted notification to broadcast to every node. Otherwise the
// message is stale and silently dropped.
//
// >= rather than >: a proposal at exactly the promised id is the one the
// promise was made for.
func (a *Acceptor) HandleAccept(m Message) (out Message, ok bool) {
	if m.ProposalID.Less(a.promised) {
		return Message{}, false
	}
	a.acceptedID = m.ProposalID
	a.acceptedValue = m.Value
	if err := a.store.SaveAccepted(a.acceptedID, a.acceptedValue); err != nil {
		log.Printf("[%s] save accepted %s: %v", a.nodeID, a.acceptedID, err)
	}
	return NewAccepted(m.ProposalID, a.nodeID, m.Value), true
}

// Promised returns the highest proposal id this acceptor has promised.
func (a *Acceptor) Promised() ProposalID {
	return a.promised
}

// Accepted returns the latest accepted pair; a zero id means nothing has
// been accepted.
func (a *Acceptor) Accepted() (ProposalID, Value) {
	return a.acceptedID, a.acceptedValue
}
