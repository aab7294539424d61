package paxos

// Kind discriminates the four protocol messages.
//
// Phase 1: Prepare (proposer -> acceptors), Promise (acceptor -> proposer).
// Phase 2: Accept (proposer -> acceptors), Accepted (acceptor -> everyone).
//
// Accepted is broadcast to every node, not just the proposer: each node
// hosts a learner, and the same delivery drives both acceptor bookkeeping
// and learner quorum counting.
type Kind int

const (
	KindPrepare Kind = iota + 1
	KindPromise
	KindAccept
	KindAccepted
)

func (k Kind) String() string {
	switch k {
	case KindPrepare:
		return "PREPARE"
	case KindPromise:
		return "PROMISE"
	case KindAccept:
		return "ACCEPT"
	case KindAccepted:
		return "ACCEPTED"
	default:
		return "UNKNOWN"
	}
}

// Value is the opaque payload agreement is reached on. The protocol compares
// values only by equality.
type Value string

// Message is one protocol message. Messages are value types: the transport
// hands each recipient its own copy, so no two nodes ever share a mutable
// instance.
//
// PriorID/PriorValue are meaningful only on Promise: they carry the
// acceptor's previously accepted pair, a zero PriorID meaning it has
// accepted nothing. Value is meaningful on Accept and Accepted.
type Message struct {
	Kind       Kind
	ProposalID ProposalID
	From       string
	To         string
	Value      Value
	PriorID    ProposalID
	PriorValue Value
}

// NewPrepare builds the phase-1 request for a fresh round. The transport
// fills To on each broadcast copy.
func NewPrepare(id ProposalID, from string) Message {
	return Message{Kind: KindPrepare, ProposalID: id, From: from}
}

// NewPromise builds an acceptor's phase-1 reply, carrying its previously
// accepted pair when there is one.
func NewPromise(id ProposalID, from, to string, priorID ProposalID, priorValue Value) Message {
	return Message{
		Kind:       KindPromise,
		ProposalID: id,
		From:       from,
		To:         to,
		PriorID:    priorID,
		PriorValue: priorValue,
	}
}

// NewAccept builds the phase-2 request asking acceptors to accept value at
// the given proposal id.
func NewAccept(id ProposalID, from string, value Value) Message {
	return Message{Kind: KindAccept, ProposalID: id, From: from, Value: value}
}

// NewAccepted builds the acceptance notification broadcast to every node.
func NewAccepted(id ProposalID, from string, value Value) Message {
	return Message{Kind: KindAccepted, ProposalID: id, From: from, Value: value}
}
