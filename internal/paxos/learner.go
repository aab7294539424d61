package paxos

// Learner observes Accepted broadcasts and decides when a value has been
// chosen. It counts, per proposal id and value, the set of distinct
// acceptors seen voting for that pair; set semantics make redundant
// deliveries no-ops. Once a pair reaches quorum the value is learned for
// that id, write-once.
//
// A Learner is not safe for concurrent use; the owning node's lock covers
// it.
type Learner struct {
	nodeID  string
	counts  map[ProposalID]map[Value]map[string]struct{}
	learned map[ProposalID]Value
}

// NewLearner returns a learner for nodeID.
func NewLearner(nodeID string) *Learner {
	return &Learner{
		nodeID:  nodeID,
		counts:  make(map[ProposalID]map[Value]map[string]struct{}),
		learned: make(map[ProposalID]Value),
	}
}

// AddVote records one acceptance vote for the pair by the named acceptor.
// If the pair reaches quorum and the id has not been decided yet, the value
// is learned and returned with ok true.
//
// The hosting node calls this directly with its own id the moment its
// acceptor accepts: acceptors broadcast Accepted to everyone but themselves,
// and the local vote must count no matter how that acceptance interleaves
// with the foreign ones.
func (l *Learner) AddVote(id ProposalID, value Value, voter string, quorum int) (learned Value, ok bool) {
	byValue := l.counts[id]
	if byValue == nil {
		byValue = make(map[Value]map[string]struct{})
		l.counts[id] = byValue
	}
	voters := byValue[value]
	if voters == nil {
		voters = make(map[string]struct{})
		byValue[value] = voters
	}
	voters[voter] = struct{}{}
	if len(voters) < quorum {
		return "", false
	}
	if _, done := l.learned[id]; done {
		return "", false
	}
	l.learned[id] = value
	return value, true
}

// HandleAccepted records one broadcast acceptance vote. ownID/ownValue are
// the hosting node's acceptor state; when that state matches the pair being
// counted the local vote is folded in too, which covers acceptances restored
// from a store rather than witnessed live.
func (l *Learner) HandleAccepted(m Message, ownID ProposalID, ownValue Value, quorum int) (learned Value, ok bool) {
	learned, ok = l.AddVote(m.ProposalID, m.Value, m.From, quorum)
	if !ok && ownID == m.ProposalID && ownValue == m.Value {
		learned, ok = l.AddVote(m.ProposalID, m.Value, l.nodeID, quorum)
	}
	return learned, ok
}

// LearnedValue returns the decided value for id, if one has been learned.
func (l *Learner) LearnedValue(id ProposalID) (Value, bool) {
	v, ok := l.learned[id]
	return v, ok
}

// Learned returns a copy of everything this learner has decided.
func (l *Learner) Learned() map[ProposalID]Value {
	out := make(map[ProposalID]Value, len(l.learned))
	for id, v := range l.learned {
		out[id] = v
	}
	return out
}

// VoteCount returns how many distinct acceptors this learner has seen vote
// for the given pair.
func (l *Learner) VoteCount(id ProposalID, value Value) int {
	return len(l.counts[id][value])
}
