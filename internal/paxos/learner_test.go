package paxos

import "testing"

func TestLearnerIdempotentCounting(t *testing.T) {
	l := NewLearner("a")
	msg := NewAccepted(pid(1), "b", "x")

	l.HandleAccepted(msg, ProposalID{}, "", testQuorum)
	l.HandleAccepted(msg, ProposalID{}, "", testQuorum)

	if got := l.VoteCount(pid(1), "x"); got != 1 {
		t.Fatalf("duplicate delivery changed the count: %d votes, want 1", got)
	}
	if _, ok := l.LearnedValue(pid(1)); ok {
		t.Fatal("learned below quorum")
	}
}

func TestLearnerCountsOwnAcceptance(t *testing.T) {
	l := NewLearner("a")

	// One peer vote plus this node's own matching acceptance reaches a
	// quorum of 2.
	v, ok := l.HandleAccepted(NewAccepted(pid(1), "b", "x"), pid(1), "x", testQuorum)
	if !ok || v != "x" {
		t.Fatalf("learned (%q, %v), want (%q, true)", v, ok, Value("x"))
	}
	if got := l.VoteCount(pid(1), "x"); got != 2 {
		t.Fatalf("votes = %d, want peer + self = 2", got)
	}
}

func TestLearnerIgnoresMismatchedOwnState(t *testing.T) {
	l := NewLearner("a")

	// Own acceptance is for a different value; it must not be counted.
	if _, ok := l.HandleAccepted(NewAccepted(pid(1), "b", "x"), pid(1), "other", testQuorum); ok {
		t.Fatal("learned from one vote")
	}
	if got := l.VoteCount(pid(1), "x"); got != 1 {
		t.Fatalf("votes = %d, want 1", got)
	}
}

func TestLearnerOwnVoteCompletesQuorum(t *testing.T) {
	l := NewLearner("a")

	// Foreign vote first, own vote second: the locally registered
	// acceptance must be able to finish the quorum on its own.
	if _, ok := l.AddVote(pid(1), "x", "b", testQuorum); ok {
		t.Fatal("learned from one vote")
	}
	v, ok := l.AddVote(pid(1), "x", "a", testQuorum)
	if !ok || v != "x" {
		t.Fatalf("learned (%q, %v), want (%q, true)", v, ok, Value("x"))
	}
	// Idempotent for repeated own votes too.
	if _, ok := l.AddVote(pid(1), "x", "a", testQuorum); ok {
		t.Fatal("learned the same id twice")
	}
}

func TestLearnerWriteOnce(t *testing.T) {
	l := NewLearner("a")

	l.HandleAccepted(NewAccepted(pid(1), "b", "x"), ProposalID{}, "", testQuorum)
	if _, ok := l.HandleAccepted(NewAccepted(pid(1), "c", "x"), ProposalID{}, "", testQuorum); !ok {
		t.Fatal("no learn at quorum")
	}
	// Further quorum-satisfying deliveries must not re-trigger or rewrite.
	if _, ok := l.HandleAccepted(NewAccepted(pid(1), "d", "x"), ProposalID{}, "", testQuorum); ok {
		t.Fatal("learned the same id twice")
	}
	if v, _ := l.LearnedValue(pid(1)); v != "x" {
		t.Fatalf("learned value changed to %q", v)
	}
}

func TestLearnerTracksProposalsIndependently(t *testing.T) {
	l := NewLearner("a")

	l.HandleAccepted(NewAccepted(pid(1), "b", "x"), ProposalID{}, "", testQuorum)
	l.HandleAccepted(NewAccepted(pid(2), "b", "y"), ProposalID{}, "", testQuorum)
	l.HandleAccepted(NewAccepted(pid(2), "c", "y"), ProposalID{}, "", testQuorum)

	if _, ok := l.LearnedValue(pid(1)); ok {
		t.Error("learned id 1 without quorum")
	}
	if v, ok := l.LearnedValue(pid(2)); !ok || v != "y" {
		t.Errorf("id 2 = (%q, %v), want (%q, true)", v, ok, Value("y"))
	}
	if got := len(l.Learned()); got != 1 {
		t.Errorf("Learned has %d entries, want 1", got)
	}
}
