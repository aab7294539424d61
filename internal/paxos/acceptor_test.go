package paxos

import (
	"errors"
	"testing"
)

// stubStore is the minimal Store for role tests; the real in-memory store
// lives in internal/storage.
type stubStore struct {
	promised      ProposalID
	acceptedID    ProposalID
	acceptedValue Value
}

func (s *stubStore) SavePromised(id ProposalID) error {
	s.promised = id
	return nil
}

func (s *stubStore) LoadPromised() (ProposalID, error) {
	return s.promised, nil
}

func (s *stubStore) SaveAccepted(id ProposalID, value Value) error {
	s.acceptedID = id
	s.acceptedValue = value
	return nil
}

func (s *stubStore) LoadAccepted() (ProposalID, Value, error) {
	return s.acceptedID, s.acceptedValue, nil
}

func pid(counter int64) ProposalID {
	return ProposalID{Counter: counter, NodeID: "p"}
}

func TestAcceptorPromiseMonotonic(t *testing.T) {
	a := NewAcceptor("acc", &stubStore{})

	counters := []int64{5, 3, 7, 7, 9}
	wantPromised := []int64{5, 5, 7, 7, 9}
	wantReply := []bool{true, false, true, false, true}

	for i, c := range counters {
		reply, ok := a.HandlePrepare(NewPrepare(pid(c), "p"))
		if ok != wantReply[i] {
			t.Errorf("prepare %d: replied=%v, want %v", c, ok, wantReply[i])
		}
		if got := a.Promised().Counter; got != wantPromised[i] {
			t.Errorf("after prepare %d: promised=%d, want %d", c, got, wantPromised[i])
		}
		if ok && reply.Kind != KindPromise {
			t.Errorf("prepare %d: reply kind %s, want PROMISE", c, reply.Kind)
		}
	}
}

func TestAcceptorPromiseCarriesPriorAcceptance(t *testing.T) {
	a := NewAcceptor("acc", &stubStore{})

	if _, ok := a.HandlePrepare(NewPrepare(pid(1), "p")); !ok {
		t.Fatal("first prepare rejected")
	}
	if _, ok := a.HandleAccept(NewAccept(pid(1), "p", "x")); !ok {
		t.Fatal("accept at promised id rejected")
	}

	reply, ok := a.HandlePrepare(NewPrepare(pid(2), "q"))
	if !ok {
		t.Fatal("higher prepare rejected")
	}
	if reply.PriorID != pid(1) || reply.PriorValue != "x" {
		t.Fatalf("promise carried (%s, %q), want (%s, %q)", reply.PriorID, reply.PriorValue, pid(1), Value("x"))
	}
}

func TestAcceptorDropsStaleAccept(t *testing.T) {
	a := NewAcceptor("acc", &stubStore{})
	a.HandlePrepare(NewPrepare(pid(5), "p"))

	if _, ok := a.HandleAccept(NewAccept(pid(3), "q", "y")); ok {
		t.Fatal("accepted a proposal below the promise")
	}
	out, ok := a.HandleAccept(NewAccept(pid(5), "p", "x"))
	if !ok {
		t.Fatal("rejected the proposal the promise was made for")
	}
	if out.Kind != KindAccepted || out.Value != "x" || out.ProposalID != pid(5) {
		t.Fatalf("unexpected accepted broadcast: %+v", out)
	}
}

// failStore rejects every write; the acceptor's in-memory state must still
// advance so protocol progress never hinges on the store.
type failStore struct {
	stubStore
}

func (f *failStore) SavePromised(ProposalID) error {
	return errors.New("store down")
}

func (f *failStore) SaveAccepted(ProposalID, Value) error {
	return errors.New("store down")
}

func TestAcceptorContinuesWhenStoreFails(t *testing.T) {
	a := NewAcceptor("acc", &failStore{})

	reply, ok := a.HandlePrepare(NewPrepare(pid(1), "p"))
	if !ok || reply.Kind != KindPromise {
		t.Fatal("prepare not handled when the store fails")
	}
	if a.Promised() != pid(1) {
		t.Fatalf("promised = %s, want %s", a.Promised(), pid(1))
	}
	out, ok := a.HandleAccept(NewAccept(pid(1), "p", "x"))
	if !ok || out.Kind != KindAccepted {
		t.Fatal("accept not handled when the store fails")
	}
	if id, v := a.Accepted(); id != pid(1) || v != "x" {
		t.Fatalf("accepted = (%s, %q), want (%s, %q)", id, v, pid(1), Value("x"))
	}
}

func TestAcceptorSeededFromStore(t *testing.T) {
	store := &stubStore{
		promised:      pid(7),
		acceptedID:    pid(4),
		acceptedValue: "x",
	}
	a := NewAcceptor("acc", store)

	if a.Promised() != pid(7) {
		t.Errorf("promised = %s, want %s", a.Promised(), pid(7))
	}
	if id, v := a.Accepted(); id != pid(4) || v != "x" {
		t.Errorf("accepted = (%s, %q), want (%s, %q)", id, v, pid(4), Value("x"))
	}
	if _, ok := a.HandlePrepare(NewPrepare(pid(6), "p")); ok {
		t.Error("prepare below the restored promise was not dropped")
	}
}
