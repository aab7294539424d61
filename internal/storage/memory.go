package storage

import (
	"sync"

	"github.com/Felipelussi/paxos/internal/paxos"
)

// Memory keeps acceptor state in process memory. It carries its own lock so
// it can be shared or inspected independently of the node that writes it.
type Memory struct {
	mu            sync.RWMutex
	promised      paxos.ProposalID
	acceptedID    paxos.ProposalID
	acceptedValue paxos.Value
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) SavePromised(id paxos.ProposalID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.promised = id
	return nil
}

func (m *Memory) LoadPromised() (paxos.ProposalID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.promised, nil
}

func (m *Memory) SaveAccepted(id paxos.ProposalID, value paxos.Value) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acceptedID = id
	m.acceptedValue = value
	return nil
}

func (m *Memory) LoadAccepted() (paxos.ProposalID, paxos.Value, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.acceptedID, m.acceptedValue, nil
}
