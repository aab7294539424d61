// Package storage provides state stores for acceptors. An acceptor writes
// its promise and acceptance through a paxos.Store on every change; only the
// in-memory store exists here, since durable crash-recoverable state is out
// of scope for this implementation.
package storage

import "github.com/Felipelussi/paxos/internal/paxos"

var _ paxos.Store = (*Memory)(nil)
