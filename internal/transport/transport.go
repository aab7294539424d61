// Package transport moves protocol messages between nodes. Delivery is
// asynchronous, fire-and-forget and unordered: Send and Broadcast return
// before the message is handled, and messages for the same target may arrive
// in any interleaving. The protocol layer is built to stay correct under any
// such permutation.
package transport

import "github.com/Felipelussi/paxos/internal/paxos"

// Handler consumes one delivered message. node.Node implements it.
type Handler interface {
	Deliver(m paxos.Message)
}

// Transport is the point-to-point substrate nodes talk over.
type Transport interface {
	// Register adds a node to the addressable set.
	Register(id string, h Handler)

	// Send delivers m to m.To asynchronously. Messages addressed to an
	// unknown receiver are dropped silently.
	Send(m paxos.Message)

	// Broadcast delivers a distinct addressed copy of m to every
	// registered node except exclude.
	Broadcast(m paxos.Message, exclude string)

	// Size reports the current membership, which quorum thresholds are
	// computed from.
	Size() int
}
