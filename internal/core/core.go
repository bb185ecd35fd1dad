// Package core holds the contracts shared between the presence components
// and the transport adapters.
package core

// Frame is a serialized event payload as delivered to a peer.
type Frame []byte

// ConnID identifies one live transport session. Assigned at accept time,
// unique for the lifetime of the process.
type ConnID string

// Peer is a connection's outbound endpoint. TrySend must never block: a
// peer that cannot accept the frame right now returns an error and the
// caller moves on. Owned by the adapter; the adapter must Close() it.
type Peer interface {
	TrySend(Frame) error
	Close()
}
