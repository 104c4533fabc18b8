// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import "crypto/rand"

// DefaultTTL is the hop budget assigned to a freshly created packet.
const DefaultTTL = 32

// Handshake literals. Reserved: application payloads must never equal
// either of these exactly.
var (
	HandshakeLiteral = []byte("ZHTP_HANDSHAKE")
	AckLiteral       = []byte("ZHTP_ACK")
)

// Packet is the unit of exchange between ZHTP nodes: a signed datagram
// carrying an opaque application payload, plus the header fields the
// overlay needs to forward or locally deliver it.
type Packet struct {
	ID []byte // 32 random bytes

	Source *NodeAddress // optional; nil when the sender withholds it

	DestinationCommitment DestinationCommitment
	TTL                   uint8
	RoutingMetadata       []byte

	Payload []byte

	KeyPackage []byte // optional serialized pq.KeyPackage

	RoutingProof ByteRoutingProof

	Signature []byte // detached signature over the header
}

// NewPacketID samples a fresh 32-byte random packet identifier.
func NewPacketID() ([]byte, error) {
	id := make([]byte, 32)
	if _, err := rand.Read(id); err != nil {
		return nil, err
	}
	return id, nil
}

// Header returns the bytes a Packet's Signature commits to: the ID,
// destination commitment, TTL, routing metadata and payload, in that
// order. Source, KeyPackage and RoutingProof are not covered by the
// signature. This is also what Sign/Verify operate over.
func (p *Packet) Header() []byte {
	buf := make([]byte, 0, 32+32+1+len(p.RoutingMetadata)+len(p.Payload))
	buf = append(buf, p.ID...)
	buf = append(buf, p.DestinationCommitment[:]...)
	buf = append(buf, p.TTL)
	buf = append(buf, p.RoutingMetadata...)
	buf = append(buf, p.Payload...)
	return buf
}

// IsHandshake reports whether the payload is the literal handshake
// request.
func (p *Packet) IsHandshake() bool {
	return equalBytes(p.Payload, HandshakeLiteral)
}

// IsAck reports whether the payload is the literal handshake
// acknowledgement.
func (p *Packet) IsAck() bool {
	return equalBytes(p.Payload, AckLiteral)
}

func equalBytes(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
