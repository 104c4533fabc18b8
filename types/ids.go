// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package types holds the wire- and ledger-level data model shared by
// every ZHTP subsystem: addressing, packets, routing proofs, content
// metadata, validator/metrics records, and ledger transactions/blocks.
package types

import (
	"crypto/sha256"
	"fmt"
	"net"

	"github.com/luxfi/ids"
)

// NodeID is a human-readable label used for ledger and consensus
// bookkeeping. It is deliberately distinct from NodeAddress: the same
// logical node may rotate addresses without losing its stake, its
// reputation history, or its place in the validator registry.
type NodeID string

// NodeAddress is a routable overlay endpoint.
type NodeAddress struct {
	IP   net.IP
	Port uint16
}

func (a NodeAddress) String() string {
	return fmt.Sprintf("%s:%d", a.IP.String(), a.Port)
}

// DestinationCommitment is the fixed 32-byte injection of a NodeAddress
// used in every packet header to let receivers cheaply test for local
// delivery by comparing 32 bytes. It is not a hash: the address bytes
// appear in it unchanged. Bytes 0-1 are the big-endian port, bytes 2 through len(IP)+1
// are the IP's bytes (v4 or v6), and the remainder is zero.
type DestinationCommitment [32]byte

// CommitAddress computes the destination commitment for an address. The
// same function is used at packet-creation time and at the receiver's
// local-delivery check, so the two must never diverge.
func CommitAddress(addr NodeAddress) DestinationCommitment {
	var out DestinationCommitment
	out[0] = byte(addr.Port >> 8)
	out[1] = byte(addr.Port)

	ip := addr.IP.To4()
	if ip == nil {
		ip = addr.IP.To16()
	}
	n := copy(out[2:], ip)
	_ = n
	return out
}

// ContentID is the SHA-256 content address of a blob of bytes. It
// reuses the Lux ecosystem's general-purpose 32-byte ID type rather
// than inventing a parallel one.
type ContentID = ids.ID

// HashContent computes the content address of a byte slice.
func HashContent(data []byte) ContentID {
	return ContentID(sha256.Sum256(data))
}
