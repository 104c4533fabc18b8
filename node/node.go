// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/luxfi/log"

	"github.com/sovereign-mesh/zhtp/crypto/pq"
	"github.com/sovereign-mesh/zhtp/types"
	"github.com/sovereign-mesh/zhtp/wire"
)

// InboundPayload is a locally-delivered packet handed to whatever is
// consuming a Node's Inbound channel: the application payload plus
// the address it arrived from.
type InboundPayload struct {
	Source  types.NodeAddress
	Payload []byte
}

// Node is a running ZHTP endpoint: a UDP socket bound to Address, a
// post-quantum keypair subject to periodic rotation, a routing table
// of known peers, and a local content store. There is no package-level
// global state; every Node owns its own sockets and tables so a test
// or simulation can run many of them in one process.
type Node struct {
	Address types.NodeAddress
	Routing *RoutingTable
	Content *ContentStore

	// OnForward is invoked by the listen loop for a packet whose
	// destination commitment does not match this node's own address.
	// It is optional; a node with no forwarding policy simply drops
	// such packets.
	OnForward func(pkt *types.Packet, from types.NodeAddress)

	// Inbound receives the payload of every packet addressed to this
	// node. It is created with a small buffer; a full channel drops
	// the packet rather than blocking the listen loop.
	Inbound chan InboundPayload

	// Log receives diagnostics for dropped packets, failed handshakes,
	// and key rotation. Defaults to a no-op logger.
	Log log.Logger

	conn *net.UDPConn
	now  func() int64

	keyMu   sync.RWMutex
	keypair *pq.Keypair
}

// New binds a UDP socket at addr and generates a fresh keypair for the
// node. now is the clock used to stamp routing-table and content-store
// timestamps; tests pass a fixed clock, production passes time.Now().Unix.
func New(addr types.NodeAddress, now func() int64) (*Node, error) {
	kp, err := pq.Generate()
	if err != nil {
		return nil, fmt.Errorf("node: generate keypair: %w", err)
	}

	udpAddr := &net.UDPAddr{IP: addr.IP, Port: int(addr.Port)}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, fmt.Errorf("node: bind %s: %w", addr, err)
	}

	return &Node{
		Address: addr,
		Routing: NewRoutingTable(),
		Content: NewContentStore(now),
		Inbound: make(chan InboundPayload, 64),
		Log:     log.NewNoOpLogger(),
		conn:    conn,
		now:     now,
		keypair: kp,
	}, nil
}

// Close releases the node's socket.
func (n *Node) Close() error {
	return n.conn.Close()
}

// Keypair returns a snapshot of the node's current signing/KEM
// material. It may change concurrently due to key rotation, so callers
// that need a value fixed for the duration of an operation should copy
// the fields they need rather than retain the pointer.
func (n *Node) Keypair() *pq.Keypair {
	n.keyMu.RLock()
	defer n.keyMu.RUnlock()
	return n.keypair
}

func (n *Node) setKeypair(kp *pq.Keypair) {
	n.keyMu.Lock()
	defer n.keyMu.Unlock()
	n.keypair = kp
}

// send signs and writes pkt to peer over the node's socket.
func (n *Node) send(peer types.NodeAddress, pkt *types.Packet) error {
	kp := n.Keypair()
	sig, err := pq.Sign(kp, pkt.Header())
	if err != nil {
		return fmt.Errorf("node: sign packet: %w", err)
	}
	pkt.Signature = sig

	data, err := wire.Encode(pkt)
	if err != nil {
		return fmt.Errorf("node: encode packet: %w", err)
	}

	udpPeer := &net.UDPAddr{IP: peer.IP, Port: int(peer.Port)}
	if _, err := n.conn.WriteToUDP(data, udpPeer); err != nil {
		return fmt.Errorf("node: send to %s: %w", peer, err)
	}
	return nil
}

func addrFromUDP(addr *net.UDPAddr) types.NodeAddress {
	return types.NodeAddress{IP: addr.IP, Port: uint16(addr.Port)}
}

func isTimeout(err error) bool {
	netErr, ok := err.(net.Error)
	return ok && netErr.Timeout()
}

// pollInterval bounds how long a single blocking read waits before the
// listen loop re-checks its cancellation context.
const pollInterval = 500 * time.Millisecond
