// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package node implements the ZHTP node protocol: the datagram socket
// layer, handshake, listen loop, key-rotation background task, and the
// local content store each running node exposes.
package node

import (
	"sync"

	"github.com/sovereign-mesh/zhtp/types"
)

type peerState struct {
	lastSeen    int64
	connections map[types.NodeAddress]struct{}
}

// RoutingTable tracks every peer address a node has seen, its
// last-seen timestamp, and the set of addresses it is known to be
// connected to. Many readers during send, few writers on
// connect/disconnect, hence the RWMutex.
type RoutingTable struct {
	mu    sync.RWMutex
	peers map[types.NodeAddress]*peerState
}

// NewRoutingTable returns an empty routing table.
func NewRoutingTable() *RoutingTable {
	return &RoutingTable{peers: make(map[types.NodeAddress]*peerState)}
}

// Add records addr as seen at timestamp ts, creating its entry if
// this is the first sighting.
func (t *RoutingTable) Add(addr types.NodeAddress, ts int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.peers[addr]
	if !ok {
		p = &peerState{connections: make(map[types.NodeAddress]struct{})}
		t.peers[addr] = p
	}
	p.lastSeen = ts
}

// Connect records a bidirectional connection between two addresses,
// adding both ends to the table if they aren't already present.
func (t *RoutingTable) Connect(a, b types.NodeAddress, ts int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	pa, ok := t.peers[a]
	if !ok {
		pa = &peerState{connections: make(map[types.NodeAddress]struct{})}
		t.peers[a] = pa
	}
	pa.lastSeen = ts
	pa.connections[b] = struct{}{}

	pb, ok := t.peers[b]
	if !ok {
		pb = &peerState{connections: make(map[types.NodeAddress]struct{})}
		t.peers[b] = pb
	}
	pb.lastSeen = ts
	pb.connections[a] = struct{}{}
}

// Has reports whether addr has ever been recorded.
func (t *RoutingTable) Has(addr types.NodeAddress) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.peers[addr]
	return ok
}

// LastSeen returns the timestamp addr was last recorded at.
func (t *RoutingTable) LastSeen(addr types.NodeAddress) (int64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.peers[addr]
	if !ok {
		return 0, false
	}
	return p.lastSeen, true
}

// Connections returns a copy of addr's known connection set.
func (t *RoutingTable) Connections(addr types.NodeAddress) []types.NodeAddress {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.peers[addr]
	if !ok {
		return nil
	}
	out := make([]types.NodeAddress, 0, len(p.connections))
	for c := range p.connections {
		out = append(out, c)
	}
	return out
}

// Len returns the number of distinct addresses recorded.
func (t *RoutingTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.peers)
}
