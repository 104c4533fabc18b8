// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package zkproof

import (
	"crypto/sha256"
	"math"
	"sort"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/sovereign-mesh/zhtp/types"
)

// UptimeRecord is one chronological uptime observation.
type UptimeRecord struct {
	Timestamp int64
	Online    bool
}

// LatencyRecord is one chronological latency observation, in
// milliseconds.
type LatencyRecord struct {
	Timestamp int64
	LatencyMS float64
}

// MerkleStep is one (parent, child) hash pair along a Merkle
// inclusion path.
type MerkleStep struct {
	Parent [32]byte
	Child  [32]byte
}

// Claim is everything the unified circuit commits to: a routing path
// through a known adjacency table, an optional storage inclusion
// proof, and a batch of network-metrics records.
type Claim struct {
	Source      types.NodeID
	Destination types.NodeID
	// Hops are the intermediate path nodes between Source and
	// Destination, in traversal order.
	Hops         []types.NodeID
	RoutingTable map[types.NodeID][]types.NodeID

	DataRoot        [32]byte
	MerkleProof     []MerkleStep
	SpaceCommitment fr.Element

	Bandwidth uint64
	Uptime    []UptimeRecord
	Latency   []LatencyRecord
}

// fullPath is Source, Hops..., Destination.
func (c Claim) fullPath() []types.NodeID {
	out := make([]types.NodeID, 0, len(c.Hops)+2)
	out = append(out, c.Source)
	out = append(out, c.Hops...)
	out = append(out, c.Destination)
	return out
}

func fieldHashBytes(b []byte) fr.Element {
	sum := sha256.Sum256(b)
	var e fr.Element
	e.SetBytes(sum[:])
	return e
}

func fieldHashNode(id types.NodeID) fr.Element {
	return fieldHashBytes([]byte(id))
}

func fieldHashRoot(root [32]byte) fr.Element {
	var e fr.Element
	e.SetBytes(root[:])
	return e
}

func fieldFlag(valid bool) fr.Element {
	var e fr.Element
	if valid {
		e.SetOne()
	}
	return e
}

// adjacent reports whether to is a direct neighbor of from in the
// routing table.
func adjacent(table map[types.NodeID][]types.NodeID, from, to types.NodeID) bool {
	for _, n := range table[from] {
		if n == to {
			return true
		}
	}
	return false
}

// routingWireValues builds the routing block: a field hash for every
// path node, followed by a validity flag for every consecutive pair.
// ok is false the moment any hop's adjacency is missing from the
// table; every flag after the first failure is forced to zero, per
// the invariant that an invalid hop poisons the remainder of the
// block.
func routingWireValues(path []types.NodeID, table map[types.NodeID][]types.NodeID) (values []fr.Element, ok bool) {
	values = make([]fr.Element, 0, 2*len(path)-1)
	for _, node := range path {
		values = append(values, fieldHashNode(node))
	}

	ok = true
	for i := 0; i+1 < len(path); i++ {
		valid := ok && adjacent(table, path[i], path[i+1])
		values = append(values, fieldFlag(valid))
		if !valid {
			ok = false
		}
	}
	return values, ok
}

// storageWireValues builds the storage block: either a single
// space-commitment field (no Merkle proof), or interleaved
// (parent_hash, child_hash) pairs followed by the space commitment.
func storageWireValues(proof []MerkleStep, spaceCommitment fr.Element) []fr.Element {
	values := make([]fr.Element, 0, 2*len(proof)+1)
	for _, step := range proof {
		values = append(values, fieldHashBytes(step.Parent[:]))
		values = append(values, fieldHashBytes(step.Child[:]))
	}
	values = append(values, spaceCommitment)
	return values
}

// metricsWireValues builds the metrics block: uptime records sorted
// by timestamp as (timestamp, online_flag) pairs, then latency
// records sorted by timestamp as (timestamp, latency_bits) pairs. The
// inputs are copied and sorted locally; callers' slices are untouched.
func metricsWireValues(uptime []UptimeRecord, latency []LatencyRecord) []fr.Element {
	uptimeSorted := append([]UptimeRecord(nil), uptime...)
	sort.Slice(uptimeSorted, func(i, j int) bool { return uptimeSorted[i].Timestamp < uptimeSorted[j].Timestamp })

	latencySorted := append([]LatencyRecord(nil), latency...)
	sort.Slice(latencySorted, func(i, j int) bool { return latencySorted[i].Timestamp < latencySorted[j].Timestamp })

	values := make([]fr.Element, 0, 2*len(uptimeSorted)+2*len(latencySorted))
	for _, rec := range uptimeSorted {
		var ts fr.Element
		ts.SetInt64(rec.Timestamp)
		values = append(values, ts, fieldFlag(rec.Online))
	}
	for _, rec := range latencySorted {
		var ts fr.Element
		ts.SetInt64(rec.Timestamp)
		var bits fr.Element
		bits.SetUint64(latencyBits(rec.LatencyMS))
		values = append(values, ts, bits)
	}
	return values
}

func latencyBits(ms float64) uint64 {
	return math.Float64bits(ms)
}

// baseWireValues builds the five base values: field hashes of source,
// destination, data root, then the raw bandwidth count and uptime
// record count.
func baseWireValues(source, destination types.NodeID, dataRoot [32]byte, bandwidth uint64, uptimeCount int) []fr.Element {
	var bw, count fr.Element
	bw.SetUint64(bandwidth)
	count.SetUint64(uint64(uptimeCount))
	return []fr.Element{
		fieldHashNode(source),
		fieldHashNode(destination),
		fieldHashRoot(dataRoot),
		bw,
		count,
	}
}
