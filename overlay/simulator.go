// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package overlay simulates the ZHTP forwarding overlay in-process: a
// graph of nodes connected by scored, lossy links, used to exercise the
// hop-limited flooding and reputation-weighted next-hop selection logic
// without standing up real UDP sockets. The node protocol (package
// node) does not apply these rules itself: it passes packets not
// addressed to it to an optional OnForward callback.
package overlay

import (
	"math"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/sovereign-mesh/zhtp/types"
)

// MaxHops bounds how many relays a packet may traverse before it is
// dropped as undeliverable.
const MaxHops = 10

// Condition describes the per-node link quality the simulator applies
// when a packet attempts to cross into or out of a node.
type Condition struct {
	PacketLossRate    float64
	LatencyMultiplier float64
	BandwidthCap      *uint64
}

type nodeState struct {
	id          types.NodeID
	connections map[types.NodeID]struct{}
	condition   Condition
	metrics     types.NetworkMetrics
	received    []*types.Packet
}

// DeliveryKey identifies one source/dest/enqueue-time delivery attempt
// for the final-outcome tracking map.
type DeliveryKey struct {
	Source    types.NodeID
	Dest      types.NodeID
	Timestamp int64
}

type inFlight struct {
	packet    *types.Packet
	source    types.NodeID
	dest      types.NodeID
	current   types.NodeID
	visited   map[types.NodeID]struct{}
	hops      int
	seq       int64
	timestamp int64
}

// Simulator is the in-process overlay graph: nodes, their link
// conditions and metrics, and the FIFO queue of in-flight packets.
type Simulator struct {
	mu    sync.RWMutex
	nodes map[types.NodeID]*nodeState
	queue []*inFlight

	delivery map[DeliveryKey]bool

	nextSeq int64
}

// NewSimulator returns an empty overlay graph.
func NewSimulator() *Simulator {
	return &Simulator{
		nodes:    make(map[types.NodeID]*nodeState),
		delivery: make(map[DeliveryKey]bool),
	}
}

// AddNode registers a node with the given link condition and neutral
// starting metrics.
func (s *Simulator) AddNode(id types.NodeID, cond Condition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.nodes[id]; ok {
		return
	}
	s.nodes[id] = &nodeState{
		id:          id,
		connections: make(map[types.NodeID]struct{}),
		condition:   cond,
		metrics:     types.NewNetworkMetrics(),
	}
}

// SetCondition updates a node's link condition in place.
func (s *Simulator) SetCondition(id types.NodeID, cond Condition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.nodes[id]; ok {
		n.condition = cond
	}
}

// Connect adds an undirected edge between two nodes.
func (s *Simulator) Connect(a, b types.NodeID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if na, ok := s.nodes[a]; ok {
		na.connections[b] = struct{}{}
	}
	if nb, ok := s.nodes[b]; ok {
		nb.connections[a] = struct{}{}
	}
}

// Metrics returns a copy of a node's current metrics.
func (s *Simulator) Metrics(id types.NodeID) types.NetworkMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n, ok := s.nodes[id]; ok {
		return n.metrics
	}
	return types.NetworkMetrics{}
}

// DeliveryRate returns the fraction of enqueued (source, dest) attempts
// that were ultimately delivered.
func (s *Simulator) DeliveryRate() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.delivery) == 0 {
		return 0
	}
	var delivered int
	for _, ok := range s.delivery {
		if ok {
			delivered++
		}
	}
	return float64(delivered) / float64(len(s.delivery))
}

// Received returns the number of packets a node has locally delivered.
func (s *Simulator) Received(id types.NodeID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n, ok := s.nodes[id]; ok {
		return len(n.received)
	}
	return 0
}

// Enqueue places a new packet from source to dest at the back of the
// processing queue.
func (s *Simulator) Enqueue(source, dest types.NodeID, payload []byte, timestamp int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, _ := types.NewPacketID()
	pkt := &types.Packet{
		ID:      id,
		TTL:     types.DefaultTTL,
		Payload: payload,
	}

	s.nextSeq++
	s.queue = append(s.queue, &inFlight{
		packet:    pkt,
		source:    source,
		dest:      dest,
		current:   source,
		visited:   map[types.NodeID]struct{}{source: {}},
		seq:       s.nextSeq,
		timestamp: timestamp,
	})
	s.delivery[DeliveryKey{Source: source, Dest: dest, Timestamp: timestamp}] = false
}

// ProcessOne pops the next queued packet and processes a single hop of
// it; a packet forwarded to a relay is re-enqueued at the back of the
// queue. Returns false if the queue was empty.
func (s *Simulator) ProcessOne() bool {
	s.mu.Lock()
	if len(s.queue) == 0 {
		s.mu.Unlock()
		return false
	}
	job := s.queue[0]
	s.queue = s.queue[1:]
	s.mu.Unlock()

	s.step(job)
	return true
}

// ProcessAll drains the queue, including any packets re-enqueued mid
// drain as they hop forward.
func (s *Simulator) ProcessAll() {
	for s.ProcessOne() {
	}
}

// ProcessIdleRounds runs n additional drain passes; scenario S1 uses
// this to give in-flight multi-hop packets a chance to finish.
func (s *Simulator) ProcessIdleRounds(n int) {
	for i := 0; i < n; i++ {
		s.ProcessAll()
	}
}

func (s *Simulator) step(job *inFlight) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job.hops++
	if job.hops > MaxHops {
		s.failAtLocked(job.current)
		return
	}

	current, ok := s.nodes[job.current]
	if !ok {
		s.failAtLocked(job.current)
		return
	}

	if _, directlyConnected := current.connections[job.dest]; directlyConnected {
		if s.attemptDelivery(job) {
			return
		}
		// A dropped direct attempt isn't terminal: fall through and see
		// if another unvisited neighbor can still route the packet.
	}

	candidates := s.scoredCandidates(job.current, job.visited, job.dest)
	for _, cand := range candidates {
		drop := s.hopDropRate(cand, false)
		if s.sampleDrop(drop, cand.id) {
			s.penalizeCandidate(cand)
			continue
		}

		cand.metrics.PacketsRouted++
		cand.metrics.DeliverySuccess++
		cand.metrics.AverageLatency = 0.1*sampleLatency(cand.condition) + 0.9*cand.metrics.AverageLatency
		s.boostReputation(cand, drop)

		visited := make(map[types.NodeID]struct{}, len(job.visited)+1)
		for k := range job.visited {
			visited[k] = struct{}{}
		}
		visited[cand.id] = struct{}{}

		s.nextSeq++
		s.queue = append(s.queue, &inFlight{
			packet:    job.packet,
			source:    job.source,
			dest:      job.dest,
			current:   cand.id,
			visited:   visited,
			hops:      job.hops,
			seq:       s.nextSeq,
			timestamp: job.timestamp,
		})
		return
	}

	// No candidate forwarded. Apply the base failure update, plus an
	// extra hit only for a confidently-good relay that still failed
	// under easy conditions.
	expectedFails := current.condition.PacketLossRate * current.condition.LatencyMultiplier
	s.recordFailure(current, expectedFails < 0.2 && current.metrics.ReputationScore > 0.8)
}

// attemptDelivery handles the final hop to job.dest. Caller holds s.mu.
// Reports whether the packet was actually delivered.
func (s *Simulator) attemptDelivery(job *inFlight) bool {
	dest, ok := s.nodes[job.dest]
	if !ok {
		return false
	}

	drop := s.hopDropRate(dest, true)
	if s.sampleDrop(drop, job.dest) {
		s.recordFailure(dest, drop < 0.3 && dest.metrics.ReputationScore > 0.5)
		return false
	}

	latency := sampleLatency(dest.condition)
	dest.metrics.PacketsRouted++
	dest.metrics.DeliverySuccess++
	dest.metrics.AverageLatency = 0.1*latency + 0.9*dest.metrics.AverageLatency
	dest.metrics.ReputationScore = clamp01(dest.metrics.ReputationScore + 0.1*(1-dest.metrics.ReputationScore))
	dest.received = append(dest.received, job.packet)

	// "source" here is the relay making the direct delivery (the
	// current hop), not necessarily the packet's original sender.
	if relay, ok := s.nodes[job.current]; ok {
		relay.metrics.ReputationScore = clamp01(relay.metrics.ReputationScore + 0.1*(1-relay.metrics.ReputationScore))
	}

	s.delivery[DeliveryKey{Source: job.source, Dest: job.dest, Timestamp: job.timestamp}] = true
	return true
}

func (s *Simulator) failAt(id types.NodeID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAtLocked(id)
}

// failAtLocked records a terminal failure at id (max hops exceeded, or
// the current node is missing from the graph, in which case there is
// nothing to record) with no extra bonus penalty. Caller holds s.mu.
func (s *Simulator) failAtLocked(id types.NodeID) {
	if n, ok := s.nodes[id]; ok {
		s.recordFailure(n, false)
	}
}

// recordFailure applies the unconditional failure update (count plus
// reputation decay); extraPenalty applies it a second time, for a hop
// that looked easy for a supposedly trusted node and still missed.
func (s *Simulator) recordFailure(n *nodeState, extraPenalty bool) {
	n.metrics.DeliveryFailures++
	n.metrics.ReputationScore = clamp01(n.metrics.ReputationScore - 0.1*n.metrics.ReputationScore)
	if extraPenalty {
		n.metrics.ReputationScore = clamp01(n.metrics.ReputationScore - 0.1*n.metrics.ReputationScore)
	}
}

// boostReputation applies the forwarding node's success reward: a
// multiplier on the standard EMA-style increment scaled by how
// difficult the hop was, plus an extra nudge for an already-trusted
// node succeeding under easy conditions.
func (s *Simulator) boostReputation(n *nodeState, difficulty float64) {
	multiplier := 1.0
	switch {
	case difficulty > 0.8:
		multiplier = 3
	case difficulty > 0.5:
		multiplier = 2
	}

	base := 0.1 * (1 - n.metrics.ReputationScore) * multiplier
	n.metrics.ReputationScore = clamp01(n.metrics.ReputationScore + base)

	if n.metrics.ReputationScore > 0.7 && difficulty < 0.3 {
		n.metrics.ReputationScore = clamp01(n.metrics.ReputationScore + 0.05)
	}
}

// penalizeCandidate records a failed relay attempt against the
// candidate that dropped it: the hop still cost time even though it
// didn't go through, so the candidate's latency average absorbs a
// degraded sample, and a node that was supposedly in good condition
// and trusted takes a reputation hit for the miss.
func (s *Simulator) penalizeCandidate(n *nodeState) {
	n.metrics.AverageLatency = 0.1*(2*sampleLatency(n.condition)) + 0.9*n.metrics.AverageLatency

	expectedFails := n.condition.PacketLossRate * n.condition.LatencyMultiplier
	s.recordFailure(n, expectedFails < 0.3 && n.metrics.ReputationScore > 0.8)
}

// hopDropRate computes the probability a hop to n is dropped. final
// selects the destination-delivery variant of the formula: it caps at
// 0.95 like the relay case but carries no floor, matching the
// original delivery-attempt formula's plain .min(0.95).
func (s *Simulator) hopDropRate(n *nodeState, final bool) float64 {
	c := n.condition
	base := c.PacketLossRate * c.LatencyMultiplier
	r := n.metrics.ReputationScore

	if final {
		penalty := (1 - r) * (1 - r) * base * 5
		return math.Min(base+penalty, 0.95)
	}

	var modifier float64
	switch {
	case r > 0.8:
		modifier = -0.2
	case r < 0.3:
		modifier = 0.2
	}

	return clamp(base+modifier, 0.05, 0.95)
}

func (s *Simulator) sampleDrop(drop float64, target types.NodeID) bool {
	if _, ok := s.nodes[target]; !ok {
		return true
	}
	return rand.Float64() < drop
}

// scoredCandidates returns the current node's unvisited direct
// neighbors ordered by forwarding score, highest first, ties broken by
// ascending packet loss rate. dest is excluded: delivery to it is
// attemptDelivery's job, not a relay hop's.
func (s *Simulator) scoredCandidates(current types.NodeID, visited map[types.NodeID]struct{}, dest types.NodeID) []*nodeState {
	cur, ok := s.nodes[current]
	if !ok {
		return nil
	}

	type scored struct {
		n     *nodeState
		score float64
	}
	var out []scored
	for nbr := range cur.connections {
		if nbr == dest {
			continue
		}
		if _, seen := visited[nbr]; seen {
			continue
		}
		n, ok := s.nodes[nbr]
		if !ok {
			continue
		}
		score := clamp(n.metrics.ReputationScore*(1-math.Min(n.condition.PacketLossRate*1.5, 0.6))+0.05, 0.05, 0.95)
		out = append(out, scored{n: n, score: score})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		return out[i].n.condition.PacketLossRate < out[j].n.condition.PacketLossRate
	})

	result := make([]*nodeState, len(out))
	for i, sc := range out {
		result[i] = sc.n
	}
	return result
}

func sampleLatency(c Condition) float64 {
	return (10 + rand.Float64()*190) * c.LatencyMultiplier
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}
