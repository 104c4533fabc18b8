// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package consensus implements ZHTP's validator registry, leader and
// validator-set selection, and per-round reward computation.
package consensus

import (
	"sort"
	"sync"

	"github.com/sovereign-mesh/zhtp/types"
)

// Registry tracks the current validator set and their network
// performance metrics. One RWMutex guards the whole map; callers
// never hold it across a suspension point.
type Registry struct {
	mu         sync.RWMutex
	validators map[types.NodeID]*types.ValidatorInfo

	// metrics is optional; a registry built with NewRegistry has none,
	// and SetMetrics attaches a *Metrics to export stake/reputation/
	// latency gauges on every subsequent update.
	metrics *Metrics
}

// NewRegistry returns an empty validator registry.
func NewRegistry() *Registry {
	return &Registry{validators: make(map[types.NodeID]*types.ValidatorInfo)}
}

// SetMetrics attaches m to the registry; every Add, UpdateSuccess, and
// UpdateFailure call after this observes the affected validator's
// stake/reputation/latency gauges through it.
func (r *Registry) SetMetrics(m *Metrics) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics = m
}

// Add registers a validator with the given stake and neutral starting
// metrics. A validator already present is left untouched.
func (r *Registry) Add(id types.NodeID, stake float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.validators[id]; ok {
		return
	}
	v := &types.ValidatorInfo{
		ID:      id,
		Stake:   stake,
		Metrics: types.NewNetworkMetrics(),
	}
	r.validators[id] = v
	if r.metrics != nil {
		r.metrics.observe(*v)
	}
}

// Get returns a copy of a validator's current record.
func (r *Registry) Get(id types.NodeID) (types.ValidatorInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.validators[id]
	if !ok {
		return types.ValidatorInfo{}, false
	}
	return *v, true
}

// UpdateSuccess records a successful routing attempt against a
// validator's metrics: packets_routed and delivery_success both
// increment, the latency EMA absorbs the sample, and reputation moves
// toward 1. Kept distinct from UpdateFailure so failed attempts never
// touch packets_routed or delivery_success (see DESIGN.md).
func (r *Registry) UpdateSuccess(id types.NodeID, latencyMS float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.validators[id]
	if !ok {
		return
	}
	m := &v.Metrics
	m.PacketsRouted++
	m.DeliverySuccess++
	m.AverageLatency = 0.1*latencyMS + 0.9*m.AverageLatency
	m.ReputationScore = clamp01(m.ReputationScore + 0.1*(1-m.ReputationScore))
	if r.metrics != nil {
		r.metrics.observe(*v)
	}
}

// UpdateFailure records a failed routing attempt: delivery_failures
// increments and reputation decays, but packets_routed and
// delivery_success are left untouched.
func (r *Registry) UpdateFailure(id types.NodeID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.validators[id]
	if !ok {
		return
	}
	m := &v.Metrics
	m.DeliveryFailures++
	m.ReputationScore = clamp01(m.ReputationScore - 0.1*m.ReputationScore)
	if r.metrics != nil {
		r.metrics.observe(*v)
	}
}

// Leader returns the validator maximizing stake × reputation_score.
// Ties are broken by ascending NodeID so leader selection is
// deterministic for a given registry snapshot, rather than depending
// on Go's randomized map iteration order.
func (r *Registry) Leader() (types.ValidatorInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *types.ValidatorInfo
	for _, v := range r.validators {
		if best == nil || better(v, best) {
			best = v
		}
	}
	if best == nil {
		return types.ValidatorInfo{}, false
	}
	return *best, true
}

// better reports whether a should replace b as the current leading
// candidate: a strictly higher score wins, and an equal score is
// resolved by the lexicographically smaller NodeID.
func better(a, b *types.ValidatorInfo) bool {
	sa, sb := a.Score(), b.Score()
	if sa != sb {
		return sa > sb
	}
	return a.ID < b.ID
}

// SelectTopK sorts the validator set by stake × reputation_score
// descending (ties broken by ascending NodeID, for the same
// determinism reason as Leader) and returns the first k.
func (r *Registry) SelectTopK(k int) []types.ValidatorInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]types.ValidatorInfo, 0, len(r.validators))
	for _, v := range r.validators {
		all = append(all, *v)
	}
	sort.Slice(all, func(i, j int) bool {
		si, sj := all[i].Score(), all[j].Score()
		if si != sj {
			return si > sj
		}
		return all[i].ID < all[j].ID
	})
	if k > len(all) {
		k = len(all)
	}
	return all[:k]
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
