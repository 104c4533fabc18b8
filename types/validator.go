// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package types

// NetworkMetrics is a node's observed routing performance, used both to
// score forwarding candidates in the overlay and to weight consensus
// rewards.
//
// NOTE: success and failure updates are kept decoupled (see the
// consensus package's UpdateSuccess/UpdateFailure): only a successful
// routing attempt increments PacketsRouted and DeliverySuccess, so
// failures never double-count against the routed total (see
// DESIGN.md).
type NetworkMetrics struct {
	PacketsRouted    uint32
	DeliverySuccess  uint32
	DeliveryFailures uint32
	AverageLatency   float64 // ms, EMA with alpha = 0.1
	ReputationScore  float64 // [0, 1]
	UptimeThreshold  float64 // [0, 1]
}

// NewNetworkMetrics returns a metrics record with neutral starting
// values: zero counters, zero latency, and perfect reputation/uptime
// (the posture of a node nobody has observed misbehave yet).
func NewNetworkMetrics() NetworkMetrics {
	return NetworkMetrics{
		ReputationScore: 1.0,
		UptimeThreshold: 1.0,
	}
}

// ValidatorInfo is a consensus participant: its stake and its current
// network performance metrics.
type ValidatorInfo struct {
	ID      NodeID
	Stake   float64
	Metrics NetworkMetrics
}

// Score is the stake-weighted-by-reputation score used for leader and
// validator-set selection.
func (v *ValidatorInfo) Score() float64 {
	return v.Stake * v.Metrics.ReputationScore
}
