// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package consensus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sovereign-mesh/zhtp/types"
)

// Metrics exports one Prometheus gauge per validator for the three
// fields consensus decisions are made from: stake, reputation score,
// and average observed latency. It is registered once per Registry.
type Metrics struct {
	reputationScore *prometheus.GaugeVec
	averageLatency  *prometheus.GaugeVec
	stake           *prometheus.GaugeVec
}

// NewMetrics builds and registers the per-validator collectors against
// reg. Registration failure (a name collision) is returned rather than
// panicking, so callers sharing a registry across packages can decide
// how to handle it.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		reputationScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "zhtp_consensus_reputation_score",
			Help: "Current reputation score of a validator, in [0, 1].",
		}, []string{"validator"}),
		averageLatency: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "zhtp_consensus_average_latency_ms",
			Help: "EMA of a validator's observed routing latency, in milliseconds.",
		}, []string{"validator"}),
		stake: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "zhtp_consensus_stake",
			Help: "Current stake of a validator.",
		}, []string{"validator"}),
	}

	for _, c := range []prometheus.Collector{m.reputationScore, m.averageLatency, m.stake} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// observe updates the three gauges for a single validator's current
// record.
func (m *Metrics) observe(v types.ValidatorInfo) {
	label := string(v.ID)
	m.reputationScore.WithLabelValues(label).Set(v.Metrics.ReputationScore)
	m.averageLatency.WithLabelValues(label).Set(v.Metrics.AverageLatency)
	m.stake.WithLabelValues(label).Set(v.Stake)
}
