// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package telemetry wires a running node's packet-forwarding metrics
// and liveness health check together, the way the wider Lux stack's
// api/metrics and api/health packages are composed in a node process.
package telemetry

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	apimetrics "github.com/sovereign-mesh/zhtp/api/metrics"
	"github.com/sovereign-mesh/zhtp/api/health"
)

// NewNodeMetrics registers a node's packet-forwarding counters under
// namespace "zhtp" against reg.
func NewNodeMetrics(reg prometheus.Registerer) (apimetrics.Metrics, error) {
	return apimetrics.NewMetrics("zhtp", reg)
}

// RoutingTable is the subset of node.RoutingTable the health checker
// needs; defined here rather than imported to avoid a dependency from
// telemetry onto node.
type RoutingTable interface {
	Len() int
}

// NodeHealth reports a node healthy once it has at least one peer in
// its routing table; an isolated node (zero peers) is reported
// unhealthy since it cannot route or reach consensus.
type NodeHealth struct {
	Routing RoutingTable
}

var _ health.Checker = (*NodeHealth)(nil)

// HealthCheck implements health.Checker.
func (h *NodeHealth) HealthCheck(_ context.Context) (interface{}, error) {
	start := time.Now()
	peers := h.Routing.Len()
	healthy := peers > 0

	return health.Report{
		Healthy: healthy,
		Details: map[string]interface{}{"peer_count": peers},
		Checks: []health.Check{{
			Name:     "routing_table_nonempty",
			Healthy:  healthy,
			Duration: time.Since(start),
		}},
		Duration: time.Since(start),
	}, nil
}
