// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package telemetry

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/sovereign-mesh/zhtp/api/health"
)

type fakeRoutingTable struct{ n int }

func (f fakeRoutingTable) Len() int { return f.n }

func TestNodeHealthUnhealthyWithNoPeers(t *testing.T) {
	h := &NodeHealth{Routing: fakeRoutingTable{n: 0}}

	result, err := h.HealthCheck(context.Background())
	require.NoError(t, err)

	report, ok := result.(health.Report)
	require.True(t, ok)
	require.False(t, report.Healthy)
}

func TestNodeHealthHealthyWithPeers(t *testing.T) {
	h := &NodeHealth{Routing: fakeRoutingTable{n: 3}}

	result, err := h.HealthCheck(context.Background())
	require.NoError(t, err)

	report := result.(health.Report)
	require.True(t, report.Healthy)
	require.Equal(t, 3, report.Details["peer_count"])
}

func TestNewNodeMetricsRegistersCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewNodeMetrics(reg)
	require.NoError(t, err)
	require.NotNil(t, m.PacketsForwarded())
}
