// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package overlay

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDiamondTopologyDegradedMiddle is scenario S1: A-B-D and A-C-D,
// with B badly degraded and C healthy. Packets should mostly route
// around B, leaving B's reputation damaged and C's intact.
//
// B only ever gets tried as a fallback candidate on the rare packet
// where C's own (healthy) hop drops, so a handful of packets isn't
// enough to reliably exercise B at all. Scaled up from the
// illustrative 10 packets to a count that makes B's degradation
// assertions deterministic in practice rather than a coin flip.
func TestDiamondTopologyDegradedMiddle(t *testing.T) {
	sim := NewSimulator()

	goodCond := Condition{PacketLossRate: 0.02, LatencyMultiplier: 1.0}
	sim.AddNode("A", goodCond)
	sim.AddNode("B", Condition{PacketLossRate: 0.9, LatencyMultiplier: 5.0})
	sim.AddNode("C", Condition{PacketLossRate: 0.05, LatencyMultiplier: 1.1})
	sim.AddNode("D", goodCond)

	sim.Connect("A", "B")
	sim.Connect("A", "C")
	sim.Connect("B", "D")
	sim.Connect("C", "D")

	const packets = 400
	for i := 0; i < packets; i++ {
		sim.Enqueue("A", "D", []byte("payload"), int64(i))
		sim.ProcessOne()
	}
	sim.ProcessIdleRounds(5)

	require.Greater(t, sim.DeliveryRate(), 0.3)

	bMetrics := sim.Metrics("B")
	require.Less(t, bMetrics.ReputationScore, 0.7)
	require.Greater(t, bMetrics.DeliveryFailures, uint32(0))
	require.Greater(t, bMetrics.AverageLatency, 100.0)

	cMetrics := sim.Metrics("C")
	require.Greater(t, cMetrics.ReputationScore, 0.7)
	require.Less(t, cMetrics.AverageLatency, 200.0)

	require.Greater(t, sim.Received("D"), 0)
}

func TestDeliveryAtMostOnce(t *testing.T) {
	sim := NewSimulator()
	cond := Condition{PacketLossRate: 0.0, LatencyMultiplier: 1.0}
	sim.AddNode("A", cond)
	sim.AddNode("B", cond)
	sim.Connect("A", "B")

	sim.Enqueue("A", "B", []byte("x"), 1)
	sim.ProcessAll()
	sim.ProcessIdleRounds(3)

	require.LessOrEqual(t, sim.Received("B"), 1)
}

func TestUnknownDestinationNeverDelivers(t *testing.T) {
	sim := NewSimulator()
	sim.AddNode("A", Condition{PacketLossRate: 0, LatencyMultiplier: 1})
	sim.Enqueue("A", "ghost", []byte("x"), 1)
	sim.ProcessAll()
	require.Equal(t, 0.0, sim.DeliveryRate())
}
