// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package consensus

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sovereign-mesh/zhtp/types"
)

// TestRoundRewardsLeaderBonus checks that the leader's reward is
// exactly 1.5x what the same stake/reputation would earn as a
// non-leader.
func TestRoundRewardsLeaderBonus(t *testing.T) {
	validators := []types.ValidatorInfo{
		{ID: "leader", Stake: 100, Metrics: types.NetworkMetrics{ReputationScore: 0.9}},
		{ID: "follower", Stake: 100, Metrics: types.NetworkMetrics{ReputationScore: 0.9}},
	}

	rewards := RoundRewards(validators, "leader", 1.0)

	require.InDelta(t, 90.0, rewards["follower"], 1e-9)
	require.InDelta(t, 135.0, rewards["leader"], 1e-9)
}

func TestBlockRewardMultipliers(t *testing.T) {
	m := types.NetworkMetrics{
		DeliverySuccess:  9,
		DeliveryFailures: 1,
		AverageLatency:   200,
		PacketsRouted:    50,
	}

	reward := BlockReward(10, 1.0, m)

	// delivery = 0.9, latency_mul = 0.8, routing_mul = 1.2
	require.InDelta(t, 10*0.9*0.8*1.2, reward, 1e-9)
}

func TestBlockRewardNoAttemptsAssumesPerfectDelivery(t *testing.T) {
	reward := BlockReward(10, 1.0, types.NetworkMetrics{})
	// delivery = 1, latency_mul = 1 (avg latency 0), routing_mul = 1
	require.InDelta(t, 10.0, reward, 1e-9)
}

func TestBlockRewardLatencyAndRoutingAreCapped(t *testing.T) {
	m := types.NetworkMetrics{
		DeliverySuccess: 1,
		AverageLatency:  5000,
		PacketsRouted:   1000,
	}
	reward := BlockReward(10, 1.0, m)
	// latency_mul floors at 0, routing_mul caps at 1.2
	require.InDelta(t, 0.0, reward, 1e-9)
}
