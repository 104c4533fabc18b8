// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package consensus

import (
	"math"

	"github.com/sovereign-mesh/zhtp/types"
)

// RoundRewards computes each validator's base-reward payout for a
// round: reward_v = base_reward × stake_v × reputation_v, with the
// round's leader receiving 1.5x its computed reward.
func RoundRewards(validators []types.ValidatorInfo, leader types.NodeID, baseReward float64) map[types.NodeID]float64 {
	out := make(map[types.NodeID]float64, len(validators))
	for _, v := range validators {
		reward := baseReward * v.Stake * v.Metrics.ReputationScore
		if v.ID == leader {
			reward *= 1.5
		}
		out[v.ID] = reward
	}
	return out
}

// BlockReward computes the metrics-weighted reward for create_block:
// reward = base_reward × validator_score × delivery × latency_mul ×
// routing_mul.
func BlockReward(baseReward, validatorScore float64, metrics types.NetworkMetrics) float64 {
	delivery := deliveryRatio(metrics)
	latencyMul := (1000 - math.Min(metrics.AverageLatency, 1000)) / 1000
	routingMul := 1 + math.Min(float64(metrics.PacketsRouted)/100, 0.2)
	return baseReward * validatorScore * delivery * latencyMul * routingMul
}

// deliveryRatio is delivery_success / (delivery_success +
// delivery_failures), or 1 if the validator has no recorded attempts
// yet (an unobserved validator is assumed perfect, not penalized).
func deliveryRatio(m types.NetworkMetrics) float64 {
	total := m.DeliverySuccess + m.DeliveryFailures
	if total == 0 {
		return 1
	}
	return float64(m.DeliverySuccess) / float64(total)
}
