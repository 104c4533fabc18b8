// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package consensus

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sovereign-mesh/zhtp/types"
)

// TestLeaderSelectionBasic is scenario S3: among validators with
// distinct stake×reputation scores, the leader is the maximizer.
func TestLeaderSelectionBasic(t *testing.T) {
	r := NewRegistry()
	r.Add("low", 10)
	r.Add("high", 100)
	r.Add("mid", 50)

	leader, ok := r.Leader()
	require.True(t, ok)
	require.Equal(t, types.NodeID("high"), leader.ID)
}

func TestLeaderSelectionTieBreaksLexicographically(t *testing.T) {
	r := NewRegistry()
	r.Add("zeta", 10)
	r.Add("alpha", 10)
	r.Add("mu", 10)

	leader, ok := r.Leader()
	require.True(t, ok)
	require.Equal(t, types.NodeID("alpha"), leader.ID)
}

func TestLeaderEmptyRegistry(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Leader()
	require.False(t, ok)
}

func TestSelectTopKOrdersByScoreDescending(t *testing.T) {
	r := NewRegistry()
	r.Add("a", 10)
	r.Add("b", 50)
	r.Add("c", 30)
	r.Add("d", 5)

	top2 := r.SelectTopK(2)
	require.Len(t, top2, 2)
	require.Equal(t, types.NodeID("b"), top2[0].ID)
	require.Equal(t, types.NodeID("c"), top2[1].ID)
}

func TestSelectTopKClampsToRegistrySize(t *testing.T) {
	r := NewRegistry()
	r.Add("a", 10)
	require.Len(t, r.SelectTopK(5), 1)
}

// TestUpdateSuccessAndFailureDecoupled is scenario S4: a mix of
// successful and failed routing updates must never let a failure
// inflate packets_routed or delivery_success.
func TestUpdateSuccessAndFailureDecoupled(t *testing.T) {
	r := NewRegistry()
	r.Add("node", 10)

	r.UpdateSuccess("node", 50)
	r.UpdateSuccess("node", 60)
	r.UpdateFailure("node")
	r.UpdateFailure("node")
	r.UpdateFailure("node")

	v, ok := r.Get("node")
	require.True(t, ok)
	require.Equal(t, uint32(2), v.Metrics.PacketsRouted)
	require.Equal(t, uint32(2), v.Metrics.DeliverySuccess)
	require.Equal(t, uint32(3), v.Metrics.DeliveryFailures)
	require.Less(t, v.Metrics.ReputationScore, 1.0)
}

func TestUpdateUnknownValidatorIsNoOp(t *testing.T) {
	r := NewRegistry()
	r.UpdateSuccess("ghost", 10)
	r.UpdateFailure("ghost")
	_, ok := r.Get("ghost")
	require.False(t, ok)
}
