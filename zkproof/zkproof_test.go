// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package zkproof

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/sovereign-mesh/zhtp/types"
)

func validRoutingTable() map[types.NodeID][]types.NodeID {
	return map[types.NodeID][]types.NodeID{
		"src": {"h1"},
		"h1":  {"src", "h2"},
		"h2":  {"h1", "dst"},
		"dst": {"h2"},
	}
}

func baseClaim() Claim {
	var spaceCommitment fr.Element
	spaceCommitment.SetUint64(42)

	return Claim{
		Source:          "src",
		Destination:     "dst",
		Hops:            []types.NodeID{"h1", "h2"},
		RoutingTable:    validRoutingTable(),
		DataRoot:        [32]byte{1, 2, 3},
		SpaceCommitment: spaceCommitment,
		Bandwidth:       1024,
		Uptime: []UptimeRecord{
			{Timestamp: 3, Online: true},
			{Timestamp: 1, Online: true},
			{Timestamp: 2, Online: false},
		},
		Latency: []LatencyRecord{
			{Timestamp: 3, LatencyMS: 12.5},
			{Timestamp: 1, LatencyMS: 8.0},
			{Timestamp: 2, LatencyMS: 9.25},
		},
	}
}

// TestGenerateAndVerifyUnifiedProof is scenario S5: a valid claim over
// a 4-node path (source + 2 hops + destination), no Merkle proof, 3
// uptime and 3 latency records produces exactly 25 wire-value
// commitments (5 base + 7 routing + 1 storage + 12 metrics), and
// verifies.
func TestGenerateAndVerifyUnifiedProof(t *testing.T) {
	claim := baseClaim()

	proof, ok := Generate(claim)
	require.True(t, ok)
	require.Len(t, proof.Commitments, 25)
	require.Len(t, proof.Evaluations, 25)
	require.Len(t, proof.PublicInputs, 25)

	valid, err := Verify(proof, claim)
	require.NoError(t, err)
	require.True(t, valid)
}

// TestGenerateFailsOnMissingHop is scenario S6: a claimed hop absent
// from the routing table produces no proof.
func TestGenerateFailsOnMissingHop(t *testing.T) {
	claim := baseClaim()
	claim.Hops = []types.NodeID{"h1", "ghost"}

	_, ok := Generate(claim)
	require.False(t, ok)
}

func TestVerifyRejectsTamperedPublicInput(t *testing.T) {
	claim := baseClaim()
	proof, ok := Generate(claim)
	require.True(t, ok)

	proof.PublicInputs[0].SetUint64(999999)

	valid, err := Verify(proof, claim)
	require.False(t, valid)
	require.Error(t, err)
}

func TestVerifySkipsDataRootCheckInViewChangeMode(t *testing.T) {
	claim := baseClaim()
	claim.DataRoot = [32]byte{}

	proof, ok := Generate(claim)
	require.True(t, ok)

	valid, err := Verify(proof, claim)
	require.NoError(t, err)
	require.True(t, valid)
}

func TestGenerateFailsWhenPathBreaksAdjacency(t *testing.T) {
	claim := baseClaim()
	claim.RoutingTable = map[types.NodeID][]types.NodeID{
		"src": {"h1"},
		"h1":  {"src"},
		"h2":  {"dst"},
		"dst": {"h2"},
	}

	_, ok := Generate(claim)
	require.False(t, ok, "generation should already fail since h1->h2 isn't adjacent")
}

func TestVerifyRejectsUnreachableDestination(t *testing.T) {
	claim := baseClaim()
	proof, ok := Generate(claim)
	require.True(t, ok)

	// Verify against a routing table where the destination has been
	// disconnected from the rest of the graph entirely, even though
	// the proof itself still carries the original (valid) wire values.
	claim.RoutingTable = map[types.NodeID][]types.NodeID{
		"src": {"h1"},
		"h1":  {"src", "h2"},
		"h2":  {"h1"},
		"dst": {},
	}

	valid, err := Verify(proof, claim)
	require.False(t, valid)
	require.Error(t, err)
}

func TestStorageBlockWithMerkleProof(t *testing.T) {
	claim := baseClaim()
	claim.MerkleProof = []MerkleStep{
		{Parent: [32]byte{9}, Child: [32]byte{10}},
	}

	proof, ok := Generate(claim)
	require.True(t, ok)
	// 5 base + 7 routing + (2*1 + 1) storage + 12 metrics = 27
	require.Len(t, proof.Commitments, 27)

	valid, err := Verify(proof, claim)
	require.NoError(t, err)
	require.True(t, valid)
}
