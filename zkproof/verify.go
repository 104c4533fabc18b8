// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package zkproof

import (
	"github.com/sovereign-mesh/zhtp/types"
	"github.com/sovereign-mesh/zhtp/zhtperr"
)

// Verify checks proof against claim, performing every check in the
// order the design specifies. On failure it returns a *zhtperr.ProofError
// naming the check that failed; callers that only care about the
// boolean result can check errors.Is(err, zhtperr.ErrProofInvalid).
func Verify(proof types.RoutingProof, claim Claim) (bool, error) {
	if err := checkStructure(proof); err != nil {
		return false, err
	}
	if err := checkBaseValues(proof, claim); err != nil {
		return false, err
	}
	path := claim.fullPath()
	if err := checkReachability(path, claim.RoutingTable); err != nil {
		return false, err
	}
	if err := checkPerHopAdjacency(proof, path, claim.RoutingTable); err != nil {
		return false, err
	}
	if err := checkBatchCommitment(proof); err != nil {
		return false, err
	}
	if err := checkProofElementsIdentity(proof); err != nil {
		return false, err
	}
	return true, nil
}

func checkStructure(proof types.RoutingProof) error {
	n := len(proof.PublicInputs)
	if len(proof.Commitments) != n || len(proof.Evaluations) != n {
		return zhtperr.NewProofError("structure: mismatched list lengths")
	}
	if n < 5 {
		return zhtperr.NewProofError("structure: fewer than five public inputs")
	}
	return nil
}

func checkBaseValues(proof types.RoutingProof, claim Claim) error {
	expected := baseWireValues(claim.Source, claim.Destination, claim.DataRoot, claim.Bandwidth, len(claim.Uptime))

	zeroRoot := claim.DataRoot == [32]byte{}
	for i, want := range expected {
		if i == 2 && zeroRoot {
			// View-change mode: the data root check is skipped when
			// the caller supplies an all-zero root.
			continue
		}
		if !proof.PublicInputs[i].Equal(&want) {
			return zhtperr.NewProofError("base value mismatch")
		}
	}
	return nil
}

func checkReachability(path []types.NodeID, table map[types.NodeID][]types.NodeID) error {
	if len(path) == 0 {
		return zhtperr.NewProofError("reachability: empty path")
	}
	source, dest := path[0], path[len(path)-1]

	visited := map[types.NodeID]struct{}{source: {}}
	frontier := []types.NodeID{source}
	for len(frontier) > 0 {
		var next []types.NodeID
		for _, node := range frontier {
			if node == dest {
				return nil
			}
			for _, nbr := range table[node] {
				if _, seen := visited[nbr]; seen {
					continue
				}
				visited[nbr] = struct{}{}
				next = append(next, nbr)
			}
		}
		frontier = next
	}
	if _, ok := visited[dest]; ok {
		return nil
	}
	return zhtperr.NewProofError("reachability: destination unreachable from source")
}

func checkPerHopAdjacency(proof types.RoutingProof, path []types.NodeID, table map[types.NodeID][]types.NodeID) error {
	n := len(path)
	flagsStart := 5 + n

	product := 1
	for i := 0; i+1 < n; i++ {
		if !adjacent(table, path[i], path[i+1]) {
			return zhtperr.NewProofError("per-hop adjacency: non-adjacent path nodes")
		}
		flag := proof.PublicInputs[flagsStart+i]
		if flag.IsZero() {
			product = 0
		}
	}
	if product != 1 {
		return zhtperr.NewProofError("per-hop adjacency: validity flag product is zero")
	}
	return nil
}

func checkBatchCommitment(proof types.RoutingProof) error {
	lhs := sumCommitments(proof.Commitments)
	rhs := generatorTimes(sumEvaluations(proof.Evaluations))
	if !lhs.Equal(&rhs) {
		return zhtperr.NewProofError("batch commitment: sum(commitments) != generator * sum(evaluations)")
	}
	return nil
}

// checkProofElementsIdentity is the reference implementation's
// tautological final check: it equates the proof's evaluations
// (its "proof elements") with its own public inputs, which by
// construction are always equal. This is a preserved correctness
// hazard, not a binding check — see DESIGN.md.
func checkProofElementsIdentity(proof types.RoutingProof) error {
	for i := range proof.Evaluations {
		if !proof.Evaluations[i].Equal(&proof.PublicInputs[i]) {
			return zhtperr.NewProofError("proof elements do not match public inputs")
		}
	}
	return nil
}
