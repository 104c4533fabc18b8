// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package zkproof

import (
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/sovereign-mesh/zhtp/types"
)

// Generate builds the unified proof for claim. It fails (ok=false)
// the moment any claimed hop is absent from the routing table; no
// partial proof is returned in that case.
func Generate(claim Claim) (proof types.RoutingProof, ok bool) {
	routing, pathOK := routingWireValues(claim.fullPath(), claim.RoutingTable)
	if !pathOK {
		return types.RoutingProof{}, false
	}

	base := baseWireValues(claim.Source, claim.Destination, claim.DataRoot, claim.Bandwidth, len(claim.Uptime))
	storage := storageWireValues(claim.MerkleProof, claim.SpaceCommitment)
	metrics := metricsWireValues(claim.Uptime, claim.Latency)

	wireValues := make([]fr.Element, 0, len(base)+len(routing)+len(storage)+len(metrics))
	wireValues = append(wireValues, base...)
	wireValues = append(wireValues, routing...)
	wireValues = append(wireValues, storage...)
	wireValues = append(wireValues, metrics...)

	commitments := make([]bn254.G1Affine, len(wireValues))
	evaluations := make([]fr.Element, len(wireValues))
	publicInputs := make([]fr.Element, len(wireValues))
	for i, v := range wireValues {
		commitments[i], evaluations[i] = commitConstant(v)
		publicInputs[i] = v
	}

	return types.RoutingProof{
		Commitments:  commitments,
		Evaluations:  evaluations,
		PublicInputs: publicInputs,
	}, true
}
