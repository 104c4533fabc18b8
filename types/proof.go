// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// RoutingProof is the in-memory unified proof object: a list of
// polynomial commitments, their evaluations at the protocol's fixed
// challenge point, and the public inputs the circuit commits to.
type RoutingProof struct {
	Commitments []bn254.G1Affine
	Evaluations []fr.Element
	PublicInputs []fr.Element
}

// ByteRoutingProof is RoutingProof's wire-serializable mirror: every
// curve point and field element flattened to its canonical byte
// encoding. The two are round-trip convertible via ToBytes/FromBytes.
type ByteRoutingProof struct {
	Commitments  [][]byte
	Evaluations  [][]byte
	PublicInputs [][]byte
}

// Empty reports whether a ByteRoutingProof carries no proof at all, the
// representation used for "no proof" (packets sent without an
// accompanying routing proof, or a failed proof generation).
func (p ByteRoutingProof) Empty() bool {
	return len(p.Commitments) == 0 && len(p.Evaluations) == 0 && len(p.PublicInputs) == 0
}

// ToBytes serializes a RoutingProof to its wire form.
func (p RoutingProof) ToBytes() ByteRoutingProof {
	out := ByteRoutingProof{
		Commitments:  make([][]byte, len(p.Commitments)),
		Evaluations:  make([][]byte, len(p.Evaluations)),
		PublicInputs: make([][]byte, len(p.PublicInputs)),
	}
	for i, c := range p.Commitments {
		b := c.Bytes()
		out.Commitments[i] = b[:]
	}
	for i, e := range p.Evaluations {
		b := e.Bytes()
		out.Evaluations[i] = b[:]
	}
	for i, pi := range p.PublicInputs {
		b := pi.Bytes()
		out.PublicInputs[i] = b[:]
	}
	return out
}

// FromBytes deserializes a ByteRoutingProof back into curve points and
// field elements.
func (p ByteRoutingProof) FromBytes() (RoutingProof, error) {
	out := RoutingProof{
		Commitments:  make([]bn254.G1Affine, len(p.Commitments)),
		Evaluations:  make([]fr.Element, len(p.Evaluations)),
		PublicInputs: make([]fr.Element, len(p.PublicInputs)),
	}
	for i, cb := range p.Commitments {
		if _, err := out.Commitments[i].SetBytes(cb); err != nil {
			return RoutingProof{}, err
		}
	}
	for i, eb := range p.Evaluations {
		out.Evaluations[i].SetBytes(eb)
	}
	for i, pib := range p.PublicInputs {
		out.PublicInputs[i].SetBytes(pib)
	}
	return out, nil
}
