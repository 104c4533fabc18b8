// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package zhtperr defines the sentinel error values surfaced by the ZHTP
// core. Each corresponds to one of the error kinds named in the core
// design: protocol framing, key rotation, storage capacity, lookup
// misses, timeouts, proof verification, and ledger rejection.
package zhtperr

import "errors"

var (
	// ErrProtocol covers malformed packets, unknown destination
	// commitments, and wrong-peer handshake responses. Callers drop the
	// offending packet; no peer punishment is applied.
	ErrProtocol = errors.New("zhtp: protocol error")

	// ErrKeyRotationRequired is returned by sign/encapsulate once a
	// keypair's rotation_due has passed.
	ErrKeyRotationRequired = errors.New("zhtp: key rotation required")

	// ErrCapacityExhausted is returned when a DHT placement targets a
	// node without enough remaining capacity for the chunk.
	ErrCapacityExhausted = errors.New("zhtp: capacity exhausted")

	// ErrNotFound covers missing content, validators, and peers.
	ErrNotFound = errors.New("zhtp: not found")

	// ErrTimedOut covers handshake and connect budget overruns.
	ErrTimedOut = errors.New("zhtp: timed out")

	// ErrProofInvalid is returned when a unified proof fails
	// verification. The failing check is carried in a ProofError.
	ErrProofInvalid = errors.New("zhtp: proof invalid")

	// ErrLedgerReject covers empty transaction endpoints and
	// insufficient balance.
	ErrLedgerReject = errors.New("zhtp: ledger rejected transaction")
)

// ProofError wraps ErrProofInvalid with the name of the check that
// failed, so callers can report diagnostics without string-matching.
type ProofError struct {
	Check string
}

func (e *ProofError) Error() string {
	return "zhtp: proof invalid: " + e.Check
}

func (e *ProofError) Unwrap() error {
	return ErrProofInvalid
}

// NewProofError builds a ProofError for the named failing check.
func NewProofError(check string) *ProofError {
	return &ProofError{Check: check}
}
