// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package types

// NetworkMintOrigin is the reserved "from" address that mints new coins
// (block rewards) rather than spending an existing balance.
const NetworkMintOrigin = NodeID("network")

// Transaction is a ledger entry: a transfer from one node to another,
// optionally carrying opaque application data.
//
// NOTE: Signature is a plain-text "<sender_id>:<hex(sha256(...))>"
// prefix, not a cryptographic binding to the declared keypair (see §6
// of the design). ledger.VerifySignature preserves that observable
// behavior rather than silently upgrading it.
type Transaction struct {
	From      NodeID
	To        NodeID
	Amount    float64
	Timestamp int64
	Signature string
	Nonce     uint64
	Data      []byte
}

// Block is a sealed group of transactions. Once appended to a chain a
// Block is never mutated.
type Block struct {
	Index           uint64
	Timestamp       int64
	Transactions    []Transaction
	PreviousHash    string
	Hash            string
	Validator       NodeID
	ValidatorScore  float64
	Metrics         *NetworkMetrics
}
