// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/sovereign-mesh/zhtp/types"
)

// Sign produces a transaction's signature string:
// "<sender_id>:<hex(sha256(from||to||amount||timestamp||nonce))>".
//
// NOTE: this is not a cryptographic signature. It carries the
// sender's claimed identity in plain text ahead of a hash of the
// transaction body; anyone can produce a valid string for any sender
// id. This is a known gap in the reference design (see DESIGN.md), not
// an oversight here — VerifySignature below preserves the exact
// observable behavior rather than silently upgrading it to a bound
// signature.
func Sign(tx types.Transaction) string {
	body := fmt.Sprintf("%s%s%f%d%d", tx.From, tx.To, tx.Amount, tx.Timestamp, tx.Nonce)
	sum := sha256.Sum256([]byte(body))
	return string(tx.From) + ":" + hex.EncodeToString(sum[:])
}

// VerifySignature reports whether tx.Signature's sender-id prefix
// matches expectedPK. It does not check the hash suffix against the
// transaction body: the reference scheme never binds the hash to a
// specific key, so there is nothing cryptographic to check beyond the
// prefix comparison.
func VerifySignature(tx types.Transaction, expectedPK types.NodeID) bool {
	prefix, _, found := strings.Cut(tx.Signature, ":")
	if !found {
		return false
	}
	return types.NodeID(prefix) == expectedPK
}
