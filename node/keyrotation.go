// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"context"
	"time"

	"github.com/luxfi/log"

	"github.com/sovereign-mesh/zhtp/crypto/pq"
)

// KeyRotationInterval is how often the background rotation task checks
// whether the node's keypair is due for replacement.
const KeyRotationInterval = 5 * time.Minute

// RunKeyRotation wakes every KeyRotationInterval and replaces the
// node's keypair if it has passed its rotation_due. It runs until ctx
// is cancelled.
func (n *Node) RunKeyRotation(ctx context.Context) {
	ticker := time.NewTicker(KeyRotationInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.rotateIfDue()
		}
	}
}

func (n *Node) rotateIfDue() {
	current := n.Keypair()
	if !pq.GetStatus(current).NeedsRotation {
		return
	}
	next, err := pq.Rotate(current)
	if err != nil {
		n.Log.Warn("node: key rotation failed", log.Err(err))
		return
	}
	n.Log.Info("node: keypair rotated")
	n.setKeypair(next)
}
