// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ledger implements ZHTP's account-balance ledger: a pending
// transaction pool, block sealing with synthesized validator rewards,
// and balances recomputed from scratch across the chain rather than
// tracked incrementally.
package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sovereign-mesh/zhtp/consensus"
	"github.com/sovereign-mesh/zhtp/types"
	"github.com/sovereign-mesh/zhtp/zhtperr"
)

// BaseReward is the per-round reward unit consensus.BlockReward scales
// by validator score and metrics multipliers.
const BaseReward = 10.0

// Ledger is the append-only block chain plus its pending transaction
// pool. One RWMutex guards both; balances are a derived view, never
// stored authoritatively.
type Ledger struct {
	mu      sync.RWMutex
	blocks  []types.Block
	pending []types.Transaction
	nonces  map[types.NodeID]uint64

	now func() int64
}

// New returns a ledger seeded with the genesis block: index 0, empty
// transactions, previous_hash "0", validator "genesis".
func New(now func() int64) *Ledger {
	l := &Ledger{
		nonces: make(map[types.NodeID]uint64),
		now:    now,
	}
	genesis := types.Block{
		Index:        0,
		Timestamp:    now(),
		Transactions: nil,
		PreviousHash: "0",
		Validator:    "genesis",
	}
	genesis.Hash = hashBlock(genesis)
	l.blocks = append(l.blocks, genesis)
	return l
}

// AddTransaction assigns the sender's next nonce and appends tx to the
// pending pool. Rejected if from or to is empty, or if the sender
// (other than the reserved mint origin) cannot cover the amount.
func (l *Ledger) AddTransaction(tx types.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if tx.From == "" || tx.To == "" {
		return zhtperr.ErrLedgerReject
	}

	if tx.From != types.NetworkMintOrigin {
		if l.balanceLocked(tx.From) < tx.Amount {
			return zhtperr.ErrLedgerReject
		}
	}

	tx.Nonce = l.nonces[tx.From]
	l.nonces[tx.From]++

	l.pending = append(l.pending, tx)
	return nil
}

// CreateBlock synthesizes a network -> validatorID reward transaction
// (per the block reward formula, using metrics if supplied),
// prepends it to the pending pool, seals the resulting block, appends
// it to the chain, and recomputes every account's balance from
// scratch. The pending pool is emptied regardless of whether metrics
// were supplied.
func (l *Ledger) CreateBlock(validatorID types.NodeID, validatorScore float64, metrics *types.NetworkMetrics) types.Block {
	l.mu.Lock()
	defer l.mu.Unlock()

	reward := BaseReward * validatorScore
	if metrics != nil {
		reward = consensus.BlockReward(BaseReward, validatorScore, *metrics)
	}

	rewardTx := types.Transaction{
		From:      types.NetworkMintOrigin,
		To:        validatorID,
		Amount:    reward,
		Timestamp: l.now(),
		Nonce:     l.nonces[types.NetworkMintOrigin],
	}
	rewardTx.Signature = Sign(rewardTx)
	l.nonces[types.NetworkMintOrigin]++

	txs := append([]types.Transaction{rewardTx}, l.pending...)

	tip := l.blocks[len(l.blocks)-1]
	block := types.Block{
		Index:          tip.Index + 1,
		Timestamp:      l.now(),
		Transactions:   txs,
		PreviousHash:   tip.Hash,
		Validator:      validatorID,
		ValidatorScore: validatorScore,
		Metrics:        metrics,
	}
	block.Hash = hashBlock(block)

	l.blocks = append(l.blocks, block)
	l.pending = nil
	return block
}

// Balance recomputes an account's balance from scratch by replaying
// every transaction in every sealed block, then subtracting what the
// account sends in pending transactions. Balances are never cached
// across calls.
func (l *Ledger) Balance(id types.NodeID) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balanceLocked(id)
}

func (l *Ledger) balanceLocked(id types.NodeID) float64 {
	var balance float64
	for _, block := range l.blocks {
		for _, tx := range block.Transactions {
			if tx.From == id {
				balance -= tx.Amount
			}
			if tx.To == id {
				balance += tx.Amount
			}
		}
	}
	for _, tx := range l.pending {
		if tx.From == id {
			balance -= tx.Amount
		}
	}
	return balance
}

// Tip returns the most recently sealed block.
func (l *Ledger) Tip() types.Block {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.blocks[len(l.blocks)-1]
}

// Height returns the number of blocks in the chain, including genesis.
func (l *Ledger) Height() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.blocks)
}

// Pending returns a copy of the current pending transaction pool.
func (l *Ledger) Pending() []types.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]types.Transaction, len(l.pending))
	copy(out, l.pending)
	return out
}

func hashBlock(b types.Block) string {
	txJSON, _ := json.Marshal(b.Transactions)
	payload := fmt.Sprintf("%d%d%s%s%s%f", b.Index, b.Timestamp, txJSON, b.PreviousHash, b.Validator, b.ValidatorScore)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
