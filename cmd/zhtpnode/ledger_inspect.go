// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sovereign-mesh/zhtp/ledger"
	"github.com/sovereign-mesh/zhtp/types"
)

func ledgerInspectCmd() *cobra.Command {
	var validator string
	var score float64

	cmd := &cobra.Command{
		Use:   "ledger-inspect",
		Short: "Seal one demonstration block and print the resulting ledger state",
		Long: `ledger-inspect builds a fresh ledger, seals a single block crediting
validator with the flat-rate reward (no network metrics supplied), and
prints the resulting tip and validator balance. It exists to let an
operator sanity-check the reward formula and block hashing without
standing up a full node.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			l := ledger.New(func() int64 { return time.Now().Unix() })

			block := l.CreateBlock(types.NodeID(validator), score, nil)

			fmt.Printf("height:        %d\n", l.Height())
			fmt.Printf("tip_hash:      %s\n", block.Hash)
			fmt.Printf("tip_validator: %s\n", block.Validator)
			fmt.Printf("balance(%s): %f\n", validator, l.Balance(types.NodeID(validator)))
			return nil
		},
	}

	cmd.Flags().StringVar(&validator, "validator", "genesis-operator", "validator id to credit")
	cmd.Flags().Float64Var(&score, "score", 1.0, "validator score fed to the flat-rate reward formula")
	return cmd
}
