// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "zhtpnode",
	Short: "ZHTP node: overlay routing, DHT content storage, and a proof-of-stake ledger",
	Long: `zhtpnode runs a single ZHTP network participant: a UDP overlay
endpoint with post-quantum handshakes, a local content store backed by
the distributed DHT registry, a validator taking part in consensus
leader selection, and the shared ledger those validators seal blocks
onto.`,
}

func main() {
	rootCmd.AddCommand(
		runCmd(),
		keygenCmd(),
		ledgerInspectCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
