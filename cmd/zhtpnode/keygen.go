// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sovereign-mesh/zhtp/crypto/pq"
)

func keygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a fresh post-quantum signing and KEM keypair",
		RunE: func(cmd *cobra.Command, args []string) error {
			kp, err := pq.Generate()
			if err != nil {
				return fmt.Errorf("generate keypair: %w", err)
			}

			fmt.Printf("sign_public: %s\n", hex.EncodeToString(kp.SignPublic))
			fmt.Printf("kem_public:  %s\n", hex.EncodeToString(kp.KEMPublic))
			fmt.Printf("created_at:  %d\n", kp.CreatedAt)
			fmt.Printf("rotation_due: %d\n", kp.RotationDue)
			return nil
		},
	}
}
