// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/sovereign-mesh/zhtp/config"
	"github.com/sovereign-mesh/zhtp/consensus"
	"github.com/sovereign-mesh/zhtp/ledger"
	zhtpnode "github.com/sovereign-mesh/zhtp/node"
	"github.com/sovereign-mesh/zhtp/telemetry"
	"github.com/sovereign-mesh/zhtp/types"
)

// consensusRoundInterval is how often the running node selects a
// leader from its validator registry and seals a block crediting it.
const consensusRoundInterval = 30 * time.Second

func runCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a ZHTP node: bind its socket, handshake bootstrap peers, and serve until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			return run(cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file; defaults are used if omitted")
	return cmd
}

func run(cfg config.Config) error {
	addr, err := parseNodeAddress(cfg.BindAddress)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	n, err := zhtpnode.New(addr, func() int64 { return time.Now().Unix() })
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	defer n.Close()

	reg := prometheus.NewRegistry()
	if _, err := telemetry.NewNodeMetrics(reg); err != nil {
		return fmt.Errorf("run: register metrics: %w", err)
	}

	consensusMetrics, err := consensus.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("run: register consensus metrics: %w", err)
	}
	validators := consensus.NewRegistry()
	validators.SetMetrics(consensusMetrics)
	validators.Add(types.NodeID(n.Address.String()), 1.0)

	ledg := ledger.New(func() int64 { return time.Now().Unix() })

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go n.RunKeyRotation(ctx)
	go runConsensusRounds(ctx, validators, ledg)

	for _, peer := range cfg.Bootstrap {
		peerAddr, err := parseNodeAddress(peer)
		if err != nil {
			fmt.Fprintf(os.Stderr, "run: skipping bad bootstrap peer %q: %v\n", peer, err)
			continue
		}
		peerID := types.NodeID(peerAddr.String())
		validators.Add(peerID, 1.0)

		start := time.Now()
		if err := n.Handshake(peerAddr); err != nil {
			fmt.Fprintf(os.Stderr, "run: handshake with %s failed: %v\n", peerAddr, err)
			validators.UpdateFailure(peerID)
			continue
		}
		validators.UpdateSuccess(peerID, float64(time.Since(start).Milliseconds()))
	}

	fmt.Printf("zhtpnode listening on %s\n", n.Address)
	return n.Listen(ctx)
}

// runConsensusRounds seals a block crediting the current leader every
// consensusRoundInterval, until ctx is cancelled. A registry with no
// validators yet simply skips the round.
func runConsensusRounds(ctx context.Context, validators *consensus.Registry, ledg *ledger.Ledger) {
	ticker := time.NewTicker(consensusRoundInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			leader, ok := validators.Leader()
			if !ok {
				continue
			}
			block := ledg.CreateBlock(leader.ID, leader.Score(), &leader.Metrics)
			fmt.Printf("consensus: sealed block %d, leader %s, reward %f\n", block.Index, block.Validator, block.Transactions[0].Amount)
		}
	}
}

func parseNodeAddress(hostport string) (types.NodeAddress, error) {
	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil {
		return types.NodeAddress{}, err
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return types.NodeAddress{}, fmt.Errorf("invalid port %q: %w", portStr, err)
	}
	ip := net.ParseIP(host)
	if ip == nil {
		if strings.EqualFold(host, "0.0.0.0") || host == "" {
			ip = net.IPv4zero
		} else {
			return types.NodeAddress{}, fmt.Errorf("invalid host %q", host)
		}
	}
	return types.NodeAddress{IP: ip, Port: uint16(port)}, nil
}
