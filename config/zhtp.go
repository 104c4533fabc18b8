// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config loads and validates a ZHTP node's runtime
// configuration: its bind address, ledger reward parameters, DHT
// storage limits, and key-rotation interval.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sovereign-mesh/zhtp/types"
)

// Defaults matching the reference design's constants.
const (
	DefaultBaseReward        = 10.0
	DefaultKeyRotation       = 24 * time.Hour
	DefaultHandshakeTimeout  = 5 * time.Second
	DefaultKeyRotationPoll   = 5 * time.Minute
	DefaultReplicationFactor = 3
	DefaultMinProofs         = 2
	DefaultMaxNodeStorage    = 1 << 30
)

// Config is the full set of tunables a zhtpnode process reads from
// disk at startup.
type Config struct {
	// BindAddress is host:port the node's UDP socket listens on.
	BindAddress string `yaml:"bind_address"`

	// BaseReward is the reward unit of the per-round validator and
	// per-block reward formulas. It is validated but not read by the
	// run command; the ledger seals blocks with ledger.BaseReward.
	BaseReward float64 `yaml:"base_reward"`

	// Storage holds the DHT's replication and capacity policy.
	Storage types.StorageConfig `yaml:"storage"`

	// KeyRotationInterval is how long a keypair remains valid before
	// it is due for rotation.
	KeyRotationInterval time.Duration `yaml:"key_rotation_interval"`

	// Bootstrap lists peer addresses to handshake with on startup.
	Bootstrap []string `yaml:"bootstrap"`
}

// Default returns a Config populated with the reference defaults.
func Default() Config {
	return Config{
		BindAddress:         "0.0.0.0:7469",
		BaseReward:          DefaultBaseReward,
		Storage:             types.DefaultStorageConfig(),
		KeyRotationInterval: DefaultKeyRotation,
	}
}

// Load reads and validates a Config from a YAML file at path.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects a Config with an unparseable bind address, a
// non-positive base reward, a non-positive storage replication factor,
// or a non-positive key-rotation interval.
func (c Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.BindAddress); err != nil {
		return fmt.Errorf("config: invalid bind_address %q: %w", c.BindAddress, err)
	}
	if c.BaseReward <= 0 {
		return fmt.Errorf("config: base_reward must be positive, got %f", c.BaseReward)
	}
	if c.Storage.ReplicationFactor <= 0 {
		return fmt.Errorf("config: storage.replication_factor must be positive, got %d", c.Storage.ReplicationFactor)
	}
	if c.KeyRotationInterval <= 0 {
		return fmt.Errorf("config: key_rotation_interval must be positive, got %s", c.KeyRotationInterval)
	}
	return nil
}
