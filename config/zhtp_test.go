// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadParsesYAMLOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "zhtp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
bind_address: "127.0.0.1:9000"
base_reward: 25
bootstrap:
  - "10.0.0.1:7469"
  - "10.0.0.2:7469"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", cfg.BindAddress)
	require.Equal(t, 25.0, cfg.BaseReward)
	require.Equal(t, []string{"10.0.0.1:7469", "10.0.0.2:7469"}, cfg.Bootstrap)
	// Fields absent from the file keep the reference defaults.
	require.Equal(t, DefaultReplicationFactor, cfg.Storage.ReplicationFactor)
}

func TestValidateRejectsBadBindAddress(t *testing.T) {
	cfg := Default()
	cfg.BindAddress = "not-an-address"
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveBaseReward(t *testing.T) {
	cfg := Default()
	cfg.BaseReward = 0
	require.Error(t, cfg.Validate())
}
