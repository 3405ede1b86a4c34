// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

//go:build unit

package config

import (
	"path/filepath"
	"testing"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_DirectoriesFollowHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, ".config", "panier"), Config.ConfigDirectory())
	assert.Equal(t, filepath.Join(home, ".config", "panier", "panier.conf.yaml"), Config.ConfigFile())
	assert.Equal(t, filepath.Join(home, ".pel", "panier", "log", "client.log"), Config.ClientLogFile())

	require.NoError(t, Config.EnsureConfigDirectory())
	assert.DirExists(t, Config.ConfigDirectory())
}

func TestConfig_ClientIDIsStable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, Config.EnsureDataDirectory())

	require.NoError(t, Config.EnsureClientID())
	first, err := Config.ClientID()
	require.NoError(t, err)

	_, err = ksuid.Parse(first)
	assert.NoError(t, err)

	require.NoError(t, Config.EnsureClientID())
	second, err := Config.ClientID()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.NoError(t, Config.EnsureAgentID())
	agentID, err := Config.AgentID()
	require.NoError(t, err)
	assert.NotEqual(t, first, agentID)
}

func TestConfig_ClientIDMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := Config.ClientID()
	assert.Error(t, err)
}
