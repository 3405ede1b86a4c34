// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

//go:build unit

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandHomePath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".pel/panier/panier.db"), ExpandHomePath("~/.pel/panier/panier.db"))
	assert.Equal(t, "/var/lib/panier.db", ExpandHomePath("/var/lib/panier.db"))
	assert.Equal(t, "~other/file", ExpandHomePath("~other/file"))
}

func TestEnsureFileFolderHierarchy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "client.log")

	require.NoError(t, EnsureFileFolderHierarchy(path))

	info, err := os.Stat(filepath.Join(dir, "a", "b"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
