// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

//go:build unit

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platform-engineering-labs/panier/internal/cli/app"
	"github.com/platform-engineering-labs/panier/internal/cli/config"
	"github.com/platform-engineering-labs/panier/internal/cli/printer"
)

func TestAppFromContext(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := AppFromContext(context.Background(), "")
	assert.ErrorIs(t, err, ErrAppNotFound)

	a, err := AppFromContext(WithApp(context.Background(), app.NewApp()), "")
	require.NoError(t, err)
	assert.NotNil(t, a.Config)

	_, err = AppFromContext(WithApp(context.Background(), app.NewApp()), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestInitCommandWithContext(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, config.Config.EnsureDataDirectory())

	command, err := InitCommandWithContext(&cobra.Command{Use: "panier"})
	require.NoError(t, err)

	_, err = AppFromContext(command.Context(), "")
	assert.NoError(t, err)

	_, err = os.Stat(filepath.Join(config.Config.DataDirectory(), "cli_client_id"))
	assert.NoError(t, err)
}

func TestFlagError(t *testing.T) {
	err := FlagErrorf("invalid id %q", "abc")
	var flagErr *FlagError
	require.True(t, errors.As(fmt.Errorf("edit: %w", err), &flagErr))
	assert.Equal(t, `invalid id "abc"`, flagErr.Error())

	assert.Nil(t, FlagErrorWrap(nil))
	inner := errors.New("inner")
	assert.ErrorIs(t, FlagErrorWrap(inner), inner)
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "abc", "0", "-3"} {
		_, err := ParseID(raw)
		var flagErr *FlagError
		assert.ErrorAs(t, err, &flagErr, "raw %q", raw)
	}
}

func TestOutputFlags(t *testing.T) {
	command := &cobra.Command{Use: "list"}
	AddOutputFlags(command)

	consumer, schema, err := OutputFlags(command)
	require.NoError(t, err)
	assert.Equal(t, printer.ConsumerHuman, consumer)
	assert.Equal(t, "json", schema)

	require.NoError(t, command.Flags().Set("output-consumer", "machine"))
	require.NoError(t, command.Flags().Set("output-schema", "xml"))
	_, _, err = OutputFlags(command)
	assert.Error(t, err)

	require.NoError(t, command.Flags().Set("output-consumer", "robot"))
	_, _, err = OutputFlags(command)
	assert.Error(t, err)
}
