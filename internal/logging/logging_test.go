// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

//go:build unit

package logging

import (
	"context"
	"log"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	glog "github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreStandardLog(t *testing.T) {
	output, flags := log.Writer(), log.Flags()
	t.Cleanup(func() {
		log.SetOutput(output)
		log.SetFlags(flags)
	})
}

func TestLogging_DirectSlogInfo(t *testing.T) {
	capture := NewTestLogCapture()
	defer capture.Install(slog.LevelInfo)()

	slog.Info("test info")

	assert.True(t, capture.ContainsAll("test info"))
}

func TestLogging_LogProxyLevels(t *testing.T) {
	restoreStandardLog(t)
	capture := NewTestLogCapture()
	defer capture.Install(slog.LevelDebug)()
	log.SetOutput(&slogWriter{})
	log.SetFlags(0)
	log.Print("ERROR: broken pipe")
	log.Print("WARN slow query")
	log.Print("ERRORS are just text")

	assert.True(t, capture.ContainsAll("level=ERROR msg=\"broken pipe\"", "level=WARN msg=\"slow query\"", "level=DEBUG msg=\"ERRORS are just text\""))
}

func TestLogging_EchoInfo(t *testing.T) {
	capture := NewTestLogCapture()
	defer capture.Install(slog.LevelInfo)()
	e := echo.New()
	e.HideBanner = true
	e.Logger = NewEchoLogger()

	e.Logger.Info("test info")

	assert.True(t, capture.ContainsAll("test info"))
}

func TestLogging_EchoLevelFilter(t *testing.T) {
	capture := NewTestLogCapture()
	defer capture.Install(slog.LevelDebug)()
	logger := NewEchoLogger()
	logger.SetLevel(glog.WARN)

	logger.Info("dropped")
	logger.Warnf("kept %d", 1)

	assert.Equal(t, glog.WARN, logger.Level())
	assert.False(t, capture.ContainsAll("dropped"))
	assert.True(t, capture.ContainsAll("kept 1"))
}

func TestMultiLevelHandler_AppliesLevelPerHandler(t *testing.T) {
	debug := NewTestLogCapture()
	warn := NewTestLogCapture()
	handler := NewMultiLevelHandler(
		slog.NewTextHandler(debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(warn, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	logger := slog.New(handler).With("component", "test")

	logger.Debug("details")
	logger.Warn("careful")

	assert.True(t, handler.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, debug.ContainsAll("details", "careful", "component=test"))
	assert.True(t, warn.ContainsAll("careful", "component=test"))
	assert.False(t, warn.ContainsAll("details"))
}

func TestSetupClientLogging_WritesToFile(t *testing.T) {
	restoreStandardLog(t)
	previous := slog.Default()
	defer slog.SetDefault(previous)

	path := filepath.Join(t.TempDir(), "logs", "client.log")
	SetupClientLogging(path)
	slog.Info("to file")

	assert.FileExists(t, path)
	require.IsType(t, &MultiLevelHandler{}, slog.Default().Handler())
}
