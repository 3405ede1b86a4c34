// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package logging

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/platform-engineering-labs/panier/internal/util"
	pkgmodel "github.com/platform-engineering-labs/panier/pkg/model"
)

const NoLoggingLevel = slog.Level(100) // A level higher than any standard level to disable logging

// SetupInitialLogging logs to stdout until the command knows where its log file lives.
func SetupInitialLogging() {
	slog.SetDefault(slog.New(newTintHandler(os.Stdout, slog.LevelDebug)))
	redirectStandardLog()
}

// SetupClientLogging sends everything the CLI logs to a rotating file so the terminal stays
// reserved for command output.
func SetupClientLogging(logFilePath string) {
	if err := util.EnsureFileFolderHierarchy(logFilePath); err != nil {
		slog.Error("Failed to create log folder hierarchy", "error", err)
		return
	}

	slog.SetDefault(slog.New(NewMultiLevelHandler(newTintHandler(rotatingFile(logFilePath), slog.LevelDebug))))
	redirectStandardLog()
}

func SetupBackendLogging(loggingConfig *pkgmodel.LoggingConfig) {
	if err := util.EnsureFileFolderHierarchy(loggingConfig.FilePath); err != nil {
		slog.Error("Failed to create log folder hierarchy", "error", err)
		return
	}

	handlers := []slog.Handler{newTintHandler(rotatingFile(loggingConfig.FilePath), loggingConfig.FileLogLevel)}
	if loggingConfig.ConsoleLogLevel != NoLoggingLevel {
		handlers = append(handlers, newTintHandler(os.Stdout, loggingConfig.ConsoleLogLevel))
	}

	slog.SetDefault(slog.New(NewMultiLevelHandler(handlers...)))
	redirectStandardLog()
}

func rotatingFile(path string) io.Writer {
	return &lumberjack.Logger{
		Filename: path,
		Compress: true,
	}
}

func newTintHandler(w io.Writer, level slog.Level) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
	})
}

// overwrite standard log so it's always redirected to slog, in case some deep dep is using it
func redirectStandardLog() {
	lw := &slogWriter{}
	log.Default().SetOutput(lw)
	log.SetOutput(lw)
}

// MultiLevelHandler fans records out to handlers that each apply their own level.
type MultiLevelHandler struct {
	handlers []slog.Handler
}

func NewMultiLevelHandler(handlers ...slog.Handler) *MultiLevelHandler {
	return &MultiLevelHandler{handlers: handlers}
}

func (h *MultiLevelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *MultiLevelHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			errs = append(errs, handler.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (h *MultiLevelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(handler slog.Handler) slog.Handler { return handler.WithAttrs(attrs) })
}

func (h *MultiLevelHandler) WithGroup(name string) slog.Handler {
	return h.derive(func(handler slog.Handler) slog.Handler { return handler.WithGroup(name) })
}

func (h *MultiLevelHandler) derive(fn func(slog.Handler) slog.Handler) *MultiLevelHandler {
	derived := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		derived[i] = fn(handler)
	}
	return &MultiLevelHandler{handlers: derived}
}
