// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package logging

import (
	"context"
	"log/slog"
	"strings"
)

var stdLogPrefixes = []struct {
	prefix string
	level  slog.Level
}{
	{"ERROR", slog.LevelError},
	{"WARN", slog.LevelWarn},
	{"INFO", slog.LevelInfo},
}

// slogWriter receives lines from the standard library logger. A leading level word selects the
// slog level, anything else is logged at debug.
type slogWriter struct{}

func (w *slogWriter) Write(p []byte) (n int, err error) {
	line := strings.TrimRight(string(p), "\n")

	for _, candidate := range stdLogPrefixes {
		rest, ok := strings.CutPrefix(line, candidate.prefix)
		if !ok || rest == "" || (rest[0] != ':' && rest[0] != ' ') {
			continue
		}
		slog.Log(context.Background(), candidate.level, strings.TrimLeft(rest, ": "))
		return len(p), nil
	}

	slog.Debug(line)
	return len(p), nil
}
