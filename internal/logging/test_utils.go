// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package logging

import (
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
)

// TestLogCapture is a thread-safe log writer for test assertions
type TestLogCapture struct {
	mu      sync.RWMutex
	entries []string
}

func NewTestLogCapture() *TestLogCapture {
	return &TestLogCapture{}
}

// Install makes the capture the default slog destination and returns a func restoring the
// previous default logger.
func (c *TestLogCapture) Install(level slog.Level) func() {
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(c, &slog.HandlerOptions{Level: level})))
	return func() { slog.SetDefault(previous) }
}

func (c *TestLogCapture) Write(p []byte) (n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, string(p))
	return len(p), nil
}

// ContainsAll returns true if all substrings are found in the log entries
func (c *TestLogCapture) ContainsAll(substrs ...string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, substr := range substrs {
		if !slices.ContainsFunc(c.entries, func(entry string) bool { return strings.Contains(entry, substr) }) {
			return false
		}
	}
	return true
}

// WaitForLog polls for a log entry containing substr within timeout
func (c *TestLogCapture) WaitForLog(substr string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if c.ContainsAll(substr) {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return false
}

func (c *TestLogCapture) Entries() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.entries)
}
