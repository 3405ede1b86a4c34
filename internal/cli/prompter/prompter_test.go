// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

//go:build unit

package prompter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBasicPrompter_Confirm(t *testing.T) {
	tests := []struct {
		input        string
		defaultValue bool
		expected     bool
	}{
		{"y\n", false, true},
		{"YES\n", false, true},
		{"n\n", true, false},
		{"\n", true, true},
		{"\n", false, false},
		{"", true, true},
		{"maybe\n", true, false},
	}

	for _, tt := range tests {
		out := &bytes.Buffer{}
		p := NewPrompter(strings.NewReader(tt.input), out)

		assert.Equal(t, tt.expected, p.Confirm("Delete panier 1?", tt.defaultValue), "input %q", tt.input)
		assert.Contains(t, out.String(), "Delete panier 1?")
	}
}
