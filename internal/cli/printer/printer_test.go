// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

//go:build unit

package printer

import (
	"bytes"
	"testing"

	gkcolor "github.com/gookit/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	apimodel "github.com/platform-engineering-labs/panier/internal/api/model"
	pkgmodel "github.com/platform-engineering-labs/panier/pkg/model"
)

func testPanier() pkgmodel.Panier {
	return pkgmodel.Panier{
		ID:     pkgmodel.ID(1001),
		MadeBy: &pkgmodel.Compte{ID: pkgmodel.ID(1), Login: "alice"},
	}
}

func TestMachineReadablePrinter(t *testing.T) {
	panier := testPanier()

	t.Run("prints json objects", func(t *testing.T) {
		buf := bytes.NewBuffer(nil)
		printer := NewMachineReadablePrinter[pkgmodel.Panier](buf, "json")
		require.NoError(t, printer.Print(&panier))

		assert.JSONEq(t, `{"id":1001,"madeBy":{"id":1,"login":"alice"}}`, buf.String())
		assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\n")))
	})

	t.Run("prints yaml with api field names", func(t *testing.T) {
		buf := bytes.NewBuffer(nil)
		printer := NewMachineReadablePrinter[pkgmodel.Panier](buf, "yaml")
		require.NoError(t, printer.Print(&panier))

		var result map[string]any
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &result))
		assert.Equal(t, 1001, result["id"])
		assert.Equal(t, "alice", result["madeBy"].(map[string]any)["login"])
		assert.NotContains(t, result, "paidBy")
	})

	t.Run("rejects unknown formats", func(t *testing.T) {
		printer := NewMachineReadablePrinter[pkgmodel.Panier](bytes.NewBuffer(nil), "xml")
		assert.Error(t, printer.Print(&panier))
	})
}

func TestHumanReadablePrinter(t *testing.T) {
	gkcolor.Disable()
	panier := testPanier()

	buf := bytes.NewBuffer(nil)
	printer := NewHumanReadablePrinter(buf)

	require.NoError(t, printer.Print(&apimodel.Page[*pkgmodel.Panier]{Items: []*pkgmodel.Panier{&panier}, TotalCount: 1}))
	assert.Contains(t, buf.String(), "alice (1)")

	assert.Error(t, printer.Print(&pkgmodel.Compte{}))
}
