// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package renderer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	apimodel "github.com/platform-engineering-labs/panier/internal/api/model"
	"github.com/platform-engineering-labs/panier/internal/cli/display"
	pkgmodel "github.com/platform-engineering-labs/panier/pkg/model"
)

const none = "-"

func RenderPaniers(page *apimodel.Page[*pkgmodel.Panier]) (string, error) {
	rows := make([][]string, len(page.Items))
	for i, panier := range page.Items {
		rows[i] = []string{display.LightBlue(formatKey(panier.ID)), formatCompte(panier.MadeBy), formatSystemePaiement(panier.PaidBy)}
	}

	return renderTable([]string{display.LightBlue("ID"), "Made By", "Paid By"}, rows, "paniers", page.TotalCount)
}

func RenderComptes(page *apimodel.Page[*pkgmodel.Compte]) (string, error) {
	rows := make([][]string, len(page.Items))
	for i, compte := range page.Items {
		rows[i] = []string{display.LightBlue(formatKey(compte.ID)), compte.Login}
	}

	return renderTable([]string{display.LightBlue("ID"), "Login"}, rows, "comptes", page.TotalCount)
}

func RenderSystemePaiements(page *apimodel.Page[*pkgmodel.SystemePaiement]) (string, error) {
	rows := make([][]string, len(page.Items))
	for i, systemePaiement := range page.Items {
		rows[i] = []string{display.LightBlue(formatKey(systemePaiement.ID)), systemePaiement.Name}
	}

	return renderTable([]string{display.LightBlue("ID"), "Name"}, rows, "systeme paiements", page.TotalCount)
}

// RenderPanier renders a single panier as a two column property table.
func RenderPanier(panier *pkgmodel.Panier) (string, error) {
	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Settings: tw.Settings{Separators: tw.Separators{BetweenRows: tw.On}},
		})))

	err := table.Bulk([][]string{
		{display.Gold("ID"), display.LightBlue(formatKey(panier.ID))},
		{display.Gold("Made By"), formatCompte(panier.MadeBy)},
		{display.Gold("Paid By"), formatSystemePaiement(panier.PaidBy)},
	})
	if err != nil {
		return "", fmt.Errorf("error rendering panier: %v", err)
	}
	if err := table.Render(); err != nil {
		return "", fmt.Errorf("error rendering panier: %v", err)
	}

	return buf.String(), nil
}

func renderTable(header []string, rows [][]string, noun string, total int) (string, error) {
	if len(rows) == 0 {
		return display.Gold(fmt.Sprintf("No %s found.\n", noun)), nil
	}

	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRowAutoWrap(tw.WrapBreak),
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Settings: tw.Settings{Separators: tw.Separators{BetweenRows: tw.On, ShowHeader: tw.On}},
		})))

	headerCells := make([]any, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	table.Header(headerCells...)

	if err := table.Bulk(rows); err != nil {
		return "", fmt.Errorf("error rendering %s: %v", noun, err)
	}
	if err := table.Render(); err != nil {
		return "", fmt.Errorf("error rendering %s: %v", noun, err)
	}

	summary := fmt.Sprintf("\n%s Showing %d of %d total %s", display.Gold("Summary:"), len(rows), total, noun)
	if total > len(rows) {
		summary += " (use --size 0 to see all)"
	}

	return buf.String() + summary + "\n", nil
}

func formatKey(key *int64) string {
	if key == nil {
		return none
	}
	return strconv.FormatInt(*key, 10)
}

func formatCompte(compte *pkgmodel.Compte) string {
	if compte.Key() == nil {
		return display.Grey(none)
	}
	if compte.Login == "" {
		return formatKey(compte.ID)
	}
	return fmt.Sprintf("%s %s", compte.Login, display.Greyf("(%d)", *compte.ID))
}

func formatSystemePaiement(systemePaiement *pkgmodel.SystemePaiement) string {
	if systemePaiement.Key() == nil {
		return display.Grey(none)
	}
	if systemePaiement.Name == "" {
		return formatKey(systemePaiement.ID)
	}
	return fmt.Sprintf("%s %s", systemePaiement.Name, display.Greyf("(%d)", *systemePaiement.ID))
}
