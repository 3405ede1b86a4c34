// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package list

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	apimodel "github.com/platform-engineering-labs/panier/internal/api/model"
	"github.com/platform-engineering-labs/panier/internal/cli/app"
	"github.com/platform-engineering-labs/panier/internal/cli/cmd"
	"github.com/platform-engineering-labs/panier/internal/cli/config"
	"github.com/platform-engineering-labs/panier/internal/cli/printer"
	"github.com/platform-engineering-labs/panier/internal/logging"
	pkgmodel "github.com/platform-engineering-labs/panier/pkg/model"
)

type ListOptions struct {
	Query          pkgmodel.QueryOptions
	OutputConsumer printer.Consumer
	OutputSchema   string
}

// listCmd builds a list subcommand around the app method returning one page of T.
func listCmd[T any](use, short string, fetch func(a *app.App) func(context.Context, pkgmodel.QueryOptions) (*apimodel.Page[T], error)) *cobra.Command {
	command := &cobra.Command{
		Use:   use,
		Short: short,
		PreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupClientLogging(config.Config.ClientLogFile())
		},
		RunE: func(command *cobra.Command, args []string) error {
			opts, err := listOptions(command)
			if err != nil {
				return err
			}

			configFile, _ := command.Flags().GetString("config")
			a, err := cmd.AppFromContext(command.Context(), configFile)
			if err != nil {
				return err
			}

			page, err := fetch(a)(command.Context(), opts.Query)
			if err != nil {
				return err
			}

			return printPage(command.OutOrStdout(), opts, page)
		},
		SilenceErrors: true,
	}

	command.Flags().Int("page", 0, "Page to display, starting at 0")
	command.Flags().Int("size", pkgmodel.DefaultPageSize, "Number of entries per page (0 = all)")
	command.Flags().String("config", "", "Path to config file")
	cmd.AddOutputFlags(command)

	return command
}

func listOptions(command *cobra.Command) (*ListOptions, error) {
	consumer, schema, err := cmd.OutputFlags(command)
	if err != nil {
		return nil, err
	}

	page, _ := command.Flags().GetInt("page")
	size, _ := command.Flags().GetInt("size")
	if page < 0 || size < 0 {
		return nil, cmd.FlagErrorf("page and size must be 0 or a positive number")
	}

	return &ListOptions{
		Query:          pkgmodel.QueryOptions{Page: page, Size: size},
		OutputConsumer: consumer,
		OutputSchema:   schema,
	}, nil
}

func printPage[T any](w io.Writer, opts *ListOptions, page *apimodel.Page[T]) error {
	if opts.OutputConsumer == printer.ConsumerMachine {
		return printer.NewMachineReadablePrinter[apimodel.Page[T]](w, opts.OutputSchema).Print(page)
	}
	return printer.NewHumanReadablePrinter(w).Print(page)
}

func ListCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "list",
		Short: "List paniers and the entities they reference",
		Annotations: map[string]string{
			"type":     "Query",
			"examples": "{{.Name}} {{.Command}} paniers --size 50  |  {{.Name}} {{.Command}} comptes --output-consumer machine",
		},
		SilenceErrors: true,
	}

	command.SetUsageTemplate(cmd.SimpleCmdUsageTemplate)

	command.AddCommand(
		listCmd("paniers", "List paniers", func(a *app.App) func(context.Context, pkgmodel.QueryOptions) (*apimodel.Page[*pkgmodel.Panier], error) {
			return a.ListPaniers
		}),
		listCmd("comptes", "List comptes", func(a *app.App) func(context.Context, pkgmodel.QueryOptions) (*apimodel.Page[*pkgmodel.Compte], error) {
			return a.ListComptes
		}),
		listCmd("systeme-paiements", "List systeme paiements", func(a *app.App) func(context.Context, pkgmodel.QueryOptions) (*apimodel.Page[*pkgmodel.SystemePaiement], error) {
			return a.ListSystemePaiements
		}),
	)

	return command
}
