// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package show

import (
	"github.com/spf13/cobra"

	"github.com/platform-engineering-labs/panier/internal/cli/cmd"
	"github.com/platform-engineering-labs/panier/internal/cli/config"
	"github.com/platform-engineering-labs/panier/internal/cli/printer"
	"github.com/platform-engineering-labs/panier/internal/logging"
	pkgmodel "github.com/platform-engineering-labs/panier/pkg/model"
)

func ShowCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a panier",
		Args:  cobra.ExactArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupClientLogging(config.Config.ClientLogFile())
		},
		RunE: func(command *cobra.Command, args []string) error {
			id, err := cmd.ParseID(args[0])
			if err != nil {
				return err
			}
			consumer, schema, err := cmd.OutputFlags(command)
			if err != nil {
				return err
			}

			configFile, _ := command.Flags().GetString("config")
			app, err := cmd.AppFromContext(command.Context(), configFile)
			if err != nil {
				return err
			}

			panier, err := app.FindPanier(command.Context(), id)
			if err != nil {
				return err
			}

			if consumer == printer.ConsumerMachine {
				return printer.NewMachineReadablePrinter[pkgmodel.Panier](command.OutOrStdout(), schema).Print(panier)
			}
			return printer.NewHumanReadablePrinter(command.OutOrStdout()).Print(panier)
		},
		Annotations: map[string]string{
			"type":     "Query",
			"args":     "<id>",
			"examples": "{{.Name}} {{.Command}} 1001",
		},
		SilenceErrors: true,
	}

	command.SetUsageTemplate(cmd.SimpleCmdUsageTemplate)
	command.Flags().String("config", "", "Path to config file")
	cmd.AddOutputFlags(command)

	return command
}
