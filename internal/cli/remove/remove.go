// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package remove

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/platform-engineering-labs/panier/internal/cli/cmd"
	"github.com/platform-engineering-labs/panier/internal/cli/config"
	"github.com/platform-engineering-labs/panier/internal/cli/display"
	"github.com/platform-engineering-labs/panier/internal/cli/prompter"
	"github.com/platform-engineering-labs/panier/internal/logging"
)

func DeleteCmd() *cobra.Command {
	command := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a panier",
		Args:    cobra.ExactArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupClientLogging(config.Config.ClientLogFile())
		},
		RunE: func(command *cobra.Command, args []string) error {
			id, err := cmd.ParseID(args[0])
			if err != nil {
				return err
			}

			yes, _ := command.Flags().GetBool("yes")
			if !yes {
				p := prompter.NewPrompter(command.InOrStdin(), command.OutOrStdout())
				if !p.Confirm(fmt.Sprintf("Delete panier %d?", id), false) {
					fmt.Fprintln(command.OutOrStdout(), display.Grey("Aborted"))
					return nil
				}
			}

			configFile, _ := command.Flags().GetString("config")
			app, err := cmd.AppFromContext(command.Context(), configFile)
			if err != nil {
				return err
			}

			if err := app.DeletePanier(command.Context(), id); err != nil {
				return err
			}

			fmt.Fprint(command.OutOrStdout(), display.Green(fmt.Sprintf("Panier %d deleted\n", id)))
			return nil
		},
		Annotations: map[string]string{
			"type":     "Execution",
			"args":     "<id>",
			"examples": "{{.Name}} {{.Command}} 1001 --yes",
		},
		SilenceErrors: true,
	}

	command.SetUsageTemplate(cmd.SimpleCmdUsageTemplate)
	command.Flags().BoolP("yes", "y", false, "Delete without asking for confirmation")
	command.Flags().String("config", "", "Path to config file")

	return command
}
