// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package add

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/platform-engineering-labs/panier/internal/cli/cmd"
	"github.com/platform-engineering-labs/panier/internal/cli/config"
	"github.com/platform-engineering-labs/panier/internal/cli/display"
	"github.com/platform-engineering-labs/panier/internal/logging"
)

func compteCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "compte <login>",
		Short: "Add a compte",
		Args:  cobra.ExactArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupClientLogging(config.Config.ClientLogFile())
		},
		RunE: func(command *cobra.Command, args []string) error {
			login := strings.TrimSpace(args[0])
			if login == "" {
				return cmd.FlagErrorf("login must not be empty")
			}

			configFile, _ := command.Flags().GetString("config")
			app, err := cmd.AppFromContext(command.Context(), configFile)
			if err != nil {
				return err
			}

			compte, err := app.CreateCompte(command.Context(), login)
			if err != nil {
				return err
			}

			fmt.Fprint(command.OutOrStdout(), display.Green(fmt.Sprintf("Compte %d added\n", *compte.ID)))
			return nil
		},
		SilenceErrors: true,
	}

	command.Flags().String("config", "", "Path to config file")
	return command
}

func systemePaiementCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "systeme-paiement <name>",
		Short: "Add a systeme paiement",
		Args:  cobra.ExactArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupClientLogging(config.Config.ClientLogFile())
		},
		RunE: func(command *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return cmd.FlagErrorf("name must not be empty")
			}

			configFile, _ := command.Flags().GetString("config")
			app, err := cmd.AppFromContext(command.Context(), configFile)
			if err != nil {
				return err
			}

			systemePaiement, err := app.CreateSystemePaiement(command.Context(), name)
			if err != nil {
				return err
			}

			fmt.Fprint(command.OutOrStdout(), display.Green(fmt.Sprintf("Systeme paiement %d added\n", *systemePaiement.ID)))
			return nil
		},
		SilenceErrors: true,
	}

	command.Flags().String("config", "", "Path to config file")
	return command
}

func AddCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "add",
		Short: "Add the entities paniers reference",
		Annotations: map[string]string{
			"type":     "Execution",
			"examples": "{{.Name}} {{.Command}} compte alice  |  {{.Name}} {{.Command}} systeme-paiement card",
		},
		SilenceErrors: true,
	}

	command.SetUsageTemplate(cmd.SimpleCmdUsageTemplate)
	command.AddCommand(compteCmd(), systemePaiementCmd())

	return command
}
