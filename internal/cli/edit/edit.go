// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package edit

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/platform-engineering-labs/panier/internal/cli/app"
	"github.com/platform-engineering-labs/panier/internal/cli/cmd"
	"github.com/platform-engineering-labs/panier/internal/cli/config"
	"github.com/platform-engineering-labs/panier/internal/cli/display"
	"github.com/platform-engineering-labs/panier/internal/cli/printer"
	"github.com/platform-engineering-labs/panier/internal/logging"
)

const clearSelection = "none"

type EditOptions struct {
	ID      *int64
	Changes app.PanierChanges
}

func selection(command *cobra.Command, flag string) (app.Selection, error) {
	if !command.Flags().Changed(flag) {
		return app.Selection{}, nil
	}

	raw, _ := command.Flags().GetString(flag)
	if strings.EqualFold(strings.TrimSpace(raw), clearSelection) {
		return app.Selection{Set: true}, nil
	}

	id, err := cmd.ParseID(raw)
	if err != nil {
		return app.Selection{}, cmd.FlagErrorf("--%s: %w", flag, err)
	}
	return app.Selection{Set: true, ID: &id}, nil
}

func editOptions(command *cobra.Command, args []string) (*EditOptions, error) {
	opts := &EditOptions{}

	if len(args) == 1 {
		id, err := cmd.ParseID(args[0])
		if err != nil {
			return nil, err
		}
		opts.ID = &id
	}

	var err error
	if opts.Changes.MadeBy, err = selection(command, "made-by"); err != nil {
		return nil, err
	}
	if opts.Changes.PaidBy, err = selection(command, "paid-by"); err != nil {
		return nil, err
	}

	return opts, nil
}

func EditCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "edit [<id>]",
		Short: "Create a panier, or update the panier with the given id",
		Args:  cobra.MaximumNArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupClientLogging(config.Config.ClientLogFile())
		},
		RunE: func(command *cobra.Command, args []string) error {
			opts, err := editOptions(command, args)
			if err != nil {
				return err
			}

			configFile, _ := command.Flags().GetString("config")
			a, err := cmd.AppFromContext(command.Context(), configFile)
			if err != nil {
				return err
			}

			saved, err := a.EditPanier(command.Context(), opts.ID, opts.Changes)
			if err != nil {
				return err
			}

			verb := "updated"
			if opts.ID == nil {
				verb = "created"
			}
			fmt.Fprint(command.OutOrStdout(), display.Green(fmt.Sprintf("Panier %d %s\n", *saved.ID, verb)))

			return printer.NewHumanReadablePrinter(command.OutOrStdout()).Print(saved)
		},
		Annotations: map[string]string{
			"type":     "Execution",
			"args":     "[<id>]",
			"examples": "{{.Name}} {{.Command}} --made-by 1  |  {{.Name}} {{.Command}} 1001 --paid-by none",
		},
		SilenceErrors: true,
	}

	command.SetUsageTemplate(cmd.SimpleCmdUsageTemplate)
	command.Flags().String("made-by", "", "Id of the compte the panier is made by ('none' clears it)")
	command.Flags().String("paid-by", "", "Id of the systeme paiement the panier is paid by ('none' clears it)")
	command.Flags().String("config", "", "Path to config file")

	return command
}
