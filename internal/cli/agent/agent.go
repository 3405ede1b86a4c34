// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package agent

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/platform-engineering-labs/panier/internal/agent"
	"github.com/platform-engineering-labs/panier/internal/cli/cmd"
	"github.com/platform-engineering-labs/panier/internal/cli/config"
	"github.com/platform-engineering-labs/panier/internal/cli/display"
	"github.com/platform-engineering-labs/panier/internal/util"
	pkgmodel "github.com/platform-engineering-labs/panier/pkg/model"
)

// expandPaths resolves ~ in the file locations of the agent configuration.
func expandPaths(cfg *pkgmodel.AgentConfig) {
	if cfg.Datastore.DatastoreType == pkgmodel.SqliteDatastore {
		cfg.Datastore.Sqlite.FilePath = util.ExpandHomePath(cfg.Datastore.Sqlite.FilePath)
	}
	cfg.Logging.FilePath = util.ExpandHomePath(cfg.Logging.FilePath)
}

func agentID() (string, error) {
	if err := config.Config.EnsureAgentID(); err != nil {
		return "", err
	}
	return config.Config.AgentID()
}

func startCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "start",
		Short: "Start the agent and serve the panier API",
		PersistentPreRun: func(*cobra.Command, []string) {
			display.PrintBanner()
		},
		RunE: func(command *cobra.Command, _ []string) error {
			configFile, _ := command.Flags().GetString("config")
			app, err := cmd.AppFromContext(command.Context(), configFile)
			if err != nil {
				return err
			}
			expandPaths(&app.Config.Agent)

			id, err := agentID()
			if err != nil {
				return fmt.Errorf("error retrieving agent ID: %w", err)
			}

			a := agent.New(app.Config, id)
			if err := a.Start(); err != nil {
				return fmt.Errorf("error starting agent: %w", err)
			}
			a.Wait()

			return nil
		},
		SilenceErrors: true,
	}

	command.Flags().String("config", "", "Path to config file")

	return command
}

func stopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running agent",
		RunE: func(*cobra.Command, []string) error {
			if err := agent.New(nil, "").Stop(); err != nil {
				return fmt.Errorf("error stopping agent: %w", err)
			}
			display.Success("Agent stopped")
			return nil
		},
		SilenceErrors: true,
	}
}

func AgentCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "agent",
		Short: "Start or stop the panier agent",
		Annotations: map[string]string{
			"type":     "Execution",
			"examples": "{{.Name}} {{.Command}} start  |  {{.Name}} {{.Command}} stop",
		},
		SilenceErrors: true,
	}

	command.SetUsageTemplate(cmd.SimpleCmdUsageTemplate)
	command.AddCommand(startCmd(), stopCmd())

	return command
}
