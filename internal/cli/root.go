// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/platform-engineering-labs/panier"
	"github.com/platform-engineering-labs/panier/internal/cli/add"
	"github.com/platform-engineering-labs/panier/internal/cli/agent"
	"github.com/platform-engineering-labs/panier/internal/cli/cmd"
	"github.com/platform-engineering-labs/panier/internal/cli/config"
	"github.com/platform-engineering-labs/panier/internal/cli/display"
	"github.com/platform-engineering-labs/panier/internal/cli/edit"
	"github.com/platform-engineering-labs/panier/internal/cli/list"
	"github.com/platform-engineering-labs/panier/internal/cli/remove"
	"github.com/platform-engineering-labs/panier/internal/cli/renderer"
	"github.com/platform-engineering-labs/panier/internal/cli/show"
)

func longDescription() string {
	return display.Tool + ": " + display.Green("Manage paniers, the comptes that make them and the systemes de paiement that pay them")
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           display.Tool,
		Short:         display.Tool + " CLI",
		Long:          longDescription(),
		Version:       panier.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	hp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		display.PrintBanner()
		hp(cmd, args)
	})

	rootCmd.SetHelpCommand(&cobra.Command{
		Hidden: true,
	})

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	cobra.AddTemplateFunc("typeMap", func(cmds []*cobra.Command) map[string][]*cobra.Command {
		m := make(map[string][]*cobra.Command)
		for _, c := range cmds {
			if c.IsAvailableCommand() {
				t := c.Annotations["type"]
				if t == "" {
					t = "Tooling"
				}

				m[t] = append(m[t], c)
			}
		}
		return m
	})

	cobra.AddTemplateFunc("formatExamples", func(examples string, cmd *cobra.Command) string {
		replaced := strings.ReplaceAll(examples, "{{.Name}}", cmd.Root().Name())
		return strings.ReplaceAll(replaced, "{{.Command}}", cmd.Name())
	})

	cobra.AddTemplateFunc("optionsUsage", optionsUsage)

	rootCmd.SetUsageTemplate(cmd.RootCmdUsageTemplate)

	rootCmd.AddCommand(agent.AgentCmd())
	rootCmd.AddCommand(list.ListCmd())
	rootCmd.AddCommand(show.ShowCmd())
	rootCmd.AddCommand(edit.EditCmd())
	rootCmd.AddCommand(remove.DeleteCmd())
	rootCmd.AddCommand(add.AddCmd())

	rootCmd.PersistentFlags().BoolP("help", "h", false, "Show help for "+rootCmd.Use)
	for _, cmd := range rootCmd.Commands() {
		cmd.PersistentFlags().BoolP("help", "h", false, fmt.Sprintf("Show help for %s command", cmd.Name()))
	}

	rootCmd.PersistentFlags().BoolP("version", "v", false, "Show "+rootCmd.Use+" version information")
	rootCmd.SetVersionTemplate(fmt.Sprintf("panier version: %s\ngo version: %s\n", panier.Version, runtime.Version()))

	return rootCmd
}

func optionsUsage(f *pflag.FlagSet) []string {
	longestFlagName := 0
	f.VisitAll(func(flag *pflag.Flag) {
		length := len(flag.Name)
		if flag.Shorthand != "" {
			length += 6
		}
		longestFlagName = max(longestFlagName, length)
	})
	longestFlagName += 10

	var usage []string
	f.VisitAll(func(flag *pflag.Flag) {
		s := fmt.Sprintf("      --%s ", flag.Name)
		if flag.Shorthand != "" {
			s = fmt.Sprintf("  -%s, --%s ", flag.Shorthand, flag.Name)
		}

		s = fmt.Sprintf("%-*s%s", longestFlagName, s, flag.Usage)
		if flag.DefValue != "" &&
			flag.DefValue != "false" &&
			flag.Name != "help" &&
			flag.Name != "version" {
			s += display.Grey(fmt.Sprintf(" [default: %q]", flag.DefValue))
		}

		usage = append(usage, s)
	})
	return usage
}

// execute runs the command line and reports failures the way the terminal user sees them.
func execute(rootCmd *cobra.Command, args []string) error {
	rootCmd.SetArgs(args)

	command, err := cmd.InitCommandWithContext(rootCmd)
	if err != nil {
		return err
	}

	executed, err := command.ExecuteC()
	if err == nil {
		return nil
	}

	fmt.Fprint(rootCmd.ErrOrStderr(), "Error: "+renderer.RenderErrorMessage(err))

	var flagErr *cmd.FlagError
	if errors.As(err, &flagErr) {
		fmt.Fprintln(rootCmd.ErrOrStderr(), executed.UsageString())
	}

	return err
}

func Start() {
	if err := config.Config.EnsureConfigDirectory(); err != nil {
		fmt.Println(display.Red("Error: " + err.Error()))
		os.Exit(1)
	}

	if err := config.Config.EnsureDataDirectory(); err != nil {
		fmt.Println(display.Red("Error: " + err.Error()))
		os.Exit(1)
	}

	if err := execute(newRootCmd(), os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
