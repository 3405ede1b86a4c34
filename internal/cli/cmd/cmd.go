// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/platform-engineering-labs/panier/internal/cli/app"
	"github.com/platform-engineering-labs/panier/internal/cli/config"
	"github.com/platform-engineering-labs/panier/internal/cli/display"
	"github.com/platform-engineering-labs/panier/internal/cli/printer"
)

var RootCmdUsageTemplate = display.Grey("Usage: ") + display.Green("{{.CommandPath}} [OPTIONS]{{if .HasAvailableSubCommands}} [COMMAND]{{end}}\n") +
	"{{if .HasAvailableSubCommands}}\n" + display.Gold("Commands:") + "{{$types := typeMap .Commands}}" +
	"{{$first := true}}{{range $type, $cmds := $types}}" +
	"{{if $first}}{{$first = false}}{{else}}\n{{end}}\n  " + display.Gold("{{$type}}:") +
	"{{range $cmd := $cmds}}\n    " + display.Green("{{rpad $cmd.Name $cmd.NamePadding}}") + "     {{$cmd.Short}}" +
	"{{if (index $cmd.Annotations \"examples\")}}\n                   " +
	display.Grey("  {{formatExamples (index $cmd.Annotations \"examples\") $cmd}}") + "{{end}}" +
	"{{end}}{{end}}\n{{end}}" +
	"{{if .HasAvailableLocalFlags}}\n" + display.Gold("Options:\n") +
	"{{range .LocalFlags | optionsUsage}}{{.}}\n{{end}}" +
	"{{end}}" +
	display.Links("Docs", "") +
	"\n"

var SimpleCmdUsageTemplate = display.Grey("Usage: ") + display.Green("{{.CommandPath}}{{if .HasAvailableLocalFlags}} [OPTIONS]{{end}}{{if .HasAvailableSubCommands}} [COMMAND]{{end}}") +
	display.Green("{{if index .Annotations \"args\"}} {{index .Annotations \"args\"}}{{end}}") + "\n" +
	"{{if .HasAvailableSubCommands}}\n" + display.Gold("Commands:") +
	"{{range $cmd := .Commands}}\n  " + display.Green("{{rpad $cmd.Name $cmd.NamePadding}}") + "       {{$cmd.Short}}" +
	"{{if (index $cmd.Annotations \"examples\")}}\n                   " +
	display.Grey("  {{formatExamples (index $cmd.Annotations \"examples\") $cmd}}") + "{{end}}" +
	"{{end}}\n{{end}}" +
	"{{if .HasAvailableLocalFlags}}\n" + display.Gold("Options:\n") +
	"{{range .LocalFlags | optionsUsage}}{{.}}\n{{end}}" +
	"{{end}}" +
	display.Links("Docs", "") +
	"\n"

type appKey struct{}

// ErrAppNotFound is returned when a command runs without the context set up by
// InitCommandWithContext.
var ErrAppNotFound = errors.New("app not found in command context")

// AppFromContext returns the app of the command context with the configuration loaded from
// configFilePath, or from the default configuration file when it is empty.
func AppFromContext(ctx context.Context, configFilePath string) (*app.App, error) {
	a, ok := ctx.Value(appKey{}).(*app.App)
	if !ok {
		return nil, ErrAppNotFound
	}

	if err := a.LoadConfig(configFilePath, config.Config.ConfigFile()); err != nil {
		return nil, fmt.Errorf("%w%s", err, display.Links("Configuration docs", "blob/main/README.md"))
	}

	return a, nil
}

func WithApp(ctx context.Context, a *app.App) context.Context {
	return context.WithValue(ctx, appKey{}, a)
}

func InitCommandWithContext(cmd *cobra.Command) (*cobra.Command, error) {
	if err := config.Config.EnsureClientID(); err != nil {
		return nil, err
	}

	cmd.SetContext(WithApp(context.Background(), app.NewApp()))
	return cmd, nil
}

// ParseID parses an entity id given on the command line.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, FlagErrorf("invalid id %q: expected a positive number", raw)
	}
	return id, nil
}

// AddOutputFlags registers the flags selecting who consumes the command output.
func AddOutputFlags(command *cobra.Command) {
	command.Flags().String("output-consumer", string(printer.ConsumerHuman), "Consumer of the command output (human | machine)")
	command.Flags().String("output-schema", "json", "The schema to use for the machine output (json | yaml)")
}

// OutputFlags returns the validated output consumer and schema of the command.
func OutputFlags(command *cobra.Command) (printer.Consumer, string, error) {
	raw, _ := command.Flags().GetString("output-consumer")
	schema, _ := command.Flags().GetString("output-schema")

	consumer := printer.Consumer(raw)
	if consumer != printer.ConsumerHuman && consumer != printer.ConsumerMachine {
		return "", "", FlagErrorf("output-consumer must be 'human' or 'machine'")
	}
	if consumer == printer.ConsumerMachine && schema != "json" && schema != "yaml" {
		return "", "", FlagErrorf("output-schema must be 'json' or 'yaml' for machine consumer")
	}

	return consumer, schema, nil
}
