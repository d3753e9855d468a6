// Package cmd holds the root command of the storefront CLI.
package cmd

import (
	"fmt"
	"strings"

	"github.com/cristianoliveira/storefront/internal/colors"
	"github.com/cristianoliveira/storefront/internal/config"
	"github.com/cristianoliveira/storefront/internal/hooks"
	"github.com/cristianoliveira/storefront/internal/logging"
	"github.com/cristianoliveira/storefront/internal/version"
	"github.com/spf13/cobra"
)

var (
	debugFlag bool
	quietFlag bool
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "Browse marketplace listings from the terminal.",
	Long:          `Browse marketplace listings by vertical, tab and filters from the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return Setup()
	},
}

// Setup loads configuration and wires console output and file logging.
func Setup() error {
	config.Load()
	colors.SetDebug(debugFlag || config.GetBool("debug", false))
	colors.SetQuiet(quietFlag || config.GetBool("quiet", false))
	if err := logging.InitGlobal(); err != nil {
		colors.Warning(fmt.Sprintf("file logging disabled: %v", err))
	}
	if err := hooks.Init(); err != nil {
		colors.Warning(err.Error())
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	err := RootCmd.Execute()
	if err != nil {
		colors.Error(err.Error())
	}
	return err
}

func init() {
	RootCmd.Version = version.String()

	// Hide the completion command
	RootCmd.CompletionOptions.HiddenDefaultCmd = true

	RootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Print debug output")
	RootCmd.PersistentFlags().BoolVar(&quietFlag, "quiet", false, "Suppress info output")

	RootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != RootCmd {
			fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
			return
		}
		printHelpText(cmd)
	})
}

// commandOrder is the order commands appear in the help text.
var commandOrder = []string{
	"browse",
	"tui",
	"facets",
	"verticals",
	"import",
	"favorite",
	"settings",
	"version",
}

func printHelpText(cmd *cobra.Command) {
	var cmdLines []string
	for _, name := range commandOrder {
		var found *cobra.Command
		for _, c := range cmd.Commands() {
			if c.Name() == name {
				found = c
				break
			}
		}
		if found == nil {
			continue
		}
		cmdLines = append(cmdLines, fmt.Sprintf("    %-16s %s", found.Name(), found.Short))
	}

	helpText := fmt.Sprintf(`storefront %s

Browse marketplace listings from the terminal.

USAGE:
    storefront [COMMAND] [OPTIONS]

COMMANDS:
%s

OPTIONS:
    --debug         Print debug output
    --quiet         Suppress info output
    -h, --help      Show help message
`, version.String(), strings.Join(cmdLines, "\n"))
	fmt.Fprint(cmd.OutOrStdout(), helpText)
}
