package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cristianoliveira/storefront/cmd"
	"github.com/cristianoliveira/storefront/internal/colors"
	"github.com/cristianoliveira/storefront/internal/settings"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

type settingsClient interface {
	ResetSettings() (*settings.Settings, error)
	LoadSettings() (*settings.Settings, error)
}

const (
	settingsCommandLong = `Manage the browse settings restored when the TUI starts.

USAGE:
    storefront settings <subcommand>

SUBCOMMANDS:
    reset    Reset settings to defaults
    show     Display current settings

EXAMPLES:
    # Reset settings with confirmation
    storefront settings reset

    # Reset settings without confirmation
    storefront settings reset --force

    # Show current settings
    storefront settings show`
	resetCommandLong = `Reset browse settings to defaults by deleting the settings file.

USAGE:
    storefront settings reset [OPTIONS]

OPTIONS:
    --force    Reset without confirmation
    -h, --help Show this help`
	showCommandLong = `Display current browse settings in TOML format.

USAGE:
    storefront settings show`
)

// confirmInput is read by the reset confirmation prompt.
var confirmInput io.Reader = os.Stdin

// NewSettingsCmd creates the settings command with explicit dependencies.
func NewSettingsCmd(client settingsClient) *cobra.Command {
	if client == nil {
		panic("NewSettingsCmd: client dependency cannot be nil")
	}

	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage TUI settings",
		Long:  settingsCommandLong,
	}
	settingsCmd.AddCommand(newResetCmd(client))
	settingsCmd.AddCommand(newShowCmd(client))
	return settingsCmd
}

func newResetCmd(client settingsClient) *cobra.Command {
	var resetForce bool
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset TUI settings to defaults",
		Long:  resetCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResetCmd(cmd, client, resetForce)
		},
	}
	resetCmd.Flags().BoolVar(&resetForce, "force", false, "Reset without confirmation")
	return resetCmd
}

func newShowCmd(client settingsClient) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current settings",
		Long:  showCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShowCmd(cmd, client)
		},
	}
}

func runResetCmd(cmd *cobra.Command, client settingsClient, force bool) error {
	// Skip confirmation if --force flag is set or running in CI
	if !force && os.Getenv("CI") == "" {
		if !confirmReset(cmd.OutOrStdout()) {
			colors.Info("Operation cancelled")
			return nil
		}
	}

	if _, err := client.ResetSettings(); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	colors.Success("Settings reset to defaults")
	return nil
}

func runShowCmd(cmd *cobra.Command, client settingsClient) error {
	current, err := client.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	data, err := toml.Marshal(current)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

// confirmReset asks the user for confirmation before resetting settings.
func confirmReset(out io.Writer) bool {
	fmt.Fprint(out, "Are you sure you want to reset all settings to defaults? (y/N): ")
	answer, err := bufio.NewReader(confirmInput).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}

var settingsCmd = NewSettingsCmd(coreClient)

func init() {
	cmd.RootCmd.AddCommand(settingsCmd)
}
