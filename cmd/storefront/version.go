package main

import (
	"encoding/json"
	"fmt"

	"github.com/cristianoliveira/storefront/cmd"
	"github.com/cristianoliveira/storefront/internal/version"
	"github.com/spf13/cobra"
)

type versionClient interface {
	Version() string
}

// NewVersionCmd creates the version command with explicit dependencies.
func NewVersionCmd(client versionClient) *cobra.Command {
	if client == nil {
		panic("NewVersionCmd: client dependency cannot be nil")
	}

	var jsonFlag bool
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Show the current version of storefront.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonFlag {
				data, err := json.MarshalIndent(version.Current(), "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "storefront version %s\n", client.Version())
			return nil
		},
	}
	versionCmd.Flags().BoolVar(&jsonFlag, "json", false, "Print build metadata as JSON")
	return versionCmd
}

var versionCmd = NewVersionCmd(coreClient)

func init() {
	cmd.RootCmd.AddCommand(versionCmd)
}
