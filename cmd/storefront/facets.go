package main

import (
	"github.com/cristianoliveira/storefront/cmd"
	"github.com/cristianoliveira/storefront/internal/domain"
	"github.com/cristianoliveira/storefront/internal/errors"
	"github.com/cristianoliveira/storefront/internal/format"
	"github.com/spf13/cobra"
)

const facetsCommandLong = `Show the filter values available on a vertical tab: price span,
countries with their cities, and main categories with their subcategories.

Facets are computed over the fetched tab before filters apply, so they list
every value a filter could select.

USAGE:
    storefront facets [OPTIONS]

EXAMPLES:
    # Countries and categories of the art vertical
    storefront facets --vertical art

    # Machine readable
    storefront facets --vertical real-estate --format json`

// NewFacetsCmd creates the facets command with explicit dependencies.
func NewFacetsCmd(client pageClient) *cobra.Command {
	if client == nil {
		panic("NewFacetsCmd: client dependency cannot be nil")
	}

	var (
		flags      pageFlags
		formatFlag string
	)
	facetsCmd := &cobra.Command{
		Use:   "facets",
		Short: "Show filter values of a vertical tab",
		Long:  facetsCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPage(commandContext(cmd), client, flags)
			if err != nil {
				return err
			}
			defer p.Close()

			errors.Report(errors.NewDefaultCLIHandler(), p.LastError())
			facets := domain.ComputeFacets(p.BaseList())
			return format.NewFormatter(format.FormatterType(formatFlag)).FormatFacets(facets, cmd.OutOrStdout())
		},
	}

	flags.bind(facetsCmd)
	facetsCmd.Flags().StringVar(&formatFlag, "format", string(format.FormatterTypeSimple), "Output format: simple, table, compact, json")
	return facetsCmd
}

var facetsCmd = NewFacetsCmd(coreClient)

func init() {
	cmd.RootCmd.AddCommand(facetsCmd)
}
