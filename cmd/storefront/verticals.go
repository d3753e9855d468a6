package main

import (
	"context"
	"fmt"

	"github.com/cristianoliveira/storefront/cmd"
	"github.com/cristianoliveira/storefront/internal/colors"
	"github.com/cristianoliveira/storefront/internal/domain"
	"github.com/cristianoliveira/storefront/internal/storage"
	"github.com/spf13/cobra"
)

type verticalsClient interface {
	OpenSource(ctx context.Context, token string) (*storage.Source, error)
}

// NewVerticalsCmd creates the verticals command with explicit dependencies.
func NewVerticalsCmd(client verticalsClient) *cobra.Command {
	if client == nil {
		panic("NewVerticalsCmd: client dependency cannot be nil")
	}

	var countsFlag bool
	verticalsCmd := &cobra.Command{
		Use:   "verticals",
		Short: "List marketplace verticals",
		Long: `List the marketplace verticals and their category slugs.

With --counts the number of listings stored in the local catalog is shown
for each vertical.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var catalog storage.Catalog
			if countsFlag {
				src, err := client.OpenSource(commandContext(cmd), "")
				if err != nil {
					return err
				}
				defer src.Close()
				if src.Catalog == nil {
					colors.Warning("listing counts need the local catalog source")
				}
				catalog = src.Catalog
			}

			out := cmd.OutOrStdout()
			for _, v := range domain.Verticals() {
				line := fmt.Sprintf("%-20s %-20s %s", v.Slug, v.Title, v.CategorySlug)
				if catalog != nil {
					n, err := catalog.Count(commandContext(cmd), v.CategorySlug)
					if err != nil {
						return fmt.Errorf("count %s: %w", v.Slug, err)
					}
					line = fmt.Sprintf("%s %6d", line, n)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	verticalsCmd.Flags().BoolVar(&countsFlag, "counts", false, "Show listing counts from the local catalog")
	return verticalsCmd
}

var verticalsCmd = NewVerticalsCmd(coreClient)

func init() {
	cmd.RootCmd.AddCommand(verticalsCmd)
}
