package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cristianoliveira/storefront/cmd"
	"github.com/cristianoliveira/storefront/internal/storage"
	"github.com/cristianoliveira/storefront/internal/storage/sqlite"
	"github.com/spf13/cobra"
)

type catalogClient interface {
	OpenCatalog() (storage.Catalog, error)
}

const importCommandLong = `Import listings into the local catalog.

The input is a JSON array of listing records. Each record is validated;
malformed records are skipped with a warning and the last valid record of
each id wins. Valid records are written inside a single transaction.

USAGE:
    storefront import [FILE] [OPTIONS]

Reads standard input when FILE is omitted or "-".

EXAMPLES:
    # Preview an import without writing
    storefront import listings.json --dry-run

    # Replace the whole catalog
    curl -s https://shop.example/export.json | storefront import --replace`

// NewImportCmd creates the import command with explicit dependencies.
func NewImportCmd(client catalogClient) *cobra.Command {
	if client == nil {
		panic("NewImportCmd: client dependency cannot be nil")
	}

	var opts sqlite.ImportOptions
	importCmd := &cobra.Command{
		Use:   "import [FILE]",
		Short: "Import listings into the local catalog",
		Long:  importCommandLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("import: %w", err)
				}
				defer f.Close()
				in = f
			}

			catalog, err := client.OpenCatalog()
			if err != nil {
				return err
			}
			defer catalog.Close()

			stats, err := catalog.Import(commandContext(cmd), in, opts)
			for _, warning := range stats.Warnings {
				cmd.Printf("warning: %s\n", warning)
			}
			if err != nil {
				return err
			}

			if opts.DryRun {
				cmd.Printf("dry run completed\n")
			} else {
				cmd.Printf("import completed\n")
			}
			cmd.Printf("total=%d imported=%d skipped=%d duplicates=%d\n",
				stats.TotalRecords, stats.ImportedRecords, stats.SkippedRecords, stats.DuplicateRecords)
			return nil
		},
	}

	importCmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Validate and report without writing")
	importCmd.Flags().BoolVar(&opts.Replace, "replace", false, "Delete every stored listing before importing")
	return importCmd
}

var importCmd = NewImportCmd(coreClient)

func init() {
	cmd.RootCmd.AddCommand(importCmd)
}
