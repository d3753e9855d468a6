package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/cristianoliveira/storefront/internal/colors"
	"github.com/cristianoliveira/storefront/internal/domain"
)

// TableConfig holds configuration for table formatting.
type TableConfig struct {
	// ShowHeaders determines whether to show column headers.
	ShowHeaders bool

	// HeaderColor is the color to use for headers.
	HeaderColor string

	// ColumnWidths defines the width for each column.
	ColumnWidths map[string]int

	// ColumnAlignments defines the alignment for each column (left, right, center).
	ColumnAlignments map[string]string
}

// DefaultTableConfig returns a default table configuration.
func DefaultTableConfig() *TableConfig {
	return &TableConfig{
		ShowHeaders: true,
		HeaderColor: colors.Blue,
		ColumnWidths: map[string]int{
			"ID":       10,
			"Price":    18,
			"Name":     32,
			"Location": 22,
			"Category": 16,
			"Created":  10,
		},
		ColumnAlignments: map[string]string{
			"Price": "right",
		},
	}
}

// TableColumn represents a column in a table.
type TableColumn struct {
	// Name is the column name displayed in the header.
	Name string

	// Width is the column width in characters.
	Width int

	// Alignment is the text alignment (left, right, center).
	Alignment string

	// Extractor extracts the raw value from a listing.
	Extractor func(domain.ListingItem) string
}

// ExtendedTableFormatter renders listings in configurable columns.
type ExtendedTableFormatter struct {
	config  *TableConfig
	columns []TableColumn
}

// NewExtendedTableFormatter creates a new ExtendedTableFormatter with default columns.
func NewExtendedTableFormatter() *ExtendedTableFormatter {
	config := DefaultTableConfig()
	column := func(name string, extract func(domain.ListingItem) string) TableColumn {
		return TableColumn{
			Name:      name,
			Width:     config.ColumnWidths[name],
			Alignment: config.ColumnAlignments[name],
			Extractor: extract,
		}
	}
	columns := []TableColumn{
		column("ID", func(l domain.ListingItem) string { return l.ID }),
		column("Price", PriceText),
		column("Name", func(l domain.ListingItem) string { return l.Name }),
		column("Location", func(l domain.ListingItem) string {
			country, city := l.Location()
			if city != "" && country != "" {
				return city + ", " + country
			}
			return city + country
		}),
		column("Category", func(l domain.ListingItem) string { return l.CategorySlug() }),
		column("Created", func(l domain.ListingItem) string {
			if l.Created.IsZero() {
				return ""
			}
			return l.Created.UTC().Format("2006-01-02")
		}),
	}
	return &ExtendedTableFormatter{
		config:  config,
		columns: columns,
	}
}

// WithColumns adds custom columns to the formatter.
func (f *ExtendedTableFormatter) WithColumns(columns ...TableColumn) *ExtendedTableFormatter {
	f.columns = append(f.columns, columns...)
	return f
}

// FormatListings formats listings in table format. Nothing is written for
// an empty result.
func (f *ExtendedTableFormatter) FormatListings(items []domain.ListingItem, writer io.Writer) error {
	if len(items) == 0 {
		return nil
	}

	if f.config.ShowHeaders {
		if err := f.writeLine(writer, f.config.HeaderColor, func(col TableColumn) string {
			return formatString(col.Name, col.Width, "left")
		}); err != nil {
			return err
		}
	}

	if err := f.writeLine(writer, f.config.HeaderColor, func(col TableColumn) string {
		return strings.Repeat("-", col.Width)
	}); err != nil {
		return err
	}

	for _, item := range items {
		if err := f.writeLine(writer, "", func(col TableColumn) string {
			value := col.Extractor(item)
			if col.Alignment == "" || col.Alignment == "left" {
				return truncatePad(value, col.Width)
			}
			return formatString(value, col.Width, col.Alignment)
		}); err != nil {
			return err
		}
	}
	return nil
}

// FormatFacets formats facets with colored section headers.
func (f *ExtendedTableFormatter) FormatFacets(facets domain.Facets, writer io.Writer) error {
	return writeFacets(facets, writer, f.config.HeaderColor)
}

func (f *ExtendedTableFormatter) writeLine(writer io.Writer, color string, cell func(TableColumn) string) error {
	cells := make([]string, len(f.columns))
	for i, col := range f.columns {
		cells[i] = cell(col)
	}
	line := strings.TrimRight(strings.Join(cells, "  "), " ")
	if color != "" {
		line = color + line + colors.Reset
	}
	_, err := fmt.Fprintln(writer, line)
	return err
}

// formatString formats a string with the specified width and alignment.
func formatString(s string, width int, alignment string) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}

	pad := width - len(r)
	switch alignment {
	case "right":
		return strings.Repeat(" ", pad) + s
	case "center":
		left := pad / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
	default: // left
		return s + strings.Repeat(" ", pad)
	}
}

// truncatePad truncates to width with "..." and pads short values.
func truncatePad(s string, width int) string {
	t := truncate(s, width)
	return t + strings.Repeat(" ", width-len([]rune(t)))
}

// truncate shortens s to at most width runes, ending in "..." when cut.
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width < 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}
