package format

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/cristianoliveira/storefront/internal/colors"
	"github.com/cristianoliveira/storefront/internal/domain"
)

// SimpleFormatter formats listings with id, price and name.
type SimpleFormatter struct{}

// NewSimpleFormatter creates a new SimpleFormatter.
func NewSimpleFormatter() *SimpleFormatter {
	return &SimpleFormatter{}
}

// FormatListings formats listings in simple format.
func (f *SimpleFormatter) FormatListings(items []domain.ListingItem, writer io.Writer) error {
	for _, item := range items {
		_, err := fmt.Fprintf(writer, "%-12s  %18s  - %s\n",
			truncate(item.ID, 12), PriceText(item), truncate(item.Name, 50))
		if err != nil {
			return err
		}
	}
	return nil
}

// FormatFacets formats facets as labelled count lists.
func (f *SimpleFormatter) FormatFacets(facets domain.Facets, writer io.Writer) error {
	return writeFacets(facets, writer, "")
}

// CompactFormatter formats listings with the name only.
type CompactFormatter struct{}

// NewCompactFormatter creates a new CompactFormatter.
func NewCompactFormatter() *CompactFormatter {
	return &CompactFormatter{}
}

// FormatListings formats listings in compact format.
func (f *CompactFormatter) FormatListings(items []domain.ListingItem, writer io.Writer) error {
	for _, item := range items {
		if _, err := fmt.Fprintln(writer, truncate(item.Name, 60)); err != nil {
			return err
		}
	}
	return nil
}

// FormatFacets prints one "kind:value [count]" line per facet value.
func (f *CompactFormatter) FormatFacets(facets domain.Facets, writer io.Writer) error {
	lines := facetLines(facets)
	for _, l := range lines {
		text := l.kind + ":" + l.value
		if l.count != noCount {
			text += fmt.Sprintf(" %d", l.count)
		}
		if _, err := fmt.Fprintln(writer, text); err != nil {
			return err
		}
	}
	return nil
}

// TableFormatter formats listings in a table with headers.
type TableFormatter struct {
	table *ExtendedTableFormatter
}

// NewTableFormatter creates a new TableFormatter with the default columns.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{table: NewExtendedTableFormatter()}
}

// FormatListings formats listings in table format.
func (f *TableFormatter) FormatListings(items []domain.ListingItem, writer io.Writer) error {
	return f.table.FormatListings(items, writer)
}

// FormatFacets formats facets with colored section headers.
func (f *TableFormatter) FormatFacets(facets domain.Facets, writer io.Writer) error {
	return writeFacets(facets, writer, colors.Blue)
}

// JSONFormatter formats listings as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// FormatListings formats listings as a JSON array. An empty result is "[]".
func (f *JSONFormatter) FormatListings(items []domain.ListingItem, writer io.Writer) error {
	if items == nil {
		items = []domain.ListingItem{}
	}
	return writeJSON(items, writer)
}

// FormatFacets formats facets as JSON.
func (f *JSONFormatter) FormatFacets(facets domain.Facets, writer io.Writer) error {
	return writeJSON(facets, writer)
}

func writeJSON(v any, writer io.Writer) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal to JSON: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		return err
	}
	_, err = fmt.Fprintln(writer)
	return err
}

// noCount marks facet lines without a listing count.
const noCount = -1

type facetLine struct {
	kind  string
	value string
	count int
}

func facetLines(facets domain.Facets) []facetLine {
	var lines []facetLine
	for _, country := range facets.Countries {
		lines = append(lines, facetLine{"country", country, noCount})
	}
	for _, country := range sortedKeys(facets.Cities) {
		for _, city := range facets.Cities[country] {
			lines = append(lines, facetLine{"city", city + ", " + country, noCount})
		}
	}
	for _, c := range facets.MainCategories {
		lines = append(lines, facetLine{"category", c.Slug, c.Count})
	}
	for _, c := range facets.SubCategories {
		lines = append(lines, facetLine{"subcategory", c.Slug, c.Count})
	}
	return lines
}

func writeFacets(facets domain.Facets, writer io.Writer, headerColor string) error {
	reset := ""
	if headerColor != "" {
		reset = colors.Reset
	}
	if _, err := fmt.Fprintf(writer, "%sListings: %d%s\n", headerColor, facets.Total, reset); err != nil {
		return err
	}
	if facets.Total > 0 {
		if _, err := fmt.Fprintf(writer, "Price: %s - %s\n", formatAmount(facets.MinPrice), formatAmount(facets.MaxPrice)); err != nil {
			return err
		}
	}

	current := ""
	for _, l := range facetLines(facets) {
		if l.kind != current {
			current = l.kind
			if _, err := fmt.Fprintf(writer, "%s=== %s ===%s\n", headerColor, l.kind, reset); err != nil {
				return err
			}
		}
		text := "  " + l.value
		if l.count != noCount {
			text = fmt.Sprintf("  %-30s %d", l.value, l.count)
		}
		if _, err := fmt.Fprintln(writer, text); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
