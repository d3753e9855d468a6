// Package format provides output formatting for listing results and facets.
package format

import (
	"fmt"
	"io"

	"github.com/cristianoliveira/storefront/internal/domain"
)

// Formatter defines the interface for output formatters.
type Formatter interface {
	// FormatListings formats a slice of listings and writes to the writer.
	FormatListings(items []domain.ListingItem, writer io.Writer) error

	// FormatFacets formats the filter facets of a result and writes to the writer.
	FormatFacets(facets domain.Facets, writer io.Writer) error
}

// FormatterType represents the type of formatter to use.
type FormatterType string

const (
	// FormatterTypeSimple displays id, price and name per line.
	FormatterTypeSimple FormatterType = "simple"

	// FormatterTypeTable displays listings in a table with headers.
	FormatterTypeTable FormatterType = "table"

	// FormatterTypeCompact displays only names.
	FormatterTypeCompact FormatterType = "compact"

	// FormatterTypeJSON displays listings in JSON format.
	FormatterTypeJSON FormatterType = "json"

	// FormatterTypeTemplate renders each listing through a template or preset.
	FormatterTypeTemplate FormatterType = "template"
)

// FormatterTypes lists the formatter names accepted by GetFormatter.
func FormatterTypes() []FormatterType {
	return []FormatterType{
		FormatterTypeSimple,
		FormatterTypeTable,
		FormatterTypeCompact,
		FormatterTypeJSON,
		FormatterTypeTemplate,
	}
}

// NewFormatter creates a new formatter of the specified type.
// The template type needs a template and is built by NewTemplateFormatter.
func NewFormatter(formatterType FormatterType) Formatter {
	switch formatterType {
	case FormatterTypeSimple:
		return NewSimpleFormatter()
	case FormatterTypeTable:
		return NewTableFormatter()
	case FormatterTypeCompact:
		return NewCompactFormatter()
	case FormatterTypeJSON:
		return NewJSONFormatter()
	default:
		// Default to simple formatter for unknown types
		return NewSimpleFormatter()
	}
}

// GetFormatter resolves a formatter by name. For the template type, tmpl is
// either a preset name or a literal template; userID feeds {{is-favorite}}.
func GetFormatter(format, tmpl, userID string) (Formatter, error) {
	formatterType := FormatterType(format)
	if formatterType == FormatterTypeTemplate {
		if tmpl == "" {
			return nil, fmt.Errorf("template format requires a template or preset name")
		}
		return NewTemplateFormatter(tmpl, userID)
	}

	for _, ft := range FormatterTypes() {
		if ft == formatterType {
			return NewFormatter(formatterType), nil
		}
	}
	return NewSimpleFormatter(), nil
}
