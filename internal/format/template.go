package format

import (
	"fmt"
	"io"

	"github.com/cristianoliveira/storefront/internal/domain"
	"github.com/cristianoliveira/storefront/internal/formatter"
)

// TemplateFormatter renders one line per listing from a template.
type TemplateFormatter struct {
	engine   formatter.TemplateEngine
	template string
	userID   string
}

// NewTemplateFormatter builds a formatter from a preset name or a literal
// template. The template is validated up front.
func NewTemplateFormatter(tmpl, userID string) (*TemplateFormatter, error) {
	if preset, err := formatter.NewPresetRegistry().Get(tmpl); err == nil {
		tmpl = preset.Template
	}
	engine := formatter.NewTemplateEngine()
	if err := engine.Validate(tmpl); err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}
	return &TemplateFormatter{engine: engine, template: tmpl, userID: userID}, nil
}

// FormatListings renders each listing through the template.
func (f *TemplateFormatter) FormatListings(items []domain.ListingItem, writer io.Writer) error {
	for _, item := range items {
		line, err := f.engine.Substitute(f.template, formatter.NewContext(item, f.userID))
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(writer, line); err != nil {
			return err
		}
	}
	return nil
}

// FormatFacets falls back to the plain facet listing.
func (f *TemplateFormatter) FormatFacets(facets domain.Facets, writer io.Writer) error {
	return writeFacets(facets, writer, "")
}
