// Package search provides listing search strategies (substring, token, regex)
// behind one Provider interface shared by the CLI and the TUI.
package search

import (
	"fmt"
	"strings"

	"github.com/cristianoliveira/storefront/internal/domain"
)

// Searchable listing fields.
const (
	FieldName     = "name"
	FieldSlug     = "slug"
	FieldCategory = "category"
	FieldLocation = "location"
)

// Provider matches listings against a search query. Every Provider is a
// domain.SearchMatcher and can be plugged into the filter pipeline.
type Provider interface {
	// Match returns true if the listing matches the search query.
	// An empty query matches everything.
	Match(item domain.ListingItem, query string) bool

	// Name returns the provider name for identification and debugging.
	Name() string
}

var _ domain.SearchMatcher = Provider(nil)

// Options holds configuration options for creating search providers.
type Options struct {
	CaseInsensitive bool     // fold case (Unicode-aware) before comparing
	Fields          []string // listing fields to search in
}

// DefaultOptions searches the listing name, ignoring case.
func DefaultOptions() Options {
	return Options{
		CaseInsensitive: true,
		Fields:          []string{FieldName},
	}
}

// Option is a function that modifies search options.
type Option func(*Options)

// WithCaseInsensitive sets case-insensitive search.
func WithCaseInsensitive(enabled bool) Option {
	return func(o *Options) {
		o.CaseInsensitive = enabled
	}
}

// WithFields sets the fields to search in.
// Valid fields: "name", "slug", "category", "location".
func WithFields(fields ...string) Option {
	return func(o *Options) {
		o.Fields = fields
	}
}

func applyOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Provider names accepted by New.
const (
	ModeSubstring = "substring"
	ModeToken     = "token"
	ModeRegex     = "regex"
)

// Modes lists the provider names accepted by New.
func Modes() []string {
	return []string{ModeSubstring, ModeToken, ModeRegex}
}

// New builds the provider registered under mode. An empty mode selects
// substring search.
func New(mode string, opts ...Option) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeSubstring:
		return NewSubstringProvider(opts...), nil
	case ModeToken:
		return NewTokenProvider(opts...), nil
	case ModeRegex:
		return NewRegexProvider(opts...), nil
	default:
		return nil, fmt.Errorf("unknown search mode %q (valid: %s)", mode, strings.Join(Modes(), ", "))
	}
}

// fieldValues returns the searchable strings of one field of item.
func fieldValues(item domain.ListingItem, field string) []string {
	switch field {
	case FieldName:
		return []string{item.Name}
	case FieldSlug:
		return []string{item.Slug}
	case FieldCategory:
		chain, _ := domain.CategoryChain(item.Category)
		values := make([]string, 0, len(chain)*2)
		for _, c := range chain {
			values = append(values, c.Slug, c.Name)
		}
		return values
	case FieldLocation:
		var values []string
		values = append(values, item.Attributes[domain.AttributeCountry]...)
		values = append(values, item.Attributes[domain.AttributeCity]...)
		return values
	default:
		return nil
	}
}

// normalize applies case folding when configured.
func (o Options) normalize(s string) string {
	if o.CaseInsensitive {
		return domain.Fold(s)
	}
	return s
}

// anyFieldContains reports whether any configured field of item contains
// needle, which must already be normalized.
func (o Options) anyFieldContains(item domain.ListingItem, needle string) bool {
	for _, field := range o.Fields {
		for _, value := range fieldValues(item, field) {
			if value == "" {
				continue
			}
			if strings.Contains(o.normalize(value), needle) {
				return true
			}
		}
	}
	return false
}
