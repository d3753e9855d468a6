package search

import "github.com/cristianoliveira/storefront/internal/domain"

// SubstringProvider matches if any configured field contains the query.
// With default options it is the listing search of the filter pipeline:
// case-insensitive substring of the name.
type SubstringProvider struct {
	opts Options
}

// NewSubstringProvider creates a new substring search provider.
func NewSubstringProvider(opts ...Option) Provider {
	return &SubstringProvider{opts: applyOptions(opts)}
}

// Match returns true if any configured field contains the query substring.
func (p *SubstringProvider) Match(item domain.ListingItem, query string) bool {
	if query == "" {
		return true
	}
	return p.opts.anyFieldContains(item, p.opts.normalize(query))
}

// Name returns the provider name.
func (p *SubstringProvider) Name() string {
	return ModeSubstring
}
