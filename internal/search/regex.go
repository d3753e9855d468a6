package search

import (
	"regexp"
	"sync"

	"github.com/cristianoliveira/storefront/internal/domain"
)

// RegexProvider matches if any configured field matches the query as a
// regular expression. Compiled patterns are cached.
type RegexProvider struct {
	opts    Options
	cache   map[string]*regexp.Regexp
	cacheMu sync.RWMutex
}

// NewRegexProvider creates a new regex search provider.
func NewRegexProvider(opts ...Option) Provider {
	return &RegexProvider{
		opts:  applyOptions(opts),
		cache: make(map[string]*regexp.Regexp),
	}
}

// Match returns true if any configured field matches the pattern.
// An invalid pattern matches nothing.
func (p *RegexProvider) Match(item domain.ListingItem, query string) bool {
	if query == "" {
		return true
	}
	re, err := p.compile(query)
	if err != nil {
		return false
	}
	for _, field := range p.opts.Fields {
		for _, value := range fieldValues(item, field) {
			if value != "" && re.MatchString(value) {
				return true
			}
		}
	}
	return false
}

// Valid reports whether query compiles; the TUI uses it to flag bad input.
func (p *RegexProvider) Valid(query string) bool {
	_, err := p.compile(query)
	return err == nil
}

func (p *RegexProvider) compile(pattern string) (*regexp.Regexp, error) {
	p.cacheMu.RLock()
	re, ok := p.cache[pattern]
	p.cacheMu.RUnlock()
	if ok {
		return re, nil
	}

	expr := pattern
	if p.opts.CaseInsensitive {
		expr = "(?i)" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}

	p.cacheMu.Lock()
	p.cache[pattern] = re
	p.cacheMu.Unlock()
	return re, nil
}

// Name returns the provider name.
func (p *RegexProvider) Name() string {
	return ModeRegex
}
