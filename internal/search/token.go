package search

import (
	"strings"

	"github.com/cristianoliveira/storefront/internal/domain"
)

// Special tokens understood by TokenProvider.
const (
	tokenPriced   = "priced"
	tokenUnpriced = "unpriced"
)

// TokenProvider splits the query on whitespace; every token must match at
// least one configured field (AND logic). The tokens "priced" and
// "unpriced" restrict results to listings with or without a price.
type TokenProvider struct {
	opts Options
}

// NewTokenProvider creates a new token search provider.
func NewTokenProvider(opts ...Option) Provider {
	return &TokenProvider{opts: applyOptions(opts)}
}

// Match returns true if every text token matches some field and the
// listing passes the price token, if any.
func (p *TokenProvider) Match(item domain.ListingItem, query string) bool {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return true
	}

	priced, unpriced := false, false
	textTokens := make([]string, 0, len(tokens))
	for _, token := range tokens {
		switch strings.ToLower(token) {
		case tokenPriced:
			priced = true
		case tokenUnpriced:
			unpriced = true
		default:
			textTokens = append(textTokens, p.opts.normalize(token))
		}
	}

	// both together cancel out
	if priced != unpriced {
		if priced && !item.HasPrice() {
			return false
		}
		if unpriced && item.HasPrice() {
			return false
		}
	}

	for _, token := range textTokens {
		if !p.opts.anyFieldContains(item, token) {
			return false
		}
	}
	return true
}

// Name returns the provider name.
func (p *TokenProvider) Name() string {
	return ModeToken
}
