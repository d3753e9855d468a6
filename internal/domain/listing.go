// Package domain provides the domain layer for marketplace listings.
// It contains the listing model, the filter pipeline and the sort stage.
package domain

import (
	"strings"
	"time"
)

// Well-known attribute and metadata keys.
const (
	AttributeCountry  = "country"
	AttributeCity     = "city"
	AttributeCurrency = "currency"

	MetadataFavorites = "favorites"
	MetadataOwner     = "owner"
)

// Category is a node of the backend category tree.
// Parent is nil for a root category.
type Category struct {
	Slug   string    `json:"slug"`
	Name   string    `json:"name"`
	Parent *Category `json:"parent,omitempty"`
}

// Image is a thumbnail reference.
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// Attributes maps an attribute name to its display values.
type Attributes map[string][]string

// First returns the first value of the named attribute.
func (a Attributes) First(name string) (string, bool) {
	values, ok := a[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// ListingItem is a product record as returned by the listing source.
type ListingItem struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Slug       string            `json:"slug"`
	Category   *Category         `json:"category,omitempty"`
	Price      *float64          `json:"price,omitempty"` // nil means "contact for price"
	Attributes Attributes        `json:"attributes,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Thumbnail  *Image            `json:"thumbnail,omitempty"`
	Created    time.Time         `json:"created,omitempty"`
	Updated    time.Time         `json:"updated,omitempty"`
}

// PriceOrZero returns the price, treating a missing price as 0.
func (l ListingItem) PriceOrZero() float64 {
	if l.Price == nil {
		return 0
	}
	return *l.Price
}

// HasPrice reports whether the listing carries a price.
func (l ListingItem) HasPrice() bool {
	return l.Price != nil
}

// Currency returns the currency attribute, if any.
func (l ListingItem) Currency() string {
	c, _ := l.Attributes.First(AttributeCurrency)
	return c
}

// Location returns the country and city attributes.
func (l ListingItem) Location() (country, city string) {
	country, _ = l.Attributes.First(AttributeCountry)
	city, _ = l.Attributes.First(AttributeCity)
	return country, city
}

// CategorySlug returns the leaf category slug or "" when the item has no category.
func (l ListingItem) CategorySlug() string {
	if l.Category == nil {
		return ""
	}
	return l.Category.Slug
}

// CategoryPath renders the category chain from root to leaf, e.g. "art / paintings".
func (l ListingItem) CategoryPath() string {
	chain, ok := CategoryChain(l.Category)
	if !ok || len(chain) == 0 {
		return ""
	}
	names := make([]string, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		name := chain[i].Name
		if name == "" {
			name = chain[i].Slug
		}
		names = append(names, name)
	}
	return strings.Join(names, " / ")
}

// Float returns a pointer to v. Handy for building listings with a price.
func Float(v float64) *float64 {
	return &v
}
