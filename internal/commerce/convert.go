package commerce

import (
	"time"

	"github.com/cristianoliveira/storefront/internal/domain"
)

func toListing(n productNode) domain.ListingItem {
	item := domain.ListingItem{
		ID:       n.ID,
		Name:     n.Name,
		Slug:     n.Slug,
		Category: toCategory(n.Category),
		Created:  parseTime(n.Created),
		Updated:  parseTime(n.UpdatedAt),
	}

	var currency string
	if p := n.Pricing; p != nil && p.PriceRange != nil && p.PriceRange.Start != nil && p.PriceRange.Start.Gross != nil {
		item.Price = domain.Float(p.PriceRange.Start.Gross.Amount)
		currency = p.PriceRange.Start.Gross.Currency
	}

	if len(n.Attributes) > 0 {
		item.Attributes = make(domain.Attributes, len(n.Attributes))
		for _, a := range n.Attributes {
			values := make([]string, 0, len(a.Values))
			for _, v := range a.Values {
				values = append(values, v.Name)
			}
			item.Attributes[a.Attribute.Slug] = values
		}
	}
	if _, ok := item.Attributes.First(domain.AttributeCurrency); !ok && currency != "" {
		if item.Attributes == nil {
			item.Attributes = domain.Attributes{}
		}
		item.Attributes[domain.AttributeCurrency] = []string{currency}
	}

	if len(n.Metadata) > 0 {
		item.Metadata = make(map[string]string, len(n.Metadata))
		for _, m := range n.Metadata {
			item.Metadata[m.Key] = m.Value
		}
	}
	if n.Thumbnail != nil && n.Thumbnail.URL != "" {
		item.Thumbnail = &domain.Image{URL: n.Thumbnail.URL, Alt: n.Thumbnail.Alt}
	}
	return item
}

func toCategory(n *categoryNode) *domain.Category {
	if n == nil {
		return nil
	}
	return &domain.Category{Slug: n.Slug, Name: n.Name, Parent: toCategory(n.Parent)}
}

// parseTime accepts RFC 3339 timestamps; anything else is the zero time.
func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
