package domain

import (
	"fmt"
	"strings"
)

// Vertical is one marketplace section. Every vertical runs the same listing
// pipeline, parameterised by its category slug.
type Vertical struct {
	Slug         string
	Title        string
	CategorySlug string
}

var verticals = []Vertical{
	{Slug: "real-estate", Title: "Real estate", CategorySlug: "real-estate"},
	{Slug: "art", Title: "Art", CategorySlug: "art"},
	{Slug: "luxury-goods", Title: "Luxury goods", CategorySlug: "luxury-goods"},
	{Slug: "service-providers", Title: "Service providers", CategorySlug: "service-providers"},
	{Slug: "experiences", Title: "Experiences", CategorySlug: "experiences"},
}

// Verticals returns the registered verticals in display order.
func Verticals() []Vertical {
	out := make([]Vertical, len(verticals))
	copy(out, verticals)
	return out
}

// VerticalSlugs returns the slugs of every registered vertical.
func VerticalSlugs() []string {
	slugs := make([]string, len(verticals))
	for i, v := range verticals {
		slugs[i] = v.Slug
	}
	return slugs
}

// LookupVertical finds a vertical by slug.
func LookupVertical(slug string) (Vertical, error) {
	want := strings.ToLower(strings.TrimSpace(slug))
	for _, v := range verticals {
		if v.Slug == want {
			return v, nil
		}
	}
	return Vertical{}, fmt.Errorf("%w: %s", ErrUnknownVertical, slug)
}
