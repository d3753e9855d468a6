package domain

import (
	"math"
	"sort"
	"strings"
)

// CategoryFacet is a category option offered by a filter dialog.
type CategoryFacet struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Facets summarises a listing set for populating filter controls.
type Facets struct {
	Countries      []string            `json:"countries"`
	Cities         map[string][]string `json:"cities"`
	MainCategories []CategoryFacet     `json:"main_categories"`
	SubCategories  []CategoryFacet     `json:"sub_categories"`
	MinPrice       float64             `json:"min_price"`
	MaxPrice       float64             `json:"max_price"`
	Total          int                 `json:"total"`
}

// ComputeFacets collects distinct locations, categories and the price span of items.
func ComputeFacets(items []ListingItem) Facets {
	f := Facets{
		Cities: make(map[string][]string),
		Total:  len(items),
	}
	if len(items) == 0 {
		return f
	}

	countries := make(map[string]string)
	cities := make(map[string]map[string]string)
	mains := make(map[string]*CategoryFacet)
	subs := make(map[string]*CategoryFacet)
	minPrice, maxPrice := math.Inf(1), math.Inf(-1)

	for _, item := range items {
		country, city := item.Location()
		if country != "" {
			key := Fold(country)
			if _, ok := countries[key]; !ok {
				countries[key] = country
				cities[key] = make(map[string]string)
			}
			if city != "" {
				cities[key][Fold(city)] = city
			}
		}

		if root, ok := RootCategory(item.Category); ok && root.Slug != "" {
			countFacet(mains, root)
		}
		if item.Category != nil && item.Category.Slug != "" {
			countFacet(subs, item.Category)
		}

		p := item.PriceOrZero()
		minPrice = math.Min(minPrice, p)
		maxPrice = math.Max(maxPrice, p)
	}

	for key, country := range countries {
		f.Countries = append(f.Countries, country)
		names := make([]string, 0, len(cities[key]))
		for _, c := range cities[key] {
			names = append(names, c)
		}
		sort.Strings(names)
		f.Cities[country] = names
	}
	sort.Slice(f.Countries, func(i, j int) bool {
		return strings.ToLower(f.Countries[i]) < strings.ToLower(f.Countries[j])
	})

	f.MainCategories = sortedFacets(mains)
	f.SubCategories = sortedFacets(subs)
	f.MinPrice = minPrice
	f.MaxPrice = maxPrice
	return f
}

func countFacet(m map[string]*CategoryFacet, c *Category) {
	if facet, ok := m[c.Slug]; ok {
		facet.Count++
		return
	}
	m[c.Slug] = &CategoryFacet{Slug: c.Slug, Name: c.Name, Count: 1}
}

func sortedFacets(m map[string]*CategoryFacet) []CategoryFacet {
	out := make([]CategoryFacet, 0, len(m))
	for _, f := range m {
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Slug < out[j].Slug
	})
	return out
}
