package domain

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
)

// MainCategoryAll is the sentinel main category meaning "no constraint".
const MainCategoryAll = "all"

// Location narrows listings to a country and, optionally, a city.
type Location struct {
	Country string `json:"country" toml:"country"`
	City    string `json:"city,omitempty" toml:"city,omitempty"`
}

// PriceRange is an inclusive price window. Min <= Max is not enforced.
type PriceRange struct {
	Min float64 `json:"min" toml:"min"`
	Max float64 `json:"max" toml:"max"`
}

// DefaultPriceRange returns the unconstrained range [0, +Inf].
func DefaultPriceRange() PriceRange {
	return PriceRange{Min: 0, Max: math.Inf(1)}
}

// IsDefault reports whether the range is the unconstrained default.
func (p PriceRange) IsDefault() bool {
	return p.Min == 0 && math.IsInf(p.Max, 1)
}

// Contains reports whether price falls within [Min, Max].
func (p PriceRange) Contains(price float64) bool {
	return price >= p.Min && price <= p.Max
}

// FilterState is the single source of truth for the filter pipeline and the
// sort stage of a marketplace page.
type FilterState struct {
	Search           string
	Location         *Location
	MainCategorySlug string // "" or MainCategoryAll means unconstrained
	SubCategorySlug  string
	PriceRange       PriceRange
	Sort             SortSpec
}

// DefaultFilterState returns a filter state with no active constraint.
func DefaultFilterState() FilterState {
	return FilterState{
		MainCategorySlug: MainCategoryAll,
		PriceRange:       DefaultPriceRange(),
		Sort:             DefaultSortSpec(),
	}
}

// IsEmpty returns true if the state constrains nothing.
func (f FilterState) IsEmpty() bool {
	return f.Search == "" &&
		!f.HasLocation() &&
		!f.HasMainCategory() &&
		f.SubCategorySlug == "" &&
		f.PriceRange.IsDefault()
}

// HasLocation reports whether a country constraint is set.
func (f FilterState) HasLocation() bool {
	return f.Location != nil && f.Location.Country != ""
}

// HasMainCategory reports whether a main category constraint is set.
func (f FilterState) HasMainCategory() bool {
	return f.MainCategorySlug != "" && f.MainCategorySlug != MainCategoryAll
}

// FilterOptions holds filter parameters as they arrive from flags or forms.
type FilterOptions struct {
	Search       string
	Country      string
	City         string
	MainCategory string
	SubCategory  string
	MinPrice     float64
	MaxPrice     *float64 // nil means unbounded
	SortField    string
	SortOrder    string
}

// ToFilterState converts FilterOptions to a FilterState.
func (fo FilterOptions) ToFilterState() (FilterState, error) {
	state := DefaultFilterState()
	state.Search = fo.Search

	if fo.City != "" && fo.Country == "" {
		return FilterState{}, fmt.Errorf("city filter requires a country")
	}
	if fo.Country != "" {
		state.Location = &Location{Country: fo.Country, City: fo.City}
	}
	if fo.MainCategory != "" {
		state.MainCategorySlug = fo.MainCategory
	}
	state.SubCategorySlug = fo.SubCategory

	if fo.MinPrice < 0 {
		return FilterState{}, fmt.Errorf("invalid min price: %v", fo.MinPrice)
	}
	state.PriceRange.Min = fo.MinPrice
	if fo.MaxPrice != nil {
		if *fo.MaxPrice < 0 {
			return FilterState{}, fmt.Errorf("invalid max price: %v", *fo.MaxPrice)
		}
		state.PriceRange.Max = *fo.MaxPrice
	}

	if fo.SortField != "" {
		field, err := ParseSortField(fo.SortField)
		if err != nil {
			return FilterState{}, err
		}
		state.Sort.Field = field
	}
	if fo.SortOrder != "" {
		order, err := ParseSortOrder(fo.SortOrder)
		if err != nil {
			return FilterState{}, err
		}
		state.Sort.Order = order
	}
	return state, nil
}

// SearchMatcher matches a listing against a search query.
type SearchMatcher interface {
	Match(item ListingItem, query string) bool
}

// nameMatcher is the default search stage: case-insensitive substring of name.
type nameMatcher struct{}

func (nameMatcher) Match(item ListingItem, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(Fold(item.Name), Fold(query))
}

// DefaultSearchMatcher returns the name substring matcher used by FilterListings.
func DefaultSearchMatcher() SearchMatcher {
	return nameMatcher{}
}

// FilterListings applies the filter pipeline to items and returns a new slice.
// Stages run in order: tab, search, location, main category, sub category, price.
func FilterListings(items []ListingItem, state FilterState, tab Tab, currentUserID string) []ListingItem {
	return FilterListingsWith(items, state, tab, currentUserID, nil)
}

// FilterListingsWith is FilterListings with a custom search stage.
// A nil matcher selects DefaultSearchMatcher.
func FilterListingsWith(items []ListingItem, state FilterState, tab Tab, currentUserID string, matcher SearchMatcher) []ListingItem {
	if matcher == nil {
		matcher = DefaultSearchMatcher()
	}

	working := make([]ListingItem, len(items))
	copy(working, items)

	working = FilterByTab(working, tab, currentUserID)
	working = FilterBySearch(working, state.Search, matcher)
	working = FilterByLocation(working, state.Location)
	working = FilterByMainCategory(working, state.MainCategorySlug)
	working = FilterBySubCategory(working, state.SubCategorySlug)
	working = FilterByPriceRange(working, state.PriceRange)
	return working
}

// FilterByTab keeps, on the saved tab, only listings favorited by currentUserID.
// Other tabs pass everything.
func FilterByTab(items []ListingItem, tab Tab, currentUserID string) []ListingItem {
	if tab != TabSaved {
		return items
	}
	return keep(items, func(item ListingItem) bool {
		return item.IsFavoriteOf(currentUserID)
	})
}

// FilterBySearch keeps listings matching query. An empty query passes everything.
func FilterBySearch(items []ListingItem, query string, matcher SearchMatcher) []ListingItem {
	if query == "" {
		return items
	}
	if matcher == nil {
		matcher = DefaultSearchMatcher()
	}
	return keep(items, func(item ListingItem) bool {
		return matcher.Match(item, query)
	})
}

// FilterByLocation keeps listings located in loc. A nil location or an empty
// country passes everything.
func FilterByLocation(items []ListingItem, loc *Location) []ListingItem {
	if loc == nil || loc.Country == "" {
		return items
	}
	return keep(items, func(item ListingItem) bool {
		return MatchesLocation(item, *loc)
	})
}

// MatchesLocation compares country and city attributes case-insensitively.
// A missing attribute fails a constraint that is set.
func MatchesLocation(item ListingItem, loc Location) bool {
	if loc.Country != "" && !attributeEquals(item.Attributes, AttributeCountry, loc.Country) {
		return false
	}
	if loc.City != "" && !attributeEquals(item.Attributes, AttributeCity, loc.City) {
		return false
	}
	return true
}

// FilterByMainCategory keeps listings whose root category slug equals slug.
// "" and MainCategoryAll pass everything.
func FilterByMainCategory(items []ListingItem, slug string) []ListingItem {
	if slug == "" || slug == MainCategoryAll {
		return items
	}
	return keep(items, func(item ListingItem) bool {
		root, ok := RootCategory(item.Category)
		return ok && root.Slug == slug
	})
}

// FilterBySubCategory keeps listings whose leaf category slug equals slug exactly.
func FilterBySubCategory(items []ListingItem, slug string) []ListingItem {
	if slug == "" {
		return items
	}
	return keep(items, func(item ListingItem) bool {
		return item.Category != nil && item.Category.Slug == slug
	})
}

// FilterByPriceRange keeps listings whose price, 0 when missing, is in r.
func FilterByPriceRange(items []ListingItem, r PriceRange) []ListingItem {
	if r.IsDefault() {
		return items
	}
	return keep(items, func(item ListingItem) bool {
		return r.Contains(item.PriceOrZero())
	})
}

// Fold returns s case-folded for caseless comparison.
func Fold(s string) string {
	return cases.Fold().String(s)
}

func attributeEquals(attrs Attributes, name, want string) bool {
	values, ok := attrs[name]
	if !ok {
		return false
	}
	want = Fold(strings.TrimSpace(want))
	for _, v := range values {
		if Fold(strings.TrimSpace(v)) == want {
			return true
		}
	}
	return false
}

func keep(items []ListingItem, pred func(ListingItem) bool) []ListingItem {
	result := make([]ListingItem, 0, len(items))
	for _, item := range items {
		if pred(item) {
			result = append(result, item)
		}
	}
	return result
}
