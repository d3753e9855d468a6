package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categoryChain(slugs ...string) *Category {
	// slugs are given root first
	var parent *Category
	for _, s := range slugs {
		parent = &Category{Slug: s, Name: s, Parent: parent}
	}
	return parent
}

func sampleListings() []ListingItem {
	return []ListingItem{
		{
			ID:       "1",
			Name:     "Sunny Loft in Lisbon",
			Slug:     "sunny-loft",
			Category: categoryChain("real-estate", "apartments"),
			Price:    Float(250000),
			Attributes: Attributes{
				AttributeCountry: {"Portugal"},
				AttributeCity:    {"Lisbon"},
			},
			Metadata: map[string]string{MetadataFavorites: `[{"_id":"U1"}]`},
		},
		{
			ID:       "2",
			Name:     "Oil painting, harbour at dusk",
			Slug:     "harbour-dusk",
			Category: categoryChain("art", "paintings", "oil"),
			Price:    Float(1200),
			Attributes: Attributes{
				AttributeCountry: {"France"},
				AttributeCity:    {"Paris"},
			},
			Metadata: map[string]string{MetadataFavorites: `[]`},
		},
		{
			ID:       "3",
			Name:     "Vintage watch",
			Slug:     "vintage-watch",
			Category: categoryChain("luxury-goods", "watches"),
			Attributes: Attributes{
				AttributeCountry: {"portugal"},
			},
			Metadata: map[string]string{MetadataFavorites: `not-json`},
		},
	}
}

func ids(items []ListingItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestFilterState_IsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		state func() FilterState
		want  bool
	}{
		{"default", DefaultFilterState, true},
		{"search", func() FilterState { s := DefaultFilterState(); s.Search = "x"; return s }, false},
		{"location", func() FilterState { s := DefaultFilterState(); s.Location = &Location{Country: "PT"}; return s }, false},
		{"empty country", func() FilterState { s := DefaultFilterState(); s.Location = &Location{}; return s }, true},
		{"main category", func() FilterState { s := DefaultFilterState(); s.MainCategorySlug = "art"; return s }, false},
		{"main category all", func() FilterState { s := DefaultFilterState(); s.MainCategorySlug = MainCategoryAll; return s }, true},
		{"sub category", func() FilterState { s := DefaultFilterState(); s.SubCategorySlug = "oil"; return s }, false},
		{"price", func() FilterState { s := DefaultFilterState(); s.PriceRange.Min = 10; return s }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state().IsEmpty())
		})
	}
}

func TestFilterListings_IdentityWhenUnconstrained(t *testing.T) {
	base := sampleListings()
	got := FilterListings(base, DefaultFilterState(), TabExplore, "")
	assert.Equal(t, base, got)
}

func TestFilterListings_DoesNotMutateInput(t *testing.T) {
	base := sampleListings()
	before := ids(base)

	state := DefaultFilterState()
	state.Search = "watch"
	got := FilterListings(base, state, TabExplore, "")

	assert.Equal(t, []string{"3"}, ids(got))
	assert.Equal(t, before, ids(base))
}

func TestFilterBySearch(t *testing.T) {
	base := sampleListings()
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty passes all", "", []string{"1", "2", "3"}},
		{"lowercase substring", "loft", []string{"1"}},
		{"uppercase substring", "HARBOUR", []string{"2"}},
		{"mixed case", "ViNtAgE", []string{"3"}},
		{"no match", "castle", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterBySearch(base, tt.query, nil)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterBySearch_SubstringOfNameIsRetained(t *testing.T) {
	for _, item := range sampleListings() {
		name := item.Name
		for start := 0; start < len(name); start += 3 {
			end := start + 4
			if end > len(name) {
				end = len(name)
			}
			query := name[start:end]
			got := FilterBySearch([]ListingItem{item}, query, nil)
			require.Len(t, got, 1, "query %q should match %q", query, name)
		}
	}
}

func TestFilterByLocation(t *testing.T) {
	base := sampleListings()
	tests := []struct {
		name string
		loc  *Location
		want []string
	}{
		{"nil passes all", nil, []string{"1", "2", "3"}},
		{"country case-insensitive", &Location{Country: "PORTUGAL"}, []string{"1", "3"}},
		{"country and city", &Location{Country: "portugal", City: "lisbon"}, []string{"1"}},
		{"city missing on item fails", &Location{Country: "Portugal", City: "Porto"}, []string{}},
		{"unknown country", &Location{Country: "Spain"}, []string{}},
		{"empty country ignores city", &Location{City: "Paris"}, []string{"1", "2", "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterByLocation(base, tt.loc)))
		})
	}
}

func TestFilterByMainCategory(t *testing.T) {
	item := ListingItem{ID: "x", Category: categoryChain("art", "mid", "leaf")}
	base := []ListingItem{item}

	assert.Equal(t, []string{"x"}, ids(FilterByMainCategory(base, "art")))
	assert.Empty(t, FilterByMainCategory(base, "real-estate"))
	assert.Equal(t, []string{"x"}, ids(FilterByMainCategory(base, MainCategoryAll)))
	assert.Equal(t, []string{"x"}, ids(FilterByMainCategory(base, "")))
}

func TestFilterByMainCategory_FailsClosed(t *testing.T) {
	cyclic := &Category{Slug: "a"}
	cyclic.Parent = &Category{Slug: "b", Parent: cyclic}

	base := []ListingItem{
		{ID: "no-category"},
		{ID: "cyclic", Category: cyclic},
	}
	assert.Empty(t, FilterByMainCategory(base, "a"))
	assert.Empty(t, FilterByMainCategory(base, "b"))
}

func TestFilterBySubCategory(t *testing.T) {
	base := sampleListings()
	assert.Equal(t, []string{"2"}, ids(FilterBySubCategory(base, "oil")))
	// no ancestor walk
	assert.Empty(t, FilterBySubCategory(base, "paintings"))
	assert.Equal(t, []string{"1", "2", "3"}, ids(FilterBySubCategory(base, "")))
}

func TestFilterByPriceRange(t *testing.T) {
	prices := []float64{0, 50, 100, 150, 200}
	base := make([]ListingItem, len(prices))
	for i, p := range prices {
		base[i] = ListingItem{ID: string(rune('a' + i)), Price: Float(p)}
	}

	got := FilterByPriceRange(base, PriceRange{Min: 50, Max: 150})
	require.Len(t, got, 3)
	for i, want := range []float64{50, 100, 150} {
		assert.Equal(t, want, got[i].PriceOrZero())
	}
}

func TestFilterByPriceRange_NilPriceIsZero(t *testing.T) {
	base := []ListingItem{{ID: "contact-for-price"}}

	assert.Len(t, FilterByPriceRange(base, PriceRange{Min: 0, Max: 10}), 1)
	assert.Len(t, FilterByPriceRange(base, PriceRange{Min: 0, Max: math.Inf(1)}), 1)
	assert.Empty(t, FilterByPriceRange(base, PriceRange{Min: 1, Max: 10}))
}

func TestFilterByPriceRange_InvertedRangeUsedAsGiven(t *testing.T) {
	base := []ListingItem{{ID: "a", Price: Float(5)}}
	assert.Empty(t, FilterByPriceRange(base, PriceRange{Min: 10, Max: 1}))
}

func TestFilterByTab_Saved(t *testing.T) {
	base := []ListingItem{
		{ID: "fav", Metadata: map[string]string{MetadataFavorites: `[{"_id":"U1"}]`}},
		{ID: "empty", Metadata: map[string]string{MetadataFavorites: `[]`}},
		{ID: "malformed", Metadata: map[string]string{MetadataFavorites: `not-json`}},
		{ID: "missing"},
	}

	assert.Equal(t, []string{"fav"}, ids(FilterByTab(base, TabSaved, "U1")))
	assert.Empty(t, FilterByTab(base, TabSaved, ""))
	assert.Len(t, FilterByTab(base, TabExplore, "U1"), 4)
	assert.Len(t, FilterByTab(base, TabMyPosts, "U1"), 4)
}

func TestFilterListings_StagesCombine(t *testing.T) {
	base := sampleListings()
	state := DefaultFilterState()
	state.Location = &Location{Country: "portugal"}
	state.MainCategorySlug = "real-estate"
	state.PriceRange = PriceRange{Min: 100000, Max: 300000}

	assert.Equal(t, []string{"1"}, ids(FilterListings(base, state, TabExplore, "")))
	assert.Equal(t, []string{"1"}, ids(FilterListings(base, state, TabSaved, "U1")))
	assert.Empty(t, FilterListings(base, state, TabSaved, "U2"))
}

type prefixMatcher struct{}

func (prefixMatcher) Match(item ListingItem, query string) bool {
	return len(item.Slug) >= len(query) && item.Slug[:len(query)] == query
}

func TestFilterListingsWith_CustomMatcher(t *testing.T) {
	state := DefaultFilterState()
	state.Search = "harbour"
	got := FilterListingsWith(sampleListings(), state, TabExplore, "", prefixMatcher{})
	assert.Equal(t, []string{"2"}, ids(got))
}

func TestFilterOptions_ToFilterState(t *testing.T) {
	t.Run("valid options", func(t *testing.T) {
		state, err := FilterOptions{
			Search:       "loft",
			Country:      "Portugal",
			City:         "Lisbon",
			MainCategory: "real-estate",
			SubCategory:  "apartments",
			MinPrice:     10,
			MaxPrice:     Float(500),
			SortField:    "date",
			SortOrder:    "desc",
		}.ToFilterState()
		require.NoError(t, err)
		assert.Equal(t, "loft", state.Search)
		assert.Equal(t, &Location{Country: "Portugal", City: "Lisbon"}, state.Location)
		assert.Equal(t, "real-estate", state.MainCategorySlug)
		assert.Equal(t, "apartments", state.SubCategorySlug)
		assert.Equal(t, PriceRange{Min: 10, Max: 500}, state.PriceRange)
		assert.Equal(t, SortByDate, state.Sort.Field)
		assert.Equal(t, SortOrderDesc, state.Sort.Order)
	})

	t.Run("defaults", func(t *testing.T) {
		state, err := FilterOptions{}.ToFilterState()
		require.NoError(t, err)
		assert.True(t, state.IsEmpty())
		assert.Equal(t, MainCategoryAll, state.MainCategorySlug)
	})

	t.Run("city without country", func(t *testing.T) {
		_, err := FilterOptions{City: "Paris"}.ToFilterState()
		assert.Error(t, err)
	})

	t.Run("zero max price is a bound", func(t *testing.T) {
		state, err := FilterOptions{MaxPrice: Float(0)}.ToFilterState()
		require.NoError(t, err)
		assert.Equal(t, PriceRange{Min: 0, Max: 0}, state.PriceRange)
		assert.False(t, state.IsEmpty())
	})

	t.Run("negative max price", func(t *testing.T) {
		_, err := FilterOptions{MaxPrice: Float(-5)}.ToFilterState()
		assert.Error(t, err)
	})

	t.Run("negative min price", func(t *testing.T) {
		_, err := FilterOptions{MinPrice: -1}.ToFilterState()
		assert.Error(t, err)
	})

	t.Run("invalid sort", func(t *testing.T) {
		_, err := FilterOptions{SortField: "name"}.ToFilterState()
		assert.Error(t, err)
		_, err = FilterOptions{SortOrder: "up"}.ToFilterState()
		assert.Error(t, err)
	})
}
