package settings

import (
	"math"

	"github.com/cristianoliveira/storefront/internal/domain"
)

// BrowseState is the browser state that survives restarts, expressed in
// domain types. It keeps the browser from depending on the file layout.
type BrowseState struct {
	Vertical domain.Vertical
	Tab      domain.Tab
	Filters  domain.FilterState
}

// ToBrowseState resolves persisted strings into domain values. Unknown or
// empty values fall back to the defaults; this never fails.
func (s *Settings) ToBrowseState() BrowseState {
	if s == nil {
		s = DefaultSettings()
	}
	state := BrowseState{
		Tab:     domain.NormalizeTab(s.Tab),
		Filters: domain.DefaultFilterState(),
	}

	vertical, err := domain.LookupVertical(s.Vertical)
	if err != nil {
		vertical = domain.Verticals()[0]
	}
	state.Vertical = vertical

	if spec, err := domain.ParseSortSpec(s.Sort); err == nil {
		state.Filters.Sort = spec
	}
	if df, err := domain.ParseDateField(s.DateField); err == nil {
		state.Filters.Sort.DateField = df
	}

	f := s.Filters
	if f.Country != "" {
		state.Filters.Location = &domain.Location{Country: f.Country, City: f.City}
	}
	if f.MainCategory != "" {
		state.Filters.MainCategorySlug = f.MainCategory
	}
	state.Filters.SubCategorySlug = f.SubCategory
	if f.MinPrice > 0 {
		state.Filters.PriceRange.Min = f.MinPrice
	}
	if f.MaxPrice != nil {
		state.Filters.PriceRange.Max = *f.MaxPrice
	}
	return state
}

// FromBrowseState captures the browser state for persistence. The search
// text is dropped.
func FromBrowseState(state BrowseState) *Settings {
	s := &Settings{
		Vertical:  state.Vertical.Slug,
		Tab:       state.Tab.String(),
		Sort:      state.Filters.Sort.String(),
		DateField: string(state.Filters.Sort.DateField),
		Filters: Filters{
			MainCategory: state.Filters.MainCategorySlug,
			SubCategory:  state.Filters.SubCategorySlug,
			MinPrice:     state.Filters.PriceRange.Min,
		},
	}
	if loc := state.Filters.Location; loc != nil {
		s.Filters.Country = loc.Country
		s.Filters.City = loc.City
	}
	if max := state.Filters.PriceRange.Max; !math.IsInf(max, 1) {
		s.Filters.MaxPrice = domain.Float(max)
	}
	return s
}
