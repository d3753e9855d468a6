package state

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/storefront/internal/domain"
)

// handleKeyMsg processes keyboard input for the TUI.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.searchMode {
		return m.handleSearchKey(msg)
	}

	switch msg.Type {
	case tea.KeyUp:
		m.moveCursor(-1)
		return m, nil
	case tea.KeyDown:
		m.moveCursor(1)
		return m, nil
	case tea.KeyTab:
		return m, m.cycleTab(1)
	case tea.KeyShiftTab:
		return m, m.cycleTab(-1)
	case tea.KeyRunes:
	default:
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Sequence(SaveSettingsCmd(m.SaveSettings), tea.Quit)
	case "j":
		m.moveCursor(1)
	case "k":
		m.moveCursor(-1)
	case "g":
		m.cursor = 0
	case "G":
		m.cursor = len(m.active().Displayed()) - 1
		m.clampCursor()
	case "/":
		m.searchMode = true
		return m, m.search.Focus()
	case "1", "2", "3":
		idx := int(msg.Runes[0] - '1')
		return m, m.selectTab(domain.AllTabs[idx])
	case "[":
		return m, m.cycleVertical(-1)
	case "]":
		return m, m.cycleVertical(1)
	case "s":
		return m, m.cycleSort()
	case "p":
		return m, m.cyclePrice()
	case "c":
		return m, m.cycleCategory()
	case "l":
		return m, m.cycleLocation()
	case "x":
		m.search.SetValue("")
		m.cursor = 0
		return m, m.active().ResetFilters()
	case "r":
		return m, m.selectTab(m.active().ActiveTab())
	case "f":
		return m, m.toggleFavorite()
	case "w":
		return m, SaveSettingsCmd(m.SaveSettings)
	}
	return m, nil
}

// handleSearchKey feeds the search box and filters as the query changes.
func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searchMode = false
		m.search.Blur()
		m.search.SetValue("")
		return m, m.applySearch()
	case tea.KeyEnter:
		m.searchMode = false
		m.search.Blur()
		return m, nil
	case tea.KeyUp:
		m.moveCursor(-1)
		return m, nil
	case tea.KeyDown:
		m.moveCursor(1)
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, tea.Batch(cmd, m.applySearch())
}

func (m *Model) applySearch() tea.Cmd {
	if m.search.Value() == m.active().Filters().Search {
		return nil
	}
	m.cursor = 0
	return m.active().SetSearch(m.search.Value())
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) selectTab(tab domain.Tab) tea.Cmd {
	m.cursor = 0
	return m.active().SetActiveTab(tab)
}

func (m *Model) cycleTab(delta int) tea.Cmd {
	current := m.active().ActiveTab()
	idx := 0
	for i, t := range domain.AllTabs {
		if t == current {
			idx = i
		}
	}
	n := len(domain.AllTabs)
	return m.selectTab(domain.AllTabs[((idx+delta)%n+n)%n])
}

func (m *Model) cycleVertical(delta int) tea.Cmd {
	slugs := m.store.Slugs()
	current := m.active().Vertical().Slug
	idx := 0
	for i, s := range slugs {
		if s == current {
			idx = i
		}
	}
	n := len(slugs)
	cmd, err := m.store.Select(slugs[((idx+delta)%n+n)%n])
	if err != nil {
		return m.report(err)
	}
	m.cursor = 0
	m.search.SetValue(m.active().Filters().Search)
	return cmd
}

// sortCycle is the order the sort key steps through.
var sortCycle = []struct {
	field domain.SortField
	order domain.SortOrder
}{
	{domain.SortByPrice, domain.SortOrderAsc},
	{domain.SortByPrice, domain.SortOrderDesc},
	{domain.SortByDate, domain.SortOrderDesc},
	{domain.SortByDate, domain.SortOrderAsc},
}

func (m *Model) cycleSort() tea.Cmd {
	spec := m.active().Filters().Sort
	next := 0
	for i, s := range sortCycle {
		if s.field == spec.Field && s.order == spec.Order {
			next = (i + 1) % len(sortCycle)
		}
	}
	spec.Field = sortCycle[next].field
	spec.Order = sortCycle[next].order
	return m.active().SetSort(spec)
}

// priceBands splits the span of the fetched prices into halves.
func (m *Model) priceBands() []domain.PriceRange {
	bands := []domain.PriceRange{domain.DefaultPriceRange()}
	facets := domain.ComputeFacets(m.active().BaseList())
	if facets.MaxPrice <= facets.MinPrice {
		return bands
	}
	mid := facets.MinPrice + (facets.MaxPrice-facets.MinPrice)/2
	return append(bands,
		domain.PriceRange{Min: facets.MinPrice, Max: mid},
		domain.PriceRange{Min: mid, Max: facets.MaxPrice},
	)
}

func (m *Model) cyclePrice() tea.Cmd {
	bands := m.priceBands()
	current := m.active().Filters().PriceRange
	next := 0
	for i, b := range bands {
		if b == current {
			next = (i + 1) % len(bands)
		}
	}
	m.cursor = 0
	return m.active().SetPriceRange(bands[next])
}

func (m *Model) cycleCategory() tea.Cmd {
	options := []string{domain.MainCategoryAll}
	for _, c := range domain.ComputeFacets(m.active().BaseList()).MainCategories {
		options = append(options, c.Slug)
	}
	current := m.active().Filters().MainCategorySlug
	next := 0
	for i, o := range options {
		if o == current {
			next = (i + 1) % len(options)
		}
	}
	m.cursor = 0
	return m.active().SetMainCategory(options[next])
}

// locationOptions lists "any", then each country followed by its cities.
func (m *Model) locationOptions() []*domain.Location {
	options := []*domain.Location{nil}
	facets := domain.ComputeFacets(m.active().BaseList())
	for _, country := range facets.Countries {
		options = append(options, &domain.Location{Country: country})
		for _, city := range facets.Cities[country] {
			options = append(options, &domain.Location{Country: country, City: city})
		}
	}
	return options
}

func (m *Model) cycleLocation() tea.Cmd {
	options := m.locationOptions()
	current := m.active().Filters().Location
	next := 0
	for i, o := range options {
		if sameLocation(o, current) {
			next = (i + 1) % len(options)
		}
	}
	m.cursor = 0
	return m.active().SetLocation(options[next])
}

func sameLocation(a, b *domain.Location) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (m *Model) toggleFavorite() tea.Cmd {
	if m.favorites == nil {
		return nil
	}
	user := m.identity()
	if !user.HasUser() {
		m.errorHandler.Info("Sign in to save listings")
		return m.statusTick()
	}
	item, ok := m.selected()
	if !ok {
		return nil
	}

	toggler := m.favorites
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), favoriteTimeout)
		defer cancel()
		favorited, err := toggler.ToggleFavorite(ctx, item.ID, user.UserID)
		return favoriteToggledMsg{ListingID: item.ID, Favorited: favorited, Err: err}
	}
}

func (m *Model) handleFavoriteToggled(msg favoriteToggledMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.errorHandler.Error(fmt.Sprintf("favorite %s: %v", msg.ListingID, msg.Err))
		return m, m.statusTick()
	}
	if msg.Favorited {
		m.errorHandler.Success(fmt.Sprintf("Saved %s", msg.ListingID))
	} else {
		m.errorHandler.Success(fmt.Sprintf("Removed %s from saved", msg.ListingID))
	}
	// Listings changed underneath the caches: reload the current tab.
	return m, tea.Batch(m.active().SetActiveTab(m.active().ActiveTab()), m.statusTick())
}
