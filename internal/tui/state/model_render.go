package state

import (
	"fmt"
	"math"
	"strings"

	"github.com/cristianoliveira/storefront/internal/domain"
	"github.com/cristianoliveira/storefront/internal/format"
	"github.com/cristianoliveira/storefront/internal/tui/render"
)

// View renders the TUI.
func (m *Model) View() string {
	c := m.active()
	var s strings.Builder

	verticals := make([]render.TabState, 0, len(m.store.Slugs()))
	for _, slug := range m.store.Slugs() {
		title := slug
		if v, ok := m.store.Controller(slug); ok {
			title = v.Vertical().Title
		}
		verticals = append(verticals, render.TabState{Label: title, Active: slug == c.Vertical().Slug})
	}
	s.WriteString(render.Tabs(verticals))
	s.WriteString("\n")

	tabs := make([]render.TabState, 0, len(domain.AllTabs))
	for i, t := range domain.AllTabs {
		tabs = append(tabs, render.TabState{
			Label:  fmt.Sprintf("%d %s (%d)", i+1, t.Label(), m.tabCount(t)),
			Active: t == c.ActiveTab(),
		})
	}
	s.WriteString(render.Tabs(tabs))
	s.WriteString("\n")

	if m.searchMode || m.search.Value() != "" {
		s.WriteString(m.search.View())
	}
	s.WriteString("\n")

	s.WriteString(render.Header(m.viewportWidth()))
	s.WriteString("\n")

	m.updateViewportContent()
	s.WriteString(m.viewport.View())
	s.WriteString("\n")

	s.WriteString(render.Footer(m.footerState()))

	if msg, ok := m.errorHandler.Latest(errorClearDuration); ok {
		s.WriteString("\n")
		s.WriteString(render.Status(msg))
	}
	return s.String()
}

// tabCount is the displayed count of the active tab; other tabs show
// what their cache holds.
func (m *Model) tabCount(t domain.Tab) int {
	c := m.active()
	if t == c.ActiveTab() {
		return len(c.Displayed())
	}
	return len(c.Cache(t).BaseList)
}

func (m *Model) viewportWidth() int {
	if m.width == 0 {
		return defaultViewportWidth
	}
	return m.width
}

// updateViewportContent renders the rows and scrolls the cursor into view.
func (m *Model) updateViewportContent() {
	c := m.active()
	items := c.Displayed()
	user := m.identity()

	if len(items) == 0 {
		m.viewport.SetContent(render.Empty(c.Loading(), c.ActiveTab(), user.HasUser()))
		m.viewport.GotoTop()
		return
	}

	now := m.now()
	rows := make([]string, len(items))
	for i, item := range items {
		rows[i] = render.Row(render.RowState{
			Item:     item,
			Favorite: item.IsFavoriteOf(user.UserID),
			Width:    m.viewportWidth(),
			Selected: i == m.cursor,
			Now:      now,
		})
	}
	m.viewport.SetContent(strings.Join(rows, "\n"))

	if m.cursor < m.viewport.YOffset {
		m.viewport.SetYOffset(m.cursor)
	} else if m.cursor >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

func (m *Model) footerState() render.FooterState {
	c := m.active()
	f := c.Filters()
	state := render.FooterState{
		SearchMode:  m.searchMode,
		SearchQuery: m.search.Value(),
		SortLabel:   f.Sort.String(),
		Loading:     c.Loading(),
		SignedIn:    m.favorites != nil && m.identity().HasUser(),
		Width:       m.viewportWidth(),
	}
	if !f.PriceRange.IsDefault() {
		state.PriceLabel = priceRangeLabel(f.PriceRange)
	}
	if f.HasMainCategory() {
		state.Category = f.MainCategorySlug
	}
	if f.HasLocation() {
		state.Location = f.Location.Country
		if f.Location.City != "" {
			state.Location = f.Location.City + ", " + f.Location.Country
		}
	}
	return state
}

func priceRangeLabel(r domain.PriceRange) string {
	lo := format.PriceText(domain.ListingItem{Price: domain.Float(r.Min)})
	if math.IsInf(r.Max, 1) {
		return lo + "+"
	}
	return lo + " - " + format.PriceText(domain.ListingItem{Price: domain.Float(r.Max)})
}
