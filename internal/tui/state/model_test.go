package state

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/storefront/internal/domain"
	tuierrors "github.com/cristianoliveira/storefront/internal/errors"
	"github.com/cristianoliveira/storefront/internal/logging"
	"github.com/cristianoliveira/storefront/internal/pipeline"
	"github.com/cristianoliveira/storefront/internal/session"
	"github.com/cristianoliveira/storefront/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	mu    sync.Mutex
	byCat map[string][]domain.ListingItem
	err   error
	calls []string
}

func (f *stubFetcher) FetchByCategory(_ context.Context, cat string) ([]domain.ListingItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, cat)
	return f.byCat[cat], f.err
}

func (f *stubFetcher) FetchByCategoryAndUser(_ context.Context, cat, user string) ([]domain.ListingItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, cat+"/"+user)
	var out []domain.ListingItem
	for _, item := range f.byCat[cat] {
		if item.Metadata[domain.MetadataOwner] == user {
			out = append(out, item)
		}
	}
	return out, f.err
}

func (f *stubFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type stubToggler struct {
	calls []string
	err   error
}

func (s *stubToggler) ToggleFavorite(_ context.Context, listingID, userID string) (bool, error) {
	s.calls = append(s.calls, listingID+"/"+userID)
	return true, s.err
}

var testVerticals = []domain.Vertical{
	{Slug: "real-estate", Title: "Real estate", CategorySlug: "real-estate"},
	{Slug: "art", Title: "Art", CategorySlug: "art"},
}

func catalog() map[string][]domain.ListingItem {
	return map[string][]domain.ListingItem{
		"real-estate": {
			{
				ID: "1", Name: "Seaside Villa", Price: domain.Float(900),
				Category:   &domain.Category{Slug: "houses", Parent: &domain.Category{Slug: "real-estate"}},
				Attributes: domain.Attributes{domain.AttributeCountry: {"Portugal"}, domain.AttributeCity: {"Lisbon"}},
				Metadata:   map[string]string{domain.MetadataFavorites: `[{"_id":"U1"}]`, domain.MetadataOwner: "U2"},
			},
			{
				ID: "2", Name: "City Loft", Price: domain.Float(300),
				Category:   &domain.Category{Slug: "apartments", Parent: &domain.Category{Slug: "real-estate"}},
				Attributes: domain.Attributes{domain.AttributeCountry: {"Spain"}},
				Metadata:   map[string]string{domain.MetadataOwner: "U1"},
			},
			{
				ID: "3", Name: "Mountain Villa", Price: domain.Float(500),
				Category: &domain.Category{Slug: "houses", Parent: &domain.Category{Slug: "real-estate"}},
			},
		},
		"art": {
			{ID: "a1", Name: "Harbour at dusk", Price: domain.Float(1200)},
		},
	}
}

type harness struct {
	model   *Model
	fetcher *stubFetcher
	toggler *stubToggler
	saved   []*settings.Settings
}

func newHarness(t *testing.T, identity session.Identity) *harness {
	t.Helper()

	h := &harness{fetcher: &stubFetcher{byCat: catalog()}, toggler: &stubToggler{}}
	sess := session.Static(identity)
	store := pipeline.NewStorefront(testVerticals, h.fetcher, sess, pipeline.WithLogger(logging.Noop()))

	m, err := NewModel(Options{
		Storefront: store,
		Session:    sess,
		Favorites:  h.toggler,
		Save: func(s *settings.Settings) error {
			h.saved = append(h.saved, s)
			return nil
		},
	})
	require.NoError(t, err)
	m.statusTick = func() tea.Cmd { return nil }
	h.model = m

	h.drive(m.Init())
	return h
}

// drive runs cmd and feeds the messages the browser handles back into it.
func (h *harness) drive(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			h.drive(c)
		}
	case pipeline.ListingsFetchedMsg, pipeline.SessionResolvedMsg, favoriteToggledMsg,
		saveSettingsSuccessMsg, saveSettingsFailedMsg:
		_, next := h.model.Update(msg)
		h.drive(next)
	}
}

func (h *harness) press(keys ...string) {
	for _, k := range keys {
		_, cmd := h.model.Update(keyMsg(k))
		h.drive(cmd)
	}
}

func (h *harness) displayed() []string {
	items := h.model.active().Displayed()
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func TestNewModelRequiresStorefront(t *testing.T) {
	_, err := NewModel(Options{})
	assert.Error(t, err)

	_, err = NewModel(Options{Storefront: pipeline.NewStorefront(nil, nil, nil)})
	assert.Error(t, err)
}

func TestInitFetchesActiveVertical(t *testing.T) {
	h := newHarness(t, session.Anonymous)

	assert.Equal(t, []string{"real-estate"}, h.fetcher.calls)
	assert.Equal(t, []string{"2", "3", "1"}, h.displayed(), "default sort is price ascending")

	view := h.model.View()
	assert.Contains(t, view, "Real estate")
	assert.Contains(t, view, "City Loft")
	assert.Contains(t, view, "Explore")
}

func TestCursorMovementIsClamped(t *testing.T) {
	h := newHarness(t, session.Anonymous)

	h.press("k")
	assert.Equal(t, 0, h.model.Cursor())
	h.press("j", "j", "j", "j")
	assert.Equal(t, 2, h.model.Cursor())
	h.press("g")
	assert.Equal(t, 0, h.model.Cursor())
	h.press("G")
	assert.Equal(t, 2, h.model.Cursor())
}

func TestTabSwitching(t *testing.T) {
	h := newHarness(t, session.Identity{UserID: "U1"})

	h.press("tab")
	assert.Equal(t, domain.TabSaved, h.model.active().ActiveTab())
	assert.Equal(t, []string{"1"}, h.displayed())

	h.press("3")
	assert.Equal(t, domain.TabMyPosts, h.model.active().ActiveTab())
	assert.Equal(t, []string{"2"}, h.displayed())
	assert.Contains(t, h.fetcher.calls, "real-estate/U1")

	h.press("1")
	assert.Equal(t, domain.TabExplore, h.model.active().ActiveTab())
	assert.Len(t, h.displayed(), 3)
}

func TestMyPostsSignedOut(t *testing.T) {
	h := newHarness(t, session.Anonymous)
	h.press("3")

	assert.Empty(t, h.displayed())
	assert.Contains(t, h.model.View(), "Sign in")
}

func TestSearchMode(t *testing.T) {
	h := newHarness(t, session.Anonymous)
	calls := h.fetcher.callCount()

	h.press("/")
	require.True(t, h.model.SearchMode())
	h.press("v", "i", "l", "l", "a")
	assert.Equal(t, []string{"3", "1"}, h.displayed())
	assert.Equal(t, calls, h.fetcher.callCount(), "search refilters the cached list")

	h.press("enter")
	assert.False(t, h.model.SearchMode())
	assert.Equal(t, "villa", h.model.active().Filters().Search)

	h.press("/", "esc")
	assert.Equal(t, "", h.model.active().Filters().Search)
	assert.Len(t, h.displayed(), 3)
}

func TestSortCycle(t *testing.T) {
	h := newHarness(t, session.Anonymous)

	h.press("s")
	assert.Equal(t, domain.SortOrderDesc, h.model.active().Filters().Sort.Order)
	assert.Equal(t, []string{"1", "3", "2"}, h.displayed())

	h.press("s")
	assert.Equal(t, domain.SortByDate, h.model.active().Filters().Sort.Field)
	h.press("s", "s")
	assert.Equal(t, domain.DefaultSortSpec(), h.model.active().Filters().Sort)
}

func TestFilterCycles(t *testing.T) {
	h := newHarness(t, session.Anonymous)

	h.press("p")
	assert.Equal(t, domain.PriceRange{Min: 300, Max: 600}, h.model.active().Filters().PriceRange)
	assert.Equal(t, []string{"2", "3"}, h.displayed())

	h.press("x")
	assert.True(t, h.model.active().Filters().PriceRange.IsDefault())

	h.press("c")
	assert.NotEqual(t, domain.MainCategoryAll, h.model.active().Filters().MainCategorySlug)

	h.press("x", "l")
	loc := h.model.active().Filters().Location
	require.NotNil(t, loc)
	assert.Equal(t, "Portugal", loc.Country)
	assert.Equal(t, []string{"1"}, h.displayed())

	h.press("l")
	assert.Equal(t, &domain.Location{Country: "Portugal", City: "Lisbon"}, h.model.active().Filters().Location)
}

func TestVerticalSwitch(t *testing.T) {
	h := newHarness(t, session.Anonymous)

	h.press("]")
	assert.Equal(t, "art", h.model.active().Vertical().Slug)
	assert.Equal(t, []string{"a1"}, h.displayed())

	h.press("[")
	assert.Equal(t, "real-estate", h.model.active().Vertical().Slug)
	assert.Equal(t, []string{"real-estate", "art"}, h.fetcher.calls, "returning keeps the fetched cache")
}

func TestFetchFailureIsReported(t *testing.T) {
	h := newHarness(t, session.Anonymous)
	h.fetcher.err = errors.New("boom")

	h.press("r")
	assert.Empty(t, h.displayed())

	msg, ok := h.model.ErrorHandler().GetLatest()
	require.True(t, ok)
	assert.Equal(t, tuierrors.MessageTypeWarning, msg.Type)
	assert.Contains(t, msg.Text, "boom")
}

func TestToggleFavorite(t *testing.T) {
	h := newHarness(t, session.Identity{UserID: "U9"})
	calls := h.fetcher.callCount()

	h.press("j", "f")
	assert.Equal(t, []string{"3/U9"}, h.toggler.calls)
	assert.Greater(t, h.fetcher.callCount(), calls, "the tab is reloaded")

	msg, ok := h.model.ErrorHandler().GetLatest()
	require.True(t, ok)
	assert.Equal(t, tuierrors.MessageTypeSuccess, msg.Type)
}

func TestToggleFavoriteNeedsUser(t *testing.T) {
	h := newHarness(t, session.Anonymous)

	h.press("f")
	assert.Empty(t, h.toggler.calls)
	msg, ok := h.model.ErrorHandler().GetLatest()
	require.True(t, ok)
	assert.Contains(t, msg.Text, "Sign in")
}

func TestToggleFavoriteFailure(t *testing.T) {
	h := newHarness(t, session.Identity{UserID: "U9"})
	h.toggler.err = errors.New("locked")

	h.press("f")
	msg, ok := h.model.ErrorHandler().GetLatest()
	require.True(t, ok)
	assert.Equal(t, tuierrors.MessageTypeError, msg.Type)
	assert.Contains(t, msg.Text, "locked")
}

func TestSaveSettings(t *testing.T) {
	h := newHarness(t, session.Anonymous)

	h.press("]", "s", "w")
	require.Len(t, h.saved, 1)
	assert.Equal(t, "art", h.saved[0].Vertical)
	assert.Equal(t, "explore", h.saved[0].Tab)
	assert.Equal(t, "price:desc", h.saved[0].Sort)

	h.press("w")
	assert.Len(t, h.saved, 1, "unchanged settings are not written again")
}

func TestWindowSize(t *testing.T) {
	h := newHarness(t, session.Anonymous)
	h.model.Update(tea.WindowSizeMsg{Width: 120, Height: 30})

	assert.Equal(t, 120, h.model.viewport.Width)
	assert.Equal(t, 30-chromeLines, h.model.viewport.Height)
}
