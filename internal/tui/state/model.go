// Package state holds the bubbletea model of the listing browser.
package state

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/storefront/internal/domain"
	"github.com/cristianoliveira/storefront/internal/errors"
	"github.com/cristianoliveira/storefront/internal/pipeline"
	"github.com/cristianoliveira/storefront/internal/session"
	"github.com/cristianoliveira/storefront/internal/settings"
)

const (
	chromeLines           = 8
	defaultViewportWidth  = 80
	defaultViewportHeight = 16
	errorClearDuration    = 5 * time.Second
	favoriteTimeout       = 10 * time.Second
)

// FavoriteToggler flips the favorite flag of a listing for a user.
type FavoriteToggler interface {
	ToggleFavorite(ctx context.Context, listingID, userID string) (bool, error)
}

// Options configures NewModel.
type Options struct {
	// Storefront is required and must hold at least one vertical.
	Storefront *pipeline.Storefront
	// Session supplies the current user; nil means anonymous.
	Session session.Provider
	// Startup runs alongside the first fetch, typically session resolution.
	Startup tea.Cmd
	// Favorites enables the favorite key when set.
	Favorites FavoriteToggler
	// Loaded is the settings the browser started from.
	Loaded *settings.Settings
	// Save persists settings; defaults to settings.Save.
	Save func(*settings.Settings) error
}

// Model represents the TUI model for bubbletea.
type Model struct {
	store     *pipeline.Storefront
	session   session.Provider
	startup   tea.Cmd
	favorites FavoriteToggler

	search     textinput.Model
	searchMode bool
	viewport   viewport.Model
	cursor     int
	width      int
	height     int

	errorHandler *errors.TUIHandler
	settingsSvc  *settingsService
	statusTick   func() tea.Cmd
	now          func() time.Time
}

// NewModel creates the browser model.
func NewModel(opts Options) (*Model, error) {
	if opts.Storefront == nil || opts.Storefront.Active() == nil {
		return nil, fmt.Errorf("browser needs at least one vertical")
	}
	sess := opts.Session
	if sess == nil {
		sess = session.Static(session.Anonymous)
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search listings"
	search.Cursor.SetMode(cursor.CursorStatic)
	search.SetValue(opts.Storefront.Active().Filters().Search)

	m := &Model{
		store:       opts.Storefront,
		session:     sess,
		startup:     opts.Startup,
		favorites:   opts.Favorites,
		search:      search,
		viewport:    viewport.New(defaultViewportWidth, defaultViewportHeight),
		settingsSvc: newSettingsService(opts.Loaded, opts.Save),
		now:         time.Now,
	}
	m.errorHandler = errors.NewTUIHandler(nil)
	m.statusTick = func() tea.Cmd {
		return tea.Tick(errorClearDuration, func(time.Time) tea.Msg { return statusExpiredMsg{} })
	}
	return m, nil
}

// Init resolves the session and evaluates the active tab cache.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.startup, m.active().Refresh())
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeLines, 1)
		return m, nil
	case pipeline.ListingsFetchedMsg:
		cmd := m.store.Update(msg)
		m.clampCursor()
		if msg.Err != nil && m.isCurrent(msg) {
			return m, tea.Batch(cmd, m.report(m.active().LastError()))
		}
		return m, cmd
	case pipeline.SessionResolvedMsg:
		cmd := m.store.Update(msg)
		m.clampCursor()
		if msg.Err != nil {
			m.errorHandler.Warning(fmt.Sprintf("signed out: %v", msg.Err))
			return m, tea.Batch(cmd, m.statusTick())
		}
		return m, cmd
	case favoriteToggledMsg:
		return m.handleFavoriteToggled(msg)
	case saveSettingsSuccessMsg:
		m.errorHandler.Success("Settings saved")
		return m, m.statusTick()
	case saveSettingsFailedMsg:
		m.errorHandler.Error(fmt.Sprintf("Failed to save settings: %v", msg.err))
		return m, m.statusTick()
	case statusExpiredMsg:
		return m, nil
	}
	return m, nil
}

// isCurrent reports whether a fetch result was applied to the visible tab.
func (m *Model) isCurrent(msg pipeline.ListingsFetchedMsg) bool {
	c := m.active()
	return msg.Vertical == c.Vertical().Slug && msg.Epoch == c.Epoch() && msg.Tab == c.ActiveTab()
}

func (m *Model) report(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	errors.Report(m.errorHandler, err)
	return m.statusTick()
}

func (m *Model) active() *pipeline.Controller {
	return m.store.Active()
}

func (m *Model) identity() session.Identity {
	return m.session.Current()
}

func (m *Model) selected() (domain.ListingItem, bool) {
	items := m.active().Displayed()
	if m.cursor < 0 || m.cursor >= len(items) {
		return domain.ListingItem{}, false
	}
	return items[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.active().Displayed())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// ToState captures the browser state for persistence.
func (m *Model) ToState() settings.BrowseState {
	c := m.active()
	return settings.BrowseState{
		Vertical: c.Vertical(),
		Tab:      c.ActiveTab(),
		Filters:  c.Filters(),
	}
}

// Cursor returns the selected row index.
func (m *Model) Cursor() int { return m.cursor }

// SearchMode reports whether the search box has focus.
func (m *Model) SearchMode() bool { return m.searchMode }

// ErrorHandler returns the status bar message sink.
func (m *Model) ErrorHandler() *errors.TUIHandler { return m.errorHandler }
