// Package pipeline drives the listing page of one marketplace vertical:
// tab state, fetch-once caching, filtering and sorting.
//
// A Controller is owned by a single event loop (the bubbletea runtime or a
// CLI command) and holds no locks. Fetches run off the loop as tea.Cmd values
// and report back with ListingsFetchedMsg.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/storefront/internal/colors"
	"github.com/cristianoliveira/storefront/internal/domain"
	"github.com/cristianoliveira/storefront/internal/logging"
	"github.com/cristianoliveira/storefront/internal/session"
	"github.com/google/uuid"
)

// DefaultFetchTimeout bounds a single fetch when no timeout is configured.
const DefaultFetchTimeout = 15 * time.Second

// Phase is the state of the active tab.
type Phase int

const (
	// PhaseIdle: not fetched and no fetch in flight.
	PhaseIdle Phase = iota
	// PhaseLoading: a fetch is in flight, or myposts waits for the session.
	PhaseLoading
	// PhaseReady: the base list is cached.
	PhaseReady
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	default:
		return "idle"
	}
}

// Controller is the listing pipeline of one vertical.
type Controller struct {
	vertical     domain.Vertical
	fetcher      domain.ListingFetcher
	session      session.Provider
	matcher      domain.SearchMatcher
	logger       logging.Logger
	timeout      time.Duration
	baseCtx      context.Context
	newRequestID func() string

	activeTab domain.Tab
	epoch     uint64
	caches    tabCaches
	filters   domain.FilterState
	displayed []domain.ListingItem
	lastErr   error
}

// Option configures a Controller.
type Option func(*Controller)

// WithSearchMatcher replaces the search stage, e.g. with a search.Provider.
func WithSearchMatcher(m domain.SearchMatcher) Option {
	return func(c *Controller) {
		if m != nil {
			c.matcher = m
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithFetchTimeout bounds every fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithContext sets the context every fetch derives from. Cancelling it
// cancels fetches in flight.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) {
		if ctx != nil {
			c.baseCtx = ctx
		}
	}
}

// WithRequestIDs replaces the request id generator.
func WithRequestIDs(gen func() string) Option {
	return func(c *Controller) {
		if gen != nil {
			c.newRequestID = gen
		}
	}
}

// WithInitialTab selects the tab active after construction.
func WithInitialTab(tab domain.Tab) Option {
	return func(c *Controller) {
		c.activeTab = domain.NormalizeTab(tab.String())
	}
}

// WithFilters sets the initial filter state.
func WithFilters(state domain.FilterState) Option {
	return func(c *Controller) {
		c.filters = state
	}
}

// New creates the pipeline of vertical. Nothing is fetched until Refresh.
func New(vertical domain.Vertical, fetcher domain.ListingFetcher, sess session.Provider, opts ...Option) *Controller {
	if sess == nil {
		sess = session.Static(session.Anonymous)
	}
	c := &Controller{
		vertical:     vertical,
		fetcher:      fetcher,
		session:      sess,
		matcher:      domain.DefaultSearchMatcher(),
		timeout:      DefaultFetchTimeout,
		baseCtx:      context.Background(),
		newRequestID: uuid.NewString,
		activeTab:    domain.DefaultTab(),
		caches:       newTabCaches(),
		filters:      domain.DefaultFilterState(),
		displayed:    []domain.ListingItem{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.With("component", "pipeline")
	}
	c.logger = c.logger.With("vertical", vertical.Slug)
	return c
}

// Vertical returns the vertical served by c.
func (c *Controller) Vertical() domain.Vertical { return c.vertical }

// ActiveTab returns the active tab.
func (c *Controller) ActiveTab() domain.Tab { return c.activeTab }

// Epoch returns the current tab-activation counter.
func (c *Controller) Epoch() uint64 { return c.epoch }

// SetActiveTab activates tab. Every call, even for the tab already active,
// clears the displayed list and every tab cache and starts a new activation,
// so results of fetches issued before are discarded. The returned command
// performs the fetch of the new activation.
func (c *Controller) SetActiveTab(tab domain.Tab) tea.Cmd {
	c.activeTab = domain.NormalizeTab(tab.String())
	c.epoch++
	c.caches.reset()
	c.displayed = []domain.ListingItem{}
	c.lastErr = nil
	c.logger.Debug("tab activated", "tab", c.activeTab.String(), "epoch", c.epoch)
	return c.Refresh()
}

// Refresh evaluates the fetch-once cache of the active tab. It returns a
// fetch command when the tab is neither fetched nor pending, and nil
// otherwise. myposts waits while the session is loading; without a user it
// is settled as an empty list without fetching.
func (c *Controller) Refresh() tea.Cmd {
	tab := c.activeTab
	slot := c.caches.get(tab)
	if slot.Fetched || slot.Pending {
		return nil
	}

	id := c.session.Current()
	if tab.RequiresUser() {
		if id.Loading {
			c.logger.Debug("fetch deferred until session resolves", "tab", tab.String())
			return nil
		}
		if id.UserID == "" {
			slot.Fetched = true
			slot.BaseList = nil
			c.recompute()
			return nil
		}
	}

	slot.Pending = true
	return c.fetchCmd(tab, c.epoch, id.UserID)
}

func (c *Controller) fetchCmd(tab domain.Tab, epoch uint64, userID string) tea.Cmd {
	fetcher := c.fetcher
	vertical := c.vertical
	timeout := c.timeout
	base := c.baseCtx
	requestID := c.newRequestID()
	logger := c.logger.With("request_id", requestID, "tab", tab.String(), "epoch", epoch)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(base, timeout)
		defer cancel()
		ctx = domain.WithRequestID(ctx, requestID)

		logger.Debug("fetch started")
		start := time.Now()
		var (
			items []domain.ListingItem
			err   error
		)
		switch {
		case fetcher == nil:
			err = fmt.Errorf("%w: no listing source configured", domain.ErrFetchFailed)
		case tab.RequiresUser():
			items, err = fetcher.FetchByCategoryAndUser(ctx, vertical.CategorySlug, userID)
		default:
			items, err = fetcher.FetchByCategory(ctx, vertical.CategorySlug)
		}

		colors.StructuredDebug(colors.Event{
			Component: "pipeline",
			Action:    "fetch",
			Status:    fetchStatus(err),
			Err:       err,
			RequestID: requestID,
			Fields: map[string]any{
				"vertical": vertical.Slug,
				"tab":      tab.String(),
				"count":    len(items),
			},
		})

		return ListingsFetchedMsg{
			Vertical:  vertical.Slug,
			Tab:       tab,
			Epoch:     epoch,
			RequestID: requestID,
			Items:     items,
			Err:       err,
			Duration:  time.Since(start),
		}
	}
}

func fetchStatus(err error) string {
	if err != nil {
		return "failed"
	}
	return "ok"
}

// Update applies messages produced by fetch and session commands.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ListingsFetchedMsg:
		c.applyFetch(msg)
		return nil
	case SessionResolvedMsg:
		if msg.Err != nil {
			c.logger.Warn("session resolution failed", "error", msg.Err.Error())
			c.lastErr = msg.Err
		}
		c.recompute()
		return c.Refresh()
	}
	return nil
}

func (c *Controller) applyFetch(msg ListingsFetchedMsg) {
	if msg.Vertical != c.vertical.Slug || msg.Epoch != c.epoch || msg.Tab != c.activeTab {
		c.logger.Debug("discarding stale listings",
			"request_id", msg.RequestID,
			"tab", msg.Tab.String(),
			"epoch", msg.Epoch,
			"current_epoch", c.epoch)
		return
	}

	slot := c.caches.get(msg.Tab)
	slot.Pending = false
	slot.Fetched = true
	if msg.Err != nil {
		err := msg.Err
		if !errors.Is(err, domain.ErrFetchFailed) {
			err = fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
		}
		c.logger.Error("listing fetch failed",
			"request_id", msg.RequestID,
			"tab", msg.Tab.String(),
			"error", err.Error())
		slot.BaseList = nil
		c.lastErr = err
	} else {
		c.logger.Info("listings fetched",
			"request_id", msg.RequestID,
			"tab", msg.Tab.String(),
			"count", len(msg.Items),
			"duration_ms", msg.Duration.Milliseconds())
		slot.BaseList = msg.Items
		c.lastErr = nil
	}
	c.recompute()
}

// recompute derives the displayed list from the active cache.
func (c *Controller) recompute() {
	slot := c.caches.get(c.activeTab)
	filtered := domain.FilterListingsWith(slot.BaseList, c.filters, c.activeTab, c.currentUserID(), c.matcher)
	c.displayed = domain.SortListings(filtered, c.filters.Sort)
}

func (c *Controller) currentUserID() string {
	id := c.session.Current()
	if id.Loading {
		return ""
	}
	return id.UserID
}

// Displayed returns a copy of the filtered, sorted list.
func (c *Controller) Displayed() []domain.ListingItem {
	out := make([]domain.ListingItem, len(c.displayed))
	copy(out, c.displayed)
	return out
}

// BaseList returns a copy of the cached list of the active tab.
func (c *Controller) BaseList() []domain.ListingItem {
	base := c.caches.get(c.activeTab).BaseList
	out := make([]domain.ListingItem, len(base))
	copy(out, base)
	return out
}

// Cache returns a snapshot of the cache slot of tab.
func (c *Controller) Cache(tab domain.Tab) TabCache {
	return *c.caches.get(tab)
}

// Loading reports whether the active tab has no settled result yet.
func (c *Controller) Loading() bool {
	return !c.caches.get(c.activeTab).Fetched
}

// Phase returns the state of the active tab.
func (c *Controller) Phase() Phase {
	slot := c.caches.get(c.activeTab)
	switch {
	case slot.Fetched:
		return PhaseReady
	case slot.Pending:
		return PhaseLoading
	case c.activeTab.RequiresUser() && c.session.Current().Loading:
		return PhaseLoading
	default:
		return PhaseIdle
	}
}

// LastError returns the error of the latest fetch of this activation, so a
// failed fetch can be told apart from an empty result.
func (c *Controller) LastError() error { return c.lastErr }

// Filters returns the current filter state.
func (c *Controller) Filters() domain.FilterState { return c.filters }

// ApplyFilters replaces the whole filter state.
func (c *Controller) ApplyFilters(state domain.FilterState) tea.Cmd {
	c.filters = state
	return c.changed()
}

// ResetFilters restores the default filter state, keeping the sort.
func (c *Controller) ResetFilters() tea.Cmd {
	sortSpec := c.filters.Sort
	c.filters = domain.DefaultFilterState()
	c.filters.Sort = sortSpec
	return c.changed()
}

// SetSearch sets the search text.
func (c *Controller) SetSearch(query string) tea.Cmd {
	c.filters.Search = query
	return c.changed()
}

// SetLocation sets the location filter; nil clears it.
func (c *Controller) SetLocation(loc *domain.Location) tea.Cmd {
	if loc != nil {
		copied := *loc
		loc = &copied
	}
	c.filters.Location = loc
	return c.changed()
}

// SetMainCategory sets the root category filter; "" or "all" clears it.
func (c *Controller) SetMainCategory(slug string) tea.Cmd {
	if slug == "" {
		slug = domain.MainCategoryAll
	}
	c.filters.MainCategorySlug = slug
	return c.changed()
}

// SetSubCategory sets the leaf category filter; "" clears it.
func (c *Controller) SetSubCategory(slug string) tea.Cmd {
	c.filters.SubCategorySlug = slug
	return c.changed()
}

// SetPriceRange sets the price filter. The range is used as given.
func (c *Controller) SetPriceRange(r domain.PriceRange) tea.Cmd {
	c.filters.PriceRange = r
	return c.changed()
}

// SetSort sets the sort specification.
func (c *Controller) SetSort(spec domain.SortSpec) tea.Cmd {
	c.filters.Sort = spec
	return c.changed()
}

// changed replays the pipeline after a filter change: fetch-once, then
// filter and sort.
func (c *Controller) changed() tea.Cmd {
	c.recompute()
	return c.Refresh()
}

// Drive runs cmd on the calling goroutine and feeds every produced message
// back into c until no command is left. The CLI uses it in place of the
// bubbletea runtime.
func (c *Controller) Drive(cmd tea.Cmd) {
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, sub := range batch {
				c.Drive(sub)
			}
			return
		}
		cmd = c.Update(msg)
	}
}
