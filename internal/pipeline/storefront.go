package pipeline

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/storefront/internal/domain"
	"github.com/cristianoliveira/storefront/internal/session"
)

// Storefront holds one independent Controller per vertical and routes
// messages to the controller that issued them.
type Storefront struct {
	order       []string
	controllers map[string]*Controller
	active      string
}

// NewStorefront builds a controller for every vertical, sharing fetcher,
// session and options. The first vertical starts active.
func NewStorefront(verticals []domain.Vertical, fetcher domain.ListingFetcher, sess session.Provider, opts ...Option) *Storefront {
	s := &Storefront{controllers: make(map[string]*Controller, len(verticals))}
	for _, v := range verticals {
		if _, dup := s.controllers[v.Slug]; dup {
			continue
		}
		s.order = append(s.order, v.Slug)
		s.controllers[v.Slug] = New(v, fetcher, sess, opts...)
	}
	if len(s.order) > 0 {
		s.active = s.order[0]
	}
	return s
}

// Slugs returns the vertical slugs in display order.
func (s *Storefront) Slugs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Controller returns the controller of a vertical.
func (s *Storefront) Controller(slug string) (*Controller, bool) {
	c, ok := s.controllers[slug]
	return c, ok
}

// Active returns the controller of the selected vertical, or nil when the
// storefront is empty.
func (s *Storefront) Active() *Controller {
	return s.controllers[s.active]
}

// Select makes slug the active vertical and evaluates its cache. The other
// verticals keep their state.
func (s *Storefront) Select(slug string) (tea.Cmd, error) {
	c, ok := s.controllers[slug]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownVertical, slug)
	}
	s.active = slug
	return c.Refresh(), nil
}

// Update routes fetch results by vertical and broadcasts session changes.
func (s *Storefront) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ListingsFetchedMsg:
		if c, ok := s.controllers[msg.Vertical]; ok {
			return c.Update(msg)
		}
		return nil
	case SessionResolvedMsg:
		// Only the active vertical may start a fetch; the others refilter
		// and fetch when selected.
		for _, slug := range s.order {
			if slug != s.active {
				s.controllers[slug].recompute()
			}
		}
		if c := s.Active(); c != nil {
			return c.Update(msg)
		}
	}
	return nil
}
