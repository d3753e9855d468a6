package pipeline

import (
	"time"

	"github.com/cristianoliveira/storefront/internal/domain"
	"github.com/cristianoliveira/storefront/internal/session"
)

// ListingsFetchedMsg is sent when a listing fetch completes, successfully or not.
// Epoch identifies the tab activation that issued the fetch.
type ListingsFetchedMsg struct {
	Vertical  string
	Tab       domain.Tab
	Epoch     uint64
	RequestID string
	Items     []domain.ListingItem
	Err       error
	Duration  time.Duration
}

// SessionResolvedMsg is sent when session resolution finishes.
type SessionResolvedMsg struct {
	Identity session.Identity
	Err      error
}
