package pipeline

import "github.com/cristianoliveira/storefront/internal/domain"

// TabCache is the fetch-once slot of one tab.
type TabCache struct {
	BaseList []domain.ListingItem
	Fetched  bool
	// Pending is true between issuing a fetch and applying its result.
	Pending bool
}

type tabCaches map[domain.Tab]*TabCache

func newTabCaches() tabCaches {
	c := make(tabCaches, len(domain.AllTabs))
	for _, tab := range domain.AllTabs {
		c[tab] = &TabCache{}
	}
	return c
}

func (c tabCaches) get(tab domain.Tab) *TabCache {
	slot, ok := c[tab]
	if !ok {
		slot = &TabCache{}
		c[tab] = slot
	}
	return slot
}

// reset returns every tab to the not-fetched state.
func (c tabCaches) reset() {
	for _, slot := range c {
		*slot = TabCache{}
	}
}
