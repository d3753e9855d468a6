package domain

import "strings"

// Tab identifies the active listings lane of a marketplace page.
type Tab string

const (
	// TabExplore shows every listing of the vertical.
	TabExplore Tab = "explore"

	// TabSaved shows listings the current user marked as favorite.
	TabSaved Tab = "saved"

	// TabMyPosts shows listings owned by the current user.
	TabMyPosts Tab = "myposts"
)

// AllTabs lists the tabs in display order.
var AllTabs = []Tab{TabExplore, TabSaved, TabMyPosts}

// IsValid returns whether the tab is one of the supported values.
func (t Tab) IsValid() bool {
	switch t {
	case TabExplore, TabSaved, TabMyPosts:
		return true
	default:
		return false
	}
}

// String returns the string representation of the tab.
func (t Tab) String() string {
	return string(t)
}

// Label returns the human readable tab title.
func (t Tab) Label() string {
	switch t {
	case TabSaved:
		return "Saved"
	case TabMyPosts:
		return "My posts"
	default:
		return "Explore"
	}
}

// RequiresUser reports whether fetching the tab needs a resolved user.
func (t Tab) RequiresUser() bool {
	return t == TabMyPosts
}

// DefaultTab returns the default tab used when value is missing or invalid.
func DefaultTab() Tab {
	return TabExplore
}

// NormalizeTab converts arbitrary input to a valid tab value.
// Missing or invalid values always resolve to the default tab.
func NormalizeTab(raw string) Tab {
	tab := Tab(strings.ToLower(strings.TrimSpace(raw)))
	if tab.IsValid() {
		return tab
	}
	return DefaultTab()
}
