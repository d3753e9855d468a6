// Package render draws the browser chrome and listing rows with lipgloss.
package render

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/storefront/internal/colors"
	"github.com/cristianoliveira/storefront/internal/domain"
	"github.com/cristianoliveira/storefront/internal/errors"
	"github.com/cristianoliveira/storefront/internal/format"
)

const (
	favoriteWidth        = 2
	priceWidth           = 18
	locationWidth        = 22
	categoryWidth        = 14
	ageWidth             = 5
	spacesBetweenColumns = 10
	defaultNameWidth     = 40
	minNameWidth         = 10
	favoriteSymbol       = "★"
)

// FooterState defines the inputs needed to render footer help text.
type FooterState struct {
	SearchMode  bool
	SearchQuery string
	SortLabel   string
	PriceLabel  string
	Category    string
	Location    string
	Loading     bool
	SignedIn    bool
	Width       int
}

// RowState defines the inputs needed to render a listing row.
type RowState struct {
	Item     domain.ListingItem
	Favorite bool
	Width    int
	Selected bool
	Now      time.Time
}

// TabState defines one tab of a tab bar.
type TabState struct {
	Label  string
	Active bool
}

var (
	accent        = lipgloss.Color(ansiColorNumber(colors.Blue))
	activeTab     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(accent).Padding(0, 1)
	inactiveTab   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	selectedStyle = lipgloss.NewStyle().Background(accent).Foreground(lipgloss.Color("0"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	emptyStyle    = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245"))
)

// Tabs renders a row of tabs, highlighting the active one.
func Tabs(tabs []TabState) string {
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t.Active {
			parts = append(parts, activeTab.Render(t.Label))
			continue
		}
		parts = append(parts, inactiveTab.Render(t.Label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// Header renders the table header.
func Header(width int) string {
	nameWidth := calculateNameWidth(width)

	header := fmt.Sprintf("%-*s  %-*s  %*s  %-*s  %-*s  %-*s",
		favoriteWidth, "",
		nameWidth, "NAME",
		priceWidth, "PRICE",
		locationWidth, "LOCATION",
		categoryWidth, "CATEGORY",
		ageWidth, "AGE",
	)
	return headerStyle.Render(header)
}

// Row renders a single listing row.
func Row(state RowState) string {
	fav := ""
	if state.Favorite {
		fav = favoriteSymbol
	}

	nameWidth := calculateNameWidth(state.Width)
	row := fmt.Sprintf("%-*s  %-*s  %*s  %-*s  %-*s  %-*s",
		favoriteWidth, fav,
		nameWidth, truncate(state.Item.Name, nameWidth),
		priceWidth, truncate(format.PriceText(state.Item), priceWidth),
		locationWidth, truncate(LocationLabel(state.Item), locationWidth),
		categoryWidth, truncate(state.Item.CategorySlug(), categoryWidth),
		ageWidth, calculateAge(state.Item.Created, state.Now),
	)

	if state.Selected {
		return selectedStyle.Render(row)
	}
	return row
}

// LocationLabel renders "City, Country", or whichever part is known.
func LocationLabel(item domain.ListingItem) string {
	country, city := item.Location()
	switch {
	case city != "" && country != "":
		return city + ", " + country
	case city != "":
		return city
	default:
		return country
	}
}

// Empty renders the placeholder shown when no listing is displayed.
func Empty(loading bool, tab domain.Tab, signedIn bool) string {
	switch {
	case loading:
		return emptyStyle.Render("Loading listings...")
	case tab.RequiresUser() && !signedIn:
		return emptyStyle.Render("Sign in to see your listings.")
	default:
		return emptyStyle.Render("No listings match the current filters.")
	}
}

// Footer renders the filter summary and help text.
func Footer(state FooterState) string {
	var summary []string
	if state.Loading {
		summary = append(summary, "loading")
	}
	if state.SortLabel != "" {
		summary = append(summary, "sort: "+state.SortLabel)
	}
	if state.PriceLabel != "" {
		summary = append(summary, "price: "+state.PriceLabel)
	}
	if state.Category != "" {
		summary = append(summary, "category: "+state.Category)
	}
	if state.Location != "" {
		summary = append(summary, "location: "+state.Location)
	}

	var help []string
	help = append(help, "j/k: move")
	if state.SearchMode {
		help = append(help, "ESC: clear search", "Enter: done", fmt.Sprintf("Search: %s", state.SearchQuery))
	} else {
		help = append(help, "/: search", "tab: switch tab", "[/]: vertical", "s: sort", "p: price", "c: category", "l: location", "x: reset")
		if state.SignedIn {
			help = append(help, "f: favorite")
		}
		help = append(help, "r: reload", "w: save", "q: quit")
	}

	var lines []string
	if len(summary) > 0 {
		lines = append(lines, helpStyle.Render(strings.Join(summary, "  |  ")))
	}
	lines = append(lines, helpStyle.Render(wrap(help, "  |  ", state.Width)))
	return strings.Join(lines, "\n")
}

// Status renders a status bar message with its type label.
func Status(msg errors.Message) string {
	style := lipgloss.NewStyle()
	switch msg.Type {
	case errors.MessageTypeError:
		style = style.Foreground(lipgloss.Color(ansiColorNumber(colors.Red)))
	case errors.MessageTypeWarning:
		style = style.Foreground(lipgloss.Color(ansiColorNumber(colors.Yellow)))
	case errors.MessageTypeSuccess:
		style = style.Foreground(lipgloss.Color(ansiColorNumber(colors.Green)))
	}
	return style.Render(fmt.Sprintf("%s: %s", msg.Type, msg.Text))
}

func wrap(parts []string, sep string, width int) string {
	if width <= 0 {
		return strings.Join(parts, sep)
	}
	var lines []string
	current := ""
	for _, p := range parts {
		next := p
		if current != "" {
			next = current + sep + p
		}
		if current != "" && utf8.RuneCountInString(next) > width {
			lines = append(lines, current)
			current = p
			continue
		}
		current = next
	}
	if current != "" {
		lines = append(lines, current)
	}
	return strings.Join(lines, "\n")
}

func calculateNameWidth(width int) int {
	if width == 0 {
		return defaultNameWidth
	}
	totalFixedWidth := favoriteWidth + priceWidth + locationWidth + categoryWidth + ageWidth
	w := width - totalFixedWidth - spacesBetweenColumns
	if w < minNameWidth {
		return minNameWidth
	}
	return w
}

func truncate(value string, width int) string {
	if utf8.RuneCountInString(value) <= width {
		return value
	}
	r := []rune(value)
	if width < 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

func calculateAge(created, now time.Time) string {
	if created.IsZero() {
		return ""
	}
	if now.IsZero() {
		now = time.Now()
	}

	duration := now.Sub(created)
	switch {
	case duration < time.Hour:
		return fmt.Sprintf("%dm", int(duration.Minutes()))
	case duration < 24*time.Hour:
		return fmt.Sprintf("%dh", int(duration.Hours()))
	case duration < 365*24*time.Hour:
		return fmt.Sprintf("%dd", int(duration.Hours()/24))
	}
	return fmt.Sprintf("%dy", int(duration.Hours()/(24*365)))
}

// ansiColorNumber extracts the color number from an ANSI escape sequence.
// Example: "\033[0;34m" -> "34"
func ansiColorNumber(ansi string) string {
	if len(ansi) < 2 {
		return ""
	}
	lastSemicolon := strings.LastIndex(ansi, ";")
	if lastSemicolon == -1 {
		return ""
	}
	return ansi[lastSemicolon+1 : len(ansi)-1]
}
