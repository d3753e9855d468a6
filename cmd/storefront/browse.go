package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/cristianoliveira/storefront/cmd"
	"github.com/cristianoliveira/storefront/internal/colors"
	"github.com/cristianoliveira/storefront/internal/config"
	"github.com/cristianoliveira/storefront/internal/domain"
	"github.com/cristianoliveira/storefront/internal/errors"
	"github.com/cristianoliveira/storefront/internal/format"
	"github.com/cristianoliveira/storefront/internal/hooks"
	"github.com/cristianoliveira/storefront/internal/logging"
	"github.com/cristianoliveira/storefront/internal/pipeline"
	"github.com/cristianoliveira/storefront/internal/search"
	"github.com/cristianoliveira/storefront/internal/session"
	"github.com/cristianoliveira/storefront/internal/storage"
	"github.com/spf13/cobra"
)

type pageClient interface {
	OpenSource(ctx context.Context, token string) (*storage.Source, error)
	Resolver() session.Resolver
}

const browseCommandLong = `Fetch one tab of a marketplace vertical and print the filtered, sorted listings.

USAGE:
    storefront browse [OPTIONS]

TABS:
    explore    Every listing of the vertical (default)
    saved      Listings the signed-in user marked as favorite
    myposts    Listings owned by the signed-in user

EXAMPLES:
    # Houses in Lisbon under 500k, cheapest first
    storefront browse --vertical real-estate --country Portugal --city Lisbon --max-price 500000

    # Newest art as a table
    storefront browse --vertical art --sort date --order desc --format table

    # Your own listings, token taken from a page URL
    storefront browse --tab myposts --url 'https://shop.example/art?token=...'

    # Custom output
    storefront browse --format template --template '{{id}} {{price-label}} {{name}}'`

// pageFlags are the flags shared by commands that load one marketplace page.
type pageFlags struct {
	sessionFlags
	vertical    string
	tab         string
	search      string
	searchMode  string
	country     string
	city        string
	category    string
	subcategory string
	minPrice    float64
	maxPrice    float64
	sort        string
	order       string
	dateField   string

	// changed reports whether a flag was set on the command line.
	changed func(name string) bool
}

func (f *pageFlags) bind(c *cobra.Command) {
	f.sessionFlags.bind(c)
	f.changed = c.Flags().Changed
	c.Flags().StringVar(&f.vertical, "vertical", "", "Vertical slug (default: default_vertical from config)")
	c.Flags().StringVar(&f.tab, "tab", "", "Tab: explore, saved, myposts (default: default_tab from config)")
	c.Flags().StringVar(&f.search, "search", "", "Search query")
	c.Flags().StringVar(&f.searchMode, "search-mode", search.ModeSubstring, "Search mode: "+strings.Join(search.Modes(), ", "))
	c.Flags().StringVar(&f.country, "country", "", "Only listings in this country")
	c.Flags().StringVar(&f.city, "city", "", "Only listings in this city (requires --country)")
	c.Flags().StringVar(&f.category, "category", "", "Main category slug")
	c.Flags().StringVar(&f.subcategory, "subcategory", "", "Leaf category slug")
	c.Flags().Float64Var(&f.minPrice, "min-price", 0, "Minimum price")
	c.Flags().Float64Var(&f.maxPrice, "max-price", 0, "Maximum price (default: no limit)")
	c.Flags().StringVar(&f.sort, "sort", "", "Sort by: price, date")
	c.Flags().StringVar(&f.order, "order", "", "Sort order: asc, desc")
	c.Flags().StringVar(&f.dateField, "date-field", "", "Timestamp used by the date sort: created, updated (default: date_field from config)")
}

func (f pageFlags) resolveVertical() (domain.Vertical, error) {
	slug := f.vertical
	if slug == "" {
		slug = config.Get("default_vertical", domain.Verticals()[0].Slug)
	}
	return domain.LookupVertical(slug)
}

func (f pageFlags) resolveTab() (domain.Tab, error) {
	if f.tab == "" {
		return domain.NormalizeTab(config.Get("default_tab", "")), nil
	}
	tab := domain.Tab(strings.ToLower(strings.TrimSpace(f.tab)))
	if !tab.IsValid() {
		return "", fmt.Errorf("invalid tab %q (valid: explore, saved, myposts)", f.tab)
	}
	return tab, nil
}

func (f pageFlags) filterState() (domain.FilterState, error) {
	var maxPrice *float64
	if f.changed != nil && f.changed("max-price") {
		maxPrice = domain.Float(f.maxPrice)
	}
	state, err := domain.FilterOptions{
		Search:       f.search,
		Country:      f.country,
		City:         f.city,
		MainCategory: f.category,
		SubCategory:  f.subcategory,
		MinPrice:     f.minPrice,
		MaxPrice:     maxPrice,
		SortField:    f.sort,
		SortOrder:    f.order,
	}.ToFilterState()
	if err != nil {
		return domain.FilterState{}, err
	}

	raw := f.dateField
	if raw == "" {
		raw = config.Get("date_field", string(domain.DateCreated))
	}
	df, err := domain.ParseDateField(raw)
	if err != nil {
		return domain.FilterState{}, err
	}
	state.Sort.DateField = df
	return state, nil
}

// page is one loaded marketplace page.
type page struct {
	*pipeline.Controller
	User  session.Identity
	close func() error
}

func (p *page) Close() error { return p.close() }

// loadPage resolves the session and fetches the selected tab through a
// pipeline controller on the calling goroutine. A failed fetch leaves the
// controller with an empty list and the error in LastError.
func loadPage(ctx context.Context, client pageClient, f pageFlags) (*page, error) {
	vertical, err := f.resolveVertical()
	if err != nil {
		return nil, err
	}
	tab, err := f.resolveTab()
	if err != nil {
		return nil, err
	}
	filters, err := f.filterState()
	if err != nil {
		return nil, err
	}
	matcher, err := search.New(f.searchMode, search.WithCaseInsensitive(true))
	if err != nil {
		return nil, err
	}
	token, err := f.resolveToken()
	if err != nil {
		return nil, err
	}

	src, err := client.OpenSource(ctx, token)
	if err != nil {
		return nil, err
	}

	holder := session.NewHolder()
	c := pipeline.New(vertical, src.Fetcher, holder,
		pipeline.WithContext(ctx),
		pipeline.WithInitialTab(tab),
		pipeline.WithFilters(filters),
		pipeline.WithSearchMatcher(matcher),
		pipeline.WithFetchTimeout(config.GetDuration("fetch_timeout", pipeline.DefaultFetchTimeout)),
		pipeline.WithLogger(logging.With("component", "pipeline", "source", src.Name)),
	)
	// Nothing is fetched while the session is pending: the resolved
	// session triggers the fetch of the active tab.
	c.Drive(pipeline.ResolveSessionCmd(client.Resolver(), holder, token))

	if err := c.LastError(); err != nil {
		if hookErr := hooks.Run(hooks.PostFetchError,
			"VERTICAL="+vertical.Slug,
			"TAB="+tab.String(),
			"ERROR="+err.Error(),
		); hookErr != nil {
			colors.Warning(fmt.Sprintf("post-fetch-error hook: %v", hookErr))
		}
	}

	user := holder.Current()
	if tab.RequiresUser() && !user.HasUser() {
		colors.Warning(fmt.Sprintf("the %s tab needs a signed-in user: pass --token or --url", tab))
	}
	return &page{Controller: c, User: user, close: src.Close}, nil
}

// NewBrowseCmd creates the browse command with explicit dependencies.
func NewBrowseCmd(client pageClient) *cobra.Command {
	if client == nil {
		panic("NewBrowseCmd: client dependency cannot be nil")
	}

	var (
		flags        pageFlags
		formatFlag   string
		templateFlag string
	)
	browseCmd := &cobra.Command{
		Use:   "browse",
		Short: "List the listings of a vertical tab",
		Long:  browseCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := format.GetFormatter(formatFlag, templateFlag, "")
			if err != nil {
				return err
			}
			p, err := loadPage(commandContext(cmd), client, flags)
			if err != nil {
				return err
			}
			defer p.Close()

			errors.Report(errors.NewDefaultCLIHandler(), p.LastError())
			if p.User.HasUser() {
				if f, err = format.GetFormatter(formatFlag, templateFlag, p.User.UserID); err != nil {
					return err
				}
			}
			return f.FormatListings(p.Displayed(), cmd.OutOrStdout())
		},
	}

	flags.bind(browseCmd)
	browseCmd.Flags().StringVar(&formatFlag, "format", string(format.FormatterTypeSimple), "Output format: simple, table, compact, json, template")
	browseCmd.Flags().StringVar(&templateFlag, "template", "", "Template or preset name for --format template")
	return browseCmd
}

var browseCmd = NewBrowseCmd(coreClient)

func init() {
	cmd.RootCmd.AddCommand(browseCmd)
}
