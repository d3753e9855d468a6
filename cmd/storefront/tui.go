package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/storefront/cmd"
	"github.com/cristianoliveira/storefront/internal/colors"
	"github.com/cristianoliveira/storefront/internal/config"
	"github.com/cristianoliveira/storefront/internal/domain"
	"github.com/cristianoliveira/storefront/internal/logging"
	"github.com/cristianoliveira/storefront/internal/pipeline"
	"github.com/cristianoliveira/storefront/internal/search"
	"github.com/cristianoliveira/storefront/internal/session"
	"github.com/cristianoliveira/storefront/internal/settings"
	"github.com/cristianoliveira/storefront/internal/storage"
	"github.com/cristianoliveira/storefront/internal/tui/state"
	"github.com/spf13/cobra"
)

type tuiClient interface {
	OpenSource(ctx context.Context, token string) (*storage.Source, error)
	Resolver() session.Resolver
	LoadSettings() (*settings.Settings, error)
	SaveSettings(*settings.Settings) error
}

const tuiCommandLong = `Open the interactive listing browser.

The browser restores the vertical, tab and filters saved in settings.toml
and saves them again on quit.

KEYS:
    j/k, up/down    Move the cursor
    g/G             Jump to the first or last listing
    1/2/3, tab      Switch between explore, saved and my posts
    [ ]             Previous or next vertical
    /               Search (enter keeps the query, esc clears it)
    s               Cycle the sort: price asc, price desc, newest, oldest
    p               Cycle price bands
    c               Cycle main categories
    l               Cycle countries and cities
    x               Reset filters
    r               Reload the tab
    f               Save or unsave the selected listing
    w               Save settings
    q               Save settings and quit
    ctrl+c          Quit without saving`

// runProgram runs the browser; replaced in tests.
var runProgram = func(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// newBrowser assembles the browser model from the saved settings. The
// returned function releases the listing source.
func newBrowser(ctx context.Context, client tuiClient, verticalFlag, searchMode string, flags sessionFlags) (*state.Model, func() error, error) {
	loaded, err := client.LoadSettings()
	if err != nil {
		colors.Warning(fmt.Sprintf("using default settings: %v", err))
		loaded = settings.DefaultSettings()
	}
	restored := loaded.ToBrowseState()

	vertical := restored.Vertical
	if verticalFlag != "" {
		if vertical, err = domain.LookupVertical(verticalFlag); err != nil {
			return nil, nil, err
		}
	}

	matcher, err := search.New(searchMode, search.WithCaseInsensitive(true))
	if err != nil {
		return nil, nil, err
	}
	token, err := flags.resolveToken()
	if err != nil {
		return nil, nil, err
	}

	src, err := client.OpenSource(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	holder := session.NewHolder()
	store := pipeline.NewStorefront(domain.Verticals(), src.Fetcher, holder,
		pipeline.WithContext(ctx),
		pipeline.WithInitialTab(restored.Tab),
		pipeline.WithFilters(restored.Filters),
		pipeline.WithSearchMatcher(matcher),
		pipeline.WithFetchTimeout(config.GetDuration("fetch_timeout", pipeline.DefaultFetchTimeout)),
		pipeline.WithLogger(logging.With("component", "pipeline", "source", src.Name)),
	)
	selectCmd, err := store.Select(vertical.Slug)
	if err != nil {
		_ = src.Close()
		return nil, nil, err
	}

	opts := state.Options{
		Storefront: store,
		Session:    holder,
		Startup:    tea.Batch(pipeline.ResolveSessionCmd(client.Resolver(), holder, token), selectCmd),
		Loaded:     loaded,
		Save:       client.SaveSettings,
	}
	if src.Catalog != nil {
		opts.Favorites = src
	}

	m, err := state.NewModel(opts)
	if err != nil {
		_ = src.Close()
		return nil, nil, err
	}
	return m, src.Close, nil
}

// NewTUICmd creates the tui command with explicit dependencies.
func NewTUICmd(client tuiClient) *cobra.Command {
	if client == nil {
		panic("NewTUICmd: client dependency cannot be nil")
	}

	var (
		flags          sessionFlags
		verticalFlag   string
		searchModeFlag string
	)
	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive listing browser",
		Long:  tuiCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closeSource, err := newBrowser(commandContext(cmd), client, verticalFlag, searchModeFlag, flags)
			if err != nil {
				return err
			}
			defer closeSource()

			if err := runProgram(m); err != nil {
				return fmt.Errorf("error running TUI: %w", err)
			}
			return nil
		},
	}

	flags.bind(tuiCmd)
	tuiCmd.Flags().StringVar(&verticalFlag, "vertical", "", "Start on this vertical instead of the saved one")
	tuiCmd.Flags().StringVar(&searchModeFlag, "search-mode", search.ModeSubstring, "Search mode: substring, token, regex")
	return tuiCmd
}

var tuiCmd = NewTUICmd(coreClient)

func init() {
	cmd.RootCmd.AddCommand(tuiCmd)
}
