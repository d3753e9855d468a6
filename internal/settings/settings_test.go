package settings

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cristianoliveira/storefront/internal/config"
	"github.com/cristianoliveira/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSettingsTest(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmpDir, "state"))
	t.Setenv("HOME", tmpDir)
	t.Setenv("STOREFRONT_CONFIG_PATH", "")
	config.Load()
	return filepath.Join(tmpDir, "storefront")
}

func TestDefaultSettings(t *testing.T) {
	setupSettingsTest(t)
	s := DefaultSettings()

	assert.Equal(t, "real-estate", s.Vertical)
	assert.Equal(t, "explore", s.Tab)
	assert.Equal(t, "price:asc", s.Sort)
	assert.Equal(t, "created", s.DateField)
	assert.Equal(t, domain.MainCategoryAll, s.Filters.MainCategory)
}

func TestDefaultSettingsFollowConfig(t *testing.T) {
	setupSettingsTest(t)
	t.Setenv("STOREFRONT_DEFAULT_VERTICAL", "art")
	t.Setenv("STOREFRONT_DEFAULT_TAB", "saved")
	config.Load()

	s := DefaultSettings()
	assert.Equal(t, "art", s.Vertical)
	assert.Equal(t, "saved", s.Tab)
}

func TestLoadDefaultWhenFileDoesNotExist(t *testing.T) {
	setupSettingsTest(t)

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestSaveLoad(t *testing.T) {
	dir := setupSettingsTest(t)

	want := &Settings{
		Vertical:  "luxury-goods",
		Tab:       "myposts",
		Sort:      "date:desc",
		DateField: "updated",
		Filters: Filters{
			Country:      "Portugal",
			City:         "Porto",
			MainCategory: "luxury-goods",
			SubCategory:  "watches",
			MinPrice:     100,
			MaxPrice:     domain.Float(5000),
		},
	}
	require.NoError(t, Save(want))

	_, err := os.Stat(filepath.Join(dir, "browse.toml"))
	require.NoError(t, err)

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := setupSettingsTest(t)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "browse.toml"), []byte(`vertical = "art"`+"\n"), 0644))

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "art", s.Vertical)
	assert.Equal(t, "explore", s.Tab)
	assert.Equal(t, "price:asc", s.Sort)
}

func TestLoadCorruptedTOML(t *testing.T) {
	dir := setupSettingsTest(t)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "browse.toml"), []byte("vertical = [unterminated"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse settings file")
}

func TestLoadInvalidValue(t *testing.T) {
	dir := setupSettingsTest(t)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "browse.toml"), []byte(`tab = "drafts"`+"\n"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid settings")
}

func TestSaveInvalidSettings(t *testing.T) {
	dir := setupSettingsTest(t)

	err := Save(&Settings{Vertical: "boats"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownVertical)

	_, statErr := os.Stat(filepath.Join(dir, "browse.toml"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestReset(t *testing.T) {
	dir := setupSettingsTest(t)
	require.NoError(t, Save(&Settings{Vertical: "art"}))

	require.NoError(t, Reset())
	_, err := os.Stat(filepath.Join(dir, "browse.toml"))
	assert.True(t, os.IsNotExist(err))

	// resetting twice is fine
	require.NoError(t, Reset())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		settings *Settings
		wantErr  bool
	}{
		{"nil", nil, true},
		{"empty uses defaults", &Settings{}, false},
		{"valid", &Settings{Vertical: "experiences", Tab: "saved", Sort: "price:desc", DateField: "updated"}, false},
		{"unknown vertical", &Settings{Vertical: "boats"}, true},
		{"unknown tab", &Settings{Tab: "drafts"}, true},
		{"bad sort", &Settings{Sort: "name:asc"}, true},
		{"bad date field", &Settings{DateField: "published"}, true},
		{"city without country", &Settings{Filters: Filters{City: "Paris"}}, true},
		{"negative price", &Settings{Filters: Filters{MinPrice: -1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.settings)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetSettingsPath(t *testing.T) {
	dir := setupSettingsTest(t)
	assert.Equal(t, filepath.Join(dir, "browse.toml"), getSettingsPath())
}

func TestToBrowseState(t *testing.T) {
	s := &Settings{
		Vertical:  "art",
		Tab:       "SAVED",
		Sort:      "date:desc",
		DateField: "updated",
		Filters: Filters{
			Country:      "France",
			City:         "Paris",
			MainCategory: "art",
			SubCategory:  "oil",
			MinPrice:     10,
		},
	}
	state := s.ToBrowseState()

	assert.Equal(t, "art", state.Vertical.Slug)
	assert.Equal(t, domain.TabSaved, state.Tab)
	assert.Equal(t, domain.SortSpec{Field: domain.SortByDate, Order: domain.SortOrderDesc, DateField: domain.DateUpdated}, state.Filters.Sort)
	assert.Equal(t, &domain.Location{Country: "France", City: "Paris"}, state.Filters.Location)
	assert.Equal(t, "oil", state.Filters.SubCategorySlug)
	assert.Equal(t, 10.0, state.Filters.PriceRange.Min)
	assert.True(t, math.IsInf(state.Filters.PriceRange.Max, 1))
	assert.Empty(t, state.Filters.Search)
}

func TestToBrowseStateFallsBack(t *testing.T) {
	state := (&Settings{Vertical: "boats", Tab: "drafts", Sort: "nope"}).ToBrowseState()

	assert.Equal(t, "real-estate", state.Vertical.Slug)
	assert.Equal(t, domain.TabExplore, state.Tab)
	assert.Equal(t, domain.DefaultFilterState(), state.Filters)
}

func TestBrowseStateRoundTrip(t *testing.T) {
	art, err := domain.LookupVertical("art")
	require.NoError(t, err)

	filters := domain.DefaultFilterState()
	filters.Search = "harbour"
	filters.Location = &domain.Location{Country: "France"}
	filters.PriceRange = domain.PriceRange{Min: 5, Max: 500}
	in := BrowseState{Vertical: art, Tab: domain.TabMyPosts, Filters: filters}

	out := FromBrowseState(in).ToBrowseState()

	filters.Search = ""
	assert.Equal(t, BrowseState{Vertical: art, Tab: domain.TabMyPosts, Filters: filters}, out)
}

func TestBrowseStateKeepsZeroMaxPrice(t *testing.T) {
	filters := domain.DefaultFilterState()
	filters.PriceRange = domain.PriceRange{Min: 0, Max: 0}
	s := FromBrowseState(BrowseState{Tab: domain.TabExplore, Filters: filters})

	require.NotNil(t, s.Filters.MaxPrice)
	assert.Equal(t, 0.0, *s.Filters.MaxPrice)
	assert.Equal(t, domain.PriceRange{Min: 0, Max: 0}, s.ToBrowseState().Filters.PriceRange)
}

func TestFromBrowseStateUnboundedMax(t *testing.T) {
	s := FromBrowseState(BrowseState{Tab: domain.TabExplore, Filters: domain.DefaultFilterState()})
	assert.Nil(t, s.Filters.MaxPrice)
	assert.NoError(t, Validate(&Settings{Tab: s.Tab, Sort: s.Sort, DateField: s.DateField, Filters: s.Filters}))
}
