package search

import (
	"testing"

	"github.com/cristianoliveira/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func listing(name string) domain.ListingItem {
	return domain.ListingItem{
		ID:   name,
		Name: name,
		Slug: "slug-" + name,
		Category: &domain.Category{
			Slug:   "paintings",
			Name:   "Paintings",
			Parent: &domain.Category{Slug: "art", Name: "Art"},
		},
		Price: domain.Float(100),
		Attributes: domain.Attributes{
			domain.AttributeCountry: {"Österreich"},
			domain.AttributeCity:    {"Wien"},
		},
	}
}

func TestSubstringProviderDefaults(t *testing.T) {
	p := NewSubstringProvider()
	item := listing("Harbour at Dusk")

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"harbour", true},
		{"AT DU", true},
		{"Dusk", true},
		{"dawn", false},
		// only the name is searched by default
		{"paintings", false},
		{"slug-", false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Match(item, tt.query))
		})
	}
	assert.Equal(t, "substring", p.Name())
}

func TestSubstringProviderAgreesWithPipelineSearch(t *testing.T) {
	items := []domain.ListingItem{listing("Sunny Loft"), listing("STRASSE"), listing("Vintage watch")}
	for _, query := range []string{"loft", "straße", "WATCH", "x"} {
		want := domain.FilterBySearch(items, query, nil)
		got := domain.FilterBySearch(items, query, NewSubstringProvider())
		assert.Equal(t, want, got, "query %q", query)
	}
}

func TestSubstringProviderCaseSensitive(t *testing.T) {
	p := NewSubstringProvider(WithCaseInsensitive(false))
	item := listing("Harbour")
	assert.True(t, p.Match(item, "Harb"))
	assert.False(t, p.Match(item, "harb"))
}

func TestSubstringProviderFields(t *testing.T) {
	item := listing("Harbour")
	tests := []struct {
		name   string
		fields []string
		query  string
		want   bool
	}{
		{"slug", []string{FieldSlug}, "slug-harb", true},
		{"category leaf name", []string{FieldCategory}, "paint", true},
		{"category root slug", []string{FieldCategory}, "art", true},
		{"location city", []string{FieldLocation}, "wien", true},
		{"location unicode fold", []string{FieldLocation}, "ÖSTERREICH", true},
		{"unknown field", []string{"description"}, "harbour", false},
		{"several fields", []string{FieldSlug, FieldName}, "harbour", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewSubstringProvider(WithFields(tt.fields...))
			assert.Equal(t, tt.want, p.Match(item, tt.query))
		})
	}
}

func TestSubstringProviderCyclicCategory(t *testing.T) {
	item := listing("Loop")
	cyclic := &domain.Category{Slug: "a", Name: "A"}
	cyclic.Parent = cyclic
	item.Category = cyclic

	p := NewSubstringProvider(WithFields(FieldCategory))
	assert.False(t, p.Match(item, "a"))
}

func TestTokenProvider(t *testing.T) {
	p := NewTokenProvider(WithFields(FieldName, FieldCategory, FieldLocation))
	priced := listing("Oil painting harbour")
	unpriced := listing("Bronze sculpture")
	unpriced.Price = nil

	tests := []struct {
		name  string
		item  domain.ListingItem
		query string
		want  bool
	}{
		{"empty", priced, "   ", true},
		{"all tokens match across fields", priced, "harbour art wien", true},
		{"order does not matter", priced, "WIEN oil", true},
		{"one token misses", priced, "harbour paris", false},
		{"priced keeps priced", priced, "priced", true},
		{"priced drops unpriced", unpriced, "priced", false},
		{"unpriced keeps unpriced", unpriced, "unpriced bronze", true},
		{"unpriced drops priced", priced, "unpriced", false},
		{"contradiction ignored", priced, "priced unpriced oil", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Match(tt.item, tt.query))
		})
	}
	assert.Equal(t, "token", p.Name())
}

func TestRegexProvider(t *testing.T) {
	p := NewRegexProvider()
	item := listing("Villa 42 Sea View")

	assert.True(t, p.Match(item, ""))
	assert.True(t, p.Match(item, `villa \d+`))
	assert.True(t, p.Match(item, `^VILLA`))
	assert.False(t, p.Match(item, `^sea`))
	assert.False(t, p.Match(item, `([`), "invalid pattern matches nothing")
	assert.Equal(t, "regex", p.Name())

	rp := p.(*RegexProvider)
	assert.True(t, rp.Valid(`\d+`))
	assert.False(t, rp.Valid(`(`))
}

func TestRegexProviderCachesCompiledPatterns(t *testing.T) {
	p := NewRegexProvider().(*RegexProvider)
	p.Match(listing("a"), "a+")
	p.Match(listing("b"), "a+")
	assert.Len(t, p.cache, 1)
}

func TestRegexProviderCaseSensitive(t *testing.T) {
	p := NewRegexProvider(WithCaseInsensitive(false))
	assert.False(t, p.Match(listing("Villa"), "^villa"))
}

func TestNew(t *testing.T) {
	for _, mode := range append(Modes(), "", " TOKEN ") {
		p, err := New(mode)
		require.NoError(t, err, mode)
		assert.NotNil(t, p)
	}

	p, err := New("token")
	require.NoError(t, err)
	assert.Equal(t, ModeToken, p.Name())

	_, err = New("fuzzy")
	assert.ErrorContains(t, err, "unknown search mode")
}

func TestMockProviderPlugsIntoPipeline(t *testing.T) {
	m := new(MockProvider)
	keep := listing("keep")
	drop := listing("drop")
	m.On("Match", keep, "q").Return(true)
	m.On("Match", drop, "q").Return(func(domain.ListingItem, string) bool { return false })
	m.On("Name").Return("mock")

	got := domain.FilterBySearch([]domain.ListingItem{keep, drop}, "q", m)

	require.Len(t, got, 1)
	assert.Equal(t, "keep", got[0].ID)
	assert.Equal(t, "mock", m.Name())
	m.AssertNumberOfCalls(t, "Match", 2)
	m.AssertCalled(t, "Match", mock.Anything, "q")
}
