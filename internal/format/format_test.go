package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/cristianoliveira/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testListings() []domain.ListingItem {
	realEstate := &domain.Category{Slug: "real-estate", Name: "Real estate"}
	return []domain.ListingItem{
		{
			ID:       "re-1",
			Name:     "Sunny Loft",
			Slug:     "sunny-loft",
			Category: &domain.Category{Slug: "apartments", Parent: realEstate},
			Price:    domain.Float(250000),
			Attributes: domain.Attributes{
				domain.AttributeCountry:  {"Portugal"},
				domain.AttributeCity:     {"Lisbon"},
				domain.AttributeCurrency: {"EUR"},
			},
			Created: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:       "re-2",
			Name:     "A farmhouse with a very long name that does not fit in any column at all",
			Slug:     "farmhouse",
			Category: &domain.Category{Slug: "houses", Parent: realEstate},
		},
	}
}

func TestFormatterFactory(t *testing.T) {
	tests := []struct {
		name     string
		ftype    FormatterType
		expected interface{}
	}{
		{"Simple", FormatterTypeSimple, &SimpleFormatter{}},
		{"Table", FormatterTypeTable, &TableFormatter{}},
		{"Compact", FormatterTypeCompact, &CompactFormatter{}},
		{"JSON", FormatterTypeJSON, &JSONFormatter{}},
		{"Unknown", FormatterType("unknown"), &SimpleFormatter{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.IsType(t, tt.expected, NewFormatter(tt.ftype))
		})
	}
}

func TestGetFormatter(t *testing.T) {
	f, err := GetFormatter("json", "", "")
	require.NoError(t, err)
	assert.IsType(t, &JSONFormatter{}, f)

	f, err = GetFormatter("bogus", "", "")
	require.NoError(t, err)
	assert.IsType(t, &SimpleFormatter{}, f)

	f, err = GetFormatter("template", "line", "")
	require.NoError(t, err)
	assert.IsType(t, &TemplateFormatter{}, f)

	_, err = GetFormatter("template", "", "")
	assert.Error(t, err)
	_, err = GetFormatter("template", "{{nope}}", "")
	assert.Error(t, err)
}

func TestSimpleFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSimpleFormatter().FormatListings(testListings(), &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "re-1")
	assert.Contains(t, lines[0], "Sunny Loft")
	assert.Contains(t, lines[1], NoPriceText)
	assert.Contains(t, lines[1], "...")
	assert.NotContains(t, lines[1], "at all")
}

func TestCompactFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCompactFormatter().FormatListings(testListings()[:1], &buf))
	assert.Equal(t, "Sunny Loft\n", buf.String())
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter().FormatListings(testListings(), &buf))

	output := buf.String()
	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "Price")
	assert.Contains(t, output, "Lisbon, Portugal")
	assert.Contains(t, output, "apartments")
	assert.Contains(t, output, "2024-01-02")
	assert.Len(t, strings.Split(strings.TrimSpace(output), "\n"), 4)

	buf.Reset()
	require.NoError(t, NewTableFormatter().FormatListings(nil, &buf))
	assert.Empty(t, buf.String())
}

func TestExtendedTableWithColumns(t *testing.T) {
	var buf bytes.Buffer
	f := NewExtendedTableFormatter().WithColumns(TableColumn{
		Name:      "Slug",
		Width:     12,
		Extractor: func(l domain.ListingItem) string { return l.Slug },
	})
	require.NoError(t, f.FormatListings(testListings()[:1], &buf))
	assert.Contains(t, buf.String(), "sunny-loft")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().FormatListings(testListings(), &buf))

	var decoded []domain.ListingItem
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "re-1", decoded[0].ID)

	buf.Reset()
	require.NoError(t, NewJSONFormatter().FormatListings(nil, &buf))
	assert.Equal(t, "[]\n", buf.String())
}

func TestTemplateFormatter(t *testing.T) {
	var buf bytes.Buffer
	f, err := NewTemplateFormatter("{{id}}:{{category}}", "")
	require.NoError(t, err)
	require.NoError(t, f.FormatListings(testListings(), &buf))
	assert.Equal(t, "re-1:apartments\nre-2:houses\n", buf.String())
}

func TestFormatFacets(t *testing.T) {
	facets := domain.ComputeFacets(testListings())

	var buf bytes.Buffer
	require.NoError(t, NewSimpleFormatter().FormatFacets(facets, &buf))
	output := buf.String()
	assert.Contains(t, output, "Listings: 2")
	assert.Contains(t, output, "=== country ===")
	assert.Contains(t, output, "Portugal")
	assert.Contains(t, output, "Lisbon, Portugal")

	buf.Reset()
	require.NoError(t, NewCompactFormatter().FormatFacets(facets, &buf))
	assert.Contains(t, buf.String(), "country:Portugal\n")
	assert.Contains(t, buf.String(), "city:Lisbon, Portugal\n")

	buf.Reset()
	require.NoError(t, NewJSONFormatter().FormatFacets(facets, &buf))
	var decoded domain.Facets
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 2, decoded.Total)
}

func TestPriceText(t *testing.T) {
	items := testListings()
	assert.Equal(t, NoPriceText, PriceText(items[1]))

	eur := PriceText(items[0])
	assert.Contains(t, eur, "250")
	assert.NotEqual(t, NoPriceText, eur)

	noCurrency := domain.ListingItem{Price: domain.Float(1234.5)}
	assert.Equal(t, "1,234.50", PriceText(noCurrency))

	odd := domain.ListingItem{Price: domain.Float(3), Attributes: domain.Attributes{domain.AttributeCurrency: {"zz"}}}
	assert.Equal(t, "3.00 zz", PriceText(odd))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdefgh", 5))
	assert.Equal(t, "ab", truncate("abcdefgh", 2))
	assert.Equal(t, "ca...", truncate("café-bar", 5))
	assert.Equal(t, "ab   ", truncatePad("ab", 5))
	assert.Equal(t, "  ab", formatString("ab", 4, "right"))
}
