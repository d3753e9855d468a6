package storage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cristianoliveira/storefront/internal/commerce"
	"github.com/cristianoliveira/storefront/internal/config"
	"github.com/cristianoliveira/storefront/internal/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setSource(t *testing.T, source, catalogPath string) {
	t.Helper()
	config.Set("source", source)
	config.Set("catalog_path", catalogPath)
	config.Set("cache_backend", config.CacheNone)
	t.Cleanup(func() {
		config.Set("source", config.SourceCatalog)
		config.Set("catalog_path", "")
	})
}

func TestNewFromConfigCatalog(t *testing.T) {
	setSource(t, config.SourceCatalog, filepath.Join(t.TempDir(), "catalog.db"))

	src, err := NewFromConfig(context.Background(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })

	assert.Equal(t, config.SourceCatalog, src.Name)
	require.NotNil(t, src.Catalog)
	assert.Same(t, src.Catalog, src.Fetcher)
}

func TestNewFromConfigCommerce(t *testing.T) {
	setSource(t, config.SourceCommerce, "")

	src, err := NewFromConfig(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, src.Catalog)
	assert.IsType(t, &commerce.Client{}, src.Fetcher)

	_, err = src.ToggleFavorite(context.Background(), "1", "U1")
	assert.ErrorIs(t, err, ErrNoCatalog)
	assert.NoError(t, src.Close())
}

func TestNewFromConfigUnknownFallsBack(t *testing.T) {
	setSource(t, "ftp", filepath.Join(t.TempDir(), "catalog.db"))

	src, err := NewFromConfig(context.Background(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })
	assert.Equal(t, config.SourceCatalog, src.Name)
}

func TestOpenCatalogRequiresPath(t *testing.T) {
	setSource(t, config.SourceCatalog, "")
	_, err := OpenCatalog()
	assert.Error(t, err)
}

func TestSourceToggleFavorite(t *testing.T) {
	setSource(t, config.SourceCatalog, filepath.Join(t.TempDir(), "catalog.db"))
	src, err := NewFromConfig(context.Background(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })

	ctx := context.Background()
	_, err = src.Catalog.Import(ctx, strings.NewReader(`[{"id":"1","name":"Loft","slug":"loft","category":{"slug":"real-estate"}}]`), sqlite.ImportOptions{})
	require.NoError(t, err)

	favorited, err := src.ToggleFavorite(ctx, "1", "U1")
	require.NoError(t, err)
	assert.True(t, favorited)

	items, err := src.Fetcher.FetchByCategory(ctx, "real-estate")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].IsFavoriteOf("U1"))
}

func TestSourceToggleFavoriteInvalidatesCache(t *testing.T) {
	setSource(t, config.SourceCatalog, filepath.Join(t.TempDir(), "catalog.db"))
	config.Set("cache_backend", config.CacheMemory)
	t.Cleanup(func() { config.Set("cache_backend", config.CacheNone) })

	src, err := NewFromConfig(context.Background(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })
	assert.NotSame(t, src.Catalog, src.Fetcher, "the catalog is wrapped by the cache")

	ctx := context.Background()
	_, err = src.Catalog.Import(ctx, strings.NewReader(`[{"id":"1","name":"Loft","slug":"loft","category":{"slug":"real-estate"}}]`), sqlite.ImportOptions{})
	require.NoError(t, err)

	items, err := src.Fetcher.FetchByCategory(ctx, "real-estate")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].IsFavoriteOf("U1"))

	_, err = src.ToggleFavorite(ctx, "1", "U1")
	require.NoError(t, err)

	items, err = src.Fetcher.FetchByCategory(ctx, "real-estate")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].IsFavoriteOf("U1"), "cached explore list is dropped after a favorite")
}
