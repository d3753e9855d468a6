// Package storage selects and assembles the listing source used by the
// storefront: the local SQLite catalog or the commerce backend, optionally
// behind a response cache.
package storage

import (
	"context"
	"io"

	"github.com/cristianoliveira/storefront/internal/domain"
	"github.com/cristianoliveira/storefront/internal/storage/sqlite"
)

// Catalog is the writable local listing store.
type Catalog interface {
	domain.ListingFetcher
	Get(ctx context.Context, id string) (domain.ListingItem, error)
	Count(ctx context.Context, categorySlug string) (int, error)
	ToggleFavorite(ctx context.Context, listingID, userID string) (bool, error)
	Import(ctx context.Context, r io.Reader, opts sqlite.ImportOptions) (sqlite.ImportStats, error)
	Close() error
}

var _ Catalog = (*sqlite.CatalogStore)(nil)
