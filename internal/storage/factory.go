package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cristianoliveira/storefront/internal/cache"
	"github.com/cristianoliveira/storefront/internal/colors"
	"github.com/cristianoliveira/storefront/internal/commerce"
	"github.com/cristianoliveira/storefront/internal/config"
	"github.com/cristianoliveira/storefront/internal/domain"
	"github.com/cristianoliveira/storefront/internal/logging"
	"github.com/cristianoliveira/storefront/internal/storage/sqlite"
)

// ErrNoCatalog is returned for catalog operations when the source is remote.
var ErrNoCatalog = errors.New("local catalog not available for this source")

// Source is the assembled listing source.
type Source struct {
	// Name is the configured source, catalog or commerce.
	Name    string
	Fetcher domain.ListingFetcher
	// Catalog is nil when listings come from the commerce backend.
	Catalog Catalog

	cached  *cache.CachedFetcher
	closers []func() error
}

// OpenCatalog opens the catalog at catalog_path.
func OpenCatalog() (Catalog, error) {
	path := config.Get("catalog_path", "")
	if path == "" {
		return nil, fmt.Errorf("storage: catalog_path is not configured")
	}
	return sqlite.NewCatalogStore(path)
}

// NewFromConfig builds the listing source selected by the source key and
// wraps it with the configured cache. An unreachable cache is reported and
// skipped. commerceOpts only apply to the commerce source.
func NewFromConfig(ctx context.Context, logger logging.Logger, commerceOpts ...commerce.Option) (*Source, error) {
	if logger == nil {
		logger = logging.Noop()
	}
	name := strings.ToLower(strings.TrimSpace(config.Get("source", config.SourceCatalog)))

	src := &Source{Name: name}
	switch name {
	case config.SourceCommerce:
		src.Fetcher = commerce.NewClientFromConfig(logger.With("component", "commerce"), commerceOpts...)
	case config.SourceCatalog:
		if err := src.openCatalog(); err != nil {
			return nil, err
		}
	default:
		colors.Warning(fmt.Sprintf("unknown listing source '%s', falling back to %s", name, config.SourceCatalog))
		src.Name = config.SourceCatalog
		if err := src.openCatalog(); err != nil {
			return nil, err
		}
	}

	if config.Get("cache_backend", config.CacheNone) == config.CacheNone {
		return src, nil
	}
	c, err := cache.FromConfig(ctx)
	if err != nil {
		colors.Warning(fmt.Sprintf("listing cache disabled: %v", err))
		return src, nil
	}
	if closer, ok := c.(interface{ Close() error }); ok {
		src.closers = append(src.closers, closer.Close)
	}
	src.cached = cache.NewCachedFetcher(src.Fetcher, c,
		config.GetDuration("cache_ttl", 5*time.Minute),
		logger.With("component", "cache"))
	src.Fetcher = src.cached
	return src, nil
}

func (s *Source) openCatalog() error {
	catalog, err := OpenCatalog()
	if err != nil {
		return err
	}
	s.Catalog = catalog
	s.Fetcher = catalog
	s.closers = append(s.closers, catalog.Close)
	return nil
}

// ToggleFavorite flips a favorite in the catalog and drops cached results
// of the listing's vertical.
func (s *Source) ToggleFavorite(ctx context.Context, listingID, userID string) (bool, error) {
	if s.Catalog == nil {
		return false, ErrNoCatalog
	}
	item, err := s.Catalog.Get(ctx, listingID)
	if err != nil {
		return false, err
	}
	favorited, err := s.Catalog.ToggleFavorite(ctx, listingID, userID)
	if err != nil {
		return favorited, err
	}
	if s.cached != nil {
		if err := s.cached.Invalidate(ctx, domain.RootCategorySlug(item.Category), userID); err != nil {
			colors.Warning(fmt.Sprintf("failed to invalidate listing cache: %v", err))
		}
	}
	return favorited, nil
}

// Close releases the catalog and cache connections.
func (s *Source) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
