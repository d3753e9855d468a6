package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/cristianoliveira/storefront/internal/domain"
	"github.com/cristianoliveira/storefront/internal/logging"
)

const keyPrefix = "storefront:listings:"

// CachedFetcher serves listing queries from a Cache and falls back to the
// wrapped source on a miss. Failed fetches are not cached, and cache errors
// only degrade to a miss.
type CachedFetcher struct {
	next   domain.ListingFetcher
	cache  Cache
	ttl    time.Duration
	logger logging.Logger
}

// NewCachedFetcher wraps next. A nil cache disables caching.
func NewCachedFetcher(next domain.ListingFetcher, c Cache, ttl time.Duration, logger logging.Logger) *CachedFetcher {
	if c == nil {
		c = NewNoop()
	}
	if logger == nil {
		logger = logging.Noop()
	}
	return &CachedFetcher{next: next, cache: c, ttl: ttl, logger: logger}
}

// Key returns the cache key of a query. userID is empty for category queries.
func Key(categorySlug, userID string) string {
	if userID == "" {
		return keyPrefix + categorySlug
	}
	return keyPrefix + categorySlug + ":user:" + userID
}

// FetchByCategory implements domain.ListingFetcher.
func (f *CachedFetcher) FetchByCategory(ctx context.Context, categorySlug string) ([]domain.ListingItem, error) {
	return f.fetch(ctx, Key(categorySlug, ""), func() ([]domain.ListingItem, error) {
		return f.next.FetchByCategory(ctx, categorySlug)
	})
}

// FetchByCategoryAndUser implements domain.ListingFetcher.
func (f *CachedFetcher) FetchByCategoryAndUser(ctx context.Context, categorySlug, userID string) ([]domain.ListingItem, error) {
	return f.fetch(ctx, Key(categorySlug, userID), func() ([]domain.ListingItem, error) {
		return f.next.FetchByCategoryAndUser(ctx, categorySlug, userID)
	})
}

// Invalidate drops every cached query of a category for the given users,
// plus the category query itself.
func (f *CachedFetcher) Invalidate(ctx context.Context, categorySlug string, userIDs ...string) error {
	keys := []string{Key(categorySlug, "")}
	for _, id := range userIDs {
		if strings.TrimSpace(id) != "" {
			keys = append(keys, Key(categorySlug, id))
		}
	}
	for _, k := range keys {
		if err := f.cache.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

func (f *CachedFetcher) fetch(ctx context.Context, key string, load func() ([]domain.ListingItem, error)) ([]domain.ListingItem, error) {
	log := f.logger.With("key", key, "request_id", domain.RequestIDFrom(ctx))

	if raw, ok, err := f.cache.Get(ctx, key); err != nil {
		log.Warn("cache read failed", "error", err.Error())
	} else if ok {
		var items []domain.ListingItem
		if err := json.Unmarshal(raw, &items); err == nil {
			log.Debug("cache hit", "count", len(items))
			return items, nil
		}
		log.Warn("dropping undecodable cache entry")
		_ = f.cache.Delete(ctx, key)
	}

	items, err := load()
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(items)
	if err != nil {
		log.Warn("cache encode failed", "error", err.Error())
		return items, nil
	}
	if err := f.cache.Set(ctx, key, raw, f.ttl); err != nil {
		log.Warn("cache write failed", "error", err.Error())
	}
	return items, nil
}
