package domain

import (
	"context"
	"errors"
)

var (
	// ErrFetchFailed is returned when a listing source cannot answer a query.
	ErrFetchFailed = errors.New("listing fetch failed")

	// ErrListingNotFound is returned when a listing is not found.
	ErrListingNotFound = errors.New("listing not found")

	// ErrInvalidListing is returned when a listing record fails validation.
	ErrInvalidListing = errors.New("invalid listing")

	// ErrUnknownVertical is returned for a vertical slug that is not registered.
	ErrUnknownVertical = errors.New("unknown vertical")
)

// ListingFetcher is the listing source consumed by the page pipeline.
// Implementations talk to the commerce backend, a local catalog, or a cache.
type ListingFetcher interface {
	// FetchByCategory returns listings of a category. Used by explore and saved.
	FetchByCategory(ctx context.Context, categorySlug string) ([]ListingItem, error)

	// FetchByCategoryAndUser returns listings of a category owned by userID.
	FetchByCategoryAndUser(ctx context.Context, categorySlug, userID string) ([]ListingItem, error)
}

// ListingFetcherFuncs adapts two functions to ListingFetcher.
type ListingFetcherFuncs struct {
	ByCategory        func(ctx context.Context, categorySlug string) ([]ListingItem, error)
	ByCategoryAndUser func(ctx context.Context, categorySlug, userID string) ([]ListingItem, error)
}

// FetchByCategory implements ListingFetcher.
func (f ListingFetcherFuncs) FetchByCategory(ctx context.Context, categorySlug string) ([]ListingItem, error) {
	if f.ByCategory == nil {
		return nil, ErrFetchFailed
	}
	return f.ByCategory(ctx, categorySlug)
}

// FetchByCategoryAndUser implements ListingFetcher.
func (f ListingFetcherFuncs) FetchByCategoryAndUser(ctx context.Context, categorySlug, userID string) ([]ListingItem, error) {
	if f.ByCategoryAndUser == nil {
		return nil, ErrFetchFailed
	}
	return f.ByCategoryAndUser(ctx, categorySlug, userID)
}

type requestIDKey struct{}

// WithRequestID returns a context carrying the correlation id of a fetch.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the correlation id stored in ctx, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
