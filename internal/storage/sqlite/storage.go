// Package sqlite provides the local listing catalog on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cristianoliveira/storefront/internal/domain"
	_ "modernc.org/sqlite"
)

const timeLayout = time.RFC3339Nano

// CatalogStore is a SQLite-backed listing source.
type CatalogStore struct {
	db *sql.DB
}

var _ domain.ListingFetcher = (*CatalogStore)(nil)

// NewCatalogStore opens, creating if needed, the catalog at dbPath.
func NewCatalogStore(dbPath string) (*CatalogStore, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("sqlite catalog: db path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite catalog: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite catalog: open db: %w", err)
	}

	store := &CatalogStore{db: db}
	if err := store.init(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying SQLite connection.
func (s *CatalogStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *CatalogStore) init() error {
	if _, err := s.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("sqlite catalog: set busy timeout: %w", err)
	}

	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("sqlite catalog: create schema: %w", err)
	}

	return nil
}

// FetchByCategory returns listings whose root category is categorySlug.
func (s *CatalogStore) FetchByCategory(ctx context.Context, categorySlug string) ([]domain.ListingItem, error) {
	return s.query(ctx, "SELECT "+listingColumns+" FROM listings WHERE root_slug = ? ORDER BY id", categorySlug)
}

// FetchByCategoryAndUser returns listings of categorySlug owned by userID.
func (s *CatalogStore) FetchByCategoryAndUser(ctx context.Context, categorySlug, userID string) ([]domain.ListingItem, error) {
	if userID == "" {
		return []domain.ListingItem{}, nil
	}
	return s.query(ctx, "SELECT "+listingColumns+" FROM listings WHERE root_slug = ? AND owner_id = ? ORDER BY id", categorySlug, userID)
}

// Get returns one listing by id.
func (s *CatalogStore) Get(ctx context.Context, id string) (domain.ListingItem, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+listingColumns+" FROM listings WHERE id = ?", id)
	item, err := scanListing(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ListingItem{}, fmt.Errorf("sqlite catalog: get listing: %w: id %s", domain.ErrListingNotFound, id)
		}
		return domain.ListingItem{}, fmt.Errorf("sqlite catalog: get listing: %w", err)
	}
	return item, nil
}

// Count returns the number of listings under a root category, or of all
// listings when categorySlug is empty.
func (s *CatalogStore) Count(ctx context.Context, categorySlug string) (int, error) {
	var (
		n   int
		err error
	)
	if categorySlug == "" {
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM listings").Scan(&n)
	} else {
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM listings WHERE root_slug = ?", categorySlug).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("sqlite catalog: count listings: %w", err)
	}
	return n, nil
}

func (s *CatalogStore) query(ctx context.Context, query string, args ...any) ([]domain.ListingItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: sqlite catalog: %w", domain.ErrFetchFailed, err)
	}
	defer rows.Close()

	items := []domain.ListingItem{}
	for rows.Next() {
		item, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: sqlite catalog: scan listing: %w", domain.ErrFetchFailed, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: sqlite catalog: %w", domain.ErrFetchFailed, err)
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanListing(row scanner) (domain.ListingItem, error) {
	var (
		item                     domain.ListingItem
		categoryJSON             string
		price                    sql.NullFloat64
		attributesJSON, metaJSON string
		thumbURL, thumbAlt       string
		createdAt, updatedAt     string
	)
	if err := row.Scan(&item.ID, &item.Name, &item.Slug, &categoryJSON, &price,
		&attributesJSON, &metaJSON, &thumbURL, &thumbAlt, &createdAt, &updatedAt); err != nil {
		return domain.ListingItem{}, err
	}

	if categoryJSON != "" {
		var cat domain.Category
		if err := json.Unmarshal([]byte(categoryJSON), &cat); err != nil {
			return domain.ListingItem{}, fmt.Errorf("decode category of %s: %w", item.ID, err)
		}
		item.Category = &cat
	}
	if price.Valid {
		item.Price = domain.Float(price.Float64)
	}
	if err := decodeJSONMap(attributesJSON, &item.Attributes); err != nil {
		return domain.ListingItem{}, fmt.Errorf("decode attributes of %s: %w", item.ID, err)
	}
	if err := decodeJSONMap(metaJSON, &item.Metadata); err != nil {
		return domain.ListingItem{}, fmt.Errorf("decode metadata of %s: %w", item.ID, err)
	}
	if thumbURL != "" {
		item.Thumbnail = &domain.Image{URL: thumbURL, Alt: thumbAlt}
	}
	item.Created = parseTime(createdAt)
	item.Updated = parseTime(updatedAt)
	return item, nil
}

// decodeJSONMap leaves dst nil for an empty object.
func decodeJSONMap(raw string, dst any) error {
	if raw == "" || raw == "{}" || raw == "null" {
		return nil
	}
	return json.Unmarshal([]byte(raw), dst)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func encodeJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
