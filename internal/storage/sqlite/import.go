package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/cristianoliveira/storefront/internal/domain"
	"github.com/cristianoliveira/storefront/internal/hooks"
)

// ImportOptions configures Import.
type ImportOptions struct {
	// DryRun validates records without writing.
	DryRun bool
	// Replace deletes every stored listing before writing.
	Replace bool
}

// ImportStats summarizes an import run.
type ImportStats struct {
	TotalRecords     int
	ImportedRecords  int
	SkippedRecords   int
	DuplicateRecords int
	Warnings         []string
}

// Import reads a JSON array of ListingRecord values from r and upserts the
// last valid record per id in a single transaction. Records that fail to
// decode or validate are skipped with a warning.
//
// The pre-import hook runs before writing and can abort the import.
func (s *CatalogStore) Import(ctx context.Context, r io.Reader, opts ImportOptions) (ImportStats, error) {
	latest, stats, err := decodeRecords(r)
	if err != nil {
		return stats, err
	}

	if opts.DryRun {
		stats.ImportedRecords = len(latest)
		return stats, nil
	}

	env := []string{
		fmt.Sprintf("IMPORT_TOTAL=%d", stats.TotalRecords),
		fmt.Sprintf("IMPORT_VALID=%d", len(latest)),
		fmt.Sprintf("IMPORT_REPLACE=%t", opts.Replace),
	}
	if err := hooks.Run(hooks.PreImport, env...); err != nil {
		return stats, fmt.Errorf("pre-import hook aborted: %w", err)
	}

	if err := s.upsertRecords(ctx, latest, opts.Replace); err != nil {
		return stats, err
	}
	stats.ImportedRecords = len(latest)

	env = append(env, fmt.Sprintf("IMPORT_COUNT=%d", stats.ImportedRecords))
	if err := hooks.Run(hooks.PostImport, env...); err != nil {
		return stats, fmt.Errorf("post-import hook failed: %w", err)
	}
	return stats, nil
}

func decodeRecords(r io.Reader) (map[string]ListingRecord, ImportStats, error) {
	stats := ImportStats{}
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, stats, fmt.Errorf("import: read records: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, stats, fmt.Errorf("import: expected a JSON array of listings")
	}

	latest := make(map[string]ListingRecord)
	for index := 0; dec.More(); index++ {
		stats.TotalRecords++

		var rec ListingRecord
		if err := dec.Decode(&rec); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				stats.SkippedRecords++
				stats.Warnings = append(stats.Warnings, fmt.Sprintf("record %d: %v", index, err))
				continue
			}
			return nil, stats, fmt.Errorf("import: record %d: %w", index, err)
		}

		if err := rec.Validate(); err != nil {
			stats.SkippedRecords++
			stats.Warnings = append(stats.Warnings, fmt.Sprintf("record %d (%s): %v", index, rec.ID, err))
			continue
		}

		if _, exists := latest[rec.ID]; exists {
			stats.DuplicateRecords++
		}
		latest[rec.ID] = rec
	}

	if _, err := dec.Token(); err != nil {
		return nil, stats, fmt.Errorf("import: read records: %w", err)
	}
	return latest, stats, nil
}

func (s *CatalogStore) upsertRecords(ctx context.Context, byID map[string]ListingRecord, replace bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("import: begin transaction: %w", err)
	}

	if replace {
		if _, err := tx.ExecContext(ctx, "DELETE FROM listings"); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("import: clear listings: %w", err)
		}
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if err := upsertListing(ctx, tx, byID[id].Listing()); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("import: upsert id %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("import: commit transaction: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertListing(ctx context.Context, db execer, item domain.ListingItem) error {
	categoryJSON := ""
	if item.Category != nil {
		encoded, err := encodeJSON(item.Category)
		if err != nil {
			return fmt.Errorf("encode category: %w", err)
		}
		categoryJSON = encoded
	}
	attributes, err := encodeJSON(orEmpty(item.Attributes))
	if err != nil {
		return fmt.Errorf("encode attributes: %w", err)
	}
	metadata, err := encodeJSON(orEmpty(item.Metadata))
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	var price sql.NullFloat64
	if item.Price != nil {
		price = sql.NullFloat64{Float64: *item.Price, Valid: true}
	}
	var thumbURL, thumbAlt string
	if item.Thumbnail != nil {
		thumbURL, thumbAlt = item.Thumbnail.URL, item.Thumbnail.Alt
	}

	_, err = db.ExecContext(ctx, upsertListingSQL,
		item.ID,
		item.Name,
		item.Slug,
		domain.RootCategorySlug(item.Category),
		item.CategorySlug(),
		categoryJSON,
		price,
		item.Metadata[domain.MetadataOwner],
		attributes,
		metadata,
		thumbURL,
		thumbAlt,
		formatTime(item.Created),
		formatTime(item.Updated),
	)
	return err
}

func orEmpty[K comparable, V any, M ~map[K]V](m M) M {
	if m == nil {
		return M{}
	}
	return m
}
