package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/cristianoliveira/storefront/internal/colors"
	"github.com/cristianoliveira/storefront/internal/domain"
	"github.com/cristianoliveira/storefront/internal/hooks"
)

// ToggleFavorite adds userID to the favorites of a listing, or removes it
// when already present. It reports whether the user favorites the listing
// afterwards. A malformed favorites value is replaced.
func (s *CatalogStore) ToggleFavorite(ctx context.Context, listingID, userID string) (bool, error) {
	if strings.TrimSpace(userID) == "" {
		return false, fmt.Errorf("sqlite catalog: toggle favorite: user id cannot be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("sqlite catalog: begin transaction: %w", err)
	}

	var metaJSON string
	err = tx.QueryRowContext(ctx, "SELECT metadata FROM listings WHERE id = ?", listingID).Scan(&metaJSON)
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return false, fmt.Errorf("sqlite catalog: toggle favorite: %w: id %s", domain.ErrListingNotFound, listingID)
		}
		return false, fmt.Errorf("sqlite catalog: toggle favorite: %w", err)
	}

	var meta map[string]string
	if err := decodeJSONMap(metaJSON, &meta); err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("sqlite catalog: decode metadata of %s: %w", listingID, err)
	}
	if meta == nil {
		meta = map[string]string{}
	}

	favs, err := domain.ParseFavorites(meta[domain.MetadataFavorites])
	if err != nil {
		colors.Debug(fmt.Sprintf("replacing malformed favorites of listing %s: %v", listingID, err))
		favs = domain.Favorites{}
	}
	favs, favorited := favs.Toggle(userID)
	meta[domain.MetadataFavorites] = favs.Encode()

	encoded, err := encodeJSON(meta)
	if err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("sqlite catalog: encode metadata: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "UPDATE listings SET metadata = ? WHERE id = ?", encoded, listingID); err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("sqlite catalog: toggle favorite: %w", err)
	}
	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("sqlite catalog: commit transaction: %w", err)
	}

	if err := hooks.Run(hooks.PostFavorite,
		"LISTING_ID="+listingID,
		"USER_ID="+userID,
		fmt.Sprintf("FAVORITED=%t", favorited),
	); err != nil {
		return favorited, fmt.Errorf("post-favorite hook failed: %w", err)
	}
	return favorited, nil
}
