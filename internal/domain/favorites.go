package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FavoriteUser is one entry of the JSON-encoded favorites list stored in
// listing metadata, e.g. [{"_id":"U1"}].
type FavoriteUser struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

// Favorites is the decoded favorites list of a listing.
type Favorites []FavoriteUser

// ParseFavorites decodes a favorites metadata value.
// An empty value decodes to an empty list.
func ParseFavorites(raw string) (Favorites, error) {
	if strings.TrimSpace(raw) == "" {
		return Favorites{}, nil
	}
	var favs Favorites
	if err := json.Unmarshal([]byte(raw), &favs); err != nil {
		return nil, fmt.Errorf("parse favorites: %w", err)
	}
	return favs, nil
}

// Contains reports whether userID is present in the list.
func (f Favorites) Contains(userID string) bool {
	if userID == "" {
		return false
	}
	for _, u := range f {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// Toggle adds userID when absent and removes it when present.
// It returns a new list and whether the user is now a favoriter.
func (f Favorites) Toggle(userID string) (Favorites, bool) {
	out := make(Favorites, 0, len(f)+1)
	removed := false
	for _, u := range f {
		if u.ID == userID {
			removed = true
			continue
		}
		out = append(out, u)
	}
	if removed {
		return out, false
	}
	return append(out, FavoriteUser{ID: userID}), true
}

// Encode renders the list back into its metadata form.
func (f Favorites) Encode() string {
	if f == nil {
		f = Favorites{}
	}
	data, err := json.Marshal(f)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// IsFavoriteOf reports whether the listing's favorites metadata contains userID.
// Missing or malformed metadata is treated as "not a favorite".
func (l ListingItem) IsFavoriteOf(userID string) bool {
	raw, ok := l.Metadata[MetadataFavorites]
	if !ok {
		return false
	}
	favs, err := ParseFavorites(raw)
	if err != nil {
		return false
	}
	return favs.Contains(userID)
}
