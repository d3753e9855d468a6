package formatter

import (
	"fmt"
	"strconv"
	"time"

	"github.com/cristianoliveira/storefront/internal/domain"
)

// VariableContext holds the values a listing template can reference.
type VariableContext struct {
	ID           string
	Name         string
	Slug         string
	Price        *float64
	Currency     string
	Country      string
	City         string
	Category     string
	MainCategory string
	CategoryPath string
	Owner        string
	Thumbnail    string
	Created      time.Time
	Updated      time.Time

	FavoritesCount int
	IsFavorite     bool
}

// NewContext builds the template context of item as seen by userID.
func NewContext(item domain.ListingItem, userID string) VariableContext {
	country, city := item.Location()
	ctx := VariableContext{
		ID:           item.ID,
		Name:         item.Name,
		Slug:         item.Slug,
		Price:        item.Price,
		Currency:     item.Currency(),
		Country:      country,
		City:         city,
		Category:     item.CategorySlug(),
		MainCategory: domain.RootCategorySlug(item.Category),
		CategoryPath: item.CategoryPath(),
		Owner:        item.Metadata[domain.MetadataOwner],
		Created:      item.Created,
		Updated:      item.Updated,
		IsFavorite:   item.IsFavoriteOf(userID),
	}
	if item.Thumbnail != nil {
		ctx.Thumbnail = item.Thumbnail.URL
	}
	if favs, err := domain.ParseFavorites(item.Metadata[domain.MetadataFavorites]); err == nil {
		ctx.FavoritesCount = len(favs)
	}
	return ctx
}

// variableNames lists the supported variables in documentation order.
var variableNames = []string{
	"id", "name", "slug", "price", "currency", "price-label",
	"country", "city", "location",
	"category", "main-category", "category-path",
	"owner", "thumbnail", "created", "updated",
	"favorites-count", "is-favorite",
}

// Variables returns the supported variable names.
func Variables() []string {
	out := make([]string, len(variableNames))
	copy(out, variableNames)
	return out
}

// IsKnownVariable reports whether name can be resolved.
func IsKnownVariable(name string) bool {
	for _, v := range variableNames {
		if v == name {
			return true
		}
	}
	return false
}

// VariableResolver resolves template variables to their values.
type VariableResolver interface {
	Resolve(varName string, ctx VariableContext) (string, error)
}

type variableResolver struct{}

// NewVariableResolver creates a new variable resolver instance.
func NewVariableResolver() VariableResolver {
	return &variableResolver{}
}

// Resolve returns the string value for a variable from the context.
func (vr *variableResolver) Resolve(varName string, ctx VariableContext) (string, error) {
	switch varName {
	case "id":
		return ctx.ID, nil
	case "name":
		return ctx.Name, nil
	case "slug":
		return ctx.Slug, nil
	case "price":
		if ctx.Price == nil {
			return "", nil
		}
		return strconv.FormatFloat(*ctx.Price, 'f', -1, 64), nil
	case "currency":
		return ctx.Currency, nil
	case "price-label":
		return PriceLabel(ctx.Price, ctx.Currency), nil
	case "country":
		return ctx.Country, nil
	case "city":
		return ctx.City, nil
	case "location":
		switch {
		case ctx.City != "" && ctx.Country != "":
			return ctx.City + ", " + ctx.Country, nil
		default:
			return ctx.City + ctx.Country, nil
		}
	case "category":
		return ctx.Category, nil
	case "main-category":
		return ctx.MainCategory, nil
	case "category-path":
		return ctx.CategoryPath, nil
	case "owner":
		return ctx.Owner, nil
	case "thumbnail":
		return ctx.Thumbnail, nil
	case "created":
		return formatDate(ctx.Created), nil
	case "updated":
		return formatDate(ctx.Updated), nil
	case "favorites-count":
		return strconv.Itoa(ctx.FavoritesCount), nil
	case "is-favorite":
		return strconv.FormatBool(ctx.IsFavorite), nil
	default:
		return "", fmt.Errorf("unknown variable: %s", varName)
	}
}

// PriceLabel renders a price for display; a missing price reads "contact for price".
func PriceLabel(price *float64, currency string) string {
	if price == nil {
		return "contact for price"
	}
	label := strconv.FormatFloat(*price, 'f', 2, 64)
	if currency != "" {
		label += " " + currency
	}
	return label
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}
