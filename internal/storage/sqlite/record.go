package sqlite

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cristianoliveira/storefront/internal/domain"
	"github.com/go-playground/validator/v10"
)

// ListingRecord is one entry of a catalog import file.
type ListingRecord struct {
	ID         string              `json:"id" validate:"required,max=128"`
	Name       string              `json:"name" validate:"required,max=512"`
	Slug       string              `json:"slug" validate:"required,slug"`
	Category   *domain.Category    `json:"category" validate:"required"`
	Price      *float64            `json:"price" validate:"omitempty,gte=0"`
	Currency   string              `json:"currency" validate:"omitempty,iso4217"`
	Country    string              `json:"country" validate:"max=128"`
	City       string              `json:"city" validate:"max=128"`
	Owner      string              `json:"owner" validate:"max=128"`
	Attributes map[string][]string `json:"attributes"`
	Metadata   map[string]string   `json:"metadata"`
	Thumbnail  *domain.Image       `json:"thumbnail"`
	Created    time.Time           `json:"created"`
	Updated    time.Time           `json:"updated"`
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		return ok && slugPattern.MatchString(value)
	})
	return v
}

// Validate checks field constraints and the category chain.
func (r ListingRecord) Validate() error {
	// The chain is checked first: the struct validator walks nested pointers.
	if r.Category != nil {
		chain, ok := domain.CategoryChain(r.Category)
		if !ok {
			return fmt.Errorf("%w: category chain of %s is cyclic or too deep", domain.ErrInvalidListing, r.ID)
		}
		for _, c := range chain {
			if !slugPattern.MatchString(c.Slug) {
				return fmt.Errorf("%w: invalid category slug %q", domain.ErrInvalidListing, c.Slug)
			}
		}
	}
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidListing, describeValidation(err))
	}
	if r.Thumbnail != nil {
		if err := validate.Var(r.Thumbnail.URL, "required,url"); err != nil {
			return fmt.Errorf("%w: invalid thumbnail url %q", domain.ErrInvalidListing, r.Thumbnail.URL)
		}
	}
	return nil
}

func describeValidation(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s fails %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}

// Listing converts the record. Country, city, currency and owner are folded
// into attributes and metadata, where the listing pipeline reads them.
func (r ListingRecord) Listing() domain.ListingItem {
	item := domain.ListingItem{
		ID:        r.ID,
		Name:      r.Name,
		Slug:      r.Slug,
		Category:  r.Category,
		Price:     r.Price,
		Thumbnail: r.Thumbnail,
		Created:   r.Created,
		Updated:   r.Updated,
	}

	attrs := domain.Attributes{}
	for k, v := range r.Attributes {
		attrs[k] = append([]string(nil), v...)
	}
	setAttr := func(name, value string) {
		if value != "" {
			attrs[name] = []string{value}
		}
	}
	setAttr(domain.AttributeCountry, r.Country)
	setAttr(domain.AttributeCity, r.City)
	setAttr(domain.AttributeCurrency, r.Currency)
	if len(attrs) > 0 {
		item.Attributes = attrs
	}

	meta := map[string]string{}
	for k, v := range r.Metadata {
		meta[k] = v
	}
	if r.Owner != "" {
		meta[domain.MetadataOwner] = r.Owner
	}
	if len(meta) > 0 {
		item.Metadata = meta
	}
	return item
}

// FromListing builds the import record of an existing listing.
func FromListing(item domain.ListingItem) ListingRecord {
	country, city := item.Location()
	return ListingRecord{
		ID:         item.ID,
		Name:       item.Name,
		Slug:       item.Slug,
		Category:   item.Category,
		Price:      item.Price,
		Currency:   item.Currency(),
		Country:    country,
		City:       city,
		Owner:      item.Metadata[domain.MetadataOwner],
		Attributes: item.Attributes,
		Metadata:   item.Metadata,
		Thumbnail:  item.Thumbnail,
		Created:    item.Created,
		Updated:    item.Updated,
	}
}
