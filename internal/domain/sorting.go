package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SortField specifies which field to sort listings by.
type SortField string

const (
	SortByPrice SortField = "price"
	SortByDate  SortField = "date"
)

// IsValid checks if the sort field is valid.
func (s SortField) IsValid() bool {
	switch s {
	case SortByPrice, SortByDate:
		return true
	default:
		return false
	}
}

// String returns the string representation of the sort field.
func (s SortField) String() string {
	return string(s)
}

// SortOrder specifies the sort direction.
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// IsValid checks if the sort order is valid.
func (s SortOrder) IsValid() bool {
	switch s {
	case SortOrderAsc, SortOrderDesc:
		return true
	default:
		return false
	}
}

// String returns the string representation of the sort order.
func (s SortOrder) String() string {
	return string(s)
}

// DateField selects the timestamp backing the "date" sort.
type DateField string

const (
	DateCreated DateField = "created"
	DateUpdated DateField = "updated"
)

// IsValid checks if the date field is valid.
func (d DateField) IsValid() bool {
	return d == DateCreated || d == DateUpdated
}

// SortSpec holds sorting options for listings.
type SortSpec struct {
	Field     SortField
	Order     SortOrder
	DateField DateField // used when Field is SortByDate; defaults to DateCreated
}

// DefaultSortSpec returns the default sort (price ascending).
func DefaultSortSpec() SortSpec {
	return SortSpec{
		Field:     SortByPrice,
		Order:     SortOrderAsc,
		DateField: DateCreated,
	}
}

// String renders the spec as "field:order".
func (s SortSpec) String() string {
	return s.Field.String() + ":" + s.Order.String()
}

// SortListings returns a sorted copy of items. Ties keep no particular order.
func SortListings(items []ListingItem, spec SortSpec) []ListingItem {
	sorted := make([]ListingItem, len(items))
	copy(sorted, items)
	if len(sorted) < 2 {
		return sorted
	}

	spec = normalizeSortSpec(spec)
	sort.SliceStable(sorted, func(i, j int) bool {
		return compareListings(sorted[i], sorted[j], spec) < 0
	})
	return sorted
}

// normalizeSortSpec fills invalid fields with defaults.
func normalizeSortSpec(spec SortSpec) SortSpec {
	def := DefaultSortSpec()
	if !spec.Field.IsValid() {
		spec.Field = def.Field
	}
	if !spec.Order.IsValid() {
		spec.Order = def.Order
	}
	if !spec.DateField.IsValid() {
		spec.DateField = def.DateField
	}
	return spec
}

// compareListings returns a-b for ascending order and b-a for descending.
func compareListings(a, b ListingItem, spec SortSpec) int {
	var cmp int
	switch spec.Field {
	case SortByDate:
		cmp = compareTimes(listingDate(a, spec.DateField), listingDate(b, spec.DateField))
	default:
		cmp = compareFloats(a.PriceOrZero(), b.PriceOrZero())
	}
	if spec.Order == SortOrderDesc {
		return -cmp
	}
	return cmp
}

func listingDate(l ListingItem, field DateField) time.Time {
	if field == DateUpdated {
		return l.Updated
	}
	return l.Created
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

// ParseSortField parses a string into a SortField.
func ParseSortField(field string) (SortField, error) {
	f := SortField(strings.ToLower(strings.TrimSpace(field)))
	if !f.IsValid() {
		return "", fmt.Errorf("invalid sort field: %s", field)
	}
	return f, nil
}

// ParseSortOrder parses a string into a SortOrder.
func ParseSortOrder(order string) (SortOrder, error) {
	o := SortOrder(strings.ToLower(strings.TrimSpace(order)))
	if !o.IsValid() {
		return "", fmt.Errorf("invalid sort order: %s", order)
	}
	return o, nil
}

// ParseSortSpec parses "field" or "field:order", e.g. "price:desc".
func ParseSortSpec(raw string) (SortSpec, error) {
	spec := DefaultSortSpec()
	if strings.TrimSpace(raw) == "" {
		return spec, nil
	}
	fieldPart, orderPart, hasOrder := strings.Cut(raw, ":")
	field, err := ParseSortField(fieldPart)
	if err != nil {
		return SortSpec{}, err
	}
	spec.Field = field
	if hasOrder {
		order, err := ParseSortOrder(orderPart)
		if err != nil {
			return SortSpec{}, err
		}
		spec.Order = order
	}
	return spec, nil
}

// ParseDateField parses a string into a DateField.
func ParseDateField(raw string) (DateField, error) {
	d := DateField(strings.ToLower(strings.TrimSpace(raw)))
	if !d.IsValid() {
		return "", fmt.Errorf("invalid date field: %s", raw)
	}
	return d, nil
}
