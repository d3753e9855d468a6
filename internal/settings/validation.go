package settings

import (
	"fmt"

	"github.com/cristianoliveira/storefront/internal/domain"
)

// Validate checks every preference. Empty strings are accepted and mean
// "use the default".
func Validate(settings *Settings) error {
	if settings == nil {
		return fmt.Errorf("settings cannot be nil")
	}
	if settings.Vertical != "" {
		if _, err := domain.LookupVertical(settings.Vertical); err != nil {
			return err
		}
	}
	if settings.Tab != "" && !domain.Tab(settings.Tab).IsValid() {
		return fmt.Errorf("invalid tab: %s", settings.Tab)
	}
	if settings.Sort != "" {
		if _, err := domain.ParseSortSpec(settings.Sort); err != nil {
			return err
		}
	}
	if settings.DateField != "" {
		if _, err := domain.ParseDateField(settings.DateField); err != nil {
			return err
		}
	}
	return validateFilters(settings.Filters)
}

func validateFilters(f Filters) error {
	if f.City != "" && f.Country == "" {
		return fmt.Errorf("invalid filters: city %q requires a country", f.City)
	}
	if f.MinPrice < 0 || (f.MaxPrice != nil && *f.MaxPrice < 0) {
		return fmt.Errorf("invalid filters: prices cannot be negative")
	}
	return nil
}
