package format

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/cristianoliveira/storefront/internal/domain"
)

// NoPriceText is shown for listings without a price.
const NoPriceText = "contact for price"

var printer = message.NewPrinter(language.English)

// PriceText renders the price of item with digit grouping. A known ISO
// currency is rendered with its symbol; an unknown one is appended as is.
func PriceText(item domain.ListingItem) string {
	if !item.HasPrice() {
		return NoPriceText
	}
	code := item.Currency()
	if code == "" {
		return formatAmount(item.PriceOrZero())
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return formatAmount(item.PriceOrZero()) + " " + code
	}
	return printer.Sprint(currency.Symbol(unit.Amount(item.PriceOrZero())))
}

func formatAmount(v float64) string {
	return printer.Sprintf("%.2f", v)
}
