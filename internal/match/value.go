package match

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NotSpecified is the sentinel returned by FormatValue when the contract
// value is absent. Downstream display code renders conditionally on this
// exact string, so it must never be an empty string.
const NotSpecified = "Not specified"

// DefaultCurrency is used when a record carries no currency code.
const DefaultCurrency = "USD"

var valuePrinter = message.NewPrinter(language.English)

// FormatValue renders a contract value as a currency string with whole-unit
// precision and locale grouping, e.g. "$1,500" or "KSh 2,500,000".
func FormatValue(value float64, currency string) string {
	if value <= 0 {
		return NotSpecified
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return valuePrinter.Sprintf("%s%v", currencySymbol(currency), number.Decimal(value, number.MaxFractionDigits(0)))
}

func currencySymbol(code string) string {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "USD":
		return "$"
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	case "KES":
		return "KSh "
	case "UGX":
		return "USh "
	case "TZS":
		return "TSh "
	default:
		return strings.ToUpper(strings.TrimSpace(code)) + " "
	}
}

// titleCategories is the ordered table used to derive a category from the
// title when a source provides none. Order matters: the first entry with
// any keyword present wins, so more specific buckets come first.
var titleCategories = []struct {
	label    string
	keywords []string
}{
	{"ICT & Software", []string{"software", "website", "web", "portal", "system", "digital", "ict", "application", "database", "e-government"}},
	{"Consulting", []string{"consultancy", "consulting", "advisory", "technical assistance", "feasibility"}},
	{"Construction", []string{"construction", "building", "renovation", "road", "civil works"}},
	{"Supplies", []string{"supply", "supplies", "equipment", "procurement of goods", "delivery of"}},
	{"Training", []string{"training", "capacity building", "workshop"}},
}

// CategorizeByTitle sniffs an opportunity title for category keywords and
// returns the first matching label, or "General" when nothing matches.
func CategorizeByTitle(title string) string {
	lowered := strings.ToLower(title)
	for _, entry := range titleCategories {
		for _, kw := range entry.keywords {
			if strings.Contains(lowered, kw) {
				return entry.label
			}
		}
	}
	return "General"
}
