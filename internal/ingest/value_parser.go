package ingest

import (
	"regexp"
	"strconv"
	"strings"
)

var valueNumber = regexp.MustCompile(`[\d][\d,\.]*`)

// parseValueRobust extracts an estimated contract value and currency from
// free text like "KES 2,500,000", "up to $280,000" or "2.500.000 EUR".
// Returns 0 and the default currency when no usable number is found; a
// missing value is a data-quality fact, not an error.
func parseValueRobust(text, defaultCurrency string) (float64, string) {
	textLower := strings.ToLower(text)

	currency := defaultCurrency
	if currency == "" {
		currency = "USD"
	}

	switch {
	case strings.Contains(textLower, "£") || strings.Contains(textLower, "gbp") || strings.Contains(textLower, "pound"):
		currency = "GBP"
	case strings.Contains(textLower, "€") || strings.Contains(textLower, "eur"):
		currency = "EUR"
	case strings.Contains(textLower, "ksh") || strings.Contains(textLower, "kes") || strings.Contains(textLower, "shilling"):
		currency = "KES"
	case strings.Contains(textLower, "$") || strings.Contains(textLower, "usd") || strings.Contains(textLower, "dollar"):
		currency = "USD"
	}

	var best float64
	for _, m := range valueNumber.FindAllString(text, -1) {
		// Comma as thousands separator first, then European dot grouping.
		clean := strings.ReplaceAll(m, ",", "")
		val, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			clean = strings.ReplaceAll(m, ".", "")
			val, err = strconv.ParseFloat(clean, 64)
		}
		if err == nil && val > best {
			best = val
		}
	}

	return best, currency
}
