package intake

import "fmt"

// Locale support mirrors the site's language selector: fr, en, es.
// The locale drives the default phone region and the currency used in
// budget bracket labels, nothing else.

var localeToRegion = map[string]string{
	"fr": "FR",
	"en": "US",
	"es": "ES",
}

func RegionForLocale(locale string) string {
	if region, ok := localeToRegion[locale]; ok {
		return region
	}
	return "FR"
}

type Currency struct {
	Code   string
	Symbol string
	// Rate converts euro-denominated bracket bounds into this currency.
	Rate float64
}

var localeToCurrency = map[string]Currency{
	"fr": {Code: "EUR", Symbol: "€", Rate: 1},
	"es": {Code: "EUR", Symbol: "€", Rate: 1},
	"en": {Code: "USD", Symbol: "$", Rate: 1.1},
}

func CurrencyForLocale(locale string) Currency {
	if c, ok := localeToCurrency[locale]; ok {
		return c
	}
	return localeToCurrency["fr"]
}

// BudgetBracket is one mutually-exclusive budget choice. Value is the
// canonical string stored on the project.
type BudgetBracket struct {
	Label string
	Value string
}

var bracketBounds = [][2]int{
	{0, 1000},
	{1000, 2500},
	{2500, 5000},
	{5000, 10000},
	{10000, 0},
}

// BudgetBrackets returns the bracket list with bounds converted and
// labeled in the locale's currency.
func BudgetBrackets(locale string) []BudgetBracket {
	currency := CurrencyForLocale(locale)

	brackets := make([]BudgetBracket, 0, len(bracketBounds))
	for i, bounds := range bracketBounds {
		low := scale(bounds[0], currency.Rate)
		high := scale(bounds[1], currency.Rate)

		var label, value string
		switch {
		case i == 0:
			label = fmt.Sprintf("Moins de %s%d", currency.Symbol, high)
			value = fmt.Sprintf("%d-%d", low, high)
		case bounds[1] == 0:
			label = fmt.Sprintf("Plus de %s%d", currency.Symbol, low)
			value = fmt.Sprintf("%d+", low)
		default:
			label = fmt.Sprintf("%s%d - %s%d", currency.Symbol, low, currency.Symbol, high)
			value = fmt.Sprintf("%d-%d", low, high)
		}
		brackets = append(brackets, BudgetBracket{Label: label, Value: value})
	}

	return brackets
}

// IsValidBracket reports whether value is one of the locale's bracket
// values.
func IsValidBracket(locale, value string) bool {
	for _, b := range BudgetBrackets(locale) {
		if b.Value == value {
			return true
		}
	}
	return false
}

func scale(amount int, rate float64) int {
	return int(float64(amount)*rate + 0.5)
}
