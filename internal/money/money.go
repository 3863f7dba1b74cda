// Package money handles peso amounts as integer cents, the only
// representation the rest of the system works with.
package money

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.MustParse("es-MX"))

// ParseCents parses a Mexican-formatted amount string into cents.
// Format examples: "$220,000.00" -> 22000000, "13000" -> 1300000,
// "1,300.50" -> 130050.
func ParseCents(s string) (int64, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.ReplaceAll(clean, " ", "")

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

// FormatMXN renders cents as "$1,234.56" with es-MX digit grouping and
// exactly two decimals.
func FormatMXN(cents int64) string {
	units := cents / 100
	frac := cents % 100
	if frac < 0 {
		frac = -frac
	}

	return printer.Sprintf("$%v.%02d", number.Decimal(units), frac)
}

// FormatPlain is FormatMXN without the currency symbol.
func FormatPlain(cents int64) string {
	return strings.TrimPrefix(FormatMXN(cents), "$")
}

// DecimalString renders cents as a locale-free "1234.56" string, the form
// used inside machine-read payloads and manifests.
func DecimalString(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}

// Pesos returns the whole-peso part of an amount in cents.
func Pesos(cents int64) int64 {
	return cents / 100
}

// Centavos returns the fractional part of an amount, always 0..99.
func Centavos(cents int64) int64 {
	c := cents % 100
	if c < 0 {
		c = -c
	}

	return c
}

// FormatPercent renders a penalty rate like "5%" or "2.5%".
func FormatPercent(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64) + "%"
}
