// Package pricing parses and formats catalog prices. Amounts are whole KES
// values stored as bare numeric strings.
package pricing

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	Currency      = "KES"
	displayPrefix = "From " + Currency + " "
)

var (
	ErrInvalidAmount = errors.New("price must be a positive whole number")

	legacyAmountPattern = regexp.MustCompile(`(\d+(?:,\d+)*)`)
	printer             = message.NewPrinter(language.English)
)

// Parse reads a user-entered amount. Thousands separators and surrounding
// whitespace are tolerated; zero, negative and fractional values are rejected.
func Parse(raw string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil || !d.IsPositive() || !d.Equal(d.Truncate(0)) {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// Normalize returns the canonical stored form of raw ("12,500" -> "12500").
// Empty input stays empty.
func Normalize(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	d, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return d.String(), nil
}

// LegacyAmount pulls the first number out of an old display string such as
// "From KES 25,000" and returns it without separators, or "" if there is none.
func LegacyAmount(display string) string {
	match := legacyAmountPattern.FindString(display)
	return strings.ReplaceAll(match, ",", "")
}

// Display renders the customer-facing price. The discounted amount wins when
// present and parseable; otherwise the original is used.
func Display(original, discounted string) string {
	if d, err := Parse(discounted); err == nil {
		return displayPrefix + Format(d)
	}
	if d, err := Parse(original); err == nil {
		return displayPrefix + Format(d)
	}
	return ""
}

// Format writes d rounded to a whole amount with English thousands separators.
func Format(d decimal.Decimal) string {
	return printer.Sprintf("%d", d.Round(0).IntPart())
}

// DiscountPercentage is round((original-discounted)/original*100). It returns 0
// unless both amounts parse and discounted is strictly below original.
func DiscountPercentage(original, discounted string) int {
	o, err := Parse(original)
	if err != nil {
		return 0
	}
	d, err := Parse(discounted)
	if err != nil || !d.LessThan(o) {
		return 0
	}
	pct := o.Sub(d).Div(o).Mul(decimal.NewFromInt(100)).Round(0)
	return int(pct.IntPart())
}

// IsDiscount reports whether discounted is a valid reduction of original.
func IsDiscount(original, discounted string) bool {
	o, err := Parse(original)
	if err != nil {
		return false
	}
	d, err := Parse(discounted)
	if err != nil {
		return false
	}
	return d.LessThan(o)
}
