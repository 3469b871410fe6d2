package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Normalize coerces free-form monetary text from marketplace exports into a
// decimal value. Export cells arrive as plain numbers ("120"), currency-coded
// strings ("THB 120.00") or comma-grouped numbers ("1,234.50"). Everything
// that is not a digit, a decimal point or a leading minus sign is stripped
// before parsing. Unparsable input yields zero, never an error.
func Normalize(raw string) decimal.Decimal {
	cleaned := clean(raw)
	if cleaned == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// clean strips currency codes, symbols, grouping separators and whitespace in
// a single pass. A minus sign survives only at the head of the cleaned value.
func clean(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}

	s := b.String()
	if s == "-" {
		return ""
	}
	return s
}
