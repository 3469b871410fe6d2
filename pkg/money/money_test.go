package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain number", "120", "120"},
		{"decimal number", "99.90", "99.90"},
		{"currency code", "THB 120.00", "120.00"},
		{"currency symbol", "฿1,000", "1000"},
		{"thousands separator", "1,234.50", "1234.50"},
		{"code and separator", "THB 1,234.50", "1234.50"},
		{"surrounding whitespace", "  45.5  ", "45.5"},
		{"negative", "-15.25", "-15.25"},
		{"negative with code", "THB -7.00", "-7.00"},
		{"empty", "", "0"},
		{"not a number", "N/A", "0"},
		{"double minus", "--", "0"},
		{"lone minus", "-", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			want := decimal.RequireFromString(tt.want)
			assert.True(t, want.Equal(got), "Normalize(%q) = %s, want %s", tt.in, got, want)
		})
	}
}

func TestNormalizeMinusOnlyLeading(t *testing.T) {
	// A minus sign inside the value is a stray artifact, not a sign.
	got := Normalize("12-5")
	assert.True(t, decimal.RequireFromString("125").Equal(got), "got %s", got)
}
