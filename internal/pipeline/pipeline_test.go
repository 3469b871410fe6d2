package pipeline

import (
	"testing"
	"time"

	"taxreport/internal/config"
	"taxreport/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(value string) *time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return &t
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func TestSortByCreatedTimeStable(t *testing.T) {
	lines := []model.OrderLine{
		{OrderID: "B", SKUID: "b1", CreatedTime: ts("2024-01-02")},
		{OrderID: "A", SKUID: "a1", CreatedTime: ts("2024-01-01")},
		{OrderID: "B", SKUID: "b2", CreatedTime: ts("2024-01-02")},
		{OrderID: "X", SKUID: "x1"}, // unparsable timestamp, sorts first
	}

	sorted := SortByCreatedTime(lines)

	assert.Equal(t, "x1", sorted[0].SKUID)
	assert.Equal(t, "a1", sorted[1].SKUID)
	// Tie on timestamp keeps input order.
	assert.Equal(t, "b1", sorted[2].SKUID)
	assert.Equal(t, "b2", sorted[3].SKUID)

	// Input slice untouched.
	assert.Equal(t, "B", lines[0].OrderID)
}

func TestDeduplicateShipping(t *testing.T) {
	lines := []Line{
		{OrderID: "O1", ShippingFee: dec("50")},
		{OrderID: "O1", ShippingFee: dec("50")},
		{OrderID: "O2", ShippingFee: dec("30")},
		{OrderID: "O1", ShippingFee: dec("50")},
	}

	DeduplicateShipping(lines)

	assertDecimal(t, "50", lines[0].ShippingFee)
	assertDecimal(t, "0", lines[1].ShippingFee)
	assertDecimal(t, "30", lines[2].ShippingFee)
	assertDecimal(t, "0", lines[3].ShippingFee)

	// Per-order sum equals the originally reported fee.
	sum := lines[0].ShippingFee.Add(lines[1].ShippingFee).Add(lines[3].ShippingFee)
	assertDecimal(t, "50", sum)
}

func TestCalculateRounding(t *testing.T) {
	lines := []Line{{
		OrderID:        "O1",
		UnitPrice:      dec("100"),
		Quantity:       dec("2"),
		SellerDiscount: dec("10"),
		ShippingFee:    dec("50"),
	}}

	Calculate(lines, dec("0.07"))

	assertDecimal(t, "200", lines[0].LineAmount)
	assertDecimal(t, "240", lines[0].NetTotal)
	// 240 / 1.07 = 224.299065... -> 224.30 at 2dp, half away from zero
	assertDecimal(t, "224.30", lines[0].TaxBase)
	// 224.30 * 0.07 = 15.701 -> 15.70
	assertDecimal(t, "15.70", lines[0].VATAmount)
}

func TestCalculatePerLineRoundingDrift(t *testing.T) {
	lines := []Line{{OrderID: "O1", UnitPrice: dec("50"), Quantity: dec("1")}}

	Calculate(lines, dec("0.07"))

	// 50 / 1.07 = 46.7289... -> 46.73; 46.73 * 0.07 = 3.2711 -> 3.27.
	// tax_base + vat = 50.00 here, but a one-cent drift per line is allowed.
	assertDecimal(t, "46.73", lines[0].TaxBase)
	assertDecimal(t, "3.27", lines[0].VATAmount)
	drift := lines[0].NetTotal.Sub(lines[0].TaxBase.Add(lines[0].VATAmount)).Abs()
	assert.True(t, drift.LessThanOrEqual(dec("0.01")), "drift %s", drift)
}

func testInput() []model.OrderLine {
	return []model.OrderLine{
		{OrderID: "O1", CreatedTime: ts("2024-01-02"), SKUID: "S1", UnitPrice: "100", Quantity: "2", SellerDiscount: "10", ShippingFee: "50", OrderStatus: "Completed"},
		{OrderID: "O1", CreatedTime: ts("2024-01-02"), SKUID: "S2", UnitPrice: "50", Quantity: "1", SellerDiscount: "0", ShippingFee: "50", OrderStatus: "Completed"},
		{OrderID: "O2", CreatedTime: ts("2024-01-01"), SKUID: "S3", UnitPrice: "THB 200", Quantity: "1", SellerDiscount: "", ShippingFee: "30", OrderStatus: "Completed"},
	}
}

func TestRunEndToEnd(t *testing.T) {
	cfg := config.DefaultReport()

	result, err := Run(testInput(), "INV00001", cfg)
	require.NoError(t, err)
	require.Len(t, result.Lines, 3)

	// O2 has the earlier date, so it appears first and takes the seed code.
	assert.Equal(t, "INV00001", result.Invoices["O2"])
	assert.Equal(t, "INV00002", result.Invoices["O1"])
	assert.Equal(t, 2, result.OrderCount)
	assert.Equal(t, "INV00001", result.FirstInvoice)
	assert.Equal(t, "INV00002", result.LastInvoice)

	o2 := result.Lines[0]
	assert.Equal(t, "O2", o2.OrderID)
	assert.Equal(t, "01/01/2024", o2.CreatedDate)
	assertDecimal(t, "230", o2.NetTotal) // 200*1 - 0 + 30

	// O1's lines keep input order; only the first carries the fee.
	first, second := result.Lines[1], result.Lines[2]
	assert.Equal(t, "S1", first.SKUID)
	assert.Equal(t, "S2", second.SKUID)
	assertDecimal(t, "50", first.ShippingFee)
	assertDecimal(t, "0", second.ShippingFee)
	assertDecimal(t, "240", first.NetTotal) // 100*2 - 10 + 50
	assertDecimal(t, "50", second.NetTotal) // 50*1 - 0 + 0

	// Every line of an order shares its invoice code.
	assert.Equal(t, "INV00002", first.InvoiceNo)
	assert.Equal(t, "INV00002", second.InvoiceNo)
}

func TestRunIdempotent(t *testing.T) {
	cfg := config.DefaultReport()

	first, err := Run(testInput(), "INV00001", cfg)
	require.NoError(t, err)
	second, err := Run(testInput(), "INV00001", cfg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunBadSeedProducesNothing(t *testing.T) {
	result, err := Run(testInput(), "no-digits", config.DefaultReport())
	assert.ErrorIs(t, err, ErrInvalidSeed)
	assert.Nil(t, result)
}

func TestRunInvoiceBijection(t *testing.T) {
	lines := []model.OrderLine{
		{OrderID: "A", CreatedTime: ts("2024-03-01"), UnitPrice: "10", Quantity: "1"},
		{OrderID: "B", CreatedTime: ts("2024-03-02"), UnitPrice: "10", Quantity: "1"},
		{OrderID: "A", CreatedTime: ts("2024-03-03"), UnitPrice: "10", Quantity: "1"},
		{OrderID: "C", CreatedTime: ts("2024-03-04"), UnitPrice: "10", Quantity: "1"},
	}

	result, err := Run(lines, "INV001", config.DefaultReport())
	require.NoError(t, err)

	codes := make(map[string]bool)
	for _, code := range result.Invoices {
		codes[code] = true
	}
	assert.Len(t, result.Invoices, 3, "one invoice per distinct order")
	assert.Len(t, codes, 3, "codes are distinct")
}
