package pipeline

import (
	"time"

	"taxreport/internal/model"
	"taxreport/pkg/money"

	"github.com/shopspring/decimal"
)

// Line is a working row inside the pipeline: the order line with its
// monetary text already normalized to decimals.
type Line struct {
	OrderID        string
	CreatedTime    *time.Time
	SKUID          string
	ProductName    string
	Variation      string
	OrderStatus    string
	UnitPrice      decimal.Decimal
	Quantity       decimal.Decimal
	SellerDiscount decimal.Decimal
	ShippingFee    decimal.Decimal

	LineAmount decimal.Decimal
	NetTotal   decimal.Decimal
	TaxBase    decimal.Decimal
	VATAmount  decimal.Decimal
}

// NormalizeLines converts the raw monetary text of each order line into
// decimals. Total by construction: unparsable cells become zero.
func NormalizeLines(lines []model.OrderLine) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = Line{
			OrderID:        l.OrderID,
			CreatedTime:    l.CreatedTime,
			SKUID:          l.SKUID,
			ProductName:    l.ProductName,
			Variation:      l.Variation,
			OrderStatus:    l.OrderStatus,
			UnitPrice:      money.Normalize(l.UnitPrice),
			Quantity:       money.Normalize(l.Quantity),
			SellerDiscount: money.Normalize(l.SellerDiscount),
			ShippingFee:    money.Normalize(l.ShippingFee),
		}
	}
	return out
}

// DeduplicateShipping zeroes the shipping fee on every line of an order
// except the chronologically first one. The marketplace charges shipping once
// per order but exports one row per SKU, so without this step a sum over the
// fee column overcounts by the line count of each order.
func DeduplicateShipping(lines []Line) {
	seen := make(map[string]bool, len(lines))
	for i := range lines {
		if seen[lines[i].OrderID] {
			lines[i].ShippingFee = decimal.Zero
			continue
		}
		seen[lines[i].OrderID] = true
	}
}

// Calculate fills the derived amounts for each line independently:
//
//	line_amount = unit_price * quantity
//	net_total   = line_amount - seller_discount + shipping_fee
//	tax_base    = net_total / (1 + vat_rate)
//	vat_amount  = tax_base * vat_rate
//
// tax_base and vat_amount are rounded to 2 decimal places per line, half
// away from zero (shopspring Round). Per-line rounding means tax_base +
// vat_amount can drift from net_total by up to one cent on a line; that is
// the accepted presentation policy, not a defect.
func Calculate(lines []Line, vatRate decimal.Decimal) {
	divisor := decimal.NewFromInt(1).Add(vatRate)
	for i := range lines {
		l := &lines[i]
		l.LineAmount = l.UnitPrice.Mul(l.Quantity)
		l.NetTotal = l.LineAmount.Sub(l.SellerDiscount).Add(l.ShippingFee)
		l.TaxBase = l.NetTotal.Div(divisor).Round(2)
		l.VATAmount = l.TaxBase.Mul(vatRate).Round(2)
	}
}
