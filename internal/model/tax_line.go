package model

import "github.com/shopspring/decimal"

// TaxLine is one row of the finished tax report: the order line with its
// allocated invoice number, normalized amounts, deduplicated shipping fee and
// the VAT breakdown. Values are final; the export layer must not recompute
// or re-round them.
type TaxLine struct {
	InvoiceNo      string          `json:"invoice_no"`
	OrderID        string          `json:"order_id"`
	CreatedDate    string          `json:"created_date"` // dd/mm/yyyy, empty when the timestamp was unparsable
	SKUID          string          `json:"sku_id"`
	ProductName    string          `json:"product_name"`
	Variation      string          `json:"variation"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Quantity       decimal.Decimal `json:"quantity"`
	LineAmount     decimal.Decimal `json:"line_amount"`     // unit_price * quantity
	SellerDiscount decimal.Decimal `json:"seller_discount"`
	ShippingFee    decimal.Decimal `json:"shipping_fee"`    // zeroed on all but the first line of each order
	NetTotal       decimal.Decimal `json:"net_total"`       // line_amount - seller_discount + shipping_fee
	TaxBase        decimal.Decimal `json:"tax_base"`        // net_total / (1 + vat_rate), rounded to 2dp
	VATAmount      decimal.Decimal `json:"vat_amount"`      // tax_base * vat_rate, rounded to 2dp
	OrderStatus    string          `json:"order_status"`
}
