package model

import "time"

// OrderLine is one row of the raw marketplace export: a single SKU within an
// order. An order spanning several SKUs appears as several lines sharing the
// same OrderID. Monetary fields are kept as the export's raw text here; the
// pipeline normalizes them to decimals.
type OrderLine struct {
	OrderID        string     `json:"order_id"`
	CreatedTime    *time.Time `json:"created_time"` // nil when the export cell could not be parsed
	SKUID          string     `json:"sku_id"`
	ProductName    string     `json:"product_name"`
	Variation      string     `json:"variation"`
	UnitPrice      string     `json:"unit_price"`
	Quantity       string     `json:"quantity"`
	SellerDiscount string     `json:"seller_discount"`
	ShippingFee    string     `json:"shipping_fee"`
	OrderStatus    string     `json:"order_status"`
}
