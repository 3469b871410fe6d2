package config

import (
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

// Report holds every knob the tax-report pipeline reads: the VAT rate and the
// export column names that used to be hardcoded all over the original tool.
// Values come from DefaultReport, optionally overridden by environment
// variables in ReportFromEnv.
type Report struct {
	// VATRate is the tax rate extracted from tax-inclusive totals, e.g. 0.07
	// for the Thai 7% VAT.
	VATRate decimal.Decimal

	// HeaderRow is the zero-based index of the header row in uploaded files.
	// Marketplace exports sometimes carry a banner line above the headers.
	HeaderRow int

	// PreviewRows caps how many report rows are echoed back after generation.
	PreviewRows int

	// Input column names, matched after trimming surrounding whitespace.
	OrderIDColumn     string
	TimestampColumn   string
	SKUIDColumn       string
	ProductNameColumn string
	VariationColumn   string
	UnitPriceColumn   string
	QuantityColumn    string
	DiscountColumn    string
	ShippingColumn    string
	StatusColumn      string
}

// DefaultReport returns the configuration matching the Shopee/TikTok order
// export layout this tool was built for.
func DefaultReport() Report {
	return Report{
		VATRate:           decimal.NewFromFloat(0.07),
		HeaderRow:         0,
		PreviewRows:       20,
		OrderIDColumn:     "Order ID",
		TimestampColumn:   "Created Time",
		SKUIDColumn:       "SKU ID",
		ProductNameColumn: "Product Name",
		VariationColumn:   "Variation",
		UnitPriceColumn:   "SKU Unit Original Price",
		QuantityColumn:    "Quantity",
		DiscountColumn:    "SKU Seller Discount",
		ShippingColumn:    "Shipping Fee After Discount",
		StatusColumn:      "Order Status",
	}
}

// ReportFromEnv applies environment overrides on top of the defaults.
// Invalid values fall back silently, matching how the rest of the service
// treats optional env configuration.
func ReportFromEnv() Report {
	cfg := DefaultReport()

	if raw := os.Getenv("VAT_RATE"); raw != "" {
		if rate, err := decimal.NewFromString(raw); err == nil && rate.IsPositive() {
			cfg.VATRate = rate
		}
	}
	if raw := os.Getenv("REPORT_HEADER_ROW"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			cfg.HeaderRow = n
		}
	}

	return cfg
}

// RequiredColumns lists the input columns the pipeline cannot run without,
// in the order they are reported when missing.
func (r Report) RequiredColumns() []string {
	return []string{
		r.OrderIDColumn,
		r.TimestampColumn,
		r.SKUIDColumn,
		r.ProductNameColumn,
		r.VariationColumn,
		r.UnitPriceColumn,
		r.QuantityColumn,
		r.DiscountColumn,
		r.ShippingColumn,
		r.StatusColumn,
	}
}
