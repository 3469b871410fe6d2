package ingest

import (
	"fmt"
	"strings"

	"taxreport/internal/config"
	"taxreport/internal/model"
)

// SchemaError reports every required column missing from an upload at once,
// so the operator can fix the header row instead of replaying the upload per
// column.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// Lines validates the table against the required schema and maps each row to
// a typed order line. Returns *SchemaError when any required column is
// absent; value-level problems (bad timestamps, malformed amounts) are
// coerced downstream, never raised here.
func (t *Table) Lines(cfg config.Report) ([]model.OrderLine, error) {
	index := make(map[string]int, len(t.Headers))
	for i, h := range t.Headers {
		if _, ok := index[h]; !ok {
			index[h] = i
		}
	}

	var missing []string
	for _, col := range cfg.RequiredColumns() {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	lines := make([]model.OrderLine, 0, len(t.Rows))
	for _, row := range t.Rows {
		lines = append(lines, model.OrderLine{
			OrderID:        cell(row, index[cfg.OrderIDColumn]),
			CreatedTime:    ParseTimestamp(cell(row, index[cfg.TimestampColumn])),
			SKUID:          cell(row, index[cfg.SKUIDColumn]),
			ProductName:    cell(row, index[cfg.ProductNameColumn]),
			Variation:      cell(row, index[cfg.VariationColumn]),
			UnitPrice:      cell(row, index[cfg.UnitPriceColumn]),
			Quantity:       cell(row, index[cfg.QuantityColumn]),
			SellerDiscount: cell(row, index[cfg.DiscountColumn]),
			ShippingFee:    cell(row, index[cfg.ShippingColumn]),
			OrderStatus:    cell(row, index[cfg.StatusColumn]),
		})
	}

	return lines, nil
}
