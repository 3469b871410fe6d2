// Package export encodes the assembled tax report as an XLSX workbook.
// Pure encoding: values arrive final from the pipeline and are written as-is.
package export

import (
	"bytes"
	"fmt"

	"taxreport/internal/model"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Tax Report"

// Columns is the fixed output header, in report order.
var Columns = []string{
	"Invoice No",
	"Order ID",
	"Created Time",
	"SKU ID",
	"Product Name",
	"Variation",
	"Unit Price",
	"Quantity",
	"Line Amount",
	"Seller Discount",
	"Shipping Fee",
	"Net Total",
	"Tax Base",
	"VAT Amount",
	"Order Status",
}

// Filename returns the download name for a report generated from the given
// invoice seed.
func Filename(seed string) string {
	return fmt.Sprintf("Tax_Report_%s.xlsx", seed)
}

// XLSX renders the report rows into workbook bytes. Monetary cells are
// written as numbers so the sheet stays summable in Excel.
func XLSX(lines []model.TaxLine) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for i, l := range lines {
		row := []interface{}{
			l.InvoiceNo,
			l.OrderID,
			l.CreatedDate,
			l.SKUID,
			l.ProductName,
			l.Variation,
			l.UnitPrice.InexactFloat64(),
			l.Quantity.InexactFloat64(),
			l.LineAmount.InexactFloat64(),
			l.SellerDiscount.InexactFloat64(),
			l.ShippingFee.InexactFloat64(),
			l.NetTotal.InexactFloat64(),
			l.TaxBase.InexactFloat64(),
			l.VATAmount.InexactFloat64(),
			l.OrderStatus,
		}
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cellRef, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}
