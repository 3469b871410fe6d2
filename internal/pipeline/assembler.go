package pipeline

import "taxreport/internal/model"

// dateLayout renders timestamps date-only, day first, as the accounting team
// reads them.
const dateLayout = "02/01/2006"

// Assemble projects the computed lines into the final report rows. Pure
// selection and formatting, no amount is recomputed or re-rounded here.
func Assemble(lines []Line, invoices map[string]string) []model.TaxLine {
	out := make([]model.TaxLine, len(lines))
	for i, l := range lines {
		date := ""
		if l.CreatedTime != nil {
			date = l.CreatedTime.Format(dateLayout)
		}

		out[i] = model.TaxLine{
			InvoiceNo:      invoices[l.OrderID],
			OrderID:        l.OrderID,
			CreatedDate:    date,
			SKUID:          l.SKUID,
			ProductName:    l.ProductName,
			Variation:      l.Variation,
			UnitPrice:      l.UnitPrice,
			Quantity:       l.Quantity,
			LineAmount:     l.LineAmount,
			SellerDiscount: l.SellerDiscount,
			ShippingFee:    l.ShippingFee,
			NetTotal:       l.NetTotal,
			TaxBase:        l.TaxBase,
			VATAmount:      l.VATAmount,
			OrderStatus:    l.OrderStatus,
		}
	}
	return out
}
