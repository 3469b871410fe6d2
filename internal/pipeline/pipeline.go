// Package pipeline implements the tax-report transformation: chronological
// sorting, invoice-number allocation, currency normalization, per-order
// shipping-fee deduplication, VAT computation and the final projection.
//
// Every stage fully consumes its input and produces a complete output before
// the next stage runs. The stages are pure over their input; the only error
// the pipeline can return is a malformed invoice seed.
package pipeline

import (
	"taxreport/internal/config"
	"taxreport/internal/model"
)

// Result is the output of one pipeline invocation.
type Result struct {
	Lines        []model.TaxLine
	Invoices     map[string]string
	FirstInvoice string
	LastInvoice  string
	OrderCount   int
}

// Run executes the full transformation over an immutable snapshot of the
// input lines. Running it twice on the same input and seed yields an
// identical result.
func Run(lines []model.OrderLine, seed string, cfg config.Report) (*Result, error) {
	sorted := SortByCreatedTime(lines)

	alloc, err := AllocateInvoices(sorted, seed)
	if err != nil {
		return nil, err
	}

	normalized := NormalizeLines(sorted)
	DeduplicateShipping(normalized)
	Calculate(normalized, cfg.VATRate)

	return &Result{
		Lines:        Assemble(normalized, alloc.ByOrder),
		Invoices:     alloc.ByOrder,
		FirstInvoice: alloc.FirstInvoice,
		LastInvoice:  alloc.LastInvoice,
		OrderCount:   alloc.OrderCount,
	}, nil
}
