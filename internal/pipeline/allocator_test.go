package pipeline

import (
	"testing"

	"taxreport/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linesWithOrders(orderIDs ...string) []model.OrderLine {
	lines := make([]model.OrderLine, len(orderIDs))
	for i, id := range orderIDs {
		lines[i] = model.OrderLine{OrderID: id}
	}
	return lines
}

func TestAllocateInvoicesAssignsPerOrder(t *testing.T) {
	lines := linesWithOrders("A", "A", "B", "C", "B")

	alloc, err := AllocateInvoices(lines, "INV00001")
	require.NoError(t, err)

	assert.Equal(t, "INV00001", alloc.ByOrder["A"])
	assert.Equal(t, "INV00002", alloc.ByOrder["B"])
	assert.Equal(t, "INV00003", alloc.ByOrder["C"])
	assert.Equal(t, 3, alloc.OrderCount)
	assert.Equal(t, "INV00001", alloc.FirstInvoice)
	assert.Equal(t, "INV00003", alloc.LastInvoice)
}

func TestAllocateInvoicesRejectsBadSeed(t *testing.T) {
	for _, seed := range []string{"", "INVOICE", "INV001X"} {
		_, err := AllocateInvoices(linesWithOrders("A"), seed)
		assert.ErrorIs(t, err, ErrInvalidSeed, "seed %q", seed)
	}
}

func TestAllocateInvoicesWidthOverflow(t *testing.T) {
	lines := linesWithOrders("A", "B", "C")

	alloc, err := AllocateInvoices(lines, "R00099")
	require.NoError(t, err)

	// Padding width stays at 5; the counter simply outgrows it.
	assert.Equal(t, "R00099", alloc.ByOrder["A"])
	assert.Equal(t, "R00100", alloc.ByOrder["B"])
	assert.Equal(t, "R00101", alloc.ByOrder["C"])
}

func TestAllocateInvoicesNarrowWidthGrows(t *testing.T) {
	alloc, err := AllocateInvoices(linesWithOrders("A", "B"), "T9")
	require.NoError(t, err)

	assert.Equal(t, "T9", alloc.ByOrder["A"])
	assert.Equal(t, "T10", alloc.ByOrder["B"])
}

func TestAllocateInvoicesDigitsOnlySeed(t *testing.T) {
	alloc, err := AllocateInvoices(linesWithOrders("A", "B"), "00099")
	require.NoError(t, err)

	assert.Equal(t, "00099", alloc.ByOrder["A"])
	assert.Equal(t, "00100", alloc.ByOrder["B"])
}
