package pipeline

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"taxreport/internal/model"
)

// ErrInvalidSeed is returned when the invoice seed has no trailing digit run.
var ErrInvalidSeed = errors.New("invalid invoice seed format: must end with digits")

// seedPattern splits a seed like "TINV251100001" into a prefix ("TINV2511")
// and the trailing digit run ("00001"). The lazy prefix keeps the digit
// capture maximal.
var seedPattern = regexp.MustCompile(`^(.*?)(\d+)$`)

// Allocation is the result of invoice allocation: a one-to-one mapping from
// unique order IDs (in chronological first-appearance order) to generated
// invoice codes.
type Allocation struct {
	ByOrder      map[string]string
	FirstInvoice string
	LastInvoice  string
	OrderCount   int
}

// invoiceSequence generates consecutive invoice codes from a parsed seed.
// The numeric suffix keeps the seed's zero-padded width; counters that
// outgrow the width simply produce longer codes ("00099" -> ... -> "00101").
type invoiceSequence struct {
	prefix string
	width  int
	next   int64
}

func parseSeed(seed string) (*invoiceSequence, error) {
	m := seedPattern.FindStringSubmatch(seed)
	if m == nil {
		return nil, ErrInvalidSeed
	}

	start, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		// Digit run too long for an int64 counter.
		return nil, fmt.Errorf("%w: numeric suffix %q out of range", ErrInvalidSeed, m[2])
	}

	return &invoiceSequence{prefix: m[1], width: len(m[2]), next: start}, nil
}

func (s *invoiceSequence) Next() string {
	code := fmt.Sprintf("%s%0*d", s.prefix, s.width, s.next)
	s.next++
	return code
}

// AllocateInvoices scans the chronologically-sorted lines top to bottom,
// collects unique order IDs in first-appearance order and assigns each one
// the next code in the sequence. All lines of an order share its code.
// The only failure mode is a malformed seed; the data itself never fails.
func AllocateInvoices(sorted []model.OrderLine, seed string) (*Allocation, error) {
	seq, err := parseSeed(seed)
	if err != nil {
		return nil, err
	}

	alloc := &Allocation{ByOrder: make(map[string]string)}
	for _, line := range sorted {
		if _, ok := alloc.ByOrder[line.OrderID]; ok {
			continue
		}
		code := seq.Next()
		alloc.ByOrder[line.OrderID] = code
		if alloc.FirstInvoice == "" {
			alloc.FirstInvoice = code
		}
		alloc.LastInvoice = code
		alloc.OrderCount++
	}

	return alloc, nil
}
