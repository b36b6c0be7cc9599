package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
)

// Series is a document-number prefix
type Series string

const (
	SeriesReceipt        Series = "PUR_REC"
	SeriesReceiptBill    Series = "PUR_RECPT"
	SeriesBill           Series = "PUR_BILL"
	SeriesPurchaseReturn Series = "PUR_RET"
	SeriesProduction     Series = "PROD"
	SeriesTransfer       Series = "TRF"
	SeriesAdjustment     Series = "ADJ"
	SeriesInvoice        Series = "INV"
	SeriesSaleReturn     Series = "SAL_RET"
	SeriesSalary         Series = "SAL"
	SeriesIncome         Series = "INC"
	SeriesExpense        Series = "EXP"
	SeriesVendorPayment  Series = "VPAY"
	SeriesCollection     Series = "COL"
)

// Number is a parsed PREFIX-YEAR-COUNTER document number
type Number struct {
	Prefix  string
	Year    int
	Counter int
}

func (n Number) String() string {
	return fmt.Sprintf("%s-%d-%d", n.Prefix, n.Year, n.Counter)
}

// ParseNumber splits a document number on its last two hyphens.
// Everything before them is the prefix, so prefixes may contain hyphens.
func ParseNumber(s string) (Number, error) {
	last := strings.LastIndex(s, "-")
	if last <= 0 {
		return Number{}, invalidNumber(s)
	}
	mid := strings.LastIndex(s[:last], "-")
	if mid <= 0 {
		return Number{}, invalidNumber(s)
	}

	year, err := strconv.Atoi(s[mid+1 : last])
	if err != nil {
		return Number{}, invalidNumber(s)
	}
	counter, err := strconv.Atoi(s[last+1:])
	if err != nil || counter < 0 {
		return Number{}, invalidNumber(s)
	}
	return Number{Prefix: s[:mid], Year: year, Counter: counter}, nil
}

func invalidNumber(s string) error {
	return shared.NewFieldError("document_number", fmt.Sprintf("%q is not in PREFIX-YEAR-COUNTER form", s))
}

// Next returns the number following previous. The counter increments within
// the same calendar year as now and restarts at 1 when the year differs.
func Next(previous string, now time.Time) (string, error) {
	n, err := ParseNumber(previous)
	if err != nil {
		return "", err
	}
	if n.Year == now.Year() {
		n.Counter++
	} else {
		n.Year = now.Year()
		n.Counter = 1
	}
	return n.String(), nil
}

// Seed is the notional number before the first one of a series in now's year
func Seed(series Series, now time.Time) string {
	return Number{Prefix: string(series), Year: now.Year(), Counter: 0}.String()
}

// AdvanceNumber is the narrow numbering scheme of advances: the compacted
// calendar date. All advances of one day share a number, and a ledger entry.
func AdvanceNumber(date time.Time) string {
	return date.Format("20060102")
}
