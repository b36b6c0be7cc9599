package stock

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used in identities and document dates
const DateLayout = "2006-01-02"

// Identity builds the natural merge key of a stock lot:
// "{unit}-{lot}-{pack size with two decimals}-{expiry}".
//
// Pack sizes that differ only beyond the second decimal produce the same
// identity and therefore merge into the same lot. A zero expiry renders as
// an empty trailing field.
func Identity(unitID uuid.UUID, lotNumber string, packSize decimal.Decimal, expiry time.Time) string {
	return fmt.Sprintf("%s-%s-%s-%s", unitID, lotNumber, packSize.StringFixed(2), formatDate(expiry))
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// TruncateDay drops the time-of-day part of t, keeping its location
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
