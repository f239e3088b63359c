package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultBillPrefix is the historical prefix on every issued bill number.
const DefaultBillPrefix = "MV"

// FinancialYear returns the April-to-March fiscal year label for date, as two
// two-digit year halves, e.g. 2024-04-01 → "24-25" and 2024-03-31 → "23-24".
func FinancialYear(date time.Time) string {
	year := date.Year()
	aprilFirst := time.Date(year, time.April, 1, 0, 0, 0, 0, date.Location())
	if !date.Before(aprilFirst) {
		return fmt.Sprintf("%02d-%02d", year%100, (year+1)%100)
	}
	return fmt.Sprintf("%02d-%02d", (year-1)%100, year%100)
}

// NextBillNumber pairs the fiscal-year label for date with the next sequence
// number after lastIssued. It does not advance anything: the store does that
// durably when the invoice is finalized.
func NextBillNumber(lastIssued int, date time.Time) (string, int) {
	return FinancialYear(date), lastIssued + 1
}

// FormatBillNo renders the display form of a bill number, e.g. "MV/24-25/7".
func FormatBillNo(prefix, label string, number int) string {
	if prefix == "" {
		prefix = DefaultBillPrefix
	}
	return fmt.Sprintf("%s/%s/%d", prefix, label, number)
}

// TrailingNumber extracts the sequence integer from a bill display string.
// It returns 0 when the trailing segment is not numeric.
func TrailingNumber(billNo string) int {
	idx := strings.LastIndex(billNo, "/")
	tail := billNo
	if idx >= 0 {
		tail = billNo[idx+1:]
	}
	n, err := strconv.Atoi(strings.TrimSpace(tail))
	if err != nil {
		return 0
	}
	return n
}
