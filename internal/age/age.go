// Package age computes the age-at-capture label used in renamed filenames.
package age

import (
	"fmt"
	"time"
)

// DayMonthThreshold is the day count at which labels switch from days to months.
const DayMonthThreshold = 28

// Result is a computed age label plus the whole units it was derived from.
type Result struct {
	Label  string
	Days   int
	Months int
	// Negative is set when capture precedes birth; Label is then clamped to "0days".
	Negative bool
}

// Label computes the age of someone born on birth at the capture date.
// Both arguments are reduced to civil dates before any arithmetic.
func Label(birth, capture time.Time) Result {
	b := civil(birth)
	c := civil(capture)

	if c.Before(b) {
		return Result{Label: "0days", Negative: true}
	}

	days := int(c.Sub(b).Hours() / 24)
	if days < DayMonthThreshold {
		return Result{Label: fmt.Sprintf("%ddays", days), Days: days}
	}

	months := MonthsBetween(b, c)
	if months < 12 {
		return Result{Label: fmt.Sprintf("%dmonths", months), Days: days, Months: months}
	}

	return Result{Label: fmt.Sprintf("%dyears", months/12), Days: days, Months: months}
}

// MonthsBetween returns the number of whole calendar months from birth to capture.
// Month k is complete once capture reaches birth + k months, where the day of
// month is clamped to the last day of shorter months (Jan 31 + 1 month = Feb 28).
func MonthsBetween(birth, capture time.Time) int {
	b := civil(birth)
	c := civil(capture)
	if c.Before(b) {
		return 0
	}

	months := (c.Year()-b.Year())*12 + int(c.Month()) - int(b.Month())
	for months > 0 && addMonthsClamped(b, months).After(c) {
		months--
	}
	return months
}

// addMonthsClamped adds n months to t without overflowing into the following month.
func addMonthsClamped(t time.Time, n int) time.Time {
	total := int(t.Month()) - 1 + n
	year := t.Year() + total/12
	month := time.Month(total%12 + 1)

	day := t.Day()
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
