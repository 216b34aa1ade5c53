// Package dateutil holds the calendar arithmetic shared by the arrears and
// projection calculators. Every function takes the reference time explicitly.
package dateutil

import (
	"fmt"
	"strconv"
	"time"
)

// BillingDay is the fixed day of month every emitted date falls on.
const BillingDay = 15

// BillingDate returns the date monthOffset calendar months after asOf, with the
// day forced to BillingDay and the clock reset to midnight in asOf's location.
func BillingDate(asOf time.Time, monthOffset int) time.Time {
	start := time.Date(asOf.Year(), asOf.Month(), BillingDay, 0, 0, 0, 0, asOf.Location())
	return AdvanceMonths(start, monthOffset)
}

// AdvanceMonths moves d forward n calendar months one month at a time, so year
// boundaries roll over correctly. Negative n returns d unchanged.
func AdvanceMonths(d time.Time, n int) time.Time {
	for i := 0; i < n; i++ {
		d = addMonth(d)
	}
	return d
}

func addMonth(d time.Time) time.Time {
	year, month := d.Year(), d.Month()+1
	if month > time.December {
		month = time.January
		year++
	}
	day := d.Day()
	if last := DaysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, d.Hour(), d.Minute(), d.Second(), d.Nanosecond(), d.Location())
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysBetween returns the whole days from earlier to later, truncated toward
// zero. The result is negative when earlier is after later.
func DaysBetween(later, earlier time.Time) int {
	return int(later.Sub(earlier).Hours() / 24)
}

// ParseDate parses a YYYY-MM-DD string in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.UTC)
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// Date is a calendar date. It marshals to and from JSON as YYYY-MM-DD with no
// clock or zone.
type Date struct {
	time.Time
}

// DateOf wraps t as a calendar date.
func DateOf(t time.Time) Date {
	return Date{Time: t}
}

// String renders d as YYYY-MM-DD.
func (d Date) String() string {
	return FormatDate(d.Time)
}

// MarshalJSON emits d as a quoted YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + FormatDate(d.Time) + `"`), nil
}

// UnmarshalJSON accepts a quoted YYYY-MM-DD string or null.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	unquoted, err := strconv.Unquote(s)
	if err != nil {
		return fmt.Errorf("date must be a string: %s", s)
	}
	t, err := ParseDate(unquoted)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}
