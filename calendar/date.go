// Package calendar provides the date arithmetic used by recurrence expansion and balance
// projection. Dates carry no time component: every Date is a UTC midnight, so two Dates
// for the same calendar day always compare equal.
//
// Month and year arithmetic never spills into the following month. Adding one month to
// January 31st yields the last day of February, and a recurrence anchored on the 31st
// returns to the 31st whenever the month has one.
package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the ISO 8601 calendar date format used for parsing and printing.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component.
type Date struct {
	t time.Time
}

// New returns the date for year, month and day. It fails with an InvalidDateError when
// the combination does not exist (month outside 1-12, day outside the month).
func New(year int, month time.Month, day int) (Date, error) {
	if month < time.January || month > time.December {
		return Date{}, &InvalidDateError{Year: year, Month: int(month), Day: day, Reason: "month out of range"}
	}
	if day < 1 || day > DaysInMonth(year, month) {
		return Date{}, &InvalidDateError{Year: year, Month: int(month), Day: day, Reason: "day out of range"}
	}
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}, nil
}

// MustNew is like New but panics on invalid input. Intended for tests and constants.
func MustNew(year int, month time.Month, day int) Date {
	d, err := New(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// Parse parses a YYYY-MM-DD string.
func Parse(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, &InvalidDateError{Input: s, Reason: "expected YYYY-MM-DD"}
	}
	return FromTime(t), nil
}

// MustParse is like Parse but panics on invalid input.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FromTime returns the calendar day of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current local calendar date.
func Today() Date {
	return FromTime(time.Now())
}

func (d Date) Year() int              { return d.t.Year() }
func (d Date) Month() time.Month      { return d.t.Month() }
func (d Date) Day() int               { return d.t.Day() }
func (d Date) Weekday() time.Weekday  { return d.t.Weekday() }
func (d Date) Time() time.Time        { return d.t }
func (d Date) IsZero() bool           { return d.t.IsZero() }
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after other.
func (d Date) Compare(other Date) int {
	switch {
	case d.t.Before(other.t):
		return -1
	case d.t.After(other.t):
		return 1
	default:
		return 0
	}
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// DaysUntil returns the number of days from d to other (negative if other is earlier).
func (d Date) DaysUntil(other Date) int {
	return int(other.t.Sub(d.t).Hours() / 24)
}

// MonthsUntil returns the number of whole calendar months between the months of d and
// other, ignoring the day component.
func (d Date) MonthsUntil(other Date) int {
	return (other.Year()-d.Year())*12 + int(other.Month()) - int(d.Month())
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty input yields the zero Date.
func (d *Date) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Max returns the later of a and b.
func Max(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}

// Min returns the earlier of a and b.
func Min(a, b Date) Date {
	if a.Before(b) {
		return a
	}
	return b
}

// GoString keeps debug dumps readable.
func (d Date) GoString() string {
	if d.IsZero() {
		return "calendar.Date{}"
	}
	return fmt.Sprintf("calendar.MustParse(%q)", d.String())
}
