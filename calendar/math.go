package calendar

import (
	"fmt"
	"strings"
	"time"
)

// LastDay is the day-of-month sentinel meaning "the last day of the month".
const LastDay = -1

// Frequency is the unit a recurrence advances by.
type Frequency int

const (
	FrequencyUnknown Frequency = iota
	Daily
	Weekly
	Monthly
	Yearly
)

// String returns the lowercase name of the frequency.
func (f Frequency) String() string {
	switch f {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Yearly:
		return "yearly"
	default:
		return "unknown"
	}
}

// ParseFrequency parses a frequency name (case-insensitive).
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily":
		return Daily, nil
	case "weekly":
		return Weekly, nil
	case "monthly":
		return Monthly, nil
	case "yearly":
		return Yearly, nil
	default:
		return FrequencyUnknown, fmt.Errorf("unknown frequency %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Frequency) MarshalText() ([]byte, error) {
	if f == FrequencyUnknown {
		return []byte{}, nil
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Frequency) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*f = FrequencyUnknown
		return nil
	}
	parsed, err := ParseFrequency(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// IsLeapYear reports whether year is a Gregorian leap year: divisible by 4, except
// centuries, unless also divisible by 400.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in month of year. It returns 0 for a month
// outside 1-12.
func DaysInMonth(year int, month time.Month) int {
	switch month {
	case time.January, time.March, time.May, time.July, time.August, time.October, time.December:
		return 31
	case time.April, time.June, time.September, time.November:
		return 30
	case time.February:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

// normalizeMonth folds an unbounded month offset into a (year, month) pair, so that
// month 13 of 2023 is January 2024 and month 0 is December of the previous year.
func normalizeMonth(year int, month int) (int, time.Month) {
	m := month - 1
	year += m / 12
	m %= 12
	if m < 0 {
		m += 12
		year--
	}
	return year, time.Month(m + 1)
}

// ClampDayOfMonth returns day in the given month, clamped to the month's last day. The
// LastDay sentinel always resolves to the last day.
func ClampDayOfMonth(year int, month time.Month, day int) (Date, error) {
	if month < time.January || month > time.December {
		return Date{}, &InvalidDateError{Year: year, Month: int(month), Day: day, Reason: "month out of range"}
	}
	return clampDay(year, int(month), day)
}

// clampDay is ClampDayOfMonth over an unbounded month offset.
func clampDay(year int, month int, day int) (Date, error) {
	if day == 0 || day < LastDay || day > 31 {
		return Date{}, &InvalidDateError{Year: year, Month: month, Day: day, Reason: "day must be 1-31 or -1"}
	}

	y, m := normalizeMonth(year, month)
	last := DaysInMonth(y, m)
	if day == LastDay || day > last {
		day = last
	}
	return New(y, m, day)
}

// AddMonths returns the date interval months after the month of (year, month), on
// anchorDay clamped to that month. months may be negative or carry across years.
// Callers computing a series should always pass the original anchor month and day so
// clamping never accumulates.
func AddMonths(year int, month time.Month, anchorDay int, months int) (Date, error) {
	if month < time.January || month > time.December {
		return Date{}, &InvalidDateError{Year: year, Month: int(month), Day: anchorDay, Reason: "month out of range"}
	}
	return clampDay(year, int(month)+months, anchorDay)
}

// AddInterval adds interval units of frequency to date. Monthly and yearly steps keep
// date's day of month as the anchor and clamp it to the target month.
func AddInterval(date Date, frequency Frequency, interval int) (Date, error) {
	if date.IsZero() {
		return Date{}, &InvalidDateError{Reason: "zero date"}
	}
	if interval < 1 {
		return Date{}, &InvalidDateError{Input: date.String(), Reason: fmt.Sprintf("interval must be positive, got %d", interval)}
	}

	switch frequency {
	case Daily:
		return date.AddDays(interval), nil
	case Weekly:
		return date.AddDays(7 * interval), nil
	case Monthly:
		return AddMonths(date.Year(), date.Month(), date.Day(), interval)
	case Yearly:
		return ClampDayOfMonth(date.Year()+interval, date.Month(), date.Day())
	default:
		return Date{}, &InvalidDateError{Input: date.String(), Reason: fmt.Sprintf("unknown frequency %d", frequency)}
	}
}

// NextWeekday returns the first date on or after d that falls on weekday.
func NextWeekday(d Date, weekday time.Weekday) Date {
	offset := (int(weekday) - int(d.Weekday()) + 7) % 7
	return d.AddDays(offset)
}
