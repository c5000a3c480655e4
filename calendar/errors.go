package calendar

import "fmt"

// InvalidDateError is returned when calendar input does not describe a real date.
type InvalidDateError struct {
	Input  string // raw input when parsing, empty otherwise
	Year   int
	Month  int
	Day    int
	Reason string
}

func (e *InvalidDateError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("invalid date %q: %s", e.Input, e.Reason)
	}
	if e.Year == 0 && e.Month == 0 && e.Day == 0 {
		return fmt.Sprintf("invalid date: %s", e.Reason)
	}
	return fmt.Sprintf("invalid date %04d-%02d-%02d: %s", e.Year, e.Month, e.Day, e.Reason)
}
