package recurrence

import (
	"fmt"
	"strings"

	"github.com/uFincs/uFincs-sub004/calendar"
	"github.com/uFincs/uFincs-sub004/model"
)

// Describe renders the template's rule as a short English sentence, for example
// "Every 2 weeks on Monday, starting 2024-01-01, 3 times".
func Describe(t model.RecurringTemplate) (string, error) {
	if err := Validate(t); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Every ")
	if t.Interval > 1 {
		fmt.Fprintf(&b, "%d %ss", t.Interval, unitName(t.Frequency))
	} else {
		b.WriteString(unitName(t.Frequency))
	}

	switch t.Frequency {
	case calendar.Weekly:
		fmt.Fprintf(&b, " on %s", t.OnWeekday.String())
	case calendar.Monthly:
		fmt.Fprintf(&b, " on the %s", dayName(t.OnMonthDay))
	case calendar.Yearly:
		if t.OnYearDay == calendar.LastDay {
			fmt.Fprintf(&b, " on the last day of %s", t.OnYearMonth)
		} else {
			fmt.Fprintf(&b, " on %s %d", t.OnYearMonth, t.OnYearDay)
		}
	}

	fmt.Fprintf(&b, ", starting %s", t.StartDate)

	switch t.EndCondition {
	case model.EndAfter:
		if t.Count == 1 {
			b.WriteString(", once")
		} else {
			fmt.Fprintf(&b, ", %d times", t.Count)
		}
	case model.EndOn:
		fmt.Fprintf(&b, ", until %s", t.EndDate)
	}

	return b.String(), nil
}

func unitName(f calendar.Frequency) string {
	switch f {
	case calendar.Daily:
		return "day"
	case calendar.Weekly:
		return "week"
	case calendar.Monthly:
		return "month"
	default:
		return "year"
	}
}

func dayName(day int) string {
	if day == calendar.LastDay {
		return "last day"
	}
	return ordinal(day)
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
