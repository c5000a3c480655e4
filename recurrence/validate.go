package recurrence

import (
	"fmt"
	"time"

	"github.com/uFincs/uFincs-sub004/calendar"
	"github.com/uFincs/uFincs-sub004/model"
)

// Validate checks that the template's recurrence fields are complete and consistent for
// its frequency and end condition. Anchors belonging to other frequencies are ignored.
func Validate(t model.RecurringTemplate) error {
	var problems []Problem
	add := func(field, format string, args ...interface{}) {
		problems = append(problems, Problem{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if t.StartDate.IsZero() {
		add("startDate", "is required")
	}
	if t.Interval < 1 {
		add("interval", "must be at least 1, got %d", t.Interval)
	}

	switch t.Frequency {
	case calendar.Daily:
	case calendar.Weekly:
		if t.OnWeekday == nil {
			add("onWeekday", "is required for weekly templates")
		} else if *t.OnWeekday < time.Sunday || *t.OnWeekday > time.Saturday {
			add("onWeekday", "must be 0-6, got %d", int(*t.OnWeekday))
		}
	case calendar.Monthly:
		if t.OnMonthDay == 0 {
			add("onMonthDay", "is required for monthly templates")
		} else if !validDay(t.OnMonthDay) {
			add("onMonthDay", "must be 1-31 or -1, got %d", t.OnMonthDay)
		}
	case calendar.Yearly:
		if t.OnYearMonth == 0 {
			add("onYearMonth", "is required for yearly templates")
		} else if t.OnYearMonth < time.January || t.OnYearMonth > time.December {
			add("onYearMonth", "must be 1-12, got %d", int(t.OnYearMonth))
		}
		if t.OnYearDay == 0 {
			add("onYearDay", "is required for yearly templates")
		} else if !validDay(t.OnYearDay) {
			add("onYearDay", "must be 1-31 or -1, got %d", t.OnYearDay)
		}
	default:
		add("frequency", "is required (daily, weekly, monthly or yearly)")
	}

	switch t.EndCondition {
	case model.EndAfter:
		if t.Count < 1 {
			add("count", "must be at least 1 when ending after a number of occurrences, got %d", t.Count)
		}
		if t.EndDate != nil {
			add("endDate", "must be empty when ending after a number of occurrences")
		}
	case model.EndOn:
		if t.EndDate == nil || t.EndDate.IsZero() {
			add("endDate", "is required when ending on a date")
		}
		if t.Count != 0 {
			add("count", "must be empty when ending on a date")
		}
	case model.EndNever:
		if t.Count != 0 {
			add("count", "must be empty for templates that never end")
		}
		if t.EndDate != nil {
			add("endDate", "must be empty for templates that never end")
		}
	default:
		add("endCondition", "is required (after, on or never)")
	}

	if t.LastRealizedDate != nil && !t.StartDate.IsZero() && t.LastRealizedDate.Before(t.StartDate) {
		add("lastRealizedDate", "must not be before startDate")
	}

	if len(problems) > 0 {
		return &InvalidRecurrenceSpecError{TemplateID: t.ID, Problems: problems}
	}
	return nil
}

func validDay(day int) bool {
	return day == calendar.LastDay || (day >= 1 && day <= 31)
}
