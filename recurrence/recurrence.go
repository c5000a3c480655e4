// Package recurrence expands recurring templates into calendar occurrences.
//
// Every occurrence is computed from the template's first (anchor) occurrence rather than
// from the previous one. For a monthly template on the 31st the k-th occurrence is the
// anchor month plus k intervals, clamped to that month, so February never drags March
// down to the 28th. The count limit of templates ending "after" N occurrences is also
// indexed from the anchor, so the same template yields the same dates no matter which
// window it is expanded over.
//
// All functions are pure: the same template and window always give the same result.
package recurrence

import (
	"time"

	"github.com/uFincs/uFincs-sub004/calendar"
	"github.com/uFincs/uFincs-sub004/model"
)

// schedule is a validated template reduced to its anchor and step.
type schedule struct {
	tmpl   model.RecurringTemplate
	anchor calendar.Date

	// Monthly and yearly steps re-clamp the original anchor day every time.
	anchorDay   int
	anchorMonth time.Month
}

func newSchedule(t model.RecurringTemplate) (*schedule, error) {
	if err := Validate(t); err != nil {
		return nil, err
	}

	s := &schedule{tmpl: t}
	start := t.StartDate

	switch t.Frequency {
	case calendar.Daily:
		s.anchor = start

	case calendar.Weekly:
		s.anchor = calendar.NextWeekday(start, *t.OnWeekday)

	case calendar.Monthly:
		s.anchorDay = t.OnMonthDay
		first, err := calendar.ClampDayOfMonth(start.Year(), start.Month(), t.OnMonthDay)
		if err != nil {
			return nil, err
		}
		if first.Before(start) {
			if first, err = calendar.AddMonths(start.Year(), start.Month(), t.OnMonthDay, 1); err != nil {
				return nil, err
			}
		}
		s.anchor = first
		s.anchorMonth = first.Month()

	case calendar.Yearly:
		s.anchorDay = t.OnYearDay
		s.anchorMonth = t.OnYearMonth
		first, err := calendar.ClampDayOfMonth(start.Year(), t.OnYearMonth, t.OnYearDay)
		if err != nil {
			return nil, err
		}
		if first.Before(start) {
			if first, err = calendar.ClampDayOfMonth(start.Year()+1, t.OnYearMonth, t.OnYearDay); err != nil {
				return nil, err
			}
		}
		s.anchor = first
	}

	return s, nil
}

// at returns the k-th occurrence (k = 0 is the anchor), ignoring end conditions.
func (s *schedule) at(k int) (calendar.Date, error) {
	step := k * s.tmpl.Interval

	switch s.tmpl.Frequency {
	case calendar.Daily:
		return s.anchor.AddDays(step), nil
	case calendar.Weekly:
		return s.anchor.AddDays(7 * step), nil
	case calendar.Monthly:
		return calendar.AddMonths(s.anchor.Year(), s.anchorMonth, s.anchorDay, step)
	default:
		return calendar.ClampDayOfMonth(s.anchor.Year()+step, s.anchorMonth, s.anchorDay)
	}
}

// indexNear returns an occurrence index whose date is not after from, so iteration can
// skip straight to a window without walking every earlier occurrence.
func (s *schedule) indexNear(from calendar.Date) int {
	if !from.After(s.anchor) {
		return 0
	}

	interval := s.tmpl.Interval
	var k int
	switch s.tmpl.Frequency {
	case calendar.Daily:
		k = s.anchor.DaysUntil(from) / interval
	case calendar.Weekly:
		k = s.anchor.DaysUntil(from) / (7 * interval)
	case calendar.Monthly:
		k = s.anchor.MonthsUntil(from)/interval - 1
	case calendar.Yearly:
		k = (from.Year()-s.anchor.Year())/interval - 1
	}
	if k < 0 {
		return 0
	}
	return k
}

// exhausted reports whether occurrence k on date d lies beyond the end condition.
func (s *schedule) exhausted(k int, d calendar.Date) bool {
	switch s.tmpl.EndCondition {
	case model.EndAfter:
		return k >= s.tmpl.Count
	case model.EndOn:
		return d.After(*s.tmpl.EndDate)
	default:
		return false
	}
}

// Generate returns the template's occurrences within [windowStart, windowEnd], in
// strictly increasing order. Occurrences before the template's start date are never
// produced. An inverted window yields no occurrences.
func Generate(t model.RecurringTemplate, windowStart, windowEnd calendar.Date) ([]calendar.Date, error) {
	s, err := newSchedule(t)
	if err != nil {
		return nil, err
	}

	from := calendar.Max(t.StartDate, windowStart)
	if windowEnd.Before(from) {
		return nil, nil
	}

	var out []calendar.Date
	for k := s.indexNear(from); ; k++ {
		d, err := s.at(k)
		if err != nil {
			return nil, err
		}
		if d.After(windowEnd) || s.exhausted(k, d) {
			break
		}
		if d.Before(from) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// Next returns the first occurrence strictly after the given date. The boolean is false
// when the template's end condition is exhausted before then.
func Next(t model.RecurringTemplate, after calendar.Date) (calendar.Date, bool, error) {
	s, err := newSchedule(t)
	if err != nil {
		return calendar.Date{}, false, err
	}

	for k := s.indexNear(after); ; k++ {
		d, err := s.at(k)
		if err != nil {
			return calendar.Date{}, false, err
		}
		if s.exhausted(k, d) {
			return calendar.Date{}, false, nil
		}
		if d.After(after) {
			return d, true, nil
		}
	}
}

// Last returns the final occurrence of a template that ends, or false for templates
// that never end or end before their first occurrence.
func Last(t model.RecurringTemplate) (calendar.Date, bool, error) {
	s, err := newSchedule(t)
	if err != nil {
		return calendar.Date{}, false, err
	}

	switch t.EndCondition {
	case model.EndAfter:
		d, err := s.at(t.Count - 1)
		if err != nil {
			return calendar.Date{}, false, err
		}
		return d, true, nil
	case model.EndOn:
		dates, err := Generate(t, t.StartDate, *t.EndDate)
		if err != nil || len(dates) == 0 {
			return calendar.Date{}, false, err
		}
		return dates[len(dates)-1], true, nil
	default:
		return calendar.Date{}, false, nil
	}
}
