package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/uFincs/uFincs-sub004/calendar"
)

// EndCondition decides when a recurring template stops producing occurrences.
type EndCondition int

const (
	EndConditionUnknown EndCondition = iota
	EndAfter                         // after Count occurrences
	EndOn                            // on or before EndDate
	EndNever
)

func (c EndCondition) String() string {
	switch c {
	case EndAfter:
		return "after"
	case EndOn:
		return "on"
	case EndNever:
		return "never"
	default:
		return "unknown"
	}
}

// ParseEndCondition parses an end condition name (case-insensitive).
func ParseEndCondition(s string) (EndCondition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "after":
		return EndAfter, nil
	case "on":
		return EndOn, nil
	case "never":
		return EndNever, nil
	default:
		return EndConditionUnknown, fmt.Errorf("unknown end condition %q", s)
	}
}

func (c EndCondition) MarshalText() ([]byte, error) {
	if c == EndConditionUnknown {
		return []byte{}, nil
	}
	return []byte(c.String()), nil
}

func (c *EndCondition) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*c = EndConditionUnknown
		return nil
	}
	parsed, err := ParseEndCondition(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// RecurringTemplate generates a stream of transactions. Only LastRealizedDate changes
// once the template exists, and only forward.
type RecurringTemplate struct {
	ID              string `yaml:"id" json:"id"`
	TransactionCore `yaml:",inline"`

	Interval  int                `yaml:"interval" json:"interval"`
	Frequency calendar.Frequency `yaml:"frequency" json:"frequency"`

	// OnWeekday is required for weekly templates.
	OnWeekday *time.Weekday `yaml:"onWeekday,omitempty" json:"onWeekday,omitempty"`
	// OnMonthDay is required for monthly templates: 1-31, or calendar.LastDay.
	OnMonthDay int `yaml:"onMonthDay,omitempty" json:"onMonthDay,omitempty"`
	// OnYearMonth and OnYearDay are required for yearly templates.
	OnYearMonth time.Month `yaml:"onYearMonth,omitempty" json:"onYearMonth,omitempty"`
	OnYearDay   int        `yaml:"onYearDay,omitempty" json:"onYearDay,omitempty"`

	StartDate    calendar.Date  `yaml:"startDate" json:"startDate"`
	EndCondition EndCondition   `yaml:"endCondition" json:"endCondition"`
	Count        int            `yaml:"count,omitempty" json:"count,omitempty"`
	EndDate      *calendar.Date `yaml:"endDate,omitempty" json:"endDate,omitempty"`

	LastRealizedDate *calendar.Date `yaml:"lastRealizedDate,omitempty" json:"lastRealizedDate,omitempty"`
}

// Instantiate returns the transaction the template produces for an occurrence on date.
// The returned transaction has no ID; realization assigns one.
func (t RecurringTemplate) Instantiate(date calendar.Date) Transaction {
	return Transaction{
		Date:                date,
		TransactionCore:     t.TransactionCore,
		RecurringTemplateID: t.ID,
	}
}

// WithCheckpoint returns a copy of the template with LastRealizedDate set to date.
func (t RecurringTemplate) WithCheckpoint(date *calendar.Date) RecurringTemplate {
	if date != nil {
		d := *date
		date = &d
	}
	t.LastRealizedDate = date
	return t
}

// ValidateTemplateAccounts checks the template's static transaction fields against the
// accounts it would post to.
func ValidateTemplateAccounts(t RecurringTemplate, accounts AccountLookup) error {
	return validateCore(t.ID, t.TransactionCore, accounts)
}

// Weekday returns a pointer to d, for building weekly templates.
func Weekday(d time.Weekday) *time.Weekday {
	return &d
}

// DatePtr returns a pointer to d.
func DatePtr(d calendar.Date) *calendar.Date {
	return &d
}
