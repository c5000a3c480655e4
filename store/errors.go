package store

import (
	"fmt"

	"github.com/uFincs/uFincs-sub004/calendar"
)

// NotFoundError is returned when a lookup names an ID the store does not hold.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// DuplicateError is returned when an insert reuses an existing ID.
type DuplicateError struct {
	Kind string
	ID   string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Kind, e.ID)
}

// DuplicateOccurrenceError is returned when a transaction would be the second one
// realized for the same template occurrence.
type DuplicateOccurrenceError struct {
	TemplateID string
	Date       calendar.Date
	ExistingID string
}

func (e *DuplicateOccurrenceError) Error() string {
	return fmt.Sprintf("template %s already has transaction %s on %s", e.TemplateID, e.ExistingID, e.Date)
}

// CheckpointRegressionError is returned when a commit would move a template's
// checkpoint backwards or clear it.
type CheckpointRegressionError struct {
	TemplateID string
	Current    calendar.Date
	Proposed   *calendar.Date
}

func (e *CheckpointRegressionError) Error() string {
	proposed := "none"
	if e.Proposed != nil {
		proposed = e.Proposed.String()
	}
	return fmt.Sprintf("template %s: checkpoint cannot move from %s to %s", e.TemplateID, e.Current, proposed)
}
