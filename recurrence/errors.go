package recurrence

import (
	"fmt"
	"strings"
)

// Problem describes one invalid or missing recurrence field.
type Problem struct {
	Field   string
	Message string
}

func (p Problem) String() string {
	return p.Field + ": " + p.Message
}

// InvalidRecurrenceSpecError is returned when a template's recurrence fields are missing
// or contradict each other. It lists every problem found so a form can flag all fields
// at once.
type InvalidRecurrenceSpecError struct {
	TemplateID string
	Problems   []Problem
}

func (e *InvalidRecurrenceSpecError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.String()
	}
	label := e.TemplateID
	if label == "" {
		label = "<new>"
	}
	return fmt.Sprintf("template %s: invalid recurrence: %s", label, strings.Join(parts, "; "))
}

// HasField reports whether field is among the reported problems.
func (e *InvalidRecurrenceSpecError) HasField(field string) bool {
	for _, p := range e.Problems {
		if p.Field == field {
			return true
		}
	}
	return false
}
