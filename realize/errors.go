package realize

import (
	"fmt"

	"github.com/uFincs/uFincs-sub004/calendar"
)

// StaleTemplateError is returned when realization is requested as of a date before the
// template's checkpoint.
type StaleTemplateError struct {
	TemplateID string
	AsOf       calendar.Date
	Checkpoint calendar.Date
}

func (e *StaleTemplateError) Error() string {
	return fmt.Sprintf("template %s: cannot realize as of %s, already realized through %s",
		e.TemplateID, e.AsOf, e.Checkpoint)
}
