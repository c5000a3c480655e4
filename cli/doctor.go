package cli

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/uFincs/uFincs-sub004/calendar"
	"github.com/uFincs/uFincs-sub004/recurrence"
)

// DoctorCmd provides doctor utilities for debugging ledger books.
type DoctorCmd struct {
	Dump DumpCmd `cmd:"" help:"Dump a recurring template and its next occurrences."`
}

// DumpCmd prints the parsed form of a template and where its schedule goes next.
type DumpCmd struct {
	TemplateID string        `arg:"" help:"Recurring template ID."`
	Count      int           `help:"Number of upcoming occurrences to show." default:"5"`
	After      calendar.Date `help:"Show occurrences after this date (default: the checkpoint, or the day before the start date)." placeholder:"YYYY-MM-DD"`
}

// Run executes the dump command.
func (cmd *DumpCmd) Run(ctx *kong.Context, globals *Globals) error {
	s := newSession(ctx, globals, fmt.Sprintf("doctor dump %s", cmd.TemplateID))
	defer s.report()

	result, err := s.loadBook(ctx, globals)
	if err != nil {
		return err
	}

	tmpl, ok := findTemplate(result.Book.Templates, cmd.TemplateID)
	if !ok {
		printError(ctx.Stderr, fmt.Sprintf("unknown template %q", cmd.TemplateID))
		return NewCommandError(ExitFailure)
	}

	p := repr.New(ctx.Stdout, repr.Indent("  "), repr.OmitEmpty(true))
	p.Println(tmpl)

	after := cmd.After
	if after.IsZero() {
		after = tmpl.StartDate.AddDays(-1)
		if tmpl.LastRealizedDate != nil {
			after = *tmpl.LastRealizedDate
		}
	}

	var upcoming []calendar.Date
	for len(upcoming) < cmd.Count {
		next, ok, err := recurrence.Next(tmpl, after)
		if err != nil {
			_, _ = fmt.Fprintln(ctx.Stderr, NewErrorRenderer(nil).Render(err))
			return NewCommandError(ExitFailure)
		}
		if !ok {
			break
		}
		upcoming = append(upcoming, next)
		after = next
	}
	p.Println(upcoming)

	return nil
}
