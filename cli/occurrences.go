package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/uFincs/uFincs-sub004/calendar"
	"github.com/uFincs/uFincs-sub004/ledger"
	"github.com/uFincs/uFincs-sub004/model"
	"github.com/uFincs/uFincs-sub004/output"
	"github.com/uFincs/uFincs-sub004/recurrence"
)

type OccurrencesCmd struct {
	TemplateID string        `arg:"" help:"Recurring template ID."`
	From       calendar.Date `help:"First date to list (default: template start)." placeholder:"YYYY-MM-DD"`
	To         calendar.Date `help:"Last date to list (default: projection horizon past today)." placeholder:"YYYY-MM-DD"`
	Today      calendar.Date `help:"Date treated as today." hidden:""`
}

func (cmd *OccurrencesCmd) Run(ctx *kong.Context, globals *Globals) error {
	s := newSession(ctx, globals, fmt.Sprintf("occurrences %s", cmd.TemplateID))
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

	description, err := recurrence.Describe(tmpl)
	if err != nil {
		_, _ = fmt.Fprintln(ctx.Stderr, NewErrorRenderer(nil).Render(err))
		return NewCommandError(ExitFailure)
	}

	from := cmd.From
	if from.IsZero() {
		from = tmpl.StartDate
	}
	to := cmd.To
	if to.IsZero() {
		now := today(cmd.Today)
		to, err = calendar.AddMonths(now.Year(), now.Month(), now.Day(), result.Config.ProjectionMonths)
		if err != nil {
			return err
		}
	}

	dates, err := recurrence.Generate(tmpl, from, to)
	if err != nil {
		return err
	}

	styles := output.NewStyles(ctx.Stdout)
	_, _ = fmt.Fprintf(ctx.Stdout, "%s  %s\n", styles.Keyword(tmpl.ID), description)
	_, _ = fmt.Fprintf(ctx.Stdout, "%s\n\n", styles.Dim(fmt.Sprintf("%s %s, %s → %s",
		tmpl.Type, ledger.FormatMoney(tmpl.Amount, result.Config), tmpl.CreditAccountID, tmpl.DebitAccountID)))

	if len(dates) == 0 {
		printInfof(ctx.Stdout, "No occurrences between %s and %s", from, to)
		return nil
	}

	table := output.NewTable("Date", "Day", "Status")
	for _, date := range dates {
		status := "pending"
		styled := styles.Projected(status)
		if tmpl.LastRealizedDate != nil && !date.After(*tmpl.LastRealizedDate) {
			status = "realized"
			styled = styles.Success(status)
		}
		day := date.Weekday().String()[:3]
		table.AddStyledRow(
			[]string{date.String(), day, status},
			[]string{date.String(), day, styled},
		)
	}
	return table.Render(ctx.Stdout)
}

func findTemplate(templates []model.RecurringTemplate, id string) (model.RecurringTemplate, bool) {
	for _, tmpl := range templates {
		if tmpl.ID == id {
			return tmpl, true
		}
	}
	return model.RecurringTemplate{}, false
}

func findAccount(accounts []model.Account, id string) (model.Account, bool) {
	for _, acc := range accounts {
		if acc.ID == id {
			return acc, true
		}
	}
	return model.Account{}, false
}
