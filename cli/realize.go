package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/uFincs/uFincs-sub004/calendar"
	"github.com/uFincs/uFincs-sub004/ledger"
	"github.com/uFincs/uFincs-sub004/loader"
	"github.com/uFincs/uFincs-sub004/output"
	"github.com/uFincs/uFincs-sub004/realize"
	"github.com/uFincs/uFincs-sub004/store"
)

type RealizeCmd struct {
	AsOf   calendar.Date `help:"Realize occurrences up to and including this date (default: today)." placeholder:"YYYY-MM-DD"`
	DryRun bool          `help:"Show what would be created without saving." short:"n"`
	Yes    bool          `help:"Save without asking for confirmation." short:"y"`
}

func (cmd *RealizeCmd) Run(ctx *kong.Context, globals *Globals) error {
	s := newSession(ctx, globals, fmt.Sprintf("realize %s", globals.File))
	defer s.report()

	result, err := s.loadBook(ctx, globals)
	if err != nil {
		return err
	}
	if len(result.Includes) > 0 {
		printError(ctx.Stderr, "realize cannot rewrite a book that includes other files")
		return NewCommandError(ExitFailure)
	}

	book := result.Book
	st, err := store.FromSnapshot(s.ctx, store.Snapshot{
		Accounts:     book.Accounts,
		Transactions: book.Transactions,
		Templates:    book.Templates,
	})
	if err != nil {
		_, _ = fmt.Fprintln(ctx.Stderr, NewErrorRenderer(nil).Render(err))
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, "book is invalid, run check for details")
		return NewCommandError(ExitFailure)
	}

	asOf := today(cmd.AsOf)
	svc := realize.New(realize.WithExisting(st))
	results, err := svc.RealizeAll(s.ctx, st.Templates(s.ctx), asOf)
	if err != nil {
		_, _ = fmt.Fprintln(ctx.Stderr, NewErrorRenderer(nil).Render(err))
		return NewCommandError(ExitFailure)
	}

	styles := output.NewStyles(ctx.Stdout)
	table := output.NewTable("Date", "Template", "Description", "Amount").Align(3, output.AlignRight)
	advanced := 0
	for _, res := range results {
		for _, tx := range res.Created {
			amount := ledger.FormatAmount(tx.Amount, result.Config)
			table.AddStyledRow(
				[]string{tx.Date.String(), tx.RecurringTemplateID, tx.Description, amount},
				[]string{tx.Date.String(), styles.Keyword(tx.RecurringTemplateID), tx.Description, amount},
			)
		}
		original, _ := st.Template(s.ctx, res.Template.ID)
		if res.Advanced(original.LastRealizedDate) {
			advanced++
		}
	}

	if advanced == 0 {
		printInfof(ctx.Stdout, "Nothing to realize as of %s", asOf)
		return nil
	}

	if table.Len() > 0 {
		if err := table.Render(ctx.Stdout); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(ctx.Stdout)
	}
	printInfof(ctx.Stdout, "%d transaction(s) from %d template(s) as of %s", table.Len(), advanced, asOf)

	if cmd.DryRun {
		printInfof(ctx.Stdout, "Dry run, nothing saved")
		return nil
	}

	if !cmd.Yes {
		confirmed, err := promptYesNo(fmt.Sprintf("Save to %s?", globals.File))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !confirmed {
			printInfof(ctx.Stdout, "Not saved (pass --yes to skip the prompt)")
			return nil
		}
	}

	for _, res := range results {
		if err := st.Commit(s.ctx, res); err != nil {
			_, _ = fmt.Fprintln(ctx.Stderr, NewErrorRenderer(nil).Render(err))
			return NewCommandError(ExitFailure)
		}
	}

	snap := st.Snapshot(s.ctx)
	book.Accounts = snap.Accounts
	book.Transactions = snap.Transactions
	book.Templates = snap.Templates
	if err := loader.Save(s.ctx, result.Root, book); err != nil {
		return err
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Saved %s", pathStyle.Render(result.Root)))
	return nil
}
