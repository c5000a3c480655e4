package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/uFincs/uFincs-sub004/calendar"
	"github.com/uFincs/uFincs-sub004/ledger"
	"github.com/uFincs/uFincs-sub004/output"
)

type BalancesCmd struct {
	AccountID string        `arg:"" help:"Account ID."`
	From      calendar.Date `help:"First date to show; earlier activity folds into the starting balance." placeholder:"YYYY-MM-DD"`
	To        calendar.Date `help:"Last date to show." placeholder:"YYYY-MM-DD"`
	Project   bool          `help:"Include occurrences of recurring templates that are not realized yet." short:"p"`
	Today     calendar.Date `help:"Date separating current from future balances (default: today)." placeholder:"YYYY-MM-DD"`
}

func (cmd *BalancesCmd) Run(ctx *kong.Context, globals *Globals) error {
	s := newSession(ctx, globals, fmt.Sprintf("balances %s", cmd.AccountID))
	defer s.report()

	result, err := s.loadBook(ctx, globals)
	if err != nil {
		return err
	}
	book := result.Book

	account, ok := findAccount(book.Accounts, cmd.AccountID)
	if !ok {
		printError(ctx.Stderr, fmt.Sprintf("unknown account %q", cmd.AccountID))
		return NewCommandError(ExitFailure)
	}

	opts := []ledger.Option{ledger.WithToday(today(cmd.Today))}
	if !cmd.From.IsZero() || !cmd.To.IsZero() {
		opts = append(opts, ledger.WithWindow(cmd.From, cmd.To))
	}

	var series *ledger.BalanceSeries
	if cmd.Project {
		series, err = ledger.Project(s.ctx, account, book.Transactions, book.Templates, opts...)
	} else {
		series, err = ledger.ComputeRunningBalances(account, account.OpeningBalance, book.Transactions, opts...)
	}
	if err != nil {
		_, _ = fmt.Fprintln(ctx.Stderr, NewErrorRenderer(nil).Render(err))
		return NewCommandError(ExitFailure)
	}

	cfg := result.Config
	styles := output.NewStyles(ctx.Stdout)
	_, _ = fmt.Fprintf(ctx.Stdout, "%s (%s)\n", styles.Account(account.Name), account.Type)
	_, _ = fmt.Fprintf(ctx.Stdout, "Starting balance: %s\n\n", ledger.FormatMoney(series.StartingBalance, cfg))

	table := output.NewTable("Date", "Change", "Balance", "").
		Align(1, output.AlignRight).
		Align(2, output.AlignRight)
	addRows := func(points []ledger.BalancePoint) {
		for _, p := range points {
			change := ledger.FormatAmount(p.Change, cfg)
			balance := ledger.FormatAmount(p.Balance, cfg)
			marker, styledMarker := "", ""
			if p.Projected {
				marker, styledMarker = "projected", styles.Projected("projected")
			}
			table.AddStyledRow(
				[]string{p.Date.String(), change, balance, marker},
				[]string{p.Date.String(), styles.Amount(change, p.Change < 0), balance, styledMarker},
			)
		}
	}
	addRows(series.Current)
	if len(series.Future) > 0 {
		table.AddStyledRow(
			[]string{"-- today --", "", "", ""},
			[]string{styles.Dim("-- today --"), "", "", ""},
		)
		addRows(series.Future)
	}

	if table.Len() == 0 {
		printInfof(ctx.Stdout, "No activity")
	} else if err := table.Render(ctx.Stdout); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(ctx.Stdout)
	_, _ = fmt.Fprintf(ctx.Stdout, "Today: %s\n", ledger.FormatMoney(series.Today(), cfg))
	if len(series.Future) > 0 {
		_, _ = fmt.Fprintf(ctx.Stdout, "Final: %s\n", ledger.FormatMoney(series.Final(), cfg))
	}
	return nil
}
