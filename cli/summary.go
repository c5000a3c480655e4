package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/uFincs/uFincs-sub004/calendar"
	"github.com/uFincs/uFincs-sub004/ledger"
	"github.com/uFincs/uFincs-sub004/model"
	"github.com/uFincs/uFincs-sub004/output"
)

type SummaryCmd struct {
	AsOf calendar.Date `help:"Only count transactions on or before this date (default: today)." placeholder:"YYYY-MM-DD"`
}

func (cmd *SummaryCmd) Run(ctx *kong.Context, globals *Globals) error {
	s := newSession(ctx, globals, fmt.Sprintf("summary %s", globals.File))
	defer s.report()

	result, err := s.loadBook(ctx, globals)
	if err != nil {
		return err
	}

	asOf := today(cmd.AsOf)
	summary, err := ledger.Summarize(s.ctx, result.Book.Accounts, result.Book.Transactions, ledger.WithToday(asOf))
	if err != nil {
		_, _ = fmt.Fprintln(ctx.Stderr, NewErrorRenderer(nil).Render(err))
		return NewCommandError(ExitFailure)
	}

	cfg := result.Config
	styles := output.NewStyles(ctx.Stdout)

	_, _ = fmt.Fprintf(ctx.Stdout, "Summary as of %s\n\n", asOf)

	accounts := output.NewTable("Account", "Type", "Balance").Align(2, output.AlignRight)
	for _, b := range summary.Balances {
		amount := ledger.FormatAmount(b.Balance, cfg)
		accounts.AddStyledRow(
			[]string{b.Account.Name, b.Account.Type.String(), amount},
			[]string{styles.Account(b.Account.Name), b.Account.Type.String(), amount},
		)
	}
	if err := accounts.Render(ctx.Stdout); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(ctx.Stdout)

	totals := output.NewTable("Total", "Amount").Align(1, output.AlignRight)
	for _, t := range model.AccountTypes {
		totals.AddRow(t.String(), ledger.FormatAmount(summary.Totals[t], cfg))
	}
	netWorth := ledger.FormatAmount(summary.NetWorth, cfg)
	cashFlow := ledger.FormatAmount(summary.CashFlow, cfg)
	totals.AddStyledRow(
		[]string{"net worth", netWorth},
		[]string{styles.Keyword("net worth"), styles.Amount(netWorth, summary.NetWorth < 0)},
	)
	totals.AddStyledRow(
		[]string{"cash flow", cashFlow},
		[]string{styles.Keyword("cash flow"), styles.Amount(cashFlow, summary.CashFlow < 0)},
	)
	if err := totals.Render(ctx.Stdout); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(ctx.Stdout)

	if !summary.Balanced() {
		printError(ctx.Stderr, "double-entry check failed: assets + expenses do not match liabilities + income")
		return NewCommandError(ExitUnbalanced)
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("Double-entry check passed (%s)", cfg.Currency))
	return nil
}
