package cli

import (
	"fmt"

	"github.com/alecthomas/kong"
	"golang.org/x/exp/slices"

	"github.com/uFincs/uFincs-sub004/loader"
	"github.com/uFincs/uFincs-sub004/model"
)

type FormatCmd struct {
	Write bool `help:"Rewrite the file in place instead of printing to stdout." short:"w"`
}

func (cmd *FormatCmd) Run(ctx *kong.Context, globals *Globals) error {
	s := newSession(ctx, globals, fmt.Sprintf("format %s", globals.File))
	defer s.report()

	// Includes stay as references; only this file is rewritten.
	result, err := loader.New().Load(s.ctx, globals.File)
	if err != nil {
		_, _ = fmt.Fprintln(ctx.Stderr, NewErrorRenderer(nil).Render(err))
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, "parse error")
		return NewCommandError(ExitFailure)
	}

	book := result.Book
	sortTransactions(book.Transactions)

	if cmd.Write {
		if err := loader.Save(s.ctx, result.Root, book); err != nil {
			return err
		}
		printSuccess(ctx.Stdout, fmt.Sprintf("Formatted %s", pathStyle.Render(result.Root)))
		return nil
	}

	data, err := loader.Marshal(book)
	if err != nil {
		return err
	}
	_, err = ctx.Stdout.Write(data)
	return err
}

// sortTransactions orders transactions by date, keeping the file order for ties.
func sortTransactions(txs []model.Transaction) {
	slices.SortStableFunc(txs, func(a, b model.Transaction) int {
		return a.Date.Compare(b.Date)
	})
}
