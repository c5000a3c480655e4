package cli

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	errfmt "github.com/uFincs/uFincs-sub004/errors"
	"github.com/uFincs/uFincs-sub004/loader"
)

type CheckCmd struct {
	JSON bool `help:"Print errors as JSON."`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	s := newSession(ctx, globals, fmt.Sprintf("check %s", globals.File))
	defer s.report()

	result, err := s.loadBook(ctx, globals)
	if err != nil {
		return err
	}

	if err := loader.Validate(result.Book); err != nil {
		errs := errfmt.Flatten(err)
		if cmd.JSON {
			_, _ = fmt.Fprintln(ctx.Stdout, errfmt.NewJSONFormatter().FormatAll(errs))
			return NewCommandError(ExitFailure)
		}

		source, _ := os.ReadFile(globals.File)
		_, _ = fmt.Fprintln(ctx.Stderr, NewErrorRenderer(source).RenderAll(errs))
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, fmt.Sprintf("%d validation error(s) found", len(errs)))
		return NewCommandError(ExitFailure)
	}

	if cmd.JSON {
		_, _ = fmt.Fprintln(ctx.Stdout, "[]")
		return nil
	}

	book := result.Book
	printSuccess(ctx.Stdout, fmt.Sprintf("Check passed: %d accounts, %d transactions, %d templates",
		len(book.Accounts), len(book.Transactions), len(book.Templates)))

	return nil
}
