// Package cli implements the ufincs command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/uFincs/uFincs-sub004/calendar"
	"github.com/uFincs/uFincs-sub004/loader"
	"github.com/uFincs/uFincs-sub004/logger"
	"github.com/uFincs/uFincs-sub004/telemetry"
)

var (
	successSymbol = "✓"
	errorSymbol   = "✗"
	infoSymbol    = "→"

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5FAFFF", Dark: "#5FAFFF"})
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D7D7", Dark: "#00D7D7"})
)

func printSuccess(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		successStyle.Render(successSymbol),
		message,
	)
}

func printError(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		errorStyle.Render(errorSymbol),
		errorStyle.Render(message),
	)
}

func printInfof(w io.Writer, format string, args ...interface{}) {
	formatted := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintf(w, "%s %s\n",
		infoStyle.Render(infoSymbol),
		formatted,
	)
}

// promptYesNo prompts the user with a yes/no question.
// Returns false by default if stdin is not a terminal.
func promptYesNo(question string) (bool, error) {
	if !isTerminal() {
		return false, nil
	}

	var confirm bool

	form := huh.NewConfirm().
		Title(question).
		WithButtonAlignment(lipgloss.Left).
		Value(&confirm)

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}

	return confirm, nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// session is the per-invocation state shared by commands: the context carrying the
// logger, ledger config and telemetry collector, and the deferred telemetry report.
type session struct {
	ctx    context.Context
	report func()
}

// newSession prepares the run context. name labels the root telemetry timer.
func newSession(kctx *kong.Context, globals *Globals, name string) *session {
	ctx := logger.WithContext(context.Background(), logger.New(kctx.Stderr, globals.LogLevel))
	s := &session{ctx: ctx, report: func() {}}

	if !globals.Telemetry {
		return s
	}

	collector := telemetry.NewTimingCollector()
	ctx = telemetry.WithCollector(ctx, collector)
	root := collector.Start(name)
	s.ctx = telemetry.WithRootTimer(ctx, root)

	var once sync.Once
	s.report = func() {
		once.Do(func() {
			root.End()
			_, _ = fmt.Fprintln(kctx.Stderr)
			collector.Report(kctx.Stderr)
		})
	}
	return s
}

// loadBook loads the book named by --file, following includes, and attaches its config
// to the session context. Load failures are rendered to stderr and reported as a
// CommandError.
func (s *session) loadBook(kctx *kong.Context, globals *Globals) (*loader.Result, error) {
	result, err := loader.New(loader.WithFollowIncludes()).Load(s.ctx, globals.File)
	if err != nil {
		source, _ := os.ReadFile(globals.File)
		_, _ = fmt.Fprintln(kctx.Stderr, NewErrorRenderer(source).Render(err))
		_, _ = fmt.Fprintln(kctx.Stderr)
		printError(kctx.Stderr, fmt.Sprintf("failed to load %s", filepath.Base(globals.File)))
		return nil, NewCommandError(ExitFailure)
	}
	s.ctx = result.Config.WithContext(s.ctx)
	return result, nil
}

// today resolves an optional date flag, falling back to the current date.
func today(d calendar.Date) calendar.Date {
	if d.IsZero() {
		return calendar.Today()
	}
	return d
}
