package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/alecthomas/kong"

	"github.com/uFincs/uFincs-sub004/loader"
)

const testBook = `options:
  currency: eur
accounts:
  - id: checking
    name: Checking
    type: asset
    openingBalance: 100000
  - id: card
    name: Card
    type: liability
  - id: salary
    name: Salary
    type: income
  - id: rent
    name: Rent
    type: expense
transactions:
  - id: t2
    date: 2024-01-05
    amount: 150000
    description: January rent
    type: expense
    creditAccountId: checking
    debitAccountId: rent
  - id: t1
    date: 2024-01-01
    amount: 200000
    description: January pay
    type: income
    creditAccountId: salary
    debitAccountId: checking
templates:
  - id: rent-monthly
    amount: 150000
    description: Rent
    type: expense
    creditAccountId: checking
    debitAccountId: rent
    interval: 1
    frequency: monthly
    onMonthDay: 5
    startDate: 2024-02-05
    endCondition: never
`

const invalidBook = `accounts:
  - id: checking
    name: Checking
    type: asset
transactions:
  - id: t1
    date: 2024-01-01
    amount: 100
    type: income
    creditAccountId: nowhere
    debitAccountId: checking
`

func writeBook(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// run parses args and runs the selected command the way main does.
func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var cli Commands
	var out, errOut bytes.Buffer
	parser, err := kong.New(&cli,
		kong.Name("ufincs"),
		kong.Writers(&out, &errOut),
		kong.Bind(&cli.Globals),
		kong.Exit(func(int) {}),
	)
	assert.NoError(t, err)

	kctx, err := parser.Parse(args)
	assert.NoError(t, err)

	err = kctx.Run()
	return out.String(), errOut.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var cmdErr *CommandError
	assert.True(t, errors.As(err, &cmdErr), "expected a CommandError, got %v", err)
	return cmdErr.ExitCode()
}

func TestCheckCmd(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		stdout, _, err := run(t, "-f", writeBook(t, testBook), "check")
		assert.NoError(t, err)
		assert.Contains(t, stdout, "Check passed: 4 accounts, 2 transactions, 1 templates")
	})

	t.Run("Invalid", func(t *testing.T) {
		_, stderr, err := run(t, "-f", writeBook(t, invalidBook), "check")
		assert.Equal(t, 1, exitCode(t, err))
		assert.Contains(t, stderr, "nowhere")
		assert.Contains(t, stderr, "1 validation error(s) found")
	})

	t.Run("JSON", func(t *testing.T) {
		stdout, _, err := run(t, "-f", writeBook(t, invalidBook), "check", "--json")
		assert.Equal(t, 1, exitCode(t, err))

		var errs []map[string]any
		assert.NoError(t, json.Unmarshal([]byte(stdout), &errs))
		assert.Equal(t, 1, len(errs))
		assert.Equal(t, "unknown_account", errs[0]["type"])
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, stderr, err := run(t, "-f", filepath.Join(t.TempDir(), "missing.yaml"), "check")
		assert.Equal(t, 1, exitCode(t, err))
		assert.Contains(t, stderr, "failed to load missing.yaml")
	})

	t.Run("ParseError", func(t *testing.T) {
		_, stderr, err := run(t, "-f", writeBook(t, "accounts:\n  - id: [\n"), "check")
		assert.Equal(t, 1, exitCode(t, err))
		assert.Contains(t, stderr, "book.yaml")
	})
}

func TestOccurrencesCmd(t *testing.T) {
	path := writeBook(t, testBook)

	t.Run("Window", func(t *testing.T) {
		stdout, _, err := run(t, "-f", path, "occurrences", "rent-monthly", "--from", "2024-02-01", "--to", "2024-04-30")
		assert.NoError(t, err)
		assert.Contains(t, stdout, "rent-monthly")
		assert.Contains(t, stdout, "2024-02-05")
		assert.Contains(t, stdout, "2024-04-05")
		assert.Contains(t, stdout, "pending")
		assert.NotContains(t, stdout, "2024-05-05")
	})

	t.Run("Empty", func(t *testing.T) {
		stdout, _, err := run(t, "-f", path, "occurrences", "rent-monthly", "--from", "2024-02-06", "--to", "2024-03-04")
		assert.NoError(t, err)
		assert.Contains(t, stdout, "No occurrences between 2024-02-06 and 2024-03-04")
	})

	t.Run("UnknownTemplate", func(t *testing.T) {
		_, stderr, err := run(t, "-f", path, "occurrences", "nope")
		assert.Equal(t, 1, exitCode(t, err))
		assert.Contains(t, stderr, `unknown template "nope"`)
	})
}

func TestBalancesCmd(t *testing.T) {
	path := writeBook(t, testBook)

	t.Run("Realized", func(t *testing.T) {
		stdout, _, err := run(t, "-f", path, "balances", "checking", "--today", "2024-01-31")
		assert.NoError(t, err)
		assert.Contains(t, stdout, "Starting balance: 1,000.00 EUR")
		assert.Contains(t, stdout, "3,000.00")
		assert.Contains(t, stdout, "Today: 1,500.00 EUR")
		assert.NotContains(t, stdout, "Final:")
	})

	t.Run("Projected", func(t *testing.T) {
		stdout, _, err := run(t, "-f", path, "balances", "checking", "-p", "--to", "2024-03-31", "--today", "2024-01-31")
		assert.NoError(t, err)
		assert.Contains(t, stdout, "-- today --")
		assert.Contains(t, stdout, "projected")
		assert.Contains(t, stdout, "Today: 1,500.00 EUR")
		assert.Contains(t, stdout, "Final: -1,500.00 EUR")
	})

	t.Run("UnknownAccount", func(t *testing.T) {
		_, stderr, err := run(t, "-f", path, "balances", "nope")
		assert.Equal(t, 1, exitCode(t, err))
		assert.Contains(t, stderr, `unknown account "nope"`)
	})
}

func TestSummaryCmd(t *testing.T) {
	stdout, _, err := run(t, "-f", writeBook(t, testBook), "summary", "--as-of", "2024-01-31")
	assert.NoError(t, err)
	assert.Contains(t, stdout, "Summary as of 2024-01-31")
	assert.Contains(t, stdout, "net worth")
	assert.Contains(t, stdout, "1,500.00")
	assert.Contains(t, stdout, "500.00")
	assert.Contains(t, stdout, "Double-entry check passed (EUR)")
}

func TestRealizeCmd(t *testing.T) {
	t.Run("DryRun", func(t *testing.T) {
		path := writeBook(t, testBook)

		stdout, _, err := run(t, "-f", path, "realize", "--as-of", "2024-03-10", "--dry-run")
		assert.NoError(t, err)
		assert.Contains(t, stdout, "2024-02-05")
		assert.Contains(t, stdout, "2024-03-05")
		assert.Contains(t, stdout, "2 transaction(s) from 1 template(s) as of 2024-03-10")
		assert.Contains(t, stdout, "Dry run, nothing saved")

		content, err := os.ReadFile(path)
		assert.NoError(t, err)
		assert.Equal(t, testBook, string(content))
	})

	t.Run("Save", func(t *testing.T) {
		path := writeBook(t, testBook)

		stdout, _, err := run(t, "-f", path, "realize", "--as-of", "2024-03-10", "--yes")
		assert.NoError(t, err)
		assert.Contains(t, stdout, "Saved")

		result, err := loader.Load(context.Background(), path)
		assert.NoError(t, err)
		assert.Equal(t, 4, len(result.Book.Transactions))
		assert.Equal(t, "2024-03-05", result.Book.Templates[0].LastRealizedDate.String())
		assert.NoError(t, loader.Validate(result.Book))

		stdout, _, err = run(t, "-f", path, "realize", "--as-of", "2024-03-10", "--yes")
		assert.NoError(t, err)
		assert.Contains(t, stdout, "Nothing to realize as of 2024-03-10")
	})

	t.Run("Stale", func(t *testing.T) {
		path := writeBook(t, testBook)
		_, _, err := run(t, "-f", path, "realize", "--as-of", "2024-03-10", "--yes")
		assert.NoError(t, err)

		_, stderr, err := run(t, "-f", path, "realize", "--as-of", "2024-02-01", "--yes")
		assert.Equal(t, 1, exitCode(t, err))
		assert.Contains(t, stderr, "already realized through 2024-03-05")
	})

	t.Run("RefusesIncludes", func(t *testing.T) {
		dir := t.TempDir()
		assert.NoError(t, os.WriteFile(filepath.Join(dir, "shared.yaml"), []byte(testBook), 0600))
		path := filepath.Join(dir, "book.yaml")
		assert.NoError(t, os.WriteFile(path, []byte("include:\n  - shared.yaml\n"), 0600))

		_, stderr, err := run(t, "-f", path, "realize", "--yes")
		assert.Equal(t, 1, exitCode(t, err))
		assert.Contains(t, stderr, "includes other files")
	})
}

func TestFormatCmd(t *testing.T) {
	t.Run("Stdout", func(t *testing.T) {
		path := writeBook(t, testBook)

		stdout, _, err := run(t, "-f", path, "format")
		assert.NoError(t, err)
		assert.True(t, strings.Index(stdout, "id: t1") < strings.Index(stdout, "id: t2"), "transactions should be sorted by date")

		content, err := os.ReadFile(path)
		assert.NoError(t, err)
		assert.Equal(t, testBook, string(content))
	})

	t.Run("Write", func(t *testing.T) {
		path := writeBook(t, testBook)

		stdout, _, err := run(t, "-f", path, "format", "-w")
		assert.NoError(t, err)
		assert.Contains(t, stdout, "Formatted")

		result, err := loader.Load(context.Background(), path)
		assert.NoError(t, err)
		assert.Equal(t, "t1", result.Book.Transactions[0].ID)
		assert.Equal(t, "t2", result.Book.Transactions[1].ID)
	})
}

func TestDoctorDumpCmd(t *testing.T) {
	stdout, _, err := run(t, "-f", writeBook(t, testBook), "doctor", "dump", "rent-monthly", "--count", "2")
	assert.NoError(t, err)
	assert.Contains(t, stdout, "rent-monthly")
	assert.Contains(t, stdout, "RecurringTemplate")
}

func TestWebCmdFileCreation(t *testing.T) {
	t.Run("DeclinedWithoutTerminal", func(t *testing.T) {
		if isTerminal() {
			t.Skip("stdin is a terminal")
		}

		path := filepath.Join(t.TempDir(), "books", "new.yaml")
		_, _, err := run(t, "-f", path, "web")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "file does not exist")

		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("PermissionDeniedOnCreate", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("Permission tests don't work reliably on Windows")
		}
		if os.Geteuid() == 0 {
			t.Skip("root ignores directory permissions")
		}

		readOnlyDir := filepath.Join(t.TempDir(), "readonly")
		assert.NoError(t, os.Mkdir(readOnlyDir, 0555))

		_, _, err := run(t, "-f", filepath.Join(readOnlyDir, "book.yaml"), "web", "--create")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create file")
	})
}

func TestPromptYesNo(t *testing.T) {
	t.Run("NonTTYReturnsFalse", func(t *testing.T) {
		if isTerminal() {
			t.Skip("stdin is a terminal")
		}

		confirmed, err := promptYesNo("Continue?")
		assert.NoError(t, err)
		assert.False(t, confirmed)
	})
}
