package cli

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	File      string `help:"Ledger book file." short:"f" env:"UFINCS_FILE" default:"ledger.yaml" type:"path"`
	LogLevel  string `help:"Log level (debug, info, warn, error)." env:"UFINCS_LOG_LEVEL" default:"warn"`
	Telemetry bool   `help:"Show timing telemetry for operations." env:"UFINCS_TELEMETRY"`
}

type Commands struct {
	Globals

	Check       CheckCmd       `cmd:"" help:"Validate accounts, transactions and recurring templates."`
	Occurrences OccurrencesCmd `cmd:"" help:"List the occurrence dates of a recurring template."`
	Realize     RealizeCmd     `cmd:"" help:"Create the transactions recurring templates owe up to a date."`
	Balances    BalancesCmd    `cmd:"" help:"Show the running balance of an account."`
	Summary     SummaryCmd     `cmd:"" help:"Show totals, net worth and cash flow."`
	Format      FormatCmd      `cmd:"" help:"Rewrite a ledger book in canonical form."`
	Web         WebCmd         `cmd:"" help:"Start the JSON API server."`
	Doctor      DoctorCmd      `cmd:"" help:"Doctor utilities for debugging ledger books."`
}
