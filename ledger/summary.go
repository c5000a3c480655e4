package ledger

import (
	"context"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/uFincs/uFincs-sub004/model"
	"github.com/uFincs/uFincs-sub004/telemetry"
)

// AccountBalance is one account's balance as of the summary date.
type AccountBalance struct {
	Account model.Account `json:"account"`
	Balance int64         `json:"balance"`
	Change  int64         `json:"change"`
}

// Summary aggregates every account as of a date.
type Summary struct {
	Balances []AccountBalance `json:"balances"`

	// Totals is the sum of balances per account type, opening balances included.
	Totals map[model.AccountType]int64 `json:"totals"`

	// Changes is the sum of transaction deltas per account type, opening balances
	// excluded.
	Changes map[model.AccountType]int64 `json:"changes"`

	// NetWorth is assets minus liabilities.
	NetWorth int64 `json:"netWorth"`

	// CashFlow is income minus expenses over the summarized transactions.
	CashFlow int64 `json:"cashFlow"`
}

// Balanced reports whether the double-entry identity holds: the change in assets plus
// expenses equals the change in liabilities plus income.
func (s *Summary) Balanced() bool {
	left := s.Changes[model.AccountTypeAsset] + s.Changes[model.AccountTypeExpense]
	right := s.Changes[model.AccountTypeLiability] + s.Changes[model.AccountTypeIncome]
	return left == right
}

// Summarize folds every transaction dated on or before today (see WithToday) into its
// two accounts. Transactions referencing unknown accounts are rejected.
func Summarize(ctx context.Context, accounts []model.Account, txs []model.Transaction, opts ...Option) (*Summary, error) {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("ledger.summarize (%d transactions)", len(txs)))
	defer timer.End()

	o := newOptions(opts)
	lookup := model.AccountIndex(accounts)

	changes := make(map[string]int64, len(accounts))
	for _, tx := range txs {
		if tx.Date.After(o.today) {
			continue
		}
		for _, side := range []struct {
			id   string
			name string
		}{{tx.CreditAccountID, "credit"}, {tx.DebitAccountID, "debit"}} {
			acc, ok := lookup(side.id)
			if !ok {
				return nil, &model.UnknownAccountError{ID: tx.ID, AccountID: side.id, Side: side.name}
			}
			delta, err := Delta(acc, tx)
			if err != nil {
				return nil, err
			}
			changes[acc.ID] += delta
		}
	}

	summary := &Summary{
		Balances: make([]AccountBalance, 0, len(accounts)),
		Totals:   make(map[model.AccountType]int64, len(model.AccountTypes)),
		Changes:  make(map[model.AccountType]int64, len(model.AccountTypes)),
	}
	for _, acc := range accounts {
		change := changes[acc.ID]
		balance := acc.OpeningBalance + change
		summary.Balances = append(summary.Balances, AccountBalance{Account: acc, Balance: balance, Change: change})
		summary.Totals[acc.Type] += balance
		summary.Changes[acc.Type] += change
	}

	slices.SortStableFunc(summary.Balances, func(a, b AccountBalance) int {
		if a.Account.Type != b.Account.Type {
			return int(a.Account.Type) - int(b.Account.Type)
		}
		switch {
		case a.Account.Name < b.Account.Name:
			return -1
		case a.Account.Name > b.Account.Name:
			return 1
		default:
			return 0
		}
	})

	summary.NetWorth = summary.Totals[model.AccountTypeAsset] - summary.Totals[model.AccountTypeLiability]
	summary.CashFlow = summary.Changes[model.AccountTypeIncome] - summary.Changes[model.AccountTypeExpense]

	return summary, nil
}
