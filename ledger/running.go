package ledger

import (
	"golang.org/x/exp/slices"

	"github.com/uFincs/uFincs-sub004/calendar"
	"github.com/uFincs/uFincs-sub004/model"
)

// BalancePoint is an account's balance at the end of a day that had activity.
type BalancePoint struct {
	Date    calendar.Date `json:"date"`
	Change  int64         `json:"change"`
	Balance int64         `json:"balance"`

	// Projected is set when at least one of the day's transactions comes from a
	// template occurrence that has not been realized yet.
	Projected bool `json:"projected,omitempty"`
}

// BalanceSeries is the running balance of one account.
type BalanceSeries struct {
	AccountID string `json:"accountId"`

	// Opening is the balance before any transaction.
	Opening int64 `json:"opening"`

	// StartingBalance is the balance entering the window: Opening plus every transaction
	// dated before the window start. Without a window it equals Opening.
	StartingBalance int64 `json:"startingBalance"`

	// Points holds one entry per date inside the window, in date order.
	Points []BalancePoint `json:"points"`

	// Current and Future split Points at today: dates on or before today are current.
	Current []BalancePoint `json:"current"`
	Future  []BalancePoint `json:"future"`

	// Projected holds the unrealized occurrences folded in by Project.
	Projected []model.Transaction `json:"projectedTransactions,omitempty"`
}

// Final returns the balance after the last point, or the starting balance when the
// window saw no activity.
func (s *BalanceSeries) Final() int64 {
	if len(s.Points) == 0 {
		return s.StartingBalance
	}
	return s.Points[len(s.Points)-1].Balance
}

// Today returns the balance as of today: the last current point, or the starting
// balance when nothing in the window has happened yet.
func (s *BalanceSeries) Today() int64 {
	if len(s.Current) == 0 {
		return s.StartingBalance
	}
	return s.Current[len(s.Current)-1].Balance
}

// entry is a transaction queued for folding.
type entry struct {
	tx        model.Transaction
	projected bool
}

// ComputeRunningBalances folds the account's opening balance through txs in date order
// and returns one balance point per date. Transactions on the same date collapse into a
// single point holding the balance after all of them. The input slice is not modified;
// ties keep their input order.
func ComputeRunningBalances(account model.Account, opening int64, txs []model.Transaction, opts ...Option) (*BalanceSeries, error) {
	o := newOptions(opts)
	entries := make([]entry, len(txs))
	for i, tx := range txs {
		entries[i] = entry{tx: tx}
	}
	return fold(account, opening, entries, o)
}

func fold(account model.Account, opening int64, entries []entry, o *options) (*BalanceSeries, error) {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b entry) int {
		return a.tx.Date.Compare(b.tx.Date)
	})

	reduce := BalanceReducer(account)
	series := &BalanceSeries{
		AccountID:       account.ID,
		Opening:         opening,
		StartingBalance: opening,
		Points:          []BalancePoint{},
		Current:         []BalancePoint{},
		Future:          []BalancePoint{},
	}

	balance := opening
	for i := 0; i < len(sorted); {
		date := sorted[i].tx.Date
		before := balance
		projected := false
		touched := false

		for ; i < len(sorted) && sorted[i].tx.Date.Equal(date); i++ {
			e := sorted[i]
			next, err := reduce(balance, e.tx)
			if err != nil {
				return nil, err
			}
			if e.tx.Touches(account.ID) {
				touched = true
				projected = projected || e.projected
			}
			balance = next
		}

		if !touched {
			continue
		}
		if o.hasWindow && date.Before(o.start) {
			series.StartingBalance = balance
			continue
		}
		if o.hasWindow && !o.end.IsZero() && date.After(o.end) {
			break
		}

		point := BalancePoint{
			Date:      date,
			Change:    balance - before,
			Balance:   balance,
			Projected: projected,
		}
		series.Points = append(series.Points, point)
		if date.After(o.today) {
			series.Future = append(series.Future, point)
		} else {
			series.Current = append(series.Current, point)
		}
	}

	return series, nil
}
