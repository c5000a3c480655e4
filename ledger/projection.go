package ledger

import (
	"context"
	"fmt"

	"github.com/uFincs/uFincs-sub004/calendar"
	"github.com/uFincs/uFincs-sub004/model"
	"github.com/uFincs/uFincs-sub004/recurrence"
	"github.com/uFincs/uFincs-sub004/telemetry"
)

// Project computes the account's running balance over its realized transactions plus
// every not-yet-realized occurrence of the templates that touch it. A template's pending
// occurrences start after its checkpoint (or at its start date) and run to the window
// end, or to today plus the projection horizon when no window end is set. Overdue
// occurrences that were never realized are projected too. An occurrence already present
// in txs is not projected again, even when the template's checkpoint lags behind it.
//
// Templates are only read: projecting never advances a checkpoint.
func Project(ctx context.Context, account model.Account, txs []model.Transaction, templates []model.RecurringTemplate, opts ...Option) (*BalanceSeries, error) {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("ledger.project %s", account.ID))
	defer timer.End()

	o := newOptions(opts)
	until, err := projectionEnd(ctx, o)
	if err != nil {
		return nil, err
	}

	entries := make([]entry, 0, len(txs))
	realized := make(map[occurrence]bool)
	for _, tx := range txs {
		entries = append(entries, entry{tx: tx})
		if tx.IsRecurring() {
			realized[occurrence{templateID: tx.RecurringTemplateID, date: tx.Date}] = true
		}
	}

	var projected []model.Transaction
	for _, tmpl := range templates {
		if !tmpl.Touches(account.ID) {
			continue
		}
		pending, err := Pending(tmpl, until)
		if err != nil {
			return nil, err
		}
		for _, tx := range pending {
			if realized[occurrence{templateID: tmpl.ID, date: tx.Date}] {
				continue
			}
			entries = append(entries, entry{tx: tx, projected: true})
			projected = append(projected, tx)
		}
	}

	series, err := fold(account, account.OpeningBalance, entries, o)
	if err != nil {
		return nil, err
	}
	series.Projected = projected
	return series, nil
}

type occurrence struct {
	templateID string
	date       calendar.Date
}

// Pending returns the transactions a template would produce after its checkpoint up to
// and including until. The transactions carry no ID.
func Pending(tmpl model.RecurringTemplate, until calendar.Date) ([]model.Transaction, error) {
	from := tmpl.StartDate
	if tmpl.LastRealizedDate != nil {
		from = tmpl.LastRealizedDate.AddDays(1)
	}

	dates, err := recurrence.Generate(tmpl, from, until)
	if err != nil {
		return nil, err
	}

	txs := make([]model.Transaction, len(dates))
	for i, date := range dates {
		txs[i] = tmpl.Instantiate(date)
	}
	return txs, nil
}

func projectionEnd(ctx context.Context, o *options) (calendar.Date, error) {
	if o.hasWindow && !o.end.IsZero() {
		return o.end, nil
	}
	months := o.horizonMonths
	if months <= 0 {
		months = ConfigFromContext(ctx).ProjectionMonths
	}
	return calendar.AddMonths(o.today.Year(), o.today.Month(), o.today.Day(), months)
}
