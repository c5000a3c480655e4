package realize

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"

	"github.com/uFincs/uFincs-sub004/calendar"
	"github.com/uFincs/uFincs-sub004/model"
	"github.com/uFincs/uFincs-sub004/recurrence"
)

func d(s string) calendar.Date {
	return calendar.MustParse(s)
}

func paycheck() model.RecurringTemplate {
	return model.RecurringTemplate{
		ID: "paycheck",
		TransactionCore: model.TransactionCore{
			Amount:          500,
			Description:     "Paycheck",
			Type:            model.TransactionTypeIncome,
			CreditAccountID: "salary",
			DebitAccountID:  "checking",
		},
		Interval:     1,
		Frequency:    calendar.Weekly,
		OnWeekday:    model.Weekday(time.Monday),
		StartDate:    d("2024-01-01"),
		EndCondition: model.EndAfter,
		Count:        3,
	}
}

func txDates(txs []model.Transaction) []string {
	out := make([]string, len(txs))
	for i, tx := range txs {
		out[i] = tx.Date.String()
	}
	return out
}

type fakeIndex map[string]bool

func (f fakeIndex) HasOccurrence(_ context.Context, templateID string, date calendar.Date) (bool, error) {
	return f[templateID+"/"+date.String()], nil
}

type failingIndex struct{}

func (failingIndex) HasOccurrence(context.Context, string, calendar.Date) (bool, error) {
	return false, errors.New("store offline")
}

func TestRealizeWeeklyScenario(t *testing.T) {
	ctx := context.Background()
	tmpl := paycheck()

	res, err := Realize(ctx, tmpl, d("2024-01-10"))
	assert.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01", "2024-01-08"}, txDates(res.Created))
	assert.Equal(t, "2024-01-08", res.Checkpoint.String())
	assert.Equal(t, "2024-01-08", res.Template.LastRealizedDate.String())
	assert.True(t, tmpl.LastRealizedDate == nil, "input template must not be mutated")

	for _, tx := range res.Created {
		assert.Equal(t, "paycheck", tx.RecurringTemplateID)
		assert.Equal(t, int64(500), tx.Amount)
		assert.Equal(t, "checking", tx.DebitAccountID)
		assert.NotEqual(t, "", tx.ID)
	}

	res, err = Realize(ctx, res.Template, d("2024-01-31"))
	assert.NoError(t, err)
	assert.Equal(t, []string{"2024-01-15"}, txDates(res.Created))
	assert.Equal(t, "2024-01-15", res.Checkpoint.String())

	res, err = Realize(ctx, res.Template, d("2024-03-01"))
	assert.NoError(t, err)
	assert.Equal(t, 0, len(res.Created))
	assert.Equal(t, "2024-01-15", res.Checkpoint.String())
}

func TestRealizeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	asOf := d("2024-01-10")

	first, err := Realize(ctx, paycheck(), asOf)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(first.Created))

	second, err := Realize(ctx, first.Template, asOf)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(second.Created))
	assert.Equal(t, first.Checkpoint.String(), second.Checkpoint.String())
	assert.False(t, second.Advanced(first.Checkpoint))
}

func TestRealizeIncrementalMatchesSingleCall(t *testing.T) {
	ctx := context.Background()
	tmpl := model.RecurringTemplate{
		ID: "rent",
		TransactionCore: model.TransactionCore{
			Amount:          1200,
			Type:            model.TransactionTypeExpense,
			CreditAccountID: "checking",
			DebitAccountID:  "rent",
		},
		Interval:     1,
		Frequency:    calendar.Monthly,
		OnMonthDay:   31,
		StartDate:    d("2024-01-01"),
		EndCondition: model.EndNever,
	}

	whole, err := Realize(ctx, tmpl, d("2024-06-30"))
	assert.NoError(t, err)

	var pieces []model.Transaction
	current := tmpl
	for _, asOf := range []string{"2024-01-31", "2024-02-15", "2024-02-29", "2024-05-01", "2024-06-30"} {
		res, err := Realize(ctx, current, d(asOf))
		assert.NoError(t, err)
		pieces = append(pieces, res.Created...)
		current = res.Template
	}

	assert.Equal(t, whole.Created, pieces)
	assert.Equal(t, []string{
		"2024-01-31", "2024-02-29", "2024-03-31", "2024-04-30", "2024-05-31", "2024-06-30",
	}, txDates(pieces))
}

func TestRealizeBeforeStartCreatesNothing(t *testing.T) {
	res, err := Realize(context.Background(), paycheck(), d("2023-12-31"))
	assert.NoError(t, err)
	assert.Equal(t, 0, len(res.Created))
	assert.True(t, res.Checkpoint == nil)
}

func TestRealizeStaleAsOf(t *testing.T) {
	tmpl := paycheck().WithCheckpoint(model.DatePtr(d("2024-01-08")))

	_, err := Realize(context.Background(), tmpl, d("2024-01-05"))
	var stale *StaleTemplateError
	assert.True(t, errors.As(err, &stale))
	assert.Equal(t, "paycheck", stale.TemplateID)
	assert.Equal(t, "template paycheck: cannot realize as of 2024-01-05, already realized through 2024-01-08", err.Error())
}

func TestRealizeAsOfCheckpointIsNoOp(t *testing.T) {
	tmpl := paycheck().WithCheckpoint(model.DatePtr(d("2024-01-08")))

	res, err := Realize(context.Background(), tmpl, d("2024-01-08"))
	assert.NoError(t, err)
	assert.Equal(t, 0, len(res.Created))
	assert.Equal(t, "2024-01-08", res.Checkpoint.String())
}

func TestRealizeRejectsInvalidTemplate(t *testing.T) {
	tmpl := paycheck()
	tmpl.OnWeekday = nil

	_, err := Realize(context.Background(), tmpl, d("2024-02-01"))
	var invalid *recurrence.InvalidRecurrenceSpecError
	assert.True(t, errors.As(err, &invalid))
}

func TestRealizeRequiresAsOf(t *testing.T) {
	_, err := Realize(context.Background(), paycheck(), calendar.Date{})
	assert.Error(t, err)
}

func TestRealizeSkipsExistingOccurrences(t *testing.T) {
	index := fakeIndex{"paycheck/2024-01-01": true}
	svc := New(WithExisting(index))

	res, err := svc.Realize(context.Background(), paycheck(), d("2024-01-10"))
	assert.NoError(t, err)
	assert.Equal(t, []string{"2024-01-08"}, txDates(res.Created))
	assert.Equal(t, 1, len(res.Skipped))
	assert.Equal(t, "2024-01-08", res.Checkpoint.String())
}

func TestRealizeIndexFailure(t *testing.T) {
	svc := New(WithExisting(failingIndex{}))

	_, err := svc.Realize(context.Background(), paycheck(), d("2024-01-10"))
	assert.EqualError(t, err, "failed to check occurrence 2024-01-01 of template paycheck: store offline")
}

func TestTransactionIDIsDeterministic(t *testing.T) {
	a := TransactionID("paycheck", d("2024-01-01"))
	b := TransactionID("paycheck", d("2024-01-01"))
	c := TransactionID("paycheck", d("2024-01-08"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, 36, len(a))
}

func TestWithIDGenerator(t *testing.T) {
	svc := New(WithIDGenerator(func(templateID string, date calendar.Date) string {
		return templateID + "@" + date.String()
	}))

	res, err := svc.Realize(context.Background(), paycheck(), d("2024-01-01"))
	assert.NoError(t, err)
	assert.Equal(t, "paycheck@2024-01-01", res.Created[0].ID)
}

func TestRealizeAll(t *testing.T) {
	rent := paycheck()
	rent.ID = "rent"

	results, err := New().RealizeAll(context.Background(), []model.RecurringTemplate{paycheck(), rent}, d("2024-01-31"))
	assert.NoError(t, err)
	assert.Equal(t, 2, len(results))
	assert.Equal(t, 3, len(results[0].Created))
	assert.Equal(t, "rent", results[1].Template.ID)
	assert.NotEqual(t, results[0].Created[0].ID, results[1].Created[0].ID)
}

func TestRealizeAllStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().RealizeAll(ctx, []model.RecurringTemplate{paycheck()}, d("2024-01-31"))
	assert.IsError(t, err, context.Canceled)
}

func TestWindow(t *testing.T) {
	from, to := Window(paycheck(), d("2024-02-01"))
	assert.Equal(t, "2024-01-01", from.String())
	assert.Equal(t, "2024-02-01", to.String())

	from, _ = Window(paycheck().WithCheckpoint(model.DatePtr(d("2024-01-08"))), d("2024-02-01"))
	assert.Equal(t, "2024-01-09", from.String())
}
