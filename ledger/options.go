package ledger

import (
	"github.com/uFincs/uFincs-sub004/calendar"
)

// Option configures balance computation.
type Option func(*options)

type options struct {
	today     calendar.Date
	start     calendar.Date
	end       calendar.Date
	hasWindow bool

	// horizonMonths bounds projection when no window is set; 0 means use the config.
	horizonMonths int
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.today.IsZero() {
		o.today = calendar.Today()
	}
	return o
}

// WithToday sets the date separating current from future balances. Defaults to the
// current local calendar date.
func WithToday(today calendar.Date) Option {
	return func(o *options) {
		o.today = today
	}
}

// WithWindow restricts the returned points to [start, end]. Transactions before start
// still count toward the starting balance. A zero start or end leaves that side open.
func WithWindow(start, end calendar.Date) Option {
	return func(o *options) {
		o.hasWindow = !start.IsZero() || !end.IsZero()
		o.start = start
		o.end = end
	}
}

// WithHorizon sets how many months past today Project looks when no window end is set.
func WithHorizon(months int) Option {
	return func(o *options) {
		o.horizonMonths = months
	}
}
