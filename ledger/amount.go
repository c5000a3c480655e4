package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimal converts an amount in minor units to a decimal in major units.
func (c *Config) Decimal(minor int64) decimal.Decimal {
	return decimal.New(minor, -c.MinorUnits)
}

// FormatAmount renders minor units as a grouped decimal string, e.g. 123456 → "1,234.56".
func FormatAmount(minor int64, cfg *Config) string {
	if cfg == nil {
		cfg = NewConfig()
	}
	fixed := cfg.Decimal(minor).StringFixed(cfg.MinorUnits)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, frac, hasFrac := strings.Cut(fixed, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// FormatMoney is FormatAmount followed by the currency code.
func FormatMoney(minor int64, cfg *Config) string {
	if cfg == nil {
		cfg = NewConfig()
	}
	return fmt.Sprintf("%s %s", FormatAmount(minor, cfg), cfg.Currency)
}

// ParseAmount parses a decimal string in major units into minor units. It rejects values
// with more precision than the currency allows.
func ParseAmount(s string, cfg *Config) (int64, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	minor := d.Shift(cfg.MinorUnits)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("invalid amount %q: more than %d decimal places", s, cfg.MinorUnits)
	}
	return minor.IntPart(), nil
}
