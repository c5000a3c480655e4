package ledger

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Config holds the ledger book options.
type Config struct {
	// Currency is the ISO code amounts are displayed in.
	Currency string

	// MinorUnits is the number of decimal places one unit of Currency is split into.
	MinorUnits int32

	// ProjectionMonths is how far past today projections look by default.
	ProjectionMonths int
}

// NewConfig creates a Config with defaults.
func NewConfig() *Config {
	return &Config{
		Currency:         "USD",
		MinorUnits:       2,
		ProjectionMonths: 12,
	}
}

// ConfigFromOptions parses the book's options map into a Config.
// Supports:
//   - currency: "CAD"
//   - minor_units: "0".."8"
//   - projection_months: "1".."120"
func ConfigFromOptions(options map[string]string) (*Config, error) {
	cfg := NewConfig()

	if val, ok := options["currency"]; ok {
		currency := strings.ToUpper(strings.TrimSpace(val))
		if len(currency) != 3 {
			return nil, fmt.Errorf("invalid currency %q, expected a 3-letter code", val)
		}
		cfg.Currency = currency
	}

	if val, ok := options["minor_units"]; ok {
		units, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil || units < 0 || units > 8 {
			return nil, fmt.Errorf("invalid minor_units %q, expected 0 to 8", val)
		}
		cfg.MinorUnits = int32(units)
	}

	if val, ok := options["projection_months"]; ok {
		months, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil || months < 1 || months > 120 {
			return nil, fmt.Errorf("invalid projection_months %q, expected 1 to 120", val)
		}
		cfg.ProjectionMonths = months
	}

	return cfg, nil
}

// contextKey is a private type to avoid key collisions in context.
type contextKey struct{}

// WithContext returns a new context with the Config attached.
func (c *Config) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// ConfigFromContext retrieves the Config from context.
// Returns a default Config if not found.
func ConfigFromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(contextKey{}).(*Config); ok {
		return cfg
	}
	return NewConfig()
}
