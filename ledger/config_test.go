package ledger

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestConfigFromOptions(t *testing.T) {
	tests := []struct {
		name        string
		options     map[string]string
		wantErr     string
		checkConfig func(t *testing.T, config *Config)
	}{
		{
			name:    "empty options - use defaults",
			options: map[string]string{},
			checkConfig: func(t *testing.T, config *Config) {
				assert.Equal(t, "USD", config.Currency)
				assert.Equal(t, int32(2), config.MinorUnits)
				assert.Equal(t, 12, config.ProjectionMonths)
			},
		},
		{
			name:    "currency is upper-cased",
			options: map[string]string{"currency": "cad"},
			checkConfig: func(t *testing.T, config *Config) {
				assert.Equal(t, "CAD", config.Currency)
			},
		},
		{
			name:    "zero minor units",
			options: map[string]string{"minor_units": "0"},
			checkConfig: func(t *testing.T, config *Config) {
				assert.Equal(t, int32(0), config.MinorUnits)
			},
		},
		{
			name:    "projection months",
			options: map[string]string{"projection_months": "24"},
			checkConfig: func(t *testing.T, config *Config) {
				assert.Equal(t, 24, config.ProjectionMonths)
			},
		},
		{
			name:    "invalid currency",
			options: map[string]string{"currency": "dollars"},
			wantErr: `invalid currency "dollars", expected a 3-letter code`,
		},
		{
			name:    "invalid minor units",
			options: map[string]string{"minor_units": "two"},
			wantErr: `invalid minor_units "two", expected 0 to 8`,
		},
		{
			name:    "projection out of range",
			options: map[string]string{"projection_months": "0"},
			wantErr: `invalid projection_months "0", expected 1 to 120`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := ConfigFromOptions(tt.options)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			tt.checkConfig(t, config)
		})
	}
}

func TestConfigContext(t *testing.T) {
	assert.Equal(t, NewConfig(), ConfigFromContext(context.Background()))

	cfg := &Config{Currency: "EUR", MinorUnits: 2, ProjectionMonths: 6}
	ctx := cfg.WithContext(context.Background())
	assert.True(t, ConfigFromContext(ctx) == cfg)
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		minor int64
		units int32
		want  string
	}{
		{0, 2, "0.00"},
		{5, 2, "0.05"},
		{123456, 2, "1,234.56"},
		{-123456, 2, "-1,234.56"},
		{100000000, 2, "1,000,000.00"},
		{1500, 0, "1,500"},
		{12345, 3, "12.345"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			cfg := NewConfig()
			cfg.MinorUnits = tt.units
			assert.Equal(t, tt.want, FormatAmount(tt.minor, cfg))
		})
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "12.00 USD", FormatMoney(1200, nil))
}

func TestParseAmount(t *testing.T) {
	got, err := ParseAmount("1,234.56", nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(123456), got)

	got, err = ParseAmount("-5", nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(-500), got)

	_, err = ParseAmount("1.234", nil)
	assert.EqualError(t, err, `invalid amount "1.234": more than 2 decimal places`)

	_, err = ParseAmount("abc", nil)
	assert.Error(t, err)
}
