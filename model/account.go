// Package model defines the ledger records the engine reads and produces: accounts,
// realized transactions and recurring templates, together with the closed enums that
// type them and the transaction/account compatibility table.
package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountType represents the type of account
type AccountType int

const (
	AccountTypeUnknown AccountType = iota
	AccountTypeAsset
	AccountTypeLiability
	AccountTypeIncome
	AccountTypeExpense
)

// AccountTypes lists every valid account type in display order.
var AccountTypes = []AccountType{AccountTypeAsset, AccountTypeLiability, AccountTypeIncome, AccountTypeExpense}

// String returns the string representation of the account type
func (t AccountType) String() string {
	switch t {
	case AccountTypeAsset:
		return "asset"
	case AccountTypeLiability:
		return "liability"
	case AccountTypeIncome:
		return "income"
	case AccountTypeExpense:
		return "expense"
	default:
		return "unknown"
	}
}

// ParseAccountType parses an account type name (case-insensitive, singular or plural).
func ParseAccountType(s string) (AccountType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asset", "assets":
		return AccountTypeAsset, nil
	case "liability", "liabilities":
		return AccountTypeLiability, nil
	case "income":
		return AccountTypeIncome, nil
	case "expense", "expenses":
		return AccountTypeExpense, nil
	default:
		return AccountTypeUnknown, fmt.Errorf("unknown account type %q", s)
	}
}

func (t AccountType) MarshalText() ([]byte, error) {
	if t == AccountTypeUnknown {
		return nil, fmt.Errorf("cannot marshal unknown account type")
	}
	return []byte(t.String()), nil
}

func (t *AccountType) UnmarshalText(text []byte) error {
	parsed, err := ParseAccountType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Account represents a ledger account. The core treats accounts as read-only.
type Account struct {
	ID             string      `yaml:"id" json:"id"`
	Name           string      `yaml:"name" json:"name"`
	Type           AccountType `yaml:"type" json:"type"`
	OpeningBalance int64       `yaml:"openingBalance,omitempty" json:"openingBalance"`

	// Interest is an annual rate in thousandths of a percent (5125 = 5.125%).
	Interest int64 `yaml:"interest,omitempty" json:"interest,omitempty"`
}

// InterestRate returns the annual interest rate as a percentage. Income and expense
// accounts never carry interest and always report zero.
func (a Account) InterestRate() decimal.Decimal {
	if a.Type != AccountTypeAsset && a.Type != AccountTypeLiability {
		return decimal.Zero
	}
	return decimal.New(a.Interest, -3)
}

// Validate checks the fields every account must carry.
func (a Account) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("account %q: missing id", a.Name)
	}
	if a.Type == AccountTypeUnknown {
		return fmt.Errorf("account %s: missing or unknown type", a.ID)
	}
	return nil
}
