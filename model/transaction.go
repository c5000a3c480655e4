package model

import (
	"fmt"
	"strings"

	"github.com/uFincs/uFincs-sub004/calendar"
)

// TransactionType classifies a transaction and decides which account types may sit on
// its credit and debit sides.
type TransactionType int

const (
	TransactionTypeUnknown TransactionType = iota
	TransactionTypeIncome
	TransactionTypeExpense
	TransactionTypeDebt
	TransactionTypeTransfer
)

// String returns the string representation of the transaction type
func (t TransactionType) String() string {
	switch t {
	case TransactionTypeIncome:
		return "income"
	case TransactionTypeExpense:
		return "expense"
	case TransactionTypeDebt:
		return "debt"
	case TransactionTypeTransfer:
		return "transfer"
	default:
		return "unknown"
	}
}

// ParseTransactionType parses a transaction type name (case-insensitive).
func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return TransactionTypeIncome, nil
	case "expense":
		return TransactionTypeExpense, nil
	case "debt":
		return TransactionTypeDebt, nil
	case "transfer":
		return TransactionTypeTransfer, nil
	default:
		return TransactionTypeUnknown, fmt.Errorf("unknown transaction type %q", s)
	}
}

func (t TransactionType) MarshalText() ([]byte, error) {
	if t == TransactionTypeUnknown {
		return nil, fmt.Errorf("cannot marshal unknown transaction type")
	}
	return []byte(t.String()), nil
}

func (t *TransactionType) UnmarshalText(text []byte) error {
	parsed, err := ParseTransactionType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TransactionCore holds the fields a realized transaction shares with the recurring
// template that generates it.
type TransactionCore struct {
	Amount          int64           `yaml:"amount" json:"amount"`
	Description     string          `yaml:"description" json:"description"`
	Notes           string          `yaml:"notes,omitempty" json:"notes,omitempty"`
	Type            TransactionType `yaml:"type" json:"type"`
	CreditAccountID string          `yaml:"creditAccountId" json:"creditAccountId"`
	DebitAccountID  string          `yaml:"debitAccountId" json:"debitAccountId"`
}

// Touches reports whether accountID sits on either side of the entry.
func (c TransactionCore) Touches(accountID string) bool {
	return c.CreditAccountID == accountID || c.DebitAccountID == accountID
}

// Transaction is an immutable, realized double-entry ledger entry. Corrections are new
// transactions; a realized transaction is never edited in place.
type Transaction struct {
	ID              string        `yaml:"id" json:"id"`
	Date            calendar.Date `yaml:"date" json:"date"`
	TransactionCore `yaml:",inline"`

	// RecurringTemplateID is set on transactions realized from a template.
	RecurringTemplateID string `yaml:"recurringTemplateId,omitempty" json:"recurringTemplateId,omitempty"`
}

// IsRecurring reports whether the transaction was generated by a recurring template.
func (t Transaction) IsRecurring() bool {
	return t.RecurringTemplateID != ""
}

// AccountLookup resolves an account by ID.
type AccountLookup func(id string) (Account, bool)

// AccountIndex builds an AccountLookup over a slice of accounts.
func AccountIndex(accounts []Account) AccountLookup {
	byID := make(map[string]Account, len(accounts))
	for _, acc := range accounts {
		byID[acc.ID] = acc
	}
	return func(id string) (Account, bool) {
		acc, ok := byID[id]
		return acc, ok
	}
}

// ValidateTransaction checks a transaction against its accounts: the amount must not be
// negative and the credit/debit pair must satisfy the compatibility table. Imports and
// hand-built transactions go through here before they reach the ledger.
func ValidateTransaction(tx Transaction, accounts AccountLookup) error {
	if tx.Date.IsZero() {
		return fmt.Errorf("transaction %s: missing date", tx.ID)
	}
	return validateCore(tx.ID, tx.TransactionCore, accounts)
}

func validateCore(id string, core TransactionCore, accounts AccountLookup) error {
	if core.Amount < 0 {
		return &InvalidAmountError{ID: id, Amount: core.Amount}
	}

	credit, ok := accounts(core.CreditAccountID)
	if !ok {
		return &UnknownAccountError{ID: id, AccountID: core.CreditAccountID, Side: "credit"}
	}
	debit, ok := accounts(core.DebitAccountID)
	if !ok {
		return &UnknownAccountError{ID: id, AccountID: core.DebitAccountID, Side: "debit"}
	}

	return CheckCompatibility(id, core, credit, debit)
}
