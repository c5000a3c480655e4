package model

import (
	"fmt"
	"strings"
)

// IncompatibleAccountTypeError is returned when a transaction's type does not permit the
// account type found on one of its sides, or when both sides name the same account.
type IncompatibleAccountTypeError struct {
	TransactionID   string
	TransactionType TransactionType
	AccountID       string
	AccountType     AccountType
	Side            Side
	Reason          string // set when the violation is not a plain table mismatch
}

func (e *IncompatibleAccountTypeError) Error() string {
	label := e.TransactionID
	if label == "" {
		label = "<new>"
	}
	if e.Reason != "" {
		return fmt.Sprintf("transaction %s: %s", label, e.Reason)
	}

	credit, debit := AllowedAccountTypes(e.TransactionType)
	allowed := credit
	if e.Side == SideDebit {
		allowed = debit
	}
	names := make([]string, len(allowed))
	for i, at := range allowed {
		names[i] = at.String()
	}

	return fmt.Sprintf("transaction %s: %s transaction cannot have %s account %s on the %s side (allowed: %s)",
		label, e.TransactionType, e.AccountType, e.AccountID, e.Side, strings.Join(names, ", "))
}

// InvalidAmountError is returned when a transaction or template carries a negative amount.
type InvalidAmountError struct {
	ID     string
	Amount int64
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("%s: amount must not be negative, got %d", e.ID, e.Amount)
}

// UnknownAccountError is returned when a transaction references an account that does
// not exist.
type UnknownAccountError struct {
	ID        string
	AccountID string
	Side      string
}

func (e *UnknownAccountError) Error() string {
	return fmt.Sprintf("%s: unknown %s account %q", e.ID, e.Side, e.AccountID)
}

// ValidationErrors wraps multiple validation errors
type ValidationErrors struct {
	Errors []error
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d validation errors occurred", len(e.Errors))
}

// Unwrap returns the underlying errors for error unwrapping
func (e *ValidationErrors) Unwrap() []error {
	return e.Errors
}

// ErrorOrNil returns e when it holds at least one error, nil otherwise.
func (e *ValidationErrors) ErrorOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}
