// Package ledger computes account balances from realized transactions and projects them
// forward through recurring templates.
//
// Every transaction moves money from its credit account to its debit account. The sign
// of that movement depends on the account type:
//
//	Account type   As debit   As credit
//	asset          +amount    -amount
//	liability      -amount    +amount
//	income         -amount    +amount
//	expense        +amount    -amount
//
// Transactions that do not touch an account contribute nothing to its balance. The
// engine re-checks the compatibility table for the side an account sits on, so a
// malformed transaction fails loudly instead of producing a wrong balance.
package ledger

import (
	"github.com/uFincs/uFincs-sub004/model"
)

// Reducer folds one transaction into a running balance.
type Reducer func(balance int64, tx model.Transaction) (int64, error)

// BalanceReducer returns the Reducer for an account.
func BalanceReducer(account model.Account) Reducer {
	return func(balance int64, tx model.Transaction) (int64, error) {
		delta, err := Delta(account, tx)
		if err != nil {
			return balance, err
		}
		return balance + delta, nil
	}
}

// Delta returns the signed effect of tx on account's balance.
func Delta(account model.Account, tx model.Transaction) (int64, error) {
	onCredit := tx.CreditAccountID == account.ID
	onDebit := tx.DebitAccountID == account.ID

	switch {
	case !onCredit && !onDebit:
		return 0, nil
	case onCredit && onDebit:
		return 0, &model.IncompatibleAccountTypeError{
			TransactionID:   tx.ID,
			TransactionType: tx.Type,
			AccountID:       account.ID,
			AccountType:     account.Type,
			Reason:          "credit and debit accounts must differ",
		}
	}

	side := model.SideDebit
	if onCredit {
		side = model.SideCredit
	}
	if !model.Allows(tx.Type, side, account.Type) {
		return 0, &model.IncompatibleAccountTypeError{
			TransactionID:   tx.ID,
			TransactionType: tx.Type,
			AccountID:       account.ID,
			AccountType:     account.Type,
			Side:            side,
		}
	}

	sign := debitSign(account.Type)
	if side == model.SideCredit {
		sign = -sign
	}
	return sign * tx.Amount, nil
}

// debitSign is the sign of a debit for each account type. Allows has already rejected
// unknown types.
func debitSign(t model.AccountType) int64 {
	switch t {
	case model.AccountTypeAsset, model.AccountTypeExpense:
		return 1
	case model.AccountTypeLiability, model.AccountTypeIncome:
		return -1
	default:
		return 0
	}
}
