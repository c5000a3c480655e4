// Large Book Generator
//
// This tool generates a large ledger book for performance testing and profiling.
// It creates valid transactions of every type plus a set of recurring templates, so the
// book exercises loading, realization and balance projection.
//
// Usage:
//
//	go run main.go > large.yaml
//	go run main.go 500000 > large.yaml  # Specify the number of transactions
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/uFincs/uFincs-sub004/calendar"
	"github.com/uFincs/uFincs-sub004/loader"
	"github.com/uFincs/uFincs-sub004/model"
)

const defaultTransactions = 100_000

var (
	accounts = []model.Account{
		{ID: "checking", Name: "Bank Checking", Type: model.AccountTypeAsset, OpeningBalance: 250_000},
		{ID: "savings", Name: "Bank Savings", Type: model.AccountTypeAsset, OpeningBalance: 1_000_000, Interest: 4250},
		{ID: "brokerage", Name: "Brokerage Cash", Type: model.AccountTypeAsset},
		{ID: "visa", Name: "Visa", Type: model.AccountTypeLiability, Interest: 19990},
		{ID: "amex", Name: "Amex", Type: model.AccountTypeLiability},
		{ID: "mortgage", Name: "Mortgage", Type: model.AccountTypeLiability, OpeningBalance: 30_000_000},
		{ID: "salary", Name: "Salary", Type: model.AccountTypeIncome},
		{ID: "bonus", Name: "Bonus", Type: model.AccountTypeIncome},
		{ID: "dividends", Name: "Dividends", Type: model.AccountTypeIncome},
		{ID: "groceries", Name: "Groceries", Type: model.AccountTypeExpense},
		{ID: "restaurants", Name: "Restaurants", Type: model.AccountTypeExpense},
		{ID: "rent", Name: "Rent", Type: model.AccountTypeExpense},
		{ID: "utilities", Name: "Utilities", Type: model.AccountTypeExpense},
		{ID: "transit", Name: "Transit", Type: model.AccountTypeExpense},
		{ID: "subscriptions", Name: "Subscriptions", Type: model.AccountTypeExpense},
	}

	descriptions = []string{
		"Grocery shopping", "Fuel purchase", "Rent payment",
		"Salary deposit", "Stock purchase", "Utility bill",
		"Online purchase", "Restaurant dinner", "Coffee",
		"Monthly subscription", "Medical appointment",
		"Investment contribution", "Dividend payment",
	}

	transactionTypes = []model.TransactionType{
		model.TransactionTypeIncome,
		model.TransactionTypeExpense,
		model.TransactionTypeDebt,
		model.TransactionTypeTransfer,
	}
)

func main() {
	count := defaultTransactions
	if len(os.Args) > 1 {
		if n, err := strconv.Atoi(os.Args[1]); err == nil {
			count = n
		}
	}

	start := calendar.MustNew(2020, time.January, 1)
	book := &loader.Book{
		Options:  map[string]string{"currency": "USD"},
		Accounts: accounts,
	}

	date := start
	for i := 0; i < count; i++ {
		book.Transactions = append(book.Transactions, generateTransaction(i, date))

		// Several transactions share a day
		if rand.Intn(4) == 0 {
			date = date.AddDays(1)
		}
	}

	book.Templates = generateTemplates(start)

	data, err := loader.Marshal(book)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal book: %v\n", err)
		os.Exit(1)
	}
	_, _ = os.Stdout.Write(data)

	fmt.Fprintf(os.Stderr, "\nGenerated %d bytes with %d transactions and %d templates\n",
		len(data), len(book.Transactions), len(book.Templates))
}

func generateTransaction(i int, date calendar.Date) model.Transaction {
	txType := transactionTypes[rand.Intn(len(transactionTypes))]
	credit, debit := pickAccounts(txType)

	return model.Transaction{
		ID:   fmt.Sprintf("tx-%07d", i),
		Date: date,
		TransactionCore: model.TransactionCore{
			Amount:          randAmount(txType),
			Description:     descriptions[rand.Intn(len(descriptions))],
			Type:            txType,
			CreditAccountID: credit.ID,
			DebitAccountID:  debit.ID,
		},
	}
}

// pickAccounts draws a credit and a debit account the transaction type allows.
func pickAccounts(txType model.TransactionType) (credit, debit model.Account) {
	creditTypes, debitTypes := model.AllowedAccountTypes(txType)
	for {
		credit = pickAccount(creditTypes)
		debit = pickAccount(debitTypes)
		if credit.ID != debit.ID {
			return credit, debit
		}
	}
}

func pickAccount(types []model.AccountType) model.Account {
	var candidates []model.Account
	for _, acc := range accounts {
		for _, t := range types {
			if acc.Type == t {
				candidates = append(candidates, acc)
			}
		}
	}
	return candidates[rand.Intn(len(candidates))]
}

func randAmount(txType model.TransactionType) int64 {
	switch txType {
	case model.TransactionTypeIncome:
		return int64(rand.Intn(500_000) + 50_000)
	case model.TransactionTypeTransfer:
		return int64(rand.Intn(200_000) + 1_000)
	default:
		return int64(rand.Intn(50_000) + 100)
	}
}

func generateTemplates(start calendar.Date) []model.RecurringTemplate {
	friday := time.Friday
	core := func(txType model.TransactionType, amount int64, description, credit, debit string) model.TransactionCore {
		return model.TransactionCore{
			Amount:          amount,
			Description:     description,
			Type:            txType,
			CreditAccountID: credit,
			DebitAccountID:  debit,
		}
	}

	return []model.RecurringTemplate{
		{
			ID:              "paycheck",
			TransactionCore: core(model.TransactionTypeIncome, 320_000, "Paycheck", "salary", "checking"),
			Interval:        2,
			Frequency:       calendar.Weekly,
			OnWeekday:       &friday,
			StartDate:       start,
			EndCondition:    model.EndNever,
		},
		{
			ID:              "rent",
			TransactionCore: core(model.TransactionTypeExpense, 180_000, "Rent", "checking", "rent"),
			Interval:        1,
			Frequency:       calendar.Monthly,
			OnMonthDay:      1,
			StartDate:       start,
			EndCondition:    model.EndNever,
		},
		{
			ID:              "card-payment",
			TransactionCore: core(model.TransactionTypeTransfer, 75_000, "Card payment", "checking", "visa"),
			Interval:        1,
			Frequency:       calendar.Monthly,
			OnMonthDay:      calendar.LastDay,
			StartDate:       start,
			EndCondition:    model.EndNever,
		},
		{
			ID:              "gym",
			TransactionCore: core(model.TransactionTypeDebt, 4_500, "Gym membership", "amex", "subscriptions"),
			Interval:        1,
			Frequency:       calendar.Monthly,
			OnMonthDay:      15,
			StartDate:       start,
			EndCondition:    model.EndAfter,
			Count:           24,
		},
		{
			ID:              "insurance",
			TransactionCore: core(model.TransactionTypeExpense, 96_000, "Insurance premium", "checking", "utilities"),
			Interval:        1,
			Frequency:       calendar.Yearly,
			OnYearMonth:     time.March,
			OnYearDay:       31,
			StartDate:       start,
			EndCondition:    model.EndNever,
		},
	}
}
