package model

// Side is the side of a double-entry transaction an account sits on.
type Side int

const (
	SideNone Side = iota
	SideCredit
	SideDebit
)

func (s Side) String() string {
	switch s {
	case SideCredit:
		return "credit"
	case SideDebit:
		return "debit"
	default:
		return "none"
	}
}

// AllowedAccountTypes returns the account types permitted on the credit and debit side
// of a transaction type. It returns nil slices for an unknown type.
//
//	income:   credit ∈ {income}             debit ∈ {asset}
//	expense:  credit ∈ {asset}              debit ∈ {expense}
//	debt:     credit ∈ {liability}          debit ∈ {expense}
//	transfer: credit ∈ {asset, liability}   debit ∈ {asset, liability}
func AllowedAccountTypes(t TransactionType) (credit, debit []AccountType) {
	switch t {
	case TransactionTypeIncome:
		return []AccountType{AccountTypeIncome}, []AccountType{AccountTypeAsset}
	case TransactionTypeExpense:
		return []AccountType{AccountTypeAsset}, []AccountType{AccountTypeExpense}
	case TransactionTypeDebt:
		return []AccountType{AccountTypeLiability}, []AccountType{AccountTypeExpense}
	case TransactionTypeTransfer:
		both := []AccountType{AccountTypeAsset, AccountTypeLiability}
		return both, both
	default:
		return nil, nil
	}
}

// Allows reports whether an account of type accountType may sit on side of a
// transaction of type t.
func Allows(t TransactionType, side Side, accountType AccountType) bool {
	credit, debit := AllowedAccountTypes(t)
	var allowed []AccountType
	switch side {
	case SideCredit:
		allowed = credit
	case SideDebit:
		allowed = debit
	default:
		return false
	}
	for _, at := range allowed {
		if at == accountType {
			return true
		}
	}
	return false
}

// CheckCompatibility validates the credit/debit account pair of a transaction against
// the compatibility table. id only labels the error.
func CheckCompatibility(id string, core TransactionCore, credit, debit Account) error {
	if core.CreditAccountID == core.DebitAccountID || credit.ID == debit.ID {
		return &IncompatibleAccountTypeError{
			TransactionID:   id,
			TransactionType: core.Type,
			AccountID:       core.CreditAccountID,
			Reason:          "credit and debit accounts must differ",
		}
	}
	if core.Type == TransactionTypeUnknown {
		return &IncompatibleAccountTypeError{
			TransactionID: id,
			Reason:        "unknown transaction type",
		}
	}
	if !Allows(core.Type, SideCredit, credit.Type) {
		return &IncompatibleAccountTypeError{
			TransactionID:   id,
			TransactionType: core.Type,
			AccountID:       credit.ID,
			AccountType:     credit.Type,
			Side:            SideCredit,
		}
	}
	if !Allows(core.Type, SideDebit, debit.Type) {
		return &IncompatibleAccountTypeError{
			TransactionID:   id,
			TransactionType: core.Type,
			AccountID:       debit.ID,
			AccountType:     debit.Type,
			Side:            SideDebit,
		}
	}
	return nil
}
