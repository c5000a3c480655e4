package loader

import (
	"fmt"

	"github.com/uFincs/uFincs-sub004/model"
	"github.com/uFincs/uFincs-sub004/recurrence"
)

// Validate checks every account, transaction and template in the book and collects all
// problems instead of stopping at the first one. It returns nil for a valid book.
func Validate(book *Book) error {
	errs := &model.ValidationErrors{}

	accounts := make(map[string]model.Account, len(book.Accounts))
	for _, acc := range book.Accounts {
		if err := acc.Validate(); err != nil {
			errs.Errors = append(errs.Errors, err)
			continue
		}
		if _, dup := accounts[acc.ID]; dup {
			errs.Errors = append(errs.Errors, fmt.Errorf("account %s: duplicate id", acc.ID))
			continue
		}
		accounts[acc.ID] = acc
	}
	lookup := func(id string) (model.Account, bool) {
		acc, ok := accounts[id]
		return acc, ok
	}

	txIDs := make(map[string]bool, len(book.Transactions))
	type occurrence struct {
		templateID string
		date       string
	}
	occurrences := make(map[occurrence]string)
	for _, tx := range book.Transactions {
		if tx.ID == "" {
			errs.Errors = append(errs.Errors, fmt.Errorf("transaction on %s: missing id", tx.Date))
			continue
		}
		if txIDs[tx.ID] {
			errs.Errors = append(errs.Errors, fmt.Errorf("transaction %s: duplicate id", tx.ID))
			continue
		}
		txIDs[tx.ID] = true

		if err := model.ValidateTransaction(tx, lookup); err != nil {
			errs.Errors = append(errs.Errors, err)
		}
		if tx.IsRecurring() {
			key := occurrence{tx.RecurringTemplateID, tx.Date.String()}
			if existing, ok := occurrences[key]; ok {
				errs.Errors = append(errs.Errors, fmt.Errorf("transaction %s: template %s already realized on %s by %s",
					tx.ID, tx.RecurringTemplateID, tx.Date, existing))
			}
			occurrences[key] = tx.ID
		}
	}

	templateIDs := make(map[string]bool, len(book.Templates))
	for _, tmpl := range book.Templates {
		if templateIDs[tmpl.ID] {
			errs.Errors = append(errs.Errors, fmt.Errorf("template %s: duplicate id", tmpl.ID))
			continue
		}
		templateIDs[tmpl.ID] = true

		if err := recurrence.Validate(tmpl); err != nil {
			errs.Errors = append(errs.Errors, err)
		}
		if err := model.ValidateTemplateAccounts(tmpl, lookup); err != nil {
			errs.Errors = append(errs.Errors, err)
		}
	}

	for _, tx := range book.Transactions {
		if tx.IsRecurring() && !templateIDs[tx.RecurringTemplateID] {
			errs.Errors = append(errs.Errors, fmt.Errorf("transaction %s: unknown template %s", tx.ID, tx.RecurringTemplateID))
		}
	}

	return errs.ErrorOrNil()
}
