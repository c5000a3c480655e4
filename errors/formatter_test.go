package errors

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/uFincs/uFincs-sub004/calendar"
	"github.com/uFincs/uFincs-sub004/loader"
	"github.com/uFincs/uFincs-sub004/model"
	"github.com/uFincs/uFincs-sub004/realize"
	"github.com/uFincs/uFincs-sub004/recurrence"
	"github.com/uFincs/uFincs-sub004/store"
)

func incompatible() *model.IncompatibleAccountTypeError {
	return &model.IncompatibleAccountTypeError{
		TransactionID:   "tx-1",
		TransactionType: model.TransactionTypeDebt,
		AccountID:       "checking",
		AccountType:     model.AccountTypeAsset,
		Side:            model.SideCredit,
	}
}

func invalidSpec() *recurrence.InvalidRecurrenceSpecError {
	return &recurrence.InvalidRecurrenceSpecError{
		TemplateID: "rent",
		Problems: []recurrence.Problem{
			{Field: "interval", Message: "must be at least 1"},
			{Field: "onMonthDay", Message: "required for monthly templates"},
		},
	}
}

func TestTextFormatterPlainError(t *testing.T) {
	tf := NewTextFormatter()
	assert.Equal(t, "boom", tf.Format(fmt.Errorf("boom")))
}

func TestTextFormatterIncompatible(t *testing.T) {
	output := NewTextFormatter().Format(incompatible())

	expected := "transaction tx-1: debt transaction cannot have asset account checking on the credit side (allowed: liability)\n\n" +
		"   debt transactions: credit liability, debit expense\n"
	assert.Equal(t, expected, output)
}

func TestTextFormatterSameAccountHasNoTable(t *testing.T) {
	err := &model.IncompatibleAccountTypeError{TransactionID: "tx-2", Reason: "credit and debit accounts must differ"}
	assert.Equal(t, "transaction tx-2: credit and debit accounts must differ", NewTextFormatter().Format(err))
}

func TestTextFormatterRecurrence(t *testing.T) {
	output := NewTextFormatter().Format(invalidSpec())

	expected := "template rent: invalid recurrence\n\n" +
		"   interval: must be at least 1\n" +
		"   onMonthDay: required for monthly templates\n"
	assert.Equal(t, expected, output)
}

func TestTextFormatterWrappedError(t *testing.T) {
	err := fmt.Errorf("realize: %w", invalidSpec())
	output := NewTextFormatter().Format(err)
	assert.Contains(t, output, "   interval: must be at least 1")
}

func TestTextFormatterParseErrorWithSource(t *testing.T) {
	source := []byte("accounts:\n  - id: a\n    name: A\n    type: equity\ntemplates: []\n")
	err := &loader.ParseError{Filename: "book.yaml", Err: fmt.Errorf("yaml: line 4: unknown account type")}

	output := NewTextFormatter(WithSource(source)).Format(err)

	expected := "book.yaml: yaml: line 4: unknown account type\n\n" +
		"     - id: a\n" +
		"       name: A\n" +
		" >     type: equity\n" +
		"   templates: []\n"
	assert.Equal(t, expected, output)
}

func TestTextFormatterParseErrorWithoutSource(t *testing.T) {
	err := &loader.ParseError{Filename: "book.yaml", Err: fmt.Errorf("yaml: line 4: oops")}
	assert.Equal(t, "book.yaml: yaml: line 4: oops", NewTextFormatter().Format(err))
}

func TestTextFormatterFormatAll(t *testing.T) {
	tf := NewTextFormatter()
	assert.Equal(t, "", tf.FormatAll(nil))

	output := tf.FormatAll([]error{fmt.Errorf("first"), fmt.Errorf("second")})
	assert.Equal(t, "first\n\nsecond", output)
}

func TestTextFormatterValidationErrors(t *testing.T) {
	errs := &model.ValidationErrors{Errors: []error{fmt.Errorf("first"), invalidSpec()}}
	output := NewTextFormatter().Format(errs)

	assert.Equal(t, "first\n\ntemplate rent: invalid recurrence\n\n"+
		"   interval: must be at least 1\n"+
		"   onMonthDay: required for monthly templates", output)
}

func TestFlatten(t *testing.T) {
	nested := &model.ValidationErrors{Errors: []error{
		fmt.Errorf("a"),
		&model.ValidationErrors{Errors: []error{fmt.Errorf("b"), fmt.Errorf("c")}},
	}}
	assert.Equal(t, 3, len(Flatten(nested)))
	assert.Equal(t, 0, len(Flatten(nil)))
	assert.Equal(t, 1, len(Flatten(fmt.Errorf("x"))))
}

func TestJSONFormatterFormat(t *testing.T) {
	var got ErrorJSON
	assert.NoError(t, json.Unmarshal([]byte(NewJSONFormatter().Format(incompatible())), &got))

	assert.Equal(t, "incompatible_account_type", got.Type)
	assert.Equal(t, "tx-1", got.Details["transactionId"])
	assert.Equal(t, "checking", got.Details["accountId"])
	assert.Equal(t, "credit", got.Details["side"])
	assert.True(t, got.Position == nil)
}

func TestJSONFormatterFormatAll(t *testing.T) {
	errs := []error{
		&model.ValidationErrors{Errors: []error{invalidSpec(), incompatible()}},
		&realize.StaleTemplateError{
			TemplateID: "rent",
			AsOf:       calendar.MustParse("2024-01-01"),
			Checkpoint: calendar.MustParse("2024-02-01"),
		},
		&store.DuplicateOccurrenceError{TemplateID: "rent", Date: calendar.MustParse("2024-01-31"), ExistingID: "t1"},
		&loader.ParseError{Filename: "book.yaml", Err: fmt.Errorf("yaml: line 7: bad")},
		fmt.Errorf("plain"),
	}

	slice := NewJSONFormatter().FormatAllToSlice(errs)
	assert.Equal(t, 6, len(slice))

	assert.Equal(t, "invalid_recurrence", slice[0].Type)
	assert.Equal(t, "rent", slice[0].Details["templateId"])
	assert.Equal(t, "stale_template", slice[2].Type)
	assert.Equal(t, "2024-02-01", slice[2].Details["checkpoint"])
	assert.Equal(t, "duplicate_occurrence", slice[3].Type)
	assert.Equal(t, "parse", slice[4].Type)
	assert.Equal(t, 7, slice[4].Position.Line)
	assert.Equal(t, "error", slice[5].Type)
	assert.True(t, slice[5].Details == nil)

	var decoded []ErrorJSON
	assert.NoError(t, json.Unmarshal([]byte(NewJSONFormatter().FormatAll(errs)), &decoded))
	assert.Equal(t, 6, len(decoded))
}
