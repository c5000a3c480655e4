// Package errors provides error formatting for ledger validation and realization errors.
// It separates error formatting from domain logic, allowing errors to be rendered in
// multiple formats (text, JSON) for different consumers (CLI, web API).
//
// The package defines a Formatter interface and provides two implementations:
//   - TextFormatter: Formats errors for command-line output with context lines
//   - JSONFormatter: Formats errors as structured JSON for the web API
//
// Domain-specific error types remain in their respective packages (model, recurrence,
// realize, store, loader), while this package handles the presentation layer.
package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/uFincs/uFincs-sub004/loader"
	"github.com/uFincs/uFincs-sub004/model"
	"github.com/uFincs/uFincs-sub004/realize"
	"github.com/uFincs/uFincs-sub004/recurrence"
	"github.com/uFincs/uFincs-sub004/store"
)

// Formatter formats errors for output in different formats.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

// Flatten expands ValidationErrors into their members. Other errors pass through.
func Flatten(err error) []error {
	if err == nil {
		return nil
	}
	var verrs *model.ValidationErrors
	if stderrors.As(err, &verrs) {
		var out []error
		for _, e := range verrs.Errors {
			out = append(out, Flatten(e)...)
		}
		return out
	}
	return []error{err}
}

// TextFormatter formats errors for command-line output.
type TextFormatter struct {
	sourceContent []byte // Optional source content for parse error context
}

// TextFormatterOption is an option for configuring TextFormatter.
type TextFormatterOption func(*TextFormatter)

// WithSource sets the source content for parse error context.
func WithSource(source []byte) TextFormatterOption {
	return func(tf *TextFormatter) {
		tf.sourceContent = source
	}
}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter(opts ...TextFormatterOption) *TextFormatter {
	tf := &TextFormatter{}
	for _, opt := range opts {
		opt(tf)
	}
	return tf
}

// Format formats a single error.
func (tf *TextFormatter) Format(err error) string {
	var (
		verrs        *model.ValidationErrors
		invalid      *recurrence.InvalidRecurrenceSpecError
		incompatible *model.IncompatibleAccountTypeError
		parseErr     *loader.ParseError
	)

	switch {
	case stderrors.As(err, &verrs):
		return tf.FormatAll(Flatten(verrs))

	case stderrors.As(err, &invalid):
		var buf bytes.Buffer
		fmt.Fprintf(&buf, "template %s: invalid recurrence\n\n", invalid.TemplateID)
		for _, p := range invalid.Problems {
			fmt.Fprintf(&buf, "   %s\n", p)
		}
		return buf.String()

	case stderrors.As(err, &incompatible) && incompatible.Side != model.SideNone:
		credit, debit := model.AllowedAccountTypes(incompatible.TransactionType)
		var buf bytes.Buffer
		buf.WriteString(err.Error())
		buf.WriteString("\n\n")
		fmt.Fprintf(&buf, "   %s transactions: credit %s, debit %s\n",
			incompatible.TransactionType, joinTypes(credit), joinTypes(debit))
		return buf.String()

	case stderrors.As(err, &parseErr):
		source := tf.sourceContent
		if line := parseLine(parseErr.Err); line > 0 && source != nil {
			return tf.formatWithSourceContext(line, err.Error(), source)
		}
	}

	// Fallback to standard error formatting
	return err.Error()
}

// FormatAll formats multiple errors, separating them with blank lines.
func (tf *TextFormatter) FormatAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf bytes.Buffer
	for i, err := range errs {
		buf.WriteString(strings.TrimRight(tf.Format(err), "\n"))

		// Add blank line between errors (but not after the last one)
		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}

// formatWithSourceContext shows the message followed by the source lines around line,
// which is 1-based.
func (tf *TextFormatter) formatWithSourceContext(line int, message string, sourceContent []byte) string {
	var buf bytes.Buffer

	buf.WriteString(message)
	buf.WriteString("\n\n")

	sourceLines := strings.Split(string(sourceContent), "\n")

	// Two lines before, one after.
	startLine := line - 3
	endLine := line
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(sourceLines) {
		endLine = len(sourceLines) - 1
	}

	for i := startLine; i <= endLine; i++ {
		marker := "   "
		if i == line-1 {
			marker = " > "
		}
		buf.WriteString(marker)
		buf.WriteString(sourceLines[i])
		buf.WriteByte('\n')
	}

	return buf.String()
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

// parseLine extracts the 1-based line number yaml reports in its error messages.
func parseLine(err error) int {
	if err == nil {
		return 0
	}
	m := yamlLine.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

func joinTypes(types []model.AccountType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, "/")
}

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// ErrorJSON represents an error in JSON format.
type ErrorJSON struct {
	Type     string                 `json:"type"`
	Message  string                 `json:"message"`
	Position *PositionJSON          `json:"position,omitempty"`
	Details  map[string]interface{} `json:"details,omitempty"`
}

// PositionJSON represents a file position in JSON format.
type PositionJSON struct {
	Filename string `json:"filename"`
	Line     int    `json:"line"`
}

// Format formats a single error as JSON.
func (jf *JSONFormatter) Format(err error) string {
	data, _ := json.Marshal(jf.toJSON(err))
	return string(data)
}

// FormatAll formats multiple errors as a JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	data, _ := json.MarshalIndent(jf.FormatAllToSlice(errs), "", "  ")
	return string(data)
}

// FormatAllToSlice returns errors as a slice of ErrorJSON structs. ValidationErrors are
// flattened into one entry per member.
func (jf *JSONFormatter) FormatAllToSlice(errs []error) []ErrorJSON {
	result := make([]ErrorJSON, 0, len(errs))
	for _, err := range errs {
		for _, e := range Flatten(err) {
			result = append(result, jf.toJSON(e))
		}
	}
	return result
}

// toJSON converts an error to ErrorJSON.
func (jf *JSONFormatter) toJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{
		Type:    errorType(err),
		Message: err.Error(),
		Details: make(map[string]interface{}),
	}

	var (
		parseErr     *loader.ParseError
		invalid      *recurrence.InvalidRecurrenceSpecError
		incompatible *model.IncompatibleAccountTypeError
		stale        *realize.StaleTemplateError
		dup          *store.DuplicateOccurrenceError
		notFound     *store.NotFoundError
	)

	switch {
	case stderrors.As(err, &parseErr):
		errJSON.Position = &PositionJSON{Filename: parseErr.Filename, Line: parseLine(parseErr.Err)}
	case stderrors.As(err, &invalid):
		errJSON.Details["templateId"] = invalid.TemplateID
		problems := make([]map[string]string, len(invalid.Problems))
		for i, p := range invalid.Problems {
			problems[i] = map[string]string{"field": p.Field, "message": p.Message}
		}
		errJSON.Details["problems"] = problems
	case stderrors.As(err, &incompatible):
		errJSON.Details["transactionId"] = incompatible.TransactionID
		errJSON.Details["accountId"] = incompatible.AccountID
		if incompatible.Side != model.SideNone {
			errJSON.Details["side"] = incompatible.Side.String()
		}
	case stderrors.As(err, &stale):
		errJSON.Details["templateId"] = stale.TemplateID
		errJSON.Details["asOf"] = stale.AsOf.String()
		errJSON.Details["checkpoint"] = stale.Checkpoint.String()
	case stderrors.As(err, &dup):
		errJSON.Details["templateId"] = dup.TemplateID
		errJSON.Details["date"] = dup.Date.String()
	case stderrors.As(err, &notFound):
		errJSON.Details["kind"] = notFound.Kind
		errJSON.Details["id"] = notFound.ID
	}

	if len(errJSON.Details) == 0 {
		errJSON.Details = nil
	}
	return errJSON
}

// errorType names the error for API consumers without leaking Go package paths.
func errorType(err error) string {
	var (
		parseErr     *loader.ParseError
		invalid      *recurrence.InvalidRecurrenceSpecError
		incompatible *model.IncompatibleAccountTypeError
		amount       *model.InvalidAmountError
		unknown      *model.UnknownAccountError
		stale        *realize.StaleTemplateError
		dup          *store.DuplicateOccurrenceError
		notFound     *store.NotFoundError
	)
	switch {
	case stderrors.As(err, &parseErr):
		return "parse"
	case stderrors.As(err, &invalid):
		return "invalid_recurrence"
	case stderrors.As(err, &incompatible):
		return "incompatible_account_type"
	case stderrors.As(err, &amount):
		return "invalid_amount"
	case stderrors.As(err, &unknown):
		return "unknown_account"
	case stderrors.As(err, &stale):
		return "stale_template"
	case stderrors.As(err, &dup):
		return "duplicate_occurrence"
	case stderrors.As(err, &notFound):
		return "not_found"
	default:
		return "error"
	}
}
