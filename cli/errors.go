package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	errfmt "github.com/uFincs/uFincs-sub004/errors"
)

var (
	errMarkerStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// ErrorRenderer renders errors with terminal styling and source context.
type ErrorRenderer struct {
	formatter *errfmt.TextFormatter
}

// NewErrorRenderer creates a renderer with source content for context.
func NewErrorRenderer(source []byte) *ErrorRenderer {
	return &ErrorRenderer{formatter: errfmt.NewTextFormatter(errfmt.WithSource(source))}
}

// Render formats a single error with styling and context. Validation error groups are
// rendered one member at a time.
func (r *ErrorRenderer) Render(err error) string {
	errs := errfmt.Flatten(err)
	if len(errs) > 1 {
		return r.RenderAll(errs)
	}

	text := strings.TrimRight(r.formatter.Format(err), "\n")
	message, context, hasContext := strings.Cut(text, "\n\n")

	var buf strings.Builder
	buf.WriteString(errorStyle.Render(message))
	if !hasContext {
		return buf.String()
	}

	buf.WriteString("\n\n")
	lines := strings.Split(context, "\n")
	for i, line := range lines {
		if rest, marked := strings.CutPrefix(line, " > "); marked {
			buf.WriteString(errMarkerStyle.Render(" > "))
			buf.WriteString(rest)
		} else {
			buf.WriteString(errContextStyle.Render(line))
		}
		if i < len(lines)-1 {
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}

// RenderAll formats multiple errors, separating them with blank lines.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf strings.Builder
	for i, err := range errs {
		buf.WriteString(r.Render(err))

		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}
