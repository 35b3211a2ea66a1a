// Package overlay reconciles scan results against the host's display
// state: highlight marks, diagnostics, and virtual annotations.
package overlay

import (
	"fmt"

	"github.com/dshills/glyphstorm/internal/scan"
	"github.com/dshills/glyphstorm/internal/unidata"
)

// Namespace is the default grouping token under which all marks and
// diagnostics are applied, so the host can bulk-clear them without
// touching marks from other sources.
const Namespace = "glyphstorm"

// Severity indicates how serious a diagnostic is. Lower is more severe,
// following LSP numbering.
type Severity int

const (
	// SeverityError is used for invisible code points.
	SeverityError Severity = 1

	// SeverityWarning is used for ambiguous code points.
	SeverityWarning Severity = 2
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "Error"
	case SeverityWarning:
		return "Warning"
	default:
		return "Unknown"
	}
}

// SeverityFor maps a classification kind to its diagnostic severity.
func SeverityFor(k unidata.Kind) Severity {
	if k == unidata.KindInvisible {
		return SeverityError
	}
	return SeverityWarning
}

// Diagnostic is one reportable finding at a byte span within a line.
type Diagnostic struct {
	// Line is the 0-based line index.
	Line int

	// StartByte and EndByte form the 0-based half-open byte span.
	StartByte int
	EndByte   int

	// Severity is Error for invisible, Warning for ambiguous.
	Severity Severity

	// Message is the fixed-format description of the finding.
	Message string

	// Codepoint is the flagged Unicode scalar value.
	Codepoint rune
}

// Message formats the fixed diagnostic message for a finding. The formats
// are stable; downstream consumers parse these strings.
//
//	invisible U+200B detected
//	U+0430 looks like 'a'
//	U+2000 looks like '?'
func Message(kind unidata.Kind, cp rune, replacement string) string {
	if kind == unidata.KindInvisible {
		return fmt.Sprintf("invisible U+%04X detected", cp)
	}
	if replacement == "" {
		replacement = "?"
	}
	return fmt.Sprintf("U+%04X looks like '%s'", cp, replacement)
}

// Diagnostics converts scan matches into diagnostic entries.
func Diagnostics(matches []scan.Match) []Diagnostic {
	diags := make([]Diagnostic, 0, len(matches))
	for _, m := range matches {
		diags = append(diags, Diagnostic{
			Line:      m.Line,
			StartByte: m.StartByte,
			EndByte:   m.EndByte,
			Severity:  SeverityFor(m.Kind),
			Message:   Message(m.Kind, m.Codepoint, m.Replacement),
			Codepoint: m.Codepoint,
		})
	}
	return diags
}
