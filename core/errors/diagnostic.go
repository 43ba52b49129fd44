package errors

import (
	"fmt"
	"sort"
	"strings"
)

// Kind classifies a diagnostic by the stage that produced it.
type Kind string

// Diagnostic kinds.
const (
	// LexicalError is an unrecognized line or unbalanced nesting.
	LexicalError Kind = "lexical"
	// SyntaxError is a token sequence no production accepts.
	SyntaxError Kind = "syntax"
	// BindingError is a reference that does not resolve in its Text.
	BindingError Kind = "binding"
)

// Severity orders diagnostics for reporting and exit status.
type Severity int

// Severity levels, least severe first.
const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

// ParseSeverity converts "info", "warning" or "error" to a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info":
		return SeverityInfo, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	}
	return SeverityError, NewValidation("severity", fmt.Sprintf("unknown severity %q", s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Position locates a diagnostic in the source text.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string {
	if p.Column == 0 {
		return fmt.Sprintf("%d", p.Line)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Diagnostic is one problem found while parsing or validating a document.
// It is plain data; formatting for users is left to the caller.
type Diagnostic struct {
	Kind     Kind     `json:"kind"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Pos      Position `json:"pos"`
	Expected []string `json:"expected,omitempty"`
}

func (d *Diagnostic) Error() string {
	msg := fmt.Sprintf("%s: %s error: %s", d.Pos, d.Kind, d.Message)
	if len(d.Expected) > 0 {
		msg += fmt.Sprintf(" (expected %s)", strings.Join(d.Expected, ", "))
	}
	return msg
}

// Unwrap maps every diagnostic onto ErrInvalidInput.
func (d *Diagnostic) Unwrap() error {
	return ErrInvalidInput
}

// NewLexical creates an error-severity lexical diagnostic.
func NewLexical(pos Position, message string) *Diagnostic {
	return &Diagnostic{Kind: LexicalError, Severity: SeverityError, Message: message, Pos: pos}
}

// NewSyntax creates an error-severity syntax diagnostic.
func NewSyntax(pos Position, message string, expected ...string) *Diagnostic {
	return &Diagnostic{Kind: SyntaxError, Severity: SeverityError, Message: message, Pos: pos, Expected: expected}
}

// NewBinding creates a warning-severity binding diagnostic.
func NewBinding(pos Position, message string) *Diagnostic {
	return &Diagnostic{Kind: BindingError, Severity: SeverityWarning, Message: message, Pos: pos}
}

// Diagnostics is an ordered list of diagnostics.
type Diagnostics []*Diagnostic

// Max returns the highest severity in the list, and false if it is empty.
func (ds Diagnostics) Max() (Severity, bool) {
	if len(ds) == 0 {
		return SeverityInfo, false
	}
	max := SeverityInfo
	for _, d := range ds {
		if d.Severity > max {
			max = d.Severity
		}
	}
	return max, true
}

// AtLeast returns the diagnostics with severity s or higher.
func (ds Diagnostics) AtLeast(s Severity) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Severity >= s {
			out = append(out, d)
		}
	}
	return out
}

// Count returns the number of diagnostics of the given kind.
func (ds Diagnostics) Count(kind Kind) int {
	n := 0
	for _, d := range ds {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Sort orders the diagnostics by line and column, keeping the relative order
// of diagnostics at the same offset.
func (ds Diagnostics) Sort() {
	sort.SliceStable(ds, func(i, j int) bool {
		if ds[i].Pos.Line != ds[j].Pos.Line {
			return ds[i].Pos.Line < ds[j].Pos.Line
		}
		return ds[i].Pos.Column < ds[j].Pos.Column
	})
}

// Err returns the list as an error if it holds any error-severity entry.
func (ds Diagnostics) Err() error {
	errs := ds.AtLeast(SeverityError)
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return fmt.Errorf("%w (and %d more)", errs[0], len(errs)-1)
}
