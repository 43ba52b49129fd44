package errors

import (
	"errors"
	"testing"
)

func TestDiagnosticError(t *testing.T) {
	tests := []struct {
		name string
		diag *Diagnostic
		want string
	}{
		{
			name: "lexical",
			diag: NewLexical(Position{Line: 3, Column: 1}, `unknown @-keyword "wobble"`),
			want: `3:1: lexical error: unknown @-keyword "wobble"`,
		},
		{
			name: "syntax with expected",
			diag: NewSyntax(Position{Line: 7, Column: 5}, "unexpected EQUALS", "ID", "NEWLINE"),
			want: "7:5: syntax error: unexpected EQUALS (expected ID, NEWLINE)",
		},
		{
			name: "binding without column",
			diag: NewBinding(Position{Line: 12}, `label "o 99" does not match any line`),
			want: `12: binding error: label "o 99" does not match any line`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.diag.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if !errors.Is(tt.diag, ErrInvalidInput) {
				t.Errorf("errors.Is(%v, ErrInvalidInput) = false", tt.diag)
			}
		})
	}
}

func TestDiagnosticSeverities(t *testing.T) {
	if got := NewLexical(Position{}, "x").Severity; got != SeverityError {
		t.Errorf("lexical severity = %s, want error", got)
	}
	if got := NewSyntax(Position{}, "x").Severity; got != SeverityError {
		t.Errorf("syntax severity = %s, want error", got)
	}
	if got := NewBinding(Position{}, "x").Severity; got != SeverityWarning {
		t.Errorf("binding severity = %s, want warning", got)
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in      string
		want    Severity
		wantErr bool
	}{
		{"info", SeverityInfo, false},
		{"warning", SeverityWarning, false},
		{"WARN", SeverityWarning, false},
		{" error ", SeverityError, false},
		{"fatal", SeverityError, true},
	}
	for _, tt := range tests {
		got, err := ParseSeverity(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSeverity(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSeverity(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestDiagnosticsHelpers(t *testing.T) {
	ds := Diagnostics{
		NewBinding(Position{Line: 9}, "b"),
		NewLexical(Position{Line: 2, Column: 4}, "l"),
		NewSyntax(Position{Line: 2, Column: 1}, "s"),
	}

	if max, ok := ds.Max(); !ok || max != SeverityError {
		t.Errorf("Max() = %s, %v, want error, true", max, ok)
	}
	if _, ok := (Diagnostics{}).Max(); ok {
		t.Error("Max() on empty list reported ok")
	}
	if got := len(ds.AtLeast(SeverityError)); got != 2 {
		t.Errorf("AtLeast(error) has %d entries, want 2", got)
	}
	if got := ds.Count(BindingError); got != 1 {
		t.Errorf("Count(binding) = %d, want 1", got)
	}

	ds.Sort()
	if ds[0].Message != "s" || ds[1].Message != "l" || ds[2].Message != "b" {
		t.Errorf("Sort() order = %s %s %s, want s l b", ds[0].Message, ds[1].Message, ds[2].Message)
	}

	err := ds.Err()
	if err == nil {
		t.Fatal("Err() = nil, want error")
	}
	var diag *Diagnostic
	if !errors.As(err, &diag) || diag.Message != "s" {
		t.Errorf("errors.As(Err()) = %v, want first error diagnostic", diag)
	}
	if (Diagnostics{NewBinding(Position{}, "only a warning")}).Err() != nil {
		t.Error("Err() with warnings only should be nil")
	}
}
