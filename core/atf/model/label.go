package model

import (
	"strconv"
	"strings"
)

// Label is a reference as written in "@label" or "@(...)": optional
// surface and column qualifiers followed by a line label ("o ii 10").
type Label struct {
	Parts []string `json:"parts"`
}

// ParseLabel splits a label reference on whitespace.
func ParseLabel(s string) Label {
	return Label{Parts: strings.Fields(s)}
}

// Line returns the line label, the last part.
func (l Label) Line() string {
	if len(l.Parts) == 0 {
		return ""
	}
	return l.Parts[len(l.Parts)-1]
}

// Qualifiers returns the surface and column parts, normalized to their
// abbreviated form.
func (l Label) Qualifiers() []string {
	if len(l.Parts) < 2 {
		return nil
	}
	out := make([]string, 0, len(l.Parts)-1)
	for _, p := range l.Parts[:len(l.Parts)-1] {
		out = append(out, normalizeQualifier(p))
	}
	return out
}

func (l Label) String() string {
	return strings.Join(l.Parts, " ")
}

// LabelRef is the reference of a labeled translation entry: a single label,
// a "-" range of two labels, or a "+" continuation.
type LabelRef struct {
	From Label  `json:"from"`
	To   *Label `json:"to,omitempty"`

	// Plus marks "@label+".
	Plus bool `json:"plus,omitempty"`

	// Inline marks the "@(REF) text" form.
	Inline bool `json:"inline,omitempty"`
}

// String formats the reference without its directive ("o 14-15 - o 20").
func (r LabelRef) String() string {
	s := r.From.String()
	if r.To != nil {
		s += " - " + r.To.String()
	}
	return s
}

// LineRef identifies a transliteration line within a Text by value.
type LineRef struct {
	Surface string `json:"surface,omitempty"`
	Column  string `json:"column,omitempty"`
	Label   string `json:"label"`
}

func (r LineRef) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{r.Surface, r.Column, r.Label} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// matches reports whether every qualifier names the line's surface or column.
func (r LineRef) matches(qualifiers []string) bool {
	for _, q := range qualifiers {
		if q != r.Surface && q != r.Column {
			return false
		}
	}
	return true
}

var surfaceAbbrevs = map[string]string{
	"obverse": "o",
	"reverse": "r",
	"left":    "l.e.",
	"right":   "r.e.",
	"top":     "t.e.",
	"bottom":  "b.e.",
	"edge":    "e",
}

// SurfaceAbbrev returns the short form used in label references for a
// surface division ("obverse" -> "o", "face a" -> "a").
func SurfaceAbbrev(name, description string) string {
	if a, ok := surfaceAbbrevs[name]; ok {
		return a
	}
	switch name {
	case "face", "surface":
		return strings.ToLower(description)
	case "seal":
		return strings.TrimSpace("seal " + description)
	}
	return name
}

// ColumnAbbrev returns the lower-case roman numeral of a column
// description ("2" -> "ii").
func ColumnAbbrev(description string) string {
	if n, err := strconv.Atoi(strings.TrimSpace(description)); err == nil && n > 0 {
		return Roman(n)
	}
	return strings.ToLower(strings.TrimSpace(description))
}

func normalizeQualifier(q string) string {
	lower := strings.ToLower(q)
	if a, ok := surfaceAbbrevs[lower]; ok {
		return a
	}
	if n, err := strconv.Atoi(lower); err == nil && n > 0 {
		return Roman(n)
	}
	return lower
}

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "m"}, {900, "cm"}, {500, "d"}, {400, "cd"},
	{100, "c"}, {90, "xc"}, {50, "l"}, {40, "xl"},
	{10, "x"}, {9, "ix"}, {5, "v"}, {4, "iv"}, {1, "i"},
}

// Roman formats n as a lower-case roman numeral.
func Roman(n int) string {
	var b strings.Builder
	for _, r := range romanNumerals {
		for n >= r.value {
			b.WriteString(r.symbol)
			n -= r.value
		}
	}
	return b.String()
}
