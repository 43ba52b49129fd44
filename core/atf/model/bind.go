package model

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/atfkit/core/errors"
)

// IndexLines lists the transliteration lines of a Text in document order,
// keyed by the surface and column that enclose them. Translations are not
// searched.
func IndexLines(t *Text) []LineRef {
	var out []LineRef
	var walk func(ns Nodes, surface, column string)
	walk = func(ns Nodes, surface, column string) {
		for _, n := range ns {
			switch n := n.(type) {
			case *Division:
				s, c := surface, column
				switch n.Kind {
				case DivisionObject:
					s, c = "", ""
				case DivisionSurface:
					s, c = SurfaceAbbrev(n.Name, n.Description), ""
				case DivisionColumn:
					c = ColumnAbbrev(n.Description)
				}
				walk(n.Children, s, c)
			case *Line:
				out = append(out, LineRef{Surface: surface, Column: column, Label: n.Label})
			}
		}
	}
	walk(t.Children, "", "")
	return out
}

// findLine returns the index of the first line at or after from that the
// label names, or -1.
func findLine(lines []LineRef, l Label, from int) int {
	want := l.Line()
	qualifiers := l.Qualifiers()
	for i := from; i < len(lines); i++ {
		if lines[i].Label == want && lines[i].matches(qualifiers) {
			return i
		}
	}
	return -1
}

// Bind resolves the cross references of a Text once its structure is
// complete: labeled translation entries are bound to lines, and score
// numbers, parallel witnesses and link targets are checked. Problems are
// returned as binding diagnostics; nothing is removed from the tree.
func Bind(t *Text) errors.Diagnostics {
	lines := IndexLines(t)
	var diags errors.Diagnostics
	at := func(line int) errors.Position { return errors.Position{Line: line} }

	last := -1
	Walk(t.Children, func(n Node) bool {
		e, ok := n.(*Entry)
		if !ok {
			return true
		}
		e.Bound = nil
		from := findLine(lines, e.Ref.From, last+1)
		if from < 0 {
			from = findLine(lines, e.Ref.From, 0)
		}
		if from < 0 {
			diags = append(diags, errors.NewBinding(at(e.Source),
				fmt.Sprintf("label %q does not match any line", e.Ref.From.String())))
			return false
		}
		to := from
		if e.Ref.To != nil {
			if to = findLine(lines, *e.Ref.To, from); to < 0 {
				diags = append(diags, errors.NewBinding(at(e.Source),
					fmt.Sprintf("range end %q does not match any line after %q", e.Ref.To.String(), e.Ref.From.String())))
				return false
			}
		}
		start := from
		if e.Ref.Plus && last+1 < from {
			start = last + 1
		}
		e.Bound = append([]LineRef(nil), lines[start:to+1]...)
		last = to
		return false
	})

	labels := make(map[string]bool, len(lines))
	for _, l := range lines {
		labels[l.Label] = true
	}
	aliases := map[string]bool{}
	Walk(t.Children, func(n Node) bool {
		if l, ok := n.(*Link); ok && l.Kind == LinkDef && l.Alias != "" {
			aliases[l.Alias] = true
		}
		return true
	})

	Walk(t.Children, func(n Node) bool {
		switch n := n.(type) {
		case *Score:
			if !labels[n.Number] {
				diags = append(diags, errors.NewBinding(at(n.Source),
					fmt.Sprintf("score witnesses of %q do not follow a line with that label", n.Number)))
			}
		case *Line:
			for _, p := range n.Parallels {
				if len(aliases) > 0 && !aliases[p.Witness] {
					diags = append(diags, errors.NewBinding(at(n.Source),
						fmt.Sprintf("parallel witness %q is not defined by a #link: def", p.Witness)))
				}
			}
		case *Link:
			if _, err := n.ParsedTarget(); err != nil {
				diags = append(diags, errors.NewBinding(at(n.Source), err.Error()))
			}
		case *Include:
			if _, err := n.Link.ParsedTarget(); err != nil {
				diags = append(diags, errors.NewBinding(at(n.Link.Source), err.Error()))
			}
		}
		return true
	})
	return diags
}

// Validate checks a Document built by hand against the guarantees the
// parser gives: every Text after the first has a code, codes are unique, and
// all references bind. It fills Entry.Bound as a side effect.
func Validate(doc *Document) errors.Diagnostics {
	var diags errors.Diagnostics
	for i, t := range doc.Texts {
		if strings.TrimSpace(t.Code) == "" && i > 0 {
			diags = append(diags, &errors.Diagnostic{
				Kind: errors.SyntaxError, Severity: errors.SeverityError,
				Message: fmt.Sprintf("text %d has no code", i+1),
			})
		}
		diags = append(diags, Bind(t)...)
	}
	return append(diags, DuplicateCodes(doc)...)
}

// DuplicateCodes reports every Text whose code was already used by an
// earlier Text of the document.
func DuplicateCodes(doc *Document) errors.Diagnostics {
	var diags errors.Diagnostics
	seen := map[string]bool{}
	for _, t := range doc.Texts {
		code := strings.TrimSpace(t.Code)
		if code == "" {
			continue
		}
		if seen[code] {
			diags = append(diags, errors.NewBinding(errors.Position{},
				fmt.Sprintf("text code %q is declared more than once", code)))
		}
		seen[code] = true
	}
	return diags
}
