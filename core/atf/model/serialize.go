package model

import (
	"strconv"
	"strings"
)

// SerializeDocument returns the canonical ATF of a document. Texts are
// separated by one blank line. Leading Texts that serialize to nothing are
// skipped, and the first Text written omits an empty "&" line.
func SerializeDocument(doc *Document) string {
	var w writer
	for i, t := range doc.Texts[LeadingEmpty(doc):] {
		if i > 0 {
			w.blank()
		}
		w.text(t, i > 0)
	}
	return w.String()
}

// LeadingEmpty returns the number of leading Texts of doc that have no
// code, description, header field or content. An implicit Text holding
// only rejected lines is one.
func LeadingEmpty(doc *Document) int {
	for i, t := range doc.Texts {
		if SerializeText(t) != "" {
			return i
		}
	}
	return len(doc.Texts)
}

// SerializeText returns the canonical ATF of a single Text.
func SerializeText(t *Text) string {
	var w writer
	w.text(t, false)
	return w.String()
}

// SerializeTextAt returns the canonical ATF of the Text at index i of
// doc.Texts[LeadingEmpty(doc):]. Joining the results for every index with
// "\n" gives SerializeDocument.
func SerializeTextAt(t *Text, i int) string {
	var w writer
	w.text(t, i > 0)
	return w.String()
}

// Serialize returns the canonical ATF of a node and its children.
func Serialize(n Node) string {
	var w writer
	w.node(n)
	return w.String()
}

// String returns the canonical ATF of the document.
func (d *Document) String() string {
	return SerializeDocument(d)
}

// String returns the canonical ATF of the Text.
func (t *Text) String() string {
	return SerializeText(t)
}

// String formats the reference as written after "||".
func (p ParallelRef) String() string {
	s := strings.TrimSpace(p.Witness + " " + strings.Join(p.From, " "))
	if len(p.To) > 0 {
		s += " - " + strings.Join(p.To, " ")
	}
	return s
}

// FormatSegments joins free text and "^N^" markers. Markers attach to the
// preceding text without a space.
func FormatSegments(segs []Segment) string {
	var b strings.Builder
	for i, s := range segs {
		if s.Note != "" {
			b.WriteString("^" + s.Note + "^")
			continue
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

// FormatLemmas formats the body of a "#lem:" line.
func FormatLemmas(lemmas []Lemma) string {
	parts := make([]string, len(lemmas))
	for i, l := range lemmas {
		parts[i] = l.String()
	}
	return strings.Join(parts, "; ")
}

type writer struct {
	b strings.Builder
}

func (w *writer) String() string {
	return w.b.String()
}

func (w *writer) line(parts ...string) {
	for _, p := range parts {
		w.b.WriteString(p)
	}
	w.b.WriteByte('\n')
}

func (w *writer) blank() {
	w.b.WriteByte('\n')
}

// optional writes prefix+value when value is not empty.
func (w *writer) optional(prefix, value string) {
	if value != "" {
		w.line(prefix, value)
	}
}

// text writes a Text. The "&" line is omitted for a leading Text without
// code or description.
func (w *writer) text(t *Text, header bool) {
	if header || t.Code != "" || t.Description != "" {
		header := "&" + t.Code
		if t.Description != "" {
			header += " = " + t.Description
		}
		w.line(header)
	}
	if t.Composite {
		w.line("@composite")
	}
	w.optional("#project: ", t.Project)
	w.optional("#atf: lang ", t.Protocols.Language)
	for _, u := range t.Protocols.Uses {
		w.line("#atf: use ", u)
	}
	if t.Score != nil {
		w.line(strings.TrimSpace("@score " + strings.Join(t.Score.Args, " ")))
	}
	for _, k := range t.Keys {
		if k.Name != "" {
			w.line("#key: ", k.Name, "=", k.Value)
		} else {
			w.line("#key: ", k.Value)
		}
	}
	for _, b := range t.Bibliography {
		w.line("#bib: ", b)
	}
	w.nodes(t.Children)
}

func (w *writer) nodes(ns Nodes) {
	for _, n := range ns {
		w.node(n)
	}
}

func (w *writer) node(n Node) {
	switch n := n.(type) {
	case *Division:
		w.line("@", joinNonEmpty(n.Name, n.Description), n.Flags)
		w.nodes(n.Children)
	case *Line:
		w.transliteration(n)
	case *DollarLine:
		w.line(strings.TrimSpace("$ " + DollarText(n)))
	case *Translation:
		w.line("@translation ", joinNonEmpty(append([]string{string(n.Kind), n.Lang, n.Project}, n.Extra...)...))
		w.nodes(n.Children)
	case *Paragraph:
		w.paragraph(n)
	case *Entry:
		w.entry(n)
	case *Score:
		for _, wit := range n.Witnesses {
			w.line(joinNonEmpty(wit.Label+":", strings.Join(wit.Words, " ")))
			w.lemmas(wit.Lemmas)
		}
	case *Link:
		w.line("#link: ", linkBody(n))
	case *Include:
		w.line("@include ", linkBody(&Link{Target: n.Link.Target, Citation: n.Link.Citation}))
	case *Note:
		w.line(joinNonEmpty(n.Directive, FormatSegments(n.Text)))
	case *Milestone:
		if n.Name == "m" {
			w.line("@m=", n.Value)
		} else {
			w.line("@", joinNonEmpty(n.Name, n.Value))
		}
	case *Heading:
		w.line(joinNonEmpty("@h"+strconv.Itoa(n.Level), n.Text))
	case *Comment:
		switch {
		case n.Check:
			w.line(joinNonEmpty("#CHECK:", n.Text))
		case strings.HasPrefix(n.Text, "#"):
			w.line("#", n.Text)
		default:
			w.line(joinNonEmpty("#", n.Text))
		}
	}
}

func (w *writer) transliteration(l *Line) {
	if len(l.Words) > 0 {
		w.line(l.Label, ".\t", strings.Join(l.Words, " "))
	} else {
		w.line(l.Label, ".")
	}
	w.lemmas(l.Lemmas)
	for _, p := range l.Parallels {
		w.line("|| ", p.String())
	}
	for _, r := range l.Renderings {
		w.line(joinNonEmpty(r.Marker, strings.Join(r.Words, " ")))
		w.lemmas(r.Lemmas)
	}
	for _, tr := range l.Translations {
		directive := "#tr:"
		if tr.Lang != "" {
			directive = "#tr." + tr.Lang + ":"
		}
		w.line(joinNonEmpty(directive, FormatSegments(tr.Text)))
	}
}

func (w *writer) lemmas(ls []Lemma) {
	if len(ls) > 0 {
		w.line("#lem: ", FormatLemmas(ls))
	}
}

// paragraph writes prose closed by a blank line.
func (w *writer) paragraph(p *Paragraph) {
	switch {
	case p.Label != "" && len(p.Lines) == 0:
		w.line(p.Label, ".")
	case p.Label != "":
		w.line(p.Label, ".\t", FormatSegments(p.Lines[0]))
	case len(p.Lines) > 0:
		w.line(FormatSegments(p.Lines[0]))
	}
	if len(p.Lines) > 1 {
		for _, l := range p.Lines[1:] {
			w.line(FormatSegments(l))
		}
	}
	w.blank()
}

// entry writes a labeled entry, its paragraphs separated by blank lines,
// then its notes.
func (w *writer) entry(e *Entry) {
	paras := e.Paragraphs
	if e.Ref.Inline {
		header := "@(" + e.Ref.String() + ")"
		if len(paras) > 0 && len(paras[0].Lines) > 0 {
			header += " " + FormatSegments(paras[0].Lines[0])
			rest := &Paragraph{Lines: paras[0].Lines[1:]}
			paras = append([]*Paragraph{rest}, paras[1:]...)
		}
		w.line(header)
	} else {
		directive := "@label "
		if e.Ref.Plus {
			directive = "@label+ "
		}
		w.line(directive, e.Ref.String())
	}
	for i, p := range paras {
		if i > 0 && len(p.Lines) > 0 {
			w.blank()
		}
		for _, l := range p.Lines {
			w.line(FormatSegments(l))
		}
	}
	w.blank()
	for _, n := range e.Notes {
		w.node(n)
	}
	if len(e.Notes) > 0 {
		w.blank()
	}
}

// DollarText returns the content of a $-line after "$ ".
func DollarText(d *DollarLine) string {
	switch d.Kind {
	case DollarRuling:
		return joinNonEmpty(d.Ruling, "ruling")
	case DollarState:
		return joinNonEmpty(d.Qualification, d.Extent, d.Scope, d.State)
	}
	return d.Text
}

func linkBody(l *Link) string {
	parts := []string{}
	if l.Alias != "" {
		parts = append(parts, l.Alias)
	}
	parts = append(parts, l.Target)
	if l.Citation != "" {
		parts = append(parts, l.Citation)
	}
	body := strings.Join(parts, " = ")
	if l.Kind == LinkDef || l.Kind == LinkParallel {
		body = string(l.Kind) + " " + body
	}
	return body
}

// joinNonEmpty joins the non-empty parts with single spaces.
func joinNonEmpty(parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
