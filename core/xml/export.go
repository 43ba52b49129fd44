package xml

import (
	"strconv"
	"strings"

	"github.com/FocuswithJustin/atfkit/core/atf/model"
	"github.com/FocuswithJustin/atfkit/core/encoding"
	atferrors "github.com/FocuswithJustin/atfkit/core/errors"
)

// FromDocument renders a parsed ATF document as an XML tree:
//
//	<atf>
//	  <text code="X001001" description="..." lang="akk">
//	    <object name="tablet">
//	      <surface name="obverse">
//	        <l n="1"><w form="ana" gloss="to" pos="PRP">a-na</w></l>
//
// Translations, scores, links, notes and the other line types become
// elements of their own at the position they hold in the document.
func FromDocument(doc *model.Document) (*Document, error) {
	var e exporter
	e.open("atf")
	for _, t := range doc.Texts {
		e.text(t)
	}
	e.close("atf")
	d, err := Parse([]byte(e.String()))
	if err != nil {
		return nil, atferrors.Wrap(err, "export ATF document")
	}
	return d, nil
}

type exporter struct {
	strings.Builder
}

// open writes a start tag. attrs are name/value pairs; empty values are
// left out.
func (e *exporter) open(name string, attrs ...string) {
	e.tag(name, attrs, false)
}

// empty writes a self-closing tag.
func (e *exporter) empty(name string, attrs ...string) {
	e.tag(name, attrs, true)
}

func (e *exporter) tag(name string, attrs []string, closed bool) {
	e.WriteString("<" + name)
	for i := 0; i+1 < len(attrs); i += 2 {
		if attrs[i+1] == "" {
			continue
		}
		e.WriteString(" " + attrs[i] + `="` + encoding.EscapeXMLAttr(attrs[i+1]) + `"`)
	}
	if closed {
		e.WriteString("/>")
		return
	}
	e.WriteString(">")
}

func (e *exporter) close(name string) {
	e.WriteString("</" + name + ">")
}

// element writes <name attrs>text</name>.
func (e *exporter) element(name, text string, attrs ...string) {
	if text == "" {
		e.empty(name, attrs...)
		return
	}
	e.open(name, attrs...)
	e.WriteString(encoding.EscapeXMLText(text))
	e.close(name)
}

func flag(b bool) string {
	if b {
		return "true"
	}
	return ""
}

func (e *exporter) text(t *model.Text) {
	e.open("text",
		"code", t.Code,
		"description", t.Description,
		"project", t.Project,
		"lang", t.Protocols.Language,
		"use", strings.Join(t.Protocols.Uses, " "),
		"composite", flag(t.Composite),
	)
	for _, k := range t.Keys {
		e.element("key", k.Value, "name", k.Name)
	}
	for _, b := range t.Bibliography {
		e.element("bib", b)
	}
	if t.Score != nil {
		e.empty("score-spec", "args", strings.Join(t.Score.Args, " "))
	}
	e.nodes(t.Children)
	e.close("text")
}

func (e *exporter) nodes(ns model.Nodes) {
	for _, n := range ns {
		e.node(n)
	}
}

func (e *exporter) node(n model.Node) {
	switch n := n.(type) {
	case *model.Division:
		name := string(n.Kind)
		e.open(name, "name", n.Name, "n", n.Description, "flags", n.Flags)
		e.nodes(n.Children)
		e.close(name)
	case *model.Line:
		e.line(n)
	case *model.DollarLine:
		e.element("dollar", model.DollarText(n),
			"kind", string(n.Kind),
			"qualification", n.Qualification,
			"extent", n.Extent,
			"scope", n.Scope,
			"state", n.State,
			"ruling", n.Ruling,
		)
	case *model.Translation:
		e.open("translation", "kind", string(n.Kind), "lang", n.Lang, "project", n.Project)
		e.nodes(n.Children)
		e.close("translation")
	case *model.Entry:
		var bound []string
		for _, r := range n.Bound {
			bound = append(bound, r.String())
		}
		e.open("entry", "ref", n.Ref.String(), "bound", strings.Join(bound, ", "))
		for _, p := range n.Paragraphs {
			e.paragraph(p)
		}
		for _, note := range n.Notes {
			e.note(note)
		}
		e.close("entry")
	case *model.Paragraph:
		e.paragraph(n)
	case *model.Score:
		e.open("score", "n", n.Number)
		for _, w := range n.Witnesses {
			e.open("witness", "id", w.ID, "label", w.Label)
			e.words(w.Words, w.Lemmas)
			e.close("witness")
		}
		e.close("score")
	case *model.Link:
		e.element("link", n.Citation, "kind", string(n.Kind), "alias", n.Alias, "target", n.Target)
	case *model.Include:
		e.element("include", n.Link.Citation, "target", n.Link.Target)
	case *model.Note:
		e.note(n)
	case *model.Milestone:
		e.empty("milestone", "name", n.Name, "value", n.Value)
	case *model.Heading:
		e.element("h", n.Text, "level", strconv.Itoa(n.Level))
	case *model.Comment:
		e.element("comment", n.Text, "check", flag(n.Check))
	}
}

func (e *exporter) line(l *model.Line) {
	var parallels []string
	for _, p := range l.Parallels {
		parallels = append(parallels, p.String())
	}
	e.open("l", "n", l.Label, "parallels", strings.Join(parallels, "; "))
	e.words(l.Words, l.Lemmas)
	for _, r := range l.Renderings {
		e.open("rendering", "marker", r.Marker)
		e.words(r.Words, r.Lemmas)
		e.close("rendering")
	}
	for _, tr := range l.Translations {
		e.element("tr", model.FormatSegments(tr.Text), "lang", tr.Lang)
	}
	e.close("l")
}

// words pairs words with lemmas by position. Extra lemmas are kept as
// empty <w> elements.
func (e *exporter) words(words []string, lemmas []model.Lemma) {
	n := max(len(words), len(lemmas))
	for i := range n {
		var attrs []string
		if i < len(lemmas) {
			l := lemmas[i]
			attrs = []string{"form", l.Form, "gloss", l.Gloss, "pos", l.POS, "norm", l.Norm, "new", flag(l.Plus)}
		}
		word := ""
		if i < len(words) {
			word = words[i]
		}
		e.element("w", word, attrs...)
	}
}

func (e *exporter) paragraph(p *model.Paragraph) {
	e.open("p", "label", p.Label)
	for i, segs := range p.Lines {
		if i > 0 {
			e.empty("lb")
		}
		e.segments(segs)
	}
	e.close("p")
}

func (e *exporter) note(n *model.Note) {
	e.open("note", "directive", n.Directive)
	e.segments(n.Text)
	e.close("note")
}

// segments writes free text with "^N^" markers as <ref n="N"/>.
func (e *exporter) segments(segs []model.Segment) {
	for i, s := range segs {
		if s.Note != "" {
			e.empty("ref", "n", s.Note)
			continue
		}
		if i > 0 {
			e.WriteString(" ")
		}
		e.WriteString(encoding.EscapeXMLText(s.Text))
	}
}
