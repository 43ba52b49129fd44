// Package parser builds the ATF document tree from the lexer's token stream.
//
// Parsing never fails: the Result always carries a Document, possibly
// partial, together with the diagnostics collected on the way. A syntax or
// lexical error skips to the next line boundary and parsing continues.
package parser

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/atfkit/core/atf/lexer"
	"github.com/FocuswithJustin/atfkit/core/atf/model"
	"github.com/FocuswithJustin/atfkit/core/errors"
)

// Result is the outcome of one parse.
type Result struct {
	Document    *model.Document
	Diagnostics errors.Diagnostics
}

// Err returns the error-severity diagnostics as an error, or nil.
func (r *Result) Err() error {
	return r.Diagnostics.Err()
}

// Parser is a recursive descent parser over a lexer.Stream. A Parser is
// used for a single input.
type Parser struct {
	stream *lexer.Stream
	diags  errors.Diagnostics
	doc    *model.Document

	// state of the current Text
	text    *model.Text
	scopes  []*model.Division // open divisions, outermost first
	line    *model.Line       // last transliteration line
	lemmas  func([]model.Lemma)
	scores  map[string]*model.Score
	logical string // label of the last transliteration line

	// state of the open translation
	tr    *model.Translation
	entry *model.Entry
	para  *model.Paragraph
}

// New creates a Parser for src.
func New(src string) *Parser {
	return &Parser{
		stream: lexer.NewStream(src),
		doc:    &model.Document{},
	}
}

// Parse parses src into a Document.
func Parse(src string) *Result {
	return New(src).Parse()
}

// Parse runs the parser to the end of the input, then binds the cross
// references of every Text.
func (p *Parser) Parse() *Result {
	for p.peek().Type != lexer.EOF {
		p.parseLine()
	}
	for _, t := range p.doc.Texts {
		p.diags = append(p.diags, model.Bind(t)...)
	}
	p.diags.Sort()
	return &Result{Document: p.doc, Diagnostics: p.diags}
}

func (p *Parser) peek() lexer.Token {
	return p.stream.Peek()
}

func (p *Parser) next() lexer.Token {
	return p.stream.Next()
}

// match consumes the next token if it has one of the given types.
func (p *Parser) match(types ...lexer.TokenType) (lexer.Token, bool) {
	tok := p.peek()
	for _, t := range types {
		if tok.Type == t {
			return p.next(), true
		}
	}
	return tok, false
}

// values consumes a run of tokens of the given types and returns their values.
func (p *Parser) values(types ...lexer.TokenType) []string {
	var out []string
	for {
		tok, ok := p.match(types...)
		if !ok {
			return out
		}
		out = append(out, tok.Value)
	}
}

func position(pos lexer.Position) errors.Position {
	return errors.Position{Offset: pos.Offset, Line: pos.Line, Column: pos.Column}
}

func (p *Parser) syntax(tok lexer.Token, message string, expected ...string) {
	p.diags = append(p.diags, errors.NewSyntax(position(tok.Pos), message, expected...))
}

func (p *Parser) lexical(tok lexer.Token) {
	p.diags = append(p.diags, errors.NewLexical(position(tok.Pos), tok.Value))
}

func (p *Parser) warn(tok lexer.Token, message string) {
	p.diags = append(p.diags, &errors.Diagnostic{
		Kind:     errors.SyntaxError,
		Severity: errors.SeverityWarning,
		Message:  message,
		Pos:      position(tok.Pos),
	})
}

func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.ID, lexer.ParentheticalID:
		return fmt.Sprintf("%s %q", tok.Type, tok.Value)
	}
	return tok.Type.String()
}

// skipLine discards tokens up to and including the next NEWLINE.
func (p *Parser) skipLine() {
	for {
		tok := p.peek()
		switch tok.Type {
		case lexer.EOF:
			return
		case lexer.Newline:
			p.next()
			p.newline(tok)
			return
		}
		p.next()
	}
}

// endLine expects the end of a logical line.
func (p *Parser) endLine() {
	tok := p.peek()
	switch tok.Type {
	case lexer.EOF:
	case lexer.Newline:
		p.next()
		p.newline(tok)
	case lexer.Error:
		p.lexical(tok)
		p.skipLine()
	default:
		p.syntax(tok, "unexpected "+describe(tok), "NEWLINE")
		p.skipLine()
	}
}

// newline closes the open paragraph on a blank line.
func (p *Parser) newline(tok lexer.Token) {
	if strings.Count(tok.Value, "\n") > 1 {
		p.para = nil
	}
}

// parseLine parses one logical line and its terminator.
func (p *Parser) parseLine() {
	tok := p.peek()
	reported := len(p.diags)
	switch {
	case tok.Type == lexer.Newline:
		p.next()
		p.newline(tok)
		return
	case tok.Type == lexer.Error:
		p.next()
		p.lexical(tok)
		p.skipLine()
		return
	case tok.Type == lexer.Ampersand:
		p.parseTextHeader()
	case tok.Type == lexer.Composite:
		p.parseComposite()
	case tok.Type.IsObject():
		p.parseDivision(model.DivisionObject)
	case tok.Type.IsSurface():
		p.parseDivision(model.DivisionSurface)
	case tok.Type == lexer.Column:
		p.parseDivision(model.DivisionColumn)
	case tok.Type == lexer.Translation:
		p.parseTranslation()
	case tok.Type == lexer.Label:
		p.parseLabel()
	case tok.Type == lexer.OpenR:
		p.parseInlineLabel()
	case tok.Type == lexer.ID, tok.Type == lexer.Hat:
		p.parseProse()
	case tok.Type == lexer.LineLabel:
		if p.tr != nil {
			p.parseLabeledProse()
		} else {
			p.parseTransliteration()
		}
	default:
		if !p.parseDirective(tok) {
			p.next()
			p.syntax(tok, "unexpected "+describe(tok)+" at start of line",
				"AMPERSAND", "LINELABEL", "@-keyword", "#-protocol", "DOLLAR")
			p.skipLine()
			return
		}
	}
	if len(p.diags) > reported && p.diags[len(p.diags)-1].Severity == errors.SeverityError {
		// one error per line
		p.skipLine()
		return
	}
	p.endLine()
}

// parseDirective parses the @, #, $ and line-continuation directives. It
// reports false if tok starts none of them.
func (p *Parser) parseDirective(tok lexer.Token) bool {
	switch tok.Type {
	case lexer.Project, lexer.ATF, lexer.Key, lexer.Bib:
		p.parseProtocol()
	case lexer.Link:
		p.parseLink()
	case lexer.Include:
		p.parseInclude()
	case lexer.Score:
		p.parseScoreSpec()
	case lexer.Lem:
		p.parseLemmas()
	case lexer.TR:
		p.parseInterlinear()
	case lexer.Note:
		p.parseNote()
	case lexer.Comment, lexer.Check:
		p.parseComment()
	case lexer.Heading:
		p.parseHeading()
	case lexer.Milestone, lexer.M, lexer.Div, lexer.End:
		p.parseMilestone()
	case lexer.Dollar:
		p.parseDollar()
	case lexer.ScoreLabel:
		p.parseWitness()
	case lexer.ParBar:
		p.parseParallel()
	case lexer.Multilingual, lexer.EqualBrace:
		p.parseRendering()
	default:
		return false
	}
	return true
}

// currentText returns the open Text, starting an implicit code-less one
// when content precedes the first "&" line.
func (p *Parser) currentText(tok lexer.Token) *model.Text {
	if p.text == nil {
		p.warn(tok, "content before the first & line")
		p.startText(&model.Text{})
	}
	return p.text
}

func (p *Parser) startText(t *model.Text) {
	p.doc.Texts = append(p.doc.Texts, t)
	p.text = t
	p.scopes = nil
	p.line = nil
	p.lemmas = nil
	p.scores = map[string]*model.Score{}
	p.logical = ""
	p.closeTranslation()
}

func (p *Parser) closeTranslation() {
	p.tr = nil
	p.entry = nil
	p.para = nil
}

// appendNode adds n to the innermost open scope: the translation, the
// innermost division, or the Text.
func (p *Parser) appendNode(tok lexer.Token, n model.Node) {
	t := p.currentText(tok)
	switch {
	case p.tr != nil:
		p.tr.Children = append(p.tr.Children, n)
	case len(p.scopes) > 0:
		d := p.scopes[len(p.scopes)-1]
		d.Children = append(d.Children, n)
	default:
		t.Children = append(t.Children, n)
	}
}

// parseTextHeader parses "&CODE = DESCRIPTION".
func (p *Parser) parseTextHeader() {
	amp := p.next()
	t := &model.Text{}
	if tok, ok := p.match(lexer.ID); ok {
		t.Code = tok.Value
	} else {
		p.syntax(amp, "missing text code after &", "ID")
	}
	if _, ok := p.match(lexer.Equals); ok {
		if tok, ok := p.match(lexer.ID); ok {
			t.Description = tok.Value
		}
	}
	p.startText(t)
}

// parseComposite flags the Text as composite. An @composite that follows
// content of the Text stays where it is, as a milestone.
func (p *Parser) parseComposite() {
	tok := p.next()
	t := p.currentText(tok)
	p.values(lexer.ID)
	p.scopes = nil
	p.closeTranslation()
	if len(t.Children) == 0 {
		t.Composite = true
		return
	}
	p.warn(tok, "@composite after the start of the text")
	t.Children = append(t.Children, &model.Milestone{Name: "composite"})
}

var divisionLevel = map[model.DivisionKind]int{
	model.DivisionObject:  0,
	model.DivisionSurface: 1,
	model.DivisionColumn:  2,
}

// parseDivision parses an object, surface or column line. Inside a
// translation divisions are markers without children.
func (p *Parser) parseDivision(kind model.DivisionKind) {
	tok := p.next()
	d := &model.Division{Kind: kind, Name: tok.Value}
	if id, ok := p.match(lexer.ID); ok {
		d.Description = id.Value
	}
	d.Flags = p.flags()

	if p.tr != nil {
		p.entry = nil
		p.para = nil
		p.appendNode(tok, d)
		return
	}
	for len(p.scopes) > 0 && divisionLevel[p.scopes[len(p.scopes)-1].Kind] >= divisionLevel[kind] {
		p.scopes = p.scopes[:len(p.scopes)-1]
	}
	p.appendNode(tok, d)
	p.scopes = append(p.scopes, d)
}

// flags consumes trailing damage and certainty flags.
func (p *Parser) flags() string {
	var b strings.Builder
	for p.peek().Type.IsFlag() {
		b.WriteString(p.next().Value)
	}
	return b.String()
}
