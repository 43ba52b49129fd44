package parser

import (
	"strconv"
	"strings"

	"github.com/FocuswithJustin/atfkit/core/atf/lexer"
	"github.com/FocuswithJustin/atfkit/core/atf/model"
)

// ============================================================================
// Header protocols
// ============================================================================

// parseProtocol parses the #project:, #atf:, #key: and #bib: lines.
func (p *Parser) parseProtocol() {
	tok := p.next()
	t := p.currentText(tok)
	switch tok.Type {
	case lexer.Project:
		if id, ok := p.match(lexer.ID); ok {
			t.Project = id.Value
		} else {
			p.syntax(tok, "missing project name", "ID")
		}
	case lexer.Bib:
		if id, ok := p.match(lexer.ID); ok {
			t.Bibliography = append(t.Bibliography, id.Value)
		}
	case lexer.Key:
		parts := p.split()
		switch {
		case strings.Join(parts, "") == "":
			p.syntax(tok, "empty #key: line", "ID")
		case len(parts) == 1:
			t.Keys = append(t.Keys, model.Key{Value: parts[0]})
		default:
			t.Keys = append(t.Keys, model.Key{Name: parts[0], Value: strings.Join(parts[1:], "=")})
		}
	case lexer.ATF:
		p.parseATF(tok, t)
	}
}

func (p *Parser) parseATF(tok lexer.Token, t *model.Text) {
	switch next := p.peek(); next.Type {
	case lexer.Lang:
		p.next()
		if id, ok := p.match(lexer.ID); ok {
			t.Protocols.Language = id.Value
		} else {
			p.syntax(next, "missing language after #atf: lang", "ID")
		}
	case lexer.Use:
		p.next()
		uses := p.values(lexer.Unicode, lexer.Math, lexer.Legacy, lexer.Mylines, lexer.Lexical, lexer.ID)
		if len(uses) == 0 {
			p.syntax(next, "missing protocol after #atf: use", "ID")
		}
		t.Protocols.Uses = append(t.Protocols.Uses, uses...)
	case lexer.ID:
		p.next()
		p.warn(next, "unknown #atf: protocol "+strconv.Quote(next.Value))
	default:
		p.syntax(tok, "empty #atf: line", "lang", "use")
	}
}

// split collects the '=' separated parts of a line.
func (p *Parser) split() []string {
	var parts []string
	open := false
	for {
		switch tok := p.peek(); tok.Type {
		case lexer.ID:
			p.next()
			if open {
				parts[len(parts)-1] = tok.Value
			} else {
				parts = append(parts, tok.Value)
			}
			open = false
		case lexer.Equals:
			p.next()
			if !open && len(parts) == 0 {
				parts = append(parts, "")
			}
			parts = append(parts, "")
			open = true
		default:
			return parts
		}
	}
}

func (p *Parser) parseLink() {
	tok := p.next()
	l := &model.Link{Source: tok.Pos.Line}
	if kind, ok := p.match(lexer.Def, lexer.Parallel); ok {
		l.Kind = model.LinkKind(kind.Value)
	}
	parts := p.split()
	if l.Kind == model.LinkDef {
		if len(parts) < 2 || parts[0] == "" {
			p.syntax(tok, "#link: def needs an alias and a target", "ID", "EQUALS")
			return
		}
		l.Alias, parts = parts[0], parts[1:]
	}
	if len(parts) == 0 || parts[0] == "" {
		p.syntax(tok, "#link: without a target", "ID")
		return
	}
	l.Target = parts[0]
	l.Citation = strings.Join(parts[1:], " = ")
	p.appendNode(tok, l)
}

func (p *Parser) parseInclude() {
	tok := p.next()
	parts := p.split()
	if len(parts) == 0 || parts[0] == "" {
		p.syntax(tok, "@include without a target", "ID")
		return
	}
	p.appendNode(tok, &model.Include{Link: model.Link{
		Kind:     model.LinkInclude,
		Target:   parts[0],
		Citation: strings.Join(parts[1:], " = "),
		Source:   tok.Pos.Line,
	}})
}

func (p *Parser) parseScoreSpec() {
	tok := p.next()
	t := p.currentText(tok)
	t.Score = &model.ScoreSpec{Args: p.values(lexer.ID)}
}

// ============================================================================
// Transliteration
// ============================================================================

// parseTransliteration parses "LABEL. words...".
func (p *Parser) parseTransliteration() {
	tok := p.next()
	l := &model.Line{Label: tok.Value, Words: p.values(lexer.ID), Source: tok.Pos.Line}
	p.appendNode(tok, l)
	p.line = l
	p.logical = l.Label
	p.lemmas = func(ls []model.Lemma) { l.Lemmas = ls }
}

// parseLemmas parses "#lem: a; b" and attaches it to the preceding line,
// rendering or witness. An empty entry between semicolons keeps its place
// as an empty Lemma; trailing empty entries are dropped.
func (p *Parser) parseLemmas() {
	tok := p.next()
	var raw []string
	open := true
	for {
		t, ok := p.match(lexer.ID, lexer.Semicolon)
		if !ok {
			break
		}
		if t.Type == lexer.ID {
			raw = append(raw, t.Value)
			open = false
			continue
		}
		if open {
			raw = append(raw, "")
		}
		open = true
	}
	for len(raw) > 0 && raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}
	if p.lemmas == nil {
		p.syntax(tok, "#lem: without a preceding line", "LINELABEL")
		return
	}
	p.lemmas(model.ParseLemmas(raw))
}

func (p *Parser) parseInterlinear() {
	tok := p.next()
	segs := p.segments()
	if p.line == nil || p.tr != nil {
		p.syntax(tok, "#tr: without a preceding line", "LINELABEL")
		return
	}
	p.line.Translations = append(p.line.Translations, model.Interlinear{Lang: tok.Value, Text: segs})
}

// parseParallel parses "|| WITNESS REF [- REF]".
func (p *Parser) parseParallel() {
	tok := p.next()
	words := p.values(lexer.ID)
	if len(words) == 0 {
		p.syntax(tok, "|| without a witness", "ID")
		return
	}
	ref := model.ParallelRef{Witness: words[0], From: words[1:]}
	if _, ok := p.match(lexer.Minus); ok {
		ref.To = p.values(lexer.ID)
	}
	if p.line == nil {
		p.syntax(tok, "|| without a preceding line", "LINELABEL")
		return
	}
	p.line.Parallels = append(p.line.Parallels, ref)
}

// parseRendering parses the "==" and "={" alternates of the last line.
func (p *Parser) parseRendering() {
	tok := p.next()
	r := model.Rendering{Marker: tok.Value}
	for _, w := range p.values(lexer.ID) {
		r.Words = append(r.Words, strings.Fields(w)...)
	}
	if p.line == nil {
		p.syntax(tok, tok.Value+" without a preceding line", "LINELABEL")
		return
	}
	l := p.line
	l.Renderings = append(l.Renderings, r)
	i := len(l.Renderings) - 1
	p.lemmas = func(ls []model.Lemma) { l.Renderings[i].Lemmas = ls }
}

// parseWitness parses a score witness line and files it under the score of
// the last logical line.
func (p *Parser) parseWitness() {
	tok := p.next()
	words := p.values(lexer.ID)
	p.currentText(tok)
	sc := p.scores[p.logical]
	if sc == nil {
		sc = &model.Score{Number: p.logical, Source: tok.Pos.Line}
		p.scores[p.logical] = sc
		p.appendNode(tok, sc)
	}
	id, _, _ := strings.Cut(tok.Value, "_")
	sc.Add(model.Witness{ID: id, Label: tok.Value, Words: words})
	i := len(sc.Witnesses) - 1
	p.lemmas = func(ls []model.Lemma) { sc.Witnesses[i].Lemmas = ls }
}

// ============================================================================
// Annotations
// ============================================================================

// segments consumes free text and ^N^ note markers.
func (p *Parser) segments() []model.Segment {
	var segs []model.Segment
	for {
		tok := p.peek()
		switch tok.Type {
		case lexer.ID:
			p.next()
			segs = append(segs, model.Segment{Text: tok.Value})
		case lexer.Hat:
			p.next()
			ref, ok := p.match(lexer.ID)
			if !ok {
				p.syntax(tok, "empty note marker", "ID")
				continue
			}
			if _, ok := p.match(lexer.Hat); !ok {
				p.syntax(ref, "unterminated note marker", "HAT")
			}
			segs = append(segs, model.Segment{Note: ref.Value})
		default:
			return segs
		}
	}
}

// parseNote parses "#note:" and "@note". In a labeled translation the note
// belongs to the open entry.
func (p *Parser) parseNote() {
	tok := p.next()
	n := &model.Note{Directive: tok.Value, Text: p.segments()}
	if p.tr != nil && p.entry != nil {
		p.entry.Notes = append(p.entry.Notes, n)
		return
	}
	p.appendNode(tok, n)
}

func (p *Parser) parseComment() {
	tok := p.next()
	c := &model.Comment{Check: tok.Type == lexer.Check}
	if id, ok := p.match(lexer.ID); ok {
		c.Text = id.Value
	}
	p.appendNode(tok, c)
}

func (p *Parser) parseHeading() {
	tok := p.next()
	h := &model.Heading{}
	h.Level, _ = strconv.Atoi(strings.TrimPrefix(tok.Value, "h"))
	if id, ok := p.match(lexer.ID); ok {
		h.Text = id.Value
	}
	p.breakEntry()
	p.appendNode(tok, h)
}

// parseMilestone parses "@m=locator" and the other content-less markers.
func (p *Parser) parseMilestone() {
	tok := p.next()
	m := &model.Milestone{Name: tok.Value}
	if tok.Type == lexer.M {
		p.match(lexer.Equals)
	}
	if id, ok := p.match(lexer.ID); ok {
		m.Value = id.Value
	}
	m.Value += p.flags()
	p.breakEntry()
	p.appendNode(tok, m)
}

// ============================================================================
// $-lines
// ============================================================================

func (p *Parser) parseDollar() {
	tok := p.next()
	d := &model.DollarLine{Kind: model.DollarLoose}
	switch next := p.peek(); next.Type {
	case lexer.Error:
		// reported by endLine
		return
	case lexer.ID, lexer.ParentheticalID:
		d.Text = p.next().Value
	case lexer.Newline, lexer.EOF:
	default:
		p.strictDollar(d)
	}
	p.breakEntry()
	p.appendNode(tok, d)
}

// strictDollar fills d from the keywords of a state or ruling line. The
// lexer only emits keyword tokens for lines that follow the grammar.
func (p *Parser) strictDollar(d *model.DollarLine) {
	var words []lexer.Token
	for t := p.peek(); t.Type != lexer.Newline && t.Type != lexer.EOF && t.Type != lexer.Error; t = p.peek() {
		words = append(words, p.next())
	}
	n := len(words)
	if n == 0 {
		return
	}
	if words[n-1].Type == lexer.Ruling {
		d.Kind = model.DollarRuling
		if n == 2 {
			d.Ruling = words[0].Value
		}
		return
	}

	d.Kind = model.DollarState
	i := 0
	switch words[0].Type {
	case lexer.At:
		if n > 2 {
			d.Qualification = words[0].Value + " " + words[1].Value
			i = 2
		}
	case lexer.About:
		d.Qualification = words[0].Value
		i = 1
	}
	if i < n-1 {
		switch words[i].Type {
		case lexer.Number, lexer.N, lexer.Several, lexer.Some:
			d.Extent = words[i].Value
			i++
		case lexer.Rest, lexer.Start, lexer.Beginning, lexer.Middle, lexer.End:
			if i+1 < n-1 {
				d.Extent = words[i].Value + " " + words[i+1].Value
				i += 2
			}
		}
	}
	if i < n-1 && (words[i].Type == lexer.Reference || words[i].Type == lexer.Scope) {
		d.Scope = words[i].Value
	}
	d.State = words[n-1].Value
}
