package parser

import (
	"github.com/FocuswithJustin/atfkit/core/atf/lexer"
	"github.com/FocuswithJustin/atfkit/core/atf/model"
)

// ============================================================================
// Translations
// ============================================================================

// parseTranslation parses "@translation KIND LANG project [extra...]". The
// translation closes any open division and lives at Text level.
func (p *Parser) parseTranslation() {
	tok := p.next()
	t := p.currentText(tok)
	tr := &model.Translation{Kind: model.TranslationParallel}
	switch kind := p.peek(); kind.Type {
	case lexer.Parallel:
		p.next()
	case lexer.Labeled:
		p.next()
		tr.Kind = model.TranslationLabeled
	case lexer.ID:
		p.next()
		p.warn(kind, "unknown translation kind "+describe(kind)+", using parallel")
	default:
		p.syntax(tok, "missing translation kind", "parallel", "labeled")
	}
	if lang, ok := p.match(lexer.ID); ok {
		tr.Lang = lang.Value
	}
	if proj, ok := p.match(lexer.Project, lexer.ID); ok {
		tr.Project = proj.Value
	}
	tr.Extra = p.values(lexer.ID)

	t.Children = append(t.Children, tr)
	p.scopes = nil
	p.line = nil
	p.lemmas = nil
	p.closeTranslation()
	p.tr = tr
}

// parseLabel parses "@label[+] REF [- REF]" and opens an entry.
func (p *Parser) parseLabel() {
	tok := p.next()
	ref := model.LabelRef{Plus: tok.Value == "label+"}
	from := p.values(lexer.ID, lexer.Reference)
	if len(from) == 0 {
		p.syntax(tok, "@label without a reference", "ID")
		return
	}
	ref.From = model.Label{Parts: from}
	if minus, ok := p.match(lexer.Minus); ok {
		to := p.values(lexer.ID, lexer.Reference)
		if len(to) == 0 {
			p.syntax(minus, "missing range end", "ID")
		} else {
			ref.To = &model.Label{Parts: to}
		}
	}
	p.openEntry(tok, &model.Entry{Ref: ref, Source: tok.Pos.Line})
}

// parseInlineLabel parses "@(REF) text".
func (p *Parser) parseInlineLabel() {
	tok := p.next()
	ref := model.LabelRef{Inline: true}
	ref.From = model.Label{Parts: p.values(lexer.ID, lexer.Reference)}
	if minus, ok := p.match(lexer.Minus); ok {
		if to := p.values(lexer.ID, lexer.Reference); len(to) > 0 {
			ref.To = &model.Label{Parts: to}
		} else {
			p.syntax(minus, "missing range end", "ID")
		}
	}
	if _, ok := p.match(lexer.CloseR); !ok {
		p.syntax(p.peek(), "unterminated inline label", "CLOSER")
		return
	}
	if len(ref.From.Parts) == 0 {
		p.syntax(tok, "empty inline label", "ID")
		return
	}
	e := &model.Entry{Ref: ref, Source: tok.Pos.Line}
	p.openEntry(tok, e)
	if segs := p.segments(); len(segs) > 0 {
		p.para = &model.Paragraph{Lines: [][]model.Segment{segs}}
		e.Paragraphs = append(e.Paragraphs, p.para)
	}
}

func (p *Parser) openEntry(tok lexer.Token, e *model.Entry) {
	if p.tr == nil {
		p.syntax(tok, "translation label outside a translation", "@translation")
		return
	}
	if p.tr.Kind != model.TranslationLabeled {
		p.warn(tok, "label in a parallel translation")
	}
	p.tr.Children = append(p.tr.Children, e)
	p.entry = e
	p.para = nil
}

// breakEntry ends the open entry and paragraph.
func (p *Parser) breakEntry() {
	p.entry = nil
	p.para = nil
}

// parseProse parses an unlabeled line of translation text. It continues
// the open paragraph, starts a new paragraph of the open entry, or starts
// a standalone paragraph.
func (p *Parser) parseProse() {
	tok := p.peek()
	segs := p.segments()
	if p.tr == nil {
		p.syntax(tok, "text outside a translation", "LINELABEL")
		return
	}
	switch {
	case p.para != nil:
		p.para.Lines = append(p.para.Lines, segs)
	case p.entry != nil:
		p.para = &model.Paragraph{Lines: [][]model.Segment{segs}}
		p.entry.Paragraphs = append(p.entry.Paragraphs, p.para)
	default:
		p.para = &model.Paragraph{Lines: [][]model.Segment{segs}}
		p.tr.Children = append(p.tr.Children, p.para)
	}
}

// parseLabeledProse parses "LABEL. text" in a parallel translation, which
// always starts a new paragraph.
func (p *Parser) parseLabeledProse() {
	tok := p.next()
	para := &model.Paragraph{Label: tok.Value}
	if segs := p.segments(); len(segs) > 0 {
		para.Lines = append(para.Lines, segs)
	}
	p.entry = nil
	p.para = para
	p.tr.Children = append(p.tr.Children, para)
}
