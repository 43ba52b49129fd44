package model

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Lemma is one entry of a "#lem:" line.
type Lemma struct {
	// Raw is the entry as written; it is what the serializer emits.
	Raw string `json:"raw"`

	// Plus marks a lemma new to the glossary ("+lalangu[...]").
	Plus bool `json:"plus,omitempty"`

	// Form is the citation form ("šatti"). Entries the grammar does not
	// accept keep Form equal to Raw.
	Form string `json:"form"`

	// Gloss is the guide word without brackets ("year").
	Gloss string `json:"gloss,omitempty"`

	// POS is the part of speech ("N", "DN", "AV").
	POS string `json:"pos,omitempty"`

	// Norm is the normalization after "$".
	Norm string `json:"norm,omitempty"`
}

// lemmaGrammar is the participle grammar for a single lemma.
// Examples: "n", "šatti[year]N", "mūša[at night]AV", "+lalangu[(a leguminous vegetable)]N$lallaga"
//
//nolint:govet // participle grammar tags are not standard struct tags
type lemmaGrammar struct {
	Plus  bool        `parser:"@\"+\"?"`
	Form  string      `parser:"@Word"`
	Sense *lemmaSense `parser:"@@?"`
	Norm  string      `parser:"@Norm?"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type lemmaSense struct {
	Gloss string `parser:"@Gloss"`
	POS   string `parser:"@Word?"`
}

// lemmaLexer defines the lexer for lemmas. Glosses may contain spaces and
// parentheses, so they are a single token.
var lemmaLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Plus", Pattern: `\+`},
	{Name: "Gloss", Pattern: `\[[^\]]*\]`},
	{Name: "Norm", Pattern: `\$[^\s\[\]$]+`},
	{Name: "Word", Pattern: `[^\s\[\]$+]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// lemmaParser is immutable and shared by all parses.
var lemmaParser = participle.MustBuild[lemmaGrammar](
	participle.Lexer(lemmaLexer),
	participle.Elide("Whitespace"),
)

// ParseLemma parses one "#lem:" entry. It never fails: an entry the grammar
// rejects is returned with Form set to the raw text.
func ParseLemma(raw string) Lemma {
	raw = strings.TrimSpace(raw)
	lem := Lemma{Raw: raw, Form: raw}
	g, err := lemmaParser.ParseString("", raw)
	if err != nil {
		return lem
	}
	lem.Plus = g.Plus
	lem.Form = g.Form
	if g.Sense != nil {
		lem.Gloss = strings.TrimSuffix(strings.TrimPrefix(g.Sense.Gloss, "["), "]")
		lem.POS = g.Sense.POS
	}
	lem.Norm = strings.TrimPrefix(g.Norm, "$")
	return lem
}

// String returns the lemma as it appears on a "#lem:" line.
func (l Lemma) String() string {
	if l.Raw != "" {
		return l.Raw
	}
	var b strings.Builder
	if l.Plus {
		b.WriteByte('+')
	}
	b.WriteString(l.Form)
	if l.Gloss != "" || l.POS != "" {
		b.WriteString("[" + l.Gloss + "]" + l.POS)
	}
	if l.Norm != "" {
		b.WriteString("$" + l.Norm)
	}
	return b.String()
}

// ParseLemmas parses the entries of a "#lem:" line.
func ParseLemmas(entries []string) []Lemma {
	out := make([]Lemma, 0, len(entries))
	for _, e := range entries {
		out = append(out, ParseLemma(e))
	}
	return out
}
