package model

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// LinkTarget is a parsed link target: an optional project path and a
// catalogue code.
type LinkTarget struct {
	// Project is the project path ("dcclt", "cams/gkab"), possibly empty.
	Project string `json:"project,omitempty"`

	// Code is the catalogue id ("P336181").
	Code string `json:"code"`
}

// String formats the target as "project:CODE" or "CODE".
func (t LinkTarget) String() string {
	if t.Project == "" {
		return t.Code
	}
	return t.Project + ":" + t.Code
}

// targetGrammar is the participle grammar for link targets.
// Examples: "P363716", "dcclt:P336181", "cams/gkab:P338326"
//
//nolint:govet // participle grammar tags are not standard struct tags
type targetGrammar struct {
	Project *targetProject `parser:"( @@ \":\" )?"`
	Code    string         `parser:"@Ident"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type targetProject struct {
	Name string   `parser:"@Ident"`
	Sub  []string `parser:"( \"/\" @Ident )*"`
}

var targetLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[A-Za-z0-9_.\-]+`},
	{Name: "Punct", Pattern: `[:/]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var targetParser = participle.MustBuild[targetGrammar](
	participle.Lexer(targetLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(4),
)

// ParseLinkTarget parses "[project[/sub]:]CODE".
func ParseLinkTarget(s string) (LinkTarget, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return LinkTarget{}, fmt.Errorf("empty link target")
	}
	g, err := targetParser.ParseString("", s)
	if err != nil {
		return LinkTarget{}, fmt.Errorf("invalid link target %q: %w", s, err)
	}
	t := LinkTarget{Code: g.Code}
	if g.Project != nil {
		t.Project = strings.Join(append([]string{g.Project.Name}, g.Project.Sub...), "/")
	}
	return t, nil
}

// ParsedTarget parses the link's target.
func (l *Link) ParsedTarget() (LinkTarget, error) {
	return ParseLinkTarget(l.Target)
}
