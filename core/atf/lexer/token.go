// Package lexer tokenizes ATF text using an explicit stack of lexical modes.
package lexer

import "fmt"

// TokenType represents the type of an ATF token.
type TokenType int

// Token type constants.
const (
	// Special tokens
	EOF TokenType = iota
	Error
	Newline

	// Values
	ID
	ParentheticalID
	LineLabel
	ScoreLabel
	Number

	// Punctuation
	Ampersand
	Equals
	Minus
	Semicolon
	Hat
	OpenR
	CloseR
	Exclaim
	Hash
	Query
	Star
	ParBar
	EqualBrace
	Multilingual
	Dollar

	// Protocols (#-lines)
	Project
	Key
	ATF
	Lang
	Use
	Unicode
	Math
	Legacy
	Mylines
	Lexical
	Bib
	Link
	Def
	Lem
	TR
	Comment
	Check

	// Structure (@-lines)
	Composite
	Tablet
	Envelope
	Prism
	Bulla
	Fragment
	Object
	Obverse
	Reverse
	Left
	Right
	Top
	Bottom
	Edge
	Face
	Surface
	Column
	Seal
	Heading
	Milestone
	M
	Div
	End
	Score
	Include
	Note
	Translation
	Parallel
	Labeled
	Label

	// Dollar-line keywords
	Reference
	Scope
	Single
	Double
	Triple
	Ruling
	Blank
	Broken
	Effaced
	Illegible
	Missing
	Traces
	Omitted
	Continues
	At
	Least
	Most
	About
	Several
	Some
	Rest
	Of
	Start
	Beginning
	Middle
	N
)

var tokenNames = map[TokenType]string{
	EOF:             "EOF",
	Error:           "ERROR",
	Newline:         "NEWLINE",
	ID:              "ID",
	ParentheticalID: "PARENTHETICALID",
	LineLabel:       "LINELABEL",
	ScoreLabel:      "SCORELABEL",
	Number:          "NUMBER",
	Ampersand:       "AMPERSAND",
	Equals:          "EQUALS",
	Minus:           "MINUS",
	Semicolon:       "SEMICOLON",
	Hat:             "HAT",
	OpenR:           "OPENR",
	CloseR:          "CLOSER",
	Exclaim:         "EXCLAIM",
	Hash:            "HASH",
	Query:           "QUERY",
	Star:            "STAR",
	ParBar:          "PARBAR",
	EqualBrace:      "EQUALBRACE",
	Multilingual:    "MULTILINGUAL",
	Dollar:          "DOLLAR",
	Project:         "PROJECT",
	Key:             "KEY",
	ATF:             "ATF",
	Lang:            "LANG",
	Use:             "USE",
	Unicode:         "UNICODE",
	Math:            "MATH",
	Legacy:          "LEGACY",
	Mylines:         "MYLINES",
	Lexical:         "LEXICAL",
	Bib:             "BIB",
	Link:            "LINK",
	Def:             "DEF",
	Lem:             "LEM",
	TR:              "TR",
	Comment:         "COMMENT",
	Check:           "CHECK",
	Composite:       "COMPOSITE",
	Tablet:          "TABLET",
	Envelope:        "ENVELOPE",
	Prism:           "PRISM",
	Bulla:           "BULLA",
	Fragment:        "FRAGMENT",
	Object:          "OBJECT",
	Obverse:         "OBVERSE",
	Reverse:         "REVERSE",
	Left:            "LEFT",
	Right:           "RIGHT",
	Top:             "TOP",
	Bottom:          "BOTTOM",
	Edge:            "EDGE",
	Face:            "FACE",
	Surface:         "SURFACE",
	Column:          "COLUMN",
	Seal:            "SEAL",
	Heading:         "HEADING",
	Milestone:       "MILESTONE",
	M:               "M",
	Div:             "DIV",
	End:             "END",
	Score:           "SCORE",
	Include:         "INCLUDE",
	Note:            "NOTE",
	Translation:     "TRANSLATION",
	Parallel:        "PARALLEL",
	Labeled:         "LABELED",
	Label:           "LABEL",
	Reference:       "REFERENCE",
	Scope:           "SCOPE",
	Single:          "SINGLE",
	Double:          "DOUBLE",
	Triple:          "TRIPLE",
	Ruling:          "RULING",
	Blank:           "BLANK",
	Broken:          "BROKEN",
	Effaced:         "EFFACED",
	Illegible:       "ILLEGIBLE",
	Missing:         "MISSING",
	Traces:          "TRACES",
	Omitted:         "OMITTED",
	Continues:       "CONTINUES",
	At:              "AT",
	Least:           "LEAST",
	Most:            "MOST",
	About:           "ABOUT",
	Several:         "SEVERAL",
	Some:            "SOME",
	Rest:            "REST",
	Of:              "OF",
	Start:           "START",
	Beginning:       "BEGINNING",
	Middle:          "MIDDLE",
	N:               "N",
}

// String returns the upper-case name of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsObject returns true for @-keywords that open a physical object.
func (t TokenType) IsObject() bool {
	switch t {
	case Tablet, Envelope, Prism, Bulla, Fragment, Object:
		return true
	}
	return false
}

// IsSurface returns true for @-keywords that open a surface of an object.
func (t TokenType) IsSurface() bool {
	switch t {
	case Obverse, Reverse, Left, Right, Top, Bottom, Edge, Face, Surface, Seal:
		return true
	}
	return false
}

// IsFlag returns true for the trailing damage / certainty flags.
func (t TokenType) IsFlag() bool {
	switch t {
	case Exclaim, Hash, Query, Star:
		return true
	}
	return false
}

// IsState returns true for the state words of a strict $-line.
func (t TokenType) IsState() bool {
	return t >= Blank && t <= Continues
}

// Position locates a token in the source.
type Position struct {
	Offset int // byte offset, 0-based
	Line   int // 1-based
	Column int // 1-based, in runes
}

// String formats the position as line:column.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is one (type, value, position) triple of the token stream.
type Token struct {
	Type  TokenType
	Value string
	Pos   Position
}

// String returns a debugging representation of the token.
func (t Token) String() string {
	if t.Value == "" {
		return t.Type.String()
	}
	return fmt.Sprintf("%s(%q)", t.Type, t.Value)
}
