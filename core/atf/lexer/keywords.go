package lexer

import "strings"

// atKeywords maps the word after '@' to its structural token.
var atKeywords = map[string]TokenType{
	"tablet":      Tablet,
	"envelope":    Envelope,
	"prism":       Prism,
	"bulla":       Bulla,
	"fragment":    Fragment,
	"object":      Object,
	"obverse":     Obverse,
	"reverse":     Reverse,
	"left":        Left,
	"right":       Right,
	"top":         Top,
	"bottom":      Bottom,
	"edge":        Edge,
	"face":        Face,
	"surface":     Surface,
	"seal":        Seal,
	"column":      Column,
	"h1":          Heading,
	"h2":          Heading,
	"h3":          Heading,
	"catchline":   Milestone,
	"colophon":    Milestone,
	"date":        Milestone,
	"signature":   Milestone,
	"signatures":  Milestone,
	"summary":     Milestone,
	"witnesses":   Milestone,
	"m":           M,
	"div":         Div,
	"end":         End,
	"score":       Score,
	"include":     Include,
	"note":        Note,
	"translation": Translation,
	"label":       Label,
	"label+":      Label,
	"composite":   Composite,
}

// atUses maps the argument of '#atf: use' to its token.
var atfUses = map[string]TokenType{
	"unicode": Unicode,
	"math":    Math,
	"legacy":  Legacy,
	"mylines": Mylines,
	"lexical": Lexical,
}

// dollarWords is the vocabulary of strict $-lines.
var dollarWords = map[string]TokenType{
	"single":    Single,
	"double":    Double,
	"triple":    Triple,
	"ruling":    Ruling,
	"blank":     Blank,
	"broken":    Broken,
	"effaced":   Effaced,
	"illegible": Illegible,
	"missing":   Missing,
	"traces":    Traces,
	"omitted":   Omitted,
	"continues": Continues,
	"at":        At,
	"least":     Least,
	"most":      Most,
	"about":     About,
	"several":   Several,
	"some":      Some,
	"rest":      Rest,
	"of":        Of,
	"start":     Start,
	"beginning": Beginning,
	"middle":    Middle,
	"end":       End,
	"n":         N,
	"line":      Scope,
	"lines":     Scope,
	"column":    Scope,
	"columns":   Scope,
	"case":      Scope,
	"cases":     Scope,
	"side":      Scope,
	"sides":     Scope,
	"surface":   Scope,
	"obverse":   Reference,
	"reverse":   Reference,
	"left":      Reference,
	"right":     Reference,
	"top":       Reference,
	"bottom":    Reference,
	"edge":      Reference,
	"face":      Reference,
	"seal":      Reference,
	"object":    Reference,
	"tablet":    Reference,
	"envelope":  Reference,
}

// longSurfaces are surface names written out in full inside label references.
var longSurfaces = map[string]bool{
	"obverse": true,
	"reverse": true,
	"left":    true,
	"right":   true,
	"top":     true,
	"bottom":  true,
	"edge":    true,
}

// hashProtocols are the #-line prefixes that are not comments. Order matters
// only for prefixes that share a stem.
var hashProtocols = []struct {
	prefix string
	typ    TokenType
}{
	{"project:", Project},
	{"key:", Key},
	{"atf:", ATF},
	{"bib:", Bib},
	{"link:", Link},
	{"lem:", Lem},
	{"note:", Note},
	{"CHECK:", Check},
}

// strictDollar classifies the words of a $-line. It returns the token types
// when the words form a strict state or ruling description.
func strictDollar(words []string) ([]TokenType, bool) {
	if len(words) == 0 {
		return nil, false
	}
	types := make([]TokenType, len(words))
	for i, w := range words {
		if isDigits(w) {
			types[i] = Number
			continue
		}
		t, ok := dollarWords[strings.ToLower(w)]
		if !ok {
			return nil, false
		}
		types[i] = t
	}

	// rulings
	switch {
	case len(types) == 1 && types[0] == Ruling:
		return types, true
	case len(types) == 2 && types[1] == Ruling:
		switch types[0] {
		case Single, Double, Triple:
			return types, true
		}
		return nil, false
	}

	i := 0
	if i < len(types) && types[i] == At {
		if i+1 >= len(types) || (types[i+1] != Least && types[i+1] != Most) {
			return nil, false
		}
		i += 2
	} else if i < len(types) && types[i] == About {
		i++
	}
	if i < len(types) {
		switch types[i] {
		case Number, N, Several, Some:
			i++
		case Rest, Start, Beginning, Middle, End:
			if i+1 >= len(types) || types[i+1] != Of {
				return nil, false
			}
			i += 2
		}
	}
	if i < len(types) && (types[i] == Reference || types[i] == Scope) {
		i++
	}
	if i == len(types)-1 && types[i].IsState() {
		return types, true
	}
	return nil, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
