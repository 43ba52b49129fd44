package lexer

import (
	"testing"
	"unicode/utf8"
)

// FuzzLexer checks that the lexer terminates and never panics.
func FuzzLexer(f *testing.F) {
	f.Add("&X001001 = JCS 48, 089\n#project: cams/gkab\n#atf: lang akk-x-stdbab\n")
	f.Add("@tablet\n@obverse\n1. a-na {d}UTU\n#lem: ana[to]PRP; Šamaš[1]DN\n$ reverse blank\n")
	f.Add("@translation labeled en project\n@label o 14-15 - o 20\nText ^1^\n\n@note ^1^ note\n")
	f.Add("@translation parallel en project\n1.    Year 63\n , night of day 2\n")
	f.Add("1.4′. %n ḫašḫūr\nA₁_obv_i_4′: x x\n|| A o ii 10 - o ii 12\n")
	f.Add("$ (a (very) loose\n@(o 1\n@wobble\n\r\n\n")

	f.Fuzz(func(t *testing.T, src string) {
		if !utf8.ValidString(src) {
			return
		}
		toks := Tokenize(src)
		if len(toks) == 0 || toks[len(toks)-1].Type != EOF {
			t.Fatalf("token stream does not end with EOF")
		}
		for i, tok := range toks[:len(toks)-1] {
			if tok.Type == EOF {
				t.Fatalf("EOF at index %d before end of stream", i)
			}
			if tok.Pos.Offset < 0 || tok.Pos.Offset > len(src) {
				t.Fatalf("token %v has offset %d outside input", tok, tok.Pos.Offset)
			}
		}
	})
}
