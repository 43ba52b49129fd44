package lexer

import (
	"testing"
)

// lexTypes returns the token types of src without the trailing EOF.
func lexTypes(src string) []TokenType {
	toks := Tokenize(src)
	out := make([]TokenType, 0, len(toks))
	for _, tok := range toks[:len(toks)-1] {
		out = append(out, tok.Type)
	}
	return out
}

func lexValues(src string) []string {
	toks := Tokenize(src)
	out := make([]string, 0, len(toks))
	for _, tok := range toks[:len(toks)-1] {
		out = append(out, tok.Value)
	}
	return out
}

func compareTypes(t *testing.T, input string, got, want []TokenType) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("token count mismatch for %q: got %v, want %v", input, got, want)
		return
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("token %d mismatch for %q: got %s, want %s", i, input, got[i], want[i])
		}
	}
}

func TestLexerTokenSequences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
	}{
		{"code", "&X001001 = JCS 48, 089\n",
			[]TokenType{Ampersand, ID, Equals, ID, Newline}},
		{"project", "#project: cams/gkab\n",
			[]TokenType{Project, ID, Newline}},
		{"key", "#key: cdli=ND 02688\n",
			[]TokenType{Key, ID, Equals, ID, Newline}},
		{"language", "#atf: lang akk-x-stdbab\n",
			[]TokenType{ATF, Lang, ID, Newline}},
		{"use unicode", "#atf: use unicode\n",
			[]TokenType{ATF, Use, Unicode, Newline}},
		{"use math", "#atf: use math\n",
			[]TokenType{ATF, Use, Math, Newline}},
		{"use legacy", "#atf: use legacy\n",
			[]TokenType{ATF, Use, Legacy, Newline}},
		{"bib", "#bib:  MEE 15 54\n",
			[]TokenType{Bib, ID, Newline}},
		{"link def", "#link: def A = P363716 = TCL 06, 44\n@tablet\n",
			[]TokenType{Link, Def, ID, Equals, ID, Equals, ID, Newline, Tablet, Newline}},
		{"link parallel", "#link: parallel dcclt:P336181 = M.106\n@tablet\n",
			[]TokenType{Link, Parallel, ID, Equals, ID, Newline, Tablet, Newline}},
		{"link reference", "|| A o ii 10\n",
			[]TokenType{ParBar, ID, ID, ID, ID, Newline}},
		{"link range", "|| A o ii 10 -  o ii 12 \n",
			[]TokenType{ParBar, ID, ID, ID, ID, Minus, ID, ID, ID, Newline}},
		{"score", "@score matrix parsed word\n",
			[]TokenType{Score, ID, ID, ID, Newline}},
		{"tablet", "@tablet\n",
			[]TokenType{Tablet, Newline}},
		{"line", "1.    [MU] 1.03-KAM {iti}AB GE₆ U₄ 2-KAM",
			[]TokenType{LineLabel, ID, ID, ID, ID, ID, ID}},
		{"dotted label", "1.1.    [MU]\n",
			[]TokenType{LineLabel, ID, Newline}},
		{"lemma", "#lem: šatti[year]N; n; Ṭebetu[1]MN; mūša[at night]AV; ūm[day]N; n",
			[]TokenType{Lem, ID, Semicolon, ID, Semicolon, ID, Semicolon, ID, Semicolon, ID, Semicolon, ID}},
		{"loose dollar", "$ (a loose dollar line)",
			[]TokenType{Dollar, ParentheticalID}},
		{"loose nested dollar", "$ (a (very) loose dollar line)",
			[]TokenType{Dollar, ParentheticalID}},
		{"loose end nested dollar", "$ (a loose dollar line (wow))",
			[]TokenType{Dollar, ParentheticalID}},
		{"strict dollar", "$ reverse blank",
			[]TokenType{Dollar, Reference, Blank}},
		{"ruling", "$ single ruling",
			[]TokenType{Dollar, Single, Ruling}},
		{"qualified state", "$ at least 3 lines missing\n",
			[]TokenType{Dollar, At, Least, Number, Scope, Missing, Newline}},
		{"rest of", "$ rest of obverse broken\n",
			[]TokenType{Dollar, Rest, Of, Reference, Broken, Newline}},
		{"free dollar", "$ the rest is lost\n",
			[]TokenType{Dollar, ID, Newline}},
		{"translation intro", "@translation parallel en project",
			[]TokenType{Translation, Parallel, ID, Project}},
		{"translation text",
			"@translation parallel en project\n1.    Year 63, Ṭebetu (Month X), night of day 2:^1^",
			[]TokenType{Translation, Parallel, ID, Project, Newline, LineLabel, ID, Hat, ID, Hat}},
		{"labeled text",
			"@translation labeled en project\n@label o 4\nThen it will be taken for the rites and rituals.\n\n",
			[]TokenType{Translation, Labeled, ID, Project, Newline, Label, ID, ID, Newline, ID, Newline}},
		{"labeled range",
			"@translation labeled en project\n@label o 14-15 - o 20\nAn eclipse of the moon\n\n",
			[]TokenType{Translation, Labeled, ID, Project, Newline, Label, ID, ID, Minus, ID, ID, Newline, ID, Newline}},
		{"inline label",
			"@translation labeled en project\n@(o 20) You strew all (kinds of) seed.\n@(o i 2) No-one will occupy the throne.\n\n",
			[]TokenType{Translation, Labeled, ID, Project, Newline,
				OpenR, ID, ID, CloseR, ID, Newline,
				OpenR, ID, ID, ID, CloseR, ID, Newline}},
		{"label plus",
			"@translation labeled en project\n@label+ o 28\nTheir bodies will be hung.\n\n",
			[]TokenType{Translation, Labeled, ID, Project, Newline, Label, ID, ID, Newline, ID, Newline}},
		{"label long surface",
			"@translation labeled en project\n@label obverse 28\nTheir bodies will be hung.\n\n",
			[]TokenType{Translation, Labeled, ID, Project, Newline, Label, Reference, ID, Newline, ID, Newline}},
		{"blank line after label",
			"@translation labeled en project\n@label o 16\n\n@šipir @ṭuhdu @DU means: to the flood.\n",
			[]TokenType{Translation, Labeled, ID, Project, Newline, Label, ID, ID, Newline, ID, Newline}},
		{"ats in translation",
			"@translation labeled en project\n@label o 16\n@kupputu (means): affliction (@? and) reduction?@.\n\n",
			[]TokenType{Translation, Labeled, ID, Project, Newline, Label, ID, ID, Newline, ID, Newline}},
		{"blank lines amid entry",
			"@translation labeled en project\n@(4) their [cri]mes all [the\n\n    libe]ls that he has\n\n    heard, [I am not guilty] of them\n",
			[]TokenType{Translation, Labeled, ID, Project, Newline,
				OpenR, ID, CloseR, ID, Newline, ID, Newline, ID, Newline}},
		{"noted labeled text",
			"@translation labeled en project\n@label r 8\nThe priest says the gods have performed these actions. ^1^\n\n@note ^1^ Parenthesised text follows Neo-Assyrian source\n",
			[]TokenType{Translation, Labeled, ID, Project, Newline, Label, ID, ID, Newline,
				ID, Hat, ID, Hat, Newline, Note, Hat, ID, Hat, ID, Newline}},
		{"strict in parallel", "@translation parallel en project\n$ reverse blank",
			[]TokenType{Translation, Parallel, ID, Project, Newline, Dollar, ID}},
		{"loose in labeled",
			"@translation labeled en project\n$ (Break)\n@(r 2) I am\n\n",
			[]TokenType{Translation, Labeled, ID, Project, Newline, Dollar, ID, Newline,
				OpenR, ID, ID, CloseR, ID, Newline}},
		{"punctuated translation",
			"@translation parallel en project\n1. 'What is going on?', said the King!\n",
			[]TokenType{Translation, Parallel, ID, Project, Newline, LineLabel, ID, Newline}},
		{"translation heading", "@translation parallel en project\n@h1 A translation heading\n",
			[]TokenType{Translation, Parallel, ID, Project, Newline, Heading, ID, Newline}},
		{"translation note",
			"@translation parallel en project\n@reverse\n#note: reverse uninscribed\n",
			[]TokenType{Translation, Parallel, ID, Project, Newline, Reverse, Newline, Note, ID, Newline}},
		{"note ended by structure",
			"#note: The CAD translation šarriru = \"humble\",\n@reverse",
			[]TokenType{Note, ID, Newline, Reverse}},
		{"at note", "@note Hello James's World",
			[]TokenType{Note, ID}},
		{"interlinear translation", "1'. ⸢x⸣\n#tr: English\n",
			[]TokenType{LineLabel, ID, Newline, TR, ID, Newline}},
		{"multilingual",
			"1. dim₃#-me-er# [...]\n== %sb DINGIR-MEŠ GAL-MEŠ\n#lem: ilū[god]N; rabûtu[great]AJ\n",
			[]TokenType{LineLabel, ID, ID, Newline, Multilingual, ID, ID, ID, Newline,
				Lem, ID, Semicolon, ID, Newline}},
		{"equalbrace", "={    ur-hu\n",
			[]TokenType{EqualBrace, ID, Newline}},
		{"milestone", "@m=locator catchline\n16'. si-i-ia-a-a-ku\n",
			[]TokenType{M, Equals, ID, Newline, LineLabel, ID, Newline}},
		{"include", "@include dcclt:P229061 = MSL 07, 197 V02, 210 V11\n",
			[]TokenType{Include, ID, Equals, ID, Newline}},
		{"flagged object", "@object which is remarkable and broken!#\n",
			[]TokenType{Object, ID, Exclaim, Hash, Newline}},
		{"described object", "@object An object that fits no other category\n",
			[]TokenType{Object, ID, Newline}},
		{"nested object", "@tablet\n@obverse\n",
			[]TokenType{Tablet, Newline, Obverse, Newline}},
		{"column", "@column 2\n",
			[]TokenType{Column, ID, Newline}},
		{"comment", "# I've added various things for test purposes\n",
			[]TokenType{Comment, ID, Newline}},
		{"nospace comment", "#I've added various things for test purposes\n",
			[]TokenType{Comment, ID, Newline}},
		{"double comment", "## papān libbi[belly] (already in lemmatised corpus)\n",
			[]TokenType{Comment, ID, Newline}},
		{"check", "#CHECK: The translation is different\n",
			[]TokenType{Check, ID, Newline}},
		{"dotline", ". \n",
			[]TokenType{Newline}},
		{"heading", "@h1 A heading\n",
			[]TokenType{Heading, ID, Newline}},
		{"composite", "&Q002769 = SB Anzu 1\n@composite\n#project: cams\n",
			[]TokenType{Ampersand, ID, Equals, ID, Newline, Composite, Newline, Project, ID, Newline}},
		{"score lines",
			"1.4′. %n ḫašḫūr [api] lal[laga imḫur-līm?]\n#lem: ḫašḫūr[apple (tree)]N; api[reed-bed]N\n\nA₁_obv_i_4′: [x x x x x] {ú}la-al-[la-ga? {ú}im-ḫu-ur-lim?]\n",
			[]TokenType{LineLabel, ID, ID, ID, ID, ID, Newline,
				Lem, ID, Semicolon, ID, Newline,
				ScoreLabel, ID, ID, ID, ID, ID, ID, ID, Newline}},
		{"score line dash", "e_obv_15′–16′: {giš}ḪAŠḪUR [GIŠ.GI] — // [{ú}IGI-lim]\n",
			[]TokenType{ScoreLabel, ID, ID, ID, ID, ID, Newline}},
		{"hash note line", "3.    U₄!-BI? 20* [(ina)] 9.30 ina(DIŠ) MAŠ₂!(BAR)",
			[]TokenType{LineLabel, ID, ID, ID, ID, ID, ID}},
		{"unknown keyword", "@wobble\n1. a\n",
			[]TokenType{Error, Newline, LineLabel, ID, Newline}},
		{"unbalanced dollar", "$ (broken\n",
			[]TokenType{Dollar, Error, Newline}},
		{"unrecognized line", "not atf at all\n",
			[]TokenType{Error, Newline}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compareTypes(t, tt.input, lexTypes(tt.input), tt.expected)
		})
	}
}

func TestLexerCodeValues(t *testing.T) {
	got := lexValues("&X001001 = JCS 48, 089\n")
	want := []string{"&", "X001001", "=", "JCS 48, 089", "\n"}
	if len(got) != len(want) {
		t.Fatalf("values = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLexerNewlineRuns(t *testing.T) {
	toks := Tokenize("@tablet\n\n\n@obverse")
	if len(toks) != 4 {
		t.Fatalf("got %v, want TABLET NEWLINE OBVERSE EOF", toks)
	}
	if toks[1].Type != Newline || toks[1].Value != "\n\n\n" {
		t.Errorf("newline run = %v, want NEWLINE(\"\\n\\n\\n\")", toks[1])
	}
}

func TestLexerNoTrailingNewline(t *testing.T) {
	got := lexTypes("@obverse")
	compareTypes(t, "@obverse", got, []TokenType{Obverse})
}

func TestLexerCRLF(t *testing.T) {
	input := "&X001001 = JCS 48, 089\r\n#project: cams/gkab\n\r"
	compareTypes(t, input, lexTypes(input),
		[]TokenType{Ampersand, ID, Equals, ID, Newline, Project, ID, Newline})
	vals := lexValues(input)
	if vals[3] != "JCS 48, 089" {
		t.Errorf("description = %q, want %q", vals[3], "JCS 48, 089")
	}
}

func TestLexerPrimes(t *testing.T) {
	tests := []struct {
		input string
		index int
		want  string
	}{
		// TRANSLATION LABELED ID PROJECT NEWLINE LABEL ID ID
		{"@translation labeled en project\n@label r 1’\nText\n\n", 7, "1'"},
		{"@translation labeled en project\n@label r 1´\nText\n\n", 7, "1'"},
		{"@translation labeled en project\n@label r 1′\nText\n\n", 7, "1'"},
		{"@translation labeled en project\n@label t.e. 1\nText\n\n", 6, "t.e."},
	}
	for _, tt := range tests {
		vals := lexValues(tt.input)
		if len(vals) <= tt.index {
			t.Fatalf("too few tokens for %q: %q", tt.input, vals)
		}
		if got := vals[tt.index]; got != tt.want {
			t.Errorf("label word = %q, want %q", got, tt.want)
		}
	}

	toks := Tokenize("1’. a-na\n")
	if toks[0].Type != LineLabel || toks[0].Value != "1'" {
		t.Errorf("line label = %v, want LINELABEL(\"1'\")", toks[0])
	}
	toks = Tokenize("A₁_obv_i_4′: x\n")
	if toks[0].Type != ScoreLabel || toks[0].Value != "A₁_obv_i_4'" {
		t.Errorf("score label = %v, want SCORELABEL(\"A₁_obv_i_4'\")", toks[0])
	}
}

func TestNormalizePrimes(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1’", "1'"},
		{"1´", "1'"},
		{"4′", "4'"},
		{"1’’", "1''"},
		{"A₁’", "A₁'"},
		{"’s", "’s"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := NormalizePrimes(tt.in); got != tt.want {
			t.Errorf("NormalizePrimes(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLexerTranslationValues(t *testing.T) {
	vals := lexValues("@translation parallel en project\n1.    Year 63, Ṭebetu (Month X), night of day 2:^1^")
	want := []string{"translation", "parallel", "en", "project", "\n", "1",
		"Year 63, Ṭebetu (Month X), night of day 2:", "^", "1", "^"}
	if len(vals) != len(want) {
		t.Fatalf("values = %q, want %q", vals, want)
	}
	for i := range want {
		if vals[i] != want[i] {
			t.Errorf("value %d = %q, want %q", i, vals[i], want[i])
		}
	}
}

func TestLexerMultilineTranslation(t *testing.T) {
	input := "@translation parallel en project\n1.    Year 63, Ṭebetu (Month X)\n , night of day 2\n"
	compareTypes(t, input, lexTypes(input),
		[]TokenType{Translation, Parallel, ID, Project, Newline, LineLabel, ID, Newline})
	vals := lexValues(input)
	if want := "Year 63, Ṭebetu (Month X) , night of day 2"; vals[6] != want {
		t.Errorf("joined text = %q, want %q", vals[6], want)
	}
}

func TestLexerMultilineTR(t *testing.T) {
	input := "1. a\n#tr: English\n on multiple lines\n"
	compareTypes(t, input, lexTypes(input),
		[]TokenType{LineLabel, ID, Newline, TR, ID, Newline})
}

func TestLexerContinuedTransliteration(t *testing.T) {
	input := "1. a-na\n   {d}UTU\n2. x\n"
	compareTypes(t, input, lexTypes(input),
		[]TokenType{LineLabel, ID, ID, Newline, LineLabel, ID, Newline})
}

func TestLexerCompositeReset(t *testing.T) {
	l := New("&Q1 = A\n@composite\n@translation parallel en project\n1. x\n&X2 = B\n")
	for {
		tok := l.Next()
		if tok.Type == EOF {
			break
		}
		if tok.Type == Ampersand && tok.Pos.Line == 5 {
			// the second & resets the stack before emitting
			if got := l.Modes(); len(got) != 1 || got[0] != ModeDefault {
				t.Errorf("modes after & = %v, want [default]", got)
			}
		}
	}
}

func TestLexerPositions(t *testing.T) {
	toks := Tokenize("@tablet\n1. a-na x\n")
	// TABLET NEWLINE LINELABEL ID ID NEWLINE EOF
	if toks[2].Pos != (Position{Offset: 8, Line: 2, Column: 1}) {
		t.Errorf("label pos = %+v", toks[2].Pos)
	}
	if toks[3].Pos != (Position{Offset: 11, Line: 2, Column: 4}) {
		t.Errorf("word pos = %+v", toks[3].Pos)
	}
}

func TestStreamMarkReset(t *testing.T) {
	s := NewStream("@tablet\n@obverse\n")
	mark := s.Mark()
	if tok := s.Next(); tok.Type != Tablet {
		t.Fatalf("Next() = %v, want TABLET", tok)
	}
	s.Next()
	if tok := s.Peek(); tok.Type != Obverse {
		t.Fatalf("Peek() = %v, want OBVERSE", tok)
	}
	s.Reset(mark)
	if tok := s.Next(); tok.Type != Tablet {
		t.Errorf("after Reset, Next() = %v, want TABLET", tok)
	}
	for i := 0; i < 10; i++ {
		s.Next()
	}
	if tok := s.Next(); tok.Type != EOF {
		t.Errorf("Next() past end = %v, want EOF", tok)
	}
}
