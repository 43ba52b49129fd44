package lexer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	lineLabelRe  = regexp.MustCompile(`^([0-9]+[a-zA-Z]?[’´′']*(?:[.\-–][0-9]+[a-zA-Z]?[’´′']*)*)\.(?:\s|$)`)
	scoreLabelRe = regexp.MustCompile(`^(\pL[^\s:]*):(?:\s|$)`)
	trRe         = regexp.MustCompile(`^tr(?:\.([A-Za-z0-9-]+))?:`)
)

// rawLine is one physical line of input without its terminator.
type rawLine struct {
	text string
	off  int  // byte offset of text[0]
	no   int  // 1-based line number
	col0 int  // runes preceding text[0] on the physical line
	nl   bool // terminated by '\n'
}

// pos returns the position of byte i of the line.
func (r rawLine) pos(i int) Position {
	if i > len(r.text) {
		i = len(r.text)
	}
	return Position{
		Offset: r.off + i,
		Line:   r.no,
		Column: r.col0 + utf8.RuneCountInString(r.text[:i]) + 1,
	}
}

// shift drops the first i bytes of the line, keeping positions.
func (r rawLine) shift(i int) rawLine {
	return rawLine{
		text: r.text[i:],
		off:  r.off + i,
		no:   r.no,
		col0: r.col0 + utf8.RuneCountInString(r.text[:i]),
		nl:   r.nl,
	}
}

// Lexer tokenizes ATF input one logical line at a time.
type Lexer struct {
	src    string
	off    int     // offset of the next unread physical line
	lineNo int     // number of the next unread physical line
	last   rawLine // last physical line consumed
	modes  *ModeStack
	queue  []Token
	done   bool

	// entryHasText is set once the open labeled entry received text.
	entryHasText bool
}

// New creates a Lexer for the given decoded ATF source.
func New(src string) *Lexer {
	return &Lexer{
		src:    src,
		lineNo: 1,
		modes:  NewModeStack(),
	}
}

// Tokenize lexes src completely. The returned slice ends with EOF.
func Tokenize(src string) []Token {
	l := New(src)
	var toks []Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}

// Next returns the next token. After the input is exhausted it keeps
// returning EOF.
func (l *Lexer) Next() Token {
	for len(l.queue) == 0 {
		l.fill()
	}
	tok := l.queue[0]
	l.queue = l.queue[1:]
	return tok
}

// Modes returns a copy of the current mode stack, bottom first.
func (l *Lexer) Modes() []Mode {
	return l.modes.Snapshot()
}

// fill lexes the next logical line into the queue.
func (l *Lexer) fill() {
	if l.done {
		l.emit(EOF, "", l.endPos())
		return
	}
	ln, ok := l.readLine()
	if !ok {
		l.modes.PopLineScoped()
		l.done = true
		l.emit(EOF, "", l.endPos())
		return
	}
	if isBlank(ln.text) {
		// leading blank lines carry no NEWLINE of their own
		return
	}
	l.lexLine(ln)
	l.endLine()
}

func (l *Lexer) peekLine() (rawLine, bool) {
	if l.off >= len(l.src) {
		return rawLine{}, false
	}
	rest := l.src[l.off:]
	ln := rawLine{off: l.off, no: l.lineNo}
	if end := strings.IndexByte(rest, '\n'); end >= 0 {
		ln.text = rest[:end]
		ln.nl = true
	} else {
		ln.text = rest
	}
	ln.text = strings.TrimRight(ln.text, "\r")
	// a "\n\r" pair leaves a carriage return at the start of the next line
	n := 0
	for n < len(ln.text) && ln.text[n] == '\r' {
		n++
	}
	if n > 0 {
		ln = ln.shift(n)
	}
	return ln, true
}

func (l *Lexer) readLine() (rawLine, bool) {
	ln, ok := l.peekLine()
	if !ok {
		return ln, false
	}
	if end := strings.IndexByte(l.src[l.off:], '\n'); end >= 0 {
		l.off += end + 1
	} else {
		l.off = len(l.src)
	}
	l.lineNo++
	l.last = ln
	return ln, true
}

func (l *Lexer) endPos() Position {
	if l.last.no == 0 || l.last.nl {
		return Position{Offset: len(l.src), Line: l.lineNo, Column: 1}
	}
	return l.last.pos(len(l.last.text))
}

// endLine emits the NEWLINE closing a logical line, absorbing any blank
// lines after it, and applies the line-boundary mode transitions.
func (l *Lexer) endLine() {
	last := l.last
	if !last.nl {
		l.modes.PopLineScoped()
		return
	}
	start := last.pos(len(last.text))
	run := "\n"
	blank := false
	for {
		ln, ok := l.peekLine()
		if !ok || !isBlank(ln.text) {
			break
		}
		l.readLine()
		blank = true
		run += "\n"
	}
	l.emit(Newline, run, start)
	l.modes.PopLineScoped()
	if blank && l.modes.Top() == ModeLabelLine && l.entryHasText {
		l.leaveEntry()
	}
}

// continuation consumes the indented lines directly following the current
// logical line.
func (l *Lexer) continuation() []rawLine {
	var out []rawLine
	for l.last.nl {
		ln, ok := l.peekLine()
		if !ok || isBlank(ln.text) || indent(ln.text) == 0 {
			break
		}
		l.readLine()
		out = append(out, ln.shift(indent(ln.text)))
	}
	return out
}

func (l *Lexer) emit(t TokenType, v string, p Position) {
	l.queue = append(l.queue, Token{Type: t, Value: v, Pos: p})
}

func (l *Lexer) errorf(ln rawLine, i int, format string, args ...any) {
	l.emit(Error, fmt.Sprintf(format, args...), ln.pos(i))
}

// emitTrimmed emits ln.text[a:b] without surrounding space, if non-empty.
func (l *Lexer) emitTrimmed(t TokenType, ln rawLine, a, b int) bool {
	s := ln.text[a:b]
	lead := len(s) - len(strings.TrimLeftFunc(s, unicode.IsSpace))
	v := strings.TrimSpace(s)
	if v == "" {
		return false
	}
	l.emit(t, v, ln.pos(a+lead))
	return true
}

// emitWords emits one ID per whitespace separated word of ln.text[from:].
func (l *Lexer) emitWords(ln rawLine, from int) {
	for _, f := range fields(ln.text, from, len(ln.text)) {
		l.emit(ID, ln.text[f.start:f.end], ln.pos(f.start))
	}
}

// emitLineWords emits the words of a transliteration line and of its
// continuation lines.
func (l *Lexer) emitLineWords(ln rawLine, from int) {
	l.emitWords(ln, from)
	for _, c := range l.continuation() {
		l.emitWords(c, 0)
	}
}

// joined returns ln.text[from:] and its continuation lines as a single
// space separated string, with the offset in ln where it starts.
func (l *Lexer) joined(ln rawLine, from int) (string, int) {
	s := ln.text[from:]
	start := from + len(s) - len(strings.TrimLeftFunc(s, unicode.IsSpace))
	text := strings.TrimSpace(s)
	for _, c := range l.continuation() {
		t := strings.TrimSpace(c.text)
		switch {
		case t == "":
		case text == "":
			text = t
		default:
			text += " " + t
		}
	}
	return text, start
}

// lexFreeText emits free text with its continuation lines. It reports
// whether any text was found.
func (l *Lexer) lexFreeText(ln rawLine, from int) bool {
	text, start := l.joined(ln, from)
	l.emitSegments(text, func(i int) Position { return ln.pos(start + i) })
	return text != ""
}

// emitSegments splits free text on ^ref^ note markers.
func (l *Lexer) emitSegments(text string, at func(int) Position) {
	seg := 0
	plain := func(end int) {
		s := text[seg:end]
		lead := len(s) - len(strings.TrimLeftFunc(s, unicode.IsSpace))
		if v := strings.TrimSpace(s); v != "" {
			l.emit(ID, v, at(seg+lead))
		}
	}
	for i := 0; i < len(text); {
		if text[i] != '^' {
			i++
			continue
		}
		j := strings.IndexByte(text[i+1:], '^')
		if j < 0 {
			break
		}
		ref := text[i+1 : i+1+j]
		if ref == "" || strings.ContainsAny(ref, " \t") {
			i += 1 + j
			continue
		}
		plain(i)
		l.emit(Hat, "^", at(i))
		l.emit(ID, ref, at(i+1))
		l.emit(Hat, "^", at(i+1+j))
		i += 2 + j
		seg = i
	}
	plain(len(text))
}

func (l *Lexer) lexLine(ln rawLine) {
	if ln.text[0] == '&' {
		l.lexTextHeader(ln)
		return
	}
	_, inTranslation := l.modes.Translation()
	if w := indent(ln.text); w > 0 {
		ln = ln.shift(w)
		if inTranslation {
			l.textLine(ln, 0)
			return
		}
	}
	if inTranslation {
		l.lexTranslationLine(ln)
		return
	}
	l.lexDefaultLine(ln)
}

// lexTextHeader lexes "&CODE = DESCRIPTION", which resets the mode stack.
func (l *Lexer) lexTextHeader(ln rawLine) {
	l.modes.Reset(ModeDefault)
	l.entryHasText = false
	l.emit(Ampersand, "&", ln.pos(0))
	if eq := strings.IndexByte(ln.text, '='); eq >= 0 {
		l.emitTrimmed(ID, ln, 1, eq)
		l.emit(Equals, "=", ln.pos(eq))
		l.emitTrimmed(ID, ln, eq+1, len(ln.text))
		return
	}
	l.emitTrimmed(ID, ln, 1, len(ln.text))
}

func (l *Lexer) lexDefaultLine(ln rawLine) {
	text := ln.text
	switch {
	case text[0] == '@':
		l.lexAt(ln)
	case text[0] == '#':
		l.lexHash(ln)
	case text[0] == '$':
		l.lexDollar(ln, false)
	case strings.HasPrefix(text, "=="):
		l.modes.Push(ModeMultilingual)
		l.emit(Multilingual, "==", ln.pos(0))
		l.emitLineWords(ln, 2)
	case strings.HasPrefix(text, "={"):
		l.emit(EqualBrace, "={", ln.pos(0))
		text, start := l.joined(ln, 2)
		if text != "" {
			l.emit(ID, text, ln.pos(start))
		}
	case strings.HasPrefix(text, "||"):
		l.emit(ParBar, "||", ln.pos(0))
		for _, f := range fields(text, 2, len(text)) {
			w := text[f.start:f.end]
			if w == "-" {
				l.emit(Minus, w, ln.pos(f.start))
				continue
			}
			l.emit(ID, NormalizePrimes(w), ln.pos(f.start))
		}
	case strings.TrimSpace(text) == ".":
		// an empty line marker
	default:
		if m := lineLabelRe.FindStringSubmatchIndex(text); m != nil {
			l.emit(LineLabel, NormalizePrimes(text[m[2]:m[3]]), ln.pos(0))
			l.emitLineWords(ln, m[3]+1)
			return
		}
		if m := scoreLabelRe.FindStringSubmatchIndex(text); m != nil {
			l.modes.Push(ModeScoreLine)
			l.emit(ScoreLabel, NormalizePrimes(text[m[2]:m[3]]), ln.pos(0))
			l.emitLineWords(ln, m[3]+1)
			return
		}
		l.errorf(ln, 0, "unrecognized line %q", firstWord(text))
	}
}

// atWord returns the keyword of an @-line and the offset following it.
func atWord(text string) (string, int) {
	i := 1
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' {
			break
		}
		i += size
	}
	return text[1:i], i
}

func (l *Lexer) lexAt(ln rawLine) {
	if strings.HasPrefix(ln.text, "@(") {
		l.errorf(ln, 0, "inline label outside a translation")
		return
	}
	kw, end := atWord(ln.text)
	if kw == "" {
		l.errorf(ln, 0, "missing @-keyword")
		return
	}
	typ, ok := atKeywords[kw]
	if !ok {
		l.errorf(ln, 0, "unknown @-keyword %q", kw)
		return
	}
	l.lexAtKeyword(ln, typ, kw, end)
}

func (l *Lexer) lexAtKeyword(ln rawLine, typ TokenType, kw string, end int) {
	switch typ {
	case Translation:
		l.lexTranslationHeader(ln, end)
	case Composite:
		l.entryHasText = false
		l.modes.Reset(ModeComposite)
		l.emit(Composite, kw, ln.pos(0))
		l.emitTrimmed(ID, ln, end, len(ln.text))
	case Heading:
		l.modes.Push(ModeHeading)
		l.emit(Heading, kw, ln.pos(0))
		l.emitTrimmed(ID, ln, end, len(ln.text))
	case M:
		l.emit(M, kw, ln.pos(0))
		i := end
		for i < len(ln.text) && (ln.text[i] == ' ' || ln.text[i] == '\t') {
			i++
		}
		if i < len(ln.text) && ln.text[i] == '=' {
			l.emit(Equals, "=", ln.pos(i))
			i++
		}
		l.emitTrimmed(ID, ln, i, len(ln.text))
	case Note:
		l.lexNote(ln, end, "@note")
	case Include:
		l.emit(Include, kw, ln.pos(0))
		l.emitSplit(ln, end)
	case Score:
		l.emit(Score, kw, ln.pos(0))
		l.emitWords(ln, end)
	case Label:
		l.lexLabel(ln, kw, end)
	default:
		l.lexStructure(ln, typ, kw, end)
	}
}

// lexStructure lexes object, surface, column, milestone and division lines:
// keyword, optional description, trailing flags.
func (l *Lexer) lexStructure(ln rawLine, typ TokenType, kw string, end int) {
	l.emit(typ, kw, ln.pos(0))
	body := strings.TrimRightFunc(ln.text, unicode.IsSpace)
	i := len(body)
	for i > end && strings.IndexByte("!#?*", body[i-1]) >= 0 {
		i--
	}
	l.emitTrimmed(ID, ln, end, i)
	for k := i; k < len(body); k++ {
		l.emit(flagType(body[k]), body[k:k+1], ln.pos(k))
	}
}

func flagType(c byte) TokenType {
	switch c {
	case '!':
		return Exclaim
	case '#':
		return Hash
	case '?':
		return Query
	}
	return Star
}

// emitSplit emits the '=' separated parts of ln.text[from:] as ID EQUALS ID...
func (l *Lexer) emitSplit(ln rawLine, from int) {
	a := from
	for {
		eq := strings.IndexByte(ln.text[a:], '=')
		if eq < 0 {
			l.emitTrimmed(ID, ln, a, len(ln.text))
			return
		}
		l.emitTrimmed(ID, ln, a, a+eq)
		l.emit(Equals, "=", ln.pos(a+eq))
		a += eq + 1
	}
}

func (l *Lexer) lexNote(ln rawLine, from int, directive string) {
	l.modes.Push(ModeNote)
	l.emit(Note, directive, ln.pos(0))
	l.lexFreeText(ln, from)
}

// lexLabel lexes "@label[+] REF [- REF]".
func (l *Lexer) lexLabel(ln rawLine, kw string, end int) {
	l.emit(Label, kw, ln.pos(0))
	l.emitLabelWords(ln, end, len(ln.text))
}

func (l *Lexer) emitLabelWords(ln rawLine, from, to int) {
	for _, f := range fields(ln.text, from, to) {
		w := ln.text[f.start:f.end]
		switch {
		case w == "-":
			l.emit(Minus, w, ln.pos(f.start))
		case longSurfaces[strings.ToLower(w)]:
			l.emit(Reference, w, ln.pos(f.start))
		default:
			l.emit(ID, NormalizePrimes(w), ln.pos(f.start))
		}
	}
}

func (l *Lexer) lexHash(ln rawLine) {
	rest := ln.text[1:]
	for _, p := range hashProtocols {
		if !strings.HasPrefix(rest, p.prefix) {
			continue
		}
		from := 1 + len(p.prefix)
		switch p.typ {
		case ATF:
			l.lexATFProtocol(ln, from)
		case Key:
			l.emit(Key, "#key:", ln.pos(0))
			l.emitSplit(ln, from)
		case Link:
			l.lexLink(ln, from)
		case Lem:
			l.lexLemmas(ln, from)
		case Note:
			l.lexNote(ln, from, "#note:")
		default:
			l.emit(p.typ, "#"+p.prefix, ln.pos(0))
			l.emitTrimmed(ID, ln, from, len(ln.text))
		}
		return
	}
	if m := trRe.FindStringSubmatchIndex(rest); m != nil {
		lang := ""
		if m[2] >= 0 {
			lang = rest[m[2]:m[3]]
		}
		l.emit(TR, lang, ln.pos(0))
		l.lexFreeText(ln, 1+m[1])
		return
	}
	l.modes.Push(ModeComment)
	l.emit(Comment, "#", ln.pos(0))
	l.emitTrimmed(ID, ln, 1, len(ln.text))
}

func (l *Lexer) lexATFProtocol(ln rawLine, from int) {
	l.emit(ATF, "#atf:", ln.pos(0))
	fs := fields(ln.text, from, len(ln.text))
	if len(fs) == 0 {
		return
	}
	switch ln.text[fs[0].start:fs[0].end] {
	case "lang":
		l.emit(Lang, "lang", ln.pos(fs[0].start))
		l.emitTrimmed(ID, ln, fs[0].end, len(ln.text))
	case "use":
		l.emit(Use, "use", ln.pos(fs[0].start))
		for _, f := range fs[1:] {
			w := ln.text[f.start:f.end]
			t, ok := atfUses[w]
			if !ok {
				t = ID
			}
			l.emit(t, w, ln.pos(f.start))
		}
	default:
		l.emitTrimmed(ID, ln, from, len(ln.text))
	}
}

func (l *Lexer) lexLink(ln rawLine, from int) {
	l.emit(Link, "#link:", ln.pos(0))
	fs := fields(ln.text, from, len(ln.text))
	if len(fs) > 0 {
		switch ln.text[fs[0].start:fs[0].end] {
		case "def":
			l.emit(Def, "def", ln.pos(fs[0].start))
			from = fs[0].end
		case "parallel":
			l.emit(Parallel, "parallel", ln.pos(fs[0].start))
			from = fs[0].end
		}
	}
	l.emitSplit(ln, from)
}

// lexLemmas lexes "#lem: a; b; c" including continuation lines.
func (l *Lexer) lexLemmas(ln rawLine, from int) {
	l.modes.Push(ModeLemma)
	l.emit(Lem, "#lem:", ln.pos(0))
	text, start := l.joined(ln, from)
	at := func(i int) Position { return ln.pos(start + i) }
	a := 0
	for {
		semi := strings.IndexByte(text[a:], ';')
		end := len(text)
		if semi >= 0 {
			end = a + semi
		}
		s := text[a:end]
		lead := len(s) - len(strings.TrimLeftFunc(s, unicode.IsSpace))
		if v := strings.TrimSpace(s); v != "" {
			l.emit(ID, v, at(a+lead))
		}
		if semi < 0 {
			return
		}
		l.emit(Semicolon, ";", at(end))
		a = end + 1
	}
}

// lexDollar lexes a $-line. Inside translations every $-line is loose.
func (l *Lexer) lexDollar(ln rawLine, loose bool) {
	l.emit(Dollar, "$", ln.pos(0))
	if loose {
		l.modes.Push(ModeDollarLoose)
		l.emitTrimmed(ID, ln, 1, len(ln.text))
		return
	}
	fs := fields(ln.text, 1, len(ln.text))
	words := make([]string, len(fs))
	for i, f := range fs {
		words[i] = ln.text[f.start:f.end]
	}
	if types, ok := strictDollar(words); ok {
		l.modes.Push(ModeDollarStrict)
		for i, f := range fs {
			l.emit(types[i], words[i], ln.pos(f.start))
		}
		return
	}
	l.modes.Push(ModeDollarLoose)
	if len(fs) == 0 {
		return
	}
	start := fs[0].start
	rest := strings.TrimSpace(ln.text[start:])
	if rest[0] != '(' {
		l.emit(ID, rest, ln.pos(start))
		return
	}
	switch end := matchParen(rest); {
	case end < 0:
		l.errorf(ln, start, "unbalanced parentheses in $-line")
	case end == len(rest)-1:
		l.emit(ParentheticalID, rest, ln.pos(start))
	default:
		l.emit(ID, rest, ln.pos(start))
	}
}

// matchParen returns the index of the ')' closing s[0], or -1.
func matchParen(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func (l *Lexer) lexTranslationHeader(ln rawLine, end int) {
	l.modes.PopTo(Mode.IsTextBase)
	l.entryHasText = false
	l.emit(Translation, "translation", ln.pos(0))
	mode := ModeTranslationParallel
	for i, f := range fields(ln.text, end, len(ln.text)) {
		w := ln.text[f.start:f.end]
		t := ID
		switch {
		case i == 0 && w == "parallel":
			t = Parallel
		case i == 0 && (w == "labeled" || w == "labelled"):
			t = Labeled
			mode = ModeTranslationLabeled
		case i == 2 && w == "project":
			t = Project
		}
		l.emit(t, w, ln.pos(f.start))
	}
	l.modes.Push(mode)
}

func (l *Lexer) lexTranslationLine(ln rawLine) {
	switch ln.text[0] {
	case '@':
		if strings.HasPrefix(ln.text, "@(") {
			l.lexInlineLabel(ln)
			return
		}
		kw, end := atWord(ln.text)
		typ, ok := atKeywords[kw]
		if !ok {
			l.textLine(ln, 0)
			return
		}
		l.leaveEntry()
		if typ == Label {
			l.lexLabel(ln, kw, end)
			l.enterEntry(false)
			return
		}
		l.lexAtKeyword(ln, typ, kw, end)
	case '$':
		l.leaveEntry()
		l.lexDollar(ln, true)
	case '#':
		l.lexHash(ln)
	default:
		if tr, _ := l.modes.Translation(); tr == ModeTranslationParallel {
			if m := lineLabelRe.FindStringSubmatchIndex(ln.text); m != nil {
				l.emit(LineLabel, NormalizePrimes(ln.text[m[2]:m[3]]), ln.pos(0))
				l.lexFreeText(ln, m[3]+1)
				return
			}
		}
		l.textLine(ln, 0)
	}
}

// lexInlineLabel lexes "@(REF) text".
func (l *Lexer) lexInlineLabel(ln rawLine) {
	l.leaveEntry()
	end := matchParen(ln.text[1:])
	if end < 0 {
		l.errorf(ln, 0, "unterminated inline label")
		return
	}
	end++
	l.emit(OpenR, "@(", ln.pos(0))
	l.emitLabelWords(ln, 2, end)
	l.emit(CloseR, ")", ln.pos(end))
	l.enterEntry(l.lexFreeText(ln, end+1))
}

func (l *Lexer) textLine(ln rawLine, from int) {
	if l.lexFreeText(ln, from) && l.modes.Top() == ModeLabelLine {
		l.entryHasText = true
	}
}

func (l *Lexer) enterEntry(hasText bool) {
	l.modes.Push(ModeLabelLine)
	l.entryHasText = hasText
}

func (l *Lexer) leaveEntry() {
	if l.modes.Top() == ModeLabelLine {
		l.modes.Pop()
	}
	l.entryHasText = false
}

// NormalizePrimes replaces the typographic primes U+2019, U+00B4 and U+2032
// that follow a letter, a number or another prime with an ASCII apostrophe.
func NormalizePrimes(s string) string {
	if !strings.ContainsAny(s, "’´′") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	var prev rune
	for _, r := range s {
		if (r == '’' || r == '´' || r == '′') &&
			(unicode.IsLetter(prev) || unicode.IsNumber(prev) || prev == '\'') {
			b.WriteByte('\'')
			prev = '\''
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

type span struct{ start, end int }

// fields returns the byte spans of the whitespace separated words of s[from:to].
func fields(s string, from, to int) []span {
	var out []span
	start := -1
	for i := from; i < to; {
		r, size := utf8.DecodeRuneInString(s[i:])
		if unicode.IsSpace(r) {
			if start >= 0 {
				out = append(out, span{start, i})
				start = -1
			}
		} else if start < 0 {
			start = i
		}
		i += size
	}
	if start >= 0 {
		out = append(out, span{start, to})
	}
	return out
}

func indent(s string) int {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func firstWord(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return s
}
