package lexer

// Stream is a replayable token sequence filled lazily from a Lexer.
type Stream struct {
	lex *Lexer
	buf []Token
	pos int
}

// NewStream returns a Stream over src.
func NewStream(src string) *Stream {
	return &Stream{lex: New(src)}
}

// fill makes sure buf holds the token at index i.
func (s *Stream) fill(i int) {
	for len(s.buf) <= i {
		if n := len(s.buf); n > 0 && s.buf[n-1].Type == EOF {
			s.buf = append(s.buf, s.buf[n-1])
			continue
		}
		s.buf = append(s.buf, s.lex.Next())
	}
}

// Peek returns the next token without consuming it.
func (s *Stream) Peek() Token {
	return s.PeekN(0)
}

// PeekN returns the token n positions ahead of the cursor.
func (s *Stream) PeekN(n int) Token {
	s.fill(s.pos + n)
	return s.buf[s.pos+n]
}

// Next consumes and returns the next token.
func (s *Stream) Next() Token {
	tok := s.Peek()
	if tok.Type != EOF {
		s.pos++
	}
	return tok
}

// Mark returns the cursor, for use with Reset.
func (s *Stream) Mark() int {
	return s.pos
}

// Reset moves the cursor back to a mark.
func (s *Stream) Reset(mark int) {
	if mark >= 0 && mark <= s.pos {
		s.pos = mark
	}
}

// Modes returns the lexer's mode stack as of the last token lexed.
func (s *Stream) Modes() []Mode {
	return s.lex.Modes()
}
