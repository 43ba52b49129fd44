package lexer

// Mode is one lexical mode of the ATF lexer.
type Mode int

// Lexical modes.
const (
	ModeDefault Mode = iota
	ModeDollarStrict
	ModeDollarLoose
	ModeLemma
	ModeTranslationParallel
	ModeTranslationLabeled
	ModeLabelLine
	ModeScoreLine
	ModeMultilingual
	ModeNote
	ModeComment
	ModeHeading
	ModeComposite
)

var modeNames = [...]string{
	ModeDefault:             "default",
	ModeDollarStrict:        "dollar-strict",
	ModeDollarLoose:         "dollar-loose",
	ModeLemma:               "lemma-line",
	ModeTranslationParallel: "translation-parallel",
	ModeTranslationLabeled:  "translation-labeled",
	ModeLabelLine:           "label-line",
	ModeScoreLine:           "score-line",
	ModeMultilingual:        "multilingual",
	ModeNote:                "note",
	ModeComment:             "comment",
	ModeHeading:             "heading",
	ModeComposite:           "composite",
}

func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// IsTextBase reports whether the mode is the bottom of a Text's stack.
func (m Mode) IsTextBase() bool {
	return m == ModeDefault || m == ModeComposite
}

// IsTranslation reports whether the mode is a translation section.
func (m Mode) IsTranslation() bool {
	return m == ModeTranslationParallel || m == ModeTranslationLabeled
}

// IsLineScoped reports whether the mode ends at the next NEWLINE.
func (m Mode) IsLineScoped() bool {
	switch m {
	case ModeDollarStrict, ModeDollarLoose, ModeLemma, ModeScoreLine,
		ModeMultilingual, ModeNote, ModeComment, ModeHeading:
		return true
	}
	return false
}

// ModeStack is the lexer's stack of modes. The zero value is empty; Top on an
// empty stack reports ModeDefault.
type ModeStack struct {
	modes []Mode
}

// NewModeStack returns a stack holding only ModeDefault.
func NewModeStack() *ModeStack {
	return &ModeStack{modes: []Mode{ModeDefault}}
}

// Push enters a mode.
func (s *ModeStack) Push(m Mode) {
	s.modes = append(s.modes, m)
}

// Pop leaves the current mode and returns it. The bottom mode is never popped.
func (s *ModeStack) Pop() (Mode, bool) {
	if len(s.modes) <= 1 {
		return s.Top(), false
	}
	m := s.modes[len(s.modes)-1]
	s.modes = s.modes[:len(s.modes)-1]
	return m, true
}

// Top returns the current mode.
func (s *ModeStack) Top() Mode {
	if len(s.modes) == 0 {
		return ModeDefault
	}
	return s.modes[len(s.modes)-1]
}

// Depth returns the number of modes on the stack.
func (s *ModeStack) Depth() int {
	return len(s.modes)
}

// Reset empties the stack down to a single base mode.
func (s *ModeStack) Reset(base Mode) {
	s.modes = append(s.modes[:0], base)
}

// PopLineScoped pops every mode that ends at a line boundary.
func (s *ModeStack) PopLineScoped() {
	for s.Top().IsLineScoped() {
		if _, ok := s.Pop(); !ok {
			return
		}
	}
}

// PopTo pops until the top satisfies keep or only the base remains.
func (s *ModeStack) PopTo(keep func(Mode) bool) {
	for !keep(s.Top()) {
		if _, ok := s.Pop(); !ok {
			return
		}
	}
}

// Section returns the innermost non line-scoped mode.
func (s *ModeStack) Section() Mode {
	for i := len(s.modes) - 1; i >= 0; i-- {
		if !s.modes[i].IsLineScoped() {
			return s.modes[i]
		}
	}
	return ModeDefault
}

// Translation returns the enclosing translation mode, if any.
func (s *ModeStack) Translation() (Mode, bool) {
	for i := len(s.modes) - 1; i >= 0; i-- {
		if s.modes[i].IsTranslation() {
			return s.modes[i], true
		}
	}
	return ModeDefault, false
}

// Base returns the bottom mode of the stack.
func (s *ModeStack) Base() Mode {
	if len(s.modes) == 0 {
		return ModeDefault
	}
	return s.modes[0]
}

// Snapshot returns a copy of the stack, bottom first.
func (s *ModeStack) Snapshot() []Mode {
	out := make([]Mode, len(s.modes))
	copy(out, s.modes)
	return out
}
