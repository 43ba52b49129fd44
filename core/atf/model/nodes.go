package model

// DivisionKind is the level of a physical division.
type DivisionKind string

// Division kinds.
const (
	DivisionObject  DivisionKind = "object"
	DivisionSurface DivisionKind = "surface"
	DivisionColumn  DivisionKind = "column"
)

// Division is a physical object, surface or column. Divisions nest
// object > surface > column.
type Division struct {
	Kind DivisionKind `json:"kind"`

	// Name is the @-keyword: "tablet", "obverse", "column", ...
	Name string `json:"name"`

	// Description follows the keyword ("2" for "@column 2").
	Description string `json:"description,omitempty"`

	// Flags are the trailing damage and certainty marks, verbatim ("!#").
	Flags string `json:"flags,omitempty"`

	Children Nodes `json:"children,omitempty"`
}

// Line is a labeled transliteration line.
type Line struct {
	// Label is the line number without its final dot ("1", "4'", "1.1").
	Label string `json:"label"`

	// Words are the transliteration tokens, flags and brackets verbatim.
	Words []string `json:"words,omitempty"`

	// Lemmas come from the following "#lem:" line. Their count is not
	// required to match the word count.
	Lemmas []Lemma `json:"lemmas,omitempty"`

	// Parallels are the "||" references that follow the line.
	Parallels []ParallelRef `json:"parallels,omitempty"`

	// Renderings are the "==" and "={" alternates of the line.
	Renderings []Rendering `json:"renderings,omitempty"`

	// Translations are the interlinear "#tr:" lines.
	Translations []Interlinear `json:"translations,omitempty"`

	// Source is the 1-based input line, 0 for synthesized lines.
	Source int `json:"-"`
}

// Rendering is an alternate rendering of a line: "==" for a multilingual
// alignment, "={" for a gloss continuation.
type Rendering struct {
	Marker string   `json:"marker"`
	Words  []string `json:"words,omitempty"`
	Lemmas []Lemma  `json:"lemmas,omitempty"`
}

// Interlinear is a "#tr[.lang]:" translation of a single line.
type Interlinear struct {
	Lang string    `json:"lang,omitempty"`
	Text []Segment `json:"text"`
}

// ParallelRef is a "||" reference to the same line in another witness:
// witness, surface, column and line, optionally ranged.
type ParallelRef struct {
	Witness string   `json:"witness"`
	From    []string `json:"from"`
	To      []string `json:"to,omitempty"`
}

// DollarKind distinguishes the $-line forms.
type DollarKind string

// Dollar-line kinds.
const (
	DollarState  DollarKind = "state"
	DollarRuling DollarKind = "ruling"
	DollarLoose  DollarKind = "loose"
)

// DollarLine is a "$" line. State lines describe the condition of the
// object ("$ at least 3 lines missing"), ruling lines a ruling
// ("$ double ruling"); anything else is kept as loose text.
type DollarLine struct {
	Kind DollarKind `json:"kind"`

	Qualification string `json:"qualification,omitempty"` // at least, at most, about
	Extent        string `json:"extent,omitempty"`        // 3, n, several, rest of, ...
	Scope         string `json:"scope,omitempty"`         // obverse, lines, column, ...
	State         string `json:"state,omitempty"`         // blank, broken, missing, ...

	// Ruling is single, double or triple; empty for a bare "$ ruling".
	Ruling string `json:"ruling,omitempty"`

	// Text is the content of a loose line, parentheses included.
	Text string `json:"text,omitempty"`
}

// TranslationKind is the layout of a translation.
type TranslationKind string

// Translation kinds.
const (
	TranslationParallel TranslationKind = "parallel"
	TranslationLabeled  TranslationKind = "labeled"
)

// Translation is an "@translation" section. Parallel translations hold
// Paragraphs; labeled translations hold Entries. Both may also hold
// Divisions, DollarLines, Notes, Headings and Comments.
type Translation struct {
	Kind    TranslationKind `json:"kind"`
	Lang    string          `json:"lang,omitempty"`
	Project string          `json:"project,omitempty"`

	// Extra keeps header words after the project.
	Extra []string `json:"extra,omitempty"`

	Children Nodes `json:"children,omitempty"`
}

// Segment is a run of free text, or an inline "^N^" note marker when Note
// is set.
type Segment struct {
	Text string `json:"text,omitempty"`
	Note string `json:"note,omitempty"`
}

// Paragraph is a block of translation prose. In a parallel translation it
// carries the line label it starts with, if any.
type Paragraph struct {
	Label string      `json:"label,omitempty"`
	Lines [][]Segment `json:"lines,omitempty"`
}

// Entry is one labeled translation entry: "@label REF" or "@(REF) text".
type Entry struct {
	Ref        LabelRef     `json:"ref"`
	Paragraphs []*Paragraph `json:"paragraphs,omitempty"`
	Notes      []*Note      `json:"notes,omitempty"`

	// Bound lists the transliteration lines the entry resolved to.
	// It is filled by Bind.
	Bound []LineRef `json:"bound,omitempty"`

	// Source is the 1-based input line, 0 for synthesized entries.
	Source int `json:"-"`
}

// Score aligns one logical line across witnesses.
type Score struct {
	// Number is the label of the logical line the witnesses render.
	Number string `json:"number"`

	// Order holds witness ids in order of first appearance.
	Order []string `json:"order"`

	Witnesses []Witness `json:"witnesses"`

	// Source is the 1-based input line of the first witness.
	Source int `json:"-"`
}

// Add appends a witness line and records its id on first appearance.
func (s *Score) Add(w Witness) {
	seen := false
	for _, id := range s.Order {
		if id == w.ID {
			seen = true
			break
		}
	}
	if !seen {
		s.Order = append(s.Order, w.ID)
	}
	s.Witnesses = append(s.Witnesses, w)
}

// Witness is one exemplar's rendering of a score line.
type Witness struct {
	// ID is the witness siglum, the label up to its first "_" ("A₁").
	ID string `json:"id"`

	// Label is the full witness label without the colon ("A₁_obv_i_4'").
	Label string `json:"label"`

	Words  []string `json:"words,omitempty"`
	Lemmas []Lemma  `json:"lemmas,omitempty"`
}

// LinkKind is the variant of a Link.
type LinkKind string

// Link kinds.
const (
	LinkDef      LinkKind = "def"
	LinkParallel LinkKind = "parallel"
	LinkInclude  LinkKind = "include"
)

// Link refers to another text or passage by catalogue code.
type Link struct {
	Kind LinkKind `json:"kind,omitempty"`

	// Alias is the short name a "def" link introduces ("A").
	Alias string `json:"alias,omitempty"`

	// Target is the project-qualified code ("dcclt:P336181").
	Target string `json:"target"`

	// Citation is the optional human-readable reference.
	Citation string `json:"citation,omitempty"`

	// Source is the 1-based input line, 0 for synthesized links.
	Source int `json:"-"`
}

// Include is an "@include" of an external text. The referenced content is
// never inlined.
type Include struct {
	Link Link `json:"link"`
}

// Note directives.
const (
	NoteDirective = "#note:"
	NoteAt        = "@note"
)

// Note is a "#note:" or "@note" line.
type Note struct {
	Directive string    `json:"directive"`
	Text      []Segment `json:"text,omitempty"`
}

// Ref returns the footnote number of a note that starts with "^N^".
func (n *Note) Ref() string {
	if len(n.Text) > 0 && n.Text[0].Note != "" {
		return n.Text[0].Note
	}
	return ""
}

// Milestone marks a position without content of its own: "@m=locator",
// "@catchline", "@colophon", "@date", "@div", "@end", ...
type Milestone struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// Heading is an "@h1".."@h3" line.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text,omitempty"`
}

// Comment is a "#" comment or a "#CHECK:" line.
type Comment struct {
	Text  string `json:"text"`
	Check bool   `json:"check,omitempty"`
}

func (*Division) NodeType() string    { return "division" }
func (*Line) NodeType() string        { return "line" }
func (*DollarLine) NodeType() string  { return "dollar" }
func (*Translation) NodeType() string { return "translation" }
func (*Paragraph) NodeType() string   { return "paragraph" }
func (*Entry) NodeType() string       { return "entry" }
func (*Score) NodeType() string       { return "score" }
func (*Link) NodeType() string        { return "link" }
func (*Include) NodeType() string     { return "include" }
func (*Note) NodeType() string        { return "note" }
func (*Milestone) NodeType() string   { return "milestone" }
func (*Heading) NodeType() string     { return "heading" }
func (*Comment) NodeType() string     { return "comment" }

func (*Division) node()    {}
func (*Line) node()        {}
func (*DollarLine) node()  {}
func (*Translation) node() {}
func (*Paragraph) node()   {}
func (*Entry) node()       {}
func (*Score) node()       {}
func (*Link) node()        {}
func (*Include) node()     {}
func (*Note) node()        {}
func (*Milestone) node()   {}
func (*Heading) node()     {}
func (*Comment) node()     {}
