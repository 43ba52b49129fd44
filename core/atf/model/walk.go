package model

// Walk visits nodes depth-first in document order. Children of a node are
// visited only when fn returns true for it. Division and Translation
// children and Entry notes are descended into.
func Walk(ns Nodes, fn func(Node) bool) {
	for _, n := range ns {
		if !fn(n) {
			continue
		}
		switch n := n.(type) {
		case *Division:
			Walk(n.Children, fn)
		case *Translation:
			Walk(n.Children, fn)
		case *Entry:
			for _, note := range n.Notes {
				fn(note)
			}
		}
	}
}

// Stats counts the entities of a Document.
type Stats struct {
	Texts        int `json:"texts"`
	Divisions    int `json:"divisions"`
	Lines        int `json:"lines"`
	Words        int `json:"words"`
	Lemmas       int `json:"lemmas"`
	Translations int `json:"translations"`
	Entries      int `json:"entries"`
	Scores       int `json:"scores"`
	Witnesses    int `json:"witnesses"`
	Links        int `json:"links"`
	Notes        int `json:"notes"`
}

// Stats returns entity counts for the document.
func (d *Document) Stats() Stats {
	s := Stats{Texts: len(d.Texts)}
	for _, t := range d.Texts {
		Walk(t.Children, func(n Node) bool {
			switch n := n.(type) {
			case *Division:
				s.Divisions++
			case *Line:
				s.Lines++
				s.Words += len(n.Words)
				s.Lemmas += len(n.Lemmas)
			case *Translation:
				s.Translations++
			case *Entry:
				s.Entries++
			case *Score:
				s.Scores++
				s.Witnesses += len(n.Witnesses)
			case *Link, *Include:
				s.Links++
			case *Note:
				s.Notes++
			}
			return true
		})
	}
	return s
}
