package model

import (
	"encoding/json"
)

// Document is the root of a parse: the Texts of one input buffer in order.
type Document struct {
	// Texts holds one entry per "&" header; a composite edition has several.
	Texts []*Text `json:"texts"`
}

// Text is one edition, identified by its catalogue code.
type Text struct {
	// Code is the catalogue id (e.g., "X001001", "P363716", "Q002769").
	// It is empty only for content that precedes the first "&" line.
	Code string `json:"code,omitempty"`

	// Description is the free-form citation after "=".
	Description string `json:"description,omitempty"`

	// Project is the value of "#project:".
	Project string `json:"project,omitempty"`

	// Protocols are the "#atf:" settings.
	Protocols Protocols `json:"protocols"`

	// Composite is set by "@composite".
	Composite bool `json:"composite,omitempty"`

	// Keys are the "#key:" entries in declaration order.
	Keys []Key `json:"keys,omitempty"`

	// Bibliography holds the "#bib:" entries.
	Bibliography []string `json:"bibliography,omitempty"`

	// Score is the "@score" declaration of a score text.
	Score *ScoreSpec `json:"score,omitempty"`

	// Children is the structure of the Text in document order.
	Children Nodes `json:"children,omitempty"`
}

// Protocols are the "#atf:" settings of a Text.
type Protocols struct {
	// Language is the "#atf: lang" tag (e.g., "akk-x-stdbab").
	Language string `json:"language,omitempty"`

	// Uses holds the "#atf: use" arguments (unicode, math, legacy, ...).
	Uses []string `json:"uses,omitempty"`
}

// Has reports whether the "#atf: use" setting is present.
func (p Protocols) Has(use string) bool {
	for _, u := range p.Uses {
		if u == use {
			return true
		}
	}
	return false
}

// Key is one "#key:" entry; Name is empty for keys without "=".
type Key struct {
	Name  string `json:"name,omitempty"`
	Value string `json:"value"`
}

// ScoreSpec is the "@score" declaration (e.g., "matrix parsed word").
type ScoreSpec struct {
	Args []string `json:"args"`
}

// Node is one element of a Text's structure. The set of implementations is
// closed: Division, Line, DollarLine, Translation, Entry, Paragraph, Score,
// Link, Include, Note, Milestone, Heading and Comment.
type Node interface {
	// NodeType names the node type ("division", "line", ...).
	NodeType() string
	node()
}

// Nodes is an ordered list of structure.
type Nodes []Node

// MarshalJSON encodes each node as {"kind": ..., "node": ...}.
func (ns Nodes) MarshalJSON() ([]byte, error) {
	type tagged struct {
		Kind string `json:"kind"`
		Node Node   `json:"node"`
	}
	out := make([]tagged, len(ns))
	for i, n := range ns {
		out[i] = tagged{Kind: n.NodeType(), Node: n}
	}
	return json.Marshal(out)
}
