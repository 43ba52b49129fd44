// Package model defines the document tree produced by parsing ATF and the
// serializer that turns it back into canonical ATF.
//
// # Core Types
//
// The tree is organized hierarchically:
//
//   - Document: everything parsed from one input buffer
//   - Text: one "&CODE = DESCRIPTION" edition with its protocols
//   - Division: a physical object, surface or column
//   - Line: a labeled transliteration line with words and lemmas
//
// Cross-cutting entities (translations, scores, links, notes, milestones,
// includes) sit in the children of the scope where they were declared.
//
// # Nodes
//
// Node is a closed set: only the types of this package implement it, and the
// serializer, the binder and the walkers switch over that set explicitly.
//
// # References
//
// Labeled translation entries, score witnesses and links refer to other
// parts of a Text by string key (LineRef, LinkTarget), never by pointer.
// Bind resolves them after a Text is complete, so forward references are
// legal.
//
// # Canonical Form
//
// Serialize writes a fixed layout. Serializing, re-parsing and serializing
// again yields the same bytes as the first serialization.
//
// # Example
//
//	text := &model.Text{Code: "X001001", Description: "JCS 48, 089"}
//	text.Children = append(text.Children, &model.Line{
//	    Label: "1",
//	    Words: []string{"a-na", "{d}UTU"},
//	})
//	out := model.SerializeDocument(&model.Document{Texts: []*model.Text{text}})
package model
