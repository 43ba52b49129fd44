// Package xml exports ATF documents as XML and runs XPath queries over them.
//
// The tree is held by xmlquery, which parses with encoding/xml and never
// fetches external entities.
package xml

import (
	"bytes"
	"strings"

	"github.com/FocuswithJustin/atfkit/core/encoding"
	atferrors "github.com/FocuswithJustin/atfkit/core/errors"
	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Document is an XML tree, either parsed or exported from ATF.
type Document struct {
	root *xmlquery.Node
}

// Node is an element of a Document.
type Node struct {
	node *xmlquery.Node
}

// FormatOptions controls XML formatting behavior.
type FormatOptions struct {
	Indent string // Indentation string (e.g., "  " or "\t")
}

// Parse parses XML data and returns a Document.
func Parse(data []byte) (*Document, error) {
	reader := bytes.NewReader(data)
	root, err := xmlquery.Parse(reader)
	if err != nil {
		return nil, &atferrors.ParseError{Format: "XML", Message: err.Error(), Err: err}
	}
	return &Document{root: root}, nil
}

// Format pretty-prints XML data.
func Format(data []byte, opts FormatOptions) ([]byte, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return doc.Format(opts)
}

// formatNode recursively formats an XML node.
func formatNode(w *bytes.Buffer, n *xmlquery.Node, depth int, indent string) error {
	switch n.Type {
	case xmlquery.DocumentNode:
		// Process children
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if err := formatNode(w, child, depth, indent); err != nil {
				return err
			}
		}

	case xmlquery.DeclarationNode:
		w.WriteString("<?xml")
		for _, attr := range n.Attr {
			w.WriteString(" ")
			w.WriteString(attr.Name.Local)
			w.WriteString("=\"")
			w.WriteString(encoding.EscapeXMLAttr(attr.Value))
			w.WriteString("\"")
		}
		w.WriteString("?>\n")

	case xmlquery.ElementNode:
		// Opening tag
		writeIndent(w, depth, indent)
		w.WriteString("<")
		if n.Prefix != "" {
			w.WriteString(n.Prefix)
			w.WriteString(":")
		}
		w.WriteString(n.Data)

		// Attributes
		for _, attr := range n.Attr {
			w.WriteString(" ")
			if attr.Name.Space != "" {
				w.WriteString("xmlns:")
				w.WriteString(attr.Name.Local)
			} else if attr.Name.Local != "" {
				w.WriteString(attr.Name.Local)
			}
			w.WriteString("=\"")
			w.WriteString(encoding.EscapeXMLAttr(attr.Value))
			w.WriteString("\"")
		}

		// Check if has children
		hasChildren := n.FirstChild != nil
		hasElementChildren := false
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == xmlquery.ElementNode {
				hasElementChildren = true
				break
			}
		}

		if !hasChildren {
			w.WriteString("/>\n")
		} else {
			w.WriteString(">")
			if hasElementChildren {
				w.WriteString("\n")
			}

			// Children
			for child := n.FirstChild; child != nil; child = child.NextSibling {
				if child.Type == xmlquery.ElementNode {
					if err := formatNode(w, child, depth+1, indent); err != nil {
						return err
					}
				} else if child.Type == xmlquery.TextNode {
					text := strings.TrimSpace(child.Data)
					if text != "" {
						if hasElementChildren {
							writeIndent(w, depth+1, indent)
						}
						w.WriteString(encoding.EscapeXMLText(child.Data))
						if hasElementChildren {
							w.WriteString("\n")
						}
					}
				} else if child.Type == xmlquery.CharDataNode {
					w.WriteString("<![CDATA[")
					w.WriteString(child.Data)
					w.WriteString("]]>")
				}
			}

			// Closing tag
			if hasElementChildren {
				writeIndent(w, depth, indent)
			}
			w.WriteString("</")
			if n.Prefix != "" {
				w.WriteString(n.Prefix)
				w.WriteString(":")
			}
			w.WriteString(n.Data)
			w.WriteString(">\n")
		}

	case xmlquery.TextNode:
		text := strings.TrimSpace(n.Data)
		if text != "" {
			w.WriteString(encoding.EscapeXMLText(text))
		}

	case xmlquery.CommentNode:
		writeIndent(w, depth, indent)
		w.WriteString("<!--")
		w.WriteString(n.Data)
		w.WriteString("-->\n")
	}

	return nil
}

func writeIndent(w *bytes.Buffer, depth int, indent string) {
	for i := 0; i < depth; i++ {
		w.WriteString(indent)
	}
}

// XPath returns the nodes matched by expr in document order.
func (d *Document) XPath(expr string) ([]*Node, error) {
	if _, err := xpath.Compile(expr); err != nil {
		return nil, atferrors.NewParse("XPath", "", err.Error())
	}
	nodes, err := xmlquery.QueryAll(d.root, expr)
	if err != nil {
		return nil, atferrors.Wrapf(err, "query %s", expr)
	}
	result := make([]*Node, len(nodes))
	for i, n := range nodes {
		result[i] = &Node{node: n}
	}
	return result, nil
}

// Format pretty-prints the document.
func (d *Document) Format(opts FormatOptions) ([]byte, error) {
	if d.root == nil {
		return nil, nil
	}
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	var buf bytes.Buffer
	if err := formatNode(&buf, d.root, 0, opts.Indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Evaluate evaluates an XPath expression that may yield a number, a string
// or a boolean, such as "count(//l)". Node sets are returned as the text of
// each node.
func (d *Document) Evaluate(expr string) (any, error) {
	e, err := xpath.Compile(expr)
	if err != nil {
		return nil, atferrors.NewParse("XPath", "", err.Error())
	}
	switch v := e.Evaluate(xmlquery.CreateXPathNavigator(d.root)).(type) {
	case *xpath.NodeIterator:
		var texts []string
		for v.MoveNext() {
			texts = append(texts, v.Current().Value())
		}
		return texts, nil
	default:
		return v, nil
	}
}

// Serialize returns the document as XML without added whitespace.
func (d *Document) Serialize() []byte {
	if d.root == nil {
		return nil
	}
	return []byte(d.root.OutputXML(true))
}

// Name returns the element or attribute name.
func (n *Node) Name() string {
	if n.node == nil {
		return ""
	}
	return n.node.Data
}

// InnerText returns the text of n and its descendants.
func (n *Node) InnerText() string {
	if n.node == nil {
		return ""
	}
	return n.node.InnerText()
}

// Attributes returns the attributes of n in document order as name, value
// pairs.
func (n *Node) Attributes() [][2]string {
	if n.node == nil {
		return nil
	}
	var attrs [][2]string
	for _, a := range n.node.Attr {
		attrs = append(attrs, [2]string{a.Name.Local, a.Value})
	}
	return attrs
}

// Summary renders n on one line: the name, each attribute as name="value",
// then a tab and the inner text.
func (n *Node) Summary() string {
	var b strings.Builder
	b.WriteString(n.Name())
	for _, a := range n.Attributes() {
		b.WriteString(" " + a[0] + `="` + encoding.EscapeXMLAttr(a[1]) + `"`)
	}
	if text := n.InnerText(); text != "" {
		b.WriteString("\t" + text)
	}
	return b.String()
}
