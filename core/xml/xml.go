// Package xml wraps antchfx/xmlquery with the operations the slide engine
// needs: parsing, XPath queries, faithful re-serialization, and the node
// surgery (text rewrite, deep copy, ordered insertion) that in-place
// document mutation requires.
//
// Serialization is deliberately not pretty-printed: parts of an OOXML
// package are whitespace-sensitive, so nodes are written back exactly as
// parsed, with only the mutations applied.
package xml

import (
	"bytes"
	"fmt"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Document represents a parsed XML document.
type Document struct {
	root *xmlquery.Node
}

// Node represents a single XML node (element, text, declaration, ...).
type Node struct {
	node *xmlquery.Node
}

// Parse parses XML data and returns a Document.
func Parse(data []byte) (*Document, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	return &Document{root: root}, nil
}

// Root returns the document's root element.
func (d *Document) Root() *Node {
	if d.root == nil {
		return nil
	}
	for child := d.root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return &Node{node: child}
		}
	}
	return nil
}

// QueryAll executes an XPath query and returns matching nodes. Expressions
// should use local-name() predicates for namespaced documents.
func (d *Document) QueryAll(expr string) ([]*Node, error) {
	if _, err := xpath.Compile(expr); err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}
	nodes, err := xmlquery.QueryAll(d.root, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %w", err)
	}
	result := make([]*Node, len(nodes))
	for i, n := range nodes {
		result[i] = &Node{node: n}
	}
	return result, nil
}

// QueryFirst executes an XPath query and returns the first match, or nil.
func (d *Document) QueryFirst(expr string) (*Node, error) {
	if _, err := xpath.Compile(expr); err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}
	node, err := xmlquery.Query(d.root, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %w", err)
	}
	if node == nil {
		return nil, nil
	}
	return &Node{node: node}, nil
}

// LocalName returns the element's name without its namespace prefix.
func (n *Node) LocalName() string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.Data
}

// Prefix returns the element's namespace prefix ("" for none).
func (n *Node) Prefix() string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.Prefix
}

// IsElement reports whether the node is an element node.
func (n *Node) IsElement() bool {
	return n != nil && n.node != nil && n.node.Type == xmlquery.ElementNode
}

// IsText reports whether the node is a text node.
func (n *Node) IsText() bool {
	return n != nil && n.node != nil && n.node.Type == xmlquery.TextNode
}

// Text returns the node's own data for text nodes, or the concatenated
// descendant text for elements.
func (n *Node) Text() string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.InnerText()
}

// Parent returns the node's parent element, or nil.
func (n *Node) Parent() *Node {
	if n == nil || n.node == nil || n.node.Parent == nil {
		return nil
	}
	return &Node{node: n.node.Parent}
}

// Children returns the node's child element nodes.
func (n *Node) Children() []*Node {
	if n == nil || n.node == nil {
		return nil
	}
	var children []*Node
	for child := n.node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			children = append(children, &Node{node: child})
		}
	}
	return children
}

// Attr returns the value of the attribute with the given local name,
// ignoring its prefix.
func (n *Node) Attr(local string) string {
	if n == nil || n.node == nil {
		return ""
	}
	for _, attr := range n.node.Attr {
		if attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}

// AttrNS returns the value of the attribute with the given prefix and
// local name.
func (n *Node) AttrNS(prefix, local string) string {
	if n == nil || n.node == nil {
		return ""
	}
	for _, attr := range n.node.Attr {
		if attr.Name.Space == prefix && attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}

// FindAll returns, in document order, every descendant element whose local
// name matches, regardless of namespace prefix.
func (n *Node) FindAll(local string) []*Node {
	if n == nil || n.node == nil {
		return nil
	}
	var out []*Node
	var walk func(*xmlquery.Node)
	walk = func(cur *xmlquery.Node) {
		for child := cur.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == xmlquery.ElementNode && child.Data == local {
				out = append(out, &Node{node: child})
			}
			walk(child)
		}
	}
	walk(n.node)
	return out
}

// FindFirst returns the first descendant element with the local name, or nil.
func (n *Node) FindFirst(local string) *Node {
	all := n.FindAll(local)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// Equal reports whether two wrappers point at the same underlying node.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.node == other.node
}
