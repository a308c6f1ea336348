package xml

import (
	stdxml "encoding/xml"

	"github.com/antchfx/xmlquery"
)

// NewElement creates a detached element node with the given prefix and
// local name.
func NewElement(prefix, local string) *Node {
	return &Node{node: &xmlquery.Node{
		Type:   xmlquery.ElementNode,
		Data:   local,
		Prefix: prefix,
	}}
}

// SetAttr sets (or adds) an attribute. prefix may be empty.
func (n *Node) SetAttr(prefix, local, value string) {
	if n == nil || n.node == nil {
		return
	}
	for i, attr := range n.node.Attr {
		if attr.Name.Space == prefix && attr.Name.Local == local {
			n.node.Attr[i].Value = value
			return
		}
	}
	n.node.Attr = append(n.node.Attr, xmlquery.Attr{
		Name:  stdxml.Name{Space: prefix, Local: local},
		Value: value,
	})
}

// SetText replaces the node's children with a single text node.
func (n *Node) SetText(s string) {
	if n == nil || n.node == nil {
		return
	}
	text := &xmlquery.Node{
		Type:   xmlquery.TextNode,
		Data:   s,
		Parent: n.node,
	}
	n.node.FirstChild = text
	n.node.LastChild = text
}

// AppendChild attaches child as the node's last child.
func (n *Node) AppendChild(child *Node) {
	if n == nil || n.node == nil || child == nil || child.node == nil {
		return
	}
	c := child.node
	c.Parent = n.node
	c.NextSibling = nil
	if n.node.LastChild == nil {
		c.PrevSibling = nil
		n.node.FirstChild = c
		n.node.LastChild = c
		return
	}
	c.PrevSibling = n.node.LastChild
	n.node.LastChild.NextSibling = c
	n.node.LastChild = c
}

// InsertAfter splices n into the tree as ref's immediate next sibling.
func InsertAfter(ref, n *Node) {
	if ref == nil || ref.node == nil || n == nil || n.node == nil {
		return
	}
	r, c := ref.node, n.node
	c.Parent = r.Parent
	c.PrevSibling = r
	c.NextSibling = r.NextSibling
	if r.NextSibling != nil {
		r.NextSibling.PrevSibling = c
	} else if r.Parent != nil {
		r.Parent.LastChild = c
	}
	r.NextSibling = c
}

// Detach removes the node from its parent, leaving siblings linked.
func (n *Node) Detach() {
	if n == nil || n.node == nil {
		return
	}
	cur := n.node
	if cur.Parent != nil {
		if cur.Parent.FirstChild == cur {
			cur.Parent.FirstChild = cur.NextSibling
		}
		if cur.Parent.LastChild == cur {
			cur.Parent.LastChild = cur.PrevSibling
		}
	}
	if cur.PrevSibling != nil {
		cur.PrevSibling.NextSibling = cur.NextSibling
	}
	if cur.NextSibling != nil {
		cur.NextSibling.PrevSibling = cur.PrevSibling
	}
	cur.Parent = nil
	cur.PrevSibling = nil
	cur.NextSibling = nil
}
