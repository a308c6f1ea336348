package xml

import (
	"bytes"
	"strings"

	"github.com/antchfx/xmlquery"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer(
		"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
		"\n", "&#10;", "\r", "&#13;", "\t", "&#9;",
	)
)

// EscapeText escapes character data for element content.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// EscapeAttr escapes character data for a double-quoted attribute value.
func EscapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

// Serialize writes the document back to bytes. Unlike a formatter, it
// preserves all text nodes (including inter-element whitespace) so an
// unmodified document round-trips to equivalent XML.
func (d *Document) Serialize() []byte {
	if d == nil || d.root == nil {
		return nil
	}
	var buf bytes.Buffer
	for child := d.root.FirstChild; child != nil; child = child.NextSibling {
		writeNode(&buf, child)
	}
	return buf.Bytes()
}

// SerializeNode writes a single node (and its subtree) to bytes.
func SerializeNode(n *Node) []byte {
	if n == nil || n.node == nil {
		return nil
	}
	var buf bytes.Buffer
	writeNode(&buf, n.node)
	return buf.Bytes()
}

func writeNode(w *bytes.Buffer, n *xmlquery.Node) {
	switch n.Type {
	case xmlquery.DeclarationNode:
		w.WriteString("<?")
		w.WriteString(n.Data)
		writeAttrs(w, n)
		w.WriteString("?>")

	case xmlquery.ElementNode:
		w.WriteString("<")
		writeName(w, n)
		writeAttrs(w, n)
		if n.FirstChild == nil {
			w.WriteString("/>")
			return
		}
		w.WriteString(">")
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			writeNode(w, child)
		}
		w.WriteString("</")
		writeName(w, n)
		w.WriteString(">")

	case xmlquery.TextNode:
		w.WriteString(EscapeText(n.Data))

	case xmlquery.CharDataNode:
		w.WriteString("<![CDATA[")
		w.WriteString(n.Data)
		w.WriteString("]]>")

	case xmlquery.CommentNode:
		w.WriteString("<!--")
		w.WriteString(n.Data)
		w.WriteString("-->")
	}
}

func writeName(w *bytes.Buffer, n *xmlquery.Node) {
	if n.Prefix != "" {
		w.WriteString(n.Prefix)
		w.WriteString(":")
	}
	w.WriteString(n.Data)
}

func writeAttrs(w *bytes.Buffer, n *xmlquery.Node) {
	for _, attr := range n.Attr {
		w.WriteString(" ")
		if attr.Name.Space != "" {
			w.WriteString(attr.Name.Space)
			w.WriteString(":")
		}
		w.WriteString(attr.Name.Local)
		w.WriteString(`="`)
		w.WriteString(EscapeAttr(attr.Value))
		w.WriteString(`"`)
	}
}
