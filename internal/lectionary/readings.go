package lectionary

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/autolectio/lectio/core/errors"
)

// Kind classifies a reading section by its header.
type Kind int

const (
	KindOther Kind = iota
	KindFirst
	KindPsalm
	KindSecond
	KindAcclamation
	KindGospel
)

// Section is one reading block from the feed description: the header line
// ("Evangelio Lc 14, 1. 7-14") and the body text with line structure kept.
type Section struct {
	Header string
	Body   string
}

// Kind returns the section's classification.
func (s Section) Kind() Kind {
	return Classify(s.Header)
}

// Classify maps a section header onto its reading slot.
func Classify(header string) Kind {
	h := strings.ToLower(strings.TrimSpace(header))
	switch {
	case strings.HasPrefix(h, "primera lectura"):
		return KindFirst
	case strings.HasPrefix(h, "segunda lectura"):
		return KindSecond
	case strings.HasPrefix(h, "salmo responsorial"):
		return KindPsalm
	case strings.HasPrefix(h, "aclamación antes del evangelio"):
		return KindAcclamation
	case strings.HasPrefix(h, "evangelio"):
		return KindGospel
	}
	return KindOther
}

// StripFooter drops everything from the feed's "- - -" separator on; the
// tail is boilerplate, not readings.
func StripFooter(descHTML string) string {
	if i := strings.Index(descHTML, "- - -"); i >= 0 {
		return descHTML[:i]
	}
	return descHTML
}

// ParseSections extracts reading sections from description HTML. Each
// section is an h4 header followed by a div carrying the "poetry" class;
// headers without such a div are skipped.
func ParseSections(descHTML string) ([]Section, error) {
	root, err := html.Parse(strings.NewReader(descHTML))
	if err != nil {
		return nil, errors.NewParse("HTML", "", err.Error())
	}

	var sections []Section
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == "h4" {
				if div := nextPoetryDiv(c); div != nil {
					sections = append(sections, Section{
						Header: headerText(c),
						Body:   divToText(div),
					})
				}
				continue
			}
			walk(c)
		}
	}
	walk(root)
	return sections, nil
}

// headerText joins the header's text nodes with single spaces.
func headerText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				if t := strings.TrimSpace(c.Data); t != "" {
					parts = append(parts, t)
				}
			}
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// nextPoetryDiv finds the h4's next sibling element that is a div with the
// poetry class.
func nextPoetryDiv(h4 *html.Node) *html.Node {
	for c := h4.NextSibling; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if c.Data == "div" && hasClass(c, "poetry") {
			return c
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// divToText flattens a poetry div: br becomes a line break, each p becomes
// a block, blocks separated by a blank line. Leading and trailing space on
// every line is dropped.
func divToText(div *html.Node) string {
	var blocks []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == "p" {
				var b strings.Builder
				flattenText(c, &b)
				var lines []string
				for _, ln := range strings.Split(b.String(), "\n") {
					if ln = strings.TrimSpace(ln); ln != "" {
						lines = append(lines, ln)
					}
				}
				if len(lines) > 0 {
					blocks = append(blocks, strings.Join(lines, "\n"))
				}
				continue
			}
			walk(c)
		}
	}
	walk(div)
	return strings.TrimSpace(strings.Join(blocks, "\n\n"))
}

func flattenText(n *html.Node, b *strings.Builder) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			b.WriteString(c.Data)
		case c.Type == html.ElementNode && c.Data == "br":
			b.WriteString("\n")
		default:
			flattenText(c, b)
		}
	}
}
