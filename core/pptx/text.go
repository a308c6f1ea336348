package pptx

import (
	"strings"

	"github.com/autolectio/lectio/core/xml"
)

// Paragraphs returns every text paragraph on the slide in tree order,
// descending into group shapes and table cells.
func (s *Slide) Paragraphs() []*xml.Node {
	var out []*xml.Node
	for _, p := range s.doc.Root().FindAll("p") {
		if p.Prefix() == "a" {
			out = append(out, p)
		}
	}
	return out
}

// Text returns the slide's full visible text, paragraphs joined by newlines.
func (s *Slide) Text() string {
	var parts []string
	for _, p := range s.Paragraphs() {
		if t := ParagraphText(p); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

// ParagraphText returns the paragraph's logical text, run texts concatenated
// in order. A token split across runs by the editor is visible here even
// though no single run contains it.
func ParagraphText(p *xml.Node) string {
	var b strings.Builder
	for _, r := range paragraphRuns(p) {
		if t := r.FindFirst("t"); t != nil {
			b.WriteString(t.Text())
		}
	}
	return b.String()
}

// paragraphRuns returns the paragraph's direct a:r children.
func paragraphRuns(p *xml.Node) []*xml.Node {
	var runs []*xml.Node
	for _, child := range p.Children() {
		if child.LocalName() == "r" {
			runs = append(runs, child)
		}
	}
	return runs
}

// ReplaceInParagraph substitutes every occurrence of token in the
// paragraph's logical text. All runs after the first are removed and the
// replaced text lands in the first run, which keeps that run's formatting
// and drops the rest. Returns false when the token is absent or the
// paragraph has no runs to write into.
func ReplaceInParagraph(p *xml.Node, token, replacement string) bool {
	text := ParagraphText(p)
	if !strings.Contains(text, token) {
		return false
	}
	runs := paragraphRuns(p)
	if len(runs) == 0 {
		return false
	}
	replaced := strings.ReplaceAll(text, token, replacement)
	for _, r := range runs[1:] {
		r.Detach()
	}
	setRunText(runs[0], replaced)
	return true
}

func setRunText(r *xml.Node, text string) {
	t := r.FindFirst("t")
	if t == nil {
		t = xml.NewElement("a", "t")
		r.AppendChild(t)
	}
	t.SetText(text)
	if text != strings.TrimSpace(text) {
		t.SetAttr("xml", "space", "preserve")
	}
}
