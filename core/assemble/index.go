// Package assemble drives the render: it indexes placeholder tokens across
// the deck, expands chunked readings into waterfall runs of duplicated
// slides, and fills everything else in place.
package assemble

import (
	"regexp"
	"sort"

	"github.com/autolectio/lectio/core/pptx"
	"github.com/autolectio/lectio/core/tokens"
	"github.com/autolectio/lectio/core/xml"
	"github.com/autolectio/lectio/internal/logging"
)

// tokenPattern matches placeholder literals in logical paragraph text.
var tokenPattern = regexp.MustCompile(`\{[A-Z_]+\}`)

// Location pins one token occurrence to a paragraph on a slide.
type Location struct {
	Slide     *pptx.Slide
	SlideIdx  int
	Paragraph *xml.Node
	Token     string
}

// Index maps each recognized token to its occurrences in document order.
type Index struct {
	locations map[string][]Location
}

// BuildIndex scans every slide in presentation order and every paragraph in
// tree order. Token matching runs on logical paragraph text, so tokens the
// editor split across runs are still found. A paragraph carrying more than
// one recognized token is indexed under the first only, with a warning; the
// rewrite contract (one token per paragraph) cannot honor both.
func BuildIndex(pkg *pptx.Package) *Index {
	log := logging.GetLogger()
	idx := &Index{locations: make(map[string][]Location)}

	for si, slide := range pkg.Slides() {
		for _, para := range slide.Paragraphs() {
			text := pptx.ParagraphText(para)
			var known []string
			for _, m := range tokenPattern.FindAllString(text, -1) {
				if tokens.IsKnown(m) && !contains(known, m) {
					known = append(known, m)
				}
			}
			if len(known) == 0 {
				continue
			}
			if len(known) > 1 {
				log.Warn("paragraph carries multiple tokens, indexing first only",
					"slide", si, "tokens", known)
			}
			tok := known[0]
			idx.locations[tok] = append(idx.locations[tok], Location{
				Slide:     slide,
				SlideIdx:  si,
				Paragraph: para,
				Token:     tok,
			})
		}
	}
	return idx
}

// Locations returns every occurrence of tok in document order.
func (idx *Index) Locations(tok string) []Location {
	return idx.locations[tok]
}

// Seed returns the first occurrence of tok. For chunkable tokens that slide
// is the seed of the waterfall; later occurrences are reported by the
// caller and left to the simple pass.
func (idx *Index) Seed(tok string) (Location, bool) {
	locs := idx.locations[tok]
	if len(locs) == 0 {
		return Location{}, false
	}
	return locs[0], true
}

// Has reports whether tok occurs anywhere in the deck.
func (idx *Index) Has(tok string) bool {
	return len(idx.locations[tok]) > 0
}

// Tokens returns the indexed tokens sorted by name.
func (idx *Index) Tokens() []string {
	out := make([]string, 0, len(idx.locations))
	for tok := range idx.locations {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
