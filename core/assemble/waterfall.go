package assemble

import (
	"github.com/autolectio/lectio/core/chunk"
	"github.com/autolectio/lectio/core/pptx"
	"github.com/autolectio/lectio/core/tokens"
)

// replaceOnSlide substitutes token on every paragraph of the slide.
func replaceOnSlide(s *pptx.Slide, token, value string) bool {
	replaced := false
	for _, para := range s.Paragraphs() {
		if pptx.ReplaceInParagraph(para, token, value) {
			replaced = true
		}
	}
	return replaced
}

// expandChain grows a waterfall for token starting at the seed slide. The
// previous slide is duplicated while the token is still present on it, and
// only then rewritten with its content item, so each copy inherits the
// formatting of the slide it extends. For N items exactly N-1 slides are
// created, each immediately after its predecessor; N==1 rewrites the seed
// in place and N==0 blanks the token.
func expandChain(pkg *pptx.Package, seed *pptx.Slide, token string, contents []string) (int, error) {
	if len(contents) == 0 {
		replaceOnSlide(seed, token, "")
		return 0, nil
	}
	prev := seed
	for i := 1; i < len(contents); i++ {
		dup, err := pkg.Duplicate(prev, pkg.SlideIndex(prev))
		if err != nil {
			return i - 1, err
		}
		replaceOnSlide(prev, token, contents[i-1])
		prev = dup
	}
	replaceOnSlide(prev, token, contents[len(contents)-1])
	return len(contents) - 1, nil
}

// expandPsalmPair grows the two interleaved chains of a dual-seed psalm
// layout. Each additional verse gets a refrain copy followed immediately by
// a verse copy, so the rendered deck alternates refrain and verse the way
// the assembly sings it.
func expandPsalmPair(pkg *pptx.Package, refrainSeed, verseSeed *pptx.Slide, refrain string, verses []string) (int, error) {
	if len(verses) == 0 {
		replaceOnSlide(refrainSeed, tokens.PsalmRefrainTxt, chunk.Normalize(refrain))
		replaceOnSlide(verseSeed, tokens.PsalmVerseTxt, "")
		return 0, nil
	}

	created := 0
	prevR, prevV := refrainSeed, verseSeed
	for i := 1; i < len(verses); i++ {
		dupR, err := pkg.Duplicate(prevR, pkg.SlideIndex(prevV))
		if err != nil {
			return created, err
		}
		created++
		dupV, err := pkg.Duplicate(prevV, pkg.SlideIndex(dupR))
		if err != nil {
			return created, err
		}
		created++

		replaceOnSlide(prevR, tokens.PsalmRefrainTxt, chunk.Normalize(refrain))
		replaceOnSlide(prevV, tokens.PsalmVerseTxt, verses[i-1])
		prevR, prevV = dupR, dupV
	}
	replaceOnSlide(prevR, tokens.PsalmRefrainTxt, chunk.Normalize(refrain))
	replaceOnSlide(prevV, tokens.PsalmVerseTxt, verses[len(verses)-1])
	return created, nil
}
