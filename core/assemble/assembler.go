package assemble

import (
	"fmt"
	"sort"
	"strings"

	"github.com/autolectio/lectio/core/chunk"
	"github.com/autolectio/lectio/core/errors"
	"github.com/autolectio/lectio/core/payload"
	"github.com/autolectio/lectio/core/pptx"
	"github.com/autolectio/lectio/core/tokens"
	"github.com/autolectio/lectio/internal/logging"
)

// Options tunes one assembly run.
type Options struct {
	TargetMin int  // chunk packing lower bound, 0 for default
	TargetMax int  // chunk packing upper bound, 0 for default
	Verbose   bool // per-slide inventories and chunk previews at debug level
}

// Result reports what one run did and every recoverable condition it hit.
type Result struct {
	SlideCount    int      // slides in the finished deck
	SlidesCreated int      // slides minted by waterfall expansion
	MissingSeeds  []string // chunkable tokens that fell back to simple replace
	Oversized     []string // "token[i]" for chunks past the packing bound
	Unresolved    []string // recognized tokens still literally present
}

// Complete reports whether every recognized, non-ignored token was resolved.
func (r *Result) Complete() bool {
	return len(r.Unresolved) == 0
}

// slot is one pending waterfall expansion, ordered by seed position.
type slot struct {
	token    string
	seedIdx  int
	seed     *pptx.Slide
	contents []string

	// dual-seed psalm layout
	psalmPair bool
	verseSeed *pptx.Slide
	refrain   string
	verses    []string
}

// Assemble fills the deck from the payload: first a document-wide simple
// pass over every non-chunkable token, then the waterfall pass with all
// seed positions fixed up front and slots expanded from the back of the
// deck forward, so insertions never land inside a not-yet-expanded region.
func Assemble(pkg *pptx.Package, pl *payload.Payload, opts Options) (*Result, error) {
	log := logging.GetLogger()
	if opts.TargetMin <= 0 {
		opts.TargetMin = chunk.DefaultTargetMin
	}
	if opts.TargetMax <= 0 {
		opts.TargetMax = chunk.DefaultTargetMax
	}

	idx := BuildIndex(pkg)
	if opts.Verbose {
		logInventory(pkg, idx)
	}

	res := &Result{}

	// Simple pass. Known non-chunkable tokens the payload does not carry
	// are blanked rather than left visible on screen.
	for _, tok := range tokens.Simple() {
		value := chunk.Normalize(pl.Value(tok))
		n := 0
		for _, s := range pkg.Slides() {
			if replaceOnSlide(s, tok, value) {
				n++
			}
		}
		if n > 0 && value == "" {
			log.Warn("blanked simple token with no payload value", "token", tok)
		}
	}

	slots, err := buildSlots(pkg, pl, idx, opts, res)
	if err != nil {
		return nil, err
	}

	// Back of the deck first.
	sort.Slice(slots, func(i, j int) bool { return slots[i].seedIdx > slots[j].seedIdx })

	for _, sl := range slots {
		var created int
		var err error
		if sl.psalmPair {
			created, err = expandPsalmPair(pkg, sl.seed, sl.verseSeed, sl.refrain, sl.verses)
		} else {
			created, err = expandChain(pkg, sl.seed, sl.token, sl.contents)
		}
		res.SlidesCreated += created
		if err != nil {
			return nil, err
		}
		if opts.Verbose {
			log.Debug("expanded waterfall",
				"token", sl.token, "seed", sl.seedIdx, "created", created)
		}
	}

	sweepUnresolved(pkg, res)
	res.SlideCount = len(pkg.Slides())

	log.Info("assembly finished",
		"slides", res.SlideCount,
		"created", res.SlidesCreated,
		"missing_seeds", len(res.MissingSeeds),
		"unresolved", len(res.Unresolved))
	return res, nil
}

// buildSlots fixes every seed position before any slide is inserted and
// prepares each chunkable token's content sequence.
func buildSlots(pkg *pptx.Package, pl *payload.Payload, idx *Index, opts Options, res *Result) ([]slot, error) {
	log := logging.GetLogger()
	var slots []slot

	// Dual-seed psalm layout takes the psalm slot over {PSALM_TXT}.
	psalmDual := idx.Has(tokens.PsalmRefrainTxt) && idx.Has(tokens.PsalmVerseTxt)
	if psalmDual {
		refrain, verses := chunk.SplitPsalm(pl.Value(tokens.PsalmTxt))
		if refrain == "" {
			// No refrain marker: sing the whole text as verses off the
			// verse seed and blank the refrain.
			verses = chunk.Pack([]string{pl.Value(tokens.PsalmTxt)}, opts.TargetMin, opts.TargetMax)
		}
		rSeed, _ := idx.Seed(tokens.PsalmRefrainTxt)
		vSeed, _ := idx.Seed(tokens.PsalmVerseTxt)
		seedIdx := rSeed.SlideIdx
		if vSeed.SlideIdx < seedIdx {
			seedIdx = vSeed.SlideIdx
		}
		slots = append(slots, slot{
			token:     tokens.PsalmRefrainTxt,
			seedIdx:   seedIdx,
			seed:      rSeed.Slide,
			psalmPair: true,
			verseSeed: vSeed.Slide,
			refrain:   refrain,
			verses:    verses,
		})
	}

	for _, tok := range tokens.Chunkable() {
		if tok == tokens.PsalmTxt && psalmDual {
			continue
		}
		contents, ok := pl.Contents(tok)
		if !ok {
			// No content at all (e.g. ferial day without a second
			// reading): blank any occurrence and move on.
			for _, loc := range idx.Locations(tok) {
				pptx.ReplaceInParagraph(loc.Paragraph, tok, "")
			}
			continue
		}

		contents = prepareContents(tok, contents, pl, opts)
		for _, i := range chunk.Oversized(contents, opts.TargetMax) {
			res.Oversized = append(res.Oversized, fmt.Sprintf("%s[%d]", tok, i))
			log.Warn("chunk exceeds slide bound", "token", tok, "index", i, "len", len(contents[i]))
		}

		seed, ok := idx.Seed(tok)
		if !ok {
			// Recoverable: replace the token wherever plain text search
			// finds it and keep going.
			res.MissingSeeds = append(res.MissingSeeds, tok)
			log.Warn("no seed slide, falling back to simple replace",
				"token", tok, "err", errors.NewSeedNotFound(tok))
			full := chunk.Normalize(strings.Join(contents, " "))
			for _, s := range pkg.Slides() {
				replaceOnSlide(s, tok, full)
			}
			continue
		}
		if locs := idx.Locations(tok); len(locs) > 1 {
			log.Warn("token occurs on multiple slides, first is the seed",
				"token", tok, "occurrences", len(locs))
		}
		if opts.Verbose {
			log.Debug("waterfall slot",
				"token", tok, "seed", seed.SlideIdx,
				"chunks", len(contents), "preview", preview(contents[0]))
		}
		slots = append(slots, slot{token: tok, seedIdx: seed.SlideIdx, seed: seed.Slide, contents: contents})
	}
	return slots, nil
}

// prepareContents normalizes and packs a token's chunk sequence. The psalm
// body, when it carries a refrain marker, becomes refrain/verse pairs so a
// single-seed layout still alternates.
func prepareContents(tok string, contents []string, pl *payload.Payload, opts Options) []string {
	if tok == tokens.PsalmTxt {
		refrain, verses := chunk.SplitPsalm(pl.Value(tokens.PsalmTxt))
		if refrain != "" && len(verses) > 0 {
			return chunk.Pairs(refrain, verses)
		}
	}
	return chunk.Pack(contents, opts.TargetMin, opts.TargetMax)
}

// sweepUnresolved records any recognized, non-ignored token still readable
// in the finished deck.
func sweepUnresolved(pkg *pptx.Package, res *Result) {
	log := logging.GetLogger()
	seen := make(map[string]bool)
	for si, s := range pkg.Slides() {
		for _, m := range tokenPattern.FindAllString(s.Text(), -1) {
			if !tokens.IsKnown(m) || tokens.IsIgnored(m) || seen[m] {
				continue
			}
			seen[m] = true
			res.Unresolved = append(res.Unresolved, m)
			log.Warn("token unresolved after assembly", "token", m, "slide", si)
		}
	}
	sort.Strings(res.Unresolved)
}

func logInventory(pkg *pptx.Package, idx *Index) {
	log := logging.GetLogger()
	for _, tok := range idx.Tokens() {
		var at []int
		for _, loc := range idx.Locations(tok) {
			at = append(at, loc.SlideIdx)
		}
		log.Debug("token inventory", "token", tok, "slides", at)
	}
	log.Debug("deck", "slides", len(pkg.Slides()))
}

func preview(s string) string {
	const max = 40
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
