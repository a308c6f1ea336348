package chunk

import (
	"regexp"
	"strings"
)

// Role distinguishes the two kinds of psalm slide content.
type Role int

const (
	// RoleRefrain is the assembly's response, sung before every verse.
	RoleRefrain Role = iota
	// RoleVerse is one verse block of the psalm body.
	RoleVerse
)

// String returns "refrain" or "verse".
func (r Role) String() string {
	if r == RoleRefrain {
		return "refrain"
	}
	return "verse"
}

// Part is one slide's worth of psalm content.
type Part struct {
	Role Role
	Text string
}

// Alternate interleaves the refrain before every verse: the result has
// exactly 2×len(verses) entries, with entry 2i the refrain and entry 2i+1
// verse i. Zero verses yield an empty sequence; the caller then fills the
// refrain into the seed slide once, with no expansion.
func Alternate(refrain string, verses []string) []Part {
	parts := make([]Part, 0, 2*len(verses))
	for _, v := range verses {
		parts = append(parts, Part{Role: RoleRefrain, Text: refrain})
		parts = append(parts, Part{Role: RoleVerse, Text: v})
	}
	return parts
}

// Pairs renders the alternation for templates with a single psalm seed
// slide: each verse becomes one chunk holding its refrain and verse joined
// with a role-distinguishing separator ("R." marks the refrain, "/" ends
// it, as in printed missals).
func Pairs(refrain string, verses []string) []string {
	out := make([]string, 0, len(verses))
	for _, v := range verses {
		out = append(out, "R. "+refrain+" / "+v)
	}
	return out
}

// Refrain lines look like "R. ...", "R/ ..." or "R. (7a) ...". The marker
// must be followed by whitespace so verse lines starting with an R word
// ("Roca...") are not mistaken for refrains.
var (
	refrainLine  = regexp.MustCompile(`^R[./]?(\s*\([^)]*\))?\s+`)
	refrainStrip = regexp.MustCompile(`^R[./]?\s*(\([^)]*\))?\s*`)
)

// SplitPsalm separates a raw psalm body into its refrain and verse blocks.
// Lines carrying the refrain marker set the refrain, marker stripped (the
// first wins; the feed repeats it verbatim before every verse); runs of
// other lines between markers form one verse each, joined with single
// spaces.
func SplitPsalm(text string) (refrain string, verses []string) {
	var current []string
	flush := func() {
		if len(current) > 0 {
			verses = append(verses, strings.Join(current, " "))
			current = nil
		}
	}

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if refrainLine.MatchString(line) || strings.HasPrefix(line, "R.") {
			flush()
			if refrain == "" {
				refrain = Normalize(refrainStrip.ReplaceAllString(line, ""))
			}
			continue
		}
		current = append(current, line)
	}
	flush()
	return refrain, verses
}
