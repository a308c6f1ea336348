package lectionary

import (
	"regexp"
	"strings"

	"github.com/autolectio/lectio/core/chunk"
)

// NormalizeText canonicalizes line endings, trims trailing space per line
// and collapses runs of blank lines to at most one.
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimRight(ln, " \t")
	}
	out := strings.Join(lines, "\n")
	out = multiBlank.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

var multiBlank = regexp.MustCompile(`\n{3,}`)

// Abbreviations whose trailing period must not end a sentence.
var protectedAbbrevs = []string{"Sr.", "Sra.", "Dr.", "Dra.", "p.ej.", "etc."}

// sentenceEnd finds terminal punctuation; the following rune check keeps
// splits at likely sentence starts only.
var sentenceEnd = regexp.MustCompile(`([.!?…])\s+(["“¿¡A-ZÁÉÍÓÚÜÑ])`)

// SplitSentences splits Spanish prose into sentences, protecting common
// abbreviations from being treated as sentence ends.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	for i, abbr := range protectedAbbrevs {
		text = strings.ReplaceAll(text, abbr, protectedForm(i))
	}

	marked := sentenceEnd.ReplaceAllString(text, "$1\x00$2")
	var out []string
	for _, part := range strings.Split(marked, "\x00") {
		for i, abbr := range protectedAbbrevs {
			part = strings.ReplaceAll(part, protectedForm(i), abbr)
		}
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func protectedForm(i int) string {
	return "\x01" + string(rune('a'+i)) + "\x01"
}

var clauseEnd = regexp.MustCompile(`([,;:])\s+`)

// Chunkify splits body text into slide-sized chunks: whole sentences are
// packed up to maxChars; a sentence past the bound is split at clause
// punctuation, and a clause still past it is wrapped by words. A tiny
// trailing chunk is merged back when the result stays within bounds.
func Chunkify(text string, maxChars, minChars int) []string {
	if maxChars <= 0 {
		maxChars = chunk.DefaultTargetMax
	}
	if minChars <= 0 {
		minChars = chunk.DefaultTargetMin
	}
	text = NormalizeText(text)
	if text == "" {
		return nil
	}

	var chunks []string
	var buf []string
	push := func() {
		if s := strings.TrimSpace(strings.Join(buf, " ")); s != "" {
			chunks = append(chunks, s)
		}
		buf = buf[:0]
	}

	for _, sent := range SplitSentences(text) {
		if len(strings.TrimSpace(strings.Join(append(append([]string{}, buf...), sent), " "))) <= maxChars {
			buf = append(buf, sent)
			continue
		}
		push()
		if len(sent) <= maxChars {
			buf = append(buf, sent)
			continue
		}

		// Sentence too long on its own: split at clause punctuation.
		clauses := splitKeeping(clauseEnd, sent)
		var clauseBuf []string
		for _, cl := range clauses {
			cand := strings.TrimSpace(strings.Join(append(append([]string{}, clauseBuf...), cl), " "))
			if len(cand) <= maxChars {
				clauseBuf = append(clauseBuf, cl)
				continue
			}
			if s := strings.TrimSpace(strings.Join(clauseBuf, " ")); s != "" {
				chunks = append(chunks, s)
			}
			clauseBuf = clauseBuf[:0]

			if len(cl) <= maxChars {
				clauseBuf = append(clauseBuf, cl)
				continue
			}
			// Last resort: wrap the clause by words.
			var wbuf []string
			for _, w := range strings.Fields(cl) {
				cand := strings.TrimSpace(strings.Join(append(append([]string{}, wbuf...), w), " "))
				if len(cand) <= maxChars {
					wbuf = append(wbuf, w)
					continue
				}
				if s := strings.Join(wbuf, " "); s != "" {
					chunks = append(chunks, s)
				}
				wbuf = []string{w}
			}
			if s := strings.Join(wbuf, " "); s != "" {
				chunks = append(chunks, s)
			}
		}
		if s := strings.TrimSpace(strings.Join(clauseBuf, " ")); s != "" {
			chunks = append(chunks, s)
		}
	}
	push()

	// Avoid a tiny trailing chunk when its predecessor can absorb it.
	if n := len(chunks); n >= 2 && len(chunks[n-1]) < minChars {
		if merged := chunks[n-2] + " " + chunks[n-1]; len(merged) <= maxChars {
			chunks[n-2] = merged
			chunks = chunks[:n-1]
		}
	}
	return chunks
}

// splitKeeping splits after each match of re, keeping the matched
// punctuation at the end of the preceding piece.
func splitKeeping(re *regexp.Regexp, s string) []string {
	marked := re.ReplaceAllString(s, "$1\x00")
	var out []string
	for _, part := range strings.Split(marked, "\x00") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
