// Package ref parses Spanish lectionary scripture references as the feed
// prints them: "Lc 14, 1. 7-14", "Eclo 3, 17-18. 20. 28-29", "1 Cor 15, 20-27".
// The chapter/verse separator is a comma and verse groups are separated by
// periods, the Spanish typographic convention.
package ref

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Span is one contiguous verse group, possibly with subdivision letters
// ("7-14", "20", "11b-12a").
type Span struct {
	Start    int
	StartSub string
	End      int
	EndSub   string
}

// String renders the span in feed notation.
func (s Span) String() string {
	out := strconv.Itoa(s.Start) + s.StartSub
	if s.End > 0 {
		out += "-" + strconv.Itoa(s.End) + s.EndSub
	}
	return out
}

// Ref is a parsed reference. Book keeps the name exactly as written
// (abbreviated or full), with any leading book number separated out.
type Ref struct {
	BookNumber int    // 1 for "1 Cor", 0 when absent
	Book       string // "Lc", "Eclo", "Juan"
	Chapter    int
	Verses     []Span
}

// String renders the reference back in feed notation.
func (r *Ref) String() string {
	var sb strings.Builder
	if r.BookNumber > 0 {
		sb.WriteString(strconv.Itoa(r.BookNumber))
		sb.WriteString(" ")
	}
	sb.WriteString(r.Book)
	if r.Chapter > 0 {
		sb.WriteString(" ")
		sb.WriteString(strconv.Itoa(r.Chapter))
	}
	for i, v := range r.Verses {
		if i == 0 {
			sb.WriteString(", ")
		} else {
			sb.WriteString(". ")
		}
		sb.WriteString(v.String())
	}
	return sb.String()
}

//nolint:govet // participle grammar tags are not standard struct tags
type refGrammar struct {
	BookNumber string     `@Int?`
	Book       []string   `@Word+`
	Chapter    int        `@Int`
	Verses     []spanPart `( "," @@ ( "." @@ )* )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type spanPart struct {
	Start    int     `@Int`
	StartSub *string `@Sub?`
	End      *int    `( "-" @Int`
	EndSub   *string `@Sub? )?`
}

// Book words start uppercase (the feed capitalizes them), which keeps the
// single-lowercase-letter Sub token unambiguous.
var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Word", Pattern: `[A-ZÁÉÍÓÚÑ][A-Za-zÁÉÍÓÚÑáéíóúüñ]*`},
	{Name: "Sub", Pattern: `[a-z]`},
	{Name: "Punct", Pattern: `[,.\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var refParser = participle.MustBuild[refGrammar](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
)

// Parse parses a reference string.
func Parse(s string) (*Ref, error) {
	s = normalize(s)
	if s == "" {
		return nil, fmt.Errorf("empty reference")
	}
	parsed, err := refParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("invalid reference %q: %w", s, err)
	}

	ref := &Ref{
		Book:    strings.Join(parsed.Book, " "),
		Chapter: parsed.Chapter,
	}
	if parsed.BookNumber != "" {
		n, err := strconv.Atoi(parsed.BookNumber)
		if err != nil || n < 1 || n > 3 {
			return nil, fmt.Errorf("invalid book number %q in %q", parsed.BookNumber, s)
		}
		ref.BookNumber = n
	}
	for _, v := range parsed.Verses {
		span := Span{Start: v.Start}
		if v.StartSub != nil {
			span.StartSub = *v.StartSub
		}
		if v.End != nil {
			span.End = *v.End
		}
		if v.EndSub != nil {
			span.EndSub = *v.EndSub
		}
		ref.Verses = append(ref.Verses, span)
	}
	return ref, nil
}

// candidate matches the shortest text run that can hold a reference: an
// optional book number, one or more capitalized words, then digits.
var candidate = regexp.MustCompile(`(?:[123]\s+)?(?:[A-ZÁÉÍÓÚÑ][A-Za-zÁÉÍÓÚÑáéíóúüñ]*\s+)+\d+(?:\s*,\s*\d+[a-z]?(?:\s*-\s*\d+[a-z]?)?(?:\s*\.\s*\d+[a-z]?(?:\s*-\s*\d+[a-z]?)?)*)?`)

// Find extracts the first parseable reference from free text, such as a
// reading header line ("Evangelio Lc 14, 1. 7-14"). Returns nil when the
// text holds none.
func Find(text string) *Ref {
	text = normalize(text)
	for _, m := range candidate.FindAllString(text, -1) {
		// The match may open with header words ("Evangelio Lc 14, ..."),
		// so take the shortest suffix that still parses and then pull a
		// book number ("1 Cor") back in if one precedes it.
		words := strings.Fields(m)
		for i := len(words) - 1; i >= 0; i-- {
			r, err := Parse(strings.Join(words[i:], " "))
			if err != nil {
				continue
			}
			if i > 0 && r.BookNumber == 0 {
				if numbered, err := Parse(strings.Join(words[i-1:], " ")); err == nil && numbered.BookNumber > 0 {
					return numbered
				}
			}
			return r
		}
	}
	return nil
}

func normalize(s string) string {
	s = strings.ReplaceAll(s, "–", "-")
	s = strings.ReplaceAll(s, "—", "-")
	return strings.Join(strings.Fields(s), " ")
}
