package lectionary

import (
	"regexp"
	"strings"
	"time"

	"github.com/autolectio/lectio/core/payload"
	"github.com/autolectio/lectio/core/tokens"
)

var psalmHeaderPrefix = regexp.MustCompile(`(?i)^salmo\s+responsorial\s+`)

// Placeholders maps parsed sections onto the token lexicon: references get
// their spoken announcement phrasing, bodies are carried as-is.
func Placeholders(itemTitle string, sections []Section) map[string]string {
	ph := map[string]string{tokens.LiturgicalDay: itemTitle}

	for _, sec := range sections {
		switch sec.Kind() {
		case KindFirst:
			ph[tokens.FirstReadingRef] = FirstReadingIntro(sec.Header)
			ph[tokens.FirstReadingTxt] = sec.Body
		case KindPsalm:
			ph[tokens.PsalmRef] = strings.TrimSpace(psalmHeaderPrefix.ReplaceAllString(sec.Header, ""))
			ph[tokens.PsalmTxt] = sec.Body
		case KindSecond:
			ph[tokens.SecondReadingRef] = SecondReadingIntro(sec.Header)
			ph[tokens.SecondReadingTxt] = sec.Body
		case KindAcclamation:
			ph[tokens.AcclamationRef] = AcclamationRef(sec.Body)
			ph[tokens.AcclamationTxt] = NormalizeAcclamation(sec.Body)
		case KindGospel:
			ph[tokens.GospelRef] = GospelName(sec.Header)
			ph[tokens.GospelTxt] = sec.Body
		}
	}
	return ph
}

// MakeChunks pre-chunks the long body fields that can span slides.
func MakeChunks(ph map[string]string, maxChars, minChars int) map[string][]string {
	out := make(map[string][]string)
	for _, tok := range tokens.Chunkable() {
		if txt := strings.TrimSpace(ph[tok]); txt != "" {
			out[tok] = Chunkify(txt, maxChars, minChars)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// BuildPayload assembles the render payload for one feed item. Placeholder
// values keep their line structure (the psalm splitter needs it); chunk
// lists are already normalized by Chunkify.
func BuildPayload(d time.Time, item *Item, ph map[string]string, chunks map[string][]string) *payload.Payload {
	normalized := make(map[string]string, len(ph))
	for k, v := range ph {
		normalized[k] = NormalizeText(v)
	}
	return &payload.Payload{
		Meta: map[string]string{
			"date":     d.Format("2006-01-02"),
			"language": "es-US",
			"source":   "usccb_rss",
			"link":     item.Link,
			"title":    item.Title,
		},
		Placeholders: normalized,
		Chunks:       chunks,
	}
}
