// Package tokens defines the fixed placeholder lexicon the assembly engine
// recognizes: one liturgical day token, per-slot reference and body tokens,
// the psalm dual-seed variants, and the hymn tokens that are detected but
// never touched.
package tokens

// Placeholder token literals as they appear in template text.
const (
	LiturgicalDay = "{LITURGICAL_DAY}"

	FirstReadingRef  = "{FIRST_READING_REF}"
	FirstReadingTxt  = "{FIRST_READING_TXT}"
	PsalmRef         = "{PSALM_REF}"
	PsalmTxt         = "{PSALM_TXT}"
	SecondReadingRef = "{SECOND_READING_REF}"
	SecondReadingTxt = "{SECOND_READING_TXT}"
	AcclamationRef   = "{ACCLAMATION_REF}"
	AcclamationTxt   = "{ACCLAMATION_TXT}"
	GospelRef        = "{GOSPEL_REF}"
	GospelTxt        = "{GOSPEL_TXT}"

	// Dual-seed psalm layout. Templates that carry both drive two
	// interleaved waterfall chains instead of a single {PSALM_TXT} chain.
	PsalmRefrainTxt = "{PSALM_REFRAIN_TXT}"
	PsalmVerseTxt   = "{PSALM_VERSE_TXT}"

	// Hymn and ritual tokens are recognized so the unresolved-token sweep
	// does not flag them, but they are left literally in place.
	EntranceHymn    = "{ENTRANCE_HYMN}"
	OffertoryHymn   = "{OFFERTORY_HYMN}"
	MysteryOfFaith  = "{MYSTERY_OF_FAITH}"
	CommunionHymn   = "{COMMUNION_HYMN}"
	RecessionalHymn = "{RECESSIONAL_HYMN}"
)

// Slot identifies one liturgical reading component.
type Slot int

const (
	FirstReading Slot = iota
	Psalm
	SecondReading
	Acclamation
	Gospel
)

// String returns a stable lowercase name for the slot.
func (s Slot) String() string {
	switch s {
	case FirstReading:
		return "first-reading"
	case Psalm:
		return "psalm"
	case SecondReading:
		return "second-reading"
	case Acclamation:
		return "acclamation"
	case Gospel:
		return "gospel"
	default:
		return "unknown"
	}
}

// Ref returns the slot's reference token.
func (s Slot) Ref() string {
	switch s {
	case FirstReading:
		return FirstReadingRef
	case Psalm:
		return PsalmRef
	case SecondReading:
		return SecondReadingRef
	case Acclamation:
		return AcclamationRef
	case Gospel:
		return GospelRef
	default:
		return ""
	}
}

// Body returns the slot's body token.
func (s Slot) Body() string {
	switch s {
	case FirstReading:
		return FirstReadingTxt
	case Psalm:
		return PsalmTxt
	case SecondReading:
		return SecondReadingTxt
	case Acclamation:
		return AcclamationTxt
	case Gospel:
		return GospelTxt
	default:
		return ""
	}
}

// Slots lists all reading slots in liturgical order.
func Slots() []Slot {
	return []Slot{FirstReading, Psalm, SecondReading, Acclamation, Gospel}
}

// Chunkable lists the body tokens that expand into waterfall chains, in
// liturgical order. The acclamation body is deliberately absent: it is
// always short enough for a single slide.
func Chunkable() []string {
	return []string{FirstReadingTxt, PsalmTxt, SecondReadingTxt, GospelTxt}
}

// IsChunkable reports whether tok drives a waterfall expansion.
func IsChunkable(tok string) bool {
	switch tok {
	case FirstReadingTxt, PsalmTxt, SecondReadingTxt, GospelTxt:
		return true
	}
	return false
}

// Ignored lists the hymn/ritual tokens that are never rewritten.
func Ignored() []string {
	return []string{EntranceHymn, OffertoryHymn, MysteryOfFaith, CommunionHymn, RecessionalHymn}
}

// IsIgnored reports whether tok must be left literally in place.
func IsIgnored(tok string) bool {
	switch tok {
	case EntranceHymn, OffertoryHymn, MysteryOfFaith, CommunionHymn, RecessionalHymn:
		return true
	}
	return false
}

// Simple lists the non-chunkable tokens the simple pass resolves: the day
// token, the five reference tokens, and the acclamation body.
func Simple() []string {
	return []string{
		LiturgicalDay,
		FirstReadingRef,
		PsalmRef,
		SecondReadingRef,
		AcclamationRef,
		AcclamationTxt,
		GospelRef,
	}
}

// Known lists every token the engine recognizes, including the ignored
// hymn tokens and the psalm dual-seed variants.
func Known() []string {
	out := append([]string{}, Simple()...)
	out = append(out, Chunkable()...)
	out = append(out, PsalmRefrainTxt, PsalmVerseTxt)
	out = append(out, Ignored()...)
	return out
}

// IsKnown reports whether tok belongs to the fixed lexicon.
func IsKnown(tok string) bool {
	for _, k := range Known() {
		if k == tok {
			return true
		}
	}
	return false
}
