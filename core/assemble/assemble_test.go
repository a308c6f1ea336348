package assemble

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/autolectio/lectio/core/payload"
	"github.com/autolectio/lectio/core/pptx"
	"github.com/autolectio/lectio/core/tokens"
)

const slideRelType = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"

// buildDeck assembles an in-memory deck with one paragraph per slide text.
func buildDeck(t *testing.T, slideTexts []string) *pptx.Package {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	write := func(name, data string) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(data)); err != nil {
			t.Fatal(err)
		}
	}

	ct := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`
	for i := range slideTexts {
		ct += fmt.Sprintf(`<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i+1)
	}
	ct += `</Types>`
	write("[Content_Types].xml", ct)

	pres := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<p:presentation xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
		`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:sldIdLst>`
	rels := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`
	for i := range slideTexts {
		pres += fmt.Sprintf(`<p:sldId id="%d" r:id="rId%d"/>`, 256+i, i+1)
		rels += fmt.Sprintf(`<Relationship Id="rId%d" Type="%s" Target="slides/slide%d.xml"/>`, i+1, slideRelType, i+1)
	}
	pres += `</p:sldIdLst></p:presentation>`
	rels += `</Relationships>`
	write("ppt/presentation.xml", pres)
	write("ppt/_rels/presentation.xml.rels", rels)

	for i, text := range slideTexts {
		write(fmt.Sprintf("ppt/slides/slide%d.xml", i+1),
			`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
				`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" `+
				`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" `+
				`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`+
				`<p:cSld><p:spTree><p:sp><p:txBody><a:bodyPr/><a:p><a:r><a:rPr lang="es-ES"/><a:t>`+
				text+
				`</a:t></a:r></a:p></p:txBody></p:sp></p:spTree></p:cSld></p:sld>`)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	pkg, err := pptx.OpenBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("open fixture deck: %v", err)
	}
	return pkg
}

func basePayload() *payload.Payload {
	return &payload.Payload{
		Placeholders: map[string]string{
			tokens.LiturgicalDay:   "XXII Domingo Ordinario",
			tokens.FirstReadingRef: "Eclo 3, 17-18",
			tokens.FirstReadingTxt: "Hijo mío, en tus asuntos procede con humildad.",
			tokens.PsalmRef:        "Sal 67",
			tokens.PsalmTxt: "R. Dios prepara casa a los pobres.\n" +
				"Los justos se alegran ante el Señor.\n" +
				"R. Dios prepara casa a los pobres.\n" +
				"Padre de huérfanos y defensor de viudas.",
			tokens.AcclamationTxt:  "Aleluya. Toma mi yugo sobre ti. Aleluya.",
			tokens.GospelRef:       "Lc 14, 1. 7-14",
			tokens.GospelTxt:       "Un sábado, Jesús fue a comer en casa de un fariseo.",
		},
	}
}

func texts(pkg *pptx.Package) []string {
	var out []string
	for _, s := range pkg.Slides() {
		out = append(out, s.Text())
	}
	return out
}

func TestBuildIndex(t *testing.T) {
	pkg := buildDeck(t, []string{
		"{LITURGICAL_DAY}",
		"{FIRST_READING_REF}",
		"{FIRST_READING_TXT}",
		"{FIRST_READING_TXT}",
		"Gloria",
	})
	idx := BuildIndex(pkg)

	locs := idx.Locations(tokens.FirstReadingTxt)
	if len(locs) != 2 {
		t.Fatalf("got %d locations, want 2", len(locs))
	}
	if locs[0].SlideIdx != 2 || locs[1].SlideIdx != 3 {
		t.Errorf("locations at %d,%d, want 2,3", locs[0].SlideIdx, locs[1].SlideIdx)
	}
	seed, ok := idx.Seed(tokens.FirstReadingTxt)
	if !ok || seed.SlideIdx != 2 {
		t.Errorf("seed = %+v, %v", seed, ok)
	}
	if idx.Has(tokens.GospelTxt) {
		t.Error("Has reported absent token")
	}
}

// A deck of 10 slides with a gospel seed at position 5 and three chunks
// must come out at 12 slides with the chunks consecutive from position 5.
func TestAssembleWaterfallScenario(t *testing.T) {
	slides := make([]string, 10)
	for i := range slides {
		slides[i] = fmt.Sprintf("relleno %d", i)
	}
	slides[5] = "{GOSPEL_TXT}"
	pkg := buildDeck(t, slides)

	pl := basePayload()
	pl.Chunks = map[string][]string{
		tokens.GospelTxt: {
			strings.Repeat("uno ", 30),
			strings.Repeat("dos ", 30),
			strings.Repeat("tres ", 24),
		},
	}

	res, err := Assemble(pkg, pl, Options{})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if res.SlideCount != 12 {
		t.Fatalf("deck has %d slides, want 12", res.SlideCount)
	}
	if res.SlidesCreated != 2 {
		t.Errorf("created %d slides, want 2", res.SlidesCreated)
	}

	got := texts(pkg)
	for i, word := range []string{"uno", "dos", "tres"} {
		if !strings.HasPrefix(got[5+i], word) {
			t.Errorf("slide %d = %q, want %s chunk", 5+i, got[5+i][:16], word)
		}
	}
	if got[4] != "relleno 4" || got[8] != "relleno 6" {
		t.Errorf("neighbors displaced: %q, %q", got[4], got[8])
	}
	if got[11] != "relleno 9" {
		t.Errorf("tail slide = %q", got[11])
	}
}

func TestAssembleSimpleTokens(t *testing.T) {
	pkg := buildDeck(t, []string{
		"{LITURGICAL_DAY}",
		"Lectura: {FIRST_READING_REF}",
		"{FIRST_READING_TXT}",
		"{PSALM_REF}",
		"{PSALM_TXT}",
		"{ACCLAMATION_TXT}",
		"{GOSPEL_REF}",
		"{GOSPEL_TXT}",
	})
	res, err := Assemble(pkg, basePayload(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	got := texts(pkg)
	if got[0] != "XXII Domingo Ordinario" {
		t.Errorf("day slide = %q", got[0])
	}
	if got[1] != "Lectura: Eclo 3, 17-18" {
		t.Errorf("ref slide = %q", got[1])
	}
	// The psalm pair expansion inserts one slide at position 5, shifting
	// the acclamation to 6.
	if got[6] != "Aleluya. Toma mi yugo sobre ti. Aleluya." {
		t.Errorf("acclamation slide = %q", got[6])
	}
	if !res.Complete() {
		t.Errorf("unresolved tokens: %v", res.Unresolved)
	}
}

// A ferial payload with no second reading blanks the second reading slides
// instead of leaving tokens on screen.
func TestAssembleAbsentSecondReading(t *testing.T) {
	pkg := buildDeck(t, []string{
		"{LITURGICAL_DAY}",
		"{FIRST_READING_TXT}",
		"{SECOND_READING_REF}",
		"{SECOND_READING_TXT}",
		"{PSALM_TXT}",
		"{ACCLAMATION_TXT}",
		"{GOSPEL_TXT}",
	})
	res, err := Assemble(pkg, basePayload(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	got := texts(pkg)
	if got[2] != "" || got[3] != "" {
		t.Errorf("second reading slides not blanked: %q, %q", got[2], got[3])
	}
	if res.SlideCount != 8 { // two psalm pairs add one slide
		t.Errorf("deck has %d slides", res.SlideCount)
	}
	if !res.Complete() {
		t.Errorf("unresolved: %v", res.Unresolved)
	}
}

// A single psalm seed receives refrain/verse pairs, one per slide.
func TestAssemblePsalmSingleSeed(t *testing.T) {
	pkg := buildDeck(t, []string{"{LITURGICAL_DAY}", "{PSALM_TXT}", "final",
		"{FIRST_READING_TXT}", "{ACCLAMATION_TXT}", "{GOSPEL_TXT}"})
	_, err := Assemble(pkg, basePayload(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	got := texts(pkg)
	want := []string{
		"R. Dios prepara casa a los pobres. / Los justos se alegran ante el Señor.",
		"R. Dios prepara casa a los pobres. / Padre de huérfanos y defensor de viudas.",
	}
	if got[1] != want[0] {
		t.Errorf("psalm slide 1 = %q", got[1])
	}
	if got[2] != want[1] {
		t.Errorf("psalm slide 2 = %q", got[2])
	}
	if got[3] != "final" {
		t.Errorf("slide after psalm = %q", got[3])
	}
}

// Dual-seed templates alternate dedicated refrain and verse slides.
func TestAssemblePsalmDualSeed(t *testing.T) {
	pkg := buildDeck(t, []string{
		"{PSALM_REFRAIN_TXT}", "{PSALM_VERSE_TXT}", "final",
		"{FIRST_READING_TXT}", "{ACCLAMATION_TXT}", "{GOSPEL_TXT}", "{LITURGICAL_DAY}"})
	res, err := Assemble(pkg, basePayload(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	got := texts(pkg)
	want := []string{
		"Dios prepara casa a los pobres.",
		"Los justos se alegran ante el Señor.",
		"Dios prepara casa a los pobres.",
		"Padre de huérfanos y defensor de viudas.",
		"final",
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("slide %d = %q, want %q", i, got[i], w)
		}
	}
	if res.SlidesCreated != 2 {
		t.Errorf("created %d, want 2", res.SlidesCreated)
	}
	if !res.Complete() {
		t.Errorf("unresolved: %v", res.Unresolved)
	}
}

// A chunkable token with content but no seed slide falls back to a plain
// document-wide replacement and the run keeps going.
func TestAssembleSeedNotFoundFallback(t *testing.T) {
	pkg := buildDeck(t, []string{
		"{LITURGICAL_DAY}", "Evangelio: {GOSPEL_TXT}",
		"{FIRST_READING_TXT}", "{PSALM_TXT}", "{ACCLAMATION_TXT}"})
	pl := basePayload()

	// The payload carries a second reading but the template has no slide
	// for it anywhere.
	pl.Placeholders[tokens.SecondReadingRef] = "Heb 12, 18-19"
	pl.Placeholders[tokens.SecondReadingTxt] = "Hermanos: ustedes no se han acercado a un monte."

	res, err := Assemble(pkg, pl, Options{})
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, tok := range res.MissingSeeds {
		if tok == tokens.SecondReadingTxt {
			found = true
		}
	}
	if !found {
		t.Errorf("MissingSeeds = %v, want SECOND_READING_TXT", res.MissingSeeds)
	}
}

// An unknown-looking brace sequence and the hymn tokens survive untouched;
// only recognized, non-ignored leftovers are reported.
func TestAssembleUnresolvedSweep(t *testing.T) {
	pkg := buildDeck(t, []string{
		"{ENTRANCE_HYMN}", "{NOT_A_TOKEN}", "{LITURGICAL_DAY}",
		"{FIRST_READING_TXT}", "{PSALM_TXT}", "{ACCLAMATION_TXT}", "{GOSPEL_TXT}"})
	res, err := Assemble(pkg, basePayload(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Complete() {
		t.Errorf("unresolved: %v", res.Unresolved)
	}
	got := texts(pkg)
	if got[0] != "{ENTRANCE_HYMN}" {
		t.Errorf("hymn token rewritten: %q", got[0])
	}
	if got[1] != "{NOT_A_TOKEN}" {
		t.Errorf("unknown token rewritten: %q", got[1])
	}
}

// Chunk lists already within bounds pass through Pack unchanged, so feeding
// a rendered deck's chunks back in produces the same deck shape.
func TestAssembleChunkPackingApplied(t *testing.T) {
	pkg := buildDeck(t, []string{"{FIRST_READING_TXT}",
		"{LITURGICAL_DAY}", "{PSALM_TXT}", "{ACCLAMATION_TXT}", "{GOSPEL_TXT}"})
	pl := basePayload()
	pl.Chunks = map[string][]string{
		// Three short sentences that pack into a single slide.
		tokens.FirstReadingTxt: {
			"Hijo mío, procede con humildad.",
			"Así serás amado.",
			"Hazte pequeño.",
		},
	}
	res, err := Assemble(pkg, pl, Options{})
	if err != nil {
		t.Fatal(err)
	}
	got := texts(pkg)
	if strings.Count(got[0], "Hijo mío") != 1 || !strings.Contains(got[0], "Hazte pequeño.") {
		t.Errorf("merged chunk = %q", got[0])
	}
	if res.SlideCount != 6 { // two psalm pairs add one slide
		t.Errorf("deck has %d slides", res.SlideCount)
	}
}
