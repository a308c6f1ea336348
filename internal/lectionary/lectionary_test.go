package lectionary

import (
	"strings"
	"testing"
	"time"

	"github.com/autolectio/lectio/core/tokens"
)

const sampleRSS = `<?xml version="1.0" encoding="utf-8"?>
<rss version="2.0">
  <channel>
    <title>Lecturas del dia</title>
    <item>
      <title>XXII Domingo Ordinario</title>
      <link>https://bible.usccb.org/es/bible/lecturas/083026.cfm</link>
      <description>&lt;h4&gt;Primera Lectura Eclo 3, 17-18. 20. 28-29&lt;/h4&gt;&lt;div class="poetry"&gt;&lt;p&gt;Hijo m&#237;o, en tus asuntos procede con humildad.&lt;/p&gt;&lt;/div&gt;</description>
      <pubDate>Sun, 30 Aug 2026 00:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Lunes de la semana XXII</title>
      <link>https://bible.usccb.org/es/bible/lecturas/083126.cfm</link>
      <description></description>
    </item>
  </channel>
</rss>`

func TestParseFeedAndPickItem(t *testing.T) {
	items, err := ParseFeed([]byte(sampleRSS))
	if err != nil {
		t.Fatalf("ParseFeed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	d := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	item := PickItem(items, d)
	if item == nil {
		t.Fatal("PickItem found nothing for 083026")
	}
	if item.Title != "XXII Domingo Ordinario" {
		t.Errorf("picked %q", item.Title)
	}
	if PickItem(items, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)) != nil {
		t.Error("PickItem matched a date outside the feed window")
	}
}

func TestParseFeedErrors(t *testing.T) {
	if _, err := ParseFeed([]byte("not xml at all <")); err == nil {
		t.Error("malformed feed accepted")
	}
	if _, err := ParseFeed([]byte(`<rss><channel></channel></rss>`)); err == nil {
		t.Error("empty feed accepted")
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 12, 14, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2025-12-14", "12-14-25", "12/14/25"} {
		got, err := ParseDate(in)
		if err != nil {
			t.Errorf("ParseDate(%q): %v", in, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseDate(%q) = %v", in, got)
		}
	}
	if _, err := ParseDate("14 de diciembre"); err == nil {
		t.Error("nonsense date accepted")
	}
}

const sampleDescription = `
<h4>Primera Lectura Sof 3, 1-2. 9-13</h4>
<div class="poetry"><p>Ay de la ciudad rebelde.<br>Y contaminada.</p></div>
<h4>Salmo Responsorial Sal 67, 4-5. 6-7. 10-11</h4>
<div class="poetry"><p>R. (11b) Dios prepara casa a los pobres.<br>Los justos se alegran.</p></div>
<h4>Aclamaci&#243;n antes del Evangelio Mt 11, 28</h4>
<div class="poetry"><p>R. Aleluya, aleluya.<br>Vengan a m&#237; todos los fatigados.<br>R. Aleluya.</p></div>
<h4>Evangelio Mt 21, 28-32</h4>
<div class="poetry"><p>En aquel tiempo, Jes&#250;s dijo.</p><p>Segunda estrofa.</p></div>
<h4>Otra cosa</h4>
<p>sin poetry</p>
- - -
<p>footer boilerplate</p>`

func TestParseSections(t *testing.T) {
	secs, err := ParseSections(StripFooter(sampleDescription))
	if err != nil {
		t.Fatalf("ParseSections: %v", err)
	}
	if len(secs) != 4 {
		t.Fatalf("got %d sections, want 4", len(secs))
	}

	if secs[0].Kind() != KindFirst {
		t.Errorf("section 0 kind = %v", secs[0].Kind())
	}
	if secs[0].Body != "Ay de la ciudad rebelde.\nY contaminada." {
		t.Errorf("section 0 body = %q", secs[0].Body)
	}
	if secs[1].Kind() != KindPsalm || secs[2].Kind() != KindAcclamation || secs[3].Kind() != KindGospel {
		t.Errorf("kinds = %v %v %v", secs[1].Kind(), secs[2].Kind(), secs[3].Kind())
	}
	if secs[3].Body != "En aquel tiempo, Jesús dijo.\n\nSegunda estrofa." {
		t.Errorf("gospel body = %q", secs[3].Body)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		header string
		want   Kind
	}{
		{"Primera Lectura Eclo 3, 17-18", KindFirst},
		{"Segunda Lectura Heb 12, 18-19", KindSecond},
		{"Salmo Responsorial Sal 67", KindPsalm},
		{"Aclamación antes del Evangelio Mt 11, 29", KindAcclamation},
		{"Evangelio Lc 14, 1. 7-14", KindGospel},
		{"Memorial de la Santa Cruz", KindOther},
	}
	for _, tt := range tests {
		if got := Classify(tt.header); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestExtractBookPhrase(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Primera Lectura Sofonías 3, 1-2. 9-13", "Sofonías"},
		{"Evangelio Mateo 21, 28-32", "Mateo"},
		{"Segunda Lectura 1 Corintios 15, 20", "1 Corintios"},
		{"Primera Lectura Hechos de los Apóstoles 1, 1-11", "Hechos de los Apóstoles"},
	}
	for _, tt := range tests {
		if got := ExtractBookPhrase(tt.in); got != tt.want {
			t.Errorf("ExtractBookPhrase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFirstReadingIntro(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Primera Lectura Sofonías 3, 1-2", "Lectura del profeta Sofonías"},
		{"Primera Lectura Hechos de los Apóstoles 1, 1", "Lectura del libro de los Hechos de los Apóstoles"},
		{"Primera Lectura Sabiduría 9, 13-18", "Lectura del libro de la Sabiduría"},
		{"Primera Lectura Eclesiástico 3, 17-18", "Lectura del libro de Eclesiástico"},
	}
	for _, tt := range tests {
		if got := FirstReadingIntro(tt.in); got != tt.want {
			t.Errorf("FirstReadingIntro(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSecondReadingIntro(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Segunda Lectura Romanos 8, 28-30", "Lectura de la carta del apóstol san Pablo a los Romanos"},
		{"Segunda Lectura 1 Corintios 15, 20", "Lectura de la primera carta del apóstol san Pablo a los Corintios"},
		{"Segunda Lectura 2 Timoteo 1, 6-8", "Lectura de la segunda carta del apóstol san Pablo a Timoteo"},
		{"Segunda Lectura Hebreos 12, 18-19", "Lectura de la carta a los Hebreos"},
		{"Segunda Lectura Apocalipsis 21, 1-5", "Lectura del libro del Apocalipsis"},
		{"Segunda Lectura 1 Juan 3, 16", "Lectura de la primera carta del apóstol san Juan"},
		{"Segunda Lectura Pedro 1, 3-9", "Lectura de la carta del apóstol san Pedro"},
		{"Segunda Lectura Santiago 2, 1-5", "Lectura de la carta del apóstol Santiago"},
		{"Segunda Lectura Gálatas 6, 14-18", "Lectura de la carta del apóstol san Pablo a los Gálatas"},
	}
	for _, tt := range tests {
		if got := SecondReadingIntro(tt.in); got != tt.want {
			t.Errorf("SecondReadingIntro(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeAcclamation(t *testing.T) {
	body := "R. Aleluya, aleluya.\nVengan a mí todos los fatigados,\ny yo los aliviaré.\nR. Aleluya."
	want := "Vengan a mí todos los fatigados,\ny yo los aliviaré."
	if got := NormalizeAcclamation(body); got != want {
		t.Errorf("NormalizeAcclamation = %q", got)
	}
}

func TestAcclamationRef(t *testing.T) {
	if got := AcclamationRef("R. Aleluya.\nMt 11, 28-30\nVengan a mí."); got != "Mt 11:28-30" {
		t.Errorf("AcclamationRef = %q", got)
	}
	if got := AcclamationRef("sin nada"); got != "" {
		t.Errorf("AcclamationRef on empty = %q", got)
	}
}

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("El Sr. Pérez llegó. ¿Quién lo vio? Nadie respondió.")
	want := []string{"El Sr. Pérez llegó.", "¿Quién lo vio?", "Nadie respondió."}
	if len(got) != len(want) {
		t.Fatalf("got %d sentences %q, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestChunkifyPacksSentences(t *testing.T) {
	text := "Primera frase corta. Segunda frase corta. " +
		strings.Repeat("palabra ", 25) + "final."
	chunks := Chunkify(text, 140, 100)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks: %q", len(chunks), chunks)
	}
	for i, c := range chunks {
		if len(c) > 140 {
			t.Errorf("chunk %d is %d chars", i, len(c))
		}
	}
	joined := strings.Join(chunks, " ")
	if !strings.Contains(joined, "Primera frase corta.") || !strings.Contains(joined, "final.") {
		t.Errorf("content lost: %q", joined)
	}
}

func TestChunkifyLongClause(t *testing.T) {
	// A single unbroken clause longer than the bound wraps by words.
	text := strings.Repeat("palabralarga ", 20)
	chunks := Chunkify(text, 100, 60)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 100 {
			t.Errorf("chunk %d is %d chars", i, len(c))
		}
	}
}

func TestChunkifyMergesTinyTail(t *testing.T) {
	chunks := Chunkify("Una frase de tamaño mediano que llena parte del espacio disponible. Fin.", 140, 100)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks: %q", len(chunks), chunks)
	}
}

func TestPlaceholders(t *testing.T) {
	secs, err := ParseSections(StripFooter(sampleDescription))
	if err != nil {
		t.Fatal(err)
	}
	ph := Placeholders("XXII Domingo Ordinario", secs)

	if ph[tokens.LiturgicalDay] != "XXII Domingo Ordinario" {
		t.Errorf("day = %q", ph[tokens.LiturgicalDay])
	}
	if ph[tokens.PsalmRef] != "Sal 67, 4-5. 6-7. 10-11" {
		t.Errorf("psalm ref = %q", ph[tokens.PsalmRef])
	}
	if ph[tokens.GospelRef] != "Mt" {
		t.Errorf("gospel ref = %q", ph[tokens.GospelRef])
	}
	if !strings.HasPrefix(ph[tokens.AcclamationTxt], "Vengan a mí") {
		t.Errorf("acclamation txt = %q", ph[tokens.AcclamationTxt])
	}
	if strings.Contains(strings.ToLower(ph[tokens.AcclamationTxt]), "aleluya") {
		t.Errorf("aleluya kept in acclamation: %q", ph[tokens.AcclamationTxt])
	}
}

func TestBuildPayload(t *testing.T) {
	secs, err := ParseSections(StripFooter(sampleDescription))
	if err != nil {
		t.Fatal(err)
	}
	item := &Item{Title: "XXII Domingo Ordinario", Link: "https://bible.usccb.org/es/bible/lecturas/083026.cfm"}
	ph := Placeholders(item.Title, secs)
	chunks := MakeChunks(ph, 140, 100)

	pl := BuildPayload(time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), item, ph, chunks)
	if pl.Meta["date"] != "2026-08-30" {
		t.Errorf("meta date = %q", pl.Meta["date"])
	}
	if pl.Meta["source"] != "usccb_rss" {
		t.Errorf("meta source = %q", pl.Meta["source"])
	}
	if len(pl.Chunks[tokens.GospelTxt]) == 0 {
		t.Error("gospel not chunked")
	}
	// Psalm body keeps its refrain lines for the alternator.
	if !strings.Contains(pl.Placeholders[tokens.PsalmTxt], "R.") {
		t.Errorf("psalm body lost refrain marker: %q", pl.Placeholders[tokens.PsalmTxt])
	}
}
