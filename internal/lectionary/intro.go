package lectionary

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/autolectio/lectio/core/ref"
)

// foldTransformer strips combining marks so "Gálatas" matches "galatas".
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold lowercases and removes accents for rule matching.
func fold(s string) string {
	out, _, err := transform.String(foldTransformer, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

var (
	headerPrefix = regexp.MustCompile(`(?i)^(primera lectura|segunda lectura|evangelio|salmo responsorial|aclamación antes del evangelio)\s+`)
	bookPhrase   = regexp.MustCompile(`^([123]\s+)?([^\d]+)`)
	bookOrdinal  = regexp.MustCompile(`^([123])\s+(.+)$`)
)

// ExtractBookPhrase pulls the book name out of a section header, dropping
// the category words and the chapter/verse numbering but keeping a leading
// letter ordinal: "Primera Lectura Sofonías 3, 1-2. 9-13" -> "Sofonías",
// "Segunda Lectura 1 Corintios 15, 20" -> "1 Corintios".
func ExtractBookPhrase(header string) string {
	h := headerPrefix.ReplaceAllString(strings.TrimSpace(header), "")
	if m := bookPhrase.FindStringSubmatch(h); m != nil {
		h = m[1] + m[2]
	}
	h = strings.Join(strings.Fields(h), " ")
	return strings.Trim(h, " ,·—–-")
}

// prophets take "Lectura del profeta ..." rather than the book formula.
var prophets = map[string]bool{
	"Isaías": true, "Jeremías": true, "Ezequiel": true, "Daniel": true,
	"Oseas": true, "Joel": true, "Amós": true, "Abdías": true, "Jonás": true,
	"Miqueas": true, "Nahúm": true, "Habacuc": true, "Sofonías": true,
	"Ageo": true, "Zacarías": true, "Malaquías": true, "Baruc": true,
}

// FirstReadingIntro phrases the first reading announcement as spoken at
// Mass.
func FirstReadingIntro(header string) string {
	book := ExtractBookPhrase(header)
	nb := fold(book)
	switch {
	case prophets[book]:
		return "Lectura del profeta " + book
	case strings.Contains(nb, "hechos"):
		return "Lectura del libro de los Hechos de los Apóstoles"
	case book == "Sabiduría" || strings.HasPrefix(nb, "la "):
		return "Lectura del libro de la " + strings.TrimSpace(strings.TrimPrefix(book, "la "))
	}
	return "Lectura del libro de " + book
}

// GospelName returns the evangelist name for the gospel announcement.
func GospelName(header string) string {
	return ExtractBookPhrase(header)
}

// Pauline letters addressed to communities ("a los ...") and to persons
// ("a ..."), keyed by folded name.
var (
	paulinePlurals = map[string]string{
		"romanos": "Romanos", "corintios": "Corintios", "galatas": "Gálatas",
		"filipenses": "Filipenses", "colosenses": "Colosenses",
		"tesalonicenses": "Tesalonicenses", "efesios": "Efesios",
	}
	paulineSingulars = map[string]string{
		"timoteo": "Timoteo", "tito": "Tito", "filemon": "Filemón",
	}
	ordinalWords = map[string]string{"1": "primera", "2": "segunda", "3": "tercera"}
)

// SecondReadingIntro phrases the second reading announcement: Pauline
// letters name the apostle and addressee, the Johannine and Petrine
// letters carry their ordinal, and Hebrews and Revelation keep their fixed
// formulas.
func SecondReadingIntro(header string) string {
	book := ExtractBookPhrase(header)
	ordinal, base := "", book
	if m := bookOrdinal.FindStringSubmatch(book); m != nil {
		ordinal, base = m[1], strings.TrimSpace(m[2])
	}
	nb := fold(base)

	switch nb {
	case "hebreos":
		return "Lectura de la carta a los Hebreos"
	case "apocalipsis":
		return "Lectura del libro del Apocalipsis"
	case "juan":
		if ordinal != "" {
			return fmt.Sprintf("Lectura de la %s carta del apóstol san Juan", ordinalWords[ordinal])
		}
		return "Lectura de la carta del apóstol san Juan"
	case "pedro":
		if ordinal != "" {
			return fmt.Sprintf("Lectura de la %s carta del apóstol san Pedro", ordinalWords[ordinal])
		}
		return "Lectura de la carta del apóstol san Pedro"
	case "santiago":
		return "Lectura de la carta del apóstol Santiago"
	case "judas":
		return "Lectura de la carta del apóstol Judas"
	}

	if name, ok := paulinePlurals[nb]; ok {
		if ordinal == "1" || ordinal == "2" {
			return fmt.Sprintf("Lectura de la %s carta del apóstol san Pablo a los %s", ordinalWords[ordinal], name)
		}
		return "Lectura de la carta del apóstol san Pablo a los " + name
	}
	if name, ok := paulineSingulars[nb]; ok {
		if ordinal == "1" || ordinal == "2" {
			return fmt.Sprintf("Lectura de la %s carta del apóstol san Pablo a %s", ordinalWords[ordinal], name)
		}
		return "Lectura de la carta del apóstol san Pablo a " + name
	}

	return "Lectura de la carta de " + base
}

// NormalizeAcclamation drops Aleluya and refrain-marker lines, keeping
// only the verse.
func NormalizeAcclamation(body string) string {
	var kept []string
	for _, ln := range strings.Split(body, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		low := strings.ToLower(ln)
		if strings.HasPrefix(low, "r.") || strings.Contains(low, "aleluya") {
			continue
		}
		kept = append(kept, ln)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// AcclamationRef derives a compact colon-notation reference ("Jn 3:16")
// from acclamation body text, empty when none is found.
func AcclamationRef(body string) string {
	r := ref.Find(body)
	if r == nil {
		return ""
	}
	out := ""
	if r.BookNumber > 0 {
		out = strconv.Itoa(r.BookNumber) + " "
	}
	out += r.Book
	if r.Chapter > 0 {
		out += " " + strconv.Itoa(r.Chapter)
	}
	if len(r.Verses) > 0 {
		spans := make([]string, len(r.Verses))
		for i, v := range r.Verses {
			spans[i] = v.String()
		}
		out += ":" + strings.Join(spans, ".")
	}
	return out
}
