package answer

import "strings"

// Lookup tables for the German word families. Words missing from a table
// fall back to the regular-inflection heuristic of the family; synonym
// and antonym lookups have no sensible heuristic and fail instead.

var pluralTable = map[string]string{
	"Hund":  "Hunde",
	"Katze": "Katzen",
	"Haus":  "Häuser",
	"Kind":  "Kinder",
	"Baum":  "Bäume",
	"Buch":  "Bücher",
	"Apfel": "Äpfel",
	"Blume": "Blumen",
	"Maus":  "Mäuse",
	"Stuhl": "Stühle",
	"Bild":  "Bilder",
	"Auge":  "Augen",
	"Tür":   "Türen",
	"Ball":  "Bälle",
}

var pastTenseTable = map[string]string{
	"gehen":  "ging",
	"essen":  "aß",
	"sehen":  "sah",
	"laufen": "lief",
	"fahren": "fuhr",
	"kommen": "kam",
	"sein":   "war",
	"haben":  "hatte",
}

var comparativeTable = map[string]string{
	"gut":  "besser",
	"viel": "mehr",
	"hoch": "höher",
	"groß": "größer",
	"nah":  "näher",
	"gern": "lieber",
}

var superlativeTable = map[string]string{
	"gut":  "am besten",
	"viel": "am meisten",
	"hoch": "am höchsten",
	"groß": "am größten",
	"nah":  "am nächsten",
	"gern": "am liebsten",
}

var synonymTable = map[string]string{
	"schnell":  "flink",
	"sprechen": "reden",
	"schauen":  "blicken",
	"froh":     "glücklich",
	"schön":    "hübsch",
	"laufen":   "rennen",
}

var antonymTable = map[string]string{
	"groß":    "klein",
	"hell":    "dunkel",
	"laut":    "leise",
	"schnell": "langsam",
	"alt":     "jung",
	"warm":    "kalt",
	"neu":     "alt",
}

var syllableTable = map[string]int{
	"Banane":        3,
	"Schule":        2,
	"Hund":          1,
	"Schmetterling": 3,
	"Auto":          2,
	"Sonne":         2,
	"Elefant":       3,
	"Blume":         2,
}

// articleTable maps nouns to their definite article. Used by the
// article-match family; template word pools must stay within this set.
var articleTable = map[string]string{
	"Hund":  "der",
	"Katze": "die",
	"Haus":  "das",
	"Blume": "die",
	"Auto":  "das",
	"Brot":  "das",
	"Sonne": "die",
	"Kind":  "das",
	"Ball":  "der",
	"Tür":   "die",
	"Baum":  "der",
	"Buch":  "das",
}

// ArticleOf returns the definite article for a noun.
func ArticleOf(noun string) (string, bool) {
	a, ok := articleTable[noun]
	return a, ok
}

// pluralOf returns the plural of a noun, using the regular default
// stem + "e" when the word is not in the table.
func pluralOf(w string) string {
	if p, ok := pluralTable[w]; ok {
		return p
	}
	return w + "e"
}

// pastTenseOf returns the Präteritum of a verb. Regular verbs drop the
// -en/-n infinitive ending and take -te.
func pastTenseOf(w string) string {
	if p, ok := pastTenseTable[w]; ok {
		return p
	}
	stem := strings.TrimSuffix(w, "en")
	if stem == w {
		stem = strings.TrimSuffix(w, "n")
	}
	return stem + "te"
}

// comparativeOf returns the comparative form, defaulting to stem + "er".
func comparativeOf(w string) string {
	if c, ok := comparativeTable[w]; ok {
		return c
	}
	return w + "er"
}

// superlativeOf returns the superlative form, defaulting to "am <stem>sten".
func superlativeOf(w string) string {
	if s, ok := superlativeTable[w]; ok {
		return s
	}
	return "am " + w + "sten"
}

// syllablesOf counts syllables, falling back to counting vowel groups
// when the word is not in the table.
func syllablesOf(w string) int {
	if n, ok := syllableTable[w]; ok {
		return n
	}
	return countVowelGroups(w)
}

func countVowelGroups(w string) int {
	const vowels = "aeiouäöüy"
	count := 0
	inGroup := false
	for _, r := range strings.ToLower(w) {
		if strings.ContainsRune(vowels, r) {
			if !inGroup {
				count++
			}
			inGroup = true
		} else {
			inGroup = false
		}
	}
	if count == 0 {
		count = 1
	}
	return count
}

// MarkedWords extracts the words wrapped in *markers* from an encoded
// sentence, in order of appearance.
func MarkedWords(s string) []string {
	var out []string
	parts := strings.Split(s, "*")
	// Odd-indexed segments are inside markers.
	for i := 1; i < len(parts); i += 2 {
		w := strings.TrimSpace(parts[i])
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

// StripMarkers removes the *marker* characters from an encoded sentence,
// leaving the plain display text.
func StripMarkers(s string) string {
	return strings.ReplaceAll(s, "*", "")
}
