package match

import (
	"strings"
)

// honorifics stripped from the front of a name during normalization.
var honorifics = map[string]bool{
	"dr":   true,
	"mr":   true,
	"mrs":  true,
	"ms":   true,
	"miss": true,
	"rev":  true,
	"fr":   true,
	"prof": true,
	"sir":  true,
	"capt": true,
	"col":  true,
	"gen":  true,
	"hon":  true,
}

// suffixes stripped from the end of a name during normalization.
var nameSuffixes = []string{" jr", " sr", " ii", " iii", " iv", " v"}

// foldRunes maps accented runes to their ASCII comparison forms. Germanic
// umlauts fold to the vowel+e transliteration so "Müller" and "Mueller"
// compare equal, which is how the names actually alternate in period records.
var foldRunes = map[rune]string{
	'ä': "ae", 'ö': "oe", 'ü': "ue", 'ß': "ss",
	'à': "a", 'á': "a", 'â': "a", 'ã': "a", 'å': "a", 'ā': "a",
	'è': "e", 'é': "e", 'ê': "e", 'ë': "e", 'ē': "e",
	'ì': "i", 'í': "i", 'î': "i", 'ï': "i", 'ī': "i",
	'ò': "o", 'ó': "o", 'ô': "o", 'õ': "o", 'ø': "o", 'ō': "o",
	'ù': "u", 'ú': "u", 'û': "u", 'ū': "u",
	'ñ': "n", 'ń': "n",
	'ç': "c", 'ć': "c", 'č': "c",
	'ý': "y", 'ÿ': "y",
	'š': "s", 'ś': "s",
	'ž': "z", 'ź': "z", 'ż': "z",
	'ł': "l", 'đ': "d", 'ð': "d", 'þ': "th",
	'æ': "ae", 'œ': "oe",
}

// NormalizeName canonicalizes a person name for comparison: lowercases,
// folds diacritics, drops punctuation, strips leading honorifics and trailing
// generational suffixes, and collapses whitespace.
//
//	NormalizeName("Dr. Johann Wolfgang von Goethe Jr.") == "johann wolfgang von goethe"
//	NormalizeName("Hans Müller") == "hans mueller"
func NormalizeName(raw string) string {
	if raw == "" {
		return ""
	}

	lowered := strings.ToLower(strings.TrimSpace(raw))

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch {
		case r == '.' || r == ',':
			// drop punctuation entirely
		case r == '\'' || r == '’':
			// O'Brien ~ OBrien
		default:
			if folded, ok := foldRunes[r]; ok {
				b.WriteString(folded)
			} else {
				b.WriteRune(r)
			}
		}
	}

	tokens := strings.Fields(b.String())
	for len(tokens) > 0 && honorifics[tokens[0]] {
		tokens = tokens[1:]
	}
	normalized := strings.Join(tokens, " ")

	for _, suffix := range nameSuffixes {
		if strings.HasSuffix(normalized, suffix) {
			normalized = strings.TrimSpace(strings.TrimSuffix(normalized, suffix))
			break
		}
	}

	return normalized
}
