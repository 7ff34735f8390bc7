// Package lemma reduces free text to a comparable canonical form: lowercase,
// punctuation stripped, every token cut down to a dictionary-ish base form.
// The reduction is rule-based per language and runs each token to a fixed
// point, so normalizing already-normalized text is a no-op.
package lemma

import (
	"strings"
	"unicode"
)

// Normalizer canonicalizes text prior to keyword comparison.
type Normalizer interface {
	Normalize(text string) string
}

// suffix stripping stops once the remaining stem would get shorter than this.
const minStemRunes = 3

// Inflectional suffixes per language, longest first so that e.g. "ments"
// is taken off before "s".
var suffixTables = map[string][]string{
	"en": {
		"ations", "ation", "ments", "ment", "tions", "tion",
		"ings", "ing", "ies", "ers", "er", "ed", "es", "ly", "s",
	},
	"ru": {
		"ения", "ение", "ость", "ости",
		"иями", "ями", "ами", "иях", "иям", "его", "ому", "ему", "ыми", "ими",
		"ует", "уют",
		"ый", "ий", "ая", "яя", "ое", "ее", "ой", "ей", "ов", "ев",
		"ам", "ям", "ах", "ях", "ом", "ем", "ут", "ют", "ат", "ят",
		"ка", "ки", "ке", "ку", "ть", "ла", "ло", "ли",
		"а", "я", "о", "е", "у", "ю", "ы", "и", "ь",
	},
}

// RuleNormalizer is the default Normalizer. Zero value is unusable; build
// one with New.
type RuleNormalizer struct {
	suffixes []string
}

var _ Normalizer = (*RuleNormalizer)(nil)

// New builds a normalizer for the given language code ("ru", "en").
// Unknown languages fall back to plain lowercase/punctuation cleanup with
// no suffix stripping.
func New(lang string) *RuleNormalizer {
	return &RuleNormalizer{suffixes: suffixTables[lang]}
}

// Normalize lowercases, strips non-alphanumeric runes, stems each token and
// joins the result with single spaces. Idempotent.
func (n *RuleNormalizer) Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	words := strings.Fields(b.String())
	for i, w := range words {
		words[i] = n.stem(w)
	}
	return strings.Join(words, " ")
}

// stem strips known suffixes until none applies. Running to a fixed point
// keeps the whole normalizer idempotent.
func (n *RuleNormalizer) stem(word string) string {
	runes := []rune(word)
	for {
		stripped := false
		for _, suf := range n.suffixes {
			sr := []rune(suf)
			if len(runes)-len(sr) < minStemRunes {
				continue
			}
			if string(runes[len(runes)-len(sr):]) == suf {
				runes = runes[:len(runes)-len(sr)]
				stripped = true
				break
			}
		}
		if !stripped {
			return string(runes)
		}
	}
}
