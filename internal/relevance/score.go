// Package relevance scores text against keyword sets.
package relevance

import "strings"

// Score returns the fraction of keywords present in text as substring
// matches, in [0,1]. Both sides are expected to be normalized already
// (see internal/lemma); Score itself does no normalization beyond trimming
// keyword whitespace. Empty text or an empty keyword set scores 0.
func Score(text string, keywords []string) float64 {
	if text == "" || len(keywords) == 0 {
		return 0
	}

	matches := 0
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if strings.Contains(text, kw) {
			matches++
		}
	}
	return float64(matches) / float64(len(keywords))
}
