package keywords

// Minimal function-word lists; candidates are single words, so only the
// highest-frequency noise needs filtering.
var stopwords = map[string]map[string]struct{}{
	"en": toSet(
		"the", "and", "are", "was", "were", "what", "which", "who", "whom",
		"this", "that", "these", "those", "with", "for", "from", "into",
		"about", "have", "has", "had", "can", "could", "will", "would",
		"should", "there", "where", "when", "how", "why", "all", "any",
		"our", "your", "their", "his", "her", "its", "not", "but", "out",
	),
	"ru": toSet(
		"как", "какие", "какой", "какая", "что", "это", "эти", "этот",
		"для", "при", "про", "под", "над", "или", "если", "есть",
		"все", "всё", "его", "её", "них", "нам", "вам", "они", "оно",
		"она", "быть", "был", "была", "были", "можно", "нужно", "есть",
		"где", "когда", "почему", "чем", "том", "тот", "так", "также",
	),
}

func toSet(words ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}
