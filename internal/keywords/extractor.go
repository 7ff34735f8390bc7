// Package keywords extracts ranked keywords from free text by comparing
// candidate word embeddings against the embedding of the whole text
// (the KeyBERT approach).
package keywords

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// Extractor returns up to topN keywords for a text, best first. An empty
// result is a valid outcome, not an error.
type Extractor interface {
	Extract(ctx context.Context, text string, topN int) ([]string, error)
}

// Embedder vectorizes a batch of texts, preserving order.
type Embedder interface {
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbeddingExtractor ranks candidate unigrams by cosine similarity to the
// full-text embedding.
type EmbeddingExtractor struct {
	embedder Embedder
	lang     string
	logger   *zap.Logger
}

var _ Extractor = (*EmbeddingExtractor)(nil)

// NewEmbeddingExtractor creates an extractor for the given language
// (stopword list selection).
func NewEmbeddingExtractor(embedder Embedder, lang string, logger *zap.Logger) *EmbeddingExtractor {
	return &EmbeddingExtractor{embedder: embedder, lang: lang, logger: logger}
}

// Extract returns the topN candidate words most similar to the text itself.
// Empty text or a text with no viable candidates yields an empty slice.
func (e *EmbeddingExtractor) Extract(ctx context.Context, text string, topN int) ([]string, error) {
	if strings.TrimSpace(text) == "" || topN <= 0 {
		return nil, nil
	}

	candidates := candidateWords(text, e.lang)
	if len(candidates) == 0 {
		return nil, nil
	}

	inputs := append([]string{text}, candidates...)
	vectors, err := e.embedder.BatchEmbed(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("embed keyword candidates: %w", err)
	}

	doc := vectors[0]
	type ranked struct {
		word string
		sim  float64
	}
	scores := make([]ranked, len(candidates))
	for i, c := range candidates {
		scores[i] = ranked{word: c, sim: cosine(doc, vectors[i+1])}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].sim > scores[j].sim })

	if topN > len(scores) {
		topN = len(scores)
	}
	out := make([]string, topN)
	for i := range out {
		out[i] = scores[i].word
	}

	e.logger.Debug("Extracted keywords",
		zap.String("text", text),
		zap.Strings("keywords", out),
	)
	return out, nil
}

// candidateWords tokenizes text into unique lowercase unigrams, dropping
// stopwords and very short tokens.
func candidateWords(text, lang string) []string {
	stops := stopwords[lang]

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	seen := make(map[string]struct{})
	var out []string
	for _, w := range strings.Fields(b.String()) {
		if len([]rune(w)) < 3 {
			continue
		}
		if _, stop := stops[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// cosine returns the cosine similarity of two vectors, 0 for mismatched or
// zero-length input.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
