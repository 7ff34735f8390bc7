package tools

import (
	"context"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"

	"github.com/kailas-cloud/askdata/internal/domain/dataset"
	"github.com/kailas-cloud/askdata/internal/lemma"
	"github.com/kailas-cloud/askdata/internal/relevance"
)

// SearchByKeywordsName is the registry name of the keyword overlap tool.
const SearchByKeywordsName = "search_by_keywords"

const defaultTopN = 5

// KeywordSearch scores dataset rows by lemmatized keyword overlap in one
// text column. It never fails a request: degenerate inputs fall back per
// the configured policy instead of returning an error.
type KeywordSearch struct {
	norm   lemma.Normalizer
	logger *zap.Logger
}

var _ Tool = (*KeywordSearch)(nil)

// NewKeywordSearch creates the keyword overlap tool.
func NewKeywordSearch(norm lemma.Normalizer, logger *zap.Logger) *KeywordSearch {
	return &KeywordSearch{norm: norm, logger: logger}
}

// Schema implements Tool.
func (k *KeywordSearch) Schema() Schema {
	return Schema{
		Name:        SearchByKeywordsName,
		Description: "Ranks table rows by the share of keywords found in a text column after lemmatization",
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"keywords": {
					Type:        jsonschema.Array,
					Description: "Single-word search keywords",
					Items:       &jsonschema.Definition{Type: jsonschema.String},
				},
				"column": {
					Type:        jsonschema.String,
					Description: "Name of the text column to search in",
				},
				"top_n": {
					Type:        jsonschema.Integer,
					Description: "Maximum number of rows to return",
				},
			},
			Required: []string{"keywords", "column"},
		},
	}
}

// Execute ranks rows by keyword overlap. Rows with zero overlap are dropped;
// ties keep source order. When the column is absent, no keywords are given
// or nothing matches, the fallback policy decides the result and the score
// map stays empty.
func (k *KeywordSearch) Execute(_ context.Context, ds *dataset.Dataset, p Params) (*dataset.Dataset, dataset.ScoreMap, error) {
	topN := p.TopN
	if topN <= 0 {
		topN = defaultTopN
	}

	if len(p.Keywords) == 0 || p.Column == "" || !ds.HasColumn(p.Column) {
		k.logger.Debug("Keyword search fallback",
			zap.String("column", p.Column),
			zap.Int("keywords", len(p.Keywords)),
			zap.String("policy", string(p.Fallback)),
		)
		return k.fallback(ds, topN, p.Fallback), dataset.ScoreMap{}, nil
	}

	normKeywords := make([]string, 0, len(p.Keywords))
	for _, kw := range p.Keywords {
		if n := k.norm.Normalize(kw); n != "" {
			normKeywords = append(normKeywords, n)
		}
	}
	if len(normKeywords) == 0 {
		return k.fallback(ds, topN, p.Fallback), dataset.ScoreMap{}, nil
	}

	type ranked struct {
		id    int
		score float64
	}
	var hits []ranked
	for _, row := range ds.Rows() {
		score := relevance.Score(k.norm.Normalize(row.Get(p.Column)), normKeywords)
		if score > 0 {
			hits = append(hits, ranked{id: row.ID, score: score})
		}
	}
	if len(hits) == 0 {
		return k.fallback(ds, topN, p.Fallback), dataset.ScoreMap{}, nil
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > topN {
		hits = hits[:topN]
	}

	ids := make([]int, len(hits))
	scores := make(dataset.ScoreMap, len(hits))
	for i, h := range hits {
		ids[i] = h.id
		scores[h.id] = h.score
	}

	k.logger.Debug("Keyword search matched rows",
		zap.String("column", p.Column),
		zap.String("keywords", strings.Join(normKeywords, " ")),
		zap.Int("matched", len(hits)),
	)
	return ds.Select(ids), scores, nil
}

func (k *KeywordSearch) fallback(ds *dataset.Dataset, topN int, policy FallbackPolicy) *dataset.Dataset {
	if policy == FallbackEmpty {
		return ds.Empty()
	}
	return ds.Head(topN)
}
