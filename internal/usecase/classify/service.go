// Package classify resolves which known entity a question is about by asking
// the generation backend a constrained multiple-choice question, then narrows
// the dataset to that entity's rows.
package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"

	"github.com/kailas-cloud/askdata/internal/domain"
	"github.com/kailas-cloud/askdata/internal/domain/dataset"
	"github.com/kailas-cloud/askdata/internal/metrics"
)

// Vocabulary entries travel to the backend wrapped in this delimiter, which
// makes truncated or paraphrased answers detectable after unwrapping.
const delimiter = "§"

const maxMatches = 3

const systemPromptFormat = "Ты определяешь, о каком объекте типа «%s» спрашивает пользователь. " +
	"Выбери не более %d наиболее подходящих вариантов из допустимого списка и оцени уверенность каждого от 0 до 1. " +
	"Значение value бери из списка дословно, вместе с обрамляющими символами %s. " +
	"Если ни один вариант не подходит, верни пустой список top_matches."

// Service performs entity classification and entity-based dataset filtering.
type Service struct {
	gen         Generator
	temperature float32
	logger      *zap.Logger
}

// New creates a classification service.
func New(gen Generator, temperature float32, logger *zap.Logger) *Service {
	return &Service{gen: gen, temperature: temperature, logger: logger}
}

// classification is the document shape the backend must produce.
type classification struct {
	Reasoning  string `json:"reasoning"`
	TopMatches []struct {
		Value string  `json:"value"`
		Score float64 `json:"score"`
	} `json:"top_matches"`
}

// Vocabulary extracts the distinct entity values of a column. A missing
// column is not an error; classification is skipped for that request.
func (s *Service) Vocabulary(ds *dataset.Dataset, column string) []string {
	if !ds.HasColumn(column) {
		s.logger.Warn("Entity column missing, classification disabled", zap.String("column", column))
		return nil
	}
	return ds.DistinctNonEmpty(column)
}

// Classify returns the vocabulary entry the question most likely refers to,
// or "" when the vocabulary is empty, nothing matches, or the backend fails.
// Classification never fails a request.
func (s *Service) Classify(ctx context.Context, kind domain.Kind, question, itemLabel string, vocabulary []string) string {
	if len(vocabulary) == 0 {
		metrics.ClassificationRequestsTotal.WithLabelValues(string(kind), "empty").Inc()
		return ""
	}

	wrapped := make([]string, len(vocabulary))
	allowed := make(map[string]struct{}, len(vocabulary))
	for i, v := range vocabulary {
		wrapped[i] = delimiter + v + delimiter
		allowed[v] = struct{}{}
	}

	system := fmt.Sprintf(systemPromptFormat, itemLabel, maxMatches, delimiter)

	var out classification
	schema := schemaFor(wrapped)
	err := s.gen.GenerateStructured(ctx, system, question, "entity_classification", &schema, s.temperature, &out)
	if err != nil {
		metrics.ClassificationRequestsTotal.WithLabelValues(string(kind), "error").Inc()
		s.logger.Warn("Classification backend failed, continuing without entity",
			zap.String("dataset", string(kind)),
			zap.Error(err),
		)
		return ""
	}

	best := ""
	bestScore := -1.0
	for _, m := range out.TopMatches {
		if m.Score > bestScore {
			best = m.Value
			bestScore = m.Score
		}
	}
	if best == "" {
		metrics.ClassificationRequestsTotal.WithLabelValues(string(kind), "empty").Inc()
		return ""
	}

	value := strings.Trim(best, delimiter)
	if _, ok := allowed[value]; !ok {
		metrics.ClassificationRequestsTotal.WithLabelValues(string(kind), "error").Inc()
		s.logger.Warn("Backend returned a value outside the vocabulary",
			zap.String("dataset", string(kind)),
			zap.String("value", value),
		)
		return ""
	}

	metrics.ClassificationRequestsTotal.WithLabelValues(string(kind), "matched").Inc()
	s.logger.Debug("Classified question",
		zap.String("dataset", string(kind)),
		zap.String("entity", value),
		zap.Float64("score", bestScore),
		zap.String("reasoning", out.Reasoning),
	)
	return value
}

// FilterByEntity narrows ds to the rows whose column equals value
// (case-insensitive). An empty value or a missing column leaves the dataset
// untouched; a value that matches nothing yields an empty view. Matched rows
// all score 1.0.
func (s *Service) FilterByEntity(ds *dataset.Dataset, column, value string) (*dataset.Dataset, dataset.ScoreMap) {
	if value == "" {
		return ds, dataset.ScoreMap{}
	}
	if !ds.HasColumn(column) {
		s.logger.Warn("Entity filter column missing", zap.String("column", column))
		return ds, dataset.ScoreMap{}
	}

	want := strings.ToLower(strings.TrimSpace(value))
	filtered := ds.Filter(func(r dataset.Row) bool {
		return strings.ToLower(strings.TrimSpace(r.Get(column))) == want
	})
	if filtered.Len() == 0 {
		return ds.Empty(), dataset.ScoreMap{}
	}

	scores := make(dataset.ScoreMap, filtered.Len())
	for _, r := range filtered.Rows() {
		scores[r.ID] = 1.0
	}
	return filtered, scores
}

// schemaFor builds the response schema constraining value to the wrapped
// vocabulary. The enum makes out-of-vocabulary answers a protocol violation
// instead of a silent mismatch.
func schemaFor(wrapped []string) jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"reasoning": {
				Type:        jsonschema.String,
				Description: "Краткое объяснение выбора",
			},
			"top_matches": {
				Type: jsonschema.Array,
				Items: &jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"value": {
							Type: jsonschema.String,
							Enum: wrapped,
						},
						"score": {
							Type:        jsonschema.Number,
							Description: "Уверенность от 0 до 1",
						},
					},
					Required: []string{"value", "score"},
				},
			},
		},
		Required: []string{"reasoning", "top_matches"},
	}
}
