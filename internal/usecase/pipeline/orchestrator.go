// Package pipeline orchestrates a question through load, normalization,
// classification, relevance filtering and answer composition. A request
// always yields an answer: stage failures produce an explanatory answer
// instead of an error so the HTTP surface stays uniform.
package pipeline

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/kailas-cloud/askdata/internal/domain"
	"github.com/kailas-cloud/askdata/internal/domain/dataset"
	"github.com/kailas-cloud/askdata/internal/logger"
	"github.com/kailas-cloud/askdata/internal/metrics"
)

// Options tune a single request.
type Options struct {
	// Category narrows the risks dataset before classification. Empty means
	// no narrowing; other kinds ignore it.
	Category domain.RiskCategory
	// MaxResults caps the records in the answer. Zero means no cap.
	MaxResults int
}

// Orchestrator runs the question answering pipeline over one dataset kind.
type Orchestrator struct {
	loader      Loader
	normalizer  Normalizer
	classifier  Classifier
	dispatcher  Dispatcher
	composer    Composer
	descriptors map[domain.Kind]Descriptor
}

// New creates an orchestrator with the built-in per-kind descriptors.
func New(l Loader, n Normalizer, cl Classifier, d Dispatcher, cm Composer) *Orchestrator {
	return &Orchestrator{
		loader:      l,
		normalizer:  n,
		classifier:  cl,
		dispatcher:  d,
		composer:    cm,
		descriptors: Descriptors(),
	}
}

// Process answers a question over the given dataset kind.
func (o *Orchestrator) Process(ctx context.Context, question string, kind domain.Kind, opts Options) domain.Answer {
	log := logger.FromContext(ctx).With(zap.String("dataset", string(kind)))

	desc, ok := o.descriptors[kind]
	if !ok {
		return o.errorAnswer(question, opts, fmt.Errorf("%w: %s", domain.ErrUnknownDatasetKind, kind))
	}

	ds, err := o.loader.Load(ctx, kind)
	if err != nil {
		metrics.PipelineStageFailuresTotal.WithLabelValues(string(kind), "load").Inc()
		log.Error("Dataset load failed", zap.Error(err))
		return o.errorAnswer(question, opts, err)
	}

	ds, err = o.normalizer.Normalize(ctx, kind, ds)
	if err != nil {
		metrics.PipelineStageFailuresTotal.WithLabelValues(string(kind), "normalize").Inc()
		log.Error("Dataset normalization failed", zap.Error(err))
		return o.errorAnswer(question, opts, err)
	}

	ds = desc.PreFilter(ds, opts)
	if ds.Len() == 0 {
		return o.emptyAnswer(question, opts, "По выбранной категории данных не найдено.")
	}

	vocabulary := o.classifier.Vocabulary(ds, desc.EntityColumn)
	if len(vocabulary) == 0 {
		return o.emptyAnswer(question, opts,
			fmt.Sprintf("В данных нет значений для определения (%s).", desc.ItemLabel))
	}

	entity := o.classifier.Classify(ctx, kind, question, desc.ItemLabel, vocabulary)
	if entity == "" {
		return o.emptyAnswer(question, opts,
			fmt.Sprintf("Не удалось определить, о каком объекте (%s) идёт речь.", desc.ItemLabel))
	}

	filtered, entityScores := o.classifier.FilterByEntity(ds, desc.EntityColumn, entity)
	if filtered.Len() == 0 {
		answer := o.emptyAnswer(question, opts,
			fmt.Sprintf("Данные по запрошенному объекту (%s) не найдены.", desc.ItemLabel))
		answer.Meta["entity"] = entity
		return answer
	}

	refined, dispatchScores := o.dispatcher.Apply(ctx, kind, question, filtered)
	scores := entityScores
	if len(dispatchScores) > 0 {
		scores = dispatchScores
	}

	records := o.project(log, desc, refined, scores)
	sortByRelevance(records)

	totalFound := len(records)
	if opts.MaxResults > 0 && len(records) > opts.MaxResults {
		records = records[:opts.MaxResults]
	}

	answer := domain.Answer{
		Text:       o.composer.Compose(ctx, question, records),
		Query:      question,
		TotalFound: totalFound,
		Items:      records,
		Meta:       map[string]string{"entity": entity},
		Category:   string(opts.Category),
	}
	log.Info("Pipeline completed",
		zap.String("entity", entity),
		zap.Int("total_found", totalFound),
		zap.Int("returned", len(records)),
	)
	return answer
}

// project converts rows into typed records, skipping rows that cannot be
// projected.
func (o *Orchestrator) project(log *zap.Logger, desc Descriptor, ds *dataset.Dataset, scores dataset.ScoreMap) []domain.Record {
	records := make([]domain.Record, 0, ds.Len())
	for _, row := range ds.Rows() {
		var score *float64
		if s, ok := scores[row.ID]; ok {
			score = &s
		}
		rec, err := desc.ToRecord(row, score)
		if err != nil {
			log.Warn("Skipping malformed row", zap.Int("row", row.ID), zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	return records
}

// sortByRelevance orders records by descending score, treating unscored
// records as zero. The sort is stable so rows with equal scores keep the
// order the filter produced.
func sortByRelevance(records []domain.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return recordScore(records[i]) > recordScore(records[j])
	})
}

func recordScore(r domain.Record) float64 {
	if s := r.Relevance(); s != nil {
		return *s
	}
	return 0
}

func (o *Orchestrator) errorAnswer(question string, opts Options, err error) domain.Answer {
	return domain.Answer{
		Text:     fmt.Sprintf("Не удалось обработать запрос: %v", err),
		Query:    question,
		Items:    []domain.Record{},
		Meta:     map[string]string{"error": err.Error()},
		Category: string(opts.Category),
	}
}

func (o *Orchestrator) emptyAnswer(question string, opts Options, text string) domain.Answer {
	return domain.Answer{
		Text:     text,
		Query:    question,
		Items:    []domain.Record{},
		Meta:     map[string]string{},
		Category: string(opts.Category),
	}
}
