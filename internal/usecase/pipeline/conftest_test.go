package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/kailas-cloud/askdata/internal/domain"
	"github.com/kailas-cloud/askdata/internal/domain/dataset"
)

type fakeLoader struct {
	ds  *dataset.Dataset
	err error
}

func (f *fakeLoader) Load(_ context.Context, _ domain.Kind) (*dataset.Dataset, error) {
	return f.ds, f.err
}

type fakeNormalizer struct {
	err error
}

func (f *fakeNormalizer) Normalize(_ context.Context, _ domain.Kind, ds *dataset.Dataset) (*dataset.Dataset, error) {
	if f.err != nil {
		return nil, f.err
	}
	return ds, nil
}

// fakeClassifier reuses the real vocabulary and entity-filter semantics and
// scripts only the backend decision.
type fakeClassifier struct {
	entity string
}

func (f *fakeClassifier) Vocabulary(ds *dataset.Dataset, column string) []string {
	if !ds.HasColumn(column) {
		return nil
	}
	return ds.DistinctNonEmpty(column)
}

func (f *fakeClassifier) Classify(_ context.Context, _ domain.Kind, _, _ string, _ []string) string {
	return f.entity
}

func (f *fakeClassifier) FilterByEntity(ds *dataset.Dataset, column, value string) (*dataset.Dataset, dataset.ScoreMap) {
	if value == "" || !ds.HasColumn(column) {
		return ds, dataset.ScoreMap{}
	}
	filtered := ds.Filter(func(r dataset.Row) bool { return r.Get(column) == value })
	if filtered.Len() == 0 {
		return ds.Empty(), dataset.ScoreMap{}
	}
	scores := make(dataset.ScoreMap, filtered.Len())
	for _, r := range filtered.Rows() {
		scores[r.ID] = 1.0
	}
	return filtered, scores
}

type fakeDispatcher struct {
	scores dataset.ScoreMap
	ids    []int
	called bool
}

func (f *fakeDispatcher) Apply(_ context.Context, _ domain.Kind, _ string, ds *dataset.Dataset) (*dataset.Dataset, dataset.ScoreMap) {
	f.called = true
	if f.ids == nil {
		return ds, f.scoresOrEmpty()
	}
	return ds.Select(f.ids), f.scoresOrEmpty()
}

func (f *fakeDispatcher) scoresOrEmpty() dataset.ScoreMap {
	if f.scores == nil {
		return dataset.ScoreMap{}
	}
	return f.scores
}

type fakeComposer struct {
	lastRecords []domain.Record
}

func (f *fakeComposer) Compose(_ context.Context, _ string, records []domain.Record) string {
	f.lastRecords = records
	return fmt.Sprintf("composed %d records", len(records))
}

func riskRows() *dataset.Dataset {
	return dataset.New(
		[]string{"project_name", "project_type", "risk_text"},
		[]map[string]string{
			{"project_name": "Альфа", "project_type": "НИОКР", "risk_text": "задержка поставки"},
			{"project_name": "Бета", "project_type": "Производство", "risk_text": "срыв сроков"},
			{"project_name": "Альфа", "project_type": "НИОКР", "risk_text": "превышение бюджета"},
			{"project_name": "Альфа", "project_type": "Производство", "risk_text": "кадровый дефицит"},
		},
	)
}

func newTestOrchestrator(t *testing.T, l *fakeLoader, cl *fakeClassifier, d *fakeDispatcher, cm *fakeComposer) *Orchestrator {
	t.Helper()
	return New(l, &fakeNormalizer{}, cl, d, cm)
}
