package pipeline

import (
	"context"

	"github.com/kailas-cloud/askdata/internal/domain"
	"github.com/kailas-cloud/askdata/internal/domain/dataset"
)

// Loader reads a dataset kind from storage.
type Loader interface {
	Load(ctx context.Context, kind domain.Kind) (*dataset.Dataset, error)
}

// Normalizer maps raw columns to the canonical schema.
type Normalizer interface {
	Normalize(ctx context.Context, kind domain.Kind, ds *dataset.Dataset) (*dataset.Dataset, error)
}

// Classifier resolves the entity a question refers to and narrows the
// dataset to it.
type Classifier interface {
	Vocabulary(ds *dataset.Dataset, column string) []string
	Classify(ctx context.Context, kind domain.Kind, question, itemLabel string, vocabulary []string) string
	FilterByEntity(ds *dataset.Dataset, column, value string) (*dataset.Dataset, dataset.ScoreMap)
}

// Dispatcher applies the per-kind relevance filtering strategy.
type Dispatcher interface {
	Apply(ctx context.Context, kind domain.Kind, question string, ds *dataset.Dataset) (*dataset.Dataset, dataset.ScoreMap)
}

// Composer renders the final answer text from records.
type Composer interface {
	Compose(ctx context.Context, question string, records []domain.Record) string
}
