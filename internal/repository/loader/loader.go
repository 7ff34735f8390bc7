// Package loader reads dataset files from disk into in-memory tables.
package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/askdata/internal/domain"
	"github.com/kailas-cloud/askdata/internal/domain/dataset"
)

// CSVLoader loads per-kind CSV files. The first row is the header with raw
// source column names.
type CSVLoader struct {
	paths  map[domain.Kind]string
	logger *zap.Logger
}

// New creates a loader with a path per dataset kind.
func New(paths map[domain.Kind]string, logger *zap.Logger) *CSVLoader {
	return &CSVLoader{paths: paths, logger: logger}
}

// Load reads the file configured for kind. Exports from office tools carry
// carriage-return artifacts ("_x000D_") and stray double quotes; both are
// stripped from every cell.
func (l *CSVLoader) Load(ctx context.Context, kind domain.Kind) (*dataset.Dataset, error) {
	path, ok := l.paths[kind]
	if !ok || path == "" {
		return nil, fmt.Errorf("no dataset path configured for %q: %w", kind, domain.ErrLoadFailure)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %q: %w: %w", path, err, domain.ErrLoadFailure)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse dataset %q: %w: %w", path, err, domain.ErrLoadFailure)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset %q has no header row: %w", path, domain.ErrLoadFailure)
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = cleanCell(h)
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = cleanCell(rec[i])
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	ds := dataset.New(header, rows)
	l.logger.Debug("Loaded dataset",
		zap.String("kind", string(kind)),
		zap.String("path", path),
		zap.Int("rows", ds.Len()),
	)
	return ds, nil
}

// CheckDatasets verifies every configured dataset file exists and is a
// regular file. Used by the health endpoint.
func (l *CSVLoader) CheckDatasets(_ context.Context) error {
	for kind, path := range l.paths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("dataset %q at %q: %w", kind, path, err)
		}
		if info.IsDir() {
			return fmt.Errorf("dataset %q path %q is a directory", kind, path)
		}
	}
	return nil
}

// cleanCell strips export artifacts and surrounding whitespace.
func cleanCell(s string) string {
	s = strings.ReplaceAll(s, "_x000D_", " ")
	s = strings.ReplaceAll(s, `"`, "")
	return strings.TrimSpace(s)
}
