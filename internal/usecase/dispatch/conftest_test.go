package dispatch

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/askdata/internal/domain"
	"github.com/kailas-cloud/askdata/internal/domain/dataset"
	"github.com/kailas-cloud/askdata/internal/tools"
)

type mockExtractor struct {
	keywords []string
	err      error
	calls    int
}

func (m *mockExtractor) Extract(_ context.Context, _ string, _ int) ([]string, error) {
	m.calls++
	return m.keywords, m.err
}

type mockTool struct {
	result *dataset.Dataset
	scores dataset.ScoreMap
	err    error
	params tools.Params
}

func (m *mockTool) Schema() tools.Schema {
	return tools.Schema{Name: tools.SearchByKeywordsName}
}

func (m *mockTool) Execute(_ context.Context, _ *dataset.Dataset, p tools.Params) (*dataset.Dataset, dataset.ScoreMap, error) {
	m.params = p
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.result, m.scores, nil
}

type mockToolSource struct {
	tool tools.Tool
	err  error
}

func (m *mockToolSource) Get(_ string) (tools.Tool, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.tool, nil
}

func newTestExecutor(t *testing.T, route Route, ext *mockExtractor, src *mockToolSource) *Executor {
	t.Helper()
	return New(map[domain.Kind]Route{domain.KindRisks: route}, ext, src, zap.NewNop())
}

func twoRowDataset() *dataset.Dataset {
	return dataset.New(
		[]string{"risk_text"},
		[]map[string]string{
			{"risk_text": "first"},
			{"risk_text": "second"},
		},
	)
}
