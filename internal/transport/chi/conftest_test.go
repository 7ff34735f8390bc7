package chi

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/askdata/internal/domain"
	"github.com/kailas-cloud/askdata/internal/tools"
	healthuc "github.com/kailas-cloud/askdata/internal/usecase/health"
	"github.com/kailas-cloud/askdata/internal/usecase/pipeline"
)

type mockPipeline struct {
	answer   domain.Answer
	lastKind domain.Kind
	lastOpts pipeline.Options
	calls    int
}

func (m *mockPipeline) Process(_ context.Context, question string, kind domain.Kind, opts pipeline.Options) domain.Answer {
	m.calls++
	m.lastKind = kind
	m.lastOpts = opts
	if m.answer.Query == "" {
		m.answer.Query = question
	}
	return m.answer
}

type mockToolLister struct {
	schemas []tools.Schema
}

func (m *mockToolLister) Schemas() []tools.Schema { return m.schemas }

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

func newTestServer(t *testing.T, p *mockPipeline, h *mockHealth) *httptest.Server {
	t.Helper()
	if h == nil {
		h = &mockHealth{report: healthuc.Report{Status: healthuc.Healthy, Checks: map[string]healthuc.CheckResult{}}}
	}
	srv := NewServer(p, &mockToolLister{schemas: []tools.Schema{{Name: "search_by_keywords"}}}, h, map[domain.Kind]int{domain.KindErrors: 3}, zap.NewNop())
	r := chi.NewRouter()
	srv.Routes(r)
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}
