package compose

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/askdata/internal/domain"
)

type mockGenerator struct {
	text     string
	err      error
	calls    int
	lastUser string
}

func (m *mockGenerator) GenerateText(_ context.Context, _, user string, _ float32) (string, error) {
	m.calls++
	m.lastUser = user
	return m.text, m.err
}

func sampleRisks() []domain.Record {
	r1 := &domain.Risk{ProjectName: "Альфа", RiskText: "задержка поставки", RiskPriority: "высокая"}
	r1.SetRelevance(0.9)
	r2 := &domain.Risk{ProjectName: "Альфа", RiskText: "превышение бюджета"}
	return []domain.Record{r1, r2}
}

func TestComposeUsesBackendText(t *testing.T) {
	gen := &mockGenerator{text: "Основной риск проекта Альфа - задержка поставки."}
	c := New(gen, 0.2, zap.NewNop())

	got := c.Compose(context.Background(), "какие риски у Альфы?", sampleRisks())
	if got != gen.text {
		t.Errorf("Compose() = %q, want backend text", got)
	}
	if !strings.Contains(gen.lastUser, "задержка поставки") {
		t.Error("prompt does not carry record contents")
	}
	if !strings.Contains(gen.lastUser, "какие риски у Альфы?") {
		t.Error("prompt does not carry the question")
	}
}

func TestComposeBackendFailureFallsBack(t *testing.T) {
	gen := &mockGenerator{err: errors.New("backend down")}
	c := New(gen, 0.2, zap.NewNop())

	got := c.Compose(context.Background(), "вопрос", sampleRisks())
	if !strings.Contains(got, "найдено записей: 2") {
		t.Errorf("fallback text = %q, want record count", got)
	}
	if !strings.Contains(got, "задержка поставки") {
		t.Errorf("fallback text = %q, want record contents", got)
	}
}

func TestComposeBlankBackendAnswerFallsBack(t *testing.T) {
	gen := &mockGenerator{text: "   "}
	c := New(gen, 0.2, zap.NewNop())

	got := c.Compose(context.Background(), "вопрос", sampleRisks())
	if !strings.Contains(got, "найдено записей") {
		t.Errorf("Compose() = %q, want fallback", got)
	}
}

func TestComposeNoRecordsSkipsBackend(t *testing.T) {
	gen := &mockGenerator{text: "unused"}
	c := New(gen, 0.2, zap.NewNop())

	got := c.Compose(context.Background(), "вопрос", nil)
	if !strings.Contains(got, "ничего не найдено") {
		t.Errorf("Compose() = %q, want empty-result text", got)
	}
	if gen.calls != 0 {
		t.Errorf("backend called %d times for empty records, want 0", gen.calls)
	}
}

func TestFormatRecordsPerKind(t *testing.T) {
	records := []domain.Record{
		&domain.Contractor{Name: "СтройКА", WorkTypes: "монтаж"},
		&domain.ProjectError{Project: "Бета", Description: "ошибка в смете"},
		&domain.Process{Name: "Согласование", Description: "процесс согласования"},
	}

	got := FormatRecords(records)
	for _, want := range []string{
		"### Контрагент 1: СтройКА",
		"- Виды работ: монтаж",
		"### Ошибка 2",
		"- Описание: ошибка в смете",
		"### Бизнес-процесс 3: Согласование",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatRecords() missing %q:\n%s", want, got)
		}
	}
}

func TestFormatRecordsIncludesRelevance(t *testing.T) {
	got := FormatRecords(sampleRisks())
	if !strings.Contains(got, "Релевантность: 0.90") {
		t.Errorf("FormatRecords() missing relevance:\n%s", got)
	}
}
