package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/kailas-cloud/askdata/internal/domain"
	"github.com/kailas-cloud/askdata/internal/domain/dataset"
)

func TestProcessHappyPath(t *testing.T) {
	loader := &fakeLoader{ds: riskRows()}
	dispatcher := &fakeDispatcher{
		ids:    []int{2, 0},
		scores: dataset.ScoreMap{2: 1.0, 0: 0.5},
	}
	composer := &fakeComposer{}
	o := newTestOrchestrator(t, loader, &fakeClassifier{entity: "Альфа"}, dispatcher, composer)

	answer := o.Process(context.Background(), "какие риски у Альфы?", domain.KindRisks, Options{})
	if answer.TotalFound != 2 {
		t.Fatalf("TotalFound = %d, want 2", answer.TotalFound)
	}
	if len(answer.Items) != 2 {
		t.Fatalf("Items = %d, want 2", len(answer.Items))
	}
	if answer.Meta["entity"] != "Альфа" {
		t.Errorf("Meta entity = %q", answer.Meta["entity"])
	}
	// Descending by score: row 2 (1.0) before row 0 (0.5).
	first := answer.Items[0].(*domain.Risk)
	if first.RiskText != "превышение бюджета" {
		t.Errorf("top record = %q, want the highest scored row", first.RiskText)
	}
	if first.Relevance() == nil || *first.Relevance() != 1.0 {
		t.Errorf("top record relevance = %v, want 1.0", first.Relevance())
	}
	if !strings.Contains(answer.Text, "composed 2") {
		t.Errorf("answer text = %q", answer.Text)
	}
}

func TestProcessClassificationEmptySkipsFiltering(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	o := newTestOrchestrator(t, &fakeLoader{ds: riskRows()}, &fakeClassifier{entity: ""}, dispatcher, &fakeComposer{})

	answer := o.Process(context.Background(), "посчитай 2+2", domain.KindRisks, Options{})
	if len(answer.Items) != 0 {
		t.Errorf("Items = %d, want 0", len(answer.Items))
	}
	if !strings.Contains(answer.Text, "Не удалось определить") {
		t.Errorf("Text = %q, want classification-empty explanation", answer.Text)
	}
	if dispatcher.called {
		t.Error("dispatcher must not run when classification is empty")
	}
}

func TestProcessEntityFilterEmpty(t *testing.T) {
	// Classifier returns a value no row carries, so the entity filter
	// yields an empty view.
	o := newTestOrchestrator(t, &fakeLoader{ds: riskRows()}, &fakeClassifier{entity: "Гамма"}, &fakeDispatcher{}, &fakeComposer{})

	answer := o.Process(context.Background(), "вопрос", domain.KindRisks, Options{})
	if len(answer.Items) != 0 {
		t.Errorf("Items = %d, want 0", len(answer.Items))
	}
	if !strings.Contains(answer.Text, "не найдены") {
		t.Errorf("Text = %q", answer.Text)
	}
	if answer.Meta["entity"] != "Гамма" {
		t.Errorf("Meta entity = %q, want Гамма", answer.Meta["entity"])
	}
}

func TestProcessDispatchPassThroughKeepsEntityScores(t *testing.T) {
	// Relevance filter falls back to pass-through with no scores; the
	// entity-match scores of 1.0 must survive.
	dispatcher := &fakeDispatcher{}
	o := newTestOrchestrator(t, &fakeLoader{ds: riskRows()}, &fakeClassifier{entity: "Альфа"}, dispatcher, &fakeComposer{})

	answer := o.Process(context.Background(), "вопрос", domain.KindRisks, Options{})
	if len(answer.Items) != 3 {
		t.Fatalf("Items = %d, want all 3 Альфа rows", len(answer.Items))
	}
	for i, rec := range answer.Items {
		if rec.Relevance() == nil || *rec.Relevance() != 1.0 {
			t.Errorf("record %d relevance = %v, want 1.0", i, rec.Relevance())
		}
	}
}

func TestProcessEqualScoresKeepOrder(t *testing.T) {
	// All three matched rows score 1.0; the stable sort must preserve the
	// source order.
	o := newTestOrchestrator(t, &fakeLoader{ds: riskRows()}, &fakeClassifier{entity: "Альфа"}, &fakeDispatcher{}, &fakeComposer{})

	answer := o.Process(context.Background(), "вопрос", domain.KindRisks, Options{})
	wantOrder := []string{"задержка поставки", "превышение бюджета", "кадровый дефицит"}
	if len(answer.Items) != len(wantOrder) {
		t.Fatalf("Items = %d, want %d", len(answer.Items), len(wantOrder))
	}
	for i, want := range wantOrder {
		if got := answer.Items[i].(*domain.Risk).RiskText; got != want {
			t.Errorf("Items[%d] = %q, want %q", i, got, want)
		}
	}
}

func TestProcessCategoryPreFilter(t *testing.T) {
	o := newTestOrchestrator(t, &fakeLoader{ds: riskRows()}, &fakeClassifier{entity: "Альфа"}, &fakeDispatcher{}, &fakeComposer{})

	answer := o.Process(context.Background(), "вопрос", domain.KindRisks, Options{Category: domain.RiskCategoryNIOKR})
	if len(answer.Items) != 2 {
		t.Fatalf("Items = %d, want 2 НИОКР rows", len(answer.Items))
	}
	for _, rec := range answer.Items {
		if rec.(*domain.Risk).ProjectType != "НИОКР" {
			t.Errorf("record outside category: %+v", rec)
		}
	}
	if answer.Category != "niokr" {
		t.Errorf("Category = %q, want niokr", answer.Category)
	}
}

func TestProcessCategoryPreFilterEmpty(t *testing.T) {
	ds := dataset.New(
		[]string{"project_name", "project_type", "risk_text"},
		[]map[string]string{
			{"project_name": "Альфа", "project_type": "Производство", "risk_text": "риск"},
		},
	)
	o := newTestOrchestrator(t, &fakeLoader{ds: ds}, &fakeClassifier{entity: "Альфа"}, &fakeDispatcher{}, &fakeComposer{})

	answer := o.Process(context.Background(), "вопрос", domain.KindRisks, Options{Category: domain.RiskCategoryNIOKR})
	if len(answer.Items) != 0 {
		t.Errorf("Items = %d, want 0", len(answer.Items))
	}
	if !strings.Contains(answer.Text, "категории") {
		t.Errorf("Text = %q, want category-empty explanation", answer.Text)
	}
}

func TestProcessLoadFailureYieldsErrorAnswer(t *testing.T) {
	o := newTestOrchestrator(t, &fakeLoader{err: domain.ErrLoadFailure}, &fakeClassifier{}, &fakeDispatcher{}, &fakeComposer{})

	answer := o.Process(context.Background(), "вопрос", domain.KindRisks, Options{})
	if !strings.Contains(answer.Text, "Не удалось обработать запрос") {
		t.Errorf("Text = %q, want error explanation", answer.Text)
	}
	if answer.Meta["error"] == "" {
		t.Error("Meta error missing")
	}
	if len(answer.Items) != 0 {
		t.Errorf("Items = %d, want 0", len(answer.Items))
	}
}

func TestProcessUnknownKind(t *testing.T) {
	o := newTestOrchestrator(t, &fakeLoader{ds: riskRows()}, &fakeClassifier{}, &fakeDispatcher{}, &fakeComposer{})

	answer := o.Process(context.Background(), "вопрос", domain.Kind("unknown"), Options{})
	if !strings.Contains(answer.Text, "Не удалось обработать запрос") {
		t.Errorf("Text = %q", answer.Text)
	}
}

func TestProcessVocabularyEmpty(t *testing.T) {
	ds := dataset.New(
		[]string{"project_name", "risk_text"},
		[]map[string]string{
			{"project_name": "", "risk_text": "риск"},
		},
	)
	o := newTestOrchestrator(t, &fakeLoader{ds: ds}, &fakeClassifier{entity: "Альфа"}, &fakeDispatcher{}, &fakeComposer{})

	answer := o.Process(context.Background(), "вопрос", domain.KindRisks, Options{})
	if len(answer.Items) != 0 {
		t.Errorf("Items = %d, want 0", len(answer.Items))
	}
	if !strings.Contains(answer.Text, "нет значений") {
		t.Errorf("Text = %q, want vocabulary-empty explanation", answer.Text)
	}
}

func TestProcessMaxResultsCapsItemsNotTotal(t *testing.T) {
	o := newTestOrchestrator(t, &fakeLoader{ds: riskRows()}, &fakeClassifier{entity: "Альфа"}, &fakeDispatcher{}, &fakeComposer{})

	answer := o.Process(context.Background(), "вопрос", domain.KindRisks, Options{MaxResults: 1})
	if len(answer.Items) != 1 {
		t.Errorf("Items = %d, want 1", len(answer.Items))
	}
	if answer.TotalFound != 3 {
		t.Errorf("TotalFound = %d, want 3", answer.TotalFound)
	}
}

func TestProcessSkipsMalformedRows(t *testing.T) {
	ds := dataset.New(
		[]string{"project_name", "risk_text"},
		[]map[string]string{
			{"project_name": "Альфа", "risk_text": "задержка"},
			{"project_name": "Альфа", "risk_text": ""},
		},
	)
	o := newTestOrchestrator(t, &fakeLoader{ds: ds}, &fakeClassifier{entity: "Альфа"}, &fakeDispatcher{}, &fakeComposer{})

	answer := o.Process(context.Background(), "вопрос", domain.KindRisks, Options{})
	if len(answer.Items) != 1 {
		t.Errorf("Items = %d, want 1 (row without risk text skipped)", len(answer.Items))
	}
}
