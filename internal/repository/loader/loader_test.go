package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/askdata/internal/domain"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp csv: %v", err)
	}
	return path
}

func TestLoadParsesHeaderAndRows(t *testing.T) {
	path := writeTempCSV(t, "name,work_types\nAlpha,construction\nBeta,logistics\n")
	l := New(map[domain.Kind]string{domain.KindContractors: path}, zap.NewNop())

	ds, err := l.Load(context.Background(), domain.KindContractors)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("Load() rows = %d, want 2", ds.Len())
	}
	if !ds.HasColumn("work_types") {
		t.Error("column work_types missing")
	}
	if got := ds.Rows()[0].Get("name"); got != "Alpha" {
		t.Errorf("first row name = %q, want Alpha", got)
	}
}

func TestLoadStripsExportArtifacts(t *testing.T) {
	path := writeTempCSV(t, "name,notes\nAlpha,line one_x000D_line two\n")
	l := New(map[domain.Kind]string{domain.KindContractors: path}, zap.NewNop())

	ds, err := l.Load(context.Background(), domain.KindContractors)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got := ds.Rows()[0].Get("notes")
	want := "line one line two"
	if got != want {
		t.Errorf("notes = %q, want %q", got, want)
	}
}

func TestLoadShortRowPadded(t *testing.T) {
	path := writeTempCSV(t, "a,b,c\n1,2\n")
	l := New(map[domain.Kind]string{domain.KindRisks: path}, zap.NewNop())

	ds, err := l.Load(context.Background(), domain.KindRisks)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := ds.Rows()[0].Get("c"); got != "" {
		t.Errorf("missing cell = %q, want empty", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	l := New(map[domain.Kind]string{domain.KindRisks: "/nonexistent/risks.csv"}, zap.NewNop())

	_, err := l.Load(context.Background(), domain.KindRisks)
	if !errors.Is(err, domain.ErrLoadFailure) {
		t.Fatalf("Load() error = %v, want ErrLoadFailure", err)
	}
}

func TestLoadUnconfiguredKind(t *testing.T) {
	l := New(map[domain.Kind]string{}, zap.NewNop())

	_, err := l.Load(context.Background(), domain.KindProcesses)
	if !errors.Is(err, domain.ErrLoadFailure) {
		t.Fatalf("Load() error = %v, want ErrLoadFailure", err)
	}
}
