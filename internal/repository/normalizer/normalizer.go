// Package normalizer maps raw source column names to canonical ones and
// cleans cell values so the rest of the pipeline works with a stable schema.
package normalizer

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/askdata/internal/domain"
	"github.com/kailas-cloud/askdata/internal/domain/dataset"
)

// columnMaps translates raw export headers to canonical column names,
// per dataset kind. Unmapped columns pass through unchanged.
var columnMaps = map[domain.Kind]map[string]string{
	domain.KindContractors: {
		"Наименование_КА":        "name",
		"Виды_работ":             "work_types",
		"Контактное_лицо":        "contact_person",
		"Контакты":               "contacts",
		"Сайт":                   "website",
		"Задействован_в_проекте": "projects",
		"Комментарий":            "comments",
		"Первичная_информация":   "primary_info",
		"Штат":                   "staff_size",
	},
	domain.KindRisks: {
		"№ проекта":              "project_id",
		"Тип проекта":            "project_type",
		"Наименование проекта":   "project_name",
		"Риск":                   "risk_json",
		"Приоритетность":         "risk_priority",
		"Текущий статус":         "status",
		"Вероятность":            "probability",
		"Серьезность последствий": "severity",
		"Предлагаемые меры":      "proposed_measures",
	},
	domain.KindErrors: {
		"дата фиксации":      "date",
		"ответственный":      "responsible",
		"предмет ошибки":     "subject",
		"описание ошибки":    "description",
		"предпринятые меры":  "measures",
		"причина":            "reason",
		"проект":             "project",
		"стадия проекта":     "stage",
		"категория":          "category",
	},
	domain.KindProcesses: {
		"ID":                 "id",
		"Название процесса":  "name",
		"Описание":           "description",
		"Файл JSON":          "json_file",
		"Текстовое описание": "text_description",
	},
}

// Normalizer renames columns and cleans values per dataset kind.
type Normalizer struct {
	logger *zap.Logger
}

// New creates a normalizer.
func New(logger *zap.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize returns a copy of ds with canonical column names and collapsed
// whitespace in every cell. For risks the human-readable risk_text column is
// derived from the risk_json payload.
func (n *Normalizer) Normalize(_ context.Context, kind domain.Kind, ds *dataset.Dataset) (*dataset.Dataset, error) {
	mapping := columnMaps[kind]

	columns := make([]string, 0, len(ds.Columns()))
	for _, c := range ds.Columns() {
		columns = append(columns, canonicalName(c, mapping))
	}

	rows := make([]map[string]string, 0, ds.Len())
	for _, row := range ds.Rows() {
		out := make(map[string]string, len(row.Cells))
		for raw, v := range row.Cells {
			out[canonicalName(raw, mapping)] = collapseSpace(v)
		}
		rows = append(rows, out)
	}

	norm := dataset.New(columns, rows)
	if kind == domain.KindRisks && norm.HasColumn("risk_json") {
		norm = norm.WithColumn("risk_text", func(r dataset.Row) string {
			return riskText(r.Get("risk_json"))
		})
	}
	return norm, nil
}

func canonicalName(raw string, mapping map[string]string) string {
	if canon, ok := mapping[strings.TrimSpace(raw)]; ok {
		return canon
	}
	return strings.TrimSpace(raw)
}

// riskText extracts the human-readable text from the risk payload. The
// payload is JSON with the source text under "original"; anything else is
// returned as-is.
func riskText(payload string) string {
	var parsed struct {
		Original string `json:"original"`
	}
	if err := json.Unmarshal([]byte(payload), &parsed); err == nil && parsed.Original != "" {
		return collapseSpace(parsed.Original)
	}
	return collapseSpace(payload)
}

// collapseSpace trims and squashes runs of whitespace into single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
