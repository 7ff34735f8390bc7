package pipeline

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/askdata/internal/domain"
	"github.com/kailas-cloud/askdata/internal/domain/dataset"
)

// Descriptor fixes the per-kind pipeline parameters: which column names the
// entity, how an operator would call one item, how the dataset is narrowed
// before classification and how a row becomes a typed record.
type Descriptor struct {
	Kind         domain.Kind
	EntityColumn string
	ItemLabel    string
	PreFilter    func(ds *dataset.Dataset, opts Options) *dataset.Dataset
	ToRecord     func(row dataset.Row, score *float64) (domain.Record, error)
}

// project_type values as they appear in the risks source table.
var riskCategoryValues = map[domain.RiskCategory]string{
	domain.RiskCategoryNIOKR:         "НИОКР",
	domain.RiskCategoryProduct:       "Продуктовый проект",
	domain.RiskCategoryManufacturing: "Производство",
}

// Descriptors returns the built-in per-kind descriptors.
func Descriptors() map[domain.Kind]Descriptor {
	return map[domain.Kind]Descriptor{
		domain.KindContractors: {
			Kind:         domain.KindContractors,
			EntityColumn: "work_types",
			ItemLabel:    "проект",
			PreFilter:    passThrough,
			ToRecord:     contractorRecord,
		},
		domain.KindRisks: {
			Kind:         domain.KindRisks,
			EntityColumn: "project_name",
			ItemLabel:    "проект",
			PreFilter:    riskPreFilter,
			ToRecord:     riskRecord,
		},
		domain.KindErrors: {
			Kind:         domain.KindErrors,
			EntityColumn: "project",
			ItemLabel:    "проект",
			PreFilter:    passThrough,
			ToRecord:     errorRecord,
		},
		domain.KindProcesses: {
			Kind:         domain.KindProcesses,
			EntityColumn: "name",
			ItemLabel:    "бизнес-процесс",
			PreFilter:    passThrough,
			ToRecord:     processRecord,
		},
	}
}

func passThrough(ds *dataset.Dataset, _ Options) *dataset.Dataset { return ds }

// riskPreFilter narrows risks to the requested project category before any
// classification happens, so vocabularies stay category-local.
func riskPreFilter(ds *dataset.Dataset, opts Options) *dataset.Dataset {
	want, ok := riskCategoryValues[opts.Category]
	if !ok {
		return ds
	}
	want = strings.ToLower(want)
	return ds.Filter(func(r dataset.Row) bool {
		return strings.ToLower(strings.TrimSpace(r.Get("project_type"))) == want
	})
}

func contractorRecord(row dataset.Row, score *float64) (domain.Record, error) {
	if row.Get("name") == "" {
		return nil, fmt.Errorf("contractor row %d has no name", row.ID)
	}
	rec := &domain.Contractor{
		Name:          row.Get("name"),
		WorkTypes:     row.Get("work_types"),
		ContactPerson: row.Get("contact_person"),
		Contacts:      row.Get("contacts"),
		Website:       row.Get("website"),
		Projects:      row.Get("projects"),
		Comments:      row.Get("comments"),
		PrimaryInfo:   row.Get("primary_info"),
		StaffSize:     row.Get("staff_size"),
	}
	applyScore(rec, score)
	return rec, nil
}

func riskRecord(row dataset.Row, score *float64) (domain.Record, error) {
	if row.Get("risk_text") == "" {
		return nil, fmt.Errorf("risk row %d has no risk text", row.ID)
	}
	rec := &domain.Risk{
		ProjectID:    row.Get("project_id"),
		ProjectType:  row.Get("project_type"),
		ProjectName:  row.Get("project_name"),
		RiskText:     row.Get("risk_text"),
		RiskPriority: row.Get("risk_priority"),
		Status:       row.Get("status"),
	}
	applyScore(rec, score)
	return rec, nil
}

func errorRecord(row dataset.Row, score *float64) (domain.Record, error) {
	if row.Get("description") == "" {
		return nil, fmt.Errorf("error row %d has no description", row.ID)
	}
	rec := &domain.ProjectError{
		Date:        row.Get("date"),
		Responsible: row.Get("responsible"),
		Subject:     row.Get("subject"),
		Description: row.Get("description"),
		Measures:    row.Get("measures"),
		Reason:      row.Get("reason"),
		Project:     row.Get("project"),
		Stage:       row.Get("stage"),
		Category:    row.Get("category"),
	}
	applyScore(rec, score)
	return rec, nil
}

func processRecord(row dataset.Row, score *float64) (domain.Record, error) {
	if row.Get("name") == "" {
		return nil, fmt.Errorf("process row %d has no name", row.ID)
	}
	rec := &domain.Process{
		ID:              row.Get("id"),
		Name:            row.Get("name"),
		Description:     row.Get("description"),
		JSONFile:        row.Get("json_file"),
		TextDescription: row.Get("text_description"),
	}
	applyScore(rec, score)
	return rec, nil
}

func applyScore(rec domain.Record, score *float64) {
	if score != nil {
		rec.SetRelevance(*score)
	}
}
