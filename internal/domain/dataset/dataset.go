// Package dataset provides the request-scoped tabular data model.
//
// A Dataset is loaded once per request. Narrowing operations always return a
// new view over the same row values; the source is never mutated, so stages
// of a pipeline can hold earlier views safely.
package dataset

import "strings"

// Row is a single table row. ID is the row's position at load time and
// survives every subsequent filtering, so score maps stay stable.
type Row struct {
	ID    int
	Cells map[string]string
}

// Get returns the value of the named column, or "" if absent.
func (r Row) Get(column string) string {
	return r.Cells[column]
}

// ScoreMap maps row IDs to relevance scores in [0,1]. Only rows present in
// the filtered view appear; a row never appears with score 0.
type ScoreMap map[int]float64

// Dataset is an ordered table of rows with named columns.
type Dataset struct {
	columns []string
	rows    []Row
}

// New builds a dataset from column names and row cells, assigning row IDs
// by position.
func New(columns []string, cells []map[string]string) *Dataset {
	rows := make([]Row, len(cells))
	for i, c := range cells {
		rows[i] = Row{ID: i, Cells: c}
	}
	return &Dataset{columns: columns, rows: rows}
}

// Empty returns a dataset view with the same columns and no rows.
func (d *Dataset) Empty() *Dataset {
	return &Dataset{columns: d.columns}
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.rows) }

// Columns returns the column names in table order.
func (d *Dataset) Columns() []string { return d.columns }

// HasColumn reports whether the named column exists.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.columns {
		if c == name {
			return true
		}
	}
	return false
}

// Rows returns the rows in table order. The slice must not be modified.
func (d *Dataset) Rows() []Row { return d.rows }

// Head returns a view of the first n rows.
func (d *Dataset) Head(n int) *Dataset {
	if n < 0 {
		n = 0
	}
	if n > len(d.rows) {
		n = len(d.rows)
	}
	return &Dataset{columns: d.columns, rows: d.rows[:n]}
}

// Filter returns a new view holding the rows for which pred is true,
// preserving order and row IDs.
func (d *Dataset) Filter(pred func(Row) bool) *Dataset {
	kept := make([]Row, 0, len(d.rows))
	for _, r := range d.rows {
		if pred(r) {
			kept = append(kept, r)
		}
	}
	return &Dataset{columns: d.columns, rows: kept}
}

// Select returns a view holding the rows with the given IDs, in the order
// the IDs are listed. Unknown IDs are skipped.
func (d *Dataset) Select(ids []int) *Dataset {
	byID := make(map[int]Row, len(d.rows))
	for _, r := range d.rows {
		byID[r.ID] = r
	}
	kept := make([]Row, 0, len(ids))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			kept = append(kept, r)
		}
	}
	return &Dataset{columns: d.columns, rows: kept}
}

// WithColumn returns a copy of the dataset with one derived column added.
// Row cells are copied, so the source rows stay untouched.
func (d *Dataset) WithColumn(name string, value func(Row) string) *Dataset {
	columns := d.columns
	if !d.HasColumn(name) {
		columns = append(append([]string{}, d.columns...), name)
	}
	rows := make([]Row, len(d.rows))
	for i, r := range d.rows {
		cells := make(map[string]string, len(r.Cells)+1)
		for k, v := range r.Cells {
			cells[k] = v
		}
		cells[name] = value(r)
		rows[i] = Row{ID: r.ID, Cells: cells}
	}
	return &Dataset{columns: columns, rows: rows}
}

// DistinctNonEmpty returns the distinct non-empty values of a column in
// first-occurrence order. The stable order keeps vocabulary construction
// deterministic across identical loads.
func (d *Dataset) DistinctNonEmpty(column string) []string {
	seen := make(map[string]struct{}, len(d.rows))
	var values []string
	for _, r := range d.rows {
		v := strings.TrimSpace(r.Get(column))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values
}
