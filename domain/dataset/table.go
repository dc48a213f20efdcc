package dataset

import (
	"fmt"

	"tabclass/domain/core"
)

// Column is a named, typed column of a Table
type Column struct {
	Name string     `json:"name"`
	Kind ColumnKind `json:"kind"`
}

// Row holds one cell per table column, in column order
type Row []Value

// Clone returns an independent copy of the row
func (r Row) Clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Table is an ordered set of typed columns and rows sharing that schema
type Table struct {
	Columns []Column
	Rows    []Row
}

// NewTable validates that every row matches the column set and that each
// non-null cell has its column's kind.
func NewTable(columns []Column, rows []Row) (*Table, error) {
	seen := make(map[string]bool, len(columns))
	for i, c := range columns {
		if !c.Kind.Valid() {
			return nil, fmt.Errorf("%w: column %d (%q) has unknown kind %q", core.ErrEmptyOrMalformedTable, i, c.Name, c.Kind)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("%w: duplicate column %q", core.ErrEmptyOrMalformedTable, c.Name)
		}
		seen[c.Name] = true
	}
	for r, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d", core.ErrEmptyOrMalformedTable, r, len(row), len(columns))
		}
		for c, v := range row {
			if !v.IsNull() && v.Kind() != columns[c].Kind {
				return nil, fmt.Errorf("%w: row %d column %q holds %s, declared %s",
					core.ErrEmptyOrMalformedTable, r, columns[c].Name, v.Kind(), columns[c].Kind)
			}
		}
	}
	return &Table{Columns: columns, Rows: rows}, nil
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnCount returns the number of columns
func (t *Table) ColumnCount() int {
	if t == nil {
		return 0
	}
	return len(t.Columns)
}

// IsEmpty reports whether the table has no rows or no columns
func (t *Table) IsEmpty() bool {
	return t.RowCount() == 0 || t.ColumnCount() == 0
}

// ColumnIndex returns the position of the named column, or -1
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Label resolves a column name to a LabelColumn
func (t *Table) Label(name string) (LabelColumn, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return LabelColumn{}, core.NewColumnNotFoundError(name)
	}
	return LabelColumn{Name: name, Index: idx, Kind: t.Columns[idx].Kind}, nil
}

// Headers returns the column names in order
func (t *Table) Headers() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// WithRows returns a table with the same schema and the given rows
func (t *Table) WithRows(rows []Row) *Table {
	cols := make([]Column, len(t.Columns))
	copy(cols, t.Columns)
	return &Table{Columns: cols, Rows: rows}
}

// Fingerprint hashes the schema and cells of the table
func (t *Table) Fingerprint() core.Hash {
	cells := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rendered := make([]string, len(row))
		for j, v := range row {
			rendered[j] = v.Key()
		}
		cells[i] = rendered
	}
	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Name + ":" + string(c.Kind)
	}
	return core.ComputeFingerprint(headers, cells)
}
