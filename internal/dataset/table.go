//-------------------------------------------------------------------------
//
// pgEdge Olist Analytics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package dataset

import (
	"strings"
)

// Table is an untyped, immutable view of one delimited source file.
// Cells are kept as raw strings; an empty or absent cell is missing.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string

	index map[string]int
}

// NewTable builds a table from a header and rows. The first occurrence of a
// duplicated column name wins for lookups.
func NewTable(name string, columns []string, rows [][]string) *Table {
	t := &Table{
		Name:    name,
		Columns: columns,
		Rows:    rows,
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
	return t
}

// Empty returns a table with no columns and no rows.
func Empty(name string) *Table {
	return NewTable(name, nil, nil)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// IsEmpty reports whether the table has no data rows.
func (t *Table) IsEmpty() bool {
	return t.Len() == 0
}

// Has reports whether the table carries the named column.
func (t *Table) Has(column string) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[column]
	return ok
}

// Get returns the cell at row i for column, or "" when either is absent.
func (t *Table) Get(i int, column string) string {
	if t == nil || i < 0 || i >= len(t.Rows) {
		return ""
	}
	c, ok := t.index[column]
	if !ok || c >= len(t.Rows[i]) {
		return ""
	}
	return t.Rows[i][c]
}

// Column returns every cell of a column; nil when the column is absent.
func (t *Table) Column(column string) []string {
	if !t.Has(column) {
		return nil
	}
	out := make([]string, len(t.Rows))
	for i := range t.Rows {
		out[i] = t.Get(i, column)
	}
	return out
}

// ColumnsContaining returns, in header order, the columns whose name
// contains any of the given substrings.
func (t *Table) ColumnsContaining(substrs ...string) []string {
	if t == nil {
		return nil
	}
	var out []string
	for i, c := range t.Columns {
		if t.index[c] != i {
			continue
		}
		for _, s := range substrs {
			if strings.Contains(c, s) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// Record returns row i as a column-to-value map, skipping empty cells.
func (t *Table) Record(i int) map[string]string {
	rec := make(map[string]string, len(t.Columns))
	for _, c := range t.Columns {
		if v := t.Get(i, c); v != "" {
			if _, seen := rec[c]; !seen {
				rec[c] = v
			}
		}
	}
	return rec
}

// WithColumn returns a copy of the table with one column appended or
// replaced. values is indexed by row; missing entries become "".
func (t *Table) WithColumn(column string, values []string) *Table {
	cols := append([]string(nil), t.Columns...)
	pos, exists := t.index[column]
	if !exists {
		pos = len(cols)
		cols = append(cols, column)
	}

	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		row := make([]string, len(cols))
		copy(row, r)
		if i < len(values) {
			row[pos] = values[i]
		} else {
			row[pos] = ""
		}
		rows[i] = row
	}
	return NewTable(t.Name, cols, rows)
}
