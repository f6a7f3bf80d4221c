/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: table.go
Description: In-memory training table for the MedBayes parameter estimator. Holds
fully-observed categorical rows keyed by column name. The table is an abstract
tabular input: preprocessing collaborators fill it from CSV or any other source,
the estimator only reads it.
*/

package estimation

import (
	"fmt"

	"github.com/kleascm/medbayes/pkg/model"
)

// Table holds rows of categorical observations, one column per variable
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// NewTable creates an empty table with the given ordered column names
func NewTable(columns []string) (*Table, error) {
	if len(columns) == 0 {
		return nil, &model.DataError{Reason: "table must have at least one column"}
	}
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if name == "" {
			return nil, &model.DataError{Reason: "empty column name"}
		}
		if _, exists := index[name]; exists {
			return nil, &model.DataError{Column: name, Reason: "duplicate column name"}
		}
		index[name] = i
	}

	t := &Table{
		columns: make([]string, len(columns)),
		index:   index,
	}
	copy(t.columns, columns)
	return t, nil
}

// Append adds a row of values in column order
func (t *Table) Append(row []string) error {
	if len(row) != len(t.columns) {
		return &model.DataError{Reason: fmt.Sprintf("row has %d values, table has %d columns", len(row), len(t.columns))}
	}
	stored := make([]string, len(row))
	copy(stored, row)
	t.rows = append(t.rows, stored)
	return nil
}

// AppendRecord adds a row given as a map from column name to value.
// Every table column must be present in the record
func (t *Table) AppendRecord(record map[string]string) error {
	row := make([]string, len(t.columns))
	for i, name := range t.columns {
		value, ok := record[name]
		if !ok {
			return &model.DataError{Column: name, Reason: "record is missing a value for column"}
		}
		row[i] = value
	}
	t.rows = append(t.rows, row)
	return nil
}

// Columns returns the ordered column names
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn reports whether the named column exists
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// ColumnIndex returns the position of a column, or a DataError if absent
func (t *Table) ColumnIndex(name string) (int, error) {
	i, ok := t.index[name]
	if !ok {
		return 0, &model.DataError{Column: name, Reason: "column not found in training table"}
	}
	return i, nil
}

// Column returns a copy of all values in the named column
func (t *Table) Column(name string) ([]string, error) {
	i, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(t.rows))
	for r, row := range t.rows {
		out[r] = row[i]
	}
	return out, nil
}

// Row returns the row at the given index in column order
func (t *Table) Row(i int) []string {
	out := make([]string, len(t.rows[i]))
	copy(out, t.rows[i])
	return out
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}
