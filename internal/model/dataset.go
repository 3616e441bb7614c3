package model

import "fmt"

// Dataset is an ordered sequence of rows of one entity type with a fixed
// column header. Datasets are produced fresh by each pass and read back by
// the passes that depend on them.
type Dataset struct {
	// Name is the file stem of the dataset (see the Dataset* constants).
	Name string

	// Header is the ordered list of column names.
	Header []string

	// Rows holds one slice of values per record, aligned with Header.
	Rows [][]Value
}

// NewDataset builds a dataset from typed records.
func NewDataset[R Record](name string, header []string, records []R) *Dataset {
	ds := &Dataset{
		Name:   name,
		Header: header,
		Rows:   make([][]Value, 0, len(records)),
	}
	for _, r := range records {
		ds.Rows = append(ds.Rows, r.Values())
	}
	return ds
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// ColumnIndex returns the position of a column, or -1 when absent.
func (d *Dataset) ColumnIndex(column string) int {
	for i, h := range d.Header {
		if h == column {
			return i
		}
	}
	return -1
}

// Column returns every value of the named column in row order.
func (d *Dataset) Column(column string) ([]Value, error) {
	idx := d.ColumnIndex(column)
	if idx < 0 {
		return nil, fmt.Errorf("dataset %s has no column %q", d.Name, column)
	}
	values := make([]Value, 0, len(d.Rows))
	for _, row := range d.Rows {
		if idx < len(row) {
			values = append(values, row[idx])
		} else {
			values = append(values, Null())
		}
	}
	return values, nil
}

// Get returns the named column of row i. Missing columns read as null.
func (d *Dataset) Get(i int, column string) Value {
	idx := d.ColumnIndex(column)
	if idx < 0 || i < 0 || i >= len(d.Rows) || idx >= len(d.Rows[i]) {
		return Null()
	}
	return d.Rows[i][idx]
}
