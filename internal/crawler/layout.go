package crawler

import "github.com/nao1215/marinecrawl/internal/model"

// Column is a logical field of a results table.
type Column struct {
	// Name identifies the field.
	Name string

	// Index is the cell position of the field in a complete row.
	Index int

	// Mergeable marks a field that may be rendered as one cell spanning
	// several rows (rowspan). It is checked on the first data row only.
	Mergeable bool
}

// ColumnLayout maps fields to cell positions for every row of one table.
//
// On the first data row every field is at its baseline index. When a
// mergeable field spans rows, the following rows omit its cell: the field
// inherits the first row's value, and every field after it moves one cell
// to the left per merged field before it.
//
// A layout is resolved once per table and never re-resolved.
type ColumnLayout struct {
	columns []Column
	merged  map[string]bool
	carried map[string]model.Value
}

// ResolveLayout builds the layout of a table from its first data row.
func ResolveLayout(first Row, columns []Column) *ColumnLayout {
	l := &ColumnLayout{
		columns: columns,
		merged:  make(map[string]bool),
		carried: make(map[string]model.Value),
	}
	for _, c := range columns {
		if c.Mergeable && first.HasRowspan(c.Index) {
			l.merged[c.Name] = true
		}
	}
	return l
}

// Merged reports whether field was found merged on the first data row.
func (l *ColumnLayout) Merged(field string) bool {
	return l.merged[field]
}

// Index returns the cell position of field in the data row with the given
// ordinal (0 for the first data row). inherit is true when the row has no
// cell for the field and the value comes from the first row.
// Unknown fields return -1.
func (l *ColumnLayout) Index(field string, ordinal int) (index int, inherit bool) {
	for _, c := range l.columns {
		if c.Name != field {
			continue
		}
		if ordinal == 0 {
			return c.Index, false
		}
		if l.merged[c.Name] {
			return -1, true
		}
		return c.Index - l.shift(c.Index), false
	}
	return -1, false
}

// shift counts the merged fields positioned before index.
func (l *ColumnLayout) shift(index int) int {
	n := 0
	for _, c := range l.columns {
		if l.merged[c.Name] && c.Index < index {
			n++
		}
	}
	return n
}

// Carry stores the first row's value of a merged field.
func (l *ColumnLayout) Carry(field string, v model.Value) {
	if l.merged[field] {
		l.carried[field] = v
	}
}

// Carried returns the first row's value of a merged field, null if none.
func (l *ColumnLayout) Carried(field string) model.Value {
	return l.carried[field]
}
