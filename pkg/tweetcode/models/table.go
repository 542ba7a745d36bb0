package models

// SequenceID identifies a row by its position in the loaded table (0-based).
type SequenceID int

// Row represents one post record.
type Row struct {
	// ID is the row position in the source sheet, excluding the header.
	ID SequenceID `json:"id"`
	// Values holds one cell per table column, in column order.
	Values []Cell `json:"values"`
	// Preview is the truncated display text. It is derived and never exported.
	Preview string `json:"preview"`
}

// Table is an ordered collection of rows sharing one column schema.
type Table struct {
	// Columns lists header names in sheet order.
	Columns []string `json:"columns"`
	// Rows contains data rows in sheet order.
	Rows []Row `json:"rows"`
}

// ColumnIndex returns the index of column, or -1 if absent.
func (t *Table) ColumnIndex(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// HasColumn reports whether column exists.
func (t *Table) HasColumn(column string) bool {
	return t.ColumnIndex(column) >= 0
}

// Row returns the row with the given id.
func (t *Table) Row(id SequenceID) (Row, bool) {
	if id < 0 || int(id) >= len(t.Rows) {
		return Row{}, false
	}
	return t.Rows[id], true
}

// Cell returns the value of column in row id. Absent rows or columns read as Null.
func (t *Table) Cell(id SequenceID, column string) Cell {
	row, ok := t.Row(id)
	if !ok {
		return Null()
	}
	return row.Get(t, column)
}

// Get returns the value of column in r, or Null if t has no such column.
func (r Row) Get(t *Table, column string) Cell {
	idx := t.ColumnIndex(column)
	if idx < 0 || idx >= len(r.Values) {
		return Null()
	}
	return r.Values[idx]
}
