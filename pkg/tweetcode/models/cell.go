// Package models defines data structures for coded post tables.
package models

import "encoding/json"

// Cell is a single table value: either Null (no value in the source) or Text.
type Cell struct {
	text  string
	valid bool
}

// Null returns a cell with no value.
func Null() Cell {
	return Cell{}
}

// Text returns a cell holding s. An empty string is still a Text cell.
func Text(s string) Cell {
	return Cell{text: s, valid: true}
}

// IsNull reports whether the cell has no value.
func (c Cell) IsNull() bool {
	return !c.valid
}

// String returns the cell text, or "" for a Null cell.
func (c Cell) String() string {
	return c.text
}

// MarshalJSON encodes Null as null and Text as a JSON string.
func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.text)
}
