package tweetcode

import (
	"strings"

	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/models"
	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/parser"
)

// Normalize returns a copy of raw with harmonized column names, every expected
// label column present, and row previews computed.
//
// Columns whose name contains "Determination of Events" are renamed to exactly
// that. When several columns end up with the canonical name, the last one in
// column order is kept.
func Normalize(raw *models.Table, opts Options) *models.Table {
	columns := make([]string, len(raw.Columns))
	for i, c := range raw.Columns {
		if strings.Contains(c, models.ColumnEventType) && c != models.ColumnEventType {
			c = models.ColumnEventType
		}
		columns[i] = c
	}

	keep := keptColumns(columns)

	table := &models.Table{Columns: make([]string, 0, len(keep)+len(models.ExpectedColumns))}
	for _, idx := range keep {
		table.Columns = append(table.Columns, columns[idx])
	}

	var added []string
	for _, c := range models.ExpectedColumns {
		if !table.HasColumn(c) {
			table.Columns = append(table.Columns, c)
			added = append(added, c)
		}
	}

	textIdx := table.ColumnIndex(models.ColumnText)
	table.Rows = make([]models.Row, len(raw.Rows))
	for i, row := range raw.Rows {
		values := make([]models.Cell, 0, len(table.Columns))
		for _, idx := range keep {
			if idx < len(row.Values) {
				values = append(values, row.Values[idx])
			} else {
				values = append(values, models.Null())
			}
		}
		for range added {
			values = append(values, models.Null())
		}
		table.Rows[i] = models.Row{
			ID:      row.ID,
			Values:  values,
			Preview: Preview(values[textIdx], opts),
		}
	}

	return table
}

// keptColumns returns the indexes of columns to keep, dropping all but the last
// occurrence of the canonical event-type column.
func keptColumns(columns []string) []int {
	last := -1
	for i, c := range columns {
		if c == models.ColumnEventType {
			last = i
		}
	}

	keep := make([]int, 0, len(columns))
	for i, c := range columns {
		if c == models.ColumnEventType && i != last {
			continue
		}
		keep = append(keep, i)
	}
	return keep
}

// Preview returns the first opts.PreviewSize() characters of text, or the
// empty-text sentinel when text is missing.
func Preview(text models.Cell, opts Options) string {
	if parser.IsMissing(text) {
		return opts.EmptyPreview()
	}
	runes := []rune(text.String())
	if n := opts.PreviewSize(); len(runes) > n {
		return string(runes[:n])
	}
	return text.String()
}
