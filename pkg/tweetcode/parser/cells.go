package parser

import (
	"fmt"
	"strconv"

	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/models"
	"github.com/xuri/excelize/v2"
)

// ReadSheet reads a sheet as a header row followed by data rows.
// The header is the first non-empty row. Data rows are padded or trimmed to
// the header width, empty cells become Null, and fully empty rows are skipped.
func ReadSheet(f *excelize.File, sheetName string) (*models.Table, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	headerIdx := headerRow(rows)
	if headerIdx < 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheetName)
	}

	table := &models.Table{Columns: headerNames(rows[headerIdx])}
	width := len(table.Columns)

	for _, row := range rows[headerIdx+1:] {
		values := make([]models.Cell, width)
		hasData := false
		for colIdx := 0; colIdx < width; colIdx++ {
			if colIdx >= len(row) || row[colIdx] == "" {
				values[colIdx] = models.Null()
				continue
			}
			hasData = true
			values[colIdx] = models.Text(row[colIdx])
		}
		if !hasData {
			continue
		}
		table.Rows = append(table.Rows, models.Row{
			ID:     models.SequenceID(len(table.Rows)),
			Values: values,
		})
	}

	return table, nil
}

// headerNames copies the header row, naming blank headers by position and
// suffixing repeated names with ".1", ".2", ... in column order.
func headerNames(row []string) []string {
	names := make([]string, len(row))
	seen := make(map[string]int, len(row))
	for i, name := range row {
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n)
		} else {
			seen[name] = 1
		}
		names[i] = name
	}
	return names
}

// maxExactInt bounds integers written as numbers: the General format shows at
// most 11 digits, and post ids (often 19 digits) must stay text.
const maxExactInt = 99999999999

// CellValue converts a cell string to the value written back to a sheet.
// Returns int64 or float64 when the number formats back to exactly s, so a
// load/export cycle does not alter the text; otherwise returns s.
func CellValue(s string) interface{} {
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		if strconv.FormatInt(i, 10) == s && i <= maxExactInt && i >= -maxExactInt {
			return i
		}
		return s
	}
	// Try float
	if len(s) <= 11 {
		if f, err := strconv.ParseFloat(s, 64); err == nil && f != 0 && strconv.FormatFloat(f, 'f', -1, 64) == s {
			return f
		}
	}
	return s
}
