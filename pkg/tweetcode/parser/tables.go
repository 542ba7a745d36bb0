// Package parser reads coded post sheets and decodes their label fields.
package parser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// metadataSheets are skipped when no sheet is named explicitly.
var metadataSheets = map[string]bool{
	"info":     true,
	"metadata": true,
	"about":    true,
	"readme":   true,
	"notes":    true,
}

// SelectSheet returns the sheet holding the post table.
// A non-empty preferred name must exist. Otherwise the first sheet whose name
// is not a metadata name is used, falling back to the last sheet.
func SelectSheet(f *excelize.File, preferred string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("no sheets in workbook")
	}

	if preferred != "" {
		for _, sheet := range sheets {
			if sheet == preferred {
				return sheet, nil
			}
		}
		return "", fmt.Errorf("sheet %q not found", preferred)
	}

	for _, sheet := range sheets {
		if !metadataSheets[strings.ToLower(sheet)] {
			return sheet, nil
		}
	}
	return sheets[len(sheets)-1], nil
}

// headerRow returns the index of the first row with a non-empty cell, or -1.
func headerRow(rows [][]string) int {
	for rowIdx, row := range rows {
		for _, cell := range row {
			if cell != "" {
				return rowIdx
			}
		}
	}
	return -1
}
