package tweetcode

import (
	"fmt"
	"io"
	"os"

	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/models"
	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/parser"
	"github.com/xuri/excelize/v2"
)

// Export writes t to w as a single-sheet workbook: a header row followed by
// one row per record. Null cells are left empty and previews are not written.
// The workbook is built fully in memory before anything is written to w.
func Export(w io.Writer, t *models.Table, opts Options) error {
	f, err := buildWorkbook(t, opts)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return NewLoadError(opts.ExportSheetName(), "write", err)
	}
	return nil
}

// ExportFile writes t to the workbook at path, replacing any existing file.
func ExportFile(path string, t *models.Table, opts Options) error {
	out, err := os.Create(path)
	if err != nil {
		return NewLoadError(path, "write", err)
	}
	if err := Export(out, t, opts); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return NewLoadError(path, "write", err)
	}
	return nil
}

func buildWorkbook(t *models.Table, opts Options) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := opts.ExportSheetName()
	if sheet != DefaultExportSheet {
		if err := f.SetSheetName(DefaultExportSheet, sheet); err != nil {
			f.Close()
			return nil, NewLoadError(sheet, "write", err)
		}
	}

	for colIdx, name := range t.Columns {
		if err := setCell(f, sheet, colIdx, 1, name); err != nil {
			f.Close()
			return nil, err
		}
	}

	for rowIdx, row := range t.Rows {
		for colIdx, cell := range row.Values {
			if cell.IsNull() {
				continue
			}
			if err := setCell(f, sheet, colIdx, rowIdx+2, parser.CellValue(cell.String())); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	return f, nil
}

func setCell(f *excelize.File, sheet string, colIdx, rowNum int, value interface{}) error {
	cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowNum)
	if err != nil {
		return NewLoadError(sheet, "write", err)
	}
	if err := f.SetCellValue(sheet, cellName, value); err != nil {
		return NewLoadError(sheet, "write", fmt.Errorf("cell %s: %w", cellName, err))
	}
	return nil
}
