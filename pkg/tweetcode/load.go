package tweetcode

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/models"
	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/parser"
	"github.com/xuri/excelize/v2"
)

// LoadFile reads and normalizes the post table in the workbook at path.
func LoadFile(path string, opts Options) (*models.Table, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, NewLoadError(path, "open", ErrFileNotFound)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, NewLoadError(path, "open", fmt.Errorf("%w: %v", ErrInvalidFormat, err))
	}
	defer f.Close()

	return load(f, filepath.Base(path), opts)
}

// LoadReader reads and normalizes the post table from an uploaded workbook.
// name identifies the upload in errors and logs.
func LoadReader(r io.Reader, name string, opts Options) (*models.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, NewLoadError(name, "open", fmt.Errorf("%w: %v", ErrInvalidFormat, err))
	}
	defer f.Close()

	return load(f, name, opts)
}

// LoadDefault loads opts.DefaultSource. It returns ErrNoSource when that
// file does not exist.
func LoadDefault(opts Options) (*models.Table, error) {
	path, err := DefaultSourcePath(opts)
	if err != nil {
		return nil, err
	}
	return LoadFile(path, opts)
}

// DefaultSourcePath returns opts.DefaultSource if the file exists, or an
// error wrapping ErrNoSource.
func DefaultSourcePath(opts Options) (string, error) {
	path := opts.DefaultSource
	if path == "" {
		return "", ErrNoSource
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w (looked for %s)", ErrNoSource, path)
	}
	return path, nil
}

func load(f *excelize.File, name string, opts Options) (*models.Table, error) {
	sheetName, err := parser.SelectSheet(f, opts.SheetName)
	if err != nil {
		return nil, NewLoadError(name, "sheet", err)
	}

	raw, err := parser.ReadSheet(f, sheetName)
	if err != nil {
		return nil, NewLoadError(name, "read", err)
	}

	table := Normalize(raw, opts)
	slog.Debug("workbook loaded",
		"source", name,
		"sheet", sheetName,
		"rows", len(table.Rows),
		"columns", len(table.Columns),
	)
	return table, nil
}
