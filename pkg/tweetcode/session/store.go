// Package session holds the mutable table an analyst works on.
//
// A Store is owned by one interactive session and is not safe for concurrent
// use; callers that serve several goroutines must serialize access.
package session

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/ukaji3/tweetcode-go/pkg/tweetcode"
	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/models"
	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/parser"
	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/tagger"
)

var (
	// ErrNoTable indicates an operation needs a loaded table.
	ErrNoTable = errors.New("no table loaded")
	// ErrRowNotFound indicates the sequence id is not in the table.
	ErrRowNotFound = errors.New("row not found")
	// ErrUnknownColumn indicates the column is not in the table.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrNotHierarchical indicates a tag was requested for a non-hierarchical column.
	ErrNotHierarchical = errors.New("column does not hold hierarchical labels")
	// ErrNotMissing indicates a tag was requested for a cell that already has data.
	ErrNotMissing = errors.New("cell already has a value")
)

// Source is an uploaded workbook.
type Source struct {
	// Name is the file name shown to the analyst.
	Name string
	// Data is the full workbook content.
	Data []byte
}

// Identity returns the name and content digest that tell two uploads apart.
func (s *Source) Identity() string {
	sum := sha256.Sum256(s.Data)
	return s.Name + "@" + hex.EncodeToString(sum[:8])
}

// Store is the session context: the current table, the selected row and the
// identity of the loaded source.
type Store struct {
	id       string
	opts     tweetcode.Options
	tags     *tagger.Generator
	table    *models.Table
	source   string
	selected models.SequenceID
	hasSel   bool
}

// Option configures a Store.
type Option func(*Store)

// WithTagger sets the generator used by Generate.
func WithTagger(g *tagger.Generator) Option {
	return func(s *Store) { s.tags = g }
}

// New creates an empty store. Nothing is loaded until Load is called.
func New(opts tweetcode.Options, options ...Option) *Store {
	s := &Store{
		id:   uuid.NewString(),
		opts: opts,
		tags: tagger.New(nil),
	}
	for _, o := range options {
		o(s)
	}
	return s
}

// log resolves slog.Default on every call, so a store created before
// logging.Init still writes to the configured handler.
func (s *Store) log() *slog.Logger {
	return slog.With("component", "session", "session", s.id)
}

// ID returns the session id used in logs.
func (s *Store) ID() string { return s.id }

// Options returns the options the store loads and exports with.
func (s *Store) Options() tweetcode.Options { return s.opts }

// Table returns the current table, or nil before the first load.
// The table is shared with the store; callers must mutate it only through SetCell.
func (s *Store) Table() *models.Table { return s.table }

// Source returns the identity of the loaded source.
func (s *Store) Source() string { return s.source }

// Load replaces the table when src differs from the loaded source.
//
// A nil src keeps an already loaded table; with nothing loaded it falls back
// to the configured default workbook and fails with tweetcode.ErrNoSource if
// that is absent. The default workbook is read like any other file, so its
// identity matches a later LoadFile of the same path. The selection survives a
// reload only if its row still exists.
func (s *Store) Load(src *Source) error {
	if src == nil {
		if s.table != nil {
			return nil
		}
		path, err := tweetcode.DefaultSourcePath(s.opts)
		if err != nil {
			return err
		}
		return s.LoadFile(path)
	}

	identity := src.Identity()
	if s.table != nil && identity == s.source {
		return nil
	}
	table, err := tweetcode.LoadReader(bytes.NewReader(src.Data), src.Name, s.opts)
	if err != nil {
		return err
	}

	s.table = table
	s.source = identity
	if s.hasSel {
		if _, ok := table.Row(s.selected); !ok {
			s.ClearSelection()
		}
	}
	s.log().Info("table loaded", "source", identity, "rows", len(table.Rows))
	return nil
}

// LoadFile reads the workbook at path and loads it as a Source.
func (s *Store) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return tweetcode.NewLoadError(path, "open", tweetcode.ErrFileNotFound)
	}
	if err != nil {
		return tweetcode.NewLoadError(path, "open", err)
	}
	return s.Load(&Source{Name: filepath.Base(path), Data: data})
}

// Select sets the current row.
func (s *Store) Select(id models.SequenceID) error {
	if _, err := s.row(id); err != nil {
		return err
	}
	s.selected = id
	s.hasSel = true
	return nil
}

// ClearSelection drops the current selection.
func (s *Store) ClearSelection() {
	s.selected = 0
	s.hasSel = false
}

// Selected returns the selected row. ok is false when nothing is selected.
func (s *Store) Selected() (models.Row, bool) {
	if !s.hasSel || s.table == nil {
		return models.Row{}, false
	}
	return s.table.Row(s.selected)
}

// SetCell writes value into one cell. The preview is recomputed only when the
// text column changes.
func (s *Store) SetCell(id models.SequenceID, column string, value models.Cell) error {
	if _, err := s.row(id); err != nil {
		return err
	}
	idx := s.table.ColumnIndex(column)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}

	row := &s.table.Rows[id]
	row.Values[idx] = value
	if column == models.ColumnText {
		row.Preview = tweetcode.Preview(value, s.opts)
	}
	return nil
}

// Generate writes a placeholder tag into a missing hierarchical label cell and
// returns it.
func (s *Store) Generate(id models.SequenceID, column string) (string, error) {
	if !models.IsHierarchical(column) {
		return "", fmt.Errorf("%w: %q", ErrNotHierarchical, column)
	}
	if _, err := s.row(id); err != nil {
		return "", err
	}
	if !parser.IsMissing(s.table.Cell(id, column)) {
		return "", fmt.Errorf("%w: row %d column %q", ErrNotMissing, id, column)
	}

	tag := s.tags.Tag()
	if err := s.SetCell(id, column, models.Text(tag)); err != nil {
		return "", err
	}
	s.log().Info("label generated", "row", int(id), "column", column, "tag", tag)
	return tag, nil
}

// Search returns the ids of rows whose text contains substring, in table order.
// Rows with missing text never match; an empty substring matches every row.
// Text is compared in NFC form; caseInsensitive lowers each rune with its
// simple mapping, so "İ" matches "i".
func (s *Store) Search(substring string, caseInsensitive bool) []models.SequenceID {
	if s.table == nil {
		return nil
	}

	ids := make([]models.SequenceID, 0, len(s.table.Rows))
	if substring == "" {
		for _, row := range s.table.Rows {
			ids = append(ids, row.ID)
		}
		return ids
	}

	needle := searchKey(substring, caseInsensitive)
	textIdx := s.table.ColumnIndex(models.ColumnText)
	for _, row := range s.table.Rows {
		if textIdx < 0 || textIdx >= len(row.Values) {
			continue
		}
		text := row.Values[textIdx]
		if parser.IsMissing(text) {
			continue
		}
		if strings.Contains(searchKey(text.String(), caseInsensitive), needle) {
			ids = append(ids, row.ID)
		}
	}
	return ids
}

func searchKey(s string, caseInsensitive bool) string {
	s = norm.NFC.String(s)
	if caseInsensitive {
		s = strings.ToLower(s)
	}
	return s
}

// Export writes the current table as a workbook.
func (s *Store) Export(w io.Writer) error {
	if s.table == nil {
		return ErrNoTable
	}
	return tweetcode.Export(w, s.table, s.opts)
}

func (s *Store) row(id models.SequenceID) (models.Row, error) {
	if s.table == nil {
		return models.Row{}, ErrNoTable
	}
	row, ok := s.table.Row(id)
	if !ok {
		return models.Row{}, fmt.Errorf("%w: %d", ErrRowNotFound, id)
	}
	return row, nil
}
