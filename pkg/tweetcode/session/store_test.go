package session_test

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/tweetcode-go/pkg/tweetcode"
	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/models"
	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/parser"
	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/session"
	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/tagger"
)

var tagShape = regexp.MustCompile(`^[a-z]{6}(>[a-z]{6}){2}$`)

// workbook builds an xlsx from header and rows. Empty strings stay blank.
func workbook(t *testing.T, header []string, rows ...[]string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		for c, v := range row {
			if v == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, i+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, v))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func tweets(t *testing.T) *session.Source {
	return &session.Source{
		Name: "tweets.xlsx",
		Data: workbook(t,
			[]string{"Belge", "Kodlu Bölümler", "Tematik Analiz"},
			[]string{"1", "İstanbul'da TATBİKAT", "Güvenlik > Savunma"},
			[]string{"2", "//", ""},
			[]string{"3", "tatbikat sona erdi", "nan"},
			[]string{"4", "", ""},
		),
	}
}

func loaded(t *testing.T) *session.Store {
	t.Helper()
	s := session.New(tweetcode.DefaultOptions(), session.WithTagger(tagger.NewSeeded(1)))
	require.NoError(t, s.Load(tweets(t)))
	return s
}

func TestStore_LoadNilWithoutDefault(t *testing.T) {
	opts := tweetcode.DefaultOptions()
	opts.DefaultSource = filepath.Join(t.TempDir(), "absent.xlsx")
	s := session.New(opts)

	err := s.Load(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tweetcode.ErrNoSource))
	assert.Nil(t, s.Table(), "no partial table on configuration error")
}

func TestStore_LoadNilUsesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.xlsx")
	data := tweets(t).Data
	require.NoError(t, os.WriteFile(path, data, 0644))

	opts := tweetcode.DefaultOptions()
	opts.DefaultSource = path
	s := session.New(opts)

	require.NoError(t, s.Load(nil))
	require.NotNil(t, s.Table())
	assert.Len(t, s.Table().Rows, 4)
	want := &session.Source{Name: "default.xlsx", Data: data}
	assert.Equal(t, want.Identity(), s.Source())
}

func TestStore_LoadFileOfDefaultKeepsEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tweets.xlsx")
	require.NoError(t, os.WriteFile(path, tweets(t).Data, 0644))

	opts := tweetcode.DefaultOptions()
	opts.DefaultSource = path
	s := session.New(opts, session.WithTagger(tagger.NewSeeded(1)))
	require.NoError(t, s.Load(nil))
	source := s.Source()

	tag, err := s.Generate(0, models.ColumnEventType)
	require.NoError(t, err)

	require.NoError(t, s.LoadFile(path))
	assert.Equal(t, source, s.Source())
	assert.Equal(t, tag, s.Table().Cell(0, models.ColumnEventType).String())

	require.NoError(t, s.Load(tweets(t)))
	assert.Equal(t, tag, s.Table().Cell(0, models.ColumnEventType).String(), "same bytes under the same name")
}

func TestStore_LogsToCurrentDefault(t *testing.T) {
	s := loaded(t)

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))

	_, err := s.Generate(1, models.ColumnEventType)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "label generated")
	assert.Contains(t, buf.String(), "session="+s.ID())
}

func TestStore_LoadSameSourceKeepsEdits(t *testing.T) {
	s := loaded(t)
	_, err := s.Generate(1, models.ColumnEventType)
	require.NoError(t, err)
	before := s.Table()

	require.NoError(t, s.Load(tweets(t)))
	require.NoError(t, s.Load(nil))

	assert.Same(t, before, s.Table(), "same identity must not reload")
	assert.False(t, parser.IsMissing(s.Table().Cell(1, models.ColumnEventType)))
}

func TestStore_LoadNewSourceReplacesTable(t *testing.T) {
	s := loaded(t)
	require.NoError(t, s.Select(3))
	first := s.Source()

	other := &session.Source{
		Name: "tweets.xlsx",
		Data: workbook(t, []string{"Kodlu Bölümler"}, []string{"tek satır"}),
	}
	require.NoError(t, s.Load(other))

	assert.NotEqual(t, first, s.Source(), "same name, different content is a new source")
	assert.Len(t, s.Table().Rows, 1)
	_, ok := s.Selected()
	assert.False(t, ok, "selection cleared when its row is gone")
}

func TestStore_LoadKeepsValidSelection(t *testing.T) {
	s := loaded(t)
	require.NoError(t, s.Select(0))

	other := &session.Source{
		Name: "other.xlsx",
		Data: workbook(t, []string{"Kodlu Bölümler"}, []string{"a"}, []string{"b"}),
	}
	require.NoError(t, s.Load(other))

	row, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, models.SequenceID(0), row.ID)
}

func TestStore_LoadInvalidSourceKeepsTable(t *testing.T) {
	s := loaded(t)
	before := s.Table()

	err := s.Load(&session.Source{Name: "bad.xlsx", Data: []byte("garbage")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, tweetcode.ErrInvalidFormat))
	assert.Same(t, before, s.Table())
}

func TestStore_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tweets.xlsx")
	require.NoError(t, os.WriteFile(path, tweets(t).Data, 0644))

	s := session.New(tweetcode.DefaultOptions())
	require.NoError(t, s.LoadFile(path))
	assert.Len(t, s.Table().Rows, 4)

	err := s.LoadFile(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.True(t, errors.Is(err, tweetcode.ErrFileNotFound))
}

func TestStore_Select(t *testing.T) {
	s := loaded(t)

	_, ok := s.Selected()
	assert.False(t, ok, "nothing selected after load")

	require.NoError(t, s.Select(2))
	row, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, models.SequenceID(2), row.ID)

	err := s.Select(99)
	assert.True(t, errors.Is(err, session.ErrRowNotFound))
	row, _ = s.Selected()
	assert.Equal(t, models.SequenceID(2), row.ID, "failed select keeps previous selection")

	s.ClearSelection()
	_, ok = s.Selected()
	assert.False(t, ok)
}

func TestStore_OperationsWithoutTable(t *testing.T) {
	s := session.New(tweetcode.DefaultOptions())

	assert.True(t, errors.Is(s.Select(0), session.ErrNoTable))
	assert.True(t, errors.Is(s.SetCell(0, models.ColumnText, models.Text("x")), session.ErrNoTable))
	assert.Nil(t, s.Search("x", true))
	assert.True(t, errors.Is(s.Export(&bytes.Buffer{}), session.ErrNoTable))
}

func TestStore_SetCell(t *testing.T) {
	s := loaded(t)
	previewBefore := s.Table().Rows[0].Preview

	require.NoError(t, s.SetCell(0, models.ColumnBinary, models.Text("Resmi: 1")))
	assert.Equal(t, "Resmi: 1", s.Table().Cell(0, models.ColumnBinary).String())
	assert.Equal(t, previewBefore, s.Table().Rows[0].Preview, "non-text column leaves preview")

	require.NoError(t, s.SetCell(1, models.ColumnText, models.Text("yeni metin")))
	assert.Equal(t, "yeni metin", s.Table().Rows[1].Preview)

	require.NoError(t, s.SetCell(0, models.ColumnText, models.Null()))
	assert.Equal(t, tweetcode.DefaultEmptyText, s.Table().Rows[0].Preview)

	assert.True(t, errors.Is(s.SetCell(0, "Yok", models.Text("x")), session.ErrUnknownColumn))
	assert.True(t, errors.Is(s.SetCell(-1, models.ColumnText, models.Text("x")), session.ErrRowNotFound))
}

func TestStore_Generate(t *testing.T) {
	s := loaded(t)

	tests := []struct {
		name    string
		id      models.SequenceID
		column  string
		wantErr error
	}{
		{name: "absent column created by normalizer", id: 1, column: models.ColumnEventType},
		{name: "nan token is missing", id: 2, column: models.ColumnThematic},
		{name: "null cell", id: 1, column: models.ColumnCapability},
		{name: "coded cell is kept", id: 0, column: models.ColumnThematic, wantErr: session.ErrNotMissing},
		{name: "non hierarchical column", id: 0, column: models.ColumnSiteVisit, wantErr: session.ErrNotHierarchical},
		{name: "unknown row", id: 42, column: models.ColumnEventType, wantErr: session.ErrRowNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, err := s.Generate(tt.id, tt.column)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Regexp(t, tagShape, tag)
			cell := s.Table().Cell(tt.id, tt.column)
			assert.Equal(t, tag, cell.String())
			assert.False(t, parser.IsMissing(cell))
		})
	}
}

func TestStore_GenerateTwiceFails(t *testing.T) {
	s := loaded(t)
	_, err := s.Generate(3, models.ColumnCapability)
	require.NoError(t, err)

	_, err = s.Generate(3, models.ColumnCapability)
	assert.True(t, errors.Is(err, session.ErrNotMissing))
}

func TestStore_Search(t *testing.T) {
	s := loaded(t)

	tests := []struct {
		name            string
		query           string
		caseInsensitive bool
		want            []models.SequenceID
	}{
		{name: "empty query matches all rows", query: "", caseInsensitive: true, want: []models.SequenceID{0, 1, 2, 3}},
		{name: "case insensitive", query: "tatbikat", caseInsensitive: true, want: []models.SequenceID{0, 2}},
		{name: "case sensitive", query: "tatbikat", caseInsensitive: false, want: []models.SequenceID{2}},
		{name: "missing text never matches", query: "/", caseInsensitive: true, want: []models.SequenceID{}},
		{name: "no hits", query: "deniz", caseInsensitive: true, want: []models.SequenceID{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Search(tt.query, tt.caseInsensitive))
		})
	}
}

func TestStore_SearchNormalizesText(t *testing.T) {
	s := session.New(tweetcode.DefaultOptions())
	require.NoError(t, s.Load(&session.Source{
		Name: "nfd.xlsx",
		Data: workbook(t, []string{"Kodlu Bölümler"}, []string{"Dag\u0306 yolu"}, []string{"DAĞ"}),
	}))

	assert.Equal(t, []models.SequenceID{0, 1}, s.Search("dağ", true))
	assert.Equal(t, []models.SequenceID{0}, s.Search("Dağ", false))
}

func TestStore_ExportRoundTrip(t *testing.T) {
	s := loaded(t)
	tag, err := s.Generate(1, models.ColumnEventType)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.Export(&buf))

	reloaded := session.New(tweetcode.DefaultOptions())
	require.NoError(t, reloaded.Load(&session.Source{Name: "export.xlsx", Data: buf.Bytes()}))

	assert.Equal(t, s.Table().Columns, reloaded.Table().Columns)
	assert.Equal(t, tag, reloaded.Table().Cell(1, models.ColumnEventType).String())
	for i := range s.Table().Rows {
		assert.Equal(t, s.Table().Rows[i].Values, reloaded.Table().Rows[i].Values)
	}
}

func TestStore_IDsAreDistinct(t *testing.T) {
	a := session.New(tweetcode.DefaultOptions())
	b := session.New(tweetcode.DefaultOptions())
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}
