package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/tweetcode-go/pkg/tweetcode"
	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/models"
	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/parser"
	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/session"
	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/tagger"
)

func codedTable() *models.Table {
	raw := &models.Table{
		Columns: []string{
			models.ColumnDocument, models.ColumnText, models.ColumnGroup,
			models.ColumnEventType, models.ColumnSiteVisit, models.ColumnCapability,
			models.ColumnThematic, models.ColumnBinary,
		},
		Rows: []models.Row{
			{ID: 0, Values: []models.Cell{
				models.Text("12"), models.Text("Tatbikat"), models.Text("Grup A"),
				models.Text("Askeri > Tatbikat"), models.Text("Ziyaret>Yurt dışı"), models.Text("NaN"),
				models.Text(">>"), models.Text("Resmi: 1, Video Var: 0"),
			}},
			{ID: 1, Values: []models.Cell{
				models.Null(), models.Text("  "), models.Text("//"),
				models.Null(), models.Text("//"), models.Null(),
				models.Null(), models.Text("null"),
			}},
		},
	}
	return tweetcode.Normalize(raw, tweetcode.DefaultOptions())
}

func TestBuildDetail_CodedRow(t *testing.T) {
	table := codedTable()
	d := BuildDetail(table, table.Rows[0])

	assert.Equal(t, models.SequenceID(0), d.ID)
	assert.Equal(t, "Tatbikat", d.Text)
	assert.Equal(t, "12", d.Document)
	assert.Equal(t, "Grup A", d.Group)
	assert.Equal(t, "Yurt dışı", d.VisitStatus)
	assert.False(t, d.FlagsMissing)
	assert.Equal(t, []models.Flag{{Name: "Resmi", Value: true}, {Name: "Video Var", Value: false}}, d.Flags)

	require.Len(t, d.Labels, 3)
	assert.Equal(t, []string{models.ColumnEventType, models.ColumnThematic, models.ColumnCapability},
		[]string{d.Labels[0].Column, d.Labels[1].Column, d.Labels[2].Column})

	event, ok := d.Label(models.ColumnEventType)
	require.True(t, ok)
	assert.Equal(t, "Olay Türü", event.Title)
	assert.False(t, event.Missing)
	assert.Equal(t, []string{"Askeri", "Tatbikat"}, event.Segments)
	assert.Equal(t, "- **Askeri**\n    - **Tatbikat**", event.Markdown)

	thematic, _ := d.Label(models.ColumnThematic)
	assert.False(t, thematic.Missing, "only-delimiter text is data, not missing")
	assert.Empty(t, thematic.Segments)

	assert.Equal(t, []string{models.ColumnCapability}, d.Generatable())
}

func TestBuildDetail_MissingRow(t *testing.T) {
	table := codedTable()
	d := BuildDetail(table, table.Rows[1])

	assert.Equal(t, EmptyText, d.Text)
	assert.Equal(t, Unknown, d.Document)
	assert.Equal(t, Unknown, d.Group)
	assert.Equal(t, Unknown, d.VisitStatus)
	assert.True(t, d.FlagsMissing)
	assert.Nil(t, d.Flags)
	assert.Len(t, d.Generatable(), 3)

	_, ok := d.Label("Belge")
	assert.False(t, ok)
}

func TestDetailMarkdown(t *testing.T) {
	table := codedTable()

	md := DetailMarkdown(BuildDetail(table, table.Rows[0]))
	assert.Contains(t, md, "### Tweet Metni\nTatbikat")
	assert.Contains(t, md, "#### Olay Türü\n- **Askeri**\n    - **Tatbikat**")
	assert.Contains(t, md, "#### Tematik Analiz\n>>")
	assert.Contains(t, md, "- **Resmi:** Yes")
	assert.Contains(t, md, "- **Video Var:** No")
	assert.Contains(t, md, "#### Ziyaret\nYurt dışı")

	md = DetailMarkdown(BuildDetail(table, table.Rows[1]))
	assert.Equal(t, 3, strings.Count(md, "generate available"))
	assert.Contains(t, md, "#### Binary\nUnknown")
}

func TestToJSON(t *testing.T) {
	table := codedTable()
	data, err := ToJSON(BuildDetail(table, table.Rows[1]), false)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "(Boş)", m["text"])
	assert.Equal(t, true, m["flags_missing"])
	assert.Nil(t, m["flags"])

	pretty, err := ToJSON(table, true)
	require.NoError(t, err)
	assert.Contains(t, string(pretty), "\n  \"columns\"")
	assert.Contains(t, string(pretty), "null", "Null cells encode as null")
}

func TestTaxonomyMarkdown(t *testing.T) {
	md := TaxonomyMarkdown([]models.TaxonomyCategory{
		{Name: "Olay Türü", Groups: []models.TaxonomyGroup{{Main: "Askeri", Subs: []string{"Tatbikat", "Konuşlanma"}}}},
		{Name: "Boş"},
	})
	assert.Equal(t, "## Olay Türü\n- **Askeri**\n    - Tatbikat\n    - Konuşlanma\n\n## Boş\n", md)
}

// A row whose text is "//" and whose event-type column is absent is offered a
// generate action; generating once makes the cell non-missing.
func TestGenerateFlowEndToEnd(t *testing.T) {
	raw := &models.Table{
		Columns: []string{models.ColumnDocument, models.ColumnText},
		Rows:    []models.Row{{ID: 0, Values: []models.Cell{models.Text("1"), models.Text("//")}}},
	}
	table := tweetcode.Normalize(raw, tweetcode.DefaultOptions())
	require.True(t, table.HasColumn(models.ColumnEventType))
	assert.Equal(t, "(Boş tweet)", table.Rows[0].Preview)

	d := BuildDetail(table, table.Rows[0])
	assert.Contains(t, d.Generatable(), models.ColumnEventType)

	var xlsx bytes.Buffer
	require.NoError(t, tweetcode.Export(&xlsx, table, tweetcode.DefaultOptions()))

	store := session.New(tweetcode.DefaultOptions(), session.WithTagger(tagger.NewSeeded(3)))
	require.NoError(t, store.Load(&session.Source{Name: "scenario.xlsx", Data: xlsx.Bytes()}))
	row, ok := store.Table().Row(0)
	require.True(t, ok)
	assert.True(t, parser.IsMissing(row.Get(store.Table(), models.ColumnEventType)))

	tag, err := store.Generate(0, models.ColumnEventType)
	require.NoError(t, err)
	cell := store.Table().Cell(0, models.ColumnEventType)
	assert.Equal(t, tag, cell.String())
	assert.False(t, parser.IsMissing(cell))

	after := BuildDetail(store.Table(), store.Table().Rows[0])
	assert.NotContains(t, after.Generatable(), models.ColumnEventType)
}
