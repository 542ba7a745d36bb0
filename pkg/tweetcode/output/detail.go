// Package output renders rows for display and serialization.
package output

import (
	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/models"
	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/parser"
)

const (
	// EmptyText is shown for a selected row without text.
	EmptyText = "(Boş)"
	// Unknown is shown for missing scalar fields.
	Unknown = "Unknown"
)

// Label is one hierarchical label field of a row.
type Label struct {
	// Column is the source column name.
	Column string `json:"column"`
	// Title is the heading shown to analysts.
	Title string `json:"title"`
	// Missing reports whether the cell has no real data.
	Missing bool `json:"missing"`
	// CanGenerate reports whether a placeholder tag may be generated.
	CanGenerate bool `json:"can_generate"`
	// Raw is the cell text (empty when missing).
	Raw string `json:"raw,omitempty"`
	// Segments is the parsed hierarchy, most general first.
	Segments []string `json:"segments,omitempty"`
	// Markdown is the nested bullet rendering of Segments.
	Markdown string `json:"markdown,omitempty"`
}

// Detail is everything the detail panel shows for one row.
type Detail struct {
	// ID is the row sequence id.
	ID models.SequenceID `json:"id"`
	// Text is the post text, or EmptyText.
	Text string `json:"text"`
	// Labels holds the hierarchical label fields in display order.
	Labels []Label `json:"labels"`
	// VisitStatus is the last visit segment, or Unknown.
	VisitStatus string `json:"visit_status"`
	// Flags holds the decoded binary attributes; nil when the cell is missing.
	Flags []models.Flag `json:"flags"`
	// FlagsMissing reports whether the Binary cell has no real data.
	FlagsMissing bool `json:"flags_missing"`
	// Document is the document sequence number, or Unknown.
	Document string `json:"document"`
	// Group is the source profile or group, or Unknown.
	Group string `json:"group"`
}

// BuildDetail decodes the label fields of row. Every field goes through
// parser.IsMissing before any parser sees it.
func BuildDetail(t *models.Table, row models.Row) Detail {
	d := Detail{
		ID:          row.ID,
		Text:        textOr(row.Get(t, models.ColumnText), EmptyText),
		VisitStatus: Unknown,
		Document:    textOr(row.Get(t, models.ColumnDocument), Unknown),
		Group:       textOr(row.Get(t, models.ColumnGroup), Unknown),
	}

	for _, column := range models.HierarchicalColumns {
		cell := row.Get(t, column)
		label := Label{
			Column: column,
			Title:  models.DisplayLabel(column),
		}
		if parser.IsMissing(cell) {
			label.Missing = true
			label.CanGenerate = true
		} else {
			label.Raw = cell.String()
			label.Segments = parser.ParseHierarchy(cell.String())
			label.Markdown = parser.HierarchyMarkdown(cell.String())
		}
		d.Labels = append(d.Labels, label)
	}

	if visit := row.Get(t, models.ColumnSiteVisit); !parser.IsMissing(visit) {
		d.VisitStatus = parser.ParseVisitStatus(visit.String())
	}

	if flags := row.Get(t, models.ColumnBinary); parser.IsMissing(flags) {
		d.FlagsMissing = true
	} else {
		d.Flags = parser.ParseBinaryFlags(flags.String())
	}

	return d
}

// Label returns the label for column, if present.
func (d Detail) Label(column string) (Label, bool) {
	for _, l := range d.Labels {
		if l.Column == column {
			return l, true
		}
	}
	return Label{}, false
}

// Generatable returns the columns offered a generate action, in display order.
func (d Detail) Generatable() []string {
	var columns []string
	for _, l := range d.Labels {
		if l.CanGenerate {
			columns = append(columns, l.Column)
		}
	}
	return columns
}

func textOr(c models.Cell, fallback string) string {
	if parser.IsMissing(c) {
		return fallback
	}
	return c.String()
}
