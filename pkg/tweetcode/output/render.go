package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/models"
)

// ToJSON serializes v (a Detail, a table or search results).
func ToJSON(v interface{}, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// DetailMarkdown renders d the way the detail panel lays it out.
func DetailMarkdown(d Detail) string {
	var b strings.Builder

	b.WriteString("### " + models.DisplayLabel(models.ColumnText) + "\n")
	b.WriteString(d.Text + "\n\n")

	for _, l := range d.Labels {
		b.WriteString("#### " + l.Title + "\n")
		switch {
		case l.Missing:
			b.WriteString("_(missing: generate available)_\n")
		case l.Markdown == "":
			b.WriteString(l.Raw + "\n")
		default:
			b.WriteString(l.Markdown + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("#### " + models.DisplayLabel(models.ColumnSiteVisit) + "\n")
	b.WriteString(d.VisitStatus + "\n\n")

	b.WriteString("#### " + models.DisplayLabel(models.ColumnBinary) + "\n")
	if d.FlagsMissing {
		b.WriteString(Unknown + "\n")
	}
	for _, f := range d.Flags {
		fmt.Fprintf(&b, "- **%s:** %s\n", f.Name, f.Answer())
	}
	b.WriteString("\n")

	b.WriteString("#### " + models.DisplayLabel(models.ColumnDocument) + "\n")
	b.WriteString(d.Document + "\n\n")
	b.WriteString("#### " + models.DisplayLabel(models.ColumnGroup) + "\n")
	b.WriteString(d.Group + "\n")

	return b.String()
}

// TaxonomyMarkdown renders categories as main bullets with indented subs.
func TaxonomyMarkdown(categories []models.TaxonomyCategory) string {
	var b strings.Builder
	for i, c := range categories {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("## " + c.Name + "\n")
		for _, g := range c.Groups {
			b.WriteString("- **" + g.Main + "**\n")
			for _, sub := range g.Subs {
				b.WriteString("    - " + sub + "\n")
			}
		}
	}
	return b.String()
}
