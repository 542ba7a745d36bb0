package models

import "strings"

// Expected label columns. Every normalized table carries all of them.
const (
	ColumnDocument   = "Belge"
	ColumnText       = "Kodlu Bölümler"
	ColumnGroup      = "Belge grubu"
	ColumnEventType  = "Determination of Events"
	ColumnSiteVisit  = "Site Visit"
	ColumnCapability = "Kabiliyet"
	ColumnThematic   = "Tematik Analiz"
	ColumnBinary     = "Binary"
)

// ExpectedColumns lists the label columns in the order they are appended when absent.
var ExpectedColumns = []string{
	ColumnDocument,
	ColumnText,
	ColumnGroup,
	ColumnEventType,
	ColumnSiteVisit,
	ColumnCapability,
	ColumnThematic,
	ColumnBinary,
}

// HierarchicalColumns are the ">"-delimited label columns that accept generated tags.
var HierarchicalColumns = []string{
	ColumnEventType,
	ColumnThematic,
	ColumnCapability,
}

// DisplayLabels maps column names to the headings shown to analysts.
var DisplayLabels = map[string]string{
	ColumnDocument:   "Belge (Sıra No.)",
	ColumnText:       "Tweet Metni",
	ColumnGroup:      "Profil / Grup",
	ColumnEventType:  "Olay Türü",
	ColumnSiteVisit:  "Ziyaret",
	ColumnCapability: "Kabiliyet",
	ColumnThematic:   "Tematik Analiz",
	ColumnBinary:     "Binary",
}

// DisplayLabel returns the heading for column, falling back to the column name.
func DisplayLabel(column string) string {
	if l, ok := DisplayLabels[column]; ok {
		return l
	}
	return column
}

// IsHierarchical reports whether column is one of HierarchicalColumns.
func IsHierarchical(column string) bool {
	for _, c := range HierarchicalColumns {
		if c == column {
			return true
		}
	}
	return false
}

// Flag is one binary attribute decoded from the Binary column.
type Flag struct {
	// Name is the attribute name as written in the source.
	Name string `json:"name"`
	// Value is true for "1" and false for "0".
	Value bool `json:"value"`
}

// Answer renders the flag value as "Yes" or "No".
func (f Flag) Answer() string {
	if f.Value {
		return "Yes"
	}
	return "No"
}

// ResolveColumn maps a column name or its display label to the column name.
// Matching ignores case and surrounding blanks.
func ResolveColumn(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, c := range ExpectedColumns {
		if strings.EqualFold(c, name) || strings.EqualFold(DisplayLabel(c), name) {
			return c, true
		}
	}
	return "", false
}
