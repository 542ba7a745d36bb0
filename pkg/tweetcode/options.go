// Package tweetcode loads, normalizes and exports hand-coded post tables.
package tweetcode

const (
	// DefaultSource is the workbook loaded when no file is supplied.
	DefaultSource = "otomatik_kodlama_sonuclari.xlsx"
	// DefaultExportName is the suggested file name for exports.
	DefaultExportName = "tweet_verisi.xlsx"
	// DefaultExportSheet is the sheet name written by Export.
	DefaultExportSheet = "Sheet1"
	// DefaultPreviewLength is the number of characters kept in a row preview.
	DefaultPreviewLength = 150
	// DefaultEmptyText is the preview shown for rows without text.
	DefaultEmptyText = "(Boş tweet)"
)

// Options configures loading and export behavior.
type Options struct {
	// DefaultSource is the path loaded when no source is supplied.
	DefaultSource string
	// SheetName selects the input sheet. If empty, the first non-metadata sheet is used.
	SheetName string
	// ExportSheet is the sheet name written on export.
	// If empty, defaults to DefaultExportSheet.
	ExportSheet string
	// PreviewLength is the preview size in characters.
	// If zero or negative, defaults to DefaultPreviewLength.
	PreviewLength int
	// EmptyText is the preview for rows whose text is missing.
	// If empty, defaults to DefaultEmptyText.
	EmptyText string
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{
		DefaultSource: DefaultSource,
		ExportSheet:   DefaultExportSheet,
		PreviewLength: DefaultPreviewLength,
		EmptyText:     DefaultEmptyText,
	}
}

// PreviewSize returns the effective preview length.
func (o Options) PreviewSize() int {
	if o.PreviewLength > 0 {
		return o.PreviewLength
	}
	return DefaultPreviewLength
}

// EmptyPreview returns the effective empty-text sentinel.
func (o Options) EmptyPreview() string {
	if o.EmptyText != "" {
		return o.EmptyText
	}
	return DefaultEmptyText
}

// ExportSheetName returns the effective export sheet name.
func (o Options) ExportSheetName() string {
	if o.ExportSheet != "" {
		return o.ExportSheet
	}
	return DefaultExportSheet
}
