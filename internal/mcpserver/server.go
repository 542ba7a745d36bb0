// Package mcpserver exposes a session over the Model Context Protocol.
//
// The SDK may dispatch tool calls concurrently, so every handler holds the
// server mutex while it touches the store.
package mcpserver

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/models"
	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/output"
	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/session"
)

const (
	// Name is the implementation name announced to clients.
	Name = "tweetcode"
	// DefaultSearchLimit caps search_rows results when no limit is given.
	DefaultSearchLimit = 50
)

// Server serves one session.Store.
type Server struct {
	mu         sync.Mutex
	store      *session.Store
	exportPath string
}

// New creates a server over store. exportPath is used by export_table when
// the call names no path.
func New(store *session.Store, exportPath string) *Server {
	return &Server{
		store:      store,
		exportPath: exportPath,
	}
}

func (s *Server) log() *slog.Logger {
	return slog.With("component", "mcpserver", "session", s.store.ID())
}

// MCP builds the protocol server with every tool registered.
func (s *Server) MCP(version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: Name, Version: version}, nil)
	mcp.AddTool(server, MetadataSearchRows, s.SearchRows)
	mcp.AddTool(server, MetadataGetRow, s.GetRow)
	mcp.AddTool(server, MetadataGenerateLabel, s.GenerateLabel)
	mcp.AddTool(server, MetadataExportTable, s.ExportTable)
	mcp.AddTool(server, MetadataLoadSource, s.LoadSource)
	return server
}

// Run serves over stdio until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context, version string) error {
	s.log().Info("serving over stdio", "tools", 5)
	return s.MCP(version).Run(ctx, &mcp.StdioTransport{})
}

// MetadataSearchRows describes the search_rows tool.
var MetadataSearchRows = &mcp.Tool{
	Name: "search_rows",
	Description: "Search the loaded table for posts whose text contains a substring. " +
		"Matching is case-insensitive unless case_sensitive is set. Rows without text never match; " +
		"an empty query lists every row. Returns sequence ids with text previews.",
}

// InputSearchRows is the input for the SearchRows tool.
type InputSearchRows struct {
	Query         string `json:"query" jsonschema:"substring to look for in the post text"`
	CaseSensitive bool   `json:"case_sensitive,omitempty" jsonschema:"match letter case exactly"`
	Limit         int    `json:"limit,omitempty" jsonschema:"maximum number of rows to return (default 50)"`
}

// RowSummary is one search hit.
type RowSummary struct {
	ID      models.SequenceID `json:"id"`
	Preview string            `json:"preview"`
}

// OutputSearchRows is the output for the SearchRows tool.
type OutputSearchRows struct {
	// Total is the number of matching rows before the limit is applied.
	Total int          `json:"total"`
	Rows  []RowSummary `json:"rows"`
}

// SearchRows runs a text search over the loaded table.
func (s *Server) SearchRows(_ context.Context, _ *mcp.CallToolRequest, input InputSearchRows) (*mcp.CallToolResult, OutputSearchRows, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store.Table() == nil {
		return nil, OutputSearchRows{}, session.ErrNoTable
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	ids := s.store.Search(input.Query, !input.CaseSensitive)
	out := OutputSearchRows{Total: len(ids), Rows: make([]RowSummary, 0, min(len(ids), limit))}
	for _, id := range ids {
		if len(out.Rows) == limit {
			break
		}
		row, _ := s.store.Table().Row(id)
		out.Rows = append(out.Rows, RowSummary{ID: id, Preview: row.Preview})
	}
	return nil, out, nil
}

// MetadataGetRow describes the get_row tool.
var MetadataGetRow = &mcp.Tool{
	Name: "get_row",
	Description: "Return the decoded labels of one row: text, hierarchical labels with their " +
		"segments, visit status, binary flags, document number and group. " +
		"The row becomes the session selection.",
}

// InputGetRow is the input for the GetRow tool.
type InputGetRow struct {
	ID int `json:"id" jsonschema:"row sequence id as returned by search_rows"`
}

// OutputGetRow is the output for the GetRow tool.
type OutputGetRow struct {
	Detail output.Detail `json:"detail"`
	// Markdown is the detail rendered the way the viewer shows it.
	Markdown string `json:"markdown"`
}

// GetRow selects a row and returns its decoded detail.
func (s *Server) GetRow(_ context.Context, _ *mcp.CallToolRequest, input InputGetRow) (*mcp.CallToolResult, OutputGetRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Select(models.SequenceID(input.ID)); err != nil {
		return nil, OutputGetRow{}, err
	}
	row, _ := s.store.Selected()
	d := output.BuildDetail(s.store.Table(), row)
	return nil, OutputGetRow{Detail: d, Markdown: output.DetailMarkdown(d)}, nil
}

// MetadataGenerateLabel describes the generate_label tool.
var MetadataGenerateLabel = &mcp.Tool{
	Name: "generate_label",
	Description: "Fill a missing hierarchical label of a row with a random placeholder tag " +
		"shaped like 'abcdef>ghijkl>mnopqr'. The column may be given by name or display label " +
		"(Olay Türü, Tematik Analiz, Kabiliyet); when omitted the first missing label is used. " +
		"Labels that already have data are never overwritten.",
}

// InputGenerateLabel is the input for the GenerateLabel tool.
type InputGenerateLabel struct {
	ID     int    `json:"id" jsonschema:"row sequence id"`
	Column string `json:"column,omitempty" jsonschema:"label column name or display label"`
}

// OutputGenerateLabel is the output for the GenerateLabel tool.
type OutputGenerateLabel struct {
	ID     models.SequenceID `json:"id"`
	Column string            `json:"column"`
	Tag    string            `json:"tag"`
}

// GenerateLabel writes a placeholder tag into a missing label cell.
func (s *Server) GenerateLabel(_ context.Context, _ *mcp.CallToolRequest, input InputGenerateLabel) (*mcp.CallToolResult, OutputGenerateLabel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := models.SequenceID(input.ID)
	column, err := s.generateColumn(id, input.Column)
	if err != nil {
		return nil, OutputGenerateLabel{}, err
	}
	tag, err := s.store.Generate(id, column)
	if err != nil {
		return nil, OutputGenerateLabel{}, err
	}
	return nil, OutputGenerateLabel{ID: id, Column: column, Tag: tag}, nil
}

func (s *Server) generateColumn(id models.SequenceID, name string) (string, error) {
	if name != "" {
		column, ok := models.ResolveColumn(name)
		if !ok {
			return "", fmt.Errorf("%w: %q", session.ErrUnknownColumn, name)
		}
		return column, nil
	}

	if s.store.Table() == nil {
		return "", session.ErrNoTable
	}
	row, ok := s.store.Table().Row(id)
	if !ok {
		return "", fmt.Errorf("%w: %d", session.ErrRowNotFound, id)
	}
	columns := output.BuildDetail(s.store.Table(), row).Generatable()
	if len(columns) == 0 {
		return "", fmt.Errorf("%w: row %d has no missing labels", session.ErrNotMissing, id)
	}
	return columns[0], nil
}

// MetadataExportTable describes the export_table tool.
var MetadataExportTable = &mcp.Tool{
	Name: "export_table",
	Description: "Write the current table, including generated labels, to an xlsx workbook. " +
		"Without a path the configured export file is used.",
}

// InputExportTable is the input for the ExportTable tool.
type InputExportTable struct {
	Path string `json:"path,omitempty" jsonschema:"destination file path"`
}

// OutputExportTable is the output for the ExportTable tool.
type OutputExportTable struct {
	Path  string `json:"path"`
	Rows  int    `json:"rows"`
	Bytes int    `json:"bytes"`
}

// ExportTable writes the table to disk.
func (s *Server) ExportTable(_ context.Context, _ *mcp.CallToolRequest, input InputExportTable) (*mcp.CallToolResult, OutputExportTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := input.Path
	if path == "" {
		path = s.exportPath
	}
	if path == "" {
		return nil, OutputExportTable{}, fmt.Errorf("path is required")
	}

	var buf bytes.Buffer
	if err := s.store.Export(&buf); err != nil {
		return nil, OutputExportTable{}, err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return nil, OutputExportTable{}, fmt.Errorf("failed to write export: %w", err)
	}

	s.log().Info("table exported", "path", path, "rows", len(s.store.Table().Rows))
	return nil, OutputExportTable{Path: path, Rows: len(s.store.Table().Rows), Bytes: buf.Len()}, nil
}

// MetadataLoadSource describes the load_source tool.
var MetadataLoadSource = &mcp.Tool{
	Name: "load_source",
	Description: "Replace the current table with the xlsx workbook at path. " +
		"Supplying the workbook that is already loaded keeps generated labels; " +
		"the selection survives only if its row exists in the new table.",
}

// InputLoadSource is the input for the LoadSource tool.
type InputLoadSource struct {
	Path string `json:"path" jsonschema:"path of the workbook to load"`
}

// OutputLoadSource is the output for the LoadSource tool.
type OutputLoadSource struct {
	Source string `json:"source"`
	Rows   int    `json:"rows"`
	// Replaced is false when the workbook was already loaded.
	Replaced bool `json:"replaced"`
}

// LoadSource loads a workbook from disk into the session.
func (s *Server) LoadSource(_ context.Context, _ *mcp.CallToolRequest, input InputLoadSource) (*mcp.CallToolResult, OutputLoadSource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if input.Path == "" {
		return nil, OutputLoadSource{}, fmt.Errorf("path is required")
	}
	before := s.store.Source()
	if err := s.store.LoadFile(input.Path); err != nil {
		return nil, OutputLoadSource{}, err
	}
	return nil, OutputLoadSource{
		Source:   s.store.Source(),
		Rows:     len(s.store.Table().Rows),
		Replaced: s.store.Source() != before,
	}, nil
}
