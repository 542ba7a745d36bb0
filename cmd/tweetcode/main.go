// Package main provides the CLI entry point for tweetcode.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ukaji3/tweetcode-go/internal/config"
	"github.com/ukaji3/tweetcode-go/internal/logging"
	"github.com/ukaji3/tweetcode-go/internal/mcpserver"
	"github.com/ukaji3/tweetcode-go/internal/tui"
	"github.com/ukaji3/tweetcode-go/pkg/tweetcode"
	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/models"
	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/output"
	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/session"
	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/tagger"
	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/taxonomy"
)

var version = "dev"

var (
	cfg config.Config

	sourcePath    string
	sheetName     string
	taxonomyPath  string
	outputPath    string
	logLevel      string
	logFormat     string
	logFile       string
	seed          uint64
	pretty        bool
	asJSON        bool
	caseSensitive bool
	column        string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg = config.Load()

	rootCmd := &cobra.Command{
		Use:   "tweetcode",
		Short: "Browse and annotate hand-coded post tables",
		Long: `tweetcode loads an xlsx table of coded posts, decodes its hierarchical
labels, visit status and binary flags, and lets analysts search rows,
fill missing labels with placeholder tags and export the result.

Without a subcommand the interactive viewer starts.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
		RunE:              runTUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&sourcePath, "source", "s", cfg.Data.Source, "Source workbook (env TWEETCODE_SOURCE)")
	pf.StringVar(&sheetName, "sheet", cfg.Data.Sheet, "Sheet to read (default: first non-metadata sheet)")
	pf.StringVar(&taxonomyPath, "taxonomy", cfg.Data.Taxonomy, "Taxonomy document (env TWEETCODE_TAXONOMY)")
	pf.StringVarP(&outputPath, "output", "o", cfg.Data.Export, "Export file path (env TWEETCODE_EXPORT)")
	pf.StringVar(&logLevel, "log-level", cfg.Logging.Level, "Log level: debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", cfg.Logging.Format, "Log format: text, json")
	pf.StringVar(&logFile, "log-file", "", "Append logs to this file instead of stderr")
	pf.Uint64Var(&seed, "seed", 0, "Seed for placeholder tags (0: random)")

	rootCmd.AddCommand(
		tuiCmd(),
		showCmd(),
		searchCmd(),
		generateCmd(),
		exportCmd(),
		taxonomyCmd(),
		serveCmd(),
	)
	return rootCmd
}

func tuiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive viewer",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
	return cmd
}

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print the decoded labels of one row",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of markdown")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}

func searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "List rows whose text contains query",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSearch,
	}
	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "Match letter case exactly")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <id>",
		Short: "Fill a missing label with a placeholder tag and export",
		Args:  cobra.ExactArgs(1),
		RunE:  runGenerate,
	}
	cmd.Flags().StringVar(&column, "column", "", "Label column or display label (default: first missing)")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the normalized table to an xlsx file",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}
	return cmd
}

func taxonomyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taxonomy",
		Short: "Print the label taxonomy grouped by main category",
		Args:  cobra.NoArgs,
		RunE:  runTaxonomy,
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of markdown")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the table to MCP clients over stdio",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	return cmd
}

// setupLogging initializes the default logger. The viewer owns the terminal,
// so it only logs when --log-file is given.
func setupLogging(cmd *cobra.Command, _ []string) error {
	var w io.Writer = os.Stderr
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
	} else if cmd.Name() == "tui" || cmd.Name() == "tweetcode" {
		w = io.Discard
	}
	logging.Init(w, logging.IsJSON(logFormat), logging.ParseLevel(logLevel))
	return nil
}

func options() tweetcode.Options {
	opts := cfg.Options()
	opts.DefaultSource = sourcePath
	opts.SheetName = sheetName
	return opts
}

// openStore loads the source workbook into a new session. An explicit
// --source must exist; otherwise the configured default is tried and a
// missing default is reported as tweetcode.ErrNoSource.
func openStore(cmd *cobra.Command) (*session.Store, error) {
	var opts []session.Option
	if seed != 0 {
		opts = append(opts, session.WithTagger(tagger.NewSeeded(seed)))
	}
	store := session.New(options(), opts...)

	var err error
	if cmd.Flags().Changed("source") {
		err = store.LoadFile(sourcePath)
	} else {
		err = store.Load(nil)
	}
	if err != nil {
		if errors.Is(err, tweetcode.ErrNoSource) {
			return nil, fmt.Errorf("%w: pass --source or set TWEETCODE_SOURCE", err)
		}
		return nil, fmt.Errorf("failed to load table: %w", err)
	}
	return store, nil
}

func parseID(s string) (models.SequenceID, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid row id %q: %w", s, err)
	}
	return models.SequenceID(n), nil
}

func runTUI(cmd *cobra.Command, _ []string) error {
	m, err := newViewer(cmd)
	if err != nil {
		return err
	}
	if err := tui.Run(m); err != nil {
		return fmt.Errorf("viewer failed: %w", err)
	}
	return nil
}

// newViewer loads the store and taxonomy for the viewer. ctrl+s writes to --output.
func newViewer(cmd *cobra.Command) (*tui.Model, error) {
	store, err := openStore(cmd)
	if err != nil {
		return nil, err
	}

	categories, err := taxonomy.Load(taxonomyPath)
	if err != nil {
		slog.Warn("taxonomy unavailable", "path", taxonomyPath, "error", err)
	}
	return tui.New(store, categories, outputPath), nil
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	if err := store.Select(id); err != nil {
		return err
	}
	row, _ := store.Selected()
	d := output.BuildDetail(store.Table(), row)

	if asJSON {
		return writeJSON(cmd.OutOrStdout(), d)
	}
	fmt.Fprint(cmd.OutOrStdout(), output.DetailMarkdown(d))
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	var query string
	if len(args) == 1 {
		query = args[0]
	}

	ids := store.Search(query, !caseSensitive)
	rows := make([]models.Row, 0, len(ids))
	for _, id := range ids {
		row, _ := store.Table().Row(id)
		rows = append(rows, row)
	}

	if asJSON {
		type hit struct {
			ID      models.SequenceID `json:"id"`
			Preview string            `json:"preview"`
		}
		hits := make([]hit, 0, len(rows))
		for _, r := range rows {
			hits = append(hits, hit{ID: r.ID, Preview: r.Preview})
		}
		return writeJSON(cmd.OutOrStdout(), hits)
	}
	for _, r := range rows {
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", r.ID, strings.Join(strings.Fields(r.Preview), " "))
	}
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	row, ok := store.Table().Row(id)
	if !ok {
		return fmt.Errorf("%w: %d", session.ErrRowNotFound, id)
	}

	target := column
	if target == "" {
		missing := output.BuildDetail(store.Table(), row).Generatable()
		if len(missing) == 0 {
			return fmt.Errorf("%w: row %d has no missing labels", session.ErrNotMissing, id)
		}
		target = missing[0]
	} else if resolved, ok := models.ResolveColumn(target); ok {
		target = resolved
	}

	tag, err := store.Generate(id, target)
	if err != nil {
		return err
	}
	if err := exportTo(store, outputPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", models.DisplayLabel(target), tag)
	return nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	if err := exportTo(store, outputPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported %d rows to %s\n", len(store.Table().Rows), outputPath)
	return nil
}

func runTaxonomy(cmd *cobra.Command, _ []string) error {
	categories, err := taxonomy.Load(taxonomyPath)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(cmd.OutOrStdout(), categories)
	}
	fmt.Fprint(cmd.OutOrStdout(), output.TaxonomyMarkdown(categories))
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mcpserver.New(store, outputPath).Run(ctx, version); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func exportTo(store *session.Store, path string) error {
	if path == "" {
		return fmt.Errorf("output path is required")
	}
	if err := tweetcode.ExportFile(path, store.Table(), store.Options()); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	slog.Info("table exported", "path", path, "rows", len(store.Table().Rows))
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := output.ToJSON(v, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
