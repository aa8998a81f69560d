// Package main provides the CLI entrypoint for menureport.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/menureport/internal/config"
	"github.com/verte-zerg/menureport/internal/document"
	"github.com/verte-zerg/menureport/internal/export"
	"github.com/verte-zerg/menureport/internal/generator"
	"github.com/verte-zerg/menureport/internal/model"
	"github.com/verte-zerg/menureport/internal/preview"
	"github.com/verte-zerg/menureport/internal/previewui"
	"github.com/verte-zerg/menureport/internal/store"
)

const (
	defaultFormat   = "pdf"
	defaultSubject  = "My Restaurant"
	defaultPageSize = "A4"
	defaultLogLevel = "info"
	defaultDays     = 30
	defaultSeed     = 1
	defaultLimit    = 20
)

var (
	logLevel string

	inputPath   string
	inputSample bool
	inputSeed   int64
	inputDays   int

	exportFormat    string
	exportOutDir    string
	exportSubject   string
	exportDateRange string
	exportPageSize  string
	exportPieWedges bool
	exportNoCharts  bool
	exportNoRawData bool
	exportNoDevices bool
	exportNoPopular bool
	exportNoTraffic bool
	exportNoHistory bool

	previewPlain bool

	historyLimit   int
	historySubject string
	historyFormat  string

	sampleOut string
)

var (
	cardStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#3498DB"))
	cardLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "menureport",
		Short:         "Export restaurant menu analytics reports",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newPreviewCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newSampleCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&inputPath, "input", "", "analytics data JSON file")
	cmd.Flags().BoolVar(&inputSample, "sample", false, "use generated sample data")
	cmd.Flags().Int64Var(&inputSeed, "seed", defaultSeed, "sample data seed")
	cmd.Flags().IntVar(&inputDays, "days", defaultDays, "sample data days")
}

func addOptionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&exportSubject, "subject", defaultSubject, "restaurant name shown in the report")
	cmd.Flags().StringVar(&exportDateRange, "date-range", model.DefaultExportOptions().DateRangeLabel, "date range label")
	cmd.Flags().BoolVar(&exportNoCharts, "no-charts", false, "omit charts")
	cmd.Flags().BoolVar(&exportNoRawData, "no-raw-data", false, "omit daily series and category tables")
	cmd.Flags().BoolVar(&exportNoDevices, "no-devices", false, "omit device breakdown")
	cmd.Flags().BoolVar(&exportNoPopular, "no-popular", false, "omit popular items")
	cmd.Flags().BoolVar(&exportNoTraffic, "no-traffic", false, "omit hourly traffic")
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a report as pdf, json or csv",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	addInputFlags(cmd)
	addOptionFlags(cmd)
	cmd.Flags().StringVar(&exportFormat, "format", defaultFormat, "output format (pdf, json, csv)")
	cmd.Flags().StringVar(&exportOutDir, "out", "", "output directory (default: XDG data dir)")
	cmd.Flags().StringVar(&exportPageSize, "page-size", defaultPageSize, "page size (A4, Letter)")
	cmd.Flags().BoolVar(&exportPieWedges, "pie-wedges", false, "draw pie sectors in addition to the legend")
	cmd.Flags().BoolVar(&exportNoHistory, "no-history", false, "do not record the export in the history database")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cmd.ErrOrStderr(), resolveLogLevel(cmd, fileCfg))
	applyOptionConfig(cmd, fileCfg.Export)
	applyStringConfig(cmd, "format", &exportFormat, fileCfg.Export.Format)
	applyStringConfig(cmd, "out", &exportOutDir, fileCfg.Export.OutDir)
	applyStringConfig(cmd, "page-size", &exportPageSize, fileCfg.Export.PageSize)
	applyBoolConfig(cmd, "pie-wedges", &exportPieWedges, fileCfg.Export.PieWedges)
	applyNegatedBoolConfig(cmd, "no-history", &exportNoHistory, fileCfg.Export.RecordHistory)

	format, err := export.ParseFormat(strings.ToLower(exportFormat))
	if err != nil {
		return err
	}
	pageSize, err := parsePageSize(exportPageSize)
	if err != nil {
		return err
	}
	data, err := loadData(logger)
	if err != nil {
		return err
	}
	outDir := exportOutDir
	if outDir == "" {
		outDir = config.DefaultOutDir()
	}

	exporter := export.New(logger)
	exporter.Style.PageSize = pageSize
	exporter.Style.PieWedges = exportPieWedges
	artifact, err := exporter.Export(data, buildOptions(), exportSubject, format)
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}
	path, err := export.WriteArtifact(outDir, artifact)
	if err != nil {
		return err
	}

	if !exportNoHistory {
		if err := recordHistory(cmd.Context(), model.ExportRecord{
			CreatedAt: artifact.GeneratedAt,
			Subject:   exportSubject,
			Format:    format,
			Filename:  artifact.Filename,
			Path:      path,
			Bytes:     int64(len(artifact.Data)),
			Pages:     artifact.Pages,
		}); err != nil {
			logger.Warn().Err(err).Msg("export written but history not recorded")
		}
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), renderSummary(path, artifact))
	return err
}

func newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview a report in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runPreviewCmd,
	}
	addInputFlags(cmd)
	addOptionFlags(cmd)
	cmd.Flags().BoolVar(&previewPlain, "plain", false, "print plain text instead of the interactive view")
	return cmd
}

func runPreviewCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cmd.ErrOrStderr(), resolveLogLevel(cmd, fileCfg))
	applyOptionConfig(cmd, fileCfg.Export)
	data, err := loadData(logger)
	if err != nil {
		return err
	}
	opts := buildOptions()

	if previewPlain || !isTerminal(cmd.OutOrStdout()) {
		sections, err := preview.Build(data, opts, preview.PlotOptions{})
		if err != nil {
			return err
		}
		return preview.Write(cmd.OutOrStdout(), sections)
	}

	history := loadHistory(cmd.Context(), logger, store.HistoryFilter{Limit: defaultLimit})
	m := previewui.NewModel(exportSubject, data, opts, history)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run preview TUI: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past exports",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLimit, "limit", defaultLimit, "number of exports to show (0 for all)")
	cmd.Flags().StringVar(&historySubject, "subject", "", "subject filter")
	cmd.Flags().StringVar(&historyFormat, "format", "", "format filter")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	filter := store.HistoryFilter{Limit: historyLimit, Subject: historySubject}
	if historyFormat != "" {
		format, err := export.ParseFormat(strings.ToLower(historyFormat))
		if err != nil {
			return err
		}
		filter.Format = format
	}
	if historyLimit < 0 {
		return fmt.Errorf("--limit must be >= 0")
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	records, err := st.ListExports(cmd.Context(), filter)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "No exports recorded yet.")
		return err
	}

	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Subject,
			string(r.Format),
			fmt.Sprintf("%d", r.Pages),
			formatBytes(r.Bytes),
			r.Path,
		}
	}
	for _, line := range preview.FormatTable([]string{"When", "Subject", "Format", "Pages", "Size", "Path"}, rows, map[int]bool{3: true, 4: true}) {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write generated analytics data as JSON",
		Args:  cobra.NoArgs,
		RunE:  runSampleCmd,
	}
	cmd.Flags().StringVar(&sampleOut, "out", "", "output file (default: stdout)")
	cmd.Flags().Int64Var(&inputSeed, "seed", defaultSeed, "random seed")
	cmd.Flags().IntVar(&inputDays, "days", defaultDays, "number of days")
	return cmd
}

func runSampleCmd(cmd *cobra.Command, _ []string) error {
	if inputDays <= 0 {
		return fmt.Errorf("--days must be > 0")
	}
	data := generator.New(inputSeed).Analytics(inputDays, time.Now())
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode sample: %w", err)
	}
	out = append(out, '\n')
	if sampleOut == "" {
		_, err := cmd.OutOrStdout().Write(out)
		return err
	}
	dir, name := filepath.Split(sampleOut)
	if dir == "" {
		dir = "."
	}
	if _, err := export.WriteArtifact(dir, export.Artifact{Filename: name, Data: out}); err != nil {
		return err
	}
	logErrf("Wrote %s\n", sampleOut)
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func loadData(logger zerolog.Logger) (model.AnalyticsData, error) {
	switch {
	case inputPath != "" && inputSample:
		return model.AnalyticsData{}, fmt.Errorf("--input and --sample are mutually exclusive")
	case inputSample:
		if inputDays <= 0 {
			return model.AnalyticsData{}, fmt.Errorf("--days must be > 0")
		}
		logger.Debug().Int64("seed", inputSeed).Int("days", inputDays).Msg("generating sample data")
		return generator.New(inputSeed).Analytics(inputDays, time.Now()), nil
	case inputPath == "":
		return model.AnalyticsData{}, fmt.Errorf("either --input or --sample is required")
	}
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return model.AnalyticsData{}, fmt.Errorf("failed to read input: %w", err)
	}
	var data model.AnalyticsData
	if err := json.Unmarshal(raw, &data); err != nil {
		return model.AnalyticsData{}, fmt.Errorf("failed to decode input %s: %w", inputPath, err)
	}
	logger.Debug().Str("path", inputPath).Int("days", len(data.ViewsSeries)).Msg("loaded analytics data")
	return data, nil
}

func buildOptions() model.ExportOptions {
	opts := model.DefaultExportOptions()
	opts.IncludeCharts = !exportNoCharts
	opts.IncludeRawData = !exportNoRawData
	opts.IncludeDeviceStats = !exportNoDevices
	opts.IncludePopularItems = !exportNoPopular
	opts.IncludeTrafficPatterns = !exportNoTraffic
	opts.DateRangeLabel = exportDateRange
	return opts
}

func applyOptionConfig(cmd *cobra.Command, cfg config.ExportConfig) {
	applyStringConfig(cmd, "subject", &exportSubject, cfg.Subject)
	applyStringConfig(cmd, "date-range", &exportDateRange, cfg.DateRange)
	applyNegatedBoolConfig(cmd, "no-charts", &exportNoCharts, cfg.IncludeCharts)
	applyNegatedBoolConfig(cmd, "no-raw-data", &exportNoRawData, cfg.IncludeRawData)
	applyNegatedBoolConfig(cmd, "no-devices", &exportNoDevices, cfg.IncludeDevices)
	applyNegatedBoolConfig(cmd, "no-popular", &exportNoPopular, cfg.IncludePopular)
	applyNegatedBoolConfig(cmd, "no-traffic", &exportNoTraffic, cfg.IncludeTraffic)
}

func parsePageSize(s string) (document.PageSize, error) {
	switch strings.ToLower(s) {
	case "a4":
		return document.PageA4, nil
	case "letter":
		return document.PageLetter, nil
	}
	return "", fmt.Errorf("unknown page size %q (expected A4 or Letter)", s)
}

func recordHistory(ctx context.Context, rec model.ExportRecord) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	_, err = st.RecordExport(ctx, rec)
	return err
}

func loadHistory(ctx context.Context, logger zerolog.Logger, filter store.HistoryFilter) []model.ExportRecord {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logger.Warn().Err(err).Msg("history unavailable")
		return nil
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	records, err := st.ListExports(ctx, filter)
	if err != nil {
		logger.Warn().Err(err).Msg("history unavailable")
		return nil
	}
	return records
}

func renderSummary(path string, a export.Artifact) string {
	rows := []string{
		cardLabelStyle.Render("Exported ") + cardValueStyle.Render(a.Filename),
		cardLabelStyle.Render("Size     ") + formatBytes(int64(len(a.Data))),
	}
	if a.Pages > 0 {
		rows = append(rows, cardLabelStyle.Render("Pages    ")+fmt.Sprintf("%d (%d sections)", a.Pages, len(a.Sections)))
	}
	rows = append(rows, cardLabelStyle.Render("Path     ")+path)
	return cardStyle.Render(strings.Join(rows, "\n"))
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func newLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: !isTerminal(w)}
	return zerolog.New(console).Level(lvl).With().Timestamp().Logger()
}

func resolveLogLevel(cmd *cobra.Command, cfg config.FileConfig) string {
	level := logLevel
	if cfg.Log.Level != nil && !cmd.Flags().Changed("log-level") {
		level = *cfg.Log.Level
	}
	return level
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

// applyNegatedBoolConfig maps an "include" config key onto a "--no-*" flag.
func applyNegatedBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = !*value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# menureport configuration
# Uncomment a value to enable it. CLI flags override config values.

[export]
# format = %q            # pdf, json or csv
# out-dir = ""             # Output directory (default: XDG data dir)
# subject = %q  # Restaurant name shown in reports
# date-range = %q # Date range label
# page-size = %q           # A4 or Letter
# pie-wedges = false       # Draw pie sectors next to the device legend
# charts = true            # Include charts
# raw-data = true          # Include daily series and category tables
# devices = true           # Include device breakdown
# popular = true           # Include popular items
# traffic = true           # Include hourly traffic
# history = true           # Record exports in the history database

[log]
# level = %q            # debug, info, warn or error
`,
		defaultFormat,
		defaultSubject,
		model.DefaultExportOptions().DateRangeLabel,
		defaultPageSize,
		defaultLogLevel,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
