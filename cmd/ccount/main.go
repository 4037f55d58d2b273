// Package main provides the CLI entrypoint for ccount.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ivan-guerra/ccount/internal/config"
	"github.com/ivan-guerra/ccount/internal/freq"
	"github.com/ivan-guerra/ccount/internal/historyui"
	"github.com/ivan-guerra/ccount/internal/model"
	"github.com/ivan-guerra/ccount/internal/report"
	"github.com/ivan-guerra/ccount/internal/store"
	"github.com/ivan-guerra/ccount/internal/tui"
)

const (
	defaultSortBy   = "char"
	defaultFormat   = "plain"
	defaultTopChars = 50

	sourceArg   = "arg"
	sourceStdin = "stdin"
)

var (
	analyzeSortBy     string
	analyzeTopN       int
	analyzePercent    bool
	analyzeMinCount   int
	analyzeMinPercent float64
	analyzeMoreThan   int
	analyzeLessThan   int
	analyzeExactly    int
	analyzeWhitespace bool
	analyzeFormat     string
	analyzeNoHistory  bool

	historySource string
	historySince  string
	historyLast   int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ccount [text]",
		Short:         "Count character frequencies in text",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runAnalyzeCmd,
	}

	rootCmd.Flags().StringVar(&analyzeSortBy, "sort-by", defaultSortBy, "sort by char or count")
	rootCmd.Flags().IntVarP(&analyzeTopN, "show-top-n", "n", 0, "show only the top N characters")
	rootCmd.Flags().BoolVarP(&analyzePercent, "as-percentage", "p", false, "show each character's share of the total")
	rootCmd.Flags().IntVar(&analyzeMinCount, "min-count", 0, "drop characters with fewer occurrences")
	rootCmd.Flags().Float64Var(&analyzeMinPercent, "min-percentage", 0, "drop characters below this share (0-100)")
	rootCmd.Flags().IntVarP(&analyzeMoreThan, "more-than", "g", -1, "show only characters that appear more than N times")
	rootCmd.Flags().IntVarP(&analyzeLessThan, "less-than", "l", -1, "show only characters that appear less than N times")
	rootCmd.Flags().IntVarP(&analyzeExactly, "exactly", "e", -1, "show only characters that appear exactly N times")
	rootCmd.Flags().BoolVar(&analyzeWhitespace, "include-whitespace", false, "count whitespace characters too")
	rootCmd.Flags().StringVar(&analyzeFormat, "format", defaultFormat, "output format: plain, table, or histogram")
	rootCmd.Flags().BoolVar(&analyzeNoHistory, "no-history", false, "do not record this run")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newTuiCmd())

	return rootCmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "sort-by", &analyzeSortBy, fileCfg.Output.SortBy)
	applyBoolConfig(cmd, "as-percentage", &analyzePercent, fileCfg.Output.AsPercent)
	applyStringConfig(cmd, "format", &analyzeFormat, fileCfg.Output.Format)
	applyBoolConfig(cmd, "include-whitespace", &analyzeWhitespace, fileCfg.Output.IncludeWhitespace)

	opts, err := buildOptions()
	if err != nil {
		return err
	}
	if err := freq.ValidateOptions(opts); err != nil {
		return err
	}

	counts, source, err := countInput(args, opts.IncludeWhitespace)
	if err != nil {
		return err
	}

	entries, err := freq.Analyze(counts, opts)
	if err != nil {
		return err
	}
	if err := report.Render(cmd.OutOrStdout(), entries, opts); err != nil {
		return err
	}

	if historyEnabled(fileCfg) {
		recordRun(fileCfg, counts, opts, source)
	}
	return nil
}

func buildOptions() (model.Options, error) {
	sortBy, err := model.ParseSortBy(analyzeSortBy)
	if err != nil {
		return model.Options{}, err
	}
	format, err := model.ParseFormat(analyzeFormat)
	if err != nil {
		return model.Options{}, err
	}
	return model.Options{
		SortBy:            sortBy,
		TopN:              analyzeTopN,
		AsPercent:         analyzePercent,
		MinCount:          analyzeMinCount,
		MinPercent:        analyzeMinPercent,
		MoreThan:          analyzeMoreThan,
		LessThan:          analyzeLessThan,
		Exactly:           analyzeExactly,
		IncludeWhitespace: analyzeWhitespace,
		Format:            format,
	}, nil
}

func countInput(args []string, includeWhitespace bool) (map[rune]int, string, error) {
	if len(args) > 0 {
		counts, err := freq.CountString(args[0], includeWhitespace)
		if err != nil {
			return nil, "", err
		}
		return counts, sourceArg, nil
	}
	counts, err := freq.Count(os.Stdin, includeWhitespace)
	if err != nil {
		return nil, "", err
	}
	return counts, sourceStdin, nil
}

func historyEnabled(fileCfg config.FileConfig) bool {
	if analyzeNoHistory {
		return false
	}
	if fileCfg.History.Enabled != nil {
		return *fileCfg.History.Enabled
	}
	return true
}

// recordRun saves the run to the history database. Failures warn and never
// fail the analysis itself.
func recordRun(fileCfg config.FileConfig, counts map[rune]int, opts model.Options, source string) {
	topChars := defaultTopChars
	if fileCfg.History.TopChars != nil {
		topChars = *fileCfg.History.TopChars
	}
	if topChars <= 0 {
		return
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logErrf("failed to open history db: %v\n", err)
		return
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close history db: %v\n", cerr)
		}
	}()

	stored, err := freq.Analyze(counts, model.Options{
		SortBy:   model.SortByCount,
		TopN:     topChars,
		MoreThan: -1,
		LessThan: -1,
		Exactly:  -1,
	})
	if err != nil {
		logErrf("failed to prepare history entry: %v\n", err)
		return
	}
	chars := make([]model.CharCount, 0, len(stored))
	for _, entry := range stored {
		chars = append(chars, model.CharCount{Char: string(entry.Char), Count: entry.Count})
	}

	rec := model.RunRecord{
		CreatedAt:     time.Now(),
		Source:        source,
		TotalCount:    freq.Total(counts),
		DistinctCount: len(counts),
		SortBy:        opts.SortBy.String(),
		AsPercent:     opts.AsPercent,
		TopN:          opts.TopN,
	}
	if _, err := st.InsertRun(context.Background(), rec, chars); err != nil {
		logErrf("failed to save run: %v\n", err)
	}
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
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse recorded runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySource, "source", "", "source filter (arg or stdin)")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N runs")
	return cmd
}

func runHistoryCmd(_ *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if historySource != "" && historySource != sourceArg && historySource != sourceStdin {
		return fmt.Errorf("--source must be %q or %q", sourceArg, sourceStdin)
	}

	cfg := model.HistoryConfig{
		Source: historySource,
		Since:  sinceTime,
		Last:   historyLast,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open history db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close history db: %v\n", cerr)
		}
	}()

	browser := historyui.NewModel(st, cfg)
	program := tea.NewProgram(browser, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func newTuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Explore frequencies interactively",
		Args:  cobra.NoArgs,
		RunE:  runTuiCmd,
	}
}

func runTuiCmd(_ *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	opts := model.DefaultOptions()
	if fileCfg.Output.SortBy != nil {
		sortBy, err := model.ParseSortBy(*fileCfg.Output.SortBy)
		if err != nil {
			return err
		}
		opts.SortBy = sortBy
	}
	if fileCfg.Output.AsPercent != nil {
		opts.AsPercent = *fileCfg.Output.AsPercent
	}
	if fileCfg.Output.IncludeWhitespace != nil {
		opts.IncludeWhitespace = *fileCfg.Output.IncludeWhitespace
	}

	explorer := tui.NewModel(opts)
	program := tea.NewProgram(explorer, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# ccount configuration
# Uncomment a value to enable it. CLI flags override config values.

[output]
# sort-by = %q              # Sort key: char or count
# as-percentage = false     # Show shares instead of raw counts
# format = %q               # Output format: plain, table, or histogram
# include-whitespace = false # Count whitespace characters too

[history]
# enabled = true            # Record analysis runs
# top-chars = %d            # Characters stored per run
`,
		defaultSortBy,
		defaultFormat,
		defaultTopChars,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
