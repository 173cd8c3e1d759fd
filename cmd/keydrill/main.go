// Package main provides the CLI entrypoint for keydrill.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"keydrill/internal/config"
	"keydrill/internal/engine"
	"keydrill/internal/generator"
	"keydrill/internal/lesson"
	"keydrill/internal/logging"
	"keydrill/internal/model"
	"keydrill/internal/stats"
	"keydrill/internal/statsui"
	"keydrill/internal/store"
	"keydrill/internal/tui"
	"keydrill/internal/wordlist"
)

const (
	defaultLang          = "en"
	defaultMode          = "strict"
	defaultDrillWords    = 25
	defaultWeakTop       = 8
	defaultWeakWindow    = 20
	defaultMinAttempts   = 3
	defaultErrorWeight   = 1.0
	defaultLatencyWeight = 1.0
	defaultCurveWindow   = 20
	drillBias            = 3.0
)

var (
	practiceLang          string
	practiceMode          string
	practiceLesson        string
	practiceDrillWords    int
	practiceWeakTop       int
	practiceWeakWindow    int
	practiceMinAttempts   int
	practiceErrorWeight   float64
	practiceLatencyWeight float64

	statsLang        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "keydrill",
		Short:         "TUI typing trainer with weak-key drills",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	addPracticeFlags(rootCmd)
	rootCmd.Flags().StringVar(&practiceLesson, "lesson", "", "lesson name (default: rotate all)")

	rootCmd.AddCommand(newDrillCmd())
	rootCmd.AddCommand(newLessonsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func loadPracticeConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lang", &practiceLang, fileCfg.Practice.Lang)
	applyStringConfig(cmd, "mode", &practiceMode, fileCfg.Practice.Mode)
	applyStringConfig(cmd, "lesson", &practiceLesson, fileCfg.Practice.Lesson)
	applyIntConfig(cmd, "drill-words", &practiceDrillWords, fileCfg.Practice.DrillWords)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyIntConfig(cmd, "weak-window", &practiceWeakWindow, fileCfg.Practice.WeakWindow)
	applyIntConfig(cmd, "min-attempts", &practiceMinAttempts, fileCfg.Ranking.MinAttempts)
	applyFloatConfig(cmd, "error-weight", &practiceErrorWeight, fileCfg.Ranking.ErrorWeight)
	applyFloatConfig(cmd, "latency-weight", &practiceLatencyWeight, fileCfg.Ranking.LatencyWeight)

	cfg := model.Config{
		Lang:          practiceLang,
		Mode:          practiceMode,
		Lesson:        practiceLesson,
		DrillWords:    practiceDrillWords,
		WeakTop:       practiceWeakTop,
		WeakWindow:    practiceWeakWindow,
		MinAttempts:   practiceMinAttempts,
		ErrorWeight:   practiceErrorWeight,
		LatencyWeight: practiceLatencyWeight,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

// lessonPool rotates through loaded lessons. The watcher goroutine swaps the
// pool contents, so access is serialized.
type lessonPool struct {
	mu      sync.Mutex
	lessons []lesson.Lesson
	idx     int
}

func (p *lessonPool) next() (string, engine.LessonInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()
	l := p.lessons[p.idx%len(p.lessons)]
	p.idx++
	return l.Text, engine.LessonInfo{
		Title:         l.Title,
		Language:      l.Language,
		Difficulty:    l.Difficulty,
		EstimatedTime: l.EstimatedTime,
	}
}

func (p *lessonPool) replace(lessons []lesson.Lesson) {
	if len(lessons) == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lessons = lessons
	p.idx = 0
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadPracticeConfig(cmd)
	if err != nil {
		return err
	}

	if err := logging.Init(config.DefaultLogDir()); err != nil {
		logErrf("failed to init logging: %v\n", err)
	}
	defer logging.Close()

	lessonDir := config.DefaultLessonDir()
	pool, err := loadLessonPool(lessonDir, cfg)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logging.Errorf("close db: %v", cerr)
		}
	}()

	m, err := tui.NewModel(cfg, st, pool.next)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen())

	watcher, werr := lesson.Watch(lessonDir, func() {
		lessons, problems := lesson.LoadAll(lessonDir)
		for _, p := range problems {
			logging.Warnf("lesson reload: %v", p)
		}
		pool.replace(lesson.Filter(lessons, cfg.Lang, cfg.Lesson))
		logging.Infof("lessons reloaded from %s", lessonDir)
		program.Send(tui.ReloadMsg{})
	})
	if werr != nil {
		logging.Warnf("lesson watch disabled: %v", werr)
	} else {
		defer func() {
			if cerr := watcher.Close(); cerr != nil {
				logging.Warnf("close watcher: %v", cerr)
			}
		}()
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func loadLessonPool(dir string, cfg model.Config) (*lessonPool, error) {
	lessons, problems := lesson.LoadAll(dir)
	for _, p := range problems {
		logErrf("skipping lesson: %v\n", p)
	}
	filtered := lesson.Filter(lessons, cfg.Lang, cfg.Lesson)
	if len(filtered) == 0 {
		if cfg.Lesson != "" {
			return nil, fmt.Errorf("no lesson named %q for lang %q (run: keydrill lessons)", cfg.Lesson, cfg.Lang)
		}
		return nil, fmt.Errorf("no lessons available for lang %q", cfg.Lang)
	}
	return &lessonPool{lessons: filtered}, nil
}

func newDrillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drill",
		Short: "Practice a drill biased toward your weak keys",
		Args:  cobra.NoArgs,
		RunE:  runDrillCmd,
	}
	addPracticeFlags(cmd)
	return cmd
}

// addPracticeFlags registers the shared practice knobs on a command.
func addPracticeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&practiceLang, "lang", defaultLang, "language code")
	cmd.Flags().StringVar(&practiceMode, "mode", defaultMode, "matching mode: strict or forgiving")
	cmd.Flags().IntVar(&practiceDrillWords, "drill-words", defaultDrillWords, "words per generated drill")
	cmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak keys to target in drills")
	cmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "recent sessions used to compute weak keys")
	cmd.Flags().IntVar(&practiceMinAttempts, "min-attempts", defaultMinAttempts, "attempts required before a key is ranked")
	cmd.Flags().Float64Var(&practiceErrorWeight, "error-weight", defaultErrorWeight, "weight of error rate in weak-key score")
	cmd.Flags().Float64Var(&practiceLatencyWeight, "latency-weight", defaultLatencyWeight, "weight of latency in weak-key score")
}

func runDrillCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadPracticeConfig(cmd)
	if err != nil {
		return err
	}

	if err := logging.Init(config.DefaultLogDir()); err != nil {
		logErrf("failed to init logging: %v\n", err)
	}
	defer logging.Close()

	words, err := wordlist.LoadOrDefault(config.DefaultWordListPath(cfg.Lang))
	if err != nil {
		return fmt.Errorf("failed to load word list: %w", err)
	}
	words = wordlist.Filter(words, wordlist.FilterForLang(cfg.Lang))
	if len(words) == 0 {
		return fmt.Errorf("word list for %q has no usable words", cfg.Lang)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logging.Errorf("close db: %v", cerr)
		}
	}()

	aggs, err := st.GetWeakKeys(context.Background(), cfg.WeakWindow, cfg.Lang)
	if err != nil {
		return fmt.Errorf("failed to load weak keys: %w", err)
	}
	weakSet := stats.SelectWeakKeys(aggs, cfg.WeakTop, cfg.MinAttempts, cfg.ErrorWeight, cfg.LatencyWeight)
	if len(weakSet) == 0 {
		logErrln("no weak-key stats yet; generating an unbiased drill")
	}

	gen := generator.New()
	provider := func() (string, engine.LessonInfo) {
		return gen.Drill(words, cfg.DrillWords, weakSet, drillBias), engine.LessonInfo{
			Title:    "weak-key drill",
			Language: cfg.Lang,
		}
	}

	m, err := tui.NewModel(cfg, st, provider)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newLessonsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lessons",
		Short: "List available lessons",
		Args:  cobra.NoArgs,
		RunE:  runLessonsCmd,
	}
	cmd.Flags().StringVar(&practiceLang, "lang", "", "language filter")
	return cmd
}

func runLessonsCmd(cmd *cobra.Command, _ []string) error {
	lessons, problems := lesson.LoadAll(config.DefaultLessonDir())
	for _, p := range problems {
		logErrf("skipping lesson: %v\n", p)
	}
	filtered := lesson.Filter(lessons, practiceLang, "")
	if len(filtered) == 0 {
		return fmt.Errorf("no lessons found")
	}
	w := cmd.OutOrStdout()
	for _, l := range filtered {
		line := fmt.Sprintf("%-16s %s", l.Name, l.Title)
		if l.Language != "" {
			line += fmt.Sprintf("  [%s]", l.Language)
		}
		if l.Difficulty != "" {
			line += fmt.Sprintf("  (%s)", l.Difficulty)
		}
		if l.EstimatedTime > 0 {
			line += fmt.Sprintf("  ~%s", l.EstimatedTime)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print stats to stdout instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	cfg := model.StatsConfig{
		Lang:        statsLang,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
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

	rank := statsui.RankOptions{
		MinAttempts:   defaultMinAttempts,
		ErrorWeight:   defaultErrorWeight,
		LatencyWeight: defaultLatencyWeight,
	}
	if statsPlain {
		return runPlainStats(cmd.OutOrStdout(), st, cfg, rank)
	}
	m := statsui.NewModel(st, cfg, rank)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

// runPlainStats prints the stats report without a TUI, for pipes and scripts.
func runPlainStats(w io.Writer, st *store.Store, cfg model.StatsConfig, rank statsui.RankOptions) error {
	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}
	if err := stats.RenderSummary(w, report.Sessions); err != nil {
		return err
	}
	if len(report.Sessions) > 0 {
		wpms := make([]float64, len(report.Sessions))
		for i, s := range report.Sessions {
			wpms[i] = s.WPM
		}
		if _, err := fmt.Fprintf(w, "WPM trend: %s\n\n", stats.Sparkline(wpms)); err != nil {
			return err
		}
		if err := stats.RenderCurves(w, report.Sessions, cfg.CurveWindow); err != nil {
			return err
		}
	}
	ranked := stats.RankWeakKeys(report.KeyAggs, rank.MinAttempts, rank.ErrorWeight, rank.LatencyWeight)
	return stats.RenderWeakKeyTable(w, ranked)
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

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# keydrill configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# lang = %q              # Language code
# mode = %q           # Matching mode: strict or forgiving
# lesson = ""              # Lesson name (default: rotate all)
# drill-words = %d         # Words per generated drill
# weak-top = %d             # Number of weak keys to target in drills
# weak-window = %d         # Recent sessions used to compute weak keys

[ranking]
# min-attempts = %d         # Attempts required before a key is ranked
# error-weight = %.1f       # Weight of error rate in weak-key score
# latency-weight = %.1f     # Weight of latency in weak-key score
`,
		defaultLang,
		defaultMode,
		defaultDrillWords,
		defaultWeakTop,
		defaultWeakWindow,
		defaultMinAttempts,
		defaultErrorWeight,
		defaultLatencyWeight,
	)
}

func validateConfig(cfg model.Config) error {
	if _, err := engine.ParseMode(cfg.Mode); err != nil {
		return err
	}
	if cfg.DrillWords <= 0 {
		return fmt.Errorf("--drill-words must be > 0")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	if cfg.MinAttempts < 1 {
		return fmt.Errorf("--min-attempts must be >= 1")
	}
	if cfg.ErrorWeight < 0 {
		return fmt.Errorf("--error-weight must be >= 0")
	}
	if cfg.LatencyWeight < 0 {
		return fmt.Errorf("--latency-weight must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
