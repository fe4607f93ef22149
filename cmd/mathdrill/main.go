// Package main provides the CLI entrypoint for mathdrill.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/verte-zerg/mathdrill/internal/config"
	"github.com/verte-zerg/mathdrill/internal/facts"
	"github.com/verte-zerg/mathdrill/internal/generator"
	"github.com/verte-zerg/mathdrill/internal/logger"
	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/quiz"
	"github.com/verte-zerg/mathdrill/internal/settings"
	"github.com/verte-zerg/mathdrill/internal/stats"
	"github.com/verte-zerg/mathdrill/internal/statsui"
	"github.com/verte-zerg/mathdrill/internal/store"
	"github.com/verte-zerg/mathdrill/internal/tui"
)

const (
	defaultCount         = 10
	defaultFeedbackDelay = time.Second
	defaultFinishDelay   = 500 * time.Millisecond
	defaultCurveWindow   = 5
	defaultWeakTop       = 10
)

const debugEnv = "MATHDRILL_DEBUG"

var (
	quizCount         int
	quizFeedbackDelay time.Duration
	quizFinishDelay   time.Duration

	statsLast        int
	statsCurveWindow int
	statsWeakTop     int
	statsPlain       bool

	resetYes bool

	settingsDivision string
	settingsSqrt     string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mathdrill",
		Short:         "TUI multiplication, division and square root trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDrillCmd,
	}

	rootCmd.Flags().IntVar(&quizCount, "count", defaultCount, "questions per quiz (10, 20, 30 or 50 in the menu)")
	rootCmd.Flags().DurationVar(&quizFeedbackDelay, "feedback-delay", defaultFeedbackDelay, "how long answer feedback stays visible")
	rootCmd.Flags().DurationVar(&quizFinishDelay, "finish-delay", defaultFinishDelay, "pause before the completion message")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newSettingsCmd())

	return rootCmd
}

func runDrillCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "count", &quizCount, fileCfg.Quiz.Count)
	applyDurationConfig(cmd, "feedback-delay", &quizFeedbackDelay, fileCfg.Quiz.FeedbackDelay)
	applyDurationConfig(cmd, "finish-delay", &quizFinishDelay, fileCfg.Quiz.FinishDelay)

	cfg := model.Config{
		Count:         quizCount,
		FeedbackDelay: quizFeedbackDelay,
		FinishDelay:   quizFinishDelay,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	env, err := openEnvWith(fileCfg)
	if err != nil {
		return err
	}
	defer env.close()
	log := env.log

	ctx := context.Background()
	fs, err := facts.Open(ctx, env.store, log)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}
	ss, err := settings.Open(ctx, env.store, log)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	ctrl := quiz.NewController(generator.New(), fs,
		quiz.WithHistory(env.store),
		quiz.WithLogger(log),
		quiz.WithListener(func(ev quiz.Event) {
			log.Debug("quiz event",
				zap.Stringer("kind", ev.Kind),
				zap.String("key", ev.Question.Key),
				zap.Stringer("type", ev.Question.Type),
			)
		}),
	)
	program := tea.NewProgram(tui.NewModel(cfg, fs, ss, ctrl, log), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
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
	if err := ensureConfigFile(path); err != nil {
		return err
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

// ensureConfigFile writes the commented template unless a config exists.
func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
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
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit history to last N quizzes")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&statsWeakTop, "weak-top", defaultWeakTop, "number of weakest facts to list")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print plain text instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}
	if statsWeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	cfg := model.StatsConfig{
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		WeakTop:     statsWeakTop,
	}

	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.close()

	fs, err := facts.Open(context.Background(), env.store, env.log)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}

	if statsPlain || !isTerminal(os.Stdout) {
		return printStats(cmd.Context(), cmd.OutOrStdout(), env.store, fs, cfg)
	}
	program := tea.NewProgram(statsui.NewModel(env.store, fs, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func printStats(ctx context.Context, w io.Writer, quizzes stats.QuizLister, fs stats.FactSource, cfg model.StatsConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := stats.BuildReport(ctx, quizzes, fs, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if err := stats.RenderPlain(w, report, cfg.CurveWindow); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear all fact stats",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "skip the confirmation prompt")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		if !isTerminal(os.Stdin) {
			return fmt.Errorf("refusing to reset without --yes on a non-interactive input")
		}
		ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), "Reset all statistics? [y/N] ")
		if err != nil {
			return err
		}
		if !ok {
			logErrln("Aborted.")
			return nil
		}
	}

	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.close()

	ctx := context.Background()
	fs, err := facts.Open(ctx, env.store, env.log)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}
	if err := fs.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset stats: %w", err)
	}
	logErrln("Statistics reset.")
	return nil
}

// confirm reads one line and accepts only y or yes.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if _, err := fmt.Fprint(out, prompt); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change question type toggles",
		Args:  cobra.NoArgs,
		RunE:  runSettingsCmd,
	}
	cmd.Flags().StringVar(&settingsDivision, "division", "", "enable division questions (on|off)")
	cmd.Flags().StringVar(&settingsSqrt, "sqrt", "", "enable square root questions (on|off)")
	return cmd
}

func runSettingsCmd(cmd *cobra.Command, _ []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.close()

	ctx := context.Background()
	ss, err := settings.Open(ctx, env.store, env.log)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	updates := []struct {
		flag  settings.Flag
		name  string
		value string
	}{
		{settings.Division, "division", settingsDivision},
		{settings.Sqrt, "sqrt", settingsSqrt},
	}
	for _, u := range updates {
		if !cmd.Flags().Changed(u.name) {
			continue
		}
		on, err := parseOnOff(u.value)
		if err != nil {
			return fmt.Errorf("--%s: %w", u.name, err)
		}
		if err := ss.Set(ctx, u.flag, on); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
	}
	return writeSettings(cmd.OutOrStdout(), ss.Get())
}

func writeSettings(w io.Writer, s model.Settings) error {
	lines := []string{
		fmt.Sprintf("%s: %s", settings.Division, onOff(s.EnableDivision)),
		fmt.Sprintf("%s: %s", settings.Sqrt, onOff(s.EnableSqrt)),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func parseOnOff(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", value)
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// appEnv holds the logger and store every data command opens.
type appEnv struct {
	log   *zap.Logger
	store *store.Store
}

func openEnv() (*appEnv, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return openEnvWith(fileCfg)
}

func openEnvWith(fileCfg config.FileConfig) (*appEnv, error) {
	log := openLogger(fileCfg)
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return &appEnv{log: log, store: st}, nil
}

func (e *appEnv) close() {
	if cerr := e.store.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
	if err := e.log.Sync(); err != nil {
		// Best-effort flush of the log file.
		_ = err
	}
}

func openLogger(fileCfg config.FileConfig) *zap.Logger {
	opts := logger.Options{Path: config.DefaultLogPath()}
	if fileCfg.Log.Path != nil {
		opts.Path = *fileCfg.Log.Path
	}
	if fileCfg.Log.Debug != nil {
		opts.Debug = *fileCfg.Log.Debug
	}
	if os.Getenv(debugEnv) == "1" {
		opts.Debug = true
	}
	log, err := logger.New(opts)
	if err != nil {
		logErrf("failed to open log file, logging disabled: %v\n", err)
		return zap.NewNop()
	}
	return log
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
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

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *config.Duration) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = value.Duration
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# mathdrill configuration
# Uncomment a value to enable it. CLI flags override config values.

[quiz]
# count = %d                 # Questions per quiz
# feedback-delay = %q       # How long answer feedback stays visible
# finish-delay = %q      # Pause before the completion message

[log]
# debug = false             # Verbose development logging (or %s=1)
# path = %q
`,
		defaultCount,
		defaultFeedbackDelay.String(),
		defaultFinishDelay.String(),
		debugEnv,
		config.DefaultLogPath(),
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Count <= 0 {
		return fmt.Errorf("--count must be > 0")
	}
	if cfg.FeedbackDelay < 0 {
		return fmt.Errorf("--feedback-delay must be >= 0")
	}
	if cfg.FinishDelay < 0 {
		return fmt.Errorf("--finish-delay must be >= 0")
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
