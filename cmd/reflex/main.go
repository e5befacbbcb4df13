// Package main provides the CLI entrypoint for reflex.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/reflex/internal/clock"
	"github.com/verte-zerg/reflex/internal/config"
	"github.com/verte-zerg/reflex/internal/logging"
	"github.com/verte-zerg/reflex/internal/model"
	"github.com/verte-zerg/reflex/internal/stats"
	"github.com/verte-zerg/reflex/internal/store"
	"github.com/verte-zerg/reflex/internal/textgen"
	"github.com/verte-zerg/reflex/internal/trial"
	"github.com/verte-zerg/reflex/internal/tui"
	"github.com/verte-zerg/reflex/internal/wordlist"
)

const (
	defaultWords = 25
	defaultCaps  = 0.5
	defaultPunct = 0.5
)

var (
	dbPath string

	typingDuration int
	typingWords    int
	typingCaps     float64
	typingPunct    float64
	typingWordList string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "reflex",
		Short:         "Timed reflex and speed trials with local history",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "result store path (default: XDG data dir)")

	rootCmd.AddCommand(newCounterCmd(model.ClickSpeed, "click", "Clicks-per-second test"))
	rootCmd.AddCommand(newCounterCmd(model.SpacebarSpeed, "spacebar", "Spacebar hits-per-second test"))
	rootCmd.AddCommand(newTypingCmd())
	rootCmd.AddCommand(newReactionCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newBestCmd())
	rootCmd.AddCommand(newClearCmd())
	rootCmd.AddCommand(newConsentCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

// env holds what every command shares: the logger and the result store.
type env struct {
	cfg     config.FileConfig
	log     *zap.SugaredLogger
	kv      store.KV
	history *store.History
	agg     *stats.Aggregator
}

func openEnv(cmd *cobra.Command) (*env, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := newLogger(fileCfg)

	path := config.DefaultDBPath()
	if fileCfg.Storage.Path != nil {
		path = *fileCfg.Storage.Path
	}
	if dbPath != "" {
		path = dbPath
	}
	kv := store.OpenMedium(path, log)
	history := store.NewHistory(kv, log)
	return &env{
		cfg:     fileCfg,
		log:     log,
		kv:      kv,
		history: history,
		agg:     stats.NewAggregator(history),
	}, nil
}

func (e *env) Close() {
	if err := e.kv.Close(); err != nil {
		e.log.Warnw("failed to close result storage", "error", err)
	}
	_ = e.log.Sync()
}

func newLogger(fileCfg config.FileConfig) *zap.SugaredLogger {
	cfg := logging.Config{Output: config.DefaultLogPath()}
	if fileCfg.Log.Level != nil {
		cfg.Level = *fileCfg.Log.Level
	}
	if fileCfg.Log.File != nil {
		cfg.Output = *fileCfg.Log.File
	}
	log, err := logging.New(cfg)
	if err != nil {
		logErrf("logging disabled: %v\n", err)
		return logging.Nop()
	}
	return log
}

func newCounterCmd(t model.TestType, use, short string) *cobra.Command {
	v, _ := trial.VariantFor(t)
	var duration int
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCounterCmd(cmd, v, duration)
		},
	}
	cmd.Flags().IntVar(&duration, "duration", v.DefaultDuration, fmt.Sprintf("test length in seconds %v", v.Durations))
	return cmd
}

func runCounterCmd(cmd *cobra.Command, v trial.Variant, duration int) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	if v.Type == model.ClickSpeed {
		applyIntConfig(cmd, "duration", &duration, e.cfg.Click.Duration)
	} else {
		applyIntConfig(cmd, "duration", &duration, e.cfg.Spacebar.Duration)
	}
	if err := validateDuration(v, duration); err != nil {
		return err
	}

	tr := trial.NewCountdown(v, clock.Real{}, e.history)
	tr.SelectDuration(duration)
	return runProgram(tui.NewCountdownModel(tr, e.agg, nil))
}

func newTypingCmd() *cobra.Command {
	v := trial.TypingSpeed
	cmd := &cobra.Command{
		Use:   "typing",
		Short: "Typing speed test",
		Args:  cobra.NoArgs,
		RunE:  runTypingCmd,
	}
	cmd.Flags().IntVar(&typingDuration, "duration", v.DefaultDuration, fmt.Sprintf("test length in seconds %v", v.Durations))
	cmd.Flags().IntVar(&typingWords, "words", defaultWords, "words per text when a word list is set")
	cmd.Flags().Float64Var(&typingCaps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	cmd.Flags().Float64Var(&typingPunct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	cmd.Flags().StringVar(&typingWordList, "wordlist", "", "word list file (default: built-in passages)")
	return cmd
}

func runTypingCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	applyIntConfig(cmd, "duration", &typingDuration, e.cfg.Typing.Duration)
	applyIntConfig(cmd, "words", &typingWords, e.cfg.Typing.Words)
	applyFloatConfig(cmd, "caps", &typingCaps, e.cfg.Typing.CapsPct)
	applyFloatConfig(cmd, "punct", &typingPunct, e.cfg.Typing.PunctPct)
	applyStringConfig(cmd, "wordlist", &typingWordList, e.cfg.Typing.WordList)

	cfg := model.TypingConfig{
		Duration:     typingDuration,
		Words:        typingWords,
		CapsPct:      typingCaps,
		PunctPct:     typingPunct,
		WordListPath: typingWordList,
	}
	if err := validateTypingConfig(cfg); err != nil {
		return err
	}

	gen, err := newGenerator(cfg, rand.New(rand.NewSource(time.Now().UnixNano())))
	if err != nil {
		return err
	}
	tr := trial.NewCountdown(trial.TypingSpeed, clock.Real{}, e.history)
	tr.SelectDuration(cfg.Duration)
	return runProgram(tui.NewCountdownModel(tr, e.agg, gen))
}

func newGenerator(cfg model.TypingConfig, rnd *rand.Rand) (*textgen.Generator, error) {
	if cfg.WordListPath == "" {
		return textgen.New(rnd), nil
	}
	words, err := wordlist.LoadWords(cfg.WordListPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load word list %s: %w", cfg.WordListPath, err)
	}
	return textgen.NewFromWords(rnd, words, textgen.Options{
		Words:    cfg.Words,
		CapsPct:  cfg.CapsPct,
		PunctPct: cfg.PunctPct,
	}), nil
}

func newReactionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reaction",
		Short: "Reaction time test",
		Args:  cobra.NoArgs,
		RunE:  runReactionCmd,
	}
}

func runReactionCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	tr := trial.NewReaction(clock.Real{}, e.history, trial.RandomDelay(rnd))
	return runProgram(tui.NewReactionModel(tr, e.agg))
}

func runProgram(m tea.Model) error {
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# reflex configuration
# Uncomment a value to enable it. CLI flags override config values.

[click]
# duration = %d           # Seconds, one of %v

[spacebar]
# duration = %d          # Seconds, one of %v

[typing]
# duration = %d          # Seconds, one of %v
# wordlist = ""          # Word list file; built-in passages when unset
# words = %d             # Words per text from the word list
# caps = %.2f            # Probability of capitalized first letter (0-1)
# punct = %.2f           # Punctuation probability per word (0-1)

[storage]
# path = %q

[log]
# level = "info"         # debug, info, warn, error
# file = %q
`,
		trial.ClickSpeed.DefaultDuration, trial.ClickSpeed.Durations,
		trial.SpacebarSpeed.DefaultDuration, trial.SpacebarSpeed.Durations,
		trial.TypingSpeed.DefaultDuration, trial.TypingSpeed.Durations,
		defaultWords,
		defaultCaps,
		defaultPunct,
		config.DefaultDBPath(),
		config.DefaultLogPath(),
	)
}

func validateDuration(v trial.Variant, seconds int) error {
	if !slices.Contains(v.Durations, seconds) {
		return fmt.Errorf("--duration must be one of %v", v.Durations)
	}
	return nil
}

func validateTypingConfig(cfg model.TypingConfig) error {
	if err := validateDuration(trial.TypingSpeed, cfg.Duration); err != nil {
		return err
	}
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format, args...)
}
