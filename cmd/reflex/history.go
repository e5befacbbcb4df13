package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/reflex/internal/historyui"
	"github.com/verte-zerg/reflex/internal/model"
	"github.com/verte-zerg/reflex/internal/stats"
	"github.com/verte-zerg/reflex/internal/store"
)

const defaultTrendWindow = 3

var (
	historyType string
	historyLast int
	historyJSON bool

	bestType string
	bestTop  int

	clearYes bool
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show stored results, newest first",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyType, "type", "", "test type filter (cps, spacebar, reaction, typing)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N results")
	cmd.Flags().BoolVar(&historyJSON, "json", false, "print results as JSON")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := parseHistoryConfig(historyType, historyLast)
	if err != nil {
		return err
	}
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	out := cmd.OutOrStdout()
	if historyJSON {
		return writeJSON(out, filterHistory(e.history.All(), cfg))
	}
	if isTerminal(out) {
		return runProgram(historyui.NewModel(e.history, cfg, time.Local))
	}
	return stats.RenderHistory(out, filterHistory(e.history.All(), cfg), time.Local)
}

func parseHistoryConfig(typ string, last int) (model.HistoryConfig, error) {
	if last < 0 {
		return model.HistoryConfig{}, fmt.Errorf("--last must be >= 0")
	}
	cfg := model.HistoryConfig{Last: last}
	if typ != "" {
		t, err := model.ParseTestType(typ)
		if err != nil {
			return model.HistoryConfig{}, fmt.Errorf("invalid --type: %w", err)
		}
		cfg.Type = t
	}
	return cfg, nil
}

func filterHistory(results []model.TestResult, cfg model.HistoryConfig) []model.TestResult {
	if cfg.Type != "" {
		results = stats.ByType(results, cfg.Type)
	}
	if cfg.Last > 0 && len(results) > cfg.Last {
		results = results[:cfg.Last]
	}
	return results
}

func writeJSON(w io.Writer, results []model.TestResult) error {
	if results == nil {
		results = []model.TestResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newBestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "best",
		Short: "Show best scores and trends per test",
		Args:  cobra.NoArgs,
		RunE:  runBestCmd,
	}
	cmd.Flags().StringVar(&bestType, "type", "", "show a leaderboard for one test type")
	cmd.Flags().IntVar(&bestTop, "top", 5, "leaderboard size")
	return cmd
}

func runBestCmd(cmd *cobra.Command, _ []string) error {
	if bestTop <= 0 {
		return fmt.Errorf("--top must be > 0")
	}
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	out := cmd.OutOrStdout()
	results := e.history.All()
	if bestType == "" {
		return stats.RenderBest(out, results, model.TestTypes, defaultTrendWindow)
	}
	t, err := model.ParseTestType(bestType)
	if err != nil {
		return fmt.Errorf("invalid --type: %w", err)
	}
	return stats.RenderTop(out, results, t, bestTop, time.Local)
}

func newClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored results",
		Args:  cobra.NoArgs,
		RunE:  runClearCmd,
	}
	cmd.Flags().BoolVar(&clearYes, "yes", false, "skip confirmation")
	return cmd
}

func runClearCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	out := cmd.OutOrStdout()
	count := len(e.history.All())
	if count == 0 {
		_, err := fmt.Fprintln(out, "No results stored.")
		return err
	}
	if !clearYes && !confirm(cmd.InOrStdin(), out, fmt.Sprintf("Delete %d stored results? [y/N] ", count)) {
		_, err := fmt.Fprintln(out, "Aborted.")
		return err
	}
	e.history.Clear()
	_, err = fmt.Fprintf(out, "Deleted %d results.\n", count)
	return err
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	if _, err := fmt.Fprint(out, prompt); err != nil {
		return false
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func newConsentCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "consent [all|essential]",
		Short:     "Show or record the cookie-consent choice",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(model.ConsentAll), string(model.ConsentEssential)},
		RunE:      runConsentCmd,
	}
}

func runConsentCmd(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	consent := store.NewConsent(e.kv, e.log)
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		choice, ok := consent.Get()
		if !ok {
			_, err := fmt.Fprintln(out, "not set")
			return err
		}
		_, err := fmt.Fprintln(out, choice)
		return err
	}
	if err := consent.Set(model.Consent(strings.ToLower(args[0]))); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Consent set to %s.\n", strings.ToLower(args[0]))
	return err
}
