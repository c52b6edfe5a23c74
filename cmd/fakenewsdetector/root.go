package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"FakeNewsDetector/internal/app"
	"FakeNewsDetector/internal/config"
	"FakeNewsDetector/internal/logging"
	"FakeNewsDetector/internal/usecase"
)

var (
	cfgPath    string
	jsonOutput bool

	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:          "fakenewsdetector",
	Short:        "Flag potentially misleading web content",
	Long:         "Detects article-like pages and selections, scores them with a remote classifier and serves per-tab badges and verdict views to a browser shim.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgPath != "" {
			cfg = config.LoadFile(cfgPath)
		} else {
			cfg = config.Load()
		}
		logger = logging.NewWithWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config (default $FAKENEWS_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print views as JSON")
}

func newApplication(cmd *cobra.Command) (*app.Application, error) {
	a, err := app.New(cmd.Context(), cfg, app.Deps{Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("init application: %w", err)
	}
	return a, nil
}

func printView(cmd *cobra.Command, view usecase.View) error {
	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	_, err := fmt.Fprintln(out, view.Text())
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
