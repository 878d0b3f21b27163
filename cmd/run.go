package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/abhisek/interviewz/internal/config"
	"github.com/abhisek/interviewz/internal/llm"
	"github.com/abhisek/interviewz/internal/report"
	"github.com/abhisek/interviewz/internal/store"
	"github.com/spf13/cobra"
)

// addSettingsFlags registers the flags that override interview settings.
func addSettingsFlags(c *cobra.Command) {
	c.Flags().IntP("questions", "n", 0, "Number of questions (overrides config)")
	c.Flags().Duration("deadline", 0, "Time allowed per question, e.g. 45s (overrides config)")
	c.Flags().String("locale", "", "Prompt language: en or fr (overrides config)")
}

// loadConfig reads --config and applies flag overrides on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("questions") {
		cfg.QuestionLimit, _ = f.GetInt("questions")
	}
	if f.Changed("deadline") {
		d, _ := f.GetDuration("deadline")
		cfg.DeadlineSeconds = int(d / time.Second)
	}
	if f.Changed("locale") {
		cfg.Locale, _ = f.GetString("locale")
	}
	if f.Changed("report-dir") {
		cfg.ReportDir, _ = f.GetString("report-dir")
	}
	if f.Changed("format") {
		cfg.ReportFormat, _ = f.GetString("format")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// reportFormat returns the configured export format, markdown by default.
func reportFormat(cfg *config.Config) (report.Format, error) {
	if cfg.ReportFormat == "" {
		return report.FormatMarkdown, nil
	}
	return report.ParseFormat(cfg.ReportFormat)
}

// newCompleter builds the completion client from the INTERVIEWZ_* provider
// settings, falling back to whichever standard API key is set.
func newCompleter(ctx context.Context, cfg *config.Config, events store.EventRepo, logger *slog.Logger) (*llm.Completer, error) {
	llmCfg := llm.ConfigFromEnv()
	if err := llmCfg.Validate(); err != nil {
		discovered, ok := llm.DiscoverConfig()
		if !ok {
			return nil, fmt.Errorf("LLM provider not configured: %w", err)
		}
		discovered.Timeout = llmCfg.Timeout
		llmCfg = discovered
	}

	provider, err := llm.NewProvider(ctx, llmCfg, events, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("llm provider ready", "provider", llmCfg.Provider, "model", provider.ModelID(), "timeout", llmCfg.Timeout)
	return llm.NewCompleter(provider, cfg.Params(), llmCfg.Timeout), nil
}

// newFileLogger returns a text logger writing to path, or a discarding
// logger when path is empty. The terminal belongs to the TUI.
func newFileLogger(path string) (*slog.Logger, io.Closer, error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})), f, nil
}
