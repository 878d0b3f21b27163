package cmd

import (
	"github.com/abhisek/interviewz/internal/app"
	"github.com/abhisek/interviewz/internal/interview"
	"github.com/spf13/cobra"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Start an interview in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInterview(cmd)
	},
}

func addInterviewFlags(c *cobra.Command) {
	addSettingsFlags(c)
	c.Flags().StringP("category", "c", "", "Start right away with this category")
	c.Flags().String("report-dir", "", "Directory where finished reports are written")
	c.Flags().StringP("format", "f", "", "Report format: text, markdown, html, json or pdf")
	c.Flags().String("log-file", "", "Write logs to this file")
	c.Flags().Bool("no-splash", false, "Skip the welcome animation")
}

func init() {
	addInterviewFlags(interviewCmd)
}

// runInterview opens the store, builds the completion client and launches
// the TUI.
func runInterview(cmd *cobra.Command) error {
	ctx := cmd.Context()

	logPath, _ := cmd.Flags().GetString("log-file")
	logger, closer, err := newFileLogger(logPath)
	if err != nil {
		return err
	}
	defer closer.Close()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	format, err := reportFormat(cfg)
	if err != nil {
		return err
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	completer, err := newCompleter(ctx, cfg, st.EventRepo(), logger)
	if err != nil {
		return err
	}

	category, _ := cmd.Flags().GetString("category")
	skipWelcome, _ := cmd.Flags().GetBool("no-splash")
	logger.Info("starting interview ui", "questions", settings.QuestionLimit, "deadline", settings.Deadline,
		"locale", settings.Locale, "model", completer.ModelID())

	return app.Run(ctx, app.Options{
		Completer:   completer,
		Settings:    settings,
		Interview:   interview.Options{Logger: logger, Model: completer.ModelID()},
		Reports:     st.ReportRepo(),
		ReportDir:   cfg.ReportDir,
		Format:      format,
		Logger:      logger,
		Category:    category,
		SkipWelcome: skipWelcome || category != "",
	})
}
