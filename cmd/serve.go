package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/abhisek/interviewz/internal/interview"
	"github.com/abhisek/interviewz/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interview over a JSON HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		settings, err := cfg.Settings()
		if err != nil {
			return err
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		completer, err := newCompleter(ctx, cfg, st.EventRepo(), logger)
		if err != nil {
			return err
		}

		srv := server.New(completer, settings, st.ReportRepo(), interview.Options{
			Logger:      logger,
			Model:       completer.ModelID(),
			BaseContext: ctx,
		})
		return srv.Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address")
	addSettingsFlags(serveCmd)
}
