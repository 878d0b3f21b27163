package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/interviewz/internal/report"
	"github.com/abhisek/interviewz/internal/store"
	"github.com/spf13/cobra"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Browse finished interview reports",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		category, _ := cmd.Flags().GetString("category")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		recs, err := s.ReportRepo().ListReports(cmd.Context(), store.QueryOpts{Limit: limit, Category: category})
		if err != nil {
			return fmt.Errorf("query reports: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(recs) == 0 {
			fmt.Fprintln(out, "No reports found.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-20s  %9s  %7s  %s\n",
			"ID", "Timestamp", "Category", "Questions", "Score", "Time")
		fmt.Fprintln(out, strings.Repeat("─", 80))
		for _, r := range recs {
			fmt.Fprintf(out, "%-5d  %-19s  %-20s  %9d  %7s  %s\n",
				r.ID,
				r.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(r.Category, 20),
				r.QuestionCount,
				fmt.Sprintf("%d/%d", r.Score, r.MaxScore),
				report.FormatDuration(time.Duration(r.DurationMs)*time.Millisecond),
			)
		}
		return nil
	},
}

var reportsViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Print a report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatName, _ := cmd.Flags().GetString("format")
		format, err := report.ParseFormat(formatName)
		if err != nil {
			return err
		}
		r, err := loadReport(cmd, args[0])
		if err != nil {
			return err
		}
		renderer, err := report.NewRenderer(format)
		if err != nil {
			return err
		}
		return renderer.Render(cmd.Context(), r, cmd.OutOrStdout())
	},
}

var reportsExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Write a report document to a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatName, _ := cmd.Flags().GetString("format")
		dir, _ := cmd.Flags().GetString("out")
		format, err := report.ParseFormat(formatName)
		if err != nil {
			return err
		}
		r, err := loadReport(cmd, args[0])
		if err != nil {
			return err
		}
		path, err := report.Export(cmd.Context(), r, format, dir)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func loadReport(cmd *cobra.Command, arg string) (*report.Report, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid ID %q: %w", arg, err)
	}
	s, err := openStore(cmd)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	r, err := report.Load(cmd.Context(), s.ReportRepo(), id)
	if err != nil {
		return nil, fmt.Errorf("load report: %w", err)
	}
	if r == nil {
		return nil, fmt.Errorf("report %d not found", id)
	}
	return r, nil
}

func init() {
	reportsListCmd.Flags().IntP("limit", "n", 20, "Number of reports to show")
	reportsListCmd.Flags().StringP("category", "c", "", "Only show this category")
	reportsViewCmd.Flags().StringP("format", "f", "text", "Output format: text, markdown, html or json")
	reportsExportCmd.Flags().StringP("format", "f", "markdown", "Document format: text, markdown, html, json or pdf")
	reportsExportCmd.Flags().StringP("out", "o", ".", "Output directory")

	reportsCmd.AddCommand(reportsListCmd)
	reportsCmd.AddCommand(reportsViewCmd)
	reportsCmd.AddCommand(reportsExportCmd)
}
