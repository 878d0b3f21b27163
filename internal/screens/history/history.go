package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/interviewz/internal/report"
	"github.com/abhisek/interviewz/internal/router"
	"github.com/abhisek/interviewz/internal/screen"
	"github.com/abhisek/interviewz/internal/screens/summary"
	"github.com/abhisek/interviewz/internal/store"
	"github.com/abhisek/interviewz/internal/ui/layout"
	"github.com/abhisek/interviewz/internal/ui/theme"
)

// pageSize is how many reports are listed.
const pageSize = 50

type historyLoadedMsg struct {
	Reports []store.ReportRecord
	Err     error
}

type reportOpenedMsg struct {
	ID     int
	Report *report.Report
	Err    error
}

// HistoryScreen lists past interview reports.
type HistoryScreen struct {
	reports  store.ReportRepo
	export   summary.Options
	records  []store.ReportRecord
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen. export carries the directory and format
// offered on the opened report.
func New(reports store.ReportRepo, export summary.Options) *HistoryScreen {
	return &HistoryScreen{reports: reports, export: export}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.reports
	return func() tea.Msg {
		recs, err := repo.ListReports(context.Background(), store.QueryOpts{Limit: pageSize})
		return historyLoadedMsg{Reports: recs, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "Past reports"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Open"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.records = msg.Reports
		}
		s.loaded = true
		return s, nil

	case reportOpenedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		if msg.Report == nil {
			s.errMsg = fmt.Sprintf("report #%d no longer exists", msg.ID)
			return s, nil
		}
		opts := s.export
		opts.ReportID = msg.ID
		next := summary.New(msg.Report, opts)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.records)-1 {
				s.selected++
			}
		case "enter":
			return s, s.open()
		}
	}
	return s, nil
}

func (s *HistoryScreen) open() tea.Cmd {
	if s.selected >= len(s.records) {
		return nil
	}
	id, repo := s.records[s.selected].ID, s.reports
	s.errMsg = ""
	return func() tea.Msg {
		r, err := report.Load(context.Background(), repo, id)
		return reportOpenedMsg{ID: id, Report: r, Err: err}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if !s.loaded {
		return layout.Centered(width, theme.Hint, "\n\nLoading reports...")
	}
	if len(s.records) == 0 && s.errMsg == "" {
		return layout.Centered(width, theme.Hint, "\n\nNo reports yet. Finish an interview to see it here.")
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, rec := range s.records {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "▸ "
			style = theme.Selected
		}
		line := fmt.Sprintf("%s%s  %-18s  %2d questions  %3d / %-3d  %s",
			prefix,
			rec.Timestamp.Local().Format("Jan 02, 2006 15:04"),
			truncate(rec.Category, 18),
			rec.QuestionCount,
			rec.Score, rec.MaxScore,
			report.FormatDuration(time.Duration(rec.DurationMs)*time.Millisecond),
		)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Error), "Error: "+s.errMsg))
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
