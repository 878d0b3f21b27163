package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/interviewz/internal/evaluation"
	"github.com/abhisek/interviewz/internal/report"
	"github.com/abhisek/interviewz/internal/router"
	"github.com/abhisek/interviewz/internal/screen"
	"github.com/abhisek/interviewz/internal/ui/layout"
	"github.com/abhisek/interviewz/internal/ui/theme"
)

// Options describe where the report came from and where it can go.
type Options struct {
	// ReportID is the stored report ID, 0 when it was not saved.
	ReportID int
	// SaveErr is set when saving the report failed.
	SaveErr error
	// ExportedTo is the document written when the interview ended.
	ExportedTo string

	// ExportDir and Format enable the export key.
	ExportDir string
	Format    report.Format
}

type exportDoneMsg struct {
	Path string
	Err  error
}

// SummaryScreen shows a graded interview.
type SummaryScreen struct {
	report   *report.Report
	opts     Options
	selected int
	notice   string
	failed   bool
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.StatusProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen for r.
func New(r *report.Report, opts Options) *SummaryScreen {
	s := &SummaryScreen{report: r, opts: opts}
	switch {
	case opts.SaveErr != nil:
		s.notice, s.failed = "Report not saved: "+opts.SaveErr.Error(), true
	case opts.ExportedTo != "":
		s.notice = "Saved to " + opts.ExportedTo
	}
	return s
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Report"
}

func (s *SummaryScreen) Status() string {
	if s.opts.ReportID == 0 {
		return ""
	}
	return fmt.Sprintf("#%d  ", s.opts.ReportID)
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "↑↓", Description: "Question"}}
	if s.opts.ExportDir != "" {
		hints = append(hints, layout.KeyHint{Key: "E", Description: "Export " + string(s.opts.Format)})
	}
	return append(hints, layout.KeyHint{Key: "Enter", Description: "Done"})
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case exportDoneMsg:
		if msg.Err != nil {
			s.notice, s.failed = "Export failed: "+msg.Err.Error(), true
		} else {
			s.notice, s.failed = "Saved to "+msg.Path, false
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.report != nil && s.selected < len(s.report.Results)-1 {
				s.selected++
			}
		case "e", "E":
			return s, s.export()
		case "enter", "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) export() tea.Cmd {
	if s.opts.ExportDir == "" || s.report == nil {
		return nil
	}
	r, format, dir := s.report, s.opts.Format, s.opts.ExportDir
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		path, err := report.Export(ctx, r, format, dir)
		return exportDoneMsg{Path: path, Err: err}
	}
}

func (s *SummaryScreen) View(width, height int) string {
	r := s.report
	if r == nil {
		return ""
	}
	cw := min(width-4, 90)

	var b strings.Builder
	b.WriteString(layout.Centered(width, theme.Title, r.Category))
	b.WriteString("\n\n")

	score := theme.Correct
	if r.Percent() < 50 {
		score = theme.Incorrect
	}
	b.WriteString(layout.Centered(width, score, r.ScoreLabel()))
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, theme.Subtitle, fmt.Sprintf("%d of %d correct  ·  %s",
		r.CorrectCount(), len(r.Results), report.FormatDuration(r.Duration()))))
	b.WriteString("\n\n")

	for i, line := range r.Results {
		b.WriteString(s.renderLine(i, line, cw))
		b.WriteString("\n")
	}

	if s.notice != "" {
		style := theme.Hint
		if s.failed {
			style = theme.Warning
		}
		b.WriteString("\n")
		b.WriteString(layout.Centered(width, style, s.notice))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, b.String())
}

func (s *SummaryScreen) renderLine(i int, line evaluation.Line, width int) string {
	mark, style := "✗", theme.Incorrect
	if line.Correct() {
		mark, style = "✓", theme.Correct
	}
	head := fmt.Sprintf("%s %d. %s", style.Render(mark), line.Index, truncate(line.Question, width-16))
	head += "  " + style.Render(fmt.Sprintf("%d/%d", line.Score, evaluation.MaxScore))

	if i != s.selected {
		return theme.Unselected.Render("  " + head)
	}

	body := lipgloss.NewStyle().Width(width - 4).Foreground(theme.TextDim)
	detail := []string{
		theme.Selected.Render("▸ ") + head,
		body.Render("    Your answer: " + line.AnswerGiven),
		body.Render("    Reference:   " + line.ReferenceAnswer),
	}
	return strings.Join(detail, "\n")
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if n < 4 || lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) > n-1 {
		r = r[:n-1]
	}
	return string(r) + "…"
}
