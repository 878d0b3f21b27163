package interview

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	iv "github.com/abhisek/interviewz/internal/interview"
	"github.com/abhisek/interviewz/internal/ui/components"
	"github.com/abhisek/interviewz/internal/ui/theme"
)

func (s *InterviewScreen) View(width, height int) string {
	if s.confirmQuit {
		return renderQuitConfirm(width, height)
	}

	cw := min(width-4, 80)
	s.input.SetWidth(cw - 4)

	var sections []string
	settings := s.deps.Orchestrator.Settings()

	if s.question != nil {
		sections = append(sections, theme.Subtitle.Width(cw).Render(
			fmt.Sprintf("Question %d of %d", s.question.Index, settings.QuestionLimit)))
		sections = append(sections, theme.Card.Width(cw).Render(
			theme.Question.Width(cw-6).Render(s.question.Text)))
	}

	if remaining, ok := s.remaining(); ok {
		sections = append(sections, components.NewCountdown(remaining, settings.Deadline, cw).View())
	}

	if s.question != nil && !s.finished {
		box := theme.AnswerBox
		if s.accepting() {
			box = box.BorderForeground(theme.Primary)
		}
		sections = append(sections, box.Width(cw).Render(s.input.View()))
	}

	if s.busy != "" {
		sections = append(sections, s.spinner.View()+" "+theme.Hint.Render(s.busy+"..."))
	}
	if s.notice != "" {
		sections = append(sections, theme.Warning.Width(cw).Render(s.notice))
	}
	if s.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Error).Width(cw).Render(s.errMsg))
	}
	if s.busy == "" && !s.finished {
		switch s.state() {
		case iv.StateConcluding:
			sections = append(sections, s.retry.View())
		case iv.StateReady:
			sections = append(sections, theme.Hint.Render("Press r to try again."))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, spaced(sections)...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func spaced(sections []string) []string {
	out := make([]string, 0, 2*len(sections))
	for i, sec := range sections {
		if i > 0 {
			out = append(out, "")
		}
		out = append(out, sec)
	}
	return out
}

func renderQuitConfirm(width, height int) string {
	body := strings.Join([]string{
		theme.Warning.Render("Abandon this interview?"),
		"",
		theme.Body.Render("Your answers so far will not be graded."),
		"",
		theme.Hint.Render("y to abandon, n to keep going"),
	}, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		theme.Card.Render(body))
}
