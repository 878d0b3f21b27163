// Package interview is the screen where questions are answered against
// the clock.
package interview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	iv "github.com/abhisek/interviewz/internal/interview"
	"github.com/abhisek/interviewz/internal/report"
	"github.com/abhisek/interviewz/internal/router"
	"github.com/abhisek/interviewz/internal/screen"
	"github.com/abhisek/interviewz/internal/screens/summary"
	"github.com/abhisek/interviewz/internal/store"
	"github.com/abhisek/interviewz/internal/ui/components"
	"github.com/abhisek/interviewz/internal/ui/layout"
	"github.com/abhisek/interviewz/internal/ui/theme"
)

// Deps are the collaborators of the interview screen.
type Deps struct {
	Orchestrator *iv.Orchestrator
	Reports      store.ReportRepo
	ReportDir    string
	Format       report.Format
	Logger       *slog.Logger
	Now          func() time.Time
}

// InterviewScreen runs one interview from the first question to the report.
// The orchestrator's hooks deliver QuestionMsg, AnswerMsg, ReportMsg and
// DeadlineErrorMsg; the app forwards them here.
type InterviewScreen struct {
	deps   Deps
	ctx    context.Context
	cancel context.CancelFunc

	question    *iv.Question
	input       components.AnswerInput
	spinner     spinner.Model
	retry       components.Button
	busy        string
	notice      string
	errMsg      string
	confirmQuit bool
	finished    bool
}

var _ screen.Screen = (*InterviewScreen)(nil)
var _ screen.KeyHintProvider = (*InterviewScreen)(nil)
var _ screen.StatusProvider = (*InterviewScreen)(nil)
var _ screen.BackBlocker = (*InterviewScreen)(nil)

// New creates the screen. The orchestrator must already have a category.
func New(deps Deps) *InterviewScreen {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Format == "" {
		deps.Format = report.FormatMarkdown
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &InterviewScreen{
		deps:   deps,
		ctx:    ctx,
		cancel: cancel,
		input:  components.NewAnswerInput("Type your answer...", 70, 5),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary)),
		),
	}
	s.retry = components.NewButton("Retry grading", "r", s.retryGrading)
	return s
}

func (s *InterviewScreen) Init() tea.Cmd {
	return tea.Batch(
		s.start(),
		s.input.Init(),
		s.spinner.Tick,
		tickCmd(),
	)
}

func (s *InterviewScreen) Title() string {
	return s.deps.Orchestrator.Snapshot().Category
}

// Status shows the question counter and the seconds left.
func (s *InterviewScreen) Status() string {
	if s.question == nil {
		return ""
	}
	status := fmt.Sprintf("Q %d/%d", s.question.Index, s.deps.Orchestrator.Settings().QuestionLimit)
	if remaining, ok := s.remaining(); ok {
		status += fmt.Sprintf("  %ds", int((remaining+time.Second-1)/time.Second))
	}
	return status + "  "
}

func (s *InterviewScreen) HandlesBack() bool {
	return !s.finished
}

func (s *InterviewScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Abandon"},
			{Key: "N", Description: "Keep going"},
		}
	}
	switch {
	case s.busy != "":
		return []layout.KeyHint{{Key: "Esc", Description: "Abandon"}}
	case s.state() == iv.StateConcluding:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry grading"},
			{Key: "Esc", Description: "Abandon"},
		}
	case s.state() == iv.StateReady:
		return []layout.KeyHint{
			{Key: "R", Description: "Try again"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Alt+Enter", Description: "New line"},
		{Key: "Esc", Description: "Abandon"},
	}
}

func (s *InterviewScreen) state() iv.State {
	return s.deps.Orchestrator.State()
}

func (s *InterviewScreen) remaining() (time.Duration, bool) {
	at, ok := s.deps.Orchestrator.Deadline()
	if !ok {
		return 0, false
	}
	return max(at.Sub(s.deps.Now()), 0), true
}

func (s *InterviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case QuestionMsg:
		q := msg.Question
		s.question = &q
		s.busy = ""
		s.errMsg = ""
		s.input.Reset()
		return s, nil

	case AnswerMsg:
		a := msg.Answer
		if a.TimedOut {
			s.notice = fmt.Sprintf("Time ran out on question %d. Recorded %q.", a.Index, a.Text)
		}
		if a.Index >= s.deps.Orchestrator.Settings().QuestionLimit {
			s.busy = "Grading your answers"
		}
		return s, nil

	case ReportMsg:
		s.finished = true
		s.busy = "Saving the report"
		return s, s.store(msg.Report)

	case reportStoredMsg:
		next := summary.New(msg.Report, summary.Options{
			ReportID:   msg.ID,
			SaveErr:    msg.Err,
			ExportedTo: msg.Path,
			ExportDir:  s.deps.ReportDir,
			Format:     s.deps.Format,
		})
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case DeadlineErrorMsg:
		if s.finished {
			return s, nil
		}
		s.busy = ""
		s.errMsg = describe(msg.Err)
		return s, nil

	case requestDoneMsg:
		if s.finished || msg.Err == nil {
			return s, nil
		}
		s.deps.Logger.Warn("interview request failed", "op", msg.Op, "error", msg.Err)
		s.busy = ""
		s.errMsg = describe(msg.Err)
		return s, nil

	case timerTickMsg:
		if s.finished {
			return s, nil
		}
		if s.busy == "" && s.state() == iv.StateAwaitingAnswerSubmission {
			s.busy = "Time's up, submitting"
		}
		return s, tickCmd()

	case spinner.TickMsg:
		if s.finished && s.busy == "" {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.accepting() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

// accepting reports whether the answer box takes input.
func (s *InterviewScreen) accepting() bool {
	return s.busy == "" && !s.confirmQuit && s.state() == iv.StatePresenting
}

func (s *InterviewScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			return s, s.abandon()
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if key == "esc" {
		if s.finished {
			return s, nil
		}
		if s.state() == iv.StateReady && s.busy == "" {
			return s, s.abandon()
		}
		s.confirmQuit = true
		return s, nil
	}

	if s.busy != "" {
		return s, nil
	}

	switch s.state() {
	case iv.StateConcluding:
		var cmd tea.Cmd
		s.retry, cmd = s.retry.Update(msg)
		return s, cmd
	case iv.StateReady:
		if key == "r" || key == "R" {
			return s, s.start()
		}
		return s, nil
	case iv.StatePresenting:
		if key == "enter" {
			return s, s.submit()
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *InterviewScreen) start() tea.Cmd {
	s.busy = "Preparing the first question"
	s.errMsg = ""
	orch, ctx := s.deps.Orchestrator, s.ctx
	return request("start", func() error {
		_, err := orch.Start(ctx)
		return err
	})
}

func (s *InterviewScreen) submit() tea.Cmd {
	text := strings.TrimSpace(s.input.Value())
	if text == "" {
		return nil
	}
	s.busy = "Sending your answer"
	s.notice = ""
	s.errMsg = ""
	orch, ctx := s.deps.Orchestrator, s.ctx
	return request("submit", func() error {
		_, err := orch.Submit(ctx, text)
		return err
	})
}

func (s *InterviewScreen) retryGrading() tea.Cmd {
	s.busy = "Grading your answers"
	s.errMsg = ""
	orch, ctx := s.deps.Orchestrator, s.ctx
	return request("grade", func() error {
		_, err := orch.RetryGrading(ctx)
		return err
	})
}

// abandon discards the session and leaves the screen.
func (s *InterviewScreen) abandon() tea.Cmd {
	s.finished = true
	s.cancel()
	s.deps.Orchestrator.Reset()
	return func() tea.Msg { return router.PopScreenMsg{} }
}

func request(op string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return requestDoneMsg{Op: op, Err: fn()}
	}
}

// store saves the report to history and writes it to the report
// directory. Both are attempted even if one fails.
func (s *InterviewScreen) store(r *report.Report) tea.Cmd {
	deps := s.deps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		msg := reportStoredMsg{Report: r}
		if deps.Reports != nil {
			id, err := report.Save(ctx, deps.Reports, r)
			if err != nil {
				deps.Logger.Error("save report", "session_id", r.SessionID, "error", err)
				msg.Err = err
			}
			msg.ID = id
		}
		if deps.ReportDir != "" {
			path, err := report.Export(ctx, r, deps.Format, deps.ReportDir)
			if err != nil {
				deps.Logger.Error("export report", "session_id", r.SessionID, "format", deps.Format, "error", err)
				msg.Err = errors.Join(msg.Err, err)
			}
			msg.Path = path
		}
		return msg
	}
}

func describe(err error) string {
	var cerr *iv.CompletionError
	switch {
	case errors.Is(err, iv.ErrMalformedEvaluation):
		return "The grading reply could not be read."
	case errors.As(err, &cerr):
		return "The interviewer did not answer: " + cerr.Err.Error()
	default:
		return err.Error()
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
