package interview

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	iv "github.com/abhisek/interviewz/internal/interview"
	"github.com/abhisek/interviewz/internal/llm"
	"github.com/abhisek/interviewz/internal/prompt"
	"github.com/abhisek/interviewz/internal/report"
	"github.com/abhisek/interviewz/internal/router"
	"github.com/abhisek/interviewz/internal/store"
)

func text(s string) llm.MockResponse {
	return llm.MockResponse{Text: s}
}

type harness struct {
	t      *testing.T
	orch   *iv.Orchestrator
	screen *InterviewScreen
	store  *store.Store
	sent   []tea.Msg
}

func newHarness(t *testing.T, limit int, replies ...llm.MockResponse) *harness {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "tui.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	h := &harness{t: t, store: st}
	h.orch = iv.New(llm.NewCompleter(llm.NewMockProvider(replies...), llm.DefaultParams(), 0), iv.Settings{
		QuestionLimit: limit,
		Deadline:      time.Hour,
		Locale:        prompt.English,
		Categories:    []string{"Networking"},
	}, iv.Options{Hooks: iv.Hooks{
		OnQuestion: func(q iv.Question) { h.sent = append(h.sent, QuestionMsg{Question: q}) },
		OnAnswer:   func(a iv.Answer) { h.sent = append(h.sent, AnswerMsg{Answer: a}) },
		OnReport:   func(r *report.Report) { h.sent = append(h.sent, ReportMsg{Report: r}) },
		OnError:    func(err error) { h.sent = append(h.sent, DeadlineErrorMsg{Err: err}) },
	}})
	t.Cleanup(h.orch.Reset)

	if err := h.orch.SelectCategory("Networking"); err != nil {
		t.Fatalf("select category: %v", err)
	}
	h.screen = New(Deps{
		Orchestrator: h.orch,
		Reports:      st.ReportRepo(),
		ReportDir:    t.TempDir(),
		Format:       report.FormatMarkdown,
	})
	return h
}

// do runs cmd, delivers the hook messages it produced and then its own
// result. It returns the last non-nil command the screen issued.
func (h *harness) do(cmd tea.Cmd) tea.Cmd {
	h.t.Helper()
	if cmd == nil {
		h.t.Fatal("expected a command")
	}
	result := cmd()
	sent := h.sent
	h.sent = nil

	var last tea.Cmd
	for _, msg := range append(sent, result) {
		if _, next := h.screen.Update(msg); next != nil {
			last = next
		}
	}
	return last
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.screen.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func (h *harness) enter() tea.Cmd {
	_, cmd := h.screen.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	return cmd
}

func TestInterviewToSummary(t *testing.T) {
	h := newHarness(t, 2,
		text("What is TCP?"),
		text("Noted."),
		text("Define latency."),
		text("Noted."),
		text("correct : 4 : A reliable transport protocol.\nincorrect : 2 : Delay between request and response."),
	)
	s := h.screen

	h.do(s.start())
	if s.question == nil || s.question.Text != "What is TCP?" {
		t.Fatalf("expected first question, got %+v", s.question)
	}
	if !strings.Contains(s.View(100, 30), "What is TCP?") {
		t.Error("question should be rendered")
	}
	if !strings.HasPrefix(s.Status(), "Q 1/2") {
		t.Errorf("unexpected status %q", s.Status())
	}

	h.typeText("A transport protocol.")
	h.do(h.enter())
	if s.question.Index != 2 {
		t.Fatalf("expected question 2, got %d", s.question.Index)
	}
	if s.input.Value() != "" {
		t.Error("answer box should be cleared for the next question")
	}

	h.typeText("Delay.")
	stored := h.do(h.enter())
	if !s.finished {
		t.Fatal("screen should be finished after the report")
	}
	next := h.do(stored)
	replace, ok := next().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", next())
	}
	if replace.Screen.Title() != "Report" {
		t.Errorf("expected report screen, got %q", replace.Screen.Title())
	}
	view := replace.Screen.View(120, 40)
	if !strings.Contains(view, "6 / 10") || !strings.Contains(view, "Saved to") {
		t.Errorf("report screen missing score or export path:\n%s", view)
	}

	recs, err := h.store.ReportRepo().ListReports(t.Context(), store.QueryOpts{})
	if err != nil || len(recs) != 1 {
		t.Fatalf("expected 1 stored report, got %d (%v)", len(recs), err)
	}
}

func TestEmptyAnswerIsIgnored(t *testing.T) {
	h := newHarness(t, 2, text("Q1"))
	h.do(h.screen.start())

	h.typeText("   ")
	if cmd := h.enter(); cmd != nil {
		t.Error("blank answers should not be submitted")
	}
	if h.orch.State() != iv.StatePresenting {
		t.Errorf("expected presenting, got %s", h.orch.State())
	}
}

func TestStartFailureCanBeRetried(t *testing.T) {
	h := newHarness(t, 1, llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errTest}}, text("Q1"))
	s := h.screen

	h.do(s.start())
	if s.errMsg == "" || s.busy != "" {
		t.Fatalf("expected error shown and not busy, got err=%q busy=%q", s.errMsg, s.busy)
	}
	if !strings.Contains(s.View(100, 30), "Press r to try again") {
		t.Error("retry hint should be visible")
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	h.do(cmd)
	if s.question == nil || s.question.Text != "Q1" {
		t.Fatalf("expected Q1 after retry, got %+v", s.question)
	}
}

func TestSubmitFailureKeepsAnswer(t *testing.T) {
	h := newHarness(t, 2, text("Q1"), llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errTest}})
	s := h.screen
	h.do(s.start())

	h.typeText("my answer")
	h.do(h.enter())

	if s.errMsg == "" {
		t.Error("expected an error message")
	}
	if s.input.Value() != "my answer" {
		t.Errorf("answer should be kept for resubmission, got %q", s.input.Value())
	}
	if h.orch.State() != iv.StatePresenting {
		t.Errorf("expected presenting, got %s", h.orch.State())
	}
}

func TestMalformedGradingShowsRetry(t *testing.T) {
	h := newHarness(t, 1,
		text("Q1"),
		text("ok"),
		text("I cannot grade this"),
		text("correct : 3 : fine"),
	)
	s := h.screen
	h.do(s.start())
	h.typeText("x")
	h.do(h.enter())

	if h.orch.State() != iv.StateConcluding {
		t.Fatalf("expected concluding, got %s", h.orch.State())
	}
	if !strings.Contains(s.View(100, 30), "Retry grading") {
		t.Error("retry button should be visible")
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	stored := h.do(cmd)
	if !s.finished {
		t.Fatal("expected the report after retrying")
	}
	if _, ok := h.do(stored)().(router.ReplaceScreenMsg); !ok {
		t.Error("expected the report screen to replace the interview")
	}
}

func TestDeadlineSkipShowsNotice(t *testing.T) {
	h := newHarness(t, 2, text("Q1"))
	s := h.screen
	h.do(s.start())

	s.Update(AnswerMsg{Answer: iv.Answer{Index: 1, Text: "I don't know.", TimedOut: true}})
	s.Update(QuestionMsg{Question: iv.Question{Index: 2, Text: "Q2"}})

	view := s.View(100, 30)
	if !strings.Contains(view, "Time ran out on question 1") {
		t.Errorf("expected timeout notice:\n%s", view)
	}
	if !strings.Contains(view, "Q2") {
		t.Error("next question should be shown")
	}
}

func TestEscConfirmsAbandon(t *testing.T) {
	h := newHarness(t, 2, text("Q1"))
	s := h.screen
	h.do(s.start())

	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if !s.confirmQuit {
		t.Fatal("esc should ask for confirmation")
	}
	s.Update(tea.KeyPressMsg{Code: 'n', Text: "n"})
	if s.confirmQuit || h.orch.State() != iv.StatePresenting {
		t.Fatal("n should keep the interview going")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'y', Text: "y"})
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
	if h.orch.State() != iv.StateIdle {
		t.Errorf("abandon should reset the orchestrator, got %s", h.orch.State())
	}
	if s.HandlesBack() {
		t.Error("a finished screen should let the app handle Esc")
	}
}

type testError string

func (e testError) Error() string { return string(e) }

const errTest = testError("provider down")
