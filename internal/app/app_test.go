package app

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	iv "github.com/abhisek/interviewz/internal/interview"
	"github.com/abhisek/interviewz/internal/llm"
	"github.com/abhisek/interviewz/internal/prompt"
	"github.com/abhisek/interviewz/internal/router"
	"github.com/abhisek/interviewz/internal/screen"
	interviewscreen "github.com/abhisek/interviewz/internal/screens/interview"
	"github.com/abhisek/interviewz/internal/screens/welcome"
)

type stubScreen struct {
	title    string
	status   string
	blocks   bool
	received []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd { return nil }
func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.received = append(s.received, msg)
	return s, nil
}
func (s *stubScreen) View(int, int) string { return "content of " + s.title }
func (s *stubScreen) Title() string        { return s.title }
func (s *stubScreen) Status() string       { return s.status }
func (s *stubScreen) HandlesBack() bool    { return s.blocks }

func update(m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

func TestEscPopsScreen(t *testing.T) {
	m := newAppModel(&stubScreen{title: "home"}, nil)
	m.router.Push(&stubScreen{title: "report"})

	_, cmd := update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
}

func TestEscGoesToBackBlocker(t *testing.T) {
	top := &stubScreen{title: "interview", blocks: true}
	m := newAppModel(&stubScreen{title: "home"}, nil)
	m.router.Push(top)

	_, cmd := update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		t.Errorf("app should not pop a screen that handles Esc, got %T", cmd())
	}
	if len(top.received) != 1 {
		t.Errorf("expected Esc forwarded to the screen, got %d messages", len(top.received))
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newAppModel(&stubScreen{title: "home"}, nil)
	_, cmd := update(m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", cmd())
	}
}

func TestViewRendersHeaderStatus(t *testing.T) {
	m := newAppModel(&stubScreen{title: "Networking", status: "Q 2/5  12s"}, nil)
	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.render()
	for _, want := range []string{"interviewz", "Networking", "Q 2/5  12s", "content of Networking", "Ctrl+C"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewTooSmall(t *testing.T) {
	m := newAppModel(&stubScreen{title: "home"}, nil)
	m, _ = update(m, tea.WindowSizeMsg{Width: 40, Height: 10})
	if view := m.render(); !strings.Contains(view, "Terminal too small") {
		t.Error("expected the minimum size message")
	}
}

func testOptions() Options {
	return Options{
		Completer: llm.NewCompleter(llm.NewMockProvider(), llm.DefaultParams(), 0),
		Settings: iv.Settings{
			QuestionLimit: 2,
			Deadline:      time.Minute,
			Locale:        prompt.English,
			Categories:    []string{"Networking", "Go"},
		},
	}
}

func TestBuildStartsOnWelcome(t *testing.T) {
	orch, root, init, err := build(testOptions(), &notifier{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(orch.Reset)
	if _, ok := root.(*welcome.WelcomeScreen); !ok {
		t.Errorf("expected welcome screen, got %T", root)
	}
	if init != nil {
		t.Error("no initial navigation expected")
	}
}

func TestBuildWithCategoryOpensInterview(t *testing.T) {
	opts := testOptions()
	opts.Category = "go"
	orch, _, init, err := build(opts, &notifier{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(orch.Reset)

	if orch.Snapshot().Category != "Go" {
		t.Errorf("expected Go selected, got %q", orch.Snapshot().Category)
	}
	push, ok := init().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", init())
	}
	if _, ok := push.Screen.(*interviewscreen.InterviewScreen); !ok {
		t.Errorf("expected interview screen, got %T", push.Screen)
	}
}

func TestBuildRejectsUnknownCategory(t *testing.T) {
	opts := testOptions()
	opts.Category = "Cooking"
	if _, _, _, err := build(opts, &notifier{}); err == nil {
		t.Error("expected an error for an unknown category")
	}
}

func TestNotifierForwardsHooks(t *testing.T) {
	n := &notifier{}
	hooks := n.hooks(nil)
	hooks.OnQuestion(iv.Question{Index: 1}) // not attached yet

	var got []tea.Msg
	n.attach(func(msg tea.Msg) { got = append(got, msg) })
	hooks.OnQuestion(iv.Question{Index: 2, Text: "Q2"})
	hooks.OnAnswer(iv.Answer{Index: 2, TimedOut: true})

	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if q, ok := got[0].(interviewscreen.QuestionMsg); !ok || q.Question.Text != "Q2" {
		t.Errorf("unexpected first message %#v", got[0])
	}
	if a, ok := got[1].(interviewscreen.AnswerMsg); !ok || !a.Answer.TimedOut {
		t.Errorf("unexpected second message %#v", got[1])
	}
}
