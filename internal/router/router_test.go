package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/interviewz/internal/screen"
)

type stubScreen struct {
	title   string
	initRan bool
	got     []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}

func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.got = append(s.got, msg)
	return s, nil
}

func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

type pingMsg struct{}

func TestPush(t *testing.T) {
	r := New(&stubScreen{title: "home"})

	s2 := &stubScreen{title: "interview"}
	r.Update(PushScreenMsg{Screen: s2})

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "interview" {
		t.Errorf("expected active 'interview', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPop(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	r.Push(&stubScreen{title: "interview"})
	r.Update(PopScreenMsg{})

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active().Title() != "home" {
		t.Errorf("expected active 'home', got %q", r.Active().Title())
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	r.Pop()
	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
}

func TestReplace(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	r.Push(&stubScreen{title: "interview"})

	report := &stubScreen{title: "report"}
	r.Update(ReplaceScreenMsg{Screen: report})

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active() != report || !report.initRan {
		t.Error("expected the report screen to be active and initialized")
	}

	r.Pop()
	if r.Active().Title() != "home" {
		t.Errorf("back from a replaced screen should reach 'home', got %q", r.Active().Title())
	}
}

func TestPopToRoot(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	r.Push(&stubScreen{title: "history"})
	r.Push(&stubScreen{title: "report"})
	r.Update(PopToRootMsg{})

	if r.Depth() != 1 || r.Active().Title() != "home" {
		t.Errorf("expected only 'home', got depth %d active %q", r.Depth(), r.Active().Title())
	}
}

func TestUpdateForwardsToActiveOnly(t *testing.T) {
	home := &stubScreen{title: "home"}
	top := &stubScreen{title: "interview"}
	r := New(home)
	r.Push(top)

	r.Update(pingMsg{})

	if len(top.got) != 1 {
		t.Errorf("expected active screen to receive 1 message, got %d", len(top.got))
	}
	if len(home.got) != 0 {
		t.Errorf("expected inactive screen to receive nothing, got %d", len(home.got))
	}
}

func TestView(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	if got := r.View(80, 24); got != "home" {
		t.Errorf("expected 'home', got %q", got)
	}
}
