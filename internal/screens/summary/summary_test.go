package summary

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/interviewz/internal/evaluation"
	"github.com/abhisek/interviewz/internal/report"
	"github.com/abhisek/interviewz/internal/router"
)

func testReport() *report.Report {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return report.Build("Networking", []evaluation.Line{
		{Index: 1, Question: "What is TCP?", AnswerGiven: "A transport protocol.", Status: evaluation.StatusCorrect, Score: 4, ReferenceAnswer: "A reliable transport protocol."},
		{Index: 2, Question: "Define latency.", AnswerGiven: "I don't know.", Status: evaluation.StatusIncorrect, Score: 0, ReferenceAnswer: "Delay between request and response."},
	}, report.Timer{StartedAt: start, EndedAt: start.Add(95 * time.Second)})
}

func TestViewShowsScoreAndResults(t *testing.T) {
	s := New(testReport(), Options{ReportID: 7})
	view := s.View(100, 30)

	for _, want := range []string{"Networking", "4 / 10", "1 of 2 correct", "1 min 35s", "What is TCP?", "Define latency.", "A reliable transport protocol."} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "Delay between request") {
		t.Error("only the selected question shows its reference answer")
	}
	if s.Status() != "#7  " {
		t.Errorf("unexpected status %q", s.Status())
	}
}

func TestNavigationMovesSelection(t *testing.T) {
	s := New(testReport(), Options{})

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Fatalf("expected selection 1, got %d", s.selected)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Errorf("selection should stop at the last result, got %d", s.selected)
	}
	if !strings.Contains(s.View(100, 30), "Delay between request") {
		t.Error("selected question should show its reference answer")
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.selected != 0 {
		t.Errorf("selection should stop at the first result, got %d", s.selected)
	}
}

func TestEnterPops(t *testing.T) {
	s := New(testReport(), Options{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
}

func TestSaveErrorIsShown(t *testing.T) {
	s := New(testReport(), Options{SaveErr: errors.New("disk full")})
	if !strings.Contains(s.View(100, 30), "disk full") {
		t.Error("save failure should be visible")
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	s := New(testReport(), Options{ExportDir: dir, Format: report.FormatMarkdown})

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'e', Text: "e"})
	if cmd == nil {
		t.Fatal("expected export command")
	}
	msg, ok := cmd().(exportDoneMsg)
	if !ok {
		t.Fatalf("expected exportDoneMsg, got %T", cmd())
	}
	if msg.Err != nil {
		t.Fatalf("export failed: %v", msg.Err)
	}
	if !strings.HasPrefix(msg.Path, dir) || !strings.HasSuffix(msg.Path, ".md") {
		t.Errorf("unexpected path %q", msg.Path)
	}

	s.Update(msg)
	if !strings.Contains(s.View(200, 30), "Saved to") {
		t.Error("export path should be shown")
	}
}

func TestExportDisabledWithoutDir(t *testing.T) {
	s := New(testReport(), Options{})
	if _, cmd := s.Update(tea.KeyPressMsg{Code: 'e', Text: "e"}); cmd != nil {
		t.Error("export should be disabled without a directory")
	}
}
