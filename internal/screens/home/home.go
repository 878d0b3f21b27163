package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	iv "github.com/abhisek/interviewz/internal/interview"
	"github.com/abhisek/interviewz/internal/prompt"
	"github.com/abhisek/interviewz/internal/router"
	"github.com/abhisek/interviewz/internal/screen"
	"github.com/abhisek/interviewz/internal/ui/components"
	"github.com/abhisek/interviewz/internal/ui/layout"
	"github.com/abhisek/interviewz/internal/ui/theme"
)

// Deps build the screens reachable from home.
type Deps struct {
	Orchestrator *iv.Orchestrator
	NewInterview func() screen.Screen
	// NewHistory is nil when no report store is configured.
	NewHistory func() screen.Screen
}

// HomeScreen lets the candidate pick a category.
type HomeScreen struct {
	deps   Deps
	menu   components.Menu
	errMsg string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a HomeScreen listing the configured categories.
func New(deps Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}

	var items []components.MenuItem
	for _, c := range deps.Orchestrator.Settings().Categories {
		items = append(items, components.MenuItem{Label: c, Action: h.startAction(c)})
	}
	items = append(items,
		components.MenuItem{
			Label:    "Past reports",
			Disabled: deps.NewHistory == nil,
			Action: func() tea.Cmd {
				next := deps.NewHistory()
				return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			},
		},
		components.MenuItem{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	)
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) startAction(category string) func() tea.Cmd {
	return func() tea.Cmd {
		if err := h.deps.Orchestrator.SelectCategory(category); err != nil {
			h.errMsg = err.Error()
			return nil
		}
		h.errMsg = ""
		next := h.deps.NewInterview()
		return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Choose a topic"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Start"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	settings := h.deps.Orchestrator.Settings()

	sections := []string{
		theme.Title.Render("Mock technical interview"),
		theme.Subtitle.Render(describeSettings(settings)),
		layout.Divider(min(width, 64)),
		h.menu.View(),
	}
	if h.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Error).Render(h.errMsg))
	}

	box := theme.Card.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func describeSettings(s iv.Settings) string {
	lang := "English"
	if s.Locale == prompt.French {
		lang = "French"
	}
	parts := []string{
		plural(s.QuestionLimit, "question"),
		fmt.Sprintf("%d s per question", int(s.Deadline.Seconds())),
		lang,
	}
	return strings.Join(parts, "  ·  ")
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
