// Package app wires the orchestrator, the report store and the screens
// into a Bubble Tea program.
package app

import (
	"context"
	"log/slog"
	"sync"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	iv "github.com/abhisek/interviewz/internal/interview"
	"github.com/abhisek/interviewz/internal/report"
	"github.com/abhisek/interviewz/internal/router"
	"github.com/abhisek/interviewz/internal/screen"
	"github.com/abhisek/interviewz/internal/screens/history"
	"github.com/abhisek/interviewz/internal/screens/home"
	interviewscreen "github.com/abhisek/interviewz/internal/screens/interview"
	"github.com/abhisek/interviewz/internal/screens/summary"
	"github.com/abhisek/interviewz/internal/screens/welcome"
	"github.com/abhisek/interviewz/internal/store"
	"github.com/abhisek/interviewz/internal/ui/layout"
)

// Options configure the terminal UI.
type Options struct {
	Completer iv.Completer
	Settings  iv.Settings
	Interview iv.Options

	// Reports is optional; without it reports are not kept.
	Reports   store.ReportRepo
	ReportDir string
	Format    report.Format
	Logger    *slog.Logger

	// Category skips the topic menu and starts right away.
	Category    string
	SkipWelcome bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
	init   tea.Cmd
}

func newAppModel(root screen.Screen, init tea.Cmd) AppModel {
	return AppModel{router: router.New(root), init: init}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.init)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if b, ok := m.router.Active().(screen.BackBlocker); ok && b.HandlesBack() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	var title, status string
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}
	header := layout.RenderHeader(title, status, m.width)

	var hints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		hints = kp.KeyHints()
	}
	if len(hints) == 0 {
		hints = []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
		if m.router.Depth() > 1 {
			hints = append([]layout.KeyHint{{Key: "Esc", Description: "Back"}}, hints...)
		}
	}
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// notifier forwards orchestrator hooks to the running program. Hooks may
// fire from the deadline timer, outside any Bubble Tea command.
type notifier struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func (n *notifier) attach(send func(tea.Msg)) {
	n.mu.Lock()
	n.send = send
	n.mu.Unlock()
}

func (n *notifier) notify(msg tea.Msg) {
	n.mu.Lock()
	send := n.send
	n.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

func (n *notifier) hooks(logger *slog.Logger) iv.Hooks {
	return iv.Hooks{
		OnQuestion: func(q iv.Question) { n.notify(interviewscreen.QuestionMsg{Question: q}) },
		OnAnswer:   func(a iv.Answer) { n.notify(interviewscreen.AnswerMsg{Answer: a}) },
		OnReport:   func(r *report.Report) { n.notify(interviewscreen.ReportMsg{Report: r}) },
		OnError: func(err error) {
			logger.Warn("deadline submission failed", "error", err)
			n.notify(interviewscreen.DeadlineErrorMsg{Err: err})
		},
	}
}

// build creates the orchestrator and the root screen.
func build(opts Options, n *notifier) (*iv.Orchestrator, screen.Screen, tea.Cmd, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ivOpts := opts.Interview
	ivOpts.Hooks = n.hooks(logger)
	if ivOpts.Logger == nil {
		ivOpts.Logger = logger
	}
	orch := iv.New(opts.Completer, opts.Settings, ivOpts)

	newInterview := func() screen.Screen {
		return interviewscreen.New(interviewscreen.Deps{
			Orchestrator: orch,
			Reports:      opts.Reports,
			ReportDir:    opts.ReportDir,
			Format:       opts.Format,
			Logger:       logger,
		})
	}
	var newHistory func() screen.Screen
	if opts.Reports != nil {
		newHistory = func() screen.Screen {
			return history.New(opts.Reports, summary.Options{ExportDir: opts.ReportDir, Format: opts.Format})
		}
	}
	newHome := func() screen.Screen {
		return home.New(home.Deps{Orchestrator: orch, NewInterview: newInterview, NewHistory: newHistory})
	}

	var init tea.Cmd
	if opts.Category != "" {
		if err := orch.SelectCategory(opts.Category); err != nil {
			return nil, nil, nil, err
		}
		first := newInterview()
		init = func() tea.Msg { return router.PushScreenMsg{Screen: first} }
		return orch, newHome(), init, nil
	}
	if opts.SkipWelcome {
		return orch, newHome(), nil, nil
	}
	return orch, welcome.New(newHome), nil, nil
}

// Run starts the terminal UI and blocks until it exits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	n := &notifier{}
	orch, root, init, err := build(opts, n)
	if err != nil {
		return err
	}
	defer orch.Reset()

	p := tea.NewProgram(newAppModel(root, init), tea.WithContext(ctx))
	n.attach(p.Send)
	defer n.attach(nil)

	_, err = p.Run()
	return err
}
