package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/interviewz/internal/ui/layout"
)

// Screen is one page of the terminal UI.
type Screen interface {
	Init() tea.Cmd

	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content, excluding header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider lets a screen fill the right side of the header, for
// example with the question counter and countdown.
type StatusProvider interface {
	Status() string
}

// BackBlocker lets a screen handle Esc itself instead of the app popping
// it, for example to confirm abandoning an interview.
type BackBlocker interface {
	HandlesBack() bool
}
