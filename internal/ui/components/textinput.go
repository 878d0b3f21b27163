package components

import (
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
)

// AnswerInput is a multi-line answer box. Enter submits; Alt+Enter
// inserts a newline.
type AnswerInput struct {
	Model textarea.Model
}

// NewAnswerInput creates a focused answer box.
func NewAnswerInput(placeholder string, width, height int) AnswerInput {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 4000
	ta.SetWidth(width)
	ta.SetHeight(height)
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	ta.Focus()
	return AnswerInput{Model: ta}
}

// Init returns the cursor blink command.
func (a AnswerInput) Init() tea.Cmd {
	return textarea.Blink
}

// Update forwards messages to the text area.
func (a AnswerInput) Update(msg tea.Msg) (AnswerInput, tea.Cmd) {
	var cmd tea.Cmd
	a.Model, cmd = a.Model.Update(msg)
	return a, cmd
}

// View renders the text area.
func (a AnswerInput) View() string {
	return a.Model.View()
}

// Value returns the typed answer.
func (a AnswerInput) Value() string {
	return a.Model.Value()
}

// Reset clears the box.
func (a *AnswerInput) Reset() {
	a.Model.Reset()
}

// SetWidth resizes the box.
func (a *AnswerInput) SetWidth(w int) {
	a.Model.SetWidth(w)
}
