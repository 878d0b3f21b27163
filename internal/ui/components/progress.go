package components

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/interviewz/internal/ui/theme"
)

// lowFraction is the remaining share below which the bar turns red.
const lowFraction = 0.25

// Countdown is a horizontal bar that drains as a deadline approaches.
type Countdown struct {
	Remaining time.Duration
	Total     time.Duration
	Width     int
}

// NewCountdown creates a countdown bar.
func NewCountdown(remaining, total time.Duration, width int) Countdown {
	return Countdown{Remaining: remaining, Total: total, Width: width}
}

// Fraction is the remaining share of the deadline in [0,1].
func (c Countdown) Fraction() float64 {
	if c.Total <= 0 || c.Remaining <= 0 {
		return 0
	}
	f := float64(c.Remaining) / float64(c.Total)
	return min(f, 1)
}

// View renders the bar followed by the remaining seconds.
func (c Countdown) View() string {
	label := fmt.Sprintf("  %ds", int((c.Remaining + time.Second - 1) / time.Second))
	if c.Remaining <= 0 {
		label = "  0s"
	}

	barWidth := max(c.Width-lipgloss.Width(label), 4)
	filled := int(float64(barWidth) * c.Fraction())
	filled = max(min(filled, barWidth), 0)

	style := theme.CountdownFilled
	if c.Fraction() < lowFraction {
		style = theme.CountdownLow
	}

	return style.Render(strings.Repeat(" ", filled)) +
		theme.CountdownEmpty.Render(strings.Repeat(" ", barWidth-filled)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(label)
}
