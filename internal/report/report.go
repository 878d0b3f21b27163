// Package report compiles graded interview results into an immutable
// report and renders it in several document formats.
package report

import (
	"fmt"
	"time"

	"github.com/abhisek/interviewz/internal/evaluation"
)

// Timer holds the wall-clock bounds of an interview. EndedAt is stamped
// when the final answer is submitted, before grading starts.
type Timer struct {
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

// Duration returns EndedAt - StartedAt, or 0 when either bound is unset
// or the interval is negative.
func (t Timer) Duration() time.Duration {
	if t.StartedAt.IsZero() || t.EndedAt.IsZero() {
		return 0
	}
	d := t.EndedAt.Sub(t.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}

// Report is the final result of one interview.
type Report struct {
	SessionID  string            `json:"session_id,omitempty"`
	Category   string            `json:"category"`
	Locale     string            `json:"locale,omitempty"`
	Model      string            `json:"model,omitempty"`
	Results    []evaluation.Line `json:"results"`
	DurationMs int64             `json:"duration_ms"`
	Score      int               `json:"score"`
	MaxScore   int               `json:"max_score"`
	StartedAt  time.Time         `json:"started_at"`
	EndedAt    time.Time         `json:"ended_at"`
}

// Build folds parsed verdicts and timing into a Report. It never fails.
func Build(category string, lines []evaluation.Line, timer Timer) *Report {
	results := make([]evaluation.Line, len(lines))
	copy(results, lines)

	score := 0
	for _, l := range results {
		score += l.Score
	}

	return &Report{
		Category:   category,
		Results:    results,
		DurationMs: timer.Duration().Milliseconds(),
		Score:      score,
		MaxScore:   evaluation.MaxScore * len(results),
		StartedAt:  timer.StartedAt,
		EndedAt:    timer.EndedAt,
	}
}

// Duration returns the interview length.
func (r *Report) Duration() time.Duration {
	return time.Duration(r.DurationMs) * time.Millisecond
}

// CorrectCount returns how many answers were judged correct.
func (r *Report) CorrectCount() int {
	n := 0
	for _, l := range r.Results {
		if l.Correct() {
			n++
		}
	}
	return n
}

// Percent returns the aggregate score as a percentage of the maximum.
func (r *Report) Percent() float64 {
	if r.MaxScore == 0 {
		return 0
	}
	return float64(r.Score) * 100 / float64(r.MaxScore)
}

// ScoreLabel formats the aggregate as "6 / 10".
func (r *Report) ScoreLabel() string {
	return fmt.Sprintf("%d / %d", r.Score, r.MaxScore)
}

// FormatDuration renders d as "M min Ss", truncating to whole seconds.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%d min %ds", total/60, total%60)
}
