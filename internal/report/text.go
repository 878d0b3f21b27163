package report

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// TextRenderer writes the plain terminal layout.
type TextRenderer struct{}

func (TextRenderer) Render(_ context.Context, r *Report, w io.Writer) error {
	l := labelsFor(r.Locale)
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s: %s\n", l.Category, r.Category)
	fmt.Fprintf(bw, "%s: %s\n", l.Overall, r.ScoreLabel())
	fmt.Fprintf(bw, "%s: %d\n", l.Questions, len(r.Results))
	fmt.Fprintf(bw, "%s: %s\n", l.Time, FormatDuration(r.Duration()))

	for _, line := range r.Results {
		verdict := l.Incorrect
		if line.Correct() {
			verdict = l.Correct
		}
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, strings.Repeat("─", 60))
		fmt.Fprintf(bw, "%s %d: %s\n", l.Question, line.Index, line.Question)
		fmt.Fprintf(bw, "%s (%s): %s\n", l.Answer, verdict, line.AnswerGiven)
		fmt.Fprintf(bw, "%s: %s\n", l.Correction, line.ReferenceAnswer)
		fmt.Fprintf(bw, "%s %d / 5\n", l.Score, line.Score)
	}

	if err := bw.Flush(); err != nil {
		return &RenderError{Format: FormatText, Message: "write", Cause: err}
	}
	return nil
}

// MarkdownRenderer writes a Markdown document.
type MarkdownRenderer struct{}

func (MarkdownRenderer) Render(_ context.Context, r *Report, w io.Writer) error {
	l := labelsFor(r.Locale)
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %s: %s\n\n", l.Title, r.Category)
	fmt.Fprintf(bw, "- **%s:** %s\n", l.Overall, r.ScoreLabel())
	fmt.Fprintf(bw, "- **%s:** %d\n", l.Questions, len(r.Results))
	fmt.Fprintf(bw, "- **%s:** %s\n", l.Time, FormatDuration(r.Duration()))

	for _, line := range r.Results {
		mark := "✗"
		if line.Correct() {
			mark = "✓"
		}
		fmt.Fprintf(bw, "\n## %s %d\n\n", l.Question, line.Index)
		fmt.Fprintf(bw, "%s\n\n", line.Question)
		fmt.Fprintf(bw, "**%s** %s %s\n\n", l.Answer, mark, line.AnswerGiven)
		fmt.Fprintf(bw, "**%s** %s\n\n", l.Correction, line.ReferenceAnswer)
		fmt.Fprintf(bw, "**%s** %d / 5\n", l.Score, line.Score)
	}

	if err := bw.Flush(); err != nil {
		return &RenderError{Format: FormatMarkdown, Message: "write", Cause: err}
	}
	return nil
}
