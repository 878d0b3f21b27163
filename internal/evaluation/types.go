// Package evaluation turns the grading reply into one scored line per
// asked question. Parsing is all-or-nothing: any line that does not fit the
// verdict grammar fails the whole reply.
package evaluation

import (
	"errors"
	"fmt"
)

// MaxScore is the highest score a single answer can receive.
const MaxScore = 5

// Status is the normalized verdict for one answer.
type Status string

const (
	StatusCorrect   Status = "correct"
	StatusIncorrect Status = "incorrect"
)

// Line is one parsed verdict, aligned with the question it grades.
type Line struct {
	Index           int    `json:"index"`
	Question        string `json:"question"`
	AnswerGiven     string `json:"answer_given"`
	Status          Status `json:"status"`
	Score           int    `json:"score"`
	ReferenceAnswer string `json:"reference_answer"`
}

// Correct reports whether the verdict is correct.
func (l Line) Correct() bool { return l.Status == StatusCorrect }

// ErrMalformed is matched by every parse failure.
var ErrMalformed = errors.New("malformed evaluation")

// MalformedError describes why a grading reply was rejected. Line is the
// 1-based verdict line at fault, or 0 when the reply as a whole is wrong.
type MalformedError struct {
	Line   int
	Text   string
	Reason string
}

func (e *MalformedError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%v: %s", ErrMalformed, e.Reason)
	}
	return fmt.Sprintf("%v: line %d %q: %s", ErrMalformed, e.Line, e.Text, e.Reason)
}

func (e *MalformedError) Is(target error) bool { return target == ErrMalformed }
