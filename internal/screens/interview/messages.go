package interview

import (
	"time"

	iv "github.com/abhisek/interviewz/internal/interview"
	"github.com/abhisek/interviewz/internal/report"
)

// QuestionMsg carries a question presented by the orchestrator.
type QuestionMsg struct {
	Question iv.Question
}

// AnswerMsg carries a recorded answer, including deadline fallbacks.
type AnswerMsg struct {
	Answer iv.Answer
}

// ReportMsg carries the graded report.
type ReportMsg struct {
	Report *report.Report
}

// DeadlineErrorMsg carries a failure of a deadline-triggered submission.
type DeadlineErrorMsg struct {
	Err error
}

// requestDoneMsg is sent when a Start, Submit or RetryGrading call returns.
// Results arrive through the hook messages; only the error matters here.
type requestDoneMsg struct {
	Op  string
	Err error
}

// reportStoredMsg is sent once the report is saved and exported.
type reportStoredMsg struct {
	Report *report.Report
	ID     int
	Path   string
	Err    error
}

// timerTickMsg redraws the countdown.
type timerTickMsg time.Time
