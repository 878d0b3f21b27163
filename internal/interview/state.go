package interview

import (
	"time"

	"github.com/abhisek/interviewz/internal/report"
)

// State is a position in the interview lifecycle.
type State int

const (
	// StateIdle has no category selected.
	StateIdle State = iota
	// StateReady has a category but the interview has not started.
	StateReady
	// StateAwaitingQuestion has the opening request in flight.
	StateAwaitingQuestion
	// StatePresenting shows a question with its deadline running.
	StatePresenting
	// StateAwaitingAnswerSubmission has an answer turn in flight. The
	// deadline is cleared.
	StateAwaitingAnswerSubmission
	// StateConcluding has every answer recorded and grading pending.
	StateConcluding
)

var stateNames = [...]string{
	StateIdle:                     "idle",
	StateReady:                    "ready",
	StateAwaitingQuestion:         "awaiting_question",
	StatePresenting:               "presenting",
	StateAwaitingAnswerSubmission: "awaiting_answer_submission",
	StateConcluding:               "concluding",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// MarshalText lets State appear by name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// action tags the last outgoing turn so replies are attributed by what was
// asked, never by what they look like.
type action int

const (
	actionNone action = iota
	actionOpen
	actionAnswer
	actionContinue
	actionGrade
)

func (a action) String() string {
	switch a {
	case actionOpen:
		return "open"
	case actionAnswer:
		return "answer"
	case actionContinue:
		return "continue"
	case actionGrade:
		return "grade"
	default:
		return "none"
	}
}

// Question is one question as presented to the candidate.
type Question struct {
	Index   int       `json:"index"`
	Text    string    `json:"text"`
	AskedAt time.Time `json:"asked_at"`
}

// Answer is one recorded answer. TimedOut is set when the deadline
// submitted the fallback text.
type Answer struct {
	Index    int    `json:"index"`
	Text     string `json:"text"`
	TimedOut bool   `json:"timed_out"`
}

// Session is the live state of one interview. Only the Orchestrator
// mutates it; callers get copies through Snapshot.
type Session struct {
	ID          string       `json:"id,omitempty"`
	Category    string       `json:"category,omitempty"`
	State       State        `json:"state"`
	ChatContext []string     `json:"-"`
	Questions   []Question   `json:"questions"`
	Answers     []string     `json:"answers"`
	Timer       report.Timer `json:"timer"`
	LastAction  string       `json:"last_action"`

	last    action
	grading bool
}

// CurrentQuestionIndex is the number of questions asked so far.
func (s *Session) CurrentQuestionIndex() int {
	return len(s.Questions)
}

// CurrentQuestion returns the most recent question, if any.
func (s *Session) CurrentQuestion() (Question, bool) {
	if len(s.Questions) == 0 {
		return Question{}, false
	}
	return s.Questions[len(s.Questions)-1], true
}

func (s *Session) clone() Session {
	c := *s
	c.ChatContext = append([]string(nil), s.ChatContext...)
	c.Questions = append([]Question(nil), s.Questions...)
	c.Answers = append([]string(nil), s.Answers...)
	c.LastAction = s.last.String()
	return c
}
