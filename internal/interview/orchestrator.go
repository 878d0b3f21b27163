// Package interview runs a timed mock interview: it asks the
// text-generation service for one question at a time, enforces a
// per-question deadline with auto-skip, and grades the transcript once the
// question limit is reached.
package interview

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/interviewz/internal/evaluation"
	"github.com/abhisek/interviewz/internal/llm"
	"github.com/abhisek/interviewz/internal/prompt"
	"github.com/abhisek/interviewz/internal/report"
	"github.com/google/uuid"
)

// Purpose labels recorded with every LLM call.
const (
	PurposeOpen     = "interview-open"
	PurposeAnswer   = "interview-answer"
	PurposeContinue = "interview-continue"
	PurposeGrade    = "interview-grade"
)

// Completer sends prompt lines to the text-generation service and returns
// the reply text.
type Completer interface {
	Complete(ctx context.Context, promptLines []string) (string, error)
}

// Settings configure one interview.
type Settings struct {
	QuestionLimit int
	Deadline      time.Duration
	Locale        prompt.Locale

	// Categories restricts SelectCategory. Empty allows any category.
	Categories []string
}

// Validate reports the first invalid setting as a *ConfigError.
func (s Settings) Validate() error {
	if s.QuestionLimit <= 0 {
		return &ConfigError{Field: "question limit", Reason: "must be positive"}
	}
	if s.Deadline <= 0 {
		return &ConfigError{Field: "deadline", Reason: "must be positive"}
	}
	return nil
}

// Hooks observe transition outcomes. Deadline-triggered transitions have no
// caller to return to, so hooks are the only way their results surface.
// Hooks run without the orchestrator lock held.
type Hooks struct {
	OnQuestion func(Question)
	OnAnswer   func(Answer)
	OnReport   func(*report.Report)
	OnError    func(error)
}

// Options carry optional collaborators. Zero values get defaults.
type Options struct {
	Scheduler Scheduler
	Clock     func() time.Time
	Logger    *slog.Logger
	Hooks     Hooks
	NewID     func() string

	// BaseContext is used for requests started by the deadline.
	BaseContext context.Context

	// Model is recorded on reports.
	Model string
}

// Turn is the outcome of a submission: the next question while the
// interview continues, or the report once it concluded.
type Turn struct {
	Question *Question
	Report   *report.Report
}

// Orchestrator owns one interview session at a time. At most one
// completion request is in flight; the deadline is the only other actor.
type Orchestrator struct {
	completer Completer
	settings  Settings
	prompts   *prompt.Builder
	scheduler Scheduler
	now       func() time.Time
	logger    *slog.Logger
	hooks     Hooks
	newID     func() string
	baseCtx   context.Context
	model     string

	mu       sync.Mutex
	session  *Session
	deadline *deadline
	seq      uint64
}

// New creates an Orchestrator in StateIdle.
func New(completer Completer, settings Settings, opts Options) *Orchestrator {
	o := &Orchestrator{
		completer: completer,
		settings:  settings,
		prompts:   prompt.New(settings.Locale),
		scheduler: opts.Scheduler,
		now:       opts.Clock,
		logger:    opts.Logger,
		hooks:     opts.Hooks,
		newID:     opts.NewID,
		baseCtx:   opts.BaseContext,
		model:     opts.Model,
		session:   &Session{},
	}
	if o.scheduler == nil {
		o.scheduler = SystemScheduler{}
	}
	if o.now == nil {
		o.now = time.Now
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.newID == nil {
		o.newID = uuid.NewString
	}
	if o.baseCtx == nil {
		o.baseCtx = context.Background()
	}
	return o
}

// Settings returns the interview settings.
func (o *Orchestrator) Settings() Settings {
	return o.settings
}

// Prompts returns the prompt builder for the configured locale.
func (o *Orchestrator) Prompts() *prompt.Builder {
	return o.prompts
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session.State
}

// Snapshot returns a copy of the session.
func (o *Orchestrator) Snapshot() Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session.clone()
}

// Deadline returns when the active deadline fires.
func (o *Orchestrator) Deadline() (time.Time, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.deadline == nil {
		return time.Time{}, false
	}
	return o.deadline.at, true
}

// SelectCategory stores the interview topic. It may be called again until
// the interview starts.
func (o *Orchestrator) SelectCategory(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ConfigError{Field: "category", Reason: "must not be empty"}
	}
	if len(o.settings.Categories) > 0 {
		canonical, ok := matchCategory(o.settings.Categories, name)
		if !ok {
			return &ConfigError{Field: "category", Reason: "is not one of the configured categories: " + name}
		}
		name = canonical
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	s := o.session
	if s.State != StateIdle && s.State != StateReady {
		return &TransitionError{Op: "select category", State: s.State}
	}
	s.Category = name
	s.State = StateReady
	return nil
}

// Start requests the first question, starts the session timer and arms the
// deadline.
func (o *Orchestrator) Start(ctx context.Context) (Question, error) {
	if err := o.settings.Validate(); err != nil {
		return Question{}, err
	}

	o.mu.Lock()
	s := o.session
	switch s.State {
	case StateReady:
	case StateIdle:
		o.mu.Unlock()
		return Question{}, &ConfigError{Field: "category", Reason: "has not been selected"}
	default:
		st := s.State
		o.mu.Unlock()
		return Question{}, &TransitionError{Op: "start", State: st}
	}

	id, category := o.newID(), s.Category
	s.State = StateAwaitingQuestion
	s.last = actionOpen
	lines := append(cloneLines(s.ChatContext), o.prompts.Opening(s.Category))
	o.mu.Unlock()

	reply, err := o.complete(ctx, id, PurposeOpen, lines)

	o.mu.Lock()
	if o.session != s {
		o.mu.Unlock()
		return Question{}, resetError("start")
	}
	if err != nil {
		s.State = StateReady
		s.last = actionNone
		o.mu.Unlock()
		o.logger.Warn("interview start failed", "session_id", id, "error", err)
		return Question{}, &CompletionError{Turn: actionOpen.String(), Err: err}
	}

	now := o.now()
	q := Question{Index: 1, Text: reply, AskedAt: now}
	s.ID = id
	s.ChatContext = append(lines, reply)
	s.Questions = append(s.Questions, q)
	s.Timer.StartedAt = now
	s.State = StatePresenting
	o.armDeadline()
	o.mu.Unlock()

	o.logger.Info("interview started", "session_id", id, "category", category,
		"question_limit", o.settings.QuestionLimit, "deadline", o.settings.Deadline)
	o.emitQuestion(q)
	return q, nil
}

// Submit records the candidate's answer to the current question. It
// returns the next question, or the report when this was the last answer.
//
// A failed completion leaves nothing committed: the session returns to
// StatePresenting without a deadline and the answer can be resubmitted.
// When grading fails the session stays in StateConcluding; see
// RetryGrading.
func (o *Orchestrator) Submit(ctx context.Context, text string) (Turn, error) {
	return o.submit(ctx, text, 0)
}

// submit is shared by explicit submissions and deadline expiry. A non-zero
// fromDeadline must match the active deadline or the call is stale.
func (o *Orchestrator) submit(ctx context.Context, text string, fromDeadline uint64) (Turn, error) {
	o.mu.Lock()
	s := o.session
	if s.State != StatePresenting {
		st := s.State
		o.mu.Unlock()
		if fromDeadline != 0 {
			return Turn{}, errStaleDeadline
		}
		return Turn{}, &TransitionError{Op: "submit", State: st}
	}
	if fromDeadline != 0 && (o.deadline == nil || o.deadline.seq != fromDeadline) {
		o.mu.Unlock()
		return Turn{}, errStaleDeadline
	}

	o.clearDeadline()
	s.State = StateAwaitingAnswerSubmission
	s.last = actionAnswer
	submittedAt := o.now()
	lines := append(cloneLines(s.ChatContext), o.prompts.Answer(text))
	final := len(s.Answers)+1 >= o.settings.QuestionLimit
	answer := Answer{Index: len(s.Answers) + 1, Text: text, TimedOut: fromDeadline != 0}
	id := s.ID
	o.mu.Unlock()

	ack, err := o.complete(ctx, id, PurposeAnswer, lines)
	if err != nil {
		return Turn{}, o.abortSubmit(s, actionAnswer, err)
	}
	lines = append(lines, ack)

	if final {
		o.mu.Lock()
		if o.session != s {
			o.mu.Unlock()
			return Turn{}, resetError("submit")
		}
		s.ChatContext = lines
		s.Answers = append(s.Answers, text)
		s.Timer.EndedAt = submittedAt
		s.State = StateConcluding
		o.mu.Unlock()

		o.logger.Info("final answer recorded", "session_id", id, "index", answer.Index, "timed_out", answer.TimedOut)
		o.emitAnswer(answer)

		rep, err := o.conclude(ctx, s)
		if err != nil {
			return Turn{}, err
		}
		return Turn{Report: rep}, nil
	}

	o.mu.Lock()
	s.last = actionContinue
	o.mu.Unlock()

	lines = append(lines, o.prompts.Continuation())
	next, err := o.complete(ctx, id, PurposeContinue, lines)
	if err != nil {
		return Turn{}, o.abortSubmit(s, actionContinue, err)
	}

	o.mu.Lock()
	if o.session != s {
		o.mu.Unlock()
		return Turn{}, resetError("submit")
	}
	s.ChatContext = append(lines, next)
	s.Answers = append(s.Answers, text)
	q := Question{Index: len(s.Questions) + 1, Text: next, AskedAt: o.now()}
	s.Questions = append(s.Questions, q)
	s.State = StatePresenting
	o.armDeadline()
	o.mu.Unlock()

	o.logger.Info("answer recorded", "session_id", id, "index", answer.Index, "timed_out", answer.TimedOut)
	o.emitAnswer(answer)
	o.emitQuestion(q)
	return Turn{Question: &q}, nil
}

func (o *Orchestrator) abortSubmit(s *Session, turn action, err error) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.session != s {
		return resetError("submit")
	}
	s.State = StatePresenting
	s.last = actionNone
	o.logger.Warn("answer turn failed", "session_id", s.ID, "turn", turn.String(), "error", err)
	return &CompletionError{Turn: turn.String(), Err: err}
}

// RetryGrading requests grading again for a session left in
// StateConcluding by a failed grading attempt.
func (o *Orchestrator) RetryGrading(ctx context.Context) (*report.Report, error) {
	o.mu.Lock()
	s := o.session
	o.mu.Unlock()
	return o.conclude(ctx, s)
}

// conclude grades the finalized transcript, builds the report and resets
// the orchestrator to StateIdle.
func (o *Orchestrator) conclude(ctx context.Context, s *Session) (*report.Report, error) {
	o.mu.Lock()
	if o.session != s || s.State != StateConcluding {
		st := o.session.State
		o.mu.Unlock()
		return nil, &TransitionError{Op: "grade", State: st}
	}
	if s.grading {
		o.mu.Unlock()
		return nil, &TransitionError{Op: "grade", State: s.State, Reason: "grading already in progress"}
	}
	s.grading = true
	s.last = actionGrade

	questions := make([]string, len(s.Questions))
	pairs := make([]prompt.Pair, len(s.Questions))
	for i, q := range s.Questions {
		questions[i] = q.Text
		pairs[i] = prompt.Pair{Question: q.Text, Answer: s.Answers[i]}
	}
	answers := cloneLines(s.Answers)
	evalPrompt := o.prompts.Evaluation(pairs)
	id, category, timer := s.ID, s.Category, s.Timer
	o.mu.Unlock()

	done := func() {
		o.mu.Lock()
		s.grading = false
		o.mu.Unlock()
	}

	// Grading is sent on its own, without the chat context.
	reply, err := o.complete(ctx, id, PurposeGrade, []string{evalPrompt})
	if err != nil {
		done()
		o.logger.Warn("grading failed", "session_id", id, "error", err)
		return nil, &CompletionError{Turn: actionGrade.String(), Err: err}
	}

	lines, err := evaluation.Parse(reply, questions, answers)
	if err != nil {
		done()
		o.logger.Warn("grading reply rejected", "session_id", id, "error", err)
		return nil, err
	}

	rep := report.Build(category, lines, timer)
	rep.SessionID = id
	rep.Locale = string(o.prompts.Locale())
	rep.Model = o.model

	o.mu.Lock()
	if o.session != s {
		o.mu.Unlock()
		return nil, resetError("grade")
	}
	o.session = &Session{}
	o.mu.Unlock()

	o.logger.Info("interview graded", "session_id", id, "score", rep.Score, "max_score", rep.MaxScore,
		"duration_ms", rep.DurationMs)
	o.emitReport(rep)
	return rep, nil
}

// Reset abandons any session and returns to StateIdle. A request still in
// flight is discarded when it returns.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.clearDeadline()
	if o.session.State != StateIdle {
		o.logger.Info("interview reset", "session_id", o.session.ID, "state", o.session.State.String())
	}
	o.session = &Session{}
}

// armDeadline replaces any active deadline. Callers hold o.mu.
func (o *Orchestrator) armDeadline() {
	o.clearDeadline()
	o.seq++
	seq := o.seq
	o.deadline = &deadline{
		seq:   seq,
		at:    o.now().Add(o.settings.Deadline),
		timer: o.scheduler.AfterFunc(o.settings.Deadline, func() { o.onDeadline(seq) }),
	}
}

// clearDeadline stops the active deadline, if any. Callers hold o.mu.
func (o *Orchestrator) clearDeadline() {
	if o.deadline == nil {
		return
	}
	o.deadline.timer.Stop()
	o.deadline = nil
}

// onDeadline submits the fallback answer for the question the deadline
// was armed for. Late or superseded deadlines do nothing.
func (o *Orchestrator) onDeadline(seq uint64) {
	o.mu.Lock()
	live := o.deadline != nil && o.deadline.seq == seq && o.session.State == StatePresenting
	id := o.session.ID
	o.mu.Unlock()
	if !live {
		o.logger.Debug("stale deadline ignored", "seq", seq)
		return
	}

	o.logger.Info("deadline expired, submitting fallback answer", "session_id", id)
	if _, err := o.submit(o.baseCtx, o.prompts.Fallback(), seq); err != nil {
		if errors.Is(err, errStaleDeadline) {
			return
		}
		o.emitError(err)
	}
}

func (o *Orchestrator) complete(ctx context.Context, sessionID, purpose string, lines []string) (string, error) {
	ctx = llm.WithSession(llm.WithPurpose(ctx, purpose), sessionID)
	return o.completer.Complete(ctx, lines)
}

func (o *Orchestrator) emitQuestion(q Question) {
	if o.hooks.OnQuestion != nil {
		o.hooks.OnQuestion(q)
	}
}

func (o *Orchestrator) emitAnswer(a Answer) {
	if o.hooks.OnAnswer != nil {
		o.hooks.OnAnswer(a)
	}
}

func (o *Orchestrator) emitReport(r *report.Report) {
	if o.hooks.OnReport != nil {
		o.hooks.OnReport(r)
	}
}

func (o *Orchestrator) emitError(err error) {
	if o.hooks.OnError != nil {
		o.hooks.OnError(err)
	}
}

func matchCategory(allowed []string, name string) (string, bool) {
	for _, c := range allowed {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}

func cloneLines(in []string) []string {
	return append([]string(nil), in...)
}
