// Package quiz drives a quiz attempt from scope selection to result.
package quiz

import (
	"errors"
	"fmt"

	"github.com/abhisek/eduz/internal/api"
)

var (
	// ErrMissingScope means the category, item or question count is absent.
	ErrMissingScope = errors.New("quiz scope is incomplete")
	// ErrAnswerRequired means Next was called before answering.
	ErrAnswerRequired = errors.New("please select an answer")
	// ErrInvalidTransition means the operation is not valid in the current state.
	ErrInvalidTransition = errors.New("invalid quiz state transition")
)

// Categories a quiz can be scoped to.
const (
	CategorySubject = "subject"
	CategoryTopic   = "topic"
	CategoryBranch  = "branch"
)

// Categories lists the valid scope categories in display order.
var Categories = []string{CategorySubject, CategoryTopic, CategoryBranch}

// DefaultNumQuestions is the question count preselected on the prep page.
const DefaultNumQuestions = 3

// Scope selects which questions a quiz draws from.
type Scope struct {
	Category     string
	ItemID       api.ID
	NumQuestions int
}

// Validate returns ErrMissingScope when any part is absent.
func (s Scope) Validate() error {
	switch s.Category {
	case CategorySubject, CategoryTopic, CategoryBranch:
	case "":
		return fmt.Errorf("%w: category", ErrMissingScope)
	default:
		return fmt.Errorf("%w: unknown category %q", ErrMissingScope, s.Category)
	}
	if s.ItemID == 0 {
		return fmt.Errorf("%w: item", ErrMissingScope)
	}
	if s.NumQuestions <= 0 {
		return fmt.Errorf("%w: number of questions", ErrMissingScope)
	}
	return nil
}

// State is a step of the attempt.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateInProgress
	StateSubmitting
	StateCompleted
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateInProgress:
		return "in progress"
	case StateSubmitting:
		return "submitting"
	case StateCompleted:
		return "completed"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Flow is the state machine of one quiz attempt. Network calls happen
// outside; their outcomes are fed back through Started, Failed, Submitted
// and SubmitFailed. Flow is not safe for concurrent use.
type Flow struct {
	state     State
	scope     Scope
	sessionID api.ID
	questions []api.QuizQuestion
	index     int
	answers   map[api.ID]string
	err       error
}

// NewFlow returns a flow in StateIdle.
func NewFlow() *Flow {
	return &Flow{answers: make(map[api.ID]string)}
}

// State returns the current state.
func (f *Flow) State() State { return f.state }

// Scope returns the scope passed to Begin.
func (f *Flow) Scope() Scope { return f.scope }

// SessionID is the server quiz session, set once started.
func (f *Flow) SessionID() api.ID { return f.sessionID }

// Err is the last failure: the fatal one in StateError, or the inline
// submit error while back in StateInProgress.
func (f *Flow) Err() error { return f.err }

// Begin moves Idle to Loading. An incomplete scope moves straight to Error.
func (f *Flow) Begin(scope Scope) error {
	if f.state != StateIdle {
		return f.invalid("begin")
	}
	f.scope = scope
	if err := scope.Validate(); err != nil {
		f.state = StateError
		f.err = err
		return err
	}
	f.state = StateLoading
	return nil
}

// Started records the start response and moves Loading to InProgress.
// A quiz with no questions is an error.
func (f *Flow) Started(start *api.QuizStart) error {
	if f.state != StateLoading {
		return f.invalid("start")
	}
	if start == nil || len(start.Questions) == 0 {
		f.state = StateError
		f.err = errors.New("no questions available for this selection")
		return f.err
	}
	f.sessionID = start.SessionID
	f.questions = start.Questions
	f.index = 0
	f.answers = make(map[api.ID]string, len(start.Questions))
	f.err = nil
	f.state = StateInProgress
	return nil
}

// Failed moves Loading to Error.
func (f *Flow) Failed(err error) {
	if f.state != StateLoading {
		return
	}
	f.state = StateError
	f.err = err
}

// Current returns the question being shown.
func (f *Flow) Current() (api.QuizQuestion, bool) {
	if f.index < 0 || f.index >= len(f.questions) {
		return api.QuizQuestion{}, false
	}
	return f.questions[f.index], true
}

// Questions returns the ordered question list.
func (f *Flow) Questions() []api.QuizQuestion { return f.questions }

// Index is the zero-based position of the current question.
func (f *Flow) Index() int { return f.index }

// Answer records option for the current question, replacing any earlier
// answer.
func (f *Flow) Answer(option string) error {
	if f.state != StateInProgress {
		return f.invalid("answer")
	}
	q, ok := f.Current()
	if !ok {
		return f.invalid("answer")
	}
	f.answers[q.ID] = option
	return nil
}

// Answered returns the recorded answer of question id.
func (f *Flow) Answered(id api.ID) (string, bool) {
	a, ok := f.answers[id]
	return a, ok
}

// Next advances to the following question. On the last question it moves to
// Submitting instead. The current question must be answered.
func (f *Flow) Next() error {
	if f.state != StateInProgress {
		return f.invalid("next")
	}
	q, _ := f.Current()
	if _, ok := f.answers[q.ID]; !ok {
		return ErrAnswerRequired
	}
	if f.index == len(f.questions)-1 {
		f.state = StateSubmitting
		f.err = nil
		return nil
	}
	f.index++
	return nil
}

// Back returns to the previous question. Answers are kept.
func (f *Flow) Back() error {
	if f.state != StateInProgress {
		return f.invalid("back")
	}
	if f.index > 0 {
		f.index--
	}
	return nil
}

// Retry re-enters Submitting after a failed submit.
func (f *Flow) Retry() error {
	if f.state != StateInProgress || !f.allAnswered() {
		return f.invalid("retry")
	}
	f.state = StateSubmitting
	f.err = nil
	return nil
}

// SubmitRequest is the payload for the submit call, answers in question
// order.
func (f *Flow) SubmitRequest() api.SubmitRequest {
	req := api.SubmitRequest{SessionID: f.sessionID, Answers: make([]api.Answer, 0, len(f.answers))}
	for _, q := range f.questions {
		if a, ok := f.answers[q.ID]; ok {
			req.Answers = append(req.Answers, api.Answer{QuestionID: q.ID, SelectedOption: a})
		}
	}
	return req
}

// Submitted moves Submitting to Completed.
func (f *Flow) Submitted() error {
	if f.state != StateSubmitting {
		return f.invalid("complete")
	}
	f.state = StateCompleted
	return nil
}

// SubmitFailed returns Submitting to InProgress with answers intact, so the
// user can retry.
func (f *Flow) SubmitFailed(err error) {
	if f.state != StateSubmitting {
		return
	}
	f.state = StateInProgress
	f.err = err
}

// Progress reports the 1-based position, the total and the answered count.
func (f *Flow) Progress() (current, total, answered int) {
	total = len(f.questions)
	if total > 0 {
		current = f.index + 1
	}
	return current, total, len(f.answers)
}

func (f *Flow) allAnswered() bool {
	for _, q := range f.questions {
		if _, ok := f.answers[q.ID]; !ok {
			return false
		}
	}
	return len(f.questions) > 0
}

func (f *Flow) invalid(op string) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, op, f.state)
}
