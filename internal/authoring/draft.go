// Package authoring manages question drafts: the multi-block authoring form,
// local validation, sequential batch submission, and the preview snapshot
// that lets unfinished work survive navigation.
package authoring

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/eduz/internal/api"
)

const (
	MinOptions        = 4
	MaxOptions        = 8
	DefaultDifficulty = 3
	MinDifficulty     = 1
	MaxDifficulty     = 5
)

var difficultyLabels = []string{"Easy", "Slightly Hard", "Medium", "Hard", "Very Hard"}

// DifficultyLabel returns the display name of difficulty d, or "" when d is
// out of range.
func DifficultyLabel(d int) string {
	if d < MinDifficulty || d > MaxDifficulty {
		return ""
	}
	return difficultyLabels[d-1]
}

// Draft is one in-progress question.
type Draft struct {
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectOption string   `json:"correct_option"`
	Level         string   `json:"level"`
	SubjectID     api.ID   `json:"subject_id"`
	TopicID       api.ID   `json:"topic_id"`
	BranchID      *api.ID  `json:"branch_id"`
	System        string   `json:"systems"`
	Difficulty    int      `json:"difficulty"`
}

// NewDraft returns an empty draft with the minimum option slots and the
// default difficulty.
func NewDraft() Draft {
	return Draft{
		Options:    make([]string, MinOptions),
		Difficulty: DefaultDifficulty,
	}
}

// ValidationError reports the first problem found in a batch. Index is the
// zero-based position of the offending draft.
type ValidationError struct {
	Index   int
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("question %d: %s: %s", e.Index+1, e.Field, e.Message)
}

// Validate checks every draft and returns the first *ValidationError, or nil.
func Validate(drafts []Draft) error {
	for i, d := range drafts {
		if err := d.validate(i); err != nil {
			return err
		}
	}
	return nil
}

func (d Draft) validate(i int) *ValidationError {
	fail := func(field, msg string) *ValidationError {
		return &ValidationError{Index: i, Field: field, Message: msg}
	}

	if strings.TrimSpace(d.QuestionText) == "" {
		return fail("question_text", "question text is required")
	}
	if len(d.Options) < MinOptions || len(d.Options) > MaxOptions {
		return fail("options", fmt.Sprintf("between %d and %d options are required", MinOptions, MaxOptions))
	}
	for j, o := range d.Options {
		if strings.TrimSpace(o) == "" {
			return fail(fmt.Sprintf("options[%d]", j), "option is required")
		}
	}
	if strings.TrimSpace(d.CorrectOption) == "" {
		return fail("correct_option", "mark the correct option")
	}
	if !slices.Contains(d.Options, d.CorrectOption) {
		return fail("correct_option", "correct option must be one of the options")
	}
	if d.Difficulty < MinDifficulty || d.Difficulty > MaxDifficulty {
		return fail("difficulty", fmt.Sprintf("difficulty must be %d-%d", MinDifficulty, MaxDifficulty))
	}
	if d.TopicID == 0 {
		return fail("topic_id", "each question must have a topic selected")
	}
	return nil
}

// Request converts d into the create-question payload.
func (d Draft) Request() api.CreateQuestionRequest {
	req := api.CreateQuestionRequest{
		QuestionText:  d.QuestionText,
		Options:       slices.Clone(d.Options),
		CorrectOption: d.CorrectOption,
		TopicID:       d.TopicID,
		Difficulty:    d.Difficulty,
	}
	if d.BranchID != nil && *d.BranchID != 0 {
		b := *d.BranchID
		req.BranchID = &b
	}
	if d.System != "" {
		s := d.System
		req.Systems = &s
	}
	if req.Difficulty == 0 {
		req.Difficulty = DefaultDifficulty
	}
	return req
}
