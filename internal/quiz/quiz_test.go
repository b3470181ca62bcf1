package quiz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/eduz/internal/api"
)

func started(t *testing.T, n int) *Flow {
	t.Helper()
	f := NewFlow()
	require.NoError(t, f.Begin(Scope{Category: CategorySubject, ItemID: 5, NumQuestions: n}))
	qs := make([]api.QuizQuestion, n)
	for i := range qs {
		qs[i] = api.QuizQuestion{ID: api.ID(10 + i), QuestionText: "q", Options: []string{"a", "b", "c", "d"}}
	}
	require.NoError(t, f.Started(&api.QuizStart{SessionID: 77, Questions: qs}))
	return f
}

func TestScopeValidate(t *testing.T) {
	tests := []struct {
		name  string
		scope Scope
		ok    bool
	}{
		{"complete", Scope{CategorySubject, 5, 3}, true},
		{"no category", Scope{"", 5, 3}, false},
		{"bad category", Scope{"chapter", 5, 3}, false},
		{"no item", Scope{CategoryTopic, 0, 3}, false},
		{"no count", Scope{CategoryBranch, 5, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.scope.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrMissingScope)
			}
		})
	}
}

func TestBeginMissingScopeFails(t *testing.T) {
	f := NewFlow()
	err := f.Begin(Scope{Category: CategorySubject, NumQuestions: 3})
	assert.ErrorIs(t, err, ErrMissingScope)
	assert.Equal(t, StateError, f.State())
	assert.ErrorIs(t, f.Err(), ErrMissingScope)
}

func TestHappyPath(t *testing.T) {
	f := started(t, 3)
	assert.Equal(t, StateInProgress, f.State())
	assert.Equal(t, api.ID(77), f.SessionID())

	cur, total, answered := f.Progress()
	assert.Equal(t, []int{1, 3, 0}, []int{cur, total, answered})

	assert.ErrorIs(t, f.Next(), ErrAnswerRequired)

	for i := 0; i < 3; i++ {
		require.NoError(t, f.Answer("b"))
		assert.NotEqual(t, StateCompleted, f.State())
		require.NoError(t, f.Next())
	}
	assert.Equal(t, StateSubmitting, f.State())

	req := f.SubmitRequest()
	assert.Equal(t, api.ID(77), req.SessionID)
	require.Len(t, req.Answers, 3)
	assert.Equal(t, api.Answer{QuestionID: 10, SelectedOption: "b"}, req.Answers[0])

	require.NoError(t, f.Submitted())
	assert.Equal(t, StateCompleted, f.State())
	assert.ErrorIs(t, f.Answer("a"), ErrInvalidTransition)
}

func TestAnswerOverwriteAndBack(t *testing.T) {
	f := started(t, 2)
	require.NoError(t, f.Answer("a"))
	require.NoError(t, f.Answer("c"))
	require.NoError(t, f.Next())
	require.NoError(t, f.Back())
	assert.Equal(t, 0, f.Index())

	a, ok := f.Answered(10)
	require.True(t, ok)
	assert.Equal(t, "c", a)

	require.NoError(t, f.Back(), "back on first question is a no-op")
	assert.Equal(t, 0, f.Index())
}

func TestSubmitFailureKeepsAnswers(t *testing.T) {
	f := started(t, 1)
	require.NoError(t, f.Answer("d"))
	require.NoError(t, f.Next())

	f.SubmitFailed(errors.New("network"))
	assert.Equal(t, StateInProgress, f.State())
	assert.EqualError(t, f.Err(), "network")
	a, ok := f.Answered(10)
	assert.True(t, ok)
	assert.Equal(t, "d", a)

	require.NoError(t, f.Retry())
	assert.Equal(t, StateSubmitting, f.State())
	assert.NoError(t, f.Err())
	require.NoError(t, f.Submitted())
}

func TestRetryRequiresAllAnswers(t *testing.T) {
	f := started(t, 2)
	require.NoError(t, f.Answer("a"))
	assert.ErrorIs(t, f.Retry(), ErrInvalidTransition)
}

func TestStartFailureAndEmptyQuiz(t *testing.T) {
	f := NewFlow()
	require.NoError(t, f.Begin(Scope{CategoryTopic, 1, 3}))
	f.Failed(errors.New("boom"))
	assert.Equal(t, StateError, f.State())

	f = NewFlow()
	require.NoError(t, f.Begin(Scope{CategoryTopic, 1, 3}))
	assert.Error(t, f.Started(&api.QuizStart{SessionID: 1}))
	assert.Equal(t, StateError, f.State())
}

func TestInvalidTransitions(t *testing.T) {
	f := NewFlow()
	assert.ErrorIs(t, f.Next(), ErrInvalidTransition)
	assert.ErrorIs(t, f.Submitted(), ErrInvalidTransition)
	assert.ErrorIs(t, f.Started(&api.QuizStart{}), ErrInvalidTransition)

	f = started(t, 1)
	assert.ErrorIs(t, f.Begin(Scope{CategorySubject, 1, 1}), ErrInvalidTransition)
}

type prepSource struct {
	subjects map[string][]api.Subject
	topics   map[string][]api.Topic
	fail     bool
}

func (p *prepSource) ListSubjects(context.Context) ([]api.Subject, error) {
	var all []api.Subject
	for _, s := range p.subjects {
		all = append(all, s...)
	}
	return all, nil
}

func (p *prepSource) SubjectsByLevel(_ context.Context, level string) ([]api.Subject, error) {
	return p.subjects[level], nil
}

func (p *prepSource) TopicsByLevel(_ context.Context, level string) ([]api.Topic, error) {
	if p.fail {
		return nil, errors.New("topics down")
	}
	return p.topics[level], nil
}

func (p *prepSource) BranchesByLevel(context.Context, string) ([]api.Branch, error) {
	return nil, nil
}

func newPrepSource() *prepSource {
	return &prepSource{
		subjects: map[string][]api.Subject{
			"Grade 9":  {{ID: 1, Name: "Math", Level: "Grade 9"}, {ID: 2, Name: "Art", Level: "Grade 9"}},
			"Grade 10": {{ID: 3, Name: "Physics", Level: "Grade 10"}},
		},
		topics: map[string][]api.Topic{
			"Grade 9": {{ID: 11, Name: "Fractions", SubjectID: 1}},
		},
	}
}

func TestLoadLevels(t *testing.T) {
	levels, err := LoadLevels(context.Background(), newPrepSource())
	require.NoError(t, err)
	assert.Equal(t, []string{"Grade 10", "Grade 9"}, levels)
}

func TestPrepFlow(t *testing.T) {
	src := newPrepSource()
	ctx := context.Background()
	p := NewPrep()
	assert.Equal(t, DefaultNumQuestions, p.NumQuestions)

	gen := p.SetLevel("Grade 9")
	assert.True(t, p.Loading())
	assert.True(t, p.Apply(FetchLevel(ctx, src, "Grade 9", gen)))
	assert.False(t, p.Loading())

	p.SetCategory(CategorySubject)
	assert.Equal(t, []Item{{1, "Math"}, {2, "Art"}}, p.Items())
	p.ItemID = 2
	assert.Equal(t, "Art", p.ItemName())

	scope, err := p.Scope()
	require.NoError(t, err)
	assert.Equal(t, Scope{CategorySubject, 2, 3}, scope)

	p.SetCategory(CategoryTopic)
	assert.Equal(t, api.ID(0), p.ItemID, "category change clears item")
	_, err = p.Scope()
	assert.ErrorIs(t, err, ErrMissingScope)

	p.ItemID = 11
	p.SetLevel("Grade 10")
	assert.Equal(t, "", p.Category)
	assert.Equal(t, api.ID(0), p.ItemID)
	assert.Empty(t, p.Items())
}

func TestPrepDiscardsStaleGeneration(t *testing.T) {
	src := newPrepSource()
	ctx := context.Background()
	p := NewPrep()

	oldGen := p.SetLevel("Grade 9")
	newGen := p.SetLevel("Grade 10")

	// The newer response lands first, then the slow superseded one.
	assert.True(t, p.Apply(FetchLevel(ctx, src, "Grade 10", newGen)))
	assert.False(t, p.Apply(FetchLevel(ctx, src, "Grade 9", oldGen)))

	p.SetCategory(CategorySubject)
	assert.Equal(t, []Item{{3, "Physics"}}, p.Items())
}

func TestFetchLevelFailureIsWhole(t *testing.T) {
	src := newPrepSource()
	src.fail = true
	p := NewPrep()
	gen := p.SetLevel("Grade 9")

	d := FetchLevel(context.Background(), src, "Grade 9", gen)
	require.Error(t, d.Err)
	assert.Nil(t, d.Subjects, "no partial merge")
	assert.True(t, p.Apply(d))
	assert.False(t, p.Loading())
	p.SetCategory(CategorySubject)
	assert.Empty(t, p.Items())
}
