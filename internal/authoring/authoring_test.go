package authoring

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/eduz/internal/api"
	"github.com/abhisek/eduz/internal/catalog"
	"github.com/abhisek/eduz/internal/session"
	"github.com/abhisek/eduz/internal/store"
)

func validDraft(topic api.ID) Draft {
	return Draft{
		QuestionText:  "2 + 2 = ?",
		Options:       []string{"3", "4", "5", "6"},
		CorrectOption: "4",
		TopicID:       topic,
		Difficulty:    3,
	}
}

type fakeCreator struct {
	calls  []api.CreateQuestionRequest
	failAt int // 1-based call number to fail; 0 never
}

func (f *fakeCreator) CreateQuestion(_ context.Context, req api.CreateQuestionRequest) (*api.Question, error) {
	f.calls = append(f.calls, req)
	if len(f.calls) == f.failAt {
		return nil, &api.Error{Status: 500, Detail: "db down"}
	}
	return &api.Question{ID: api.ID(len(f.calls)), QuestionText: req.QuestionText, TopicID: req.TopicID}, nil
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Draft)
		field string
	}{
		{"ok", func(*Draft) {}, ""},
		{"blank question", func(d *Draft) { d.QuestionText = "  " }, "question_text"},
		{"too few options", func(d *Draft) { d.Options = d.Options[:3] }, "options"},
		{"blank option", func(d *Draft) { d.Options[2] = "" }, "options[2]"},
		{"no correct", func(d *Draft) { d.CorrectOption = "" }, "correct_option"},
		{"correct not an option", func(d *Draft) { d.CorrectOption = "7" }, "correct_option"},
		{"difficulty range", func(d *Draft) { d.Difficulty = 6 }, "difficulty"},
		{"missing topic", func(d *Draft) { d.TopicID = 0 }, "topic_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft(7)
			tt.edit(&d)
			err := Validate([]Draft{validDraft(1), d})
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, 1, ve.Index)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestSubmitBatchMissingTopicSendsNothing(t *testing.T) {
	fc := &fakeCreator{}
	kv := store.NewMemoryKV()
	s := NewSubmitter(fc, kv, nil)

	_, err := s.SubmitBatch(context.Background(), []Draft{validDraft(1), validDraft(0), validDraft(2)})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 1, ve.Index)
	assert.Empty(t, fc.calls)
}

func TestSubmitBatchSuccessDiscardsSnapshot(t *testing.T) {
	fc := &fakeCreator{}
	kv := store.NewMemoryKV()
	s := NewSubmitter(fc, kv, nil)
	ctx := context.Background()
	drafts := []Draft{validDraft(1), validDraft(2)}
	require.NoError(t, s.SaveSnapshot(ctx, drafts))

	created, err := s.SubmitBatch(ctx, drafts)
	require.NoError(t, err)
	assert.Len(t, created, 2)
	require.Len(t, fc.calls, 2)
	assert.Equal(t, api.ID(1), fc.calls[0].TopicID)
	assert.Equal(t, api.ID(2), fc.calls[1].TopicID)

	_, ok, _ := kv.Get(ctx, SnapshotKey)
	assert.False(t, ok)
}

func TestSubmitBatchPartialFailure(t *testing.T) {
	fc := &fakeCreator{failAt: 2}
	kv := store.NewMemoryKV()
	s := NewSubmitter(fc, kv, nil)
	ctx := context.Background()
	drafts := []Draft{validDraft(1), validDraft(2), validDraft(3)}
	require.NoError(t, s.SaveSnapshot(ctx, drafts))

	created, err := s.SubmitBatch(ctx, drafts)
	var be *BatchError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 1, be.Index)
	assert.Len(t, be.Created, 1)
	assert.Len(t, created, 1)
	assert.Len(t, fc.calls, 2, "no calls after the failure")
	assert.Equal(t, "db down", api.Message(err, "Failed to add question(s)"))

	_, ok, _ := kv.Get(ctx, SnapshotKey)
	assert.True(t, ok, "snapshot kept on failure")

	f := FormFromDrafts(drafts)
	f.KeepFrom(be.Index)
	require.Len(t, f.Blocks, 2)
	assert.Equal(t, api.ID(2), f.Blocks[0].Sel.TopicID)
}

func TestRequestPayload(t *testing.T) {
	d := validDraft(9)
	req := d.Request()
	assert.Nil(t, req.BranchID)
	assert.Nil(t, req.Systems)

	b := api.ID(4)
	d.BranchID = &b
	d.System = "Cardio"
	req = d.Request()
	require.NotNil(t, req.BranchID)
	assert.Equal(t, api.ID(4), *req.BranchID)
	require.NotNil(t, req.Systems)
	assert.Equal(t, "Cardio", *req.Systems)

	raw, err := json.Marshal(validDraft(9).Request())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"branch_id":null`)
	assert.Contains(t, string(raw), `"topic_id":9`)
}

func TestFormBlocksAndOptions(t *testing.T) {
	f := NewForm()
	require.Len(t, f.Blocks, 1)
	first := f.Blocks[0]
	assert.Len(t, first.Options, MinOptions)
	assert.False(t, f.RemoveBlock(first.Key), "last block stays")

	second := f.AddBlock()
	assert.NotEqual(t, first.Key, second.Key)

	for i := MinOptions; i < MaxOptions; i++ {
		assert.True(t, f.AddOption(first.Key))
	}
	assert.False(t, f.AddOption(first.Key))
	assert.Len(t, first.Options, MaxOptions)

	copy(first.Options, []string{"a", "b", "c", "d", "e"})
	first.Correct = 3
	assert.True(t, f.RemoveOption(first.Key, 1))
	assert.Equal(t, 2, first.Correct)
	assert.Equal(t, "d", first.Draft().CorrectOption)
	assert.True(t, f.RemoveOption(first.Key, 2))
	assert.Equal(t, -1, first.Correct)

	for len(first.Options) > MinOptions {
		f.RemoveOption(first.Key, 0)
	}
	assert.False(t, f.RemoveOption(first.Key, 0))

	assert.True(t, f.RemoveBlock(first.Key))
	assert.Equal(t, []*Block{second}, f.Blocks)
	assert.Nil(t, f.Block(first.Key))
}

func TestBlocksKeepIndependentSelections(t *testing.T) {
	f := NewForm()
	a := f.Blocks[0]
	b := f.AddBlock()

	a.Sel.SetLevel("Grade 10")
	a.Sel.OpenInline(catalog.FieldSubject)
	a.Sel.SetPending(catalog.FieldSubject, "Mathematics")

	assert.Equal(t, "", b.Sel.Level)
	assert.False(t, b.Sel.Inline(catalog.FieldSubject).Visible)
}

func TestPreviewTrimsAndSnapshots(t *testing.T) {
	kv := store.NewMemoryKV()
	s := NewSubmitter(&fakeCreator{}, kv, nil)
	ctx := context.Background()

	d := Draft{
		QuestionText: "  What is H2O? ",
		Options:      []string{"Water", "  ", "Salt", ""},
		Level:        "",
		TopicID:      5,
		Difficulty:   2,
	}
	items, err := s.Preview(ctx, []Draft{d})
	require.NoError(t, err)
	require.Len(t, items, 1)
	it := items[0]
	require.NotNil(t, it.QuestionText)
	assert.Equal(t, "What is H2O?", *it.QuestionText)
	assert.Nil(t, it.Options[1])
	assert.Nil(t, it.Options[3])
	assert.Equal(t, "Water", *it.Options[0])
	assert.Nil(t, it.CorrectOption)
	assert.Nil(t, it.Level)
	assert.Nil(t, it.SubjectID)
	assert.Nil(t, it.BranchID)
	assert.Equal(t, "Slightly Hard", it.DifficultyLabel())

	restored, ok, err := s.RestoreSnapshot(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []Draft{d}, restored, "snapshot keeps raw drafts")

	require.NoError(t, s.ConfirmPreview(ctx))
	_, ok, err = s.RestoreSnapshot(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRestoreIgnoresCorruptSnapshot(t *testing.T) {
	kv := store.NewMemoryKV()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, SnapshotKey, "{not json"))

	_, ok, err := NewSubmitter(&fakeCreator{}, kv, nil).RestoreSnapshot(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFormFromDraftsRoundTrip(t *testing.T) {
	b := api.ID(3)
	d := validDraft(8)
	d.Level = "Grade 9"
	d.SubjectID = 2
	d.BranchID = &b
	d.System = "Renal"

	f := FormFromDrafts([]Draft{d})
	require.Len(t, f.Blocks, 1)
	assert.Equal(t, 1, f.Blocks[0].Correct)
	assert.Equal(t, []Draft{d}, f.Drafts())

	assert.Len(t, FormFromDrafts(nil).Blocks, 1)
}

func TestParseBatch(t *testing.T) {
	good := `[{"question_text": "Q", "options": ["a","b","c","d"], "correct_option": "b", "topic_id": 4}]`
	drafts, err := ParseBatch(strings.NewReader(good))
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, DefaultDifficulty, drafts[0].Difficulty)
	assert.Equal(t, api.ID(4), drafts[0].TopicID)
	assert.NoError(t, Validate(drafts))

	bad := []string{
		`{}`,
		`[]`,
		`[{"question_text": "Q", "options": ["a","b","c"], "correct_option": "a", "topic_id": 4}]`,
		`[{"question_text": "Q", "options": ["a","b","c","d"], "correct_option": "a"}]`,
		`[{"question_text": "Q", "options": ["a","b","c","d"], "correct_option": "a", "topic_id": 4, "difficulty": 9}]`,
		`[{"question_text": "Q", "options": ["a","b","c","d"], "correct_option": "a", "topic_id": 4, "extra": 1}]`,
		`not json`,
	}
	for _, in := range bad {
		_, err := ParseBatch(strings.NewReader(in))
		assert.Error(t, err, in)
	}
}

// backend is a minimal in-memory quiz backend for the authoring endpoints.
type backend struct {
	mu        sync.Mutex
	nextID    int64
	posts     []string
	questions []map[string]any
}

func (b *backend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	for _, p := range []string{"/questions/subjects", "/questions/branches", "/questions/topics", "/questions/systems"} {
		mux.HandleFunc("GET "+p, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `[]`)
		})
	}
	create := func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		b.mu.Lock()
		b.nextID++
		body["id"] = b.nextID
		b.posts = append(b.posts, r.URL.Path)
		if r.URL.Path == "/questions/" {
			b.questions = append(b.questions, body)
		}
		b.mu.Unlock()
		_ = json.NewEncoder(w).Encode(body)
	}
	mux.HandleFunc("POST /questions/subjects", create)
	mux.HandleFunc("POST /questions/topics", create)
	mux.HandleFunc("POST /questions/{$}", create)
	return mux
}

func TestTeacherAuthorsNewHierarchyEndToEnd(t *testing.T) {
	be := &backend{}
	srv := httptest.NewServer(be.handler(t))
	t.Cleanup(srv.Close)

	ctx := context.Background()
	sess := session.New(store.NewMemoryKV(), nil)
	require.NoError(t, sess.Login(ctx, "teacher-token", session.RoleTeacher))

	client := api.New(api.Config{BaseURL: srv.URL}, sess, nil)
	cache := catalog.NewCache(client, nil)
	require.NoError(t, cache.Load(ctx))

	form := NewForm()
	blk := form.Blocks[0]

	for _, step := range []struct {
		field catalog.Field
		name  string
	}{
		{catalog.FieldLevel, "Grade 10"},
		{catalog.FieldSubject, "Mathematics"},
		{catalog.FieldTopic, "Algebra"},
	} {
		blk.Sel.OpenInline(step.field)
		blk.Sel.SetPending(step.field, step.name)
		r, err := cache.Resolve(ctx, blk.Sel, step.field, blk.Sel.Inline(step.field).Pending)
		require.NoError(t, err)
		blk.Sel.Apply(r)
	}

	blk.QuestionText = "Solve x + 2 = 5"
	copy(blk.Options, []string{"1", "3", "5", "7"})
	blk.Correct = 1
	blk.Difficulty = 3

	sub := NewSubmitter(client, store.NewMemoryKV(), nil)
	created, err := sub.SubmitBatch(ctx, form.Drafts())
	require.NoError(t, err)
	require.Len(t, created, 1)

	algebra, ok := cache.Topic(blk.Sel.TopicID)
	require.True(t, ok)
	assert.Equal(t, "Algebra", algebra.Name)

	assert.Equal(t, []string{"/questions/subjects", "/questions/topics", "/questions/"}, be.posts)
	require.Len(t, be.questions, 1)
	q := be.questions[0]
	assert.EqualValues(t, algebra.ID, q["topic_id"])
	assert.EqualValues(t, 3, q["difficulty"])
	assert.Equal(t, "3", q["correct_option"])
}

func TestBatchErrorUnwraps(t *testing.T) {
	inner := errors.New("boom")
	err := error(&BatchError{Index: 0, Err: inner})
	assert.ErrorIs(t, err, inner)
}
