// Package appctxtest provides an in-memory quiz backend and ready-wired
// application contexts for tests.
package appctxtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/eduz/internal/api"
	"github.com/abhisek/eduz/internal/appctx"
	"github.com/abhisek/eduz/internal/store"
)

// Backend is a fake of the quiz REST API. Fields may be seeded before the
// first request; afterwards use the accessor methods.
type Backend struct {
	mu sync.Mutex

	Users     []api.User
	Passwords map[string]string
	Subjects  []api.Subject
	Branches  []api.Branch
	Topics    []api.Topic
	Systems   []string
	Questions []api.CreateQuestionRequest
	Submits   []api.SubmitRequest
	Starts    []map[string]any
	// Fail maps "METHOD /path" to a status code the route answers with.
	Fail map[string]int

	nextID int64
	tokens map[string]string // token -> email
	hits   map[string]int
}

// NewBackend returns an empty backend with one account per role.
func NewBackend() *Backend {
	b := &Backend{
		Passwords: map[string]string{},
		Fail:      map[string]int{},
		tokens:    map[string]string{},
		hits:      map[string]int{},
		nextID:    100,
	}
	for i, role := range []string{"student", "teacher", "admin"} {
		email := role + "@example.com"
		b.Users = append(b.Users, api.User{ID: api.ID(i + 1), Name: role, Email: email, Role: role})
		b.Passwords[email] = "secret"
	}
	return b
}

// CreatedQuestions returns every question body received.
func (b *Backend) CreatedQuestions() []api.CreateQuestionRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.CreateQuestionRequest(nil), b.Questions...)
}

// StartBodies returns every quiz start body received.
func (b *Backend) StartBodies() []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]map[string]any(nil), b.Starts...)
}

// User looks up an account by email.
func (b *Backend) User(email string) (api.User, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.Users {
		if u.Email == email {
			return u, true
		}
	}
	return api.User{}, false
}

// SubmittedQuizzes returns every submit body received.
func (b *Backend) SubmittedQuizzes() []api.SubmitRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.SubmitRequest(nil), b.Submits...)
}

// Hits reports how many requests reached route, failed ones included.
func (b *Backend) Hits(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[route]
}

// SetFail makes route answer with status; 0 clears it.
func (b *Backend) SetFail(route string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if status == 0 {
		delete(b.Fail, route)
		return
	}
	b.Fail[route] = status
}

func (b *Backend) id() api.ID {
	b.nextID++
	return api.ID(b.nextID)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func detail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

func (b *Backend) user(r *http.Request) (api.User, bool) {
	tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return api.User{}, false
	}
	email, ok := b.tokens[tok]
	if !ok {
		return api.User{}, false
	}
	for _, u := range b.Users {
		if u.Email == email {
			return u, true
		}
	}
	return api.User{}, false
}

// Handler returns the HTTP handler serving the fake API.
func (b *Backend) Handler() http.Handler {
	mux := http.NewServeMux()

	route := func(pattern string, auth bool, h func(w http.ResponseWriter, r *http.Request, u api.User)) {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			b.mu.Lock()
			defer b.mu.Unlock()
			b.hits[r.Method+" "+r.URL.Path]++
			if status, ok := b.Fail[r.Method+" "+r.URL.Path]; ok {
				detail(w, status, "simulated failure")
				return
			}
			u, ok := b.user(r)
			if auth && !ok {
				detail(w, http.StatusUnauthorized, "Not authenticated")
				return
			}
			h(w, r, u)
		})
	}

	route("POST /users/register", false, func(w http.ResponseWriter, r *http.Request, _ api.User) {
		var req api.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			detail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		for _, u := range b.Users {
			if strings.EqualFold(u.Email, req.Email) {
				detail(w, http.StatusBadRequest, "Email already registered")
				return
			}
		}
		u := api.User{ID: b.id(), Name: req.Name, Email: req.Email, Role: req.Role}
		b.Users = append(b.Users, u)
		b.Passwords[req.Email] = req.Password
		writeJSON(w, http.StatusOK, u)
	})

	route("POST /users/login", false, func(w http.ResponseWriter, r *http.Request, _ api.User) {
		if err := r.ParseForm(); err != nil {
			detail(w, http.StatusBadRequest, err.Error())
			return
		}
		email, pw := r.PostForm.Get("username"), r.PostForm.Get("password")
		if p, ok := b.Passwords[email]; !ok || p != pw {
			detail(w, http.StatusUnauthorized, "Incorrect email or password")
			return
		}
		tok := fmt.Sprintf("tok-%d-%s", time.Now().UnixNano(), email)
		b.tokens[tok] = email
		var role string
		for _, u := range b.Users {
			if u.Email == email {
				role = u.Role
			}
		}
		writeJSON(w, http.StatusOK, api.LoginResponse{AccessToken: tok, TokenType: "bearer", Role: role})
	})

	route("GET /users/me", true, func(w http.ResponseWriter, _ *http.Request, u api.User) {
		writeJSON(w, http.StatusOK, u)
	})

	route("GET /users", true, func(w http.ResponseWriter, _ *http.Request, _ api.User) {
		writeJSON(w, http.StatusOK, b.Users)
	})

	route("POST /users/{id}/promote", true, func(w http.ResponseWriter, r *http.Request, actor api.User) {
		if actor.Role != "admin" {
			detail(w, http.StatusForbidden, "Not enough permissions")
			return
		}
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		newRole := r.URL.Query().Get("new_role")
		for i, u := range b.Users {
			if int64(u.ID) != id {
				continue
			}
			if !(u.Role == "student" && newRole == "teacher") && !(u.Role == "teacher" && newRole == "admin") {
				detail(w, http.StatusBadRequest, "Invalid promotion")
				return
			}
			b.Users[i].Role = newRole
			writeJSON(w, http.StatusOK, b.Users[i])
			return
		}
		detail(w, http.StatusNotFound, "User not found")
	})

	route("GET /users/admin/dashboard", true, func(w http.ResponseWriter, _ *http.Request, _ api.User) {
		counts := map[string]int{}
		for _, u := range b.Users {
			counts[u.Role+"s"]++
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"total_users":     len(b.Users),
			"total_students":  counts["students"],
			"total_teachers":  counts["teachers"],
			"total_questions": len(b.Questions),
			"note":            "ignored",
		})
	})

	route("GET /questions/subjects", true, func(w http.ResponseWriter, _ *http.Request, _ api.User) {
		writeJSON(w, http.StatusOK, b.Subjects)
	})
	route("GET /questions/branches", true, func(w http.ResponseWriter, _ *http.Request, _ api.User) {
		writeJSON(w, http.StatusOK, b.Branches)
	})
	route("GET /questions/topics", true, func(w http.ResponseWriter, _ *http.Request, _ api.User) {
		writeJSON(w, http.StatusOK, b.Topics)
	})
	route("GET /questions/systems", true, func(w http.ResponseWriter, _ *http.Request, _ api.User) {
		writeJSON(w, http.StatusOK, b.Systems)
	})

	route("GET /questions/subjects/by_level/{level}", true, func(w http.ResponseWriter, r *http.Request, _ api.User) {
		out := []api.Subject{}
		for _, s := range b.Subjects {
			if s.Level == r.PathValue("level") {
				out = append(out, s)
			}
		}
		writeJSON(w, http.StatusOK, out)
	})
	route("GET /questions/topics/by_level/{level}", true, func(w http.ResponseWriter, r *http.Request, _ api.User) {
		out := []api.Topic{}
		for _, t := range b.Topics {
			if b.levelOf(t.SubjectID) == r.PathValue("level") {
				out = append(out, t)
			}
		}
		writeJSON(w, http.StatusOK, out)
	})
	route("GET /questions/branches/by_level/{level}", true, func(w http.ResponseWriter, r *http.Request, _ api.User) {
		out := []api.Branch{}
		for _, br := range b.Branches {
			if b.levelOf(br.SubjectID) == r.PathValue("level") {
				out = append(out, br)
			}
		}
		writeJSON(w, http.StatusOK, out)
	})

	route("POST /questions/subjects", true, func(w http.ResponseWriter, r *http.Request, _ api.User) {
		var req api.CreateSubjectRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		s := api.Subject{ID: b.id(), Name: req.Name, Level: req.Level}
		b.Subjects = append(b.Subjects, s)
		writeJSON(w, http.StatusOK, s)
	})
	route("POST /questions/branches", true, func(w http.ResponseWriter, r *http.Request, _ api.User) {
		var req api.CreateBranchRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		br := api.Branch{ID: b.id(), Name: req.Name, SubjectID: req.SubjectID}
		b.Branches = append(b.Branches, br)
		writeJSON(w, http.StatusOK, br)
	})
	route("POST /questions/topics", true, func(w http.ResponseWriter, r *http.Request, _ api.User) {
		var req api.CreateTopicRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		t := api.Topic{ID: b.id(), Name: req.Name, SubjectID: req.SubjectID, Level: req.Level, BranchID: req.BranchID}
		b.Topics = append(b.Topics, t)
		writeJSON(w, http.StatusOK, t)
	})
	route("POST /questions/systems", true, func(w http.ResponseWriter, r *http.Request, _ api.User) {
		var req api.System
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.Systems = append(b.Systems, req.Name)
		writeJSON(w, http.StatusOK, req)
	})
	route("POST /questions/{$}", true, func(w http.ResponseWriter, r *http.Request, u api.User) {
		var req api.CreateQuestionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			detail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		b.Questions = append(b.Questions, req)
		writeJSON(w, http.StatusOK, api.Question{
			ID: b.id(), QuestionText: req.QuestionText, Options: req.Options,
			CorrectOption: req.CorrectOption, TopicID: req.TopicID, BranchID: req.BranchID, CreatedBy: u.ID,
		})
	})
	route("GET /questions/teacher/dashboard", true, func(w http.ResponseWriter, _ *http.Request, _ api.User) {
		writeJSON(w, http.StatusOK, map[string]any{
			"total_questions": len(b.Questions),
			"total_subjects":  len(b.Subjects),
			"total_topics":    len(b.Topics),
		})
	})

	route("POST /quiz/start", true, func(w http.ResponseWriter, r *http.Request, _ api.User) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.Starts = append(b.Starts, body)
		n, _ := body["num_questions"].(float64)
		qs := make([]api.QuizQuestion, 0, int(n))
		for i := 0; i < int(n); i++ {
			qs = append(qs, api.QuizQuestion{
				ID:           api.ID(1000 + i),
				QuestionText: fmt.Sprintf("Question %d", i+1),
				Options:      []string{"alpha", "beta", "gamma", "delta"},
			})
		}
		writeJSON(w, http.StatusOK, api.QuizStart{SessionID: 42, Questions: qs})
	})
	route("POST /quiz/submit", true, func(w http.ResponseWriter, r *http.Request, _ api.User) {
		var req api.SubmitRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.Submits = append(b.Submits, req)
		writeJSON(w, http.StatusOK, map[string]string{"status": "submitted"})
	})
	route("GET /quiz/result/{id}", true, func(w http.ResponseWriter, r *http.Request, _ api.User) {
		correct := 0
		total := 0
		if n := len(b.Submits); n > 0 {
			for _, a := range b.Submits[n-1].Answers {
				total++
				if a.SelectedOption == "beta" {
					correct++
				}
			}
		}
		score := 0.0
		if total > 0 {
			score = float64(correct) / float64(total) * 100
		}
		start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
		writeJSON(w, http.StatusOK, map[string]any{"quiz_session": api.QuizResult{
			Score: score, TotalQuestions: total, CorrectAnswers: correct,
			StartedAt: start, EndedAt: start.Add(4 * time.Minute),
		}})
	})
	route("GET /quiz/student/dashboard", true, func(w http.ResponseWriter, _ *http.Request, u api.User) {
		writeJSON(w, http.StatusOK, api.StudentDashboard{
			UserID: u.ID, TotalQuizzes: 2, AverageScore: 75, HighestScore: 100, LowestScore: 50,
			TotalAttempts: 2, EasyCount: 1, MediumCount: 1,
			QuizHistory: []api.QuizHistoryItem{
				{QuizID: 1, Score: 100, TotalQuestions: 3, CorrectAnswers: 3, Difficulty: "Easy",
					CompletedAt: time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)},
			},
		})
	})

	return mux
}

func (b *Backend) levelOf(subject api.ID) string {
	for _, s := range b.Subjects {
		if s.ID == subject {
			return s.Level
		}
	}
	return ""
}

// Server starts b on an httptest server closed at test cleanup.
func Server(t testing.TB, b *Backend) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)
	return srv
}

// Deps returns an application context talking to b, with in-memory
// durable storage and a private SQLite history database.
func Deps(t testing.TB, b *Backend) *appctx.Deps {
	t.Helper()
	srv := Server(t, b)
	name := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, t.Name())
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return appctx.New(api.Config{BaseURL: srv.URL}, store.NewMemoryKV(), st.HistoryRepo(), nil)
}
