package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ID is the canonical entity identifier. The backend sends integers, but
// some payloads (and older clients) carry them as strings; both decode here
// so that nothing past this package compares mixed representations.
type ID int64

// String formats the id in base 10.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// UnmarshalJSON accepts 12, "12" and null (zero).
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*id = 0
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("parse id %q: %w", s, err)
		}
		*id = ID(n)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("parse id %s: %w", b, err)
	}
	*id = ID(n)
	return nil
}

// ParseID converts user input (flags, form values) into an ID.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return ID(n), nil
}

// User is a registered account.
type User struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginResponse is returned by POST /users/login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role,omitempty"`
}

// Subject belongs to exactly one level.
type Subject struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

// Branch is an optional grouping under a subject.
type Branch struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	SubjectID ID     `json:"subject_id"`
}

// Topic is the required classification of a question.
type Topic struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	SubjectID ID     `json:"subject_id"`
	Level     string `json:"level,omitempty"`
	BranchID  *ID    `json:"branch_id,omitempty"`
}

// System is a free-text tag.
type System struct {
	Name string `json:"name"`
}

// UnmarshalJSON accepts both "Cardio" and {"name": "Cardio"}; the systems
// endpoint has returned both shapes.
func (s *System) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &s.Name)
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	s.Name = obj.Name
	return nil
}

// CreateSubjectRequest is the body of POST /questions/subjects.
type CreateSubjectRequest struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

// CreateBranchRequest is the body of POST /questions/branches.
type CreateBranchRequest struct {
	Name      string `json:"name"`
	SubjectID ID     `json:"subject_id"`
}

// CreateTopicRequest is the body of POST /questions/topics.
type CreateTopicRequest struct {
	Name      string `json:"name"`
	SubjectID ID     `json:"subject_id"`
	Level     string `json:"level,omitempty"`
	BranchID  *ID    `json:"branch_id,omitempty"`
}

// CreateQuestionRequest is the body of POST /questions/.
type CreateQuestionRequest struct {
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectOption string   `json:"correct_option"`
	TopicID       ID       `json:"topic_id"`
	BranchID      *ID      `json:"branch_id"`
	Systems       *string  `json:"systems"`
	Difficulty    int      `json:"difficulty"`
}

// Question is a stored question as returned by the backend.
type Question struct {
	ID            ID       `json:"id"`
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectOption string   `json:"correct_option"`
	TopicID       ID       `json:"topic_id"`
	BranchID      *ID      `json:"branch_id,omitempty"`
	CreatedBy     ID       `json:"created_by,omitempty"`
	Approved      bool     `json:"approved"`
}

// QuizQuestion is a question as served to a quiz taker (no answer key).
type QuizQuestion struct {
	ID           ID       `json:"id"`
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options"`
}

// QuizStart is the response of POST /quiz/start.
type QuizStart struct {
	SessionID ID             `json:"quiz_session_id"`
	Questions []QuizQuestion `json:"questions"`
}

// Answer is one captured answer in a submission.
type Answer struct {
	QuestionID     ID     `json:"question_id"`
	SelectedOption string `json:"selected_option"`
}

// SubmitRequest is the body of POST /quiz/submit.
type SubmitRequest struct {
	SessionID ID       `json:"quiz_session_id"`
	Answers   []Answer `json:"answers"`
}

// QuizResult is the read-only outcome of a submitted quiz.
type QuizResult struct {
	Score          float64   `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	CorrectAnswers int       `json:"correct_answers"`
	StartedAt      time.Time `json:"started_at"`
	EndedAt        time.Time `json:"ended_at"`
}

// QuizHistoryItem is one row of the student dashboard history table.
type QuizHistoryItem struct {
	QuizID         ID        `json:"quiz_id"`
	Score          float64   `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	CorrectAnswers int       `json:"correct_answers"`
	Difficulty     string    `json:"difficulty"`
	CompletedAt    time.Time `json:"completed_at"`
}

// StudentDashboard is returned by GET /quiz/student/dashboard.
type StudentDashboard struct {
	UserID        ID                `json:"user_id"`
	TotalQuizzes  int               `json:"total_quizzes"`
	AverageScore  float64           `json:"average_score"`
	HighestScore  float64           `json:"highest_score"`
	LowestScore   float64           `json:"lowest_score"`
	TotalAttempts int               `json:"total_attempts"`
	EasyCount     int               `json:"easy_count"`
	MediumCount   int               `json:"medium_count"`
	HardCount     int               `json:"hard_count"`
	QuizHistory   []QuizHistoryItem `json:"quiz_history"`
}

// Stats is a dashboard payload whose shape the backend has not pinned down
// yet. Numeric fields are kept for display; everything else is ignored.
type Stats map[string]float64

// UnmarshalJSON keeps only the numeric top-level fields.
func (s *Stats) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(Stats, len(raw))
	for k, v := range raw {
		var f float64
		if err := json.Unmarshal(v, &f); err == nil {
			out[k] = f
		}
	}
	*s = out
	return nil
}
