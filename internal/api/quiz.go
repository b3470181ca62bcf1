package api

import (
	"context"
	"encoding/json"
	"fmt"
)

// StartQuiz generates a quiz. category is "subject", "topic" or "branch"
// and becomes the "<category>_id" key of the request body.
func (c *Client) StartQuiz(ctx context.Context, category string, itemID ID, numQuestions int) (*QuizStart, error) {
	body := map[string]any{
		category + "_id": itemID,
		"num_questions":  numQuestions,
	}
	var out QuizStart
	if err := c.postJSON(ctx, "/quiz/start", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitQuiz sends every captured answer of a session.
func (c *Client) SubmitQuiz(ctx context.Context, req SubmitRequest) error {
	return c.postJSON(ctx, "/quiz/submit", req, nil)
}

// QuizResult fetches the outcome of a submitted session. The result is
// wrapped in a "quiz_session" envelope; a bare object is accepted too.
func (c *Client) QuizResult(ctx context.Context, sessionID ID) (*QuizResult, error) {
	var raw struct {
		QuizSession json.RawMessage `json:"quiz_session"`
	}
	var all json.RawMessage
	if err := c.getJSON(ctx, fmt.Sprintf("/quiz/result/%s", sessionID), &all); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(all, &raw); err != nil {
		return nil, fmt.Errorf("decode quiz result: %w", err)
	}
	payload := raw.QuizSession
	if len(payload) == 0 || string(payload) == "null" {
		payload = all
	}

	var out QuizResult
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("decode quiz result: %w", err)
	}
	return &out, nil
}

// StudentDashboard returns the current student's statistics.
func (c *Client) StudentDashboard(ctx context.Context) (*StudentDashboard, error) {
	var out StudentDashboard
	if err := c.getJSON(ctx, "/quiz/student/dashboard", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
