package api

import (
	"context"
	"net/url"
)

// ListSubjects returns every subject.
func (c *Client) ListSubjects(ctx context.Context) ([]Subject, error) {
	var out []Subject
	if err := c.getJSON(ctx, "/questions/subjects", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListBranches returns every branch.
func (c *Client) ListBranches(ctx context.Context) ([]Branch, error) {
	var out []Branch
	if err := c.getJSON(ctx, "/questions/branches", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTopics returns every topic.
func (c *Client) ListTopics(ctx context.Context) ([]Topic, error) {
	var out []Topic
	if err := c.getJSON(ctx, "/questions/topics", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListSystems returns every system tag.
func (c *Client) ListSystems(ctx context.Context) ([]System, error) {
	var out []System
	if err := c.getJSON(ctx, "/questions/systems", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubjectsByLevel returns the subjects of one level.
func (c *Client) SubjectsByLevel(ctx context.Context, level string) ([]Subject, error) {
	var out []Subject
	if err := c.getJSON(ctx, "/questions/subjects/by_level/"+url.PathEscape(level), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TopicsByLevel returns the topics of one level.
func (c *Client) TopicsByLevel(ctx context.Context, level string) ([]Topic, error) {
	var out []Topic
	if err := c.getJSON(ctx, "/questions/topics/by_level/"+url.PathEscape(level), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BranchesByLevel returns the branches of one level.
func (c *Client) BranchesByLevel(ctx context.Context, level string) ([]Branch, error) {
	var out []Branch
	if err := c.getJSON(ctx, "/questions/branches/by_level/"+url.PathEscape(level), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSubject creates a subject under a level.
func (c *Client) CreateSubject(ctx context.Context, req CreateSubjectRequest) (*Subject, error) {
	var out Subject
	if err := c.postJSON(ctx, "/questions/subjects", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateBranch creates a branch under a subject.
func (c *Client) CreateBranch(ctx context.Context, req CreateBranchRequest) (*Branch, error) {
	var out Branch
	if err := c.postJSON(ctx, "/questions/branches", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTopic creates a topic under a subject.
func (c *Client) CreateTopic(ctx context.Context, req CreateTopicRequest) (*Topic, error) {
	var out Topic
	if err := c.postJSON(ctx, "/questions/topics", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSystem creates a system tag. When the response body carries no
// name, the requested name is returned.
func (c *Client) CreateSystem(ctx context.Context, name string) (*System, error) {
	var out System
	if err := c.postJSON(ctx, "/questions/systems", System{Name: name}, &out); err != nil {
		return nil, err
	}
	if out.Name == "" {
		out.Name = name
	}
	return &out, nil
}

// CreateQuestion stores one question.
func (c *Client) CreateQuestion(ctx context.Context, req CreateQuestionRequest) (*Question, error) {
	var out Question
	if err := c.postJSON(ctx, "/questions/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TeacherDashboard returns aggregate counts for the teacher view.
func (c *Client) TeacherDashboard(ctx context.Context) (Stats, error) {
	var s Stats
	if err := c.getJSON(ctx, "/questions/teacher/dashboard", &s); err != nil {
		return nil, err
	}
	return s, nil
}
