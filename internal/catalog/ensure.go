package catalog

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/eduz/internal/api"
)

// EnsureLevel returns the existing level matching name case-insensitively,
// or registers the trimmed name as a new local level. Levels have no
// backend identity of their own; they come into existence with their first
// subject.
func (c *Cache) EnsureLevel(name string) (string, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false, ErrEmptyName
	}
	for _, l := range c.Levels() {
		if sameName(l, name) {
			return l, false, nil
		}
	}
	c.mu.Lock()
	c.extraLevels = append(c.extraLevels, name)
	c.mu.Unlock()
	return name, true, nil
}

// EnsureSubject selects an existing subject of level with the same name, or
// creates one. created reports whether a create call was made. A failed
// create leaves the cache untouched.
func (c *Cache) EnsureSubject(ctx context.Context, level, name string) (api.Subject, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return api.Subject{}, false, ErrEmptyName
	}
	if level == "" {
		return api.Subject{}, false, fmt.Errorf("subject %q: level: %w", name, ErrParentRequired)
	}
	for _, s := range c.SubjectsForLevel(level) {
		if sameName(s.Name, name) {
			return s, false, nil
		}
	}

	created, err := c.src.CreateSubject(ctx, api.CreateSubjectRequest{Name: name, Level: level})
	if err != nil {
		return api.Subject{}, false, fmt.Errorf("create subject %q: %w", name, err)
	}
	s := *created
	if s.Level == "" {
		s.Level = level
	}
	if s.Name == "" {
		s.Name = name
	}

	c.mu.Lock()
	c.subjects = append(c.subjects, s)
	c.mu.Unlock()
	c.log.Info("subject created", zap.Int64("id", int64(s.ID)), zap.String("level", level))
	return s, true, nil
}

// EnsureTopic selects an existing topic of subjectID with the same name, or
// creates one. Topics under other subjects never match.
func (c *Cache) EnsureTopic(ctx context.Context, subjectID api.ID, level, name string) (api.Topic, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return api.Topic{}, false, ErrEmptyName
	}
	if subjectID == 0 {
		return api.Topic{}, false, fmt.Errorf("topic %q: subject: %w", name, ErrParentRequired)
	}
	for _, t := range c.TopicsForSubject(subjectID) {
		if sameName(t.Name, name) {
			return t, false, nil
		}
	}

	created, err := c.src.CreateTopic(ctx, api.CreateTopicRequest{Name: name, SubjectID: subjectID, Level: level})
	if err != nil {
		return api.Topic{}, false, fmt.Errorf("create topic %q: %w", name, err)
	}
	t := *created
	if t.SubjectID == 0 {
		t.SubjectID = subjectID
	}
	if t.Name == "" {
		t.Name = name
	}

	c.mu.Lock()
	c.topics = append(c.topics, t)
	c.mu.Unlock()
	c.log.Info("topic created", zap.Int64("id", int64(t.ID)), zap.Int64("subject", int64(subjectID)))
	return t, true, nil
}

// EnsureBranch selects an existing branch of subjectID with the same name,
// or creates one.
func (c *Cache) EnsureBranch(ctx context.Context, subjectID api.ID, name string) (api.Branch, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return api.Branch{}, false, ErrEmptyName
	}
	if subjectID == 0 {
		return api.Branch{}, false, fmt.Errorf("branch %q: subject: %w", name, ErrParentRequired)
	}
	for _, b := range c.BranchesForSubject(subjectID) {
		if sameName(b.Name, name) {
			return b, false, nil
		}
	}

	created, err := c.src.CreateBranch(ctx, api.CreateBranchRequest{Name: name, SubjectID: subjectID})
	if err != nil {
		return api.Branch{}, false, fmt.Errorf("create branch %q: %w", name, err)
	}
	b := *created
	if b.SubjectID == 0 {
		b.SubjectID = subjectID
	}
	if b.Name == "" {
		b.Name = name
	}

	c.mu.Lock()
	c.branches = append(c.branches, b)
	c.mu.Unlock()
	c.log.Info("branch created", zap.Int64("id", int64(b.ID)), zap.Int64("subject", int64(subjectID)))
	return b, true, nil
}

// EnsureSystem selects an existing system tag with the same name, or
// creates one. Systems are global.
func (c *Cache) EnsureSystem(ctx context.Context, name string) (api.System, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return api.System{}, false, ErrEmptyName
	}
	for _, s := range c.Systems() {
		if sameName(s.Name, name) {
			return s, false, nil
		}
	}

	created, err := c.src.CreateSystem(ctx, name)
	if err != nil {
		return api.System{}, false, fmt.Errorf("create system %q: %w", name, err)
	}

	c.mu.Lock()
	c.systems = append(c.systems, *created)
	c.mu.Unlock()
	return *created, true, nil
}
