// Package catalog keeps client-side copies of the classification entities
// (levels, subjects, topics, branches, systems) and drives the dependent
// selection used when tagging questions.
package catalog

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/eduz/internal/api"
)

var (
	// ErrEmptyName is returned when a create is attempted with a blank name.
	ErrEmptyName = errors.New("name is required")
	// ErrParentRequired is returned when a child entity is created without
	// its parent selected.
	ErrParentRequired = errors.New("parent selection is required")
)

// Source is the subset of the API the cache reads from and creates through.
type Source interface {
	ListSubjects(ctx context.Context) ([]api.Subject, error)
	ListBranches(ctx context.Context) ([]api.Branch, error)
	ListTopics(ctx context.Context) ([]api.Topic, error)
	ListSystems(ctx context.Context) ([]api.System, error)
	CreateSubject(ctx context.Context, req api.CreateSubjectRequest) (*api.Subject, error)
	CreateBranch(ctx context.Context, req api.CreateBranchRequest) (*api.Branch, error)
	CreateTopic(ctx context.Context, req api.CreateTopicRequest) (*api.Topic, error)
	CreateSystem(ctx context.Context, name string) (*api.System, error)
}

// Cache holds the entity lists. It is safe for concurrent use; every
// accessor returns a copy.
type Cache struct {
	src Source
	log *zap.Logger

	mu       sync.RWMutex
	subjects []api.Subject
	branches []api.Branch
	topics   []api.Topic
	systems  []api.System
	// levels created locally that no subject carries yet.
	extraLevels []string
	loaded      bool
}

// NewCache creates an empty cache backed by src.
func NewCache(src Source, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{src: src, log: log.Named("catalog")}
}

// Load fetches all four lists concurrently. If any fetch fails the cache is
// left with empty lists and the first error is returned; the caller keeps
// going in a degraded mode where entities can still be created.
func (c *Cache) Load(ctx context.Context) error {
	var (
		subjects []api.Subject
		branches []api.Branch
		topics   []api.Topic
		systems  []api.System
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { subjects, err = c.src.ListSubjects(gctx); return })
	g.Go(func() (err error) { branches, err = c.src.ListBranches(gctx); return })
	g.Go(func() (err error) { topics, err = c.src.ListTopics(gctx); return })
	g.Go(func() (err error) { systems, err = c.src.ListSystems(gctx); return })
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.extraLevels = nil
	if err != nil {
		c.subjects, c.branches, c.topics, c.systems = nil, nil, nil, nil
		c.loaded = false
		c.log.Warn("entity load failed", zap.Error(err))
		return err
	}
	c.subjects, c.branches, c.topics, c.systems = subjects, branches, topics, systems
	c.loaded = true
	c.log.Debug("entities loaded",
		zap.Int("subjects", len(subjects)),
		zap.Int("branches", len(branches)),
		zap.Int("topics", len(topics)),
		zap.Int("systems", len(systems)),
	)
	return nil
}

// Loaded reports whether the last Load succeeded.
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Reset drops everything. Called on logout.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subjects, c.branches, c.topics, c.systems = nil, nil, nil, nil
	c.extraLevels = nil
	c.loaded = false
}

// Levels returns the distinct subject levels plus locally added ones, sorted.
func (c *Cache) Levels() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	add := func(l string) {
		if l == "" || seen[l] {
			return
		}
		seen[l] = true
		out = append(out, l)
	}
	for _, s := range c.subjects {
		add(s.Level)
	}
	for _, l := range c.extraLevels {
		add(l)
	}
	slices.Sort(out)
	return out
}

// SubjectsForLevel returns the subjects whose level equals level exactly.
func (c *Cache) SubjectsForLevel(level string) []api.Subject {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []api.Subject
	for _, s := range c.subjects {
		if s.Level == level {
			out = append(out, s)
		}
	}
	return out
}

// TopicsForSubject returns the topics of one subject.
func (c *Cache) TopicsForSubject(id api.ID) []api.Topic {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []api.Topic
	for _, t := range c.topics {
		if t.SubjectID == id {
			out = append(out, t)
		}
	}
	return out
}

// BranchesForSubject returns the branches of one subject.
func (c *Cache) BranchesForSubject(id api.ID) []api.Branch {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []api.Branch
	for _, b := range c.branches {
		if b.SubjectID == id {
			out = append(out, b)
		}
	}
	return out
}

// Systems returns every system tag.
func (c *Cache) Systems() []api.System {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.systems)
}

// Subject looks up a subject by id.
func (c *Cache) Subject(id api.ID) (api.Subject, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.subjects {
		if s.ID == id {
			return s, true
		}
	}
	return api.Subject{}, false
}

// Topic looks up a topic by id.
func (c *Cache) Topic(id api.ID) (api.Topic, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.topics {
		if t.ID == id {
			return t, true
		}
	}
	return api.Topic{}, false
}

// Branch looks up a branch by id.
func (c *Cache) Branch(id api.ID) (api.Branch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, b := range c.branches {
		if b.ID == id {
			return b, true
		}
	}
	return api.Branch{}, false
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
