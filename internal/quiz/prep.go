package quiz

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/eduz/internal/api"
)

// PrepSource is the part of the API the prep page reads.
type PrepSource interface {
	ListSubjects(ctx context.Context) ([]api.Subject, error)
	SubjectsByLevel(ctx context.Context, level string) ([]api.Subject, error)
	TopicsByLevel(ctx context.Context, level string) ([]api.Topic, error)
	BranchesByLevel(ctx context.Context, level string) ([]api.Branch, error)
}

// Item is a selectable subject, topic or branch.
type Item struct {
	ID   api.ID
	Name string
}

// LevelData is the result of fetching one level's entities. Gen ties it to
// the SetLevel call that asked for it.
type LevelData struct {
	Gen      uint64
	Level    string
	Subjects []api.Subject
	Topics   []api.Topic
	Branches []api.Branch
	Err      error
}

// LoadLevels returns the distinct levels of all subjects, sorted.
func LoadLevels(ctx context.Context, src PrepSource) ([]string, error) {
	subjects, err := src.ListSubjects(ctx)
	if err != nil {
		return nil, err
	}
	var levels []string
	for _, s := range subjects {
		if s.Level != "" && !slices.Contains(levels, s.Level) {
			levels = append(levels, s.Level)
		}
	}
	slices.Sort(levels)
	return levels, nil
}

// FetchLevel loads the subjects, topics and branches of level concurrently.
// Any failure fails the whole fetch.
func FetchLevel(ctx context.Context, src PrepSource, level string, gen uint64) LevelData {
	out := LevelData{Gen: gen, Level: level}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { out.Subjects, err = src.SubjectsByLevel(gctx, level); return })
	g.Go(func() (err error) { out.Topics, err = src.TopicsByLevel(gctx, level); return })
	g.Go(func() (err error) { out.Branches, err = src.BranchesByLevel(gctx, level); return })
	if err := g.Wait(); err != nil {
		return LevelData{Gen: gen, Level: level, Err: err}
	}
	return out
}

// Prep is the scope picker state: level, then category, then item, then the
// number of questions. Each level change starts a new generation, and
// LevelData from older generations is dropped when applied.
type Prep struct {
	Levels       []string
	Level        string
	Category     string
	ItemID       api.ID
	NumQuestions int

	gen      uint64
	loading  bool
	subjects []api.Subject
	topics   []api.Topic
	branches []api.Branch
}

// NewPrep returns a picker with the default question count.
func NewPrep() *Prep {
	return &Prep{NumQuestions: DefaultNumQuestions}
}

// SetLevel selects a level, clears category, item and the fetched lists,
// and returns the generation the caller must pass to FetchLevel.
func (p *Prep) SetLevel(level string) uint64 {
	p.gen++
	p.Level = level
	p.Category = ""
	p.ItemID = 0
	p.subjects, p.topics, p.branches = nil, nil, nil
	p.loading = level != ""
	return p.gen
}

// Apply stores fetched data if it belongs to the current generation. It
// reports whether the data was used.
func (p *Prep) Apply(d LevelData) bool {
	if d.Gen != p.gen || d.Level != p.Level {
		return false
	}
	p.loading = false
	if d.Err != nil {
		return true
	}
	p.subjects, p.topics, p.branches = d.Subjects, d.Topics, d.Branches
	return true
}

// Loading reports whether the current level's fetch is outstanding.
func (p *Prep) Loading() bool { return p.loading }

// SetCategory selects a category and clears the item.
func (p *Prep) SetCategory(c string) {
	if c == p.Category {
		return
	}
	p.Category = c
	p.ItemID = 0
}

// Items lists the choices of the current category.
func (p *Prep) Items() []Item {
	var out []Item
	switch p.Category {
	case CategorySubject:
		for _, s := range p.subjects {
			out = append(out, Item{ID: s.ID, Name: s.Name})
		}
	case CategoryTopic:
		for _, t := range p.topics {
			out = append(out, Item{ID: t.ID, Name: t.Name})
		}
	case CategoryBranch:
		for _, b := range p.branches {
			out = append(out, Item{ID: b.ID, Name: b.Name})
		}
	}
	return out
}

// ItemName returns the display name of the selected item.
func (p *Prep) ItemName() string {
	for _, it := range p.Items() {
		if it.ID == p.ItemID {
			return it.Name
		}
	}
	return ""
}

// Scope builds the quiz scope, or ErrMissingScope.
func (p *Prep) Scope() (Scope, error) {
	s := Scope{Category: p.Category, ItemID: p.ItemID, NumQuestions: p.NumQuestions}
	if err := s.Validate(); err != nil {
		return Scope{}, err
	}
	return s, nil
}
