package catalog

import (
	"context"
	"fmt"

	"github.com/abhisek/eduz/internal/api"
)

// Resolved is the entity an inline "create new" input settled on, either an
// existing match or a freshly created entity.
type Resolved struct {
	Field   Field
	Level   string
	ID      api.ID
	Name    string
	Created bool

	// Parent scope the entity was resolved under: the level for a subject,
	// level and subject for a topic or branch.
	ParentLevel   string
	ParentSubject api.ID
}

// Resolve runs the dedup-on-create path for field f of sel with the given
// name. sel is read, never modified; apply the result with
// Selection.Apply. Safe to call from a background command.
func (c *Cache) Resolve(ctx context.Context, sel Selection, f Field, name string) (Resolved, error) {
	r, err := c.resolve(ctx, sel, f, name)
	if err != nil {
		return Resolved{}, err
	}
	switch f {
	case FieldSubject:
		r.ParentLevel = sel.Level
	case FieldTopic, FieldBranch:
		r.ParentLevel, r.ParentSubject = sel.Level, sel.SubjectID
	}
	return r, nil
}

func (c *Cache) resolve(ctx context.Context, sel Selection, f Field, name string) (Resolved, error) {
	switch f {
	case FieldLevel:
		l, created, err := c.EnsureLevel(name)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Field: f, Level: l, Name: l, Created: created}, nil
	case FieldSubject:
		s, created, err := c.EnsureSubject(ctx, sel.Level, name)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Field: f, Level: s.Level, ID: s.ID, Name: s.Name, Created: created}, nil
	case FieldTopic:
		t, created, err := c.EnsureTopic(ctx, sel.SubjectID, sel.Level, name)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Field: f, ID: t.ID, Name: t.Name, Created: created}, nil
	case FieldBranch:
		b, created, err := c.EnsureBranch(ctx, sel.SubjectID, name)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Field: f, ID: b.ID, Name: b.Name, Created: created}, nil
	case FieldSystem:
		s, created, err := c.EnsureSystem(ctx, name)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Field: f, Name: s.Name, Created: created}, nil
	default:
		return Resolved{}, fmt.Errorf("resolve: unknown field %d", f)
	}
}

// Apply selects r in the matching field and closes its inline input. The
// usual cascade clearing applies. When the parent r was resolved under is no
// longer selected, nothing is selected and Apply reports false.
func (s *Selection) Apply(r Resolved) bool {
	defer s.CloseInline(r.Field)
	if s.stale(r) {
		return false
	}
	switch r.Field {
	case FieldLevel:
		s.SetLevel(r.Level)
	case FieldSubject:
		s.SetSubject(r.ID)
	case FieldTopic:
		s.SetTopic(r.ID)
	case FieldBranch:
		s.SetBranch(r.ID)
	case FieldSystem:
		s.SetSystem(r.Name)
	}
	return true
}

func (s *Selection) stale(r Resolved) bool {
	switch r.Field {
	case FieldSubject:
		return s.Level != r.ParentLevel
	case FieldTopic, FieldBranch:
		return s.Level != r.ParentLevel || s.SubjectID != r.ParentSubject
	}
	return false
}
