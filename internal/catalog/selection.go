package catalog

import "github.com/abhisek/eduz/internal/api"

// Field names one step of the cascade.
type Field int

const (
	FieldLevel Field = iota
	FieldSubject
	FieldTopic
	FieldBranch
	FieldSystem
	fieldCount
)

// Fields lists the cascade steps in display order.
var Fields = []Field{FieldLevel, FieldSubject, FieldTopic, FieldBranch, FieldSystem}

func (f Field) String() string {
	switch f {
	case FieldLevel:
		return "level"
	case FieldSubject:
		return "subject"
	case FieldTopic:
		return "topic"
	case FieldBranch:
		return "branch"
	case FieldSystem:
		return "system"
	default:
		return "unknown"
	}
}

// InlineInput is the "create new" text box of one field.
type InlineInput struct {
	Visible bool
	Pending string
}

// Selection is the cascading choice of one authoring block. The zero value
// is an empty selection. Zero ids mean "nothing selected".
type Selection struct {
	Level     string
	SubjectID api.ID
	TopicID   api.ID
	BranchID  api.ID
	System    string

	inline [fieldCount]InlineInput
}

// SetLevel selects a level. A different level clears subject, topic and
// branch.
func (s *Selection) SetLevel(level string) {
	if level == s.Level {
		return
	}
	s.Level = level
	s.SubjectID = 0
	s.TopicID = 0
	s.BranchID = 0
}

// SetSubject selects a subject. A different subject clears topic and branch.
func (s *Selection) SetSubject(id api.ID) {
	if id == s.SubjectID {
		return
	}
	s.SubjectID = id
	s.TopicID = 0
	s.BranchID = 0
}

// SetTopic selects a topic. Ignored until a subject is chosen.
func (s *Selection) SetTopic(id api.ID) {
	if !s.ChildrenEnabled() {
		return
	}
	s.TopicID = id
}

// SetBranch selects a branch. Ignored until a subject is chosen.
func (s *Selection) SetBranch(id api.ID) {
	if !s.ChildrenEnabled() {
		return
	}
	s.BranchID = id
}

// SetSystem selects a system tag; empty clears it.
func (s *Selection) SetSystem(name string) {
	s.System = name
}

// SubjectEnabled reports whether the subject step can be used.
func (s *Selection) SubjectEnabled() bool { return s.Level != "" }

// ChildrenEnabled reports whether topic and branch can be used.
func (s *Selection) ChildrenEnabled() bool { return s.SubjectID != 0 }

// Enabled reports whether field f can currently be edited.
func (s *Selection) Enabled(f Field) bool {
	switch f {
	case FieldSubject:
		return s.SubjectEnabled()
	case FieldTopic, FieldBranch:
		return s.ChildrenEnabled()
	default:
		return true
	}
}

// Inline returns the inline input state of f.
func (s *Selection) Inline(f Field) InlineInput {
	return s.inline[f]
}

// OpenInline shows the "create new" input of f with empty text.
func (s *Selection) OpenInline(f Field) {
	s.inline[f] = InlineInput{Visible: true}
}

// SetPending updates the text typed into f's inline input.
func (s *Selection) SetPending(f Field, v string) {
	s.inline[f].Pending = v
}

// CloseInline hides f's inline input and discards its text.
func (s *Selection) CloseInline(f Field) {
	s.inline[f] = InlineInput{}
}
