package authoring

import (
	"slices"

	"github.com/google/uuid"

	"github.com/abhisek/eduz/internal/catalog"
)

// Block is one question being authored. Its cascading selection and inline
// "create new" inputs belong to it alone.
type Block struct {
	Key          string
	QuestionText string
	Options      []string
	// Correct is the index of the correct option, -1 when unset.
	Correct    int
	Difficulty int
	Sel        catalog.Selection
}

func newBlock() *Block {
	d := NewDraft()
	return &Block{
		Key:        uuid.NewString(),
		Options:    d.Options,
		Correct:    -1,
		Difficulty: d.Difficulty,
	}
}

// Draft captures the block as a Draft.
func (b *Block) Draft() Draft {
	d := Draft{
		QuestionText: b.QuestionText,
		Options:      slices.Clone(b.Options),
		Level:        b.Sel.Level,
		SubjectID:    b.Sel.SubjectID,
		TopicID:      b.Sel.TopicID,
		System:       b.Sel.System,
		Difficulty:   b.Difficulty,
	}
	if b.Correct >= 0 && b.Correct < len(b.Options) {
		d.CorrectOption = b.Options[b.Correct]
	}
	if b.Sel.BranchID != 0 {
		id := b.Sel.BranchID
		d.BranchID = &id
	}
	return d
}

func blockFromDraft(d Draft) *Block {
	b := newBlock()
	b.QuestionText = d.QuestionText
	if len(d.Options) > 0 {
		b.Options = slices.Clone(d.Options)
	}
	for len(b.Options) < MinOptions {
		b.Options = append(b.Options, "")
	}
	if len(b.Options) > MaxOptions {
		b.Options = b.Options[:MaxOptions]
	}
	if d.CorrectOption != "" {
		b.Correct = slices.Index(b.Options, d.CorrectOption)
	}
	if d.Difficulty != 0 {
		b.Difficulty = d.Difficulty
	}
	b.Sel = catalog.Selection{
		Level:     d.Level,
		SubjectID: d.SubjectID,
		TopicID:   d.TopicID,
		System:    d.System,
	}
	if d.BranchID != nil {
		b.Sel.BranchID = *d.BranchID
	}
	return b
}

// Form is the ordered list of blocks on the authoring page. It always holds
// at least one block.
type Form struct {
	Blocks []*Block
}

// NewForm returns a form with a single empty block.
func NewForm() *Form {
	return &Form{Blocks: []*Block{newBlock()}}
}

// FormFromDrafts rebuilds a form from saved drafts. An empty list yields a
// fresh form.
func FormFromDrafts(drafts []Draft) *Form {
	if len(drafts) == 0 {
		return NewForm()
	}
	f := &Form{}
	for _, d := range drafts {
		f.Blocks = append(f.Blocks, blockFromDraft(d))
	}
	return f
}

// AddBlock appends an empty block and returns it.
func (f *Form) AddBlock() *Block {
	b := newBlock()
	f.Blocks = append(f.Blocks, b)
	return b
}

// RemoveBlock deletes the block with key. The last remaining block cannot be
// removed.
func (f *Form) RemoveBlock(key string) bool {
	if len(f.Blocks) <= 1 {
		return false
	}
	i := f.index(key)
	if i < 0 {
		return false
	}
	f.Blocks = slices.Delete(f.Blocks, i, i+1)
	return true
}

// Block returns the block with key, or nil.
func (f *Form) Block(key string) *Block {
	if i := f.index(key); i >= 0 {
		return f.Blocks[i]
	}
	return nil
}

func (f *Form) index(key string) int {
	return slices.IndexFunc(f.Blocks, func(b *Block) bool { return b.Key == key })
}

// AddOption appends an empty option slot to the block, up to MaxOptions.
func (f *Form) AddOption(key string) bool {
	b := f.Block(key)
	if b == nil || len(b.Options) >= MaxOptions {
		return false
	}
	b.Options = append(b.Options, "")
	return true
}

// RemoveOption deletes option idx of the block, keeping at least
// MinOptions. The correct marker follows its option.
func (f *Form) RemoveOption(key string, idx int) bool {
	b := f.Block(key)
	if b == nil || len(b.Options) <= MinOptions || idx < 0 || idx >= len(b.Options) {
		return false
	}
	b.Options = slices.Delete(b.Options, idx, idx+1)
	switch {
	case b.Correct == idx:
		b.Correct = -1
	case b.Correct > idx:
		b.Correct--
	}
	return true
}

// Drafts captures every block, in order.
func (f *Form) Drafts() []Draft {
	out := make([]Draft, len(f.Blocks))
	for i, b := range f.Blocks {
		out[i] = b.Draft()
	}
	return out
}

// KeepFrom drops the blocks before index i. Used after a partial batch
// failure so only the unsent drafts stay in the form.
func (f *Form) KeepFrom(i int) {
	if i <= 0 || i >= len(f.Blocks) {
		return
	}
	f.Blocks = slices.Clone(f.Blocks[i:])
}

