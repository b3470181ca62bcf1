package authoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/eduz/internal/api"
)

// SnapshotKey is the transient storage key of the in-progress drafts.
const SnapshotKey = "add_questions_draft"

// PreviewItem is a draft with blank fields reduced to nil.
type PreviewItem struct {
	QuestionText  *string   `json:"question_text"`
	Options       []*string `json:"options"`
	CorrectOption *string   `json:"correct_option"`
	Level         *string   `json:"level"`
	SubjectID     *api.ID   `json:"subject_id"`
	TopicID       *api.ID   `json:"topic_id"`
	BranchID      *api.ID   `json:"branch_id"`
	System        *string   `json:"systems"`
	Difficulty    *int      `json:"difficulty"`
}

// DifficultyLabel is the display name of the item's difficulty, or
// "Not specified".
func (p PreviewItem) DifficultyLabel() string {
	if p.Difficulty == nil {
		return "Not specified"
	}
	if l := DifficultyLabel(*p.Difficulty); l != "" {
		return l
	}
	return "Not specified"
}

func trimmed(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func nonZero(id api.ID) *api.ID {
	if id == 0 {
		return nil
	}
	return &id
}

// PreviewItems converts drafts for display.
func PreviewItems(drafts []Draft) []PreviewItem {
	out := make([]PreviewItem, len(drafts))
	for i, d := range drafts {
		item := PreviewItem{
			QuestionText:  trimmed(d.QuestionText),
			CorrectOption: trimmed(d.CorrectOption),
			Level:         trimmed(d.Level),
			SubjectID:     nonZero(d.SubjectID),
			TopicID:       nonZero(d.TopicID),
			System:        trimmed(d.System),
		}
		if d.BranchID != nil {
			item.BranchID = nonZero(*d.BranchID)
		}
		if d.Difficulty != 0 {
			diff := d.Difficulty
			item.Difficulty = &diff
		}
		item.Options = make([]*string, len(d.Options))
		for j, o := range d.Options {
			item.Options[j] = trimmed(o)
		}
		out[i] = item
	}
	return out
}

// Preview stores the raw drafts as the snapshot and returns their preview.
func (s *Submitter) Preview(ctx context.Context, drafts []Draft) ([]PreviewItem, error) {
	if err := s.SaveSnapshot(ctx, drafts); err != nil {
		return nil, err
	}
	return PreviewItems(drafts), nil
}

// SaveSnapshot stores drafts under SnapshotKey.
func (s *Submitter) SaveSnapshot(ctx context.Context, drafts []Draft) error {
	b, err := json.Marshal(drafts)
	if err != nil {
		return fmt.Errorf("encode drafts: %w", err)
	}
	if err := s.drafts.Set(ctx, SnapshotKey, string(b)); err != nil {
		return fmt.Errorf("save draft snapshot: %w", err)
	}
	return nil
}

// ConfirmPreview discards the snapshot.
func (s *Submitter) ConfirmPreview(ctx context.Context) error {
	if err := s.drafts.Delete(ctx, SnapshotKey); err != nil {
		return fmt.Errorf("discard draft snapshot: %w", err)
	}
	return nil
}

// RestoreSnapshot returns the saved drafts. ok is false when there is no
// snapshot or it cannot be decoded; a corrupt snapshot is not an error.
func (s *Submitter) RestoreSnapshot(ctx context.Context) ([]Draft, bool, error) {
	raw, ok, err := s.drafts.Get(ctx, SnapshotKey)
	if err != nil {
		return nil, false, fmt.Errorf("load draft snapshot: %w", err)
	}
	if !ok || raw == "" {
		return nil, false, nil
	}
	var drafts []Draft
	if err := json.Unmarshal([]byte(raw), &drafts); err != nil {
		s.log.Warn("ignoring corrupt draft snapshot")
		return nil, false, nil
	}
	if len(drafts) == 0 {
		return nil, false, nil
	}
	return drafts, true, nil
}
