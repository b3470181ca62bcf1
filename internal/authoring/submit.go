package authoring

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/eduz/internal/api"
	"github.com/abhisek/eduz/internal/store"
)

// Creator creates a single question.
type Creator interface {
	CreateQuestion(ctx context.Context, req api.CreateQuestionRequest) (*api.Question, error)
}

// BatchError is returned when a create call fails partway through a batch.
// Questions created before the failure stay persisted.
type BatchError struct {
	// Index of the draft whose create failed.
	Index   int
	Created []api.Question
	Err     error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("question %d: %v (%d created before failure)", e.Index+1, e.Err, len(e.Created))
}

func (e *BatchError) Unwrap() error { return e.Err }

// Submitter sends drafts to the backend and owns the draft snapshot.
type Submitter struct {
	creator Creator
	drafts  store.KV
	log     *zap.Logger
}

// NewSubmitter creates a Submitter. drafts is the transient storage holding
// the snapshot.
func NewSubmitter(creator Creator, drafts store.KV, log *zap.Logger) *Submitter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Submitter{creator: creator, drafts: drafts, log: log.Named("authoring")}
}

// SubmitBatch validates every draft, then creates them one at a time in
// order. A *ValidationError means nothing was sent. A *BatchError means
// drafts[:Index] were created and drafts[Index:] were not. On full success
// the draft snapshot is discarded.
func (s *Submitter) SubmitBatch(ctx context.Context, drafts []Draft) ([]api.Question, error) {
	if len(drafts) == 0 {
		return nil, nil
	}
	if err := Validate(drafts); err != nil {
		return nil, err
	}

	created := make([]api.Question, 0, len(drafts))
	for i, d := range drafts {
		q, err := s.creator.CreateQuestion(ctx, d.Request())
		if err != nil {
			s.log.Warn("batch create failed",
				zap.Int("index", i),
				zap.Int("created", len(created)),
				zap.Error(err),
			)
			return created, &BatchError{Index: i, Created: created, Err: err}
		}
		created = append(created, *q)
	}

	if err := s.drafts.Delete(ctx, SnapshotKey); err != nil {
		s.log.Warn("discard draft snapshot", zap.Error(err))
	}
	s.log.Info("batch submitted", zap.Int("count", len(created)))
	return created, nil
}
