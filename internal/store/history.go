package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// QuizRecord is a completed quiz as remembered locally.
type QuizRecord struct {
	ID             string
	SessionID      int64
	Category       string
	ItemID         int64
	ItemName       string
	Score          float64
	TotalQuestions int
	CorrectAnswers int
	StartedAt      time.Time
	EndedAt        time.Time
	RecordedAt     time.Time
}

// HistoryRepo records quiz results fetched from the backend so they can be
// reviewed offline.
type HistoryRepo interface {
	// Append stores a record. ID and RecordedAt are filled in when empty.
	Append(ctx context.Context, rec QuizRecord) error

	// Recent returns up to limit records, newest first (0 = unlimited).
	Recent(ctx context.Context, limit int) ([]QuizRecord, error)

	// Prune deletes all but the keep most recent records.
	Prune(ctx context.Context, keep int) error
}

type historyRepo struct {
	drv *entsql.Driver
	db  *sql.DB
}

var historyColumns = []string{
	"id", "session_id", "category", "item_id", "item_name", "score",
	"total_questions", "correct_answers", "started_at", "ended_at", "recorded_at",
}

func (r *historyRepo) Append(ctx context.Context, rec QuizRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now()
	}

	query, args := builder().
		Insert("quiz_history").
		Columns(historyColumns...).
		Values(
			rec.ID, rec.SessionID, rec.Category, rec.ItemID, rec.ItemName, rec.Score,
			rec.TotalQuestions, rec.CorrectAnswers, rec.StartedAt.UTC(), rec.EndedAt.UTC(), rec.RecordedAt.UTC(),
		).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("append quiz record: %w", err)
	}
	return nil
}

func (r *historyRepo) Recent(ctx context.Context, limit int) ([]QuizRecord, error) {
	sel := builder().
		Select(historyColumns...).
		From(entsql.Table("quiz_history")).
		OrderBy(entsql.Desc("recorded_at"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quiz history: %w", err)
	}
	defer rows.Close()

	var out []QuizRecord
	for rows.Next() {
		var rec QuizRecord
		var started, ended sql.NullTime
		if err := rows.Scan(
			&rec.ID, &rec.SessionID, &rec.Category, &rec.ItemID, &rec.ItemName, &rec.Score,
			&rec.TotalQuestions, &rec.CorrectAnswers, &started, &ended, &rec.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("scan quiz record: %w", err)
		}
		rec.StartedAt = started.Time
		rec.EndedAt = ended.Time
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *historyRepo) Prune(ctx context.Context, keep int) error {
	// Find the recorded_at of the oldest record to keep.
	query, args := builder().
		Select("recorded_at").
		From(entsql.Table("quiz_history")).
		OrderBy(entsql.Desc("recorded_at")).
		Offset(keep).
		Limit(1).
		Query()

	var threshold time.Time
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&threshold)
	if err == sql.ErrNoRows {
		return nil // fewer than keep records exist
	}
	if err != nil {
		return fmt.Errorf("query quiz history for prune: %w", err)
	}

	query, args = builder().
		Delete("quiz_history").
		Where(entsql.LTE("recorded_at", threshold)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("prune quiz history: %w", err)
	}
	return nil
}
