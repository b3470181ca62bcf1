package store

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func testKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := kv.Get(ctx, "token"); err != nil || ok {
		t.Fatalf("get missing: ok=%v err=%v", ok, err)
	}

	if err := kv.Set(ctx, "token", "abc"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set(ctx, "token", "def"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	v, ok, err := kv.Get(ctx, "token")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if v != "def" {
		t.Errorf("value = %q, want %q", v, "def")
	}

	if err := kv.Delete(ctx, "token"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "token"); ok {
		t.Error("expected key gone after delete")
	}
	if err := kv.Delete(ctx, "token"); err != nil {
		t.Errorf("delete missing key: %v", err)
	}
}

func TestSQLiteKV(t *testing.T) {
	testKV(t, openTestStore(t).KV())
}

func TestMemoryKV(t *testing.T) {
	testKV(t, NewMemoryKV())
}

func TestSQLiteKVSurvivesReopen(t *testing.T) {
	path := t.TempDir() + "/eduz.db"
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.KV().Set(ctx, "token", "persisted"); err != nil {
		t.Fatalf("set: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	v, ok, err := s.KV().Get(ctx, "token")
	if err != nil || !ok || v != "persisted" {
		t.Fatalf("get after reopen = %q, %v, %v", v, ok, err)
	}
}

func TestHistoryAppendAndRecent(t *testing.T) {
	s := openTestStore(t)
	repo := s.HistoryRepo()
	ctx := context.Background()

	recs, err := repo.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent (empty): %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no records, got %d", len(recs))
	}

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		err := repo.Append(ctx, QuizRecord{
			SessionID:      int64(i + 1),
			Category:       "subject",
			ItemID:         5,
			ItemName:       "Mathematics",
			Score:          float64(60 + i*10),
			TotalQuestions: 3,
			CorrectAnswers: i + 1,
			StartedAt:      base,
			EndedAt:        base.Add(time.Minute),
			RecordedAt:     base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	recs, err = repo.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len = %d, want 2", len(recs))
	}
	if recs[0].SessionID != 3 {
		t.Errorf("newest session = %d, want 3", recs[0].SessionID)
	}
	if recs[0].ID == "" {
		t.Error("expected generated id")
	}
	if recs[0].ItemName != "Mathematics" || recs[0].CorrectAnswers != 3 {
		t.Errorf("unexpected record: %+v", recs[0])
	}
}

func TestHistoryPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.HistoryRepo()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 7; i++ {
		err := repo.Append(ctx, QuizRecord{
			SessionID:  int64(i + 1),
			Category:   "topic",
			RecordedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	if err := repo.Prune(ctx, 5); err != nil {
		t.Fatalf("prune: %v", err)
	}

	recs, err := repo.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recs) != 5 {
		t.Errorf("remaining records = %d, want 5", len(recs))
	}
	if recs[0].SessionID != 7 {
		t.Errorf("latest session = %d, want 7", recs[0].SessionID)
	}

	// Fewer than keep: no-op.
	if err := repo.Prune(ctx, 10); err != nil {
		t.Fatalf("prune no-op: %v", err)
	}
}
