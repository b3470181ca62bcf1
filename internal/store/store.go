package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store is the durable local database: a key-value table standing in for
// browser local storage, and the local quiz history.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	if err := migrate(context.Background(), drv); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return &Store{db: db, drv: drv}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// KV returns the durable key-value store.
func (s *Store) KV() KV {
	return &sqliteKV{drv: s.drv, db: s.db}
}

// HistoryRepo returns the local quiz history backed by this store.
func (s *Store) HistoryRepo() HistoryRepo {
	return &historyRepo{drv: s.drv, db: s.db}
}

// builder returns an ent SQL builder for the SQLite dialect.
func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// Tables this client owns.
var (
	kvTable = &schema.Table{
		Name: "kv",
		Columns: []*schema.Column{
			{Name: "key", Type: field.TypeString},
			{Name: "value", Type: field.TypeString},
			{Name: "updated_at", Type: field.TypeTime},
		},
	}
	historyTable = &schema.Table{
		Name: "quiz_history",
		Columns: []*schema.Column{
			{Name: "id", Type: field.TypeString},
			{Name: "session_id", Type: field.TypeInt64},
			{Name: "category", Type: field.TypeString},
			{Name: "item_id", Type: field.TypeInt64},
			{Name: "item_name", Type: field.TypeString, Default: ""},
			{Name: "score", Type: field.TypeFloat64},
			{Name: "total_questions", Type: field.TypeInt},
			{Name: "correct_answers", Type: field.TypeInt},
			{Name: "started_at", Type: field.TypeTime, Nullable: true},
			{Name: "ended_at", Type: field.TypeTime, Nullable: true},
			{Name: "recorded_at", Type: field.TypeTime},
		},
	}
)

func init() {
	kvTable.PrimaryKey = []*schema.Column{kvTable.Columns[0]}
	historyTable.PrimaryKey = []*schema.Column{historyTable.Columns[0]}
	historyTable.Indexes = []*schema.Index{
		{Name: "quiz_history_recorded_at", Columns: []*schema.Column{historyTable.Columns[10]}},
	}
}

// migrate creates or upgrades the tables with ent's migration engine.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, kvTable, historyTable)
}
