// Package storage is the persistence gateway: two named durable records
// (the expense list and the category list) kept as JSON blobs in a local
// SQLite key-value table. Reads fail soft, writes rewrite the full record.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/robertorzech/budget/internal/core"

	_ "modernc.org/sqlite"
)

// Durable record keys. The v1 suffix is part of the record name, not a
// schema version scheme; cross-version migration is out of scope.
const (
	expensesKey   = "budget_expenses_v1"
	categoriesKey = "budget_categories_v1"
)

// SQLiteStore implements ledger.Store on a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LoadExpenses reads the durable expense record. A missing or unreadable
// record degrades to an empty list; the caller never sees an error.
func (s *SQLiteStore) LoadExpenses(ctx context.Context) []core.Expense {
	raw, ok := s.read(ctx, expensesKey)
	if !ok {
		return []core.Expense{}
	}
	var out []core.Expense
	if err := json.Unmarshal(raw, &out); err != nil {
		slog.WarnContext(ctx, "Corrupt expense record, starting empty",
			"key", expensesKey, "error", err)
		return []core.Expense{}
	}
	if out == nil {
		out = []core.Expense{}
	}
	return out
}

// SaveExpenses overwrites the durable expense record with the full list.
func (s *SQLiteStore) SaveExpenses(ctx context.Context, expenses []core.Expense) error {
	if expenses == nil {
		expenses = []core.Expense{}
	}
	raw, err := json.Marshal(expenses)
	if err != nil {
		return fmt.Errorf("marshal expenses: %w", err)
	}
	if err := s.write(ctx, expensesKey, raw); err != nil {
		return fmt.Errorf("save expenses: %w", err)
	}
	slog.DebugContext(ctx, "Expense record saved", "count", len(expenses))
	return nil
}

// LoadCategories reads the durable category record, falling back to the
// fixed default set when the record is missing or unreadable.
func (s *SQLiteStore) LoadCategories(ctx context.Context) []core.Category {
	raw, ok := s.read(ctx, categoriesKey)
	if !ok {
		return core.DefaultCategories()
	}
	var out []core.Category
	if err := json.Unmarshal(raw, &out); err != nil {
		slog.WarnContext(ctx, "Corrupt category record, using defaults",
			"key", categoriesKey, "error", err)
		return core.DefaultCategories()
	}
	if out == nil {
		return core.DefaultCategories()
	}
	return out
}

// SaveCategories overwrites the durable category record.
func (s *SQLiteStore) SaveCategories(ctx context.Context, categories []core.Category) error {
	raw, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("marshal categories: %w", err)
	}
	if err := s.write(ctx, categoriesKey, raw); err != nil {
		return fmt.Errorf("save categories: %w", err)
	}
	slog.DebugContext(ctx, "Category record saved", "count", len(categories))
	return nil
}

func (s *SQLiteStore) read(ctx context.Context, key string) ([]byte, bool) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM records WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		slog.WarnContext(ctx, "Record read failed", "key", key, "error", err)
		return nil, false
	}
	return []byte(value), true
}

func (s *SQLiteStore) write(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, string(value))
	return err
}
