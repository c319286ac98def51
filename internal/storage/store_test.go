package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/robertorzech/budget/internal/core"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "budget.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestExpenseRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	in := []core.Expense{
		{
			ID:          1710500000000,
			Category:    "Paliwo",
			Description: "Tank",
			Amount:      core.Money{Cents: 15000},
			Date:        time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:       1710500000001,
			Category: "Apteka",
			Amount:   core.Money{Cents: 4550},
			Date:     time.Date(2024, 3, 16, 9, 30, 0, 0, time.UTC),
		},
	}
	if err := store.SaveExpenses(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := store.LoadExpenses(ctx)
	if len(got) != len(in) {
		t.Fatalf("expected %d records, got %d", len(in), len(got))
	}
	for i := range in {
		if got[i].ID != in[i].ID || got[i].Category != in[i].Category ||
			got[i].Description != in[i].Description || got[i].Amount != in[i].Amount ||
			!got[i].Date.Equal(in[i].Date) {
			t.Fatalf("record %d mismatch: %+v vs %+v", i, got[i], in[i])
		}
	}

	// Saving what was loaded and loading again is stable.
	if err := store.SaveExpenses(ctx, got); err != nil {
		t.Fatalf("re-save: %v", err)
	}
	again := store.LoadExpenses(ctx)
	if len(again) != len(in) || again[0].ID != in[0].ID {
		t.Fatalf("second round trip mismatch: %+v", again)
	}
}

func TestEmptyListRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.SaveExpenses(ctx, []core.Expense{}); err != nil {
		t.Fatalf("save empty: %v", err)
	}
	if got := store.LoadExpenses(ctx); len(got) != 0 {
		t.Fatalf("expected empty list, got %+v", got)
	}
	if err := store.SaveExpenses(ctx, nil); err != nil {
		t.Fatalf("save nil: %v", err)
	}
	if got := store.LoadExpenses(ctx); got == nil || len(got) != 0 {
		t.Fatalf("nil save must read back as empty list, got %+v", got)
	}
}

func TestMissingRecordsFallBack(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if got := store.LoadExpenses(ctx); len(got) != 0 {
		t.Fatalf("fresh store must load no expenses, got %+v", got)
	}
	cats := store.LoadCategories(ctx)
	if len(cats) != 17 {
		t.Fatalf("fresh store must load the 17 defaults, got %d", len(cats))
	}
	if cats[0].Name != "Czynsz" || cats[16].Name != "Inne" {
		t.Fatalf("unexpected default set: %+v", cats)
	}
}

func TestCorruptRecordsFallBack(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "budget.db")
	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	// Scribble over both records behind the store's back.
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	defer db.Close()
	for _, key := range []string{"budget_expenses_v1", "budget_categories_v1"} {
		if _, err := db.Exec(`INSERT INTO records (key, value) VALUES (?, ?)`, key, "{not json"); err != nil {
			t.Fatalf("inject corrupt %s: %v", key, err)
		}
	}

	if got := store.LoadExpenses(ctx); len(got) != 0 {
		t.Fatalf("corrupt expenses must load empty, got %+v", got)
	}
	if got := store.LoadCategories(ctx); len(got) != 17 {
		t.Fatalf("corrupt categories must load defaults, got %d", len(got))
	}
}

func TestLastWriteWins(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first := []core.Expense{{ID: 1, Category: "Auto", Amount: core.Money{Cents: 100}, Date: time.Now().UTC()}}
	second := []core.Expense{{ID: 2, Category: "Apteka", Amount: core.Money{Cents: 200}, Date: time.Now().UTC()}}
	if err := store.SaveExpenses(ctx, first); err != nil {
		t.Fatalf("save first: %v", err)
	}
	if err := store.SaveExpenses(ctx, second); err != nil {
		t.Fatalf("save second: %v", err)
	}
	got := store.LoadExpenses(ctx)
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("expected only the second write, got %+v", got)
	}
}

func TestCategoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	cats := append(core.DefaultCategories(), core.Category{Name: "Hobby", Icon: core.NewCategoryIcon})
	if err := store.SaveCategories(ctx, cats); err != nil {
		t.Fatalf("save: %v", err)
	}
	got := store.LoadCategories(ctx)
	if len(got) != 18 || got[17].Name != "Hobby" {
		t.Fatalf("expected 18 categories ending in Hobby, got %+v", got)
	}
}

func TestStateSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "budget.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	in := []core.Expense{{ID: 7, Category: "Czynsz", Amount: core.Money{Cents: 250000}, Date: time.Now().UTC()}}
	if err := store.SaveExpenses(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	store.Close()

	reopened, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()
	got := reopened.LoadExpenses(ctx)
	if len(got) != 1 || got[0].ID != 7 || got[0].Amount.Cents != 250000 {
		t.Fatalf("durable record lost across reopen: %+v", got)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if got := store.LoadExpenses(ctx); len(got) != 0 {
		t.Fatalf("fresh memory store must be empty")
	}
	if got := store.LoadCategories(ctx); len(got) != 17 {
		t.Fatalf("fresh memory store must serve defaults, got %d", len(got))
	}

	in := []core.Expense{{ID: 1, Category: "Auto", Amount: core.Money{Cents: 100}, Date: time.Now()}}
	if err := store.SaveExpenses(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	got := store.LoadExpenses(ctx)
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	// Saved empty category list is honored, not replaced by defaults.
	if err := store.SaveCategories(ctx, []core.Category{}); err != nil {
		t.Fatalf("save cats: %v", err)
	}
	if got := store.LoadCategories(ctx); len(got) != 0 {
		t.Fatalf("expected saved empty list, got %+v", got)
	}
}
