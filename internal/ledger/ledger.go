// Package ledger owns the in-memory expense and category lists and every
// operation over them. Mutations write through the persistence gateway;
// queries are pure functions over the current snapshot.
package ledger

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/robertorzech/budget/internal/core"
)

// Ledger holds the expense list (newest first) and the category list for
// the lifetime of the process. It is the only writer of both; the store
// keeps the durable copies.
type Ledger struct {
	mu         sync.Mutex
	store      Store
	events     EventPublisher
	now        func() time.Time
	expenses   []core.Expense
	categories []core.Category
	lastID     int64
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithEvents attaches a mutation event publisher.
func WithEvents(pub EventPublisher) Option {
	return func(l *Ledger) { l.events = pub }
}

// New loads both durable records through the store and returns a ready
// ledger. The store's fail-soft contract means New always succeeds.
func New(ctx context.Context, store Store, opts ...Option) *Ledger {
	l := &Ledger{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.expenses = store.LoadExpenses(ctx)
	l.categories = store.LoadCategories(ctx)
	for _, e := range l.expenses {
		if e.ID > l.lastID {
			l.lastID = e.ID
		}
	}
	slog.InfoContext(ctx, "Ledger loaded",
		"expenses", len(l.expenses),
		"categories", len(l.categories))
	return l
}

// AddExpense validates and records a new expense: fresh id, creation
// timestamp, prepended so the canonical order stays newest-first. Returns
// core.ErrEmptyCategory or core.ErrInvalidAmount on rejects; a rejected
// add leaves the ledger untouched and triggers no persistence.
func (l *Ledger) AddExpense(ctx context.Context, category, description, amount string) (core.Expense, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return core.Expense{}, core.ErrEmptyCategory
	}
	money, err := core.ParseAmount(amount)
	if err != nil {
		return core.Expense{}, err
	}

	l.mu.Lock()
	e := core.Expense{
		ID:          l.nextID(),
		Category:    category,
		Description: strings.TrimSpace(description),
		Amount:      money,
		Date:        l.now(),
	}
	l.expenses = append([]core.Expense{e}, l.expenses...)
	snapshot := l.snapshotExpenses()
	l.mu.Unlock()

	l.persistExpenses(ctx, snapshot)
	if l.events != nil {
		if err := l.events.PublishExpenseCreated(ctx, e); err != nil {
			slog.WarnContext(ctx, "Expense event publish failed", "id", e.ID, "error", err)
		}
	}
	slog.InfoContext(ctx, "Expense added",
		"id", e.ID,
		"category", e.Category,
		"amount_cents", e.Amount.Cents)
	return e, nil
}

// DeleteExpense removes the record with the given id if present.
// Idempotent: deleting an absent id is a no-op and triggers neither
// persistence nor events.
func (l *Ledger) DeleteExpense(ctx context.Context, id int64) {
	l.mu.Lock()
	var removed core.Expense
	found := false
	for i, e := range l.expenses {
		if e.ID == id {
			removed = e
			l.expenses = append(l.expenses[:i], l.expenses[i+1:]...)
			found = true
			break
		}
	}
	var snapshot []core.Expense
	if found {
		snapshot = l.snapshotExpenses()
	}
	l.mu.Unlock()

	if !found {
		return
	}
	l.persistExpenses(ctx, snapshot)
	if l.events != nil {
		if err := l.events.PublishExpenseDeleted(ctx, removed); err != nil {
			slog.WarnContext(ctx, "Expense event publish failed", "id", id, "error", err)
		}
	}
	slog.InfoContext(ctx, "Expense deleted", "id", id)
}

// AddCategory appends a user category with the default glyph. Blank names
// are rejected with core.ErrEmptyName; duplicates are allowed (they merge
// in aggregation because expenses join by name).
func (l *Ledger) AddCategory(ctx context.Context, name string) (core.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Category{}, core.ErrEmptyName
	}
	c := core.Category{Name: name, Icon: core.NewCategoryIcon}

	l.mu.Lock()
	l.categories = append(l.categories, c)
	snapshot := append([]core.Category(nil), l.categories...)
	l.mu.Unlock()

	if err := l.store.SaveCategories(ctx, snapshot); err != nil {
		slog.ErrorContext(ctx, "Category save failed", "name", name, "error", err)
	}
	slog.InfoContext(ctx, "Category added", "name", name)
	return c, nil
}

// Categories returns the current category list in insertion order.
func (l *Ledger) Categories() []core.Category {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Category(nil), l.categories...)
}

// ExpensesForMonth returns the records whose date falls in the given
// month, preserving the canonical newest-first order.
func (l *Ledger) ExpensesForMonth(key core.MonthKey) []core.Expense {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.monthExpensesLocked(key)
}

// TotalForMonth sums the amounts for a month. Zero for an empty month.
func (l *Ledger) TotalForMonth(key core.MonthKey) core.Money {
	l.mu.Lock()
	defer l.mu.Unlock()
	var total core.Money
	for _, e := range l.monthExpensesLocked(key) {
		total = total.Add(e.Amount)
	}
	return total
}

// ByCategoryForMonth groups a month's records by category name, drops
// groups with a zero total, and sorts descending by total. Ties keep
// category-list order; names no longer in the list rank after listed
// categories, in first-seen order, with the fallback icon.
func (l *Ledger) ByCategoryForMonth(key core.MonthKey) []core.CategoryTotal {
	l.mu.Lock()
	defer l.mu.Unlock()

	items := l.monthExpensesLocked(key)

	groups := make(map[string]*core.CategoryTotal)
	var order []string
	for _, c := range l.categories {
		if _, ok := groups[c.Name]; ok {
			continue
		}
		groups[c.Name] = &core.CategoryTotal{Category: c}
		order = append(order, c.Name)
	}
	for _, e := range items {
		g, ok := groups[e.Category]
		if !ok {
			// Orphaned name: its category was never (or is no longer)
			// in the list. Still counted, rendered with a fallback.
			g = &core.CategoryTotal{Category: core.Category{Name: e.Category, Icon: core.FallbackIcon}}
			groups[e.Category] = g
			order = append(order, e.Category)
		}
		g.Items = append(g.Items, e)
		g.Total = g.Total.Add(e.Amount)
	}

	var out []core.CategoryTotal
	for _, name := range order {
		if g := groups[name]; !g.Total.IsZero() {
			out = append(out, *g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.Cents > out[j].Total.Cents
	})
	return out
}

// ExpensesForCategory returns every record matching the category name,
// across all months, most recent first.
func (l *Ledger) ExpensesForCategory(name string) []core.Expense {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []core.Expense
	for _, e := range l.expenses {
		if e.Category == name {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// MonthKeys returns the distinct month keys present in the ledger, most
// recent first. The caller's currently selected month is always included
// so an empty month stays navigable.
func (l *Ledger) MonthKeys(current core.MonthKey) []core.MonthKey {
	l.mu.Lock()
	defer l.mu.Unlock()

	seen := map[core.MonthKey]bool{}
	var keys []core.MonthKey
	for _, e := range l.expenses {
		k := core.MonthKeyOf(e.Date)
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	if current != "" && !seen[current] {
		keys = append(keys, current)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] > keys[j] })
	return keys
}

// nextID returns a fresh id: unix milliseconds, bumped when two adds land
// in the same millisecond so ids stay strictly increasing. Callers hold
// the mutex.
func (l *Ledger) nextID() int64 {
	id := l.now().UnixMilli()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id
	return id
}

func (l *Ledger) monthExpensesLocked(key core.MonthKey) []core.Expense {
	var out []core.Expense
	for _, e := range l.expenses {
		if core.MonthKeyOf(e.Date) == key {
			out = append(out, e)
		}
	}
	return out
}

func (l *Ledger) snapshotExpenses() []core.Expense {
	return append([]core.Expense(nil), l.expenses...)
}

// persistExpenses rewrites the durable expense record. Failures are
// logged, not surfaced: the in-memory state is already updated and the
// next successful save carries the full list anyway.
func (l *Ledger) persistExpenses(ctx context.Context, snapshot []core.Expense) {
	if err := l.store.SaveExpenses(ctx, snapshot); err != nil {
		slog.ErrorContext(ctx, "Expense save failed", "count", len(snapshot), "error", err)
	}
}
