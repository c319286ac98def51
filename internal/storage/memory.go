package storage

import (
	"context"
	"sync"

	"github.com/robertorzech/budget/internal/core"
)

// MemoryStore implements ledger.Store without a database. It backs the
// "memory" data backend and tests; durability ends with the process.
type MemoryStore struct {
	mu         sync.Mutex
	expenses   []core.Expense
	categories []core.Category
	hasCats    bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) LoadExpenses(_ context.Context) []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense{}, s.expenses...)
}

func (s *MemoryStore) SaveExpenses(_ context.Context, expenses []core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append([]core.Expense(nil), expenses...)
	return nil
}

func (s *MemoryStore) LoadCategories(_ context.Context) []core.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasCats {
		return core.DefaultCategories()
	}
	return append([]core.Category(nil), s.categories...)
}

func (s *MemoryStore) SaveCategories(_ context.Context, categories []core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append([]core.Category(nil), categories...)
	s.hasCats = true
	return nil
}
