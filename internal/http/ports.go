package http

import (
	"context"

	"github.com/robertorzech/budget/internal/core"
)

// LedgerService is what the handlers need from the ledger.
type LedgerService interface {
	AddExpense(ctx context.Context, category, description, amount string) (core.Expense, error)
	DeleteExpense(ctx context.Context, id int64)
	AddCategory(ctx context.Context, name string) (core.Category, error)
	Categories() []core.Category
	ExpensesForMonth(key core.MonthKey) []core.Expense
	TotalForMonth(key core.MonthKey) core.Money
	ByCategoryForMonth(key core.MonthKey) []core.CategoryTotal
	ExpensesForCategory(name string) []core.Expense
	MonthKeys(current core.MonthKey) []core.MonthKey
}
