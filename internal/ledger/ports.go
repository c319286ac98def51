package ledger

import (
	"context"

	"github.com/robertorzech/budget/internal/core"
)

// Ports for outbound adapters.
type (
	// Store is the persistence gateway. Loads fail soft: missing or
	// corrupt durable records come back as safe defaults, never as an
	// error. Saves overwrite the whole record (last write wins).
	Store interface {
		LoadExpenses(ctx context.Context) []core.Expense
		SaveExpenses(ctx context.Context, expenses []core.Expense) error
		LoadCategories(ctx context.Context) []core.Category
		SaveCategories(ctx context.Context, categories []core.Category) error
	}

	// EventPublisher mirrors ledger mutations to an external feed.
	// Publishing is best effort; a failed publish never fails the
	// mutation that triggered it.
	EventPublisher interface {
		PublishExpenseCreated(ctx context.Context, e core.Expense) error
		PublishExpenseDeleted(ctx context.Context, e core.Expense) error
	}
)
