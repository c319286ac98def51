package events

import (
	"encoding/json"
	"time"

	"github.com/robertorzech/budget/internal/core"
)

// Event types carried on the ledger feed.
const (
	TypeExpenseCreated = "expense.created"
	TypeExpenseDeleted = "expense.deleted"
)

// ExpenseEvent is one ledger mutation on the feed. It carries the full
// record so consumers never need access to the store.
type ExpenseEvent struct {
	Type      string       `json:"type"`
	Timestamp time.Time    `json:"timestamp"`
	Expense   core.Expense `json:"expense"`
}

func NewExpenseCreated(e core.Expense) *ExpenseEvent {
	return &ExpenseEvent{Type: TypeExpenseCreated, Timestamp: time.Now(), Expense: e}
}

func NewExpenseDeleted(e core.Expense) *ExpenseEvent {
	return &ExpenseEvent{Type: TypeExpenseDeleted, Timestamp: time.Now(), Expense: e}
}

// ToJSON converts the event to JSON bytes.
func (ev *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(ev)
}

// ExpenseEventFromJSON creates an event from JSON bytes.
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var ev ExpenseEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
