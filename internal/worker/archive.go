// Package worker contains the event archive worker: it consumes the
// ledger event feed and appends every mutation to a local JSONL file, a
// durable audit trail independent of the live ledger state.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/robertorzech/budget/internal/events"
)

// ArchiveWorker appends ledger events, one JSON object per line.
type ArchiveWorker struct {
	mu   sync.Mutex
	file *os.File
	path string
}

func NewArchiveWorker(path string) (*ArchiveWorker, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open archive file: %w", err)
	}
	return &ArchiveWorker{file: f, path: path}, nil
}

// HandleEvent writes one event to the archive. An error here makes the
// consumer requeue the delivery, so nothing is lost on a full disk.
func (w *ArchiveWorker) HandleEvent(ctx context.Context, ev *events.ExpenseEvent) error {
	body, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.file.Write(append(body, '\n')); err != nil {
		return fmt.Errorf("append to archive: %w", err)
	}

	slog.InfoContext(ctx, "Event archived",
		"type", ev.Type,
		"expense_id", ev.Expense.ID,
		"path", w.path)
	return nil
}

func (w *ArchiveWorker) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}
