package core

import (
	"errors"
	"strings"
	"time"
)

// Icons used when a record has no better glyph.
const (
	NewCategoryIcon = "🏷️"
	FallbackIcon    = "📦"
)

type (
	// Expense is a single recorded spend. The JSON layout is the durable
	// record format: date as RFC 3339, amount as a decimal number.
	Expense struct {
		ID          int64     `json:"id"`
		Category    string    `json:"category"`
		Description string    `json:"description"`
		Amount      Money     `json:"amount"`
		Date        time.Time `json:"date"`
	}

	// Category joins expenses by name, not by reference. The icon is
	// cosmetic only.
	Category struct {
		Name string `json:"name"`
		Icon string `json:"icon"`
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyCategory = errors.New("empty category")
	ErrEmptyName     = errors.New("empty category name")
)

// DefaultCategories returns the seed set used on first run or when the
// durable category record is missing or unreadable.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Czynsz", Icon: "🏠"},
		{Name: "Kredyt", Icon: "🏦"},
		{Name: "TV/Tel", Icon: "📱"},
		{Name: "Subskrypcje", Icon: "🔄"},
		{Name: "Pinki", Icon: "🎀"},
		{Name: "Igor lekarz", Icon: "🩺"},
		{Name: "Igor Socatots", Icon: "⚽"},
		{Name: "Prąd", Icon: "⚡"},
		{Name: "Paliwo", Icon: "⛽"},
		{Name: "Żłobek", Icon: "🍼"},
		{Name: "Fryzjer", Icon: "✂️"},
		{Name: "Soczewki", Icon: "👁️"},
		{Name: "Auto", Icon: "🚗"},
		{Name: "Zakupy odzież", Icon: "👕"},
		{Name: "Zakupy spożywcze", Icon: "🛒"},
		{Name: "Apteka", Icon: "💊"},
		{Name: "Inne", Icon: "📦"},
	}
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return e.Amount.Validate()
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}
