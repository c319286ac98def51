package http

import (
	"net/http"
	"strings"

	"github.com/robertorzech/budget/internal/core"
)

// monthParam reads the month query parameter, falling back to the
// given default when absent or malformed.
func monthParam(r *http.Request, fallback core.MonthKey) core.MonthKey {
	raw := strings.TrimSpace(r.URL.Query().Get("month"))
	if raw == "" {
		return fallback
	}
	key, err := core.ParseMonthKey(raw)
	if err != nil {
		return fallback
	}
	return key
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
