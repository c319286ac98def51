package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MonthKey identifies a calendar year and month as "YYYY-MM", derived in
// local time. It is the bucket key for all month-scoped views.
type MonthKey string

// Polish month names, index 0 = January. Month keys are 1-based.
var monthNames = [12]string{
	"Styczeń", "Luty", "Marzec", "Kwiecień", "Maj", "Czerwiec",
	"Lipiec", "Sierpień", "Wrzesień", "Październik", "Listopad", "Grudzień",
}

// MonthKeyOf derives the month key for a timestamp. Two timestamps in the
// same calendar month under local time yield the same key.
func MonthKeyOf(t time.Time) MonthKey {
	local := t.Local()
	return MonthKey(fmt.Sprintf("%04d-%02d", local.Year(), int(local.Month())))
}

// ParseMonthKey validates a "YYYY-MM" string.
func ParseMonthKey(s string) (MonthKey, error) {
	year, month, err := splitKey(s)
	if err != nil {
		return "", err
	}
	return MonthKey(fmt.Sprintf("%04d-%02d", year, month)), nil
}

// Label renders the key as a human-readable "Month Year" string, e.g.
// "Marzec 2024". A malformed key is returned verbatim so views stay
// renderable.
func (k MonthKey) Label() string {
	year, month, err := splitKey(string(k))
	if err != nil {
		return string(k)
	}
	return monthNames[month-1] + " " + strconv.Itoa(year)
}

func splitKey(s string) (year, month int, err error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed month key %q", s)
	}
	year, err = strconv.Atoi(parts[0])
	if err != nil || year < 1 {
		return 0, 0, fmt.Errorf("malformed month key %q", s)
	}
	month, err = strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("malformed month key %q", s)
	}
	return year, month, nil
}
