// Package core provides the budget domain model: expense and category
// records, money parsing, and month-key derivation. Everything here is
// pure; persistence and rendering live elsewhere.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// Money is an amount in integer grosze (cents). Calculations stay in
// cents; floats appear only at the display boundary.
type Money struct {
	Cents int64
}

// ParseAmount converts a user-supplied decimal string to Money with
// half-up rounding on the third decimal place.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Zero is a valid amount; signs are not (amounts are magnitudes).
//
// Examples:
//   ParseAmount("45,50")  -> 4550 cents
//   ParseAmount("12.345") -> 1234 cents (rounds down)
//   ParseAmount("12.346") -> 1235 cents (rounds up)
func ParseAmount(s string) (Money, error) {
	cents, err := parseCents(s, false)
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: cents}, nil
}

func parseCents(s string, allowNegative bool) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		if !allowNegative {
			return 0, ErrInvalidAmount
		}
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" && fracPart == "" {
		// bare separator
		return 0, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; half-up rounding on the third
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if neg {
		cents = -cents
	}
	return cents, nil
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.Cents == 0
}

// Zloty returns the major-unit value as a float64, for display only.
func (m Money) Zloty() float64 {
	return float64(m.Cents) / 100.0
}

// decimalString renders the amount as a plain decimal ("45.50").
func (m Money) decimalString() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "." + pad2(cents%100)
	if neg {
		return "-" + s
	}
	return s
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}

// MarshalJSON writes the amount as a JSON decimal number, matching the
// durable record layout.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.decimalString()), nil
}

// UnmarshalJSON accepts any finite JSON decimal, including negative and
// single-fraction-digit values. Stored records are trusted as-is.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	cents, err := parseCents(s, true)
	if err != nil {
		return err
	}
	m.Cents = cents
	return nil
}
