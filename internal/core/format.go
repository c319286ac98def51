package core

import "strconv"

// FormatPLN renders an amount the pl-PL way: space-grouped integer part,
// comma decimals, trailing currency symbol ("1 234,56 zł"). Display only;
// never parsed back.
func FormatPLN(m Money) string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := groupThousands(strconv.FormatInt(cents/100, 10)) + "," + pad2(cents%100) + " zł"
	if neg {
		return "-" + s
	}
	return s
}

// groupThousands inserts a non-breaking space every three digits.
func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var out []byte
	head := n % 3
	if head > 0 {
		out = append(out, digits[:head]...)
	}
	for i := head; i < n; i += 3 {
		if len(out) > 0 {
			out = append(out, " "...)
		}
		out = append(out, digits[i:i+3]...)
	}
	return string(out)
}
