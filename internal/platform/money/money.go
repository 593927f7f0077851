package money

import (
	"math"
	"strconv"
	"strings"
)

// Format renders amount rounded to whole units with dot thousands
// separators, e.g. Format("Rp", 320000) == "Rp 320.000".
func Format(symbol string, amount float64) string {
	rounded := int64(math.Round(amount))
	neg := rounded < 0
	if neg {
		rounded = -rounded
	}
	digits := strconv.FormatInt(rounded, 10)
	var sb strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(r)
	}
	out := sb.String()
	if neg {
		out = "-" + out
	}
	if symbol == "" {
		return out
	}
	return symbol + " " + out
}

// Convert applies the fixed display-currency multiplier.
func Convert(price float64, quantity int, rate float64) float64 {
	return price * float64(quantity) * rate
}
