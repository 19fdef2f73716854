package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatValue renders a metric or table cell value according to the format
// enum used across the component set (currency, percent, number, text, date).
// Unknown formats and non-numeric values fall through to plain printing.
func FormatValue(format string, v any) string {
	switch format {
	case "currency":
		if f, ok := toNumber(v); ok {
			return "$" + groupThousands(f, 2)
		}
	case "percent":
		if f, ok := toNumber(v); ok {
			return trimZeros(f) + "%"
		}
	case "number":
		if f, ok := toNumber(v); ok {
			return groupThousands(f, -1)
		}
	}
	return fmt.Sprintf("%v", v)
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}

// groupThousands formats f with comma-separated thousands. decimals < 0
// drops the fraction when f is whole, otherwise prints two places.
func groupThousands(f float64, decimals int) string {
	neg := f < 0
	if neg {
		f = -f
	}

	frac := f - math.Trunc(f)
	places := decimals
	if decimals < 0 {
		if frac == 0 {
			places = 0
		} else {
			places = 2
		}
	}
	if places == 2 && frac == 0 && decimals < 0 {
		places = 0
	}

	s := strconv.FormatFloat(f, 'f', places, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	if fracPart != "" {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}

func trimZeros(f float64) string {
	s := strconv.FormatFloat(f, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
