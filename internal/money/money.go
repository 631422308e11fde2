// Package money centralizes numeric coercion and currency formatting.
// Every raw value that enters an arithmetic path goes through ToDecimal first,
// so no NaN, Inf, or garbage string can ever reach a persisted total.
package money

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Simbolo is the fixed currency symbol used across the deployment (lempira).
const Simbolo = "L"

// ToDecimal coerces an arbitrary value to a finite decimal.
// Empty, non-numeric, NaN, and Inf inputs all collapse to zero. Never panics.
func ToDecimal(v interface{}) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero
		}
		return *x
	case string:
		return parse(x)
	case json.Number:
		return parse(x.String())
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(x)
	case float32:
		return ToDecimal(float64(x))
	case int:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case uint:
		return decimal.NewFromInt(int64(x))
	default:
		return decimal.Zero
	}
}

func parse(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Format renders a decimal as a 2-decimal currency string with thousands
// separators, e.g. "L 1,234.50". Presentational only — never compared.
func Format(d decimal.Decimal) string {
	neg := d.IsNegative()
	fixed := d.Abs().StringFixed(2)

	entero, frac := fixed, "00"
	if i := strings.IndexByte(fixed, '.'); i >= 0 {
		entero, frac = fixed[:i], fixed[i+1:]
	}

	var b strings.Builder
	for i, c := range entero {
		if i > 0 && (len(entero)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}

	out := Simbolo + " " + b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}
