// Package core provides money parsing and handling utilities.
//
// Amounts are stored as float64 for compatibility with existing data, but
// every arithmetic step goes through decimal.Decimal so that sums and
// products don't accumulate binary rounding error.
package core

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxAmount caps any single amount, quantity or line total.
const MaxAmount = 1e12

// ParseAmount converts a user-entered number into a positive float.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Zero,
// negative, malformed or out of range inputs return ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,5")  -> 12.5, nil
//	ParseAmount("0")     -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	if strings.Count(s, ".") > 1 {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return 0, ErrInvalidAmount
	}
	v := d.InexactFloat64()
	if !InRange(v) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// InRange reports whether v is a finite positive value not above MaxAmount.
func InRange(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0 && v <= MaxAmount
}

// Multiply returns quantity × unit price.
func Multiply(quantity, unitPrice float64) float64 {
	return decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(unitPrice)).InexactFloat64()
}

// Sum adds value(item) over items.
func Sum[T any](items []T, value func(T) float64) float64 {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(decimal.NewFromFloat(value(it)))
	}
	return total.InexactFloat64()
}

// Percent returns part/whole × 100, or 0 when whole is not positive.
func Percent(part, whole float64) float64 {
	w := decimal.NewFromFloat(whole)
	if !w.IsPositive() {
		return 0
	}
	return decimal.NewFromFloat(part).Div(w).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

// FormatBRL renders v as Brazilian Real, e.g. "R$ 1.234,56".
func FormatBRL(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	fixed := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + "R$ " + b.String() + "," + frac
}

// FormatDateBR renders a YYYY-MM-DD string as DD/MM/YYYY. Unparseable input
// is returned unchanged.
func FormatDateBR(s string) string {
	t, err := ParseDate(s)
	if err != nil {
		return s
	}
	return t.Format("02/01/2006")
}
