package receipts

import (
	"math"
	"strconv"
	"strings"
)

// DefaultCurrencySymbol is used when a business has no currency configured.
const DefaultCurrencySymbol = "₦"

// SanitizePrice turns user-entered price text into a number. Currency
// symbols, grouping separators and whitespace are stripped; anything that
// still fails to parse degrades to 0. The result is always finite and
// non-negative.
func SanitizePrice(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ComputeSubtotal sums sanitized line amounts. Items with a missing or
// negative quantity contribute nothing. Never mutates the slice.
func ComputeSubtotal(items []LineItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Amount()
	}
	return sum
}

// ComputeGrandTotal applies shipping and discount adjustments to a subtotal.
// Adjustments degrade to 0 when negative or not finite. The result may be
// negative when the discount exceeds subtotal plus shipping; that case is
// displayed as-is rather than clamped.
func ComputeGrandTotal(subtotal, shippingFee, discountAmount float64) float64 {
	return subtotal + sanitizeAdjustment(shippingFee) - sanitizeAdjustment(discountAmount)
}

func sanitizeAdjustment(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// DeriveCurrencySymbol extracts the display symbol from a configured
// currency field such as "₦ (NGN)". Only the leading whitespace-separated
// token is used; an empty field falls back to the default symbol.
func DeriveCurrencySymbol(currencyField string) string {
	fields := strings.Fields(currencyField)
	if len(fields) == 0 {
		return DefaultCurrencySymbol
	}
	return fields[0]
}
