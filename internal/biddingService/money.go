package bidding

import (
	"github.com/shopspring/decimal"
)

// formatAmount renders a price for user-facing messages, e.g. ₹160 or ₹150.50
func formatAmount(v float64) string {
	d := decimal.NewFromFloat(v)
	if d.IsInteger() {
		return "₹" + d.String()
	}
	return "₹" + d.StringFixed(2)
}
