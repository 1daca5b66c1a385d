package money

import "fmt"

// Amounts are stored as integer hundredths of the shop currency unit.

// Format renders cents as a plain decimal string ("5000" -> "50.00").
func Format(cents int) string {
	return fmt.Sprintf("%.2f", float64(cents)/100.0)
}

// RialAmount converts a stored amount to the gateway's minor currency
// unit. One toman is ten rials, so cents/10 rials.
func RialAmount(cents int) int {
	return cents / 10
}
