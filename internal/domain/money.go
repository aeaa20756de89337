package domain

import "fmt"

// FormatMoney renders an amount with the guild's currency symbol,
// falling back to the default symbol when unset.
func FormatMoney(amount int64, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	return fmt.Sprintf("%d%s", amount, currency)
}
