package paymentgateway

import (
	"fmt"
	"math"
)

// FormatProviderAmount renders an amount at the granularity both providers
// require: a whole-unit currency string. The reconciliation layer rounds the
// recomputed expected amount the same way, otherwise legitimate payments would
// be rejected as mismatched.
func FormatProviderAmount(amount float64) string {
	return fmt.Sprintf("%.0f", math.Round(amount))
}

// RoundProviderAmount is the numeric twin of FormatProviderAmount.
func RoundProviderAmount(amount float64) float64 {
	return math.Round(amount)
}
