package score

import (
	"fmt"

	"github.com/ppiankov/claimtrackr/internal/model"
)

// DefaultCurrencySymbol prefixes amounts in anomaly details
const DefaultCurrencySymbol = "₹"

// CheckAmountAnomaly flags a claim that asks for more than the bill shows.
// Unparsable or absent amounts are not anomalies.
func CheckAmountAnomaly(claimed string, billed *float64) (bool, string) {
	return checkAmountAnomaly(claimed, billed, DefaultCurrencySymbol)
}

func checkAmountAnomaly(claimed string, billed *float64, currency string) (bool, string) {
	claimedAmt, ok := model.ParseAmount(claimed)
	if !ok || billed == nil {
		return false, ""
	}

	billedAmt := *billed
	if billedAmt <= 0 || claimedAmt <= billedAmt {
		return false, ""
	}

	variance := (claimedAmt - billedAmt) / billedAmt * 100
	detail := fmt.Sprintf("Claimed amount (%s%s) exceeds billed amount (%s%s) by %.1f%%",
		currency, formatNumber(claimedAmt), currency, formatNumber(billedAmt), variance)

	return true, detail
}
