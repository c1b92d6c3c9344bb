package score

import (
	"math"
	"strconv"
)

// formatNumber prints whole numbers with a trailing ".0" so 1000 reads as
// "1000.0" in details and summaries
func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e16 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// percent renders a 0-1 ratio as a percentage with one decimal, e.g. "82.3%"
func percent(ratio float64) string {
	return strconv.FormatFloat(ratio*100, 'f', 1, 64) + "%"
}

// round1 rounds to one decimal place
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
