// internal/utils/stats.go
package utils

import (
	"math"
)

// GrowthPercentage is (cur - prev) / prev * 100 rounded to two decimals.
// With no previous value it is 100 when cur is positive and 0 otherwise.
func GrowthPercentage(current, previous float64) float64 {
	if previous > 0 {
		return round2((current - previous) / previous * 100)
	}
	if current > 0 {
		return 100
	}
	return 0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
