package utils

import "math"

// Round4 rounds to 4 decimal places, half away from zero. All money amounts
// are stored in USD with this precision.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
