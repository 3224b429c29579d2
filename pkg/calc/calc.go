// Package calc provides small numeric helpers for progress reporting.
package calc

// Fraction converts a downloaded/total byte pair into a fractional
// progress in [0,1]. An unknown or non-positive total yields 0.
func Fraction(downloaded, total int64) float64 {
	if total <= 0 {
		return 0
	}

	f := float64(downloaded) / float64(total)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}

	return f
}
