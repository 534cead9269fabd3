package utils

import (
	"math/rand/v2"
)

// RandomInt returns a random integer between min and max (inclusive)
func RandomInt(min, max int) int {
	if min > max {
		return min
	}
	return rand.IntN(max-min+1) + min //nolint:gosec // Game logic randomness, not security critical
}

// Clamp bounds value to [lo, hi]
func Clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
