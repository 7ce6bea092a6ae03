// Package utils provides utility functions for the application.
package utils

import "math"

func ToPtr[T any](v T) *T {
	return &v
}

func IsTrue(b *bool) bool {
	return b != nil && *b
}

// Round2 rounds to 2 decimal places (money).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds to 1 decimal place (percentages, lengths).
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
