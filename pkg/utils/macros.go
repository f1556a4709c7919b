package utils

import "golang.org/x/exp/constraints"

// BoolToString formats b as a single digit flag.
func BoolToString(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Clamp limits value to [lo, hi].
func Clamp[T constraints.Integer | constraints.Float](lo, value, hi T) T {
	return max(lo, min(value, hi))
}
