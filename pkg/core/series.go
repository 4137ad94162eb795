package core

import "golang.org/x/exp/constraints"

// Series is a time series of ordered values
type Series[T constraints.Ordered] []T

// Bounds returns the smallest and largest value of the series.
// Both are the zero value when the series is empty.
func (s Series[T]) Bounds() (lo, hi T) {
	if len(s) == 0 {
		return lo, hi
	}

	lo, hi = s[0], s[0]
	for _, v := range s[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// StrictlyIncreasing reports whether every value is greater than the previous one
func (s Series[T]) StrictlyIncreasing() bool {
	for i := 1; i < len(s); i++ {
		if s[i] <= s[i-1] {
			return false
		}
	}
	return true
}
