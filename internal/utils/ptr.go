package utils

import "strings"

func Ptr[T any](v T) *T {
	return &v
}

// OrZero dereferences v, treating nil as the zero value. Used for optional
// columns such as avatar URLs and unplayed scores.
func OrZero[T comparable](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}

// BothSet reports whether a pair of nullable columns is filled in.
func BothSet[T any](a, b *T) bool {
	return a != nil && b != nil
}

// StringOrNil trims s and maps the empty result to NULL.
func StringOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
