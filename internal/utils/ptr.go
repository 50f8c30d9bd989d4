package utils

import "strings"

// Ptr returns a pointer to v, for building partial-update patches inline.
func Ptr[T any](v T) *T {
	return &v
}

// OrZero dereferences v, falling back to the zero value on nil.
func OrZero[T comparable](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}

// StringOrNil trims s and returns nil when nothing is left.
func StringOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
