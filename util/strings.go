package util

// StringInSlice reports whether list contains s.
func StringInSlice(s string, list []string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// Coalesce picks the first of values that is not the zero value.
// Callers layer a configured field over a built-in fallback with it.
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
