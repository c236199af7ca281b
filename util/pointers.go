package util

// Ptr returns a pointer to v. Optional config fields are pointers so unset
// can be told apart from the zero value; Ptr keeps those literals short.
func Ptr[T any](v T) *T {
	return &v
}

// Deref returns the value p points to, or the zero value when p is nil.
func Deref[T any](p *T) T {
	if p != nil {
		return *p
	}
	var zero T
	return zero
}
