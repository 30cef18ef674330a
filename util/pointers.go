package util

// Ptr returns a pointer to the given value.
func Ptr[T any](v T) *T {
	return &v
}

// Deref returns the value pointed to by p, or the zero value if p is nil.
func Deref[T any](p *T) T {
	if p != nil {
		return *p
	}
	var zero T
	return zero
}

// MapPtr applies fn to the value behind p. A nil p yields nil without
// calling fn.
func MapPtr[T, U any](p *T, fn func(T) (U, error)) (*U, error) {
	if p == nil {
		return nil, nil
	}
	out, err := fn(*p)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
