package convert

// Selector is a per-column override. It is either a mapping from column
// position to a value or a bare scalar that targets column 0 and is only
// valid for 1-D arrays. The zero Selector selects nothing.
type Selector[T any] struct {
	byIndex map[int]T
	scalar  *T
}

// ByIndex returns a selector overriding the given column positions.
func ByIndex[T any](m map[int]T) Selector[T] {
	return Selector[T]{byIndex: m}
}

// Scalar returns a selector overriding column 0 of a 1-D array.
func Scalar[T any](v T) Selector[T] {
	return Selector[T]{scalar: &v}
}

// IsScalar reports whether the selector was built with Scalar.
func (s Selector[T]) IsScalar() bool {
	return s.scalar != nil
}

// IsZero reports whether the selector overrides nothing.
func (s Selector[T]) IsZero() bool {
	return s.scalar == nil && len(s.byIndex) == 0
}

// Get returns the override for column j.
func (s Selector[T]) Get(j int) (T, bool) {
	if s.scalar != nil {
		if j == 0 {
			return *s.scalar, true
		}
		var zero T
		return zero, false
	}
	v, ok := s.byIndex[j]
	return v, ok
}
