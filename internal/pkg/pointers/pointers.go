package pointers

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

func Int(v int) *int { return &v }

// IntValue dereferences p, falling back to def when p is nil.
func IntValue(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
