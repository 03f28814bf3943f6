// Package memo provides a lazily computed value tagged with the freshness
// token it was computed for.
package memo

// Value holds at most one computed value and the key it is valid for.
// The zero Value is empty.
type Value[K comparable, V any] struct {
	key K
	val V
	ok  bool
}

// Get returns the stored value if it was computed for key.
func (m *Value[K, V]) Get(key K) (V, bool) {
	if !m.ok || m.key != key {
		var zero V
		return zero, false
	}
	return m.val, true
}

// Set stores val as fresh for key.
func (m *Value[K, V]) Set(key K, val V) {
	m.key, m.val, m.ok = key, val, true
}

// Reset drops the stored value.
func (m *Value[K, V]) Reset() {
	var zero Value[K, V]
	*m = zero
}

// Resolve returns the value for key, computing and storing it on a miss.
// A failed computation leaves the previous value untouched.
func (m *Value[K, V]) Resolve(key K, compute func() (V, error)) (V, error) {
	if v, ok := m.Get(key); ok {
		return v, nil
	}
	v, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}
	m.Set(key, v)
	return v, nil
}
