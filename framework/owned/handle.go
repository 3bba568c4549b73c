// Package owned provides a single exclusively-owning handle for a resource that must be released
// exactly once.
package owned

// Handle exclusively owns a value until it is released or taken. It is meant to be used from a
// single goroutine, the one that runs the test scope owning it.
type Handle[V any] struct {
	value   V
	held    bool
	release func(V) error
}

// New returns a handle that owns value. The release function is called at most once, by Release.
// A nil release function means releasing only drops the reference.
func New[V any](value V, release func(V) error) *Handle[V] {
	return &Handle[V]{value: value, held: true, release: release}
}

// Held returns true if the handle still owns its value.
func (h *Handle[V]) Held() bool { return h != nil && h.held }

// Get returns the owned value without transferring ownership. The second result is false if the
// value has already been released or taken.
func (h *Handle[V]) Get() (V, bool) {
	if !h.Held() {
		var zero V
		return zero, false
	}
	return h.value, true
}

// Take transfers ownership of the value to the caller. The handle becomes empty and will not
// release it.
func (h *Handle[V]) Take() (V, bool) {
	v, ok := h.Get()
	if ok {
		h.clear()
	}
	return v, ok
}

// Release releases the value if the handle still owns it. Later calls do nothing and return nil.
func (h *Handle[V]) Release() error {
	v, ok := h.Take()
	if !ok || h.release == nil {
		return nil
	}
	return h.release(v)
}

func (h *Handle[V]) clear() {
	var zero V
	h.value = zero
	h.held = false
}
