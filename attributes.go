package paths

// Key is the composite key used to index caller-owned attribute maps: a
// caller namespace plus the canonical identity of a path's element sequence.
// Namespace values must be comparable.
type Key struct {
	Namespace any
	Path      string
}

// Attributes is a caller-owned attribute map keyed by composed path keys.
// The registry only computes keys; ownership and locking stay with the
// caller.
type Attributes map[Key]any

// NewAttributes returns an empty attribute map.
func NewAttributes() Attributes {
	return make(Attributes)
}

// Set stores value under (namespace, path).
func (c *core) Set(attrs Attributes, namespace, value any) {
	attrs[c.ComposeKey(namespace)] = value
}

// GetOr returns the value stored under (namespace, path), or fallback when
// absent.
func (c *core) GetOr(attrs Attributes, namespace, fallback any) any {
	if value, ok := attrs[c.ComposeKey(namespace)]; ok {
		return value
	}
	return fallback
}

// SetIfAbsent stores value under (namespace, path) unless a value is already
// present.
func (c *core) SetIfAbsent(attrs Attributes, namespace, value any) {
	key := c.ComposeKey(namespace)
	if _, ok := attrs[key]; !ok {
		attrs[key] = value
	}
}

// Contains reports whether (namespace, path) has a stored value.
func (c *core) Contains(attrs Attributes, namespace any) bool {
	_, ok := attrs[c.ComposeKey(namespace)]
	return ok
}
