package paths

// TokenSegment is an opaque, non-entity terminal marker appended to a path,
// used for coarse-grained markers such as catch-all depth wildcards. Token
// values pass through untouched; the registry never canonicalizes them.
type TokenSegment struct {
	core
	token any
}

func newTokenSegment(parent Path, root *RootSegment, token any) *TokenSegment {
	s := &TokenSegment{token: token}
	s.core = newCore(s, root, parent, token)
	return s
}

// Index always fails: token segments forbid further descent.
func (s *TokenSegment) Index(key any) (Path, error) {
	return nil, &InvalidIndexError{Segment: s.String(), Key: key}
}

func (s *TokenSegment) HasEntity() bool { return false }

func (s *TokenSegment) Entity() (EntityDescriptor, error) {
	return nil, &NotApplicableError{Segment: s.String()}
}

// Value returns the wrapped token.
func (s *TokenSegment) Value() any { return s.token }
