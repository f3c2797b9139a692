package paths

import (
	"sync"
	"time"
)

// EntitySegment is a path position at an entity descriptor. Besides being a
// path node it owns the canonicalizing registry of its property children:
// each distinct (segment, property) pair materializes exactly one
// PropertySegment, lazily on first access, so repeated lookups are
// structural-sharing hits rather than restatement recomputations.
type EntitySegment struct {
	core
	entity EntityDescriptor

	mu       sync.RWMutex
	children map[string]*PropertySegment
}

func newEntitySegment(root *RootSegment, parent Path, entity EntityDescriptor) *EntitySegment {
	s := &EntitySegment{
		entity:   entity,
		children: make(map[string]*PropertySegment),
	}
	s.core = newCore(s, root, parent, entity)
	return s
}

// Index returns the property segment for key, which must be a
// PropertyDescriptor or a property name resolvable on this entity.
func (s *EntitySegment) Index(key any) (Path, error) {
	switch k := key.(type) {
	case PropertyDescriptor:
		return s.child(k)
	case string:
		property, err := s.entity.Property(k)
		if err != nil {
			return nil, &InvalidIndexError{Segment: s.String(), Key: key, Err: err}
		}
		return s.child(property)
	default:
		return nil, &InvalidIndexError{Segment: s.String(), Key: key}
	}
}

// child is the get-or-insert-with hook of the child registry. Construction is
// pure and runs outside the lock; the built node is published atomically so a
// failed step never leaves a partial cache entry. A losing racer returns the
// already-published node.
func (s *EntitySegment) child(property PropertyDescriptor) (*PropertySegment, error) {
	name := property.Name()

	s.mu.RLock()
	cached := s.children[name]
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	start := time.Now()
	segment, outcome, err := newPropertySegment(s, property)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if existing := s.children[name]; existing != nil {
		s.mu.Unlock()
		return existing, nil
	}
	s.children[name] = segment
	s.mu.Unlock()

	s.root.cfg.traceLogger.LogMaterialize(MaterializeEvent{
		Parent:   s.String(),
		Property: name,
		Path:     segment.String(),
		Outcome:  outcome,
		Duration: time.Since(start),
	})
	return segment, nil
}

func (s *EntitySegment) HasEntity() bool { return true }

// Entity returns the descriptor this segment wraps.
func (s *EntitySegment) Entity() (EntityDescriptor, error) {
	return s.entity, nil
}
