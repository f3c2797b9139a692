package paths

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below match these through errors.Is.
var (
	ErrInvalidIndex  = errors.New("paths: invalid index")
	ErrNotApplicable = errors.New("paths: segment has no target entity")
	ErrUnresolvable  = errors.New("paths: unresolvable reference")
	ErrNotPortable   = errors.New("paths: path is not portable")
)

// InvalidIndexError reports a descent attempted on a segment variant that
// forbids it, or with a key type the segment does not recognise.
type InvalidIndexError struct {
	Segment string
	Key     any
	Err     error
}

func (e *InvalidIndexError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("paths: cannot index %s with %T: %v", e.Segment, e.Key, e.Err)
	}
	return fmt.Sprintf("paths: cannot index %s with %T (%v)", e.Segment, e.Key, e.Key)
}

func (e *InvalidIndexError) Is(target error) bool {
	return target == ErrInvalidIndex
}

func (e *InvalidIndexError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NotApplicableError reports an Entity call on a segment whose property does
// not lead to an entity.
type NotApplicableError struct {
	Segment string
}

func (e *NotApplicableError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("paths: segment %s has no target entity", e.Segment)
}

func (e *NotApplicableError) Is(target error) bool {
	return target == ErrNotApplicable
}

// UnresolvableReferenceError reports a portable form referencing a type or
// property that the current mapping metadata no longer defines.
type UnresolvableReferenceError struct {
	TypeID   string
	Property string
	Err      error
}

func (e *UnresolvableReferenceError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Property != "" {
		return fmt.Sprintf("paths: cannot resolve property %q on type %q: %v", e.Property, e.TypeID, e.Err)
	}
	return fmt.Sprintf("paths: cannot resolve type %q: %v", e.TypeID, e.Err)
}

func (e *UnresolvableReferenceError) Is(target error) bool {
	return target == ErrUnresolvable
}

func (e *UnresolvableReferenceError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
