package metadata

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	paths "github.com/goliatone/go-paths"
)

// Alias is an aliased view over a mapped entity type, optionally presenting a
// polymorphic set of subtypes. Every alias carries a distinct UUID so two
// views over one mapped type never collapse by accident; path identity is
// pointer identity, the UUID is for display and audit. It implements
// paths.EntityDescriptor.
type Alias struct {
	id            string
	name          string
	target        *EntityType
	useMapperPath bool
	subtypes      []*EntityType

	mu    sync.Mutex
	views map[*EntityType]*Alias
}

// AliasOption configures an alias at construction.
type AliasOption func(*Alias)

// WithMapperPath makes the alias defer to its underlying mapped type for
// path identity: paths built through it converge with paths built through
// the mapped type directly.
func WithMapperPath() AliasOption {
	return func(a *Alias) {
		a.useMapperPath = true
	}
}

// WithSubtypes makes the alias a polymorphic view presenting the given
// subtypes of its target.
func WithSubtypes(subtypes ...*EntityType) AliasOption {
	return func(a *Alias) {
		a.subtypes = append(a.subtypes, subtypes...)
	}
}

// WithAliasName sets a display name; the default combines the target type
// and a short UUID prefix.
func WithAliasName(name string) AliasOption {
	return func(a *Alias) {
		a.name = name
	}
}

// NewAlias constructs an aliased view over target.
func NewAlias(target *EntityType, opts ...AliasOption) (*Alias, error) {
	if target == nil {
		return nil, fmt.Errorf("metadata: alias requires a target type")
	}
	a := &Alias{
		id:     uuid.NewString(),
		target: target,
		views:  make(map[*EntityType]*Alias),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	if a.name == "" {
		a.name = fmt.Sprintf("%s@%s", target.name, a.id[:8])
	}
	return a, nil
}

// MustAlias is NewAlias panicking on error, for fixtures and examples.
func MustAlias(target *EntityType, opts ...AliasOption) *Alias {
	a, err := NewAlias(target, opts...)
	if err != nil {
		panic(err)
	}
	return a
}

// ID returns the alias instance UUID.
func (a *Alias) ID() string { return a.id }

// TypeID returns the underlying mapped type's identifier; alias identity is
// deliberately absent from the portable form.
func (a *Alias) TypeID() string { return a.target.name }

// Property resolves name on the target type, then on presented subtypes.
func (a *Alias) Property(name string) (paths.PropertyDescriptor, error) {
	if p, err := a.target.Property(name); err == nil {
		return p, nil
	}
	for _, sub := range a.subtypes {
		if p, err := sub.Property(name); err == nil {
			return p, nil
		}
	}
	return nil, fmt.Errorf("metadata: alias %s has no property %q", a.name, name)
}

// IsAliased implements paths.EntityDescriptor.
func (a *Alias) IsAliased() bool { return true }

// UseMapperPath implements paths.EntityDescriptor.
func (a *Alias) UseMapperPath() bool { return a.useMapperPath }

// PresentedSubtypes implements paths.EntityDescriptor.
func (a *Alias) PresentedSubtypes() []paths.EntityDescriptor {
	if len(a.subtypes) == 0 {
		return nil
	}
	out := make([]paths.EntityDescriptor, len(a.subtypes))
	for i, sub := range a.subtypes {
		out[i] = sub
	}
	return out
}

// SubtypeView returns this alias specialised to sub, creating and caching the
// view on first access so a given (alias, subtype) pair keeps one identity.
func (a *Alias) SubtypeView(sub paths.EntityDescriptor) (paths.EntityDescriptor, bool) {
	if sub == nil {
		return nil, false
	}
	target, ok := sub.Mapped().(*EntityType)
	if !ok || !a.presents(target) {
		return nil, false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if view := a.views[target]; view != nil {
		return view, true
	}
	view := &Alias{
		id:            uuid.NewString(),
		name:          fmt.Sprintf("%s->%s", a.name, target.name),
		target:        target,
		useMapperPath: a.useMapperPath,
		views:         make(map[*EntityType]*Alias),
	}
	a.views[target] = view
	return view, true
}

func (a *Alias) presents(target *EntityType) bool {
	for _, sub := range a.subtypes {
		if sub == target {
			return true
		}
	}
	return false
}

// Mapped returns the underlying mapped type.
func (a *Alias) Mapped() paths.EntityDescriptor { return a.target }

// Isa delegates to the underlying mapped type.
func (a *Alias) Isa(other paths.EntityDescriptor) bool {
	return a.target.Isa(other)
}

func (a *Alias) String() string { return a.name }
