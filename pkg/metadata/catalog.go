package metadata

import (
	"fmt"
	"sync"

	paths "github.com/goliatone/go-paths"
)

// Catalog is a registry of entity types keyed by type identifier. It
// implements paths.TypeResolver and paths.Inspector.
type Catalog struct {
	mu    sync.RWMutex
	types map[string]*EntityType
}

// New constructs an empty catalog.
func New() *Catalog {
	return &Catalog{types: make(map[string]*EntityType)}
}

type typeConfig struct {
	base *EntityType
}

// TypeOption configures an entity type at definition.
type TypeOption func(*typeConfig)

// WithBase declares base as the supertype; properties declared on base are
// inherited and keep base as their declaring entity.
func WithBase(base *EntityType) TypeOption {
	return func(cfg *typeConfig) {
		cfg.base = base
	}
}

// Define registers a new entity type under name.
func (c *Catalog) Define(name string, opts ...TypeOption) (*EntityType, error) {
	if name == "" {
		return nil, fmt.Errorf("metadata: type name must not be empty")
	}
	cfg := typeConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.types[name]; exists {
		return nil, fmt.Errorf("metadata: type %q already defined", name)
	}
	t := &EntityType{
		name:       name,
		base:       cfg.base,
		properties: make(map[string]*Property),
	}
	c.types[name] = t
	return t, nil
}

// MustDefine is Define panicking on error, for fixtures and examples.
func (c *Catalog) MustDefine(name string, opts ...TypeOption) *EntityType {
	t, err := c.Define(name, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// ResolveType implements paths.TypeResolver.
func (c *Catalog) ResolveType(id string) (paths.EntityDescriptor, error) {
	c.mu.RLock()
	t := c.types[id]
	c.mu.RUnlock()
	if t == nil {
		return nil, fmt.Errorf("metadata: unknown type %q", id)
	}
	return t, nil
}

// Inspect implements paths.Inspector, accepting descriptors as-is and
// resolving type identifiers.
func (c *Catalog) Inspect(obj any) (paths.EntityDescriptor, error) {
	switch v := obj.(type) {
	case paths.EntityDescriptor:
		return v, nil
	case string:
		return c.ResolveType(v)
	default:
		return nil, fmt.Errorf("metadata: cannot inspect %T", obj)
	}
}

// EntityType is a mapped entity type. It implements paths.EntityDescriptor.
type EntityType struct {
	name string
	base *EntityType

	mu         sync.RWMutex
	properties map[string]*Property
}

// DefineAttribute declares a scalar property on the type.
func (t *EntityType) DefineAttribute(name string) (*Property, error) {
	return t.define(name, nil)
}

// DefineRelationship declares a property leading to target.
func (t *EntityType) DefineRelationship(name string, target *EntityType) (*Property, error) {
	if target == nil {
		return nil, fmt.Errorf("metadata: relationship %q requires a target type", name)
	}
	return t.define(name, target)
}

// MustAttribute is DefineAttribute panicking on error.
func (t *EntityType) MustAttribute(name string) *Property {
	p, err := t.DefineAttribute(name)
	if err != nil {
		panic(err)
	}
	return p
}

// MustRelationship is DefineRelationship panicking on error.
func (t *EntityType) MustRelationship(name string, target *EntityType) *Property {
	p, err := t.DefineRelationship(name, target)
	if err != nil {
		panic(err)
	}
	return p
}

func (t *EntityType) define(name string, target *EntityType) (*Property, error) {
	if name == "" {
		return nil, fmt.Errorf("metadata: property name must not be empty")
	}
	if _, err := t.Property(name); err == nil {
		return nil, fmt.Errorf("metadata: type %q already has property %q", t.name, name)
	}
	p := &Property{name: name, owner: t, target: target}
	t.mu.Lock()
	t.properties[name] = p
	t.mu.Unlock()
	return p, nil
}

// TypeID implements paths.EntityDescriptor.
func (t *EntityType) TypeID() string { return t.name }

// Property resolves name on the type or its base chain.
func (t *EntityType) Property(name string) (paths.PropertyDescriptor, error) {
	for cur := t; cur != nil; cur = cur.base {
		cur.mu.RLock()
		p := cur.properties[name]
		cur.mu.RUnlock()
		if p != nil {
			return p, nil
		}
	}
	return nil, fmt.Errorf("metadata: type %q has no property %q", t.name, name)
}

// IsAliased implements paths.EntityDescriptor.
func (t *EntityType) IsAliased() bool { return false }

// UseMapperPath implements paths.EntityDescriptor.
func (t *EntityType) UseMapperPath() bool { return false }

// PresentedSubtypes implements paths.EntityDescriptor.
func (t *EntityType) PresentedSubtypes() []paths.EntityDescriptor { return nil }

// SubtypeView implements paths.EntityDescriptor.
func (t *EntityType) SubtypeView(paths.EntityDescriptor) (paths.EntityDescriptor, bool) {
	return nil, false
}

// Mapped implements paths.EntityDescriptor.
func (t *EntityType) Mapped() paths.EntityDescriptor { return t }

// Isa reports whether t is other's underlying type or a subtype of it.
func (t *EntityType) Isa(other paths.EntityDescriptor) bool {
	if other == nil {
		return false
	}
	target, ok := other.Mapped().(*EntityType)
	if !ok {
		return false
	}
	for cur := t; cur != nil; cur = cur.base {
		if cur == target {
			return true
		}
	}
	return false
}

// Base returns the declared supertype, or nil.
func (t *EntityType) Base() *EntityType { return t.base }

func (t *EntityType) String() string { return t.name }

// Property is a named attribute or relationship declared on one entity type.
// It implements paths.PropertyDescriptor.
type Property struct {
	name   string
	owner  *EntityType
	target *EntityType
}

// Name implements paths.PropertyDescriptor.
func (p *Property) Name() string { return p.name }

// DeclaringEntity returns the type the property was declared on, which may be
// a base of the type it was resolved through.
func (p *Property) DeclaringEntity() paths.EntityDescriptor { return p.owner }

// TargetEntity returns the relationship target, or nil for attributes.
func (p *Property) TargetEntity() paths.EntityDescriptor {
	if p.target == nil {
		return nil
	}
	return p.target
}

func (p *Property) String() string { return p.name }
