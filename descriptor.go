package paths

// EntityDescriptor is an opaque handle for a mapped entity type, possibly an
// aliased or polymorphic view over another entity. Implementations must be
// comparable (pointer-backed) so descriptor identity can key caches.
type EntityDescriptor interface {
	// TypeID returns the concrete type identifier used by the portable
	// serialized form. Aliased views report their underlying mapped type.
	TypeID() string

	// Property resolves a named attribute or relationship declared on this
	// entity or inherited from its bases.
	Property(name string) (PropertyDescriptor, error)

	// IsAliased reports whether this descriptor is an aliased view rather
	// than the mapped entity itself.
	IsAliased() bool

	// UseMapperPath reports whether an aliased view defers to its underlying
	// mapped type for path identity.
	UseMapperPath() bool

	// PresentedSubtypes returns the subtypes a polymorphic view presents, or
	// nil when the view is not polymorphic.
	PresentedSubtypes() []EntityDescriptor

	// SubtypeView returns this view's descriptor specialised to sub, when sub
	// is one of the presented subtypes.
	SubtypeView(sub EntityDescriptor) (EntityDescriptor, bool)

	// Mapped returns the underlying mapped entity. Non-aliased descriptors
	// return themselves.
	Mapped() EntityDescriptor

	// Isa reports whether this entity is other or a subtype of other.
	Isa(other EntityDescriptor) bool
}

// PropertyDescriptor is an opaque handle for a named attribute or relationship
// on an entity descriptor.
type PropertyDescriptor interface {
	Name() string

	// DeclaringEntity returns the entity that actually declares the property,
	// which may be a base type of the entity it was resolved through.
	DeclaringEntity() EntityDescriptor

	// TargetEntity returns the entity a relationship leads to, or nil for a
	// scalar attribute.
	TargetEntity() EntityDescriptor
}

// TypeResolver resolves portable type identifiers back to live descriptors.
// It is consumed during deserialization and by the isa predicate function.
type TypeResolver interface {
	ResolveType(id string) (EntityDescriptor, error)
}

// Inspector adapts arbitrary entity-like objects to their canonical
// descriptor. Wiring one into a root lets Index accept raw objects in
// addition to descriptors.
type Inspector interface {
	Inspect(obj any) (EntityDescriptor, error)
}
