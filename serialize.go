package paths

import (
	"encoding/json"
	"fmt"
)

// PortablePair is one (type identifier, property name) step of a serialized
// path. An empty Property marks a trailing entity with no following property.
type PortablePair struct {
	TypeID   string `json:"type_id"`
	Property string `json:"property,omitempty"`
}

// PortableForm is the serialized representation of a path: an ordered pair
// sequence with no live object references, suitable for crossing process
// boundaries or persisting with option sets.
type PortableForm []PortablePair

// ToJSON serialises the portable form for transport or storage.
func (f PortableForm) ToJSON() ([]byte, error) {
	type alias PortableForm
	return json.Marshal(alias(f))
}

// PortableFormFromJSON deserialises a payload previously produced by ToJSON.
func PortableFormFromJSON(payload []byte) (PortableForm, error) {
	type alias PortableForm
	var form alias
	if err := json.Unmarshal(payload, &form); err != nil {
		return nil, err
	}
	return PortableForm(form), nil
}

// Serialize converts a live path into its portable form. Token-bearing paths
// are not portable and fail with ErrNotPortable.
func Serialize(p Path) (PortableForm, error) {
	if p == nil {
		return nil, fmt.Errorf("paths: cannot serialize nil path")
	}
	elements := p.Elements()
	form := make(PortableForm, 0, (len(elements)+1)/2)
	for i := 0; i < len(elements); i += 2 {
		entity, ok := elements[i].(EntityDescriptor)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is %T, not an entity", ErrNotPortable, i, elements[i])
		}
		pair := PortablePair{TypeID: entity.TypeID()}
		if i+1 < len(elements) {
			property, ok := elements[i+1].(PropertyDescriptor)
			if !ok {
				return nil, fmt.Errorf("%w: element %d is %T, not a property", ErrNotPortable, i+1, elements[i+1])
			}
			pair.Property = property.Name()
		}
		form = append(form, pair)
	}
	return form, nil
}

// Deserialize reconstructs a live path under this root by resolving each pair
// against resolver (falling back to the root's configured resolver) and
// replaying the descents. The round-trip law holds for any portable path
// whose types and properties are still resolvable.
func (r *RootSegment) Deserialize(resolver TypeResolver, form PortableForm) (Path, error) {
	if resolver == nil {
		resolver = r.cfg.resolver
	}
	if resolver == nil {
		return nil, fmt.Errorf("paths: type resolver is required for deserialization")
	}
	var current Path = r
	for _, pair := range form {
		entity, err := resolver.ResolveType(pair.TypeID)
		if err != nil || entity == nil {
			return nil, &UnresolvableReferenceError{TypeID: pair.TypeID, Err: err}
		}
		current, err = current.Index(entity)
		if err != nil {
			return nil, err
		}
		if pair.Property == "" {
			continue
		}
		property, err := entity.Property(pair.Property)
		if err != nil || property == nil {
			return nil, &UnresolvableReferenceError{TypeID: pair.TypeID, Property: pair.Property, Err: err}
		}
		current, err = current.Index(property)
		if err != nil {
			return nil, err
		}
	}
	return current, nil
}

// Deserialize reconstructs a live path under the process-wide Root.
func Deserialize(resolver TypeResolver, form PortableForm) (Path, error) {
	return Root.Deserialize(resolver, form)
}
