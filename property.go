package paths

// RestatementOutcome labels how a property segment's parent was resolved.
type RestatementOutcome string

const (
	// RestatedDeclaring means the apparent parent was rebased onto the entity
	// that declares the property.
	RestatedDeclaring RestatementOutcome = "declaring-entity"
	// RestatedSubtypeView means the apparent parent was substituted with the
	// polymorphic view specific to the declaring subtype.
	RestatedSubtypeView RestatementOutcome = "subtype-view"
	// RestatedLiteral means the apparent parent was kept unchanged.
	RestatedLiteral RestatementOutcome = "literal"
)

// PropertySegment is a path position at a property descriptor. Its parent is
// the restated entity segment, not necessarily the one it was indexed
// through.
type PropertySegment struct {
	core
	property PropertyDescriptor
	target   EntityDescriptor
}

// newPropertySegment restates the apparent parent and builds the segment.
//
// Restatement rules, in strict priority order:
//  1. A plain entity, or an aliased view deferring to mapper-path identity,
//     is discarded in favour of the entity that actually declares the
//     property, resolved under the same grandparent. Two views of one mapped
//     type reached via the same property then converge on one canonical
//     path.
//  2. A polymorphic aliased view whose presented subtypes include the
//     property's declaring subtype is substituted with its subtype-specific
//     view, preserving alias identity while attributing the property
//     correctly.
//  3. Anything else keeps the apparent parent literally.
func newPropertySegment(apparent *EntitySegment, property PropertyDescriptor) (*PropertySegment, RestatementOutcome, error) {
	parent, outcome, err := restateParent(apparent, property)
	if err != nil {
		return nil, outcome, err
	}
	s := &PropertySegment{
		property: property,
		target:   property.TargetEntity(),
	}
	s.core = newCore(s, parent.root, parent, property)
	return s, outcome, nil
}

func restateParent(apparent *EntitySegment, property PropertyDescriptor) (*EntitySegment, RestatementOutcome, error) {
	entity := apparent.entity
	declaring := property.DeclaringEntity()
	if declaring == nil {
		return apparent, RestatedLiteral, nil
	}

	if !entity.IsAliased() || entity.UseMapperPath() {
		rebased, err := entityUnder(apparent.Parent(), declaring)
		if err != nil {
			return nil, RestatedLiteral, err
		}
		return rebased, RestatedDeclaring, nil
	}

	if subtypes := entity.PresentedSubtypes(); len(subtypes) > 0 {
		if declaring != entity.Mapped() && containsDescriptor(subtypes, declaring) {
			if view, ok := entity.SubtypeView(declaring); ok && view != nil {
				rebased, err := entityUnder(apparent.Parent(), view)
				if err != nil {
					return nil, RestatedLiteral, err
				}
				return rebased, RestatedSubtypeView, nil
			}
		}
	}

	return apparent, RestatedLiteral, nil
}

func entityUnder(parent Path, entity EntityDescriptor) (*EntitySegment, error) {
	node, err := parent.Index(entity)
	if err != nil {
		return nil, err
	}
	segment, ok := node.(*EntitySegment)
	if !ok {
		return nil, &InvalidIndexError{Segment: parent.String(), Key: entity}
	}
	return segment, nil
}

func containsDescriptor(descriptors []EntityDescriptor, target EntityDescriptor) bool {
	for _, d := range descriptors {
		if d == target {
			return true
		}
	}
	return false
}

// Index descends by entity. Entity segments always build fresh here; only
// root-level segments are interned globally.
func (s *PropertySegment) Index(key any) (Path, error) {
	if entity, ok := key.(EntityDescriptor); ok {
		return newEntitySegment(s.root, s, entity), nil
	}
	return nil, &InvalidIndexError{Segment: s.String(), Key: key}
}

func (s *PropertySegment) HasEntity() bool { return s.target != nil }

// Entity returns the entity this relationship-like property leads to.
func (s *PropertySegment) Entity() (EntityDescriptor, error) {
	if s.target == nil {
		return nil, &NotApplicableError{Segment: s.String()}
	}
	return s.target, nil
}

// Property returns the descriptor this segment wraps.
func (s *PropertySegment) Property() PropertyDescriptor { return s.property }

// EntityPath returns the entity segment for the property's target entity,
// i.e. this path extended one step into the entity it leads to.
func (s *PropertySegment) EntityPath() (Path, error) {
	entity, err := s.Entity()
	if err != nil {
		return nil, err
	}
	return s.Index(entity)
}
