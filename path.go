package paths

import (
	"fmt"
	"iter"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
)

// Element is one position in a path's underlying sequence: an
// EntityDescriptor, a PropertyDescriptor, or an opaque token value.
type Element any

// Path represents a traversal through a graph of typed entities and their
// named properties, e.g. (User, orders, Order, items, Item). Paths are
// immutable; every descent returns a new node while common prefixes share
// structure. Structurally equal paths compose equal attribute-map keys even
// when the node objects differ, which is what makes deserialized paths cache
// hits rather than misses.
type Path interface {
	// Index descends into the path. Entity segments accept a
	// PropertyDescriptor or a property name; property segments and the root
	// accept an EntityDescriptor. Any other combination fails with
	// InvalidIndexError.
	Index(key any) (Path, error)

	// Token appends an opaque, non-entity marker. Token segments forbid any
	// further Index descent. Token values are never canonicalized.
	Token(token any) Path

	// Extend replays other's element sequence against this node and returns
	// the resulting node, grafting a canonicalized path onto a new frame of
	// reference.
	Extend(other Path) (Path, error)

	// Parent returns the node this segment descended from, or nil for the
	// root.
	Parent() Path

	// Len returns the number of elements in the sequence, not hops.
	Len() int

	// Elements returns a copy of the raw element sequence.
	Elements() []Element

	// Element returns the raw element at position i.
	Element(i int) (Element, error)

	// Slice returns a copy of the raw elements in [from, to).
	Slice(from, to int) ([]Element, error)

	// HasEntity reports whether this segment identifies a target entity.
	HasEntity() bool

	// Entity returns the entity descriptor this segment identifies, failing
	// with NotApplicableError when HasEntity is false.
	Entity() (EntityDescriptor, error)

	// Pairs walks the sequence two elements at a time yielding
	// (entity, property) tuples. A trailing unpaired element is omitted; a
	// trailing token pairs with a nil property.
	Pairs() iter.Seq2[EntityDescriptor, PropertyDescriptor]

	// ContainsEntity reports whether any entity element satisfies pred.
	ContainsEntity(pred EntityPredicate) bool

	// ContainsEntityWhere evaluates a compiled predicate expression against
	// every entity element using the root's configured predicate evaluator.
	ContainsEntityWhere(expression string) (bool, error)

	// ComposeKey returns the composite key used to index caller-owned
	// attribute maps.
	ComposeKey(namespace any) Key

	// CacheKey returns the canonical identity string for the element
	// sequence. Structurally equal paths share a cache key.
	CacheKey() string

	// Equal reports structural equality: same length, element-wise equal by
	// descriptor identity.
	Equal(other Path) bool

	// Attribute-map helpers, all keyed by ComposeKey(namespace).
	Set(attrs Attributes, namespace, value any)
	GetOr(attrs Attributes, namespace, fallback any) any
	SetIfAbsent(attrs Attributes, namespace, value any)
	Contains(attrs Attributes, namespace any) bool

	String() string
}

// core carries the element sequence and the shared algebra. Each variant
// embeds it and contributes only its descent rules.
type core struct {
	self     Path
	parent   Path
	root     *RootSegment
	elements []Element
	key      string
}

func newCore(self Path, root *RootSegment, parent Path, element Element) core {
	elems := append(parent.Elements(), element)
	key := elementKey(element)
	if pk := parent.CacheKey(); pk != "" {
		key = pk + "/" + key
	}
	return core{
		self:     self,
		parent:   parent,
		root:     root,
		elements: elems,
		key:      key,
	}
}

func (c *core) Parent() Path { return c.parent }

func (c *core) Len() int { return len(c.elements) }

func (c *core) Elements() []Element { return slices.Clone(c.elements) }

func (c *core) Element(i int) (Element, error) {
	if i < 0 || i >= len(c.elements) {
		return nil, &InvalidIndexError{Segment: c.self.String(), Key: i}
	}
	return c.elements[i], nil
}

func (c *core) Slice(from, to int) ([]Element, error) {
	if from < 0 || to > len(c.elements) || from > to {
		return nil, &InvalidIndexError{Segment: c.self.String(), Key: fmt.Sprintf("[%d:%d]", from, to)}
	}
	return slices.Clone(c.elements[from:to]), nil
}

func (c *core) Token(token any) Path {
	return newTokenSegment(c.self, c.root, token)
}

func (c *core) Extend(other Path) (Path, error) {
	if other == nil {
		return c.self, nil
	}
	return replay(c.self, other.Elements())
}

// replay applies each element of a raw sequence as an Index or Token step
// starting at base.
func replay(base Path, elements []Element) (Path, error) {
	current := base
	for _, element := range elements {
		switch element.(type) {
		case EntityDescriptor, PropertyDescriptor:
			next, err := current.Index(element)
			if err != nil {
				return nil, err
			}
			current = next
		default:
			current = current.Token(element)
		}
	}
	return current, nil
}

func (c *core) Pairs() iter.Seq2[EntityDescriptor, PropertyDescriptor] {
	return func(yield func(EntityDescriptor, PropertyDescriptor) bool) {
		for i := 0; i+1 < len(c.elements); i += 2 {
			entity, _ := c.elements[i].(EntityDescriptor)
			property, _ := c.elements[i+1].(PropertyDescriptor)
			if !yield(entity, property) {
				return
			}
		}
	}
}

func (c *core) ContainsEntity(pred EntityPredicate) bool {
	if pred == nil {
		return false
	}
	for i := 0; i < len(c.elements); i += 2 {
		if entity, ok := c.elements[i].(EntityDescriptor); ok && pred(entity) {
			return true
		}
	}
	return false
}

func (c *core) ComposeKey(namespace any) Key {
	return Key{Namespace: namespace, Path: c.key}
}

func (c *core) CacheKey() string { return c.key }

func (c *core) Equal(other Path) bool {
	return other != nil && c.key == other.CacheKey() && len(c.elements) == other.Len()
}

func (c *core) String() string {
	if len(c.elements) == 0 {
		return "Root"
	}
	var b strings.Builder
	for i, element := range c.elements {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(describeElement(element))
	}
	return b.String()
}

func describeElement(element Element) string {
	switch v := element.(type) {
	case fmt.Stringer:
		return v.String()
	case EntityDescriptor:
		return v.TypeID()
	case PropertyDescriptor:
		return v.Name()
	default:
		return fmt.Sprintf("%v", element)
	}
}

// Coerce rebuilds a path from a raw element sequence by replaying it from
// root. The inverse of Elements.
func Coerce(root Path, elements ...Element) (Path, error) {
	if root == nil {
		root = Root
	}
	return replay(root, elements)
}

// Descriptor identities are interned process-wide so canonical cache keys can
// be built from comparable strings. The table grows with the number of
// distinct descriptors, which is bounded by the mapping metadata.
var (
	identitySeq atomic.Uint64
	identities  sync.Map
)

func identityOf(v any) uint64 {
	if id, ok := identities.Load(v); ok {
		return id.(uint64)
	}
	id, _ := identities.LoadOrStore(v, identitySeq.Add(1))
	return id.(uint64)
}

func elementKey(element Element) string {
	switch v := element.(type) {
	case EntityDescriptor:
		return fmt.Sprintf("e%d", identityOf(v))
	case PropertyDescriptor:
		return fmt.Sprintf("p%d", identityOf(v))
	default:
		// Tokens key by type and value, never by interned identity. The
		// rendering is escaped so a token value embedding the element
		// separator cannot forge a segment boundary.
		return "t:" + escapeTokenKey(fmt.Sprintf("%T:%v", element, element))
	}
}

func escapeTokenKey(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "/", `\/`)
}
