package paths_test

import (
	"errors"
	"testing"

	paths "github.com/goliatone/go-paths"
	"github.com/goliatone/go-paths/pkg/metadata"
)

func TestSerializeRoundTrip(t *testing.T) {
	f := newFixture(t)
	root := paths.NewRoot()

	original := mustIndex(t, root, f.user, "orders", f.order, "items")
	form, err := paths.Serialize(original)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if len(form) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(form))
	}
	if form[0] != (paths.PortablePair{TypeID: "User", Property: "orders"}) {
		t.Fatalf("unexpected first pair %+v", form[0])
	}

	restored, err := root.Deserialize(f.catalog, form)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if !restored.Equal(original) {
		t.Fatalf("round trip must be identity: %s vs %s", restored, original)
	}
	if restored.CacheKey() != original.CacheKey() {
		t.Fatalf("round trip must preserve the identity key")
	}
}

func TestDeserializeIntoFreshRoot(t *testing.T) {
	f := newFixture(t)

	original := mustIndex(t, paths.NewRoot(), f.user, "orders", f.order)
	form, err := paths.Serialize(original)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	other := paths.NewRoot(paths.WithTypeResolver(f.catalog))
	restored, err := other.Deserialize(nil, form)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if !restored.Equal(original) {
		t.Fatalf("a fresh root must rebuild an equal path")
	}

	// Equal keys mean attribute entries written before serialization stay
	// visible to the deserialized path.
	attrs := paths.NewAttributes()
	original.Set(attrs, "loader", "joined")
	if got := restored.GetOr(attrs, "loader", nil); got != "joined" {
		t.Fatalf("expected deserialized path to hit the same attribute entry, got %v", got)
	}
}

func TestSerializeTrailingEntity(t *testing.T) {
	f := newFixture(t)

	p := mustIndex(t, paths.NewRoot(), f.user, "orders", f.order)
	form, err := paths.Serialize(p)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if form[1].TypeID != "Order" || form[1].Property != "" {
		t.Fatalf("trailing entity must serialize with an empty property, got %+v", form[1])
	}
}

func TestSerializeTokenPathFails(t *testing.T) {
	f := newFixture(t)

	p := mustIndex(t, paths.NewRoot(), f.user, "orders").Token("*")
	if _, err := paths.Serialize(p); !errors.Is(err, paths.ErrNotPortable) {
		t.Fatalf("expected ErrNotPortable, got %v", err)
	}
}

func TestDeserializeUnknownType(t *testing.T) {
	f := newFixture(t)
	root := paths.NewRoot()

	form := paths.PortableForm{{TypeID: "Ghost", Property: "orders"}}
	_, err := root.Deserialize(f.catalog, form)
	if !errors.Is(err, paths.ErrUnresolvable) {
		t.Fatalf("expected ErrUnresolvable, got %v", err)
	}
	var unresolvable *paths.UnresolvableReferenceError
	if !errors.As(err, &unresolvable) {
		t.Fatalf("expected UnresolvableReferenceError, got %T", err)
	}
	if unresolvable.TypeID != "Ghost" {
		t.Fatalf("unexpected type id %q", unresolvable.TypeID)
	}
}

func TestDeserializeUnknownProperty(t *testing.T) {
	f := newFixture(t)
	root := paths.NewRoot()

	form := paths.PortableForm{{TypeID: "User", Property: "ghost"}}
	_, err := root.Deserialize(f.catalog, form)
	if !errors.Is(err, paths.ErrUnresolvable) {
		t.Fatalf("expected ErrUnresolvable, got %v", err)
	}
	var unresolvable *paths.UnresolvableReferenceError
	if !errors.As(err, &unresolvable) {
		t.Fatalf("expected UnresolvableReferenceError, got %T", err)
	}
	if unresolvable.Property != "ghost" {
		t.Fatalf("unexpected property %q", unresolvable.Property)
	}
}

func TestDeserializeRequiresResolver(t *testing.T) {
	root := paths.NewRoot()
	if _, err := root.Deserialize(nil, paths.PortableForm{{TypeID: "User"}}); err == nil {
		t.Fatalf("expected an error without a resolver")
	}
}

func TestPortableFormJSONRoundTrip(t *testing.T) {
	f := newFixture(t)

	p := mustIndex(t, paths.NewRoot(), f.user, "orders", f.order, "items", f.item)
	form, err := paths.Serialize(p)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	payload, err := form.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	decoded, err := paths.PortableFormFromJSON(payload)
	if err != nil {
		t.Fatalf("PortableFormFromJSON failed: %v", err)
	}
	if len(decoded) != len(form) {
		t.Fatalf("expected %d pairs, got %d", len(form), len(decoded))
	}
	for i := range form {
		if decoded[i] != form[i] {
			t.Fatalf("pair %d mismatch: %+v vs %+v", i, decoded[i], form[i])
		}
	}
}

func TestPortableFormFromJSONRejectsGarbage(t *testing.T) {
	if _, err := paths.PortableFormFromJSON([]byte("{not json")); err == nil {
		t.Fatalf("expected a decode error")
	}
}

func TestSerializedAliasPathResolvesToMappedType(t *testing.T) {
	f := newFixture(t)
	root := paths.NewRoot()

	alias := metadata.MustAlias(f.person, metadata.WithSubtypes(f.employee))
	p := mustIndex(t, root, alias, "name")

	form, err := paths.Serialize(p)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	// Alias identity is not portable; the pair names the mapped type.
	if form[0].TypeID != "Person" {
		t.Fatalf("expected mapped type id Person, got %q", form[0].TypeID)
	}
}
