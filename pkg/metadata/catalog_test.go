package metadata_test

import (
	"testing"

	paths "github.com/goliatone/go-paths"
	"github.com/goliatone/go-paths/pkg/metadata"
)

func TestDefineRejectsDuplicates(t *testing.T) {
	catalog := metadata.New()
	if _, err := catalog.Define("User"); err != nil {
		t.Fatalf("Define failed: %v", err)
	}
	if _, err := catalog.Define("User"); err == nil {
		t.Fatalf("expected duplicate definition to fail")
	}
	if _, err := catalog.Define(""); err == nil {
		t.Fatalf("expected empty name to fail")
	}
}

func TestResolveType(t *testing.T) {
	catalog := metadata.New()
	user := catalog.MustDefine("User")

	resolved, err := catalog.ResolveType("User")
	if err != nil {
		t.Fatalf("ResolveType failed: %v", err)
	}
	if resolved != paths.EntityDescriptor(user) {
		t.Fatalf("expected the defined type back")
	}
	if _, err := catalog.ResolveType("Ghost"); err == nil {
		t.Fatalf("expected unknown type to fail")
	}
}

func TestInspect(t *testing.T) {
	catalog := metadata.New()
	user := catalog.MustDefine("User")

	byDescriptor, err := catalog.Inspect(user)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	byName, err := catalog.Inspect("User")
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if byDescriptor != byName {
		t.Fatalf("expected both lookups to converge")
	}
	if _, err := catalog.Inspect(42); err == nil {
		t.Fatalf("expected unsupported input to fail")
	}
}

func TestPropertiesAndInheritance(t *testing.T) {
	catalog := metadata.New()
	person := catalog.MustDefine("Person")
	employee := catalog.MustDefine("Employee", metadata.WithBase(person))
	person.MustAttribute("name")
	employee.MustAttribute("salary")

	name, err := employee.Property("name")
	if err != nil {
		t.Fatalf("Property failed: %v", err)
	}
	if name.DeclaringEntity() != paths.EntityDescriptor(person) {
		t.Fatalf("inherited property must keep its declaring type")
	}

	salary, err := employee.Property("salary")
	if err != nil {
		t.Fatalf("Property failed: %v", err)
	}
	if salary.DeclaringEntity() != paths.EntityDescriptor(employee) {
		t.Fatalf("own property must declare on the subtype")
	}

	if _, err := employee.Property("ghost"); err == nil {
		t.Fatalf("expected unknown property to fail")
	}

	// Shadowing a base property is rejected.
	if _, err := employee.DefineAttribute("name"); err == nil {
		t.Fatalf("expected shadowing to fail")
	}
}

func TestRelationshipTargets(t *testing.T) {
	catalog := metadata.New()
	user := catalog.MustDefine("User")
	order := catalog.MustDefine("Order")
	orders := user.MustRelationship("orders", order)
	sku := order.MustAttribute("sku")

	if orders.TargetEntity() != paths.EntityDescriptor(order) {
		t.Fatalf("relationship must expose its target")
	}
	if sku.TargetEntity() != nil {
		t.Fatalf("attribute must have no target, got %v", sku.TargetEntity())
	}
	if _, err := user.DefineRelationship("bad", nil); err == nil {
		t.Fatalf("expected nil target to fail")
	}
}

func TestIsaWalksBaseChain(t *testing.T) {
	catalog := metadata.New()
	person := catalog.MustDefine("Person")
	employee := catalog.MustDefine("Employee", metadata.WithBase(person))
	manager := catalog.MustDefine("Manager", metadata.WithBase(employee))
	user := catalog.MustDefine("User")

	if !manager.Isa(person) || !manager.Isa(employee) || !manager.Isa(manager) {
		t.Fatalf("subtype chain must satisfy Isa")
	}
	if person.Isa(employee) {
		t.Fatalf("a base type is not its subtype")
	}
	if manager.Isa(user) {
		t.Fatalf("unrelated types must not satisfy Isa")
	}
	if manager.Isa(nil) {
		t.Fatalf("nil target must not satisfy Isa")
	}
}

func TestAliasIdentity(t *testing.T) {
	catalog := metadata.New()
	person := catalog.MustDefine("Person")

	a1 := metadata.MustAlias(person)
	a2 := metadata.MustAlias(person)
	if a1.ID() == a2.ID() {
		t.Fatalf("each alias must carry a distinct identifier")
	}
	if a1.TypeID() != "Person" || a2.TypeID() != "Person" {
		t.Fatalf("aliases must expose the mapped type id")
	}
	if !a1.IsAliased() {
		t.Fatalf("aliases report aliased")
	}
	if a1.Mapped() != paths.EntityDescriptor(person) {
		t.Fatalf("aliases map to their target")
	}
	if _, err := metadata.NewAlias(nil); err == nil {
		t.Fatalf("expected nil target to fail")
	}
}

func TestAliasIsaDelegatesToTarget(t *testing.T) {
	catalog := metadata.New()
	person := catalog.MustDefine("Person")
	employee := catalog.MustDefine("Employee", metadata.WithBase(person))

	alias := metadata.MustAlias(employee)
	if !alias.Isa(person) {
		t.Fatalf("alias Isa must see through to the mapped type")
	}
}

func TestAliasPropertyLookup(t *testing.T) {
	catalog := metadata.New()
	person := catalog.MustDefine("Person")
	employee := catalog.MustDefine("Employee", metadata.WithBase(person))
	person.MustAttribute("name")
	employee.MustAttribute("salary")

	alias := metadata.MustAlias(person, metadata.WithSubtypes(employee))

	if _, err := alias.Property("name"); err != nil {
		t.Fatalf("target property lookup failed: %v", err)
	}
	if _, err := alias.Property("salary"); err != nil {
		t.Fatalf("presented-subtype property lookup failed: %v", err)
	}
	if _, err := alias.Property("ghost"); err == nil {
		t.Fatalf("expected unknown property to fail")
	}
}

func TestSubtypeViewCachesPerSubtype(t *testing.T) {
	catalog := metadata.New()
	person := catalog.MustDefine("Person")
	employee := catalog.MustDefine("Employee", metadata.WithBase(person))
	manager := catalog.MustDefine("Manager", metadata.WithBase(employee))

	alias := metadata.MustAlias(person,
		metadata.WithSubtypes(employee, manager),
		metadata.WithMapperPath())

	view, ok := alias.SubtypeView(employee)
	if !ok {
		t.Fatalf("expected a view for a presented subtype")
	}
	if view.Mapped() != paths.EntityDescriptor(employee) {
		t.Fatalf("view must map to the subtype")
	}
	if !view.IsAliased() {
		t.Fatalf("view must stay aliased")
	}
	if !view.UseMapperPath() {
		t.Fatalf("view must inherit the mapper-path flag")
	}

	again, ok := alias.SubtypeView(employee)
	if !ok || again != view {
		t.Fatalf("views must be cached per subtype")
	}

	other, ok := alias.SubtypeView(manager)
	if !ok || other == view {
		t.Fatalf("distinct subtypes must get distinct views")
	}
}

func TestSubtypeViewRejectsUnpresented(t *testing.T) {
	catalog := metadata.New()
	person := catalog.MustDefine("Person")
	employee := catalog.MustDefine("Employee", metadata.WithBase(person))
	director := catalog.MustDefine("Director", metadata.WithBase(person))

	alias := metadata.MustAlias(person, metadata.WithSubtypes(employee))
	if _, ok := alias.SubtypeView(director); ok {
		t.Fatalf("unpresented subtypes must not get a view")
	}
	if _, ok := alias.SubtypeView(nil); ok {
		t.Fatalf("nil subtype must not get a view")
	}
}

func TestPresentedSubtypes(t *testing.T) {
	catalog := metadata.New()
	person := catalog.MustDefine("Person")
	employee := catalog.MustDefine("Employee", metadata.WithBase(person))

	plain := metadata.MustAlias(person)
	if plain.PresentedSubtypes() != nil {
		t.Fatalf("plain aliases present no subtypes")
	}

	poly := metadata.MustAlias(person, metadata.WithSubtypes(employee))
	subtypes := poly.PresentedSubtypes()
	if len(subtypes) != 1 || subtypes[0] != paths.EntityDescriptor(employee) {
		t.Fatalf("unexpected presented subtypes %v", subtypes)
	}
}

func TestAliasNaming(t *testing.T) {
	catalog := metadata.New()
	person := catalog.MustDefine("Person")

	named := metadata.MustAlias(person, metadata.WithAliasName("p1"))
	if named.String() != "p1" {
		t.Fatalf("expected explicit name, got %q", named.String())
	}

	auto := metadata.MustAlias(person)
	if auto.String() == "" || auto.String() == "Person" {
		t.Fatalf("expected a generated display name, got %q", auto.String())
	}
}
