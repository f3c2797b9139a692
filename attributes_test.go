package paths_test

import (
	"testing"

	paths "github.com/goliatone/go-paths"
)

func TestAttributeSetAndGetOr(t *testing.T) {
	f := newFixture(t)
	root := paths.NewRoot()
	attrs := paths.NewAttributes()

	p := mustIndex(t, root, f.user, "orders")
	if p.Contains(attrs, "loader") {
		t.Fatalf("fresh map must not contain the key")
	}
	if got := p.GetOr(attrs, "loader", "lazy"); got != "lazy" {
		t.Fatalf("expected fallback, got %v", got)
	}

	p.Set(attrs, "loader", "joined")
	if !p.Contains(attrs, "loader") {
		t.Fatalf("expected key after Set")
	}
	if got := p.GetOr(attrs, "loader", "lazy"); got != "joined" {
		t.Fatalf("expected stored value, got %v", got)
	}
}

func TestAttributeSetIfAbsent(t *testing.T) {
	f := newFixture(t)
	root := paths.NewRoot()
	attrs := paths.NewAttributes()

	p := mustIndex(t, root, f.user, "orders")
	p.SetIfAbsent(attrs, "loader", "joined")
	p.SetIfAbsent(attrs, "loader", "selectin")
	if got := p.GetOr(attrs, "loader", nil); got != "joined" {
		t.Fatalf("SetIfAbsent must keep the first value, got %v", got)
	}
}

func TestAttributeKeysAreNamespaceAndPathScoped(t *testing.T) {
	f := newFixture(t)
	root := paths.NewRoot()
	attrs := paths.NewAttributes()

	orders := mustIndex(t, root, f.user, "orders")
	items := mustIndex(t, root, f.order, "items")

	orders.Set(attrs, "loader", "joined")
	orders.Set(attrs, "filter", "active")
	items.Set(attrs, "loader", "selectin")

	if len(attrs) != 3 {
		t.Fatalf("expected 3 distinct entries, got %d", len(attrs))
	}
	if got := orders.GetOr(attrs, "loader", nil); got != "joined" {
		t.Fatalf("namespace collision: got %v", got)
	}
	if got := items.GetOr(attrs, "loader", nil); got != "selectin" {
		t.Fatalf("path collision: got %v", got)
	}
	if items.Contains(attrs, "filter") {
		t.Fatalf("filter was set on a different path")
	}
}

func TestStructurallyEqualPathsShareAttributeEntries(t *testing.T) {
	f := newFixture(t)
	attrs := paths.NewAttributes()

	p1 := mustIndex(t, paths.NewRoot(), f.user, "orders", f.order)
	p2 := mustIndex(t, paths.NewRoot(), f.user, "orders", f.order)

	p1.Set(attrs, "loader", "joined")
	if got := p2.GetOr(attrs, "loader", nil); got != "joined" {
		t.Fatalf("structurally equal paths must compose equal keys, got %v", got)
	}
}

func TestComposeKeyIsComparable(t *testing.T) {
	f := newFixture(t)
	root := paths.NewRoot()

	p := mustIndex(t, root, f.user, "orders")
	k1 := p.ComposeKey("loader")
	k2 := p.ComposeKey("loader")
	if k1 != k2 {
		t.Fatalf("composed keys for one (namespace, path) must compare equal")
	}
	if k1 == p.ComposeKey("filter") {
		t.Fatalf("different namespaces must compose different keys")
	}
}
