package module

import (
	"strings"
	"testing"
)

func TestCycleGuardDetectsCycle(t *testing.T) {
	var g CycleGuard

	a := FromDotted("a")
	b := FromDotted("b")
	c := FromDotted("c")

	if err := g.Enter(a); err != nil {
		t.Fatalf("Enter(a) = %v, want nil", err)
	}
	if err := g.Enter(b); err != nil {
		t.Fatalf("Enter(b) = %v, want nil", err)
	}
	if err := g.Enter(c); err != nil {
		t.Fatalf("Enter(c) = %v, want nil", err)
	}

	err := g.Enter(a)
	if err == nil {
		t.Fatal("expected a cycle error re-entering a")
	}
	cycleErr, ok := err.(*CycleError)
	if !ok {
		t.Fatalf("error type = %T, want *CycleError", err)
	}
	if len(cycleErr.Cycle) != 4 {
		t.Errorf("cycle length = %d, want 4", len(cycleErr.Cycle))
	}
	if !strings.Contains(cycleErr.Error(), "a -> b -> c -> a") {
		t.Errorf("Error() = %q, want it to describe a -> b -> c -> a", cycleErr.Error())
	}
}

func TestCycleGuardLeaveAllowsReentry(t *testing.T) {
	var g CycleGuard
	a := FromDotted("a")
	b := FromDotted("b")

	if err := g.Enter(a); err != nil {
		t.Fatalf("Enter(a) = %v, want nil", err)
	}
	if err := g.Enter(b); err != nil {
		t.Fatalf("Enter(b) = %v, want nil", err)
	}
	g.Leave() // leave b
	g.Leave() // leave a

	if err := g.Enter(a); err != nil {
		t.Fatalf("Enter(a) after Leave = %v, want nil", err)
	}
}

func TestCycleGuardLeaveOnEmptyStackIsSafe(t *testing.T) {
	var g CycleGuard
	g.Leave()
	g.Leave()
	if len(g.stack) != 0 {
		t.Error("stack should remain empty")
	}
}

func TestBuildDependencyGraph(t *testing.T) {
	a := New(FromDotted("a"), "a.inko")
	b := New(FromDotted("b"), "b.inko")
	c := New(FromDotted("c"), "c.inko")

	a.Imports = []*Import{{Path: FromDotted("b")}, {Path: FromDotted("c")}}
	b.Imports = []*Import{{Path: FromDotted("c")}}

	graph := BuildDependencyGraph([]*Module{a, b, c})

	if len(graph) != 3 {
		t.Errorf("graph size = %d, want 3", len(graph))
	}
	if len(graph["a"]) != 2 {
		t.Errorf("a dependencies = %d, want 2", len(graph["a"]))
	}
	if len(graph["b"]) != 1 {
		t.Errorf("b dependencies = %d, want 1", len(graph["b"]))
	}
	if len(graph["c"]) != 0 {
		t.Errorf("c dependencies = %d, want 0", len(graph["c"]))
	}
}

func TestTopologicalSortOrdersDependenciesFirst(t *testing.T) {
	graph := DependencyGraph{
		"a": {"b"},
		"b": {"c"},
		"c": {},
	}

	sorted, err := graph.TopologicalSort()
	if err != nil {
		t.Fatalf("TopologicalSort failed: %v", err)
	}

	indexOf := func(item string) int {
		for i, v := range sorted {
			if v == item {
				return i
			}
		}
		return -1
	}

	if indexOf("c") > indexOf("b") {
		t.Errorf("c should come before b: %v", sorted)
	}
	if indexOf("b") > indexOf("a") {
		t.Errorf("b should come before a: %v", sorted)
	}
}

func TestTopologicalSortDetectsCycle(t *testing.T) {
	graph := DependencyGraph{
		"a": {"b"},
		"b": {"a"},
	}

	_, err := graph.TopologicalSort()
	if err == nil {
		t.Error("expected a cycle error")
	}
}
