package module

import "fmt"

// CycleGuard tracks the chain of modules currently being compiled so the
// driver can detect an import cycle before it recurses forever (spec §4.1
// step 7 "CompileImportedModules ... at-most-once compilation", §5
// "mutually recursive imports register a module before its body is fully
// typed").
type CycleGuard struct {
	stack []QualifiedName
}

// Enter pushes name onto the in-progress stack, returning an error (and
// the full cycle, outermost first) if name is already being compiled.
// Callers must pair every successful Enter with a deferred Leave.
func (g *CycleGuard) Enter(name QualifiedName) error {
	for i, inProgress := range g.stack {
		if inProgress.Equal(name) {
			return &CycleError{Cycle: append(append([]QualifiedName{}, g.stack[i:]...), name)}
		}
	}
	g.stack = append(g.stack, name)
	return nil
}

// Leave pops the most recently entered name.
func (g *CycleGuard) Leave() {
	if len(g.stack) > 0 {
		g.stack = g.stack[:len(g.stack)-1]
	}
}

// CycleError reports an import cycle as the ordered chain of modules that
// closes it.
type CycleError struct {
	Cycle []QualifiedName
}

func (e *CycleError) Error() string {
	names := make([]string, len(e.Cycle))
	for i, n := range e.Cycle {
		names[i] = n.String()
	}
	msg := names[0]
	for _, n := range names[1:] {
		msg += " -> " + n
	}
	return fmt.Sprintf("import cycle: %s", msg)
}

// DependencyGraph maps each compiled module's qualified name to the
// modules it imports, for TopologicalSort.
type DependencyGraph map[string][]string

// BuildDependencyGraph walks every registered module's Imports.
func BuildDependencyGraph(modules []*Module) DependencyGraph {
	graph := make(DependencyGraph, len(modules))
	for _, m := range modules {
		var deps []string
		for _, imp := range m.Imports {
			deps = append(deps, imp.Path.String())
		}
		graph[m.Name.String()] = deps
	}
	return graph
}

// TopologicalSort orders a dependency graph so every module is listed
// after the modules it depends on, via Kahn's algorithm. Returns an error
// if the graph contains a cycle (which CycleGuard should already have
// caught during compilation, so this is a defensive second check).
func (g DependencyGraph) TopologicalSort() ([]string, error) {
	inDegree := make(map[string]int, len(g))
	dependents := make(map[string][]string, len(g))
	for node := range g {
		if _, ok := inDegree[node]; !ok {
			inDegree[node] = 0
		}
	}
	for node, deps := range g {
		for _, dep := range deps {
			dependents[dep] = append(dependents[dep], node)
			inDegree[node]++
		}
	}

	var queue []string
	for node, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, node)
		}
	}

	var result []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)
		for _, dependent := range dependents[node] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(result) != len(g) {
		return nil, fmt.Errorf("dependency graph has a cycle")
	}
	return result, nil
}
