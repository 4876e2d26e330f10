package domain

import (
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Graph is a package dependency graph whose edges run from a dependency to its dependents.
// Nodes keep their declaration order, which breaks ties during sorting.
type Graph struct {
	names      []string
	index      map[string]int
	dependents [][]int
	deps       [][]int
	order      []string
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		index: make(map[string]int),
	}
}

// AddNode adds a package to the graph.
// It returns an error if a package with the same name already exists.
func (g *Graph) AddNode(name string) error {
	if _, exists := g.index[name]; exists {
		return zerr.With(zerr.Wrap(ErrDuplicatePackage, "package declared twice"), "package", name)
	}
	g.index[name] = len(g.names)
	g.names = append(g.names, name)
	g.dependents = append(g.dependents, nil)
	g.deps = append(g.deps, nil)
	return nil
}

// Has reports whether the graph knows the package.
func (g *Graph) Has(name string) bool {
	_, ok := g.index[name]
	return ok
}

// AddEdge records that dependent depends on dependency.
// Edges touching an unknown package are ignored and reported as false.
func (g *Graph) AddEdge(dependency, dependent string) bool {
	from, ok := g.index[dependency]
	if !ok {
		return false
	}
	to, ok := g.index[dependent]
	if !ok {
		return false
	}
	if slices.Contains(g.dependents[from], to) {
		return true
	}
	g.dependents[from] = append(g.dependents[from], to)
	g.deps[to] = append(g.deps[to], from)
	return true
}

// Validate orders the graph topologically with Kahn's algorithm.
// Among packages that are ready at the same time the earliest declared goes first.
// It populates the order walked by Walk if successful.
func (g *Graph) Validate() error {
	inDegree := make([]int, len(g.names))
	for i := range g.names {
		inDegree[i] = len(g.deps[i])
	}

	var ready []int
	for i, d := range inDegree {
		if d == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]string, 0, len(g.names))
	for len(ready) > 0 {
		next := ready[0]
		ready = ready[1:]
		order = append(order, g.names[next])

		for _, dependent := range g.dependents[next] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				pos, _ := slices.BinarySearch(ready, dependent)
				ready = slices.Insert(ready, pos, dependent)
			}
		}
	}

	if len(order) < len(g.names) {
		g.order = nil
		return g.buildCycleError(inDegree)
	}

	g.order = order
	return nil
}

// buildCycleError constructs an error naming one cycle and every package left unordered.
func (g *Graph) buildCycleError(inDegree []int) error {
	var unresolved []string
	start := -1
	for i, d := range inDegree {
		if d > 0 {
			unresolved = append(unresolved, g.names[i])
			if start < 0 {
				start = i
			}
		}
	}

	// Every unordered package still has an unordered dependency, so following
	// those dependencies must revisit a package.
	seen := make(map[int]int)
	var path []int
	cur := start
	for {
		if at, ok := seen[cur]; ok {
			path = append(path[at:], cur)
			break
		}
		seen[cur] = len(path)
		path = append(path, cur)
		for _, dep := range g.deps[cur] {
			if inDegree[dep] > 0 {
				cur = dep
				break
			}
		}
	}

	names := make([]string, 0, len(path))
	for _, i := range path {
		names = append(names, g.names[i])
	}

	err := zerr.With(zerr.Wrap(ErrDependencyCycle, "packages cannot be ordered"), "cycle", strings.Join(names, " -> "))
	return zerr.With(err, "unresolved", unresolved)
}

// Order returns the validated order.
func (g *Graph) Order() []string {
	return slices.Clone(g.order)
}

// Walk returns an iterator that yields package names in build order.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Walk() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for i, name := range g.order {
			if !yield(i+1, name) {
				return
			}
		}
	}
}
