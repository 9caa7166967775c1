// Package ordering sorts the mixins of one target into their build order.
//
// An explicit dependency "A depends on B" is an edge A -> B and means that A
// must come after B. The sort is a stable topological sort: mixins without an
// ordering constraint between them keep their registration order, so repeated
// builds of identical inputs always produce the same sequence.
package ordering

import (
	"sort"

	"github.com/conduit-lang/mixins/pkg/errors"
	"github.com/conduit-lang/mixins/pkg/model"
	"github.com/conduit-lang/mixins/pkg/types"
)

// Graph is the dependency graph of the mixins of one target
type Graph struct {
	target types.TypeID
	nodes  []*model.MixinContext
	index  map[types.TypeID]int
	edges  map[types.TypeID][]types.TypeID
}

// NewGraph creates the dependency graph of mixins, which must be given in
// registration order. Every dependency must name a mixin of the set.
func NewGraph(target types.TypeID, mixins []*model.MixinContext) (*Graph, error) {
	g := &Graph{
		target: target,
		nodes:  make([]*model.MixinContext, 0, len(mixins)),
		index:  make(map[types.TypeID]int, len(mixins)),
		edges:  make(map[types.TypeID][]types.TypeID, len(mixins)),
	}

	for _, m := range mixins {
		if _, exists := g.index[m.MixinType()]; exists {
			return nil, errors.NewInvalidContext(target, "duplicate mixin "+m.MixinType().String(), m.MixinType())
		}
		g.index[m.MixinType()] = len(g.nodes)
		g.nodes = append(g.nodes, m)
	}

	for _, m := range g.nodes {
		deps := m.Dependencies()
		for _, dep := range deps {
			if _, ok := g.index[dep]; !ok {
				return nil, errors.NewMissingDependency(target, m.MixinType(), dep, m.Origin().String(), g.types())
			}
		}
		g.edges[m.MixinType()] = deps
	}

	return g, nil
}

func (g *Graph) types() []types.TypeID {
	ids := make([]types.TypeID, len(g.nodes))
	for i, m := range g.nodes {
		ids[i] = m.MixinType()
	}
	return ids
}

// Len returns the number of mixins in the graph
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Dependencies returns the direct dependencies of a mixin
func (g *Graph) Dependencies(mixin types.TypeID) []types.TypeID {
	return append([]types.TypeID(nil), g.edges[mixin]...)
}

// Dependents returns the mixins that directly depend on mixin, in
// registration order.
func (g *Graph) Dependents(mixin types.TypeID) []types.TypeID {
	var dependents []types.TypeID
	for _, m := range g.nodes {
		for _, dep := range g.edges[m.MixinType()] {
			if dep == mixin {
				dependents = append(dependents, m.MixinType())
				break
			}
		}
	}
	return dependents
}

// DetectCycles returns the dependency cycles of the graph. Each cycle lists
// its mixins in dependency order without repeating the first one. Nodes are
// visited in registration order so the result is deterministic.
func (g *Graph) DetectCycles() [][]types.TypeID {
	var cycles [][]types.TypeID
	visited := make(map[types.TypeID]bool)
	recursionStack := make(map[types.TypeID]bool)

	var dfs func(node types.TypeID, path []types.TypeID)
	dfs = func(node types.TypeID, path []types.TypeID) {
		visited[node] = true
		recursionStack[node] = true
		path = append(path, node)

		for _, neighbor := range g.edges[node] {
			if !visited[neighbor] {
				dfs(neighbor, path)
			} else if recursionStack[neighbor] {
				for i, n := range path {
					if n == neighbor {
						cycle := make([]types.TypeID, len(path)-i)
						copy(cycle, path[i:])
						cycles = append(cycles, cycle)
						break
					}
				}
			}
		}

		recursionStack[node] = false
	}

	for _, m := range g.nodes {
		if !visited[m.MixinType()] {
			dfs(m.MixinType(), nil)
		}
	}

	return cycles
}

// Sort returns the mixins in build order: every mixin follows all of its
// dependencies and ties keep registration order.
func (g *Graph) Sort() ([]*model.MixinContext, error) {
	// remaining counts unsatisfied dependencies per node
	remaining := make([]int, len(g.nodes))
	dependents := make([][]int, len(g.nodes))
	for i, m := range g.nodes {
		deps := g.edges[m.MixinType()]
		remaining[i] = len(deps)
		for _, dep := range deps {
			j := g.index[dep]
			dependents[j] = append(dependents[j], i)
		}
	}

	// ready is kept sorted by registration index
	var ready []int
	for i := range g.nodes {
		if remaining[i] == 0 {
			ready = append(ready, i)
		}
	}

	result := make([]*model.MixinContext, 0, len(g.nodes))
	for len(ready) > 0 {
		next := ready[0]
		ready = ready[1:]
		result = append(result, g.nodes[next])

		for _, dependent := range dependents[next] {
			remaining[dependent]--
			if remaining[dependent] == 0 {
				pos := sort.SearchInts(ready, dependent)
				ready = append(ready, 0)
				copy(ready[pos+1:], ready[pos:])
				ready[pos] = dependent
			}
		}
	}

	if len(result) != len(g.nodes) {
		cycles := g.DetectCycles()
		if len(cycles) > 0 {
			return nil, errors.NewDependencyCycle(g.target, cycles[0])
		}
		return nil, errors.NewDependencyCycle(g.target, nil)
	}

	return result, nil
}

// Sort orders the mixins of target. mixins must be given in registration
// order (inherited mixins first, then local ones).
func Sort(target types.TypeID, mixins []*model.MixinContext) ([]*model.MixinContext, error) {
	g, err := NewGraph(target, mixins)
	if err != nil {
		return nil, err
	}
	return g.Sort()
}
