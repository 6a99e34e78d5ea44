// Package dependency provides the dependency graph between building
// block kinds. An edge from A to B declares that B is built on A and
// must be deleted whenever A is replaced or deleted.
package dependency

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/mandelsoft/buildingblocks/pkg/blocks"
	"github.com/mandelsoft/buildingblocks/pkg/utils"
)

var ErrCycleDetected = errors.New("dependency cycle detected")

type Edge struct {
	From blocks.Kind `json:"from"`
	To   blocks.Kind `json:"to"`
}

func (e Edge) String() string {
	return fmt.Sprintf("%s->%s", e.From, e.To)
}

type Graph struct {
	lock         sync.RWMutex
	registry     blocks.Registry
	edges        []Edge
	dependents   map[blocks.Kind][]blocks.Kind
	dependencies map[blocks.Kind][]blocks.Kind
}

func New(reg blocks.Registry) *Graph {
	return &Graph{
		registry:     reg,
		dependents:   map[blocks.Kind][]blocks.Kind{},
		dependencies: map[blocks.Kind][]blocks.Kind{},
	}
}

// NewFromEdges creates a validated graph for the given edge set.
// It fails with ErrCycleDetected if the edges contain a cycle.
func NewFromEdges(reg blocks.Registry, edges ...Edge) (*Graph, error) {
	g := New(reg)
	for _, e := range edges {
		if err := g.AddEdge(e.From, e.To); err != nil {
			return nil, err
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Graph) Registry() blocks.Registry {
	return g.registry
}

// AddEdge declares that deleting from must also delete to.
// Adding an already declared edge is a no-op.
func (g *Graph) AddEdge(from, to blocks.Kind) error {
	if !g.registry.Has(from) {
		return blocks.UnknownKind(from)
	}
	if !g.registry.Has(to) {
		return blocks.UnknownKind(to)
	}

	g.lock.Lock()
	defer g.lock.Unlock()

	if slices.Contains(g.dependents[from], to) {
		return nil
	}
	if path := g.path(to, from); path != nil {
		cycle := append([]blocks.Kind{from}, path...)
		log.Warn("rejecting edge {{edge}}: {{cycle}}", "edge", Edge{from, to}, "cycle", cycleString(cycle))
		return blocks.NewKindError(from, ErrCycleDetected, "dependency cycle "+cycleString(cycle))
	}
	g.addEdge(from, to)
	log.Debug("added dependency {{edge}}", "edge", Edge{from, to})
	return nil
}

func (g *Graph) addEdge(from, to blocks.Kind) {
	g.edges = append(g.edges, Edge{from, to})
	g.dependents[from] = append(g.dependents[from], to)
	g.dependencies[to] = append(g.dependencies[to], from)
}

// path provides a dependency path from start to target
// (both included) or nil, if target is not reachable.
func (g *Graph) path(start, target blocks.Kind) []blocks.Kind {
	visited := sets.New[blocks.Kind]()

	var find func(k blocks.Kind) []blocks.Kind
	find = func(k blocks.Kind) []blocks.Kind {
		if k == target {
			return []blocks.Kind{k}
		}
		if visited.Has(k) {
			return nil
		}
		visited.Insert(k)
		for _, d := range g.dependents[k] {
			if p := find(d); p != nil {
				return append([]blocks.Kind{k}, p...)
			}
		}
		return nil
	}
	return find(start)
}

// Edges provides all edges in declaration order.
func (g *Graph) Edges() []Edge {
	g.lock.RLock()
	defer g.lock.RUnlock()
	return slices.Clone(g.edges)
}

// GetDirectDependents provides the kinds directly depending
// on the given kind in declaration order.
func (g *Graph) GetDirectDependents(kind blocks.Kind) ([]blocks.Kind, error) {
	if !g.registry.Has(kind) {
		return nil, blocks.UnknownKind(kind)
	}
	g.lock.RLock()
	defer g.lock.RUnlock()
	return slices.Clone(g.dependents[kind]), nil
}

// GetDirectDependencies provides the kinds the given kind
// is directly built on in declaration order.
func (g *Graph) GetDirectDependencies(kind blocks.Kind) ([]blocks.Kind, error) {
	if !g.registry.Has(kind) {
		return nil, blocks.UnknownKind(kind)
	}
	g.lock.RLock()
	defer g.lock.RUnlock()
	return slices.Clone(g.dependencies[kind]), nil
}

// GetTransitiveDependents provides all kinds transitively depending
// on the given kind, each exactly once. The result is topologically
// ordered: a kind is listed only after all kinds of the result it
// depends on. Ties are resolved by the breadth-first discovery order
// following the declaration order of the edges.
func (g *Graph) GetTransitiveDependents(kind blocks.Kind) ([]blocks.Kind, error) {
	if !g.registry.Has(kind) {
		return nil, blocks.UnknownKind(kind)
	}

	g.lock.RLock()
	defer g.lock.RUnlock()

	closure, err := g.closure(kind)
	if err != nil {
		return nil, err
	}
	return g.sort(kind, closure)
}

type entry struct {
	kind  blocks.Kind
	depth int
}

func (g *Graph) closure(kind blocks.Kind) ([]blocks.Kind, error) {
	limit := g.registry.Len()
	visited := sets.New[blocks.Kind]()

	var found []blocks.Kind
	queue := []entry{{kind, 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range g.dependents[cur.kind] {
			if d == kind || cur.depth+1 > limit {
				return nil, blocks.NewKindError(kind, ErrCycleDetected, fmt.Sprintf("%s reachable from itself", kind))
			}
			if visited.Has(d) {
				continue
			}
			visited.Insert(d)
			found = append(found, d)
			queue = append(queue, entry{d, cur.depth + 1})
		}
	}
	log.Trace("closure for {{kind}}: {{dependents}}", "kind", kind, "dependents", found)
	return found, nil
}

func (g *Graph) sort(kind blocks.Kind, closure []blocks.Kind) ([]blocks.Kind, error) {
	members := sets.New(closure...)
	pending := map[blocks.Kind]int{}
	for _, k := range closure {
		for _, d := range g.dependents[k] {
			if members.Has(d) {
				pending[d]++
			}
		}
	}

	emitted := sets.New[blocks.Kind]()
	result := make([]blocks.Kind, 0, len(closure))
	for len(result) < len(closure) {
		next := -1
		for i, k := range closure {
			if !emitted.Has(k) && pending[k] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			return nil, blocks.NewKindError(kind, ErrCycleDetected, "cycle among dependents "+
				utils.JoinFunc(closure, ", ", blocks.Kind.String))
		}
		k := closure[next]
		emitted.Insert(k)
		result = append(result, k)
		for _, d := range g.dependents[k] {
			if members.Has(d) {
				pending[d]--
			}
		}
	}
	return result, nil
}

// Validate checks the complete edge set for cycles.
func (g *Graph) Validate() error {
	const (
		white = iota
		gray
		black
	)

	g.lock.RLock()
	defer g.lock.RUnlock()

	color := map[blocks.Kind]int{}
	var stack []blocks.Kind

	var visit func(k blocks.Kind) []blocks.Kind
	visit = func(k blocks.Kind) []blocks.Kind {
		switch color[k] {
		case black:
			return nil
		case gray:
			return utils.Cycle(k, stack...)
		}
		color[k] = gray
		stack = append(stack, k)
		for _, d := range g.dependents[k] {
			if c := visit(d); c != nil {
				return c
			}
		}
		stack = stack[:len(stack)-1]
		color[k] = black
		return nil
	}

	for _, k := range g.registry.AllKinds() {
		if c := visit(k); c != nil {
			return blocks.NewKindError(c[0], ErrCycleDetected, "dependency cycle "+cycleString(c))
		}
	}
	return nil
}

func cycleString(c []blocks.Kind) string {
	return utils.JoinFunc(c, "->", blocks.Kind.String)
}
