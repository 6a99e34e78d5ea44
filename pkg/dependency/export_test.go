package dependency

import (
	"github.com/mandelsoft/buildingblocks/pkg/blocks"
)

// AddEdgeUnchecked adds an edge bypassing the cycle check
// to simulate corrupted graphs.
func (g *Graph) AddEdgeUnchecked(from, to blocks.Kind) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.addEdge(from, to)
}
