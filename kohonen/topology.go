// Package kohonen implements the Kohonen self-organising map variant
// (spec §4.9): a fixed topology built once up front over the same net/nn
// substrate GNG uses, trained by moving a BFS-bounded neighbourhood of
// the winning node toward each sample.
//
// Unlike gng, the topology here never grows or shrinks — BuildGrid and
// BuildRing (grounded in the teacher's builder.Grid/builder.Cycle
// constructors, adapted to emit a net.Net's node/edge shape instead of a
// core.Graph) describe it once, and New freezes it.
package kohonen

import (
	"errors"

	"github.com/vpgrid/ngng/vector"
)

// ErrTooFewNodes indicates a topology constructor was asked for fewer
// nodes than it can form a sensible network with.
var ErrTooFewNodes = errors.New("kohonen: too few nodes requested")

// NodeID identifies a node by its position in the topology's build order;
// stable for the lifetime of a Kohonen (the topology never mutates).
type NodeID int

// Topology is a node count, an initial-weight function, and an edge list,
// built once by BuildGrid/BuildRing (or assembled by hand) and consumed
// by New.
type Topology struct {
	N      int
	Weight func(id NodeID) vector.Vector
	Edges  [][2]NodeID
}

// BuildGrid lays out an rows×cols orthogonal grid with 4-neighbourhood
// (right/bottom) edges, row-major NodeIDs, grounded in the teacher's
// builder.Grid(rows, cols) constructor (impl_grid.go): same row-major
// vertex order, same "emit right-then-bottom neighbour" edge order,
// adapted to build an edge list instead of calling into a core.Graph.
func BuildGrid(rows, cols int, weightAt func(r, c int) vector.Vector) (Topology, error) {
	if rows < 1 || cols < 1 {
		return Topology{}, ErrTooFewNodes
	}
	idx := func(r, c int) NodeID { return NodeID(r*cols + c) }
	var edges [][2]NodeID
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			u := idx(r, c)
			if c+1 < cols {
				edges = append(edges, [2]NodeID{u, idx(r, c+1)})
			}
			if r+1 < rows {
				edges = append(edges, [2]NodeID{u, idx(r+1, c)})
			}
		}
	}
	return Topology{
		N: rows * cols,
		Weight: func(id NodeID) vector.Vector {
			return weightAt(int(id)/cols, int(id)%cols)
		},
		Edges: edges,
	}, nil
}

// BuildRing lays out an n-node simple cycle, grounded in the teacher's
// builder.Cycle(n) constructor (impl_cycle.go): same ascending-index
// vertex order, same i -> (i+1)%n edge emission order.
func BuildRing(n int, weightAt func(i int) vector.Vector) (Topology, error) {
	const minRingNodes = 3
	if n < minRingNodes {
		return Topology{}, ErrTooFewNodes
	}
	edges := make([][2]NodeID, n)
	for i := 0; i < n; i++ {
		edges[i] = [2]NodeID{NodeID(i), NodeID((i + 1) % n)}
	}
	return Topology{
		N:      n,
		Weight: func(id NodeID) vector.Vector { return weightAt(int(id)) },
		Edges:  edges,
	}, nil
}
