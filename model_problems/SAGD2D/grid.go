package SAGD2D

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gosagd/types"
)

/*
	The grid is an arena of W*H cells stored row-major, index = y*W + x.
	Moore neighborhoods are precomputed into a CSR adjacency matrix: row i holds
	the arena indices of the neighbors of cell i in ascending order, which pins
	the order of neighbor transfers for a given activation order.
*/
type Grid struct {
	W, H  int
	cells []Cell
	adj   *sparse.CSR
}

// RowMajorPlacement enumerates every grid position once, row by row.
func RowMajorPlacement(w, h int) (placement []types.Position) {
	placement = make([]types.Position, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			placement = append(placement, types.Position{X: x, Y: y})
		}
	}
	return
}

// NewGrid places one cell per entry of placement, built by newCell, then
// verifies that every position was assigned exactly once. Each violation is
// reported to obs and the construction fails with ErrGridInvariant.
func NewGrid(w, h int, placement []types.Position, newCell func(p types.Position) Cell,
	obs Observer) (g *Grid, err error) {
	if w <= 0 || h <= 0 {
		err = fmt.Errorf("%w: grid dimensions must be positive, have %dx%d", ErrInvalidConfig, w, h)
		return
	}
	g = &Grid{
		W:     w,
		H:     h,
		cells: make([]Cell, w*h),
	}
	var (
		assigned   = make([]int, w*h)
		violations int
	)
	for _, p := range placement {
		if !g.InBounds(p) {
			violations++
			obs.notify(Event{Kind: EventOutOfBoundsPlacement, Pos: p,
				Message: fmt.Sprintf("position is outside the %dx%d grid", w, h)})
			continue
		}
		i := g.Index(p)
		if assigned[i] != 0 {
			violations++
			obs.notify(Event{Kind: EventDuplicatePlacement, Pos: p,
				Message: "position already holds a cell"})
			assigned[i]++
			continue
		}
		g.cells[i] = newCell(p)
		g.cells[i].Pos = p
		assigned[i]++
	}
	for i, count := range assigned {
		if count == 0 {
			violations++
			obs.notify(Event{Kind: EventMissingPlacement, Pos: g.PositionOf(i),
				Message: "position was never assigned a cell"})
		}
	}
	if violations != 0 {
		err = fmt.Errorf("%w: %d violations placing %d cells on a %dx%d grid",
			ErrGridInvariant, violations, len(placement), w, h)
		g = nil
		return
	}
	g.adj = mooreAdjacency(w, h)
	return
}

func mooreAdjacency(w, h int) *sparse.CSR {
	var (
		n      = w * h
		indptr = make([]int, n+1)
		ind    = make([]int, 0, 8*n)
	)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					xx, yy := x+dx, y+dy
					if (dx == 0 && dy == 0) || xx < 0 || xx >= w || yy < 0 || yy >= h {
						continue
					}
					ind = append(ind, yy*w+xx)
				}
			}
			indptr[y*w+x+1] = len(ind)
		}
	}
	data := make([]float64, len(ind))
	for i := range data {
		data[i] = 1
	}
	return sparse.NewCSR(n, n, indptr, ind, data)
}

func (g *Grid) Len() int { return len(g.cells) }

func (g *Grid) InBounds(p types.Position) bool {
	return p.X >= 0 && p.X < g.W && p.Y >= 0 && p.Y < g.H
}

func (g *Grid) Index(p types.Position) int { return p.Y*g.W + p.X }

func (g *Grid) PositionOf(i int) types.Position {
	return types.Position{X: i % g.W, Y: i / g.W}
}

// CellAt returns the cell at p, nil only when p is out of bounds.
func (g *Grid) CellAt(p types.Position) *Cell {
	if !g.InBounds(p) {
		return nil
	}
	return &g.cells[g.Index(p)]
}

// NeighborIndices returns the arena indices of the Moore neighbors of cell i.
// The slice aliases the adjacency storage and must not be modified.
func (g *Grid) NeighborIndices(i int) []int {
	raw := g.adj.RawMatrix()
	return raw.Ind[raw.Indptr[i]:raw.Indptr[i+1]]
}

// NeighborsOf lists the in-bounds Moore neighbors of p, without wraparound.
func (g *Grid) NeighborsOf(p types.Position) (nbs []types.Position) {
	if !g.InBounds(p) {
		return
	}
	idx := g.NeighborIndices(g.Index(p))
	nbs = make([]types.Position, len(idx))
	for n, j := range idx {
		nbs[n] = g.PositionOf(j)
	}
	return
}

// Adjacency exposes the neighbor relation as a read-only 0/1 matrix.
func (g *Grid) Adjacency() mat.Matrix { return g.adj }
