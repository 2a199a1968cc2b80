package systems

import (
	"math"
	"slices"
)

// SpatialGrid buckets agent indices by the cell of their circle center.
// With a cell size of at least the contact distance, every contact lies in
// the same or an adjacent cell.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	originX  float64
	originY  float64
	cells    [][]int // flat grid of agent index lists
}

// NewSpatialGrid creates a grid covering [minX, maxX] x [minY, maxY].
// Points outside are clamped to the border cells.
func NewSpatialGrid(minX, minY, maxX, maxY, cellSize float64) *SpatialGrid {
	cols := int((maxX-minX)/cellSize) + 1
	rows := int((maxY-minY)/cellSize) + 1

	cells := make([][]int, cols*rows)
	for i := range cells {
		cells[i] = make([]int, 0, 4)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		originX:  minX,
		originY:  minY,
		cells:    cells,
	}
}

// Clear removes all agents from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an agent index at the given point.
func (g *SpatialGrid) Insert(idx int, x, y float64) {
	col, row := g.cellOf(x, y)
	c := row*g.cols + col
	g.cells[c] = append(g.cells[c], idx)
}

// forward neighbor offsets; together with the cell itself each adjacent
// cell pair is visited once.
var forward = [...][2]int{{1, 0}, {-1, 1}, {0, 1}, {1, 1}}

// Contacts rebuilds the grid from pop, verifies candidate pairs with the exact
// contact test, and appends them to dst in exhaustive-scan order.
func (g *SpatialGrid) Contacts(pop *Population, geom Geometry, dst []Contact) []Contact {
	g.Clear()
	for i, pos := range pop.Pos {
		c := geom.Center(*pos)
		g.Insert(i, c.X, c.Y)
	}

	start := len(dst)
	check := func(a, b int) {
		if a > b {
			a, b = b, a
		}
		if geom.InContact(*pop.Pos[a], *pop.Pos[b]) {
			dst = append(dst, Contact{I: a, J: b})
		}
	}

	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			cell := g.cells[row*g.cols+col]
			for x := 0; x < len(cell); x++ {
				for y := x + 1; y < len(cell); y++ {
					check(cell[x], cell[y])
				}
			}
			for _, off := range forward {
				nc, nr := col+off[0], row+off[1]
				if nc < 0 || nc >= g.cols || nr >= g.rows {
					continue
				}
				other := g.cells[nr*g.cols+nc]
				for _, a := range cell {
					for _, b := range other {
						check(a, b)
					}
				}
			}
		}
	}

	slices.SortFunc(dst[start:], func(a, b Contact) int {
		if a.I != b.I {
			return a.I - b.I
		}
		return a.J - b.J
	})
	return dst
}

// cellOf returns the clamped column and row for a point.
func (g *SpatialGrid) cellOf(x, y float64) (col, row int) {
	col = clampCell(math.Floor((x-g.originX)/g.cellSize), g.cols)
	row = clampCell(math.Floor((y-g.originY)/g.cellSize), g.rows)
	return col, row
}

func clampCell(v float64, n int) int {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v >= float64(n) {
		return n - 1
	}
	return int(v)
}
