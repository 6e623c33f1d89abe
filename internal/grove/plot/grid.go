package plot

import (
	"math"

	"GroveWorld/internal/grove/entity"
)

// Grid overlays fixed square cells on the world rectangle starting at
// (OriginX, OriginZ).
type Grid struct {
	Width    float64
	Depth    float64
	CellSize float64
	OriginX  float64
	OriginZ  float64
}

// Centered returns a grid whose world rectangle is centered on (0, 0).
func Centered(width, depth, cellSize float64) Grid {
	return Grid{
		Width:    width,
		Depth:    depth,
		CellSize: cellSize,
		OriginX:  -width / 2,
		OriginZ:  -depth / 2,
	}
}

type Cell struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// Dims returns floor(width/cell) by floor(depth/cell).
func (g Grid) Dims() (int, int) {
	if g.CellSize <= 0 || g.Width <= 0 || g.Depth <= 0 {
		return 0, 0
	}
	return int(math.Floor(g.Width / g.CellSize)), int(math.Floor(g.Depth / g.CellSize))
}

func (g Grid) Cells() int {
	w, d := g.Dims()
	return w * d
}

func (g Grid) InGrid(c Cell) bool {
	w, d := g.Dims()
	return c.X >= 0 && c.Z >= 0 && c.X < w && c.Z < d
}

// CellToWorldBounds is a pure coordinate transform; it does not check InGrid.
func (g Grid) CellToWorldBounds(c Cell) entity.Bounds {
	startX := g.OriginX + float64(c.X)*g.CellSize
	startZ := g.OriginZ + float64(c.Z)*g.CellSize
	return entity.Bounds{
		StartX:  startX,
		StartZ:  startZ,
		EndX:    startX + g.CellSize,
		EndZ:    startZ + g.CellSize,
		CenterX: startX + g.CellSize/2,
		CenterZ: startZ + g.CellSize/2,
	}
}

// CellAt maps a world point to the cell holding it.
func (g Grid) CellAt(x, z float64) (Cell, bool) {
	if g.CellSize <= 0 {
		return Cell{}, false
	}
	c := Cell{
		X: int(math.Floor((x - g.OriginX) / g.CellSize)),
		Z: int(math.Floor((z - g.OriginZ) / g.CellSize)),
	}
	if !g.InGrid(c) {
		return Cell{}, false
	}
	return c, true
}
