package plot

import "GroveWorld/internal/grove/entity"

// Allocator tracks claimed cells. It is not safe for concurrent use; the
// owner of the biome record serializes access.
type Allocator struct {
	grid     Grid
	capacity int
	claimed  map[Cell]struct{}
}

// NewAllocator caps claims at min(grid cells, maxPlots). maxPlots <= 0 means
// the grid is the only limit.
func NewAllocator(grid Grid, maxPlots int) *Allocator {
	capacity := grid.Cells()
	if maxPlots > 0 && maxPlots < capacity {
		capacity = maxPlots
	}
	return &Allocator{
		grid:     grid,
		capacity: capacity,
		claimed:  make(map[Cell]struct{}),
	}
}

// FromPlots rebuilds the claimed set from a biome's plots.
func FromPlots(grid Grid, maxPlots int, plots []entity.LandPlot) *Allocator {
	a := NewAllocator(grid, maxPlots)
	for _, p := range plots {
		a.claimed[Cell{X: p.GridX, Z: p.GridZ}] = struct{}{}
	}
	return a
}

func (a *Allocator) Grid() Grid {
	return a.grid
}

func (a *Allocator) Capacity() int {
	return a.capacity
}

func (a *Allocator) Claimed() int {
	return len(a.claimed)
}

func (a *Allocator) IsClaimed(c Cell) bool {
	_, ok := a.claimed[c]
	return ok
}

func (a *Allocator) Full() bool {
	return len(a.claimed) >= a.capacity
}

// FindAvailableCell scans row-major (z outer, x inner) for the first free cell.
func (a *Allocator) FindAvailableCell() (Cell, bool) {
	if a.Full() {
		return Cell{}, false
	}
	w, d := a.grid.Dims()
	for z := 0; z < d; z++ {
		for x := 0; x < w; x++ {
			c := Cell{X: x, Z: z}
			if !a.IsClaimed(c) {
				return c, true
			}
		}
	}
	return Cell{}, false
}

// Claim marks c claimed. It fails for cells outside the grid, cells already
// claimed, and when capacity is reached.
func (a *Allocator) Claim(c Cell) bool {
	if !a.grid.InGrid(c) || a.IsClaimed(c) || a.Full() {
		return false
	}
	a.claimed[c] = struct{}{}
	return true
}

// ClaimFirstAvailable folds find and claim into one step.
func (a *Allocator) ClaimFirstAvailable() (Cell, bool) {
	c, ok := a.FindAvailableCell()
	if !ok {
		return Cell{}, false
	}
	return c, a.Claim(c)
}
