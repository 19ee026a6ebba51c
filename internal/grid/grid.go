// internal/grid/grid.go
//
// Tile layout generator. Layout is a pure function of geometry: the same
// inputs always yield the same cells, indexed row-major starting at 1 and
// centered horizontally on the canvas.
package grid

// DefaultWidth is the logical canvas width the browser client renders at.
const DefaultWidth = 1000

// Spec describes a rectangular board.
type Spec struct {
	Rows     int
	Cols     int
	TileSize float64
	Gap      float64
	Top      float64 // y of the first row
}

// Cell is the geometry of one tile.
type Cell struct {
	Index int     `json:"idx"` // 1-based, row-major
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
}

// Tiles returns Rows*Cols.
func (s Spec) Tiles() int { return s.Rows * s.Cols }

// Layout computes cell positions for s on a canvas of the given width.
// A non-positive width falls back to DefaultWidth.
func Layout(width float64, s Spec) []Cell {
	if s.Rows <= 0 || s.Cols <= 0 {
		return []Cell{}
	}
	if width <= 0 {
		width = DefaultWidth
	}
	rowWidth := float64(s.Cols)*s.TileSize + float64(s.Cols-1)*s.Gap
	startX := width/2 - rowWidth/2

	cells := make([]Cell, 0, s.Tiles())
	idx := 1
	for r := 0; r < s.Rows; r++ {
		for c := 0; c < s.Cols; c++ {
			cells = append(cells, Cell{
				Index: idx,
				X:     startX + float64(c)*(s.TileSize+s.Gap),
				Y:     s.Top + float64(r)*(s.TileSize+s.Gap),
				Size:  s.TileSize,
			})
			idx++
		}
	}
	return cells
}
