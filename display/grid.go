package display

import (
	"math"

	"github.com/moyoez/photobooth-go/types"
)

// Layout places n images in a near-square grid inside width x height.
// columns = ceil(sqrt(n)), rows = ceil(n/columns); image i goes to column i%columns+1,
// row i/columns+1.
func Layout(n, width, height int) types.GridView {
	if n <= 0 {
		return types.GridView{Cells: []types.GridCell{}}
	}
	columns := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + columns - 1) / columns

	cells := make([]types.GridCell, n)
	for i := range cells {
		cells[i] = types.GridCell{
			Index:  i,
			Column: i%columns + 1,
			Row:    i/columns + 1,
		}
	}
	return types.GridView{
		Columns:    columns,
		Rows:       rows,
		CellWidth:  width / columns,
		CellHeight: height / rows,
		Cells:      cells,
	}
}

// Grid holds the thumbnail slots of the overview. Slots are reused by index and only
// grow; Reset is the only way to drop them.
type Grid struct {
	slots []string
}

// Update assigns names to slots in order and returns the resulting view.
func (g *Grid) Update(names []string, width, height int) types.GridView {
	for i, name := range names {
		if i < len(g.slots) {
			g.slots[i] = name
			continue
		}
		g.slots = append(g.slots, name)
	}
	view := Layout(len(names), width, height)
	for i := range view.Cells {
		view.Cells[i].Name = g.slots[i]
	}
	return view
}

// Slots returns the number of allocated slots.
func (g *Grid) Slots() int {
	return len(g.slots)
}

// Reset drops every slot.
func (g *Grid) Reset() {
	g.slots = nil
}
