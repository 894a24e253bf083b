package display

import (
	"math"
	"testing"
)

func TestLayoutGridMath(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5, 9, 10} {
		view := Layout(n, 1500, 1000)

		wantCols := int(math.Ceil(math.Sqrt(float64(n))))
		wantRows := int(math.Ceil(float64(n) / float64(wantCols)))
		if view.Columns != wantCols || view.Rows != wantRows {
			t.Errorf("n=%d: expected %dx%d, got %dx%d", n, wantCols, wantRows, view.Columns, view.Rows)
		}
		if view.CellWidth != 1500/wantCols || view.CellHeight != 1000/wantRows {
			t.Errorf("n=%d: unexpected cell size %dx%d", n, view.CellWidth, view.CellHeight)
		}
		if len(view.Cells) != n {
			t.Fatalf("n=%d: expected %d cells, got %d", n, n, len(view.Cells))
		}

		seen := make(map[[2]int]bool)
		for i, cell := range view.Cells {
			if cell.Index != i {
				t.Errorf("n=%d: cell %d has index %d", n, i, cell.Index)
			}
			if cell.Column < 1 || cell.Column > view.Columns || cell.Row < 1 || cell.Row > view.Rows {
				t.Errorf("n=%d: cell %d out of range at (%d,%d)", n, i, cell.Column, cell.Row)
			}
			pos := [2]int{cell.Column, cell.Row}
			if seen[pos] {
				t.Errorf("n=%d: position (%d,%d) used twice", n, cell.Column, cell.Row)
			}
			seen[pos] = true
		}
	}
}

func TestLayoutSpecificPositions(t *testing.T) {
	view := Layout(5, 1500, 1000)
	// 3 columns, 2 rows
	want := [][2]int{{1, 1}, {2, 1}, {3, 1}, {1, 2}, {2, 2}}
	for i, cell := range view.Cells {
		if cell.Column != want[i][0] || cell.Row != want[i][1] {
			t.Errorf("cell %d: expected (%d,%d), got (%d,%d)", i, want[i][0], want[i][1], cell.Column, cell.Row)
		}
	}
}

func TestLayoutEmpty(t *testing.T) {
	view := Layout(0, 1500, 1000)
	if view.Columns != 0 || len(view.Cells) != 0 {
		t.Errorf("Expected empty layout, got %+v", view)
	}
}

func TestGridSlotsGrowAndAreReused(t *testing.T) {
	var g Grid
	g.Update([]string{"a.jpg"}, 1500, 1000)
	g.Update([]string{"a.jpg", "b.jpg", "c.jpg"}, 1500, 1000)
	if g.Slots() != 3 {
		t.Fatalf("Expected 3 slots, got %d", g.Slots())
	}

	view := g.Update([]string{"x.jpg"}, 1500, 1000)
	if g.Slots() != 3 {
		t.Errorf("Slots must not shrink mid-session, got %d", g.Slots())
	}
	if len(view.Cells) != 1 || view.Cells[0].Name != "x.jpg" {
		t.Errorf("Expected slot 0 reused for x.jpg, got %+v", view.Cells)
	}

	g.Reset()
	if g.Slots() != 0 {
		t.Errorf("Expected no slots after reset, got %d", g.Slots())
	}
}
