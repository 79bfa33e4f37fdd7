package analysis

import (
	"fmt"
	"io"
	"slices"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/habitat/components"
)

// Heatmap counts visits per integer cell over a set of walks.
// Counts[i][j] is the cell at (MinX+i, MinY+j).
type Heatmap struct {
	MinX, MinY int
	Width      int
	Height     int
	Counts     [][]float64
}

// HeatmapCell is one row of a heatmap export.
type HeatmapCell struct {
	X     int     `csv:"x"`
	Y     int     `csv:"y"`
	Count float64 `csv:"count"`
}

// NewHeatmap bins every position of every history into unit cells centred
// on the integers spanned by the data.
func NewHeatmap(histories [][]components.Position) Heatmap {
	var all []components.Position
	for _, h := range histories {
		all = append(all, h...)
	}
	if len(all) == 0 {
		return Heatmap{}
	}

	minX, maxX, minY, maxY := all[0].X, all[0].X, all[0].Y, all[0].Y
	for _, p := range all {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	hm := Heatmap{
		MinX:   minX,
		MinY:   minY,
		Width:  maxX - minX + 1,
		Height: maxY - minY + 1,
		Counts: make([][]float64, maxX-minX+1),
	}

	dividers := make([]float64, hm.Height+1)
	for j := range dividers {
		dividers[j] = float64(minY+j) - 0.5
	}

	columns := make([][]float64, hm.Width)
	for _, p := range all {
		columns[p.X-minX] = append(columns[p.X-minX], float64(p.Y))
	}
	for i, ys := range columns {
		slices.Sort(ys)
		hm.Counts[i] = stat.Histogram(nil, dividers, ys, nil)
	}
	return hm
}

// At returns the count at cell (x, y), or 0 outside the map.
func (h Heatmap) At(x, y int) float64 {
	i, j := x-h.MinX, y-h.MinY
	if i < 0 || j < 0 || i >= h.Width || j >= h.Height {
		return 0
	}
	return h.Counts[i][j]
}

// Max returns the largest cell count.
func (h Heatmap) Max() float64 {
	var m float64
	for _, col := range h.Counts {
		for _, c := range col {
			m = max(m, c)
		}
	}
	return m
}

// Total returns the number of binned positions.
func (h Heatmap) Total() float64 {
	var t float64
	for _, col := range h.Counts {
		for _, c := range col {
			t += c
		}
	}
	return t
}

// Cells flattens the non-empty cells in x-major order.
func (h Heatmap) Cells() []HeatmapCell {
	var out []HeatmapCell
	for i, col := range h.Counts {
		for j, c := range col {
			if c > 0 {
				out = append(out, HeatmapCell{X: h.MinX + i, Y: h.MinY + j, Count: c})
			}
		}
	}
	return out
}

// WriteCSV exports the non-empty cells.
func (h Heatmap) WriteCSV(w io.Writer) error {
	if err := gocsv.Marshal(h.Cells(), w); err != nil {
		return fmt.Errorf("writing heatmap: %w", err)
	}
	return nil
}

var shades = []rune(" .:-=+*#%@")

// Render draws the heatmap as text, one row per y with y increasing upwards.
func (h Heatmap) Render(w io.Writer) error {
	peak := h.Max()
	for j := h.Height - 1; j >= 0; j-- {
		row := make([]rune, h.Width)
		for i := range row {
			idx := 0
			if peak > 0 {
				idx = int(h.Counts[i][j] / peak * float64(len(shades)-1))
			}
			row[i] = shades[idx]
		}
		if _, err := fmt.Fprintf(w, "%4d %s\n", h.MinY+j, string(row)); err != nil {
			return err
		}
	}
	return nil
}
