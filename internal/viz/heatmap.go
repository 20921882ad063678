package viz

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

const shades = " .:-=+*#%@"

// Heatmap shades a magnitude grid (rows are propagation steps) into at most
// width x height characters. Each character averages its block and is
// normalized to the brightest block.
func Heatmap(grid [][]float64, width, height int) string {
	if len(grid) == 0 || len(grid[0]) == 0 || width < 1 || height < 1 {
		return ""
	}

	rows := min(height, len(grid))
	cols := min(width, len(grid[0]))
	cells := make([][]float64, rows)
	block := make([]float64, 0, len(grid[0]))

	peak := 0.0
	for r := range cells {
		cells[r] = make([]float64, cols)
		r0, r1 := r*len(grid)/rows, (r+1)*len(grid)/rows
		for c := range cells[r] {
			c0, c1 := c*len(grid[0])/cols, (c+1)*len(grid[0])/cols
			block = block[:0]
			for i := r0; i < r1; i++ {
				for _, v := range grid[i][c0:c1] {
					if !math.IsNaN(v) && !math.IsInf(v, 0) {
						block = append(block, v)
					}
				}
			}
			if len(block) > 0 {
				cells[r][c] = floats.Sum(block) / float64(len(block))
			}
		}
		peak = math.Max(peak, floats.Max(cells[r]))
	}
	if peak == 0 {
		peak = 1
	}

	var b strings.Builder
	for _, row := range cells {
		for _, v := range row {
			i := int(v / peak * float64(len(shades)-1))
			b.WriteByte(shades[max(0, min(i, len(shades)-1))])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
