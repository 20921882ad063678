package export

import (
	"fmt"
	"math"
	"strings"
)

// Series is one named line of a curve chart.
type Series struct {
	Name  string
	Color string
	Y     []float64
}

var heatStops = [][3]float64{
	{10, 10, 10},
	{40, 20, 120},
	{200, 40, 90},
	{250, 160, 30},
	{255, 255, 200},
}

// heatColor maps v in [0, 1] onto a dark-to-bright ramp.
func heatColor(v float64) string {
	if math.IsNaN(v) || v <= 0 {
		v = 0
	}
	if v >= 1 {
		v = 1
	}
	pos := v * float64(len(heatStops)-1)
	i := int(pos)
	if i >= len(heatStops)-1 {
		i = len(heatStops) - 2
	}
	t := pos - float64(i)
	a, b := heatStops[i], heatStops[i+1]
	return fmt.Sprintf("#%02x%02x%02x",
		int(a[0]+(b[0]-a[0])*t),
		int(a[1]+(b[1]-a[1])*t),
		int(a[2]+(b[2]-a[2])*t))
}

// pool reduces a grid to at most rows x cols cells by taking the maximum
// over each block.
func pool(grid [][]float64, rows, cols int) [][]float64 {
	srcRows, srcCols := len(grid), len(grid[0])
	if rows > srcRows {
		rows = srcRows
	}
	if cols > srcCols {
		cols = srcCols
	}

	out := make([][]float64, rows)
	for r := range out {
		out[r] = make([]float64, cols)
		r0, r1 := r*srcRows/rows, (r+1)*srcRows/rows
		for c := range out[r] {
			c0, c1 := c*srcCols/cols, (c+1)*srcCols/cols
			peak := 0.0
			for i := r0; i < r1; i++ {
				for j := c0; j < c1; j++ {
					if v := grid[i][j]; v > peak {
						peak = v
					}
				}
			}
			out[r][c] = peak
		}
	}
	return out
}

// HeatmapSVG renders a magnitude grid with propagation distance running
// down the image. Values are normalized to the grid maximum.
func HeatmapSVG(grid [][]float64, width, height int) string {
	if len(grid) == 0 || len(grid[0]) == 0 || width < 1 || height < 1 {
		return ""
	}

	cells := pool(grid, height, width)
	peak := 0.0
	for _, row := range cells {
		for _, v := range row {
			if v > peak {
				peak = v
			}
		}
	}
	if peak == 0 {
		peak = 1
	}

	cw := float64(width) / float64(len(cells[0]))
	ch := float64(height) / float64(len(cells))

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for r, row := range cells {
		for c, v := range row {
			sb.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>
`, float64(c)*cw, float64(r)*ch, cw, ch, heatColor(v/peak)))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// CurvesSVG draws every series against a shared x axis and bounds.
func CurvesSVG(x []float64, series []Series, width, height int) string {
	if len(x) < 2 || len(series) == 0 {
		return ""
	}

	minX, maxX := x[0], x[len(x)-1]
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s.Y {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			minY = math.Min(minY, v)
			maxY = math.Max(maxY, v)
		}
	}
	if math.IsInf(minY, 1) {
		minY, maxY = 0, 1
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for n, s := range series {
		if len(s.Y) < 2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, s.Color))

		for i, v := range s.Y {
			if i >= len(x) {
				break
			}
			px := (x[i] - minX) / rangeX * float64(width)
			py := float64(height) - (v-minY)/rangeY*float64(height)

			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", px, py))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px, py))
			}
		}
		sb.WriteString("\"/>\n")

		sb.WriteString(fmt.Sprintf(`<text x="8" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>
`, 16*(n+1), s.Color, s.Name))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
