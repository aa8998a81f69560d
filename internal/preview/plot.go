// Package preview renders analytics data as terminal text: braille line plots
// and aligned tables. It mirrors the sections of the exported document.
package preview

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/verte-zerg/menureport/internal/document"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

type lineStyle struct {
	name   string
	period int
	on     int
}

type ansiColor struct {
	name string
	code string
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var lineStyles = []lineStyle{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
}

var colorPalette = []ansiColor{
	{name: "blue", code: "\x1b[34m"},
	{name: "magenta", code: "\x1b[35m"},
	{name: "yellow", code: "\x1b[33m"},
	{name: "green", code: "\x1b[32m"},
}

// PlotOptions tunes a plot. Zero values pick defaults.
type PlotOptions struct {
	Width      int
	Height     int
	ForceColor bool
	// XLabels are printed under the first and last column when present.
	XLabels []string
}

// PlotSeries renders series onto one value axis running from zero to the
// largest value of any series.
func PlotSeries(w io.Writer, title string, series []Series, opts PlotOptions) error {
	series = filterSeries(series)
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	if len(series) == 0 {
		_, err := fmt.Fprintln(w, "(no data)")
		return err
	}

	height := opts.Height
	if height <= 0 {
		height = defaultPlotHeight
	}
	axisLabels, axisWidth := makeAxisLabels(sharedMax(series), height)
	width := opts.Width
	if width <= 0 {
		width = PlotWidthFor(terminalWidth(), axisWidth)
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	maxVal := sharedMax(series)
	if maxVal <= 0 {
		maxVal = 1
	}
	seriesCells := make([][][]uint8, len(series))
	for si, s := range series {
		seriesCells[si] = makeCells(height, width)
		style := lineStyles[si%len(lineStyles)]
		prevX, prevY := -1, -1
		for x, v := range resampleSeries(s.Values, width) {
			px := x * 2
			py := valueToRow(v, maxVal, height*4)
			if prevX >= 0 {
				drawLine(prevX, prevY, px, py, func(dx, dy int) {
					if style.shouldPlot(dx) {
						setBrailleDot(seriesCells[si], dx, dy)
					}
				})
			} else {
				setBrailleDot(seriesCells[si], px, py)
			}
			prevX, prevY = px, py
		}
	}

	useColor := shouldUseColor(w, opts.ForceColor)
	for y := 0; y < height; y++ {
		var row strings.Builder
		row.WriteString(runewidth.FillLeft(axisLabels[y], axisWidth))
		row.WriteString(axisSeparator)
		for x := 0; x < width; x++ {
			mask, colorIdx := composeCell(seriesCells, x, y)
			ch := brailleFromMask(mask)
			if useColor && colorIdx >= 0 {
				row.WriteString(colorPalette[colorIdx%len(colorPalette)].code)
				row.WriteRune(ch)
				row.WriteString(colorReset)
			} else {
				row.WriteRune(ch)
			}
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	if n := len(opts.XLabels); n > 0 {
		pad := strings.Repeat(" ", axisWidth+runewidth.StringWidth(axisSeparator))
		first, last := opts.XLabels[0], opts.XLabels[n-1]
		gap := width - runewidth.StringWidth(first) - runewidth.StringWidth(last)
		line := first
		if n > 1 && gap > 0 {
			line += strings.Repeat(" ", gap) + last
		}
		if _, err := fmt.Fprintln(w, pad+line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, renderLegend(series, useColor))
	return err
}

func filterSeries(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}

func sharedMax(series []Series) float64 {
	maxVal := 0.0
	for _, s := range series {
		for _, v := range s.Values {
			if !math.IsNaN(v) && !math.IsInf(v, 0) && v > maxVal {
				maxVal = v
			}
		}
	}
	return maxVal
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth, axisWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	plotWidth := totalWidth - axisWidth - runewidth.StringWidth(axisSeparator)
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// makeAxisLabels labels the top, middle and bottom rows with real values.
func makeAxisLabels(maxVal float64, height int) ([]string, int) {
	labels := make([]string, height)
	labels[0] = document.FormatCount(maxVal)
	if height > 2 {
		labels[height/2] = document.FormatCount(maxVal * float64(height-1-height/2) / float64(height-1))
	}
	if height > 1 {
		labels[height-1] = "0"
	}
	width := 0
	for _, l := range labels {
		width = max(width, runewidth.StringWidth(l))
	}
	return labels, width
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return cells
}

func composeCell(seriesCells [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	colorIdx := -1
	for i, cells := range seriesCells {
		if y < 0 || y >= len(cells) || x < 0 || x >= len(cells[y]) {
			continue
		}
		cellMask := cells[y][x]
		if cellMask == 0 {
			continue
		}
		if colorIdx == -1 {
			colorIdx = i
		}
		mask |= cellMask
	}
	return mask, colorIdx
}

func (ls lineStyle) shouldPlot(x int) bool {
	if ls.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%ls.period < ls.on
}

// resampleSeries averages down or interpolates up to exactly width values.
func resampleSeries(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	switch {
	case len(values) == width:
		copy(out, values)
	case len(values) > width:
		for i := 0; i < width; i++ {
			start := i * len(values) / width
			end := max((i+1)*len(values)/width, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case len(values) == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		for i := 0; i < width; i++ {
			pos := float64(i) * float64(len(values)-1) / float64(width-1)
			idx := int(math.Floor(pos))
			if idx >= len(values)-1 {
				out[i] = values[len(values)-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

func valueToRow(v, maxVal float64, height int) int {
	if height <= 1 || math.IsNaN(v) {
		return height - 1
	}
	row := int(math.Round((1 - v/maxVal) * float64(height-1)))
	return min(max(row, 0), height-1)
}

func renderLegend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	marker := brailleFromMask(0x01)
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%s)", marker, s.Name, lineStyles[i%len(lineStyles)].name)
		if useColor {
			label = colorPalette[i%len(colorPalette)].code + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

// drawLine walks the Bresenham line between two dot coordinates.
func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func setBrailleDot(cells [][]uint8, x, y int) {
	cellY, cellX := y/4, x/2
	if y < 0 || x < 0 || cellY >= len(cells) || cellX >= len(cells[cellY]) {
		return
	}
	cells[cellY][cellX] |= brailleDotMask(x%2, y%4)
}

// brailleDotMask maps a dot inside a 2x4 cell to its Unicode braille bit.
func brailleDotMask(x, y int) uint8 {
	left := [4]uint8{0x01, 0x02, 0x04, 0x40}
	right := [4]uint8{0x08, 0x10, 0x20, 0x80}
	if x == 0 {
		return left[y]
	}
	return right[y]
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
