package document

import (
	"fmt"
	"math"
	"strconv"
)

const (
	// MaxBars caps how many items a bar chart shows.
	MaxBars = 10
	// MinLabelWidth is the narrowest bar slot that still gets a value label.
	MinLabelWidth = 8.0

	barMargin      = 10.0
	barLabelBand   = 6.0
	barGapRatio    = 0.25
	lineAnnotEvery = 5
	frameTitleBand = 9.0
	framePad       = 4.0
	legendRowH     = 6.0
	legendMinColW  = 30.0
	markerRadius   = 0.8
)

// Datum is one chart value with its category label. Percent, when
// HasPercent is set, overrides the computed share in pie legends.
type Datum struct {
	Label      string
	Value      float64
	Percent    float64
	HasPercent bool
}

// Collect adapts any series to chart data. Non-finite selector results
// become 0; a nil label selector numbers items from 1.
func Collect[T any](series []T, value func(T) float64, label func(T) string) []Datum {
	out := make([]Datum, 0, len(series))
	for i, item := range series {
		d := Datum{Label: strconv.Itoa(i + 1)}
		if value != nil {
			d.Value = clean(value(item))
		}
		if label != nil {
			d.Label = label(item)
		}
		out = append(out, d)
	}
	return out
}

// Bar is the computed geometry of one bar.
type Bar struct {
	Label      string
	Value      float64
	Rect       Rect
	ValueLabel string
	ShowValue  bool
}

// LinePoint is the computed position of one line-chart sample.
type LinePoint struct {
	Point
	Value    float64
	Annotate bool
}

// LineSeries is one named series of a line chart.
type LineSeries struct {
	Name   string
	Values []float64
}

// LegendEntry is one swatch-and-label row of a pie legend.
type LegendEntry struct {
	Label   string
	Percent float64
	Color   Color
	Text    string
}

// Slice is one pie wedge in degrees, clockwise from 12 o'clock.
type Slice struct {
	Start float64
	Sweep float64
	Color Color
}

// Charts draws bar, line and pie charts into rectangles.
type Charts struct {
	Style Style
}

// LayoutBars computes bar geometry inside plot for at most MaxBars items.
func LayoutBars(data []Datum, plot Rect) []Bar {
	if len(data) > MaxBars {
		data = data[:MaxBars]
	}
	n := len(data)
	if n == 0 {
		return nil
	}
	maxValue := 0.0
	for _, d := range data {
		if v := clean(d.Value); v > maxValue {
			maxValue = v
		}
	}
	slot := (plot.W - barMargin) / float64(n)
	if slot < 0 {
		slot = 0
	}
	baseline := plot.Bottom() - barLabelBand
	bars := make([]Bar, 0, n)
	for i, d := range data {
		v := math.Max(clean(d.Value), 0)
		h := Scale(v, maxValue, 0, plot.H-barMargin)
		if h < 0 {
			h = 0
		}
		x := plot.X + barMargin/2 + float64(i)*slot
		bars = append(bars, Bar{
			Label: d.Label,
			Value: v,
			Rect: Rect{
				X: x + slot*barGapRatio/2,
				Y: baseline - h,
				W: slot * (1 - barGapRatio),
				H: h,
			},
			ValueLabel: FormatCount(v),
			ShowValue:  slot > MinLabelWidth,
		})
	}
	return bars
}

// LayoutLine positions every value of a series inside plot against [0, maxValue].
// Every ceil(n/5)-th point is flagged for annotation.
func LayoutLine(values []float64, plot Rect, maxValue float64) []LinePoint {
	n := len(values)
	if n == 0 {
		return nil
	}
	step := int(math.Ceil(float64(n) / lineAnnotEvery))
	if step < 1 {
		step = 1
	}
	points := make([]LinePoint, 0, n)
	for i, v := range values {
		v = clean(v)
		points = append(points, LinePoint{
			Point: Point{
				X: IndexPosition(i, n, plot.X, plot.Right()),
				Y: Scale(v, maxValue, plot.Bottom(), plot.Y),
			},
			Value:    v,
			Annotate: i%step == 0,
		})
	}
	return points
}

// LayoutLegend builds one legend entry per datum in input order.
func LayoutLegend(data []Datum, palette Palette) []LegendEntry {
	total := 0.0
	for _, d := range data {
		total += math.Max(clean(d.Value), 0)
	}
	entries := make([]LegendEntry, 0, len(data))
	for i, d := range data {
		pct := clean(d.Percent)
		if !d.HasPercent {
			pct = Scale(math.Max(clean(d.Value), 0), total, 0, 100)
		}
		entries = append(entries, LegendEntry{
			Label:   d.Label,
			Percent: pct,
			Color:   palette.At(i),
			Text:    fmt.Sprintf("%s (%.1f%%)", d.Label, pct),
		})
	}
	return entries
}

// LayoutSlices computes proportional wedges, sweep = value/total*360.
func LayoutSlices(data []Datum, palette Palette) []Slice {
	total := 0.0
	for _, d := range data {
		total += math.Max(clean(d.Value), 0)
	}
	slices := make([]Slice, 0, len(data))
	start := 0.0
	for i, d := range data {
		sweep := Scale(math.Max(clean(d.Value), 0), total, 0, 360)
		slices = append(slices, Slice{Start: start, Sweep: sweep, Color: palette.At(i)})
		start += sweep
	}
	return slices
}

// Bar draws a titled bar chart of the first MaxBars items of data.
func (ch Charts) Bar(c Canvas, title string, rect Rect, data []Datum) []Bar {
	plot := drawFrame(c, title, rect)
	bars := LayoutBars(data, plot)
	if len(bars) == 0 {
		return nil
	}
	baseline := plot.Bottom() - barLabelBand
	c.SetDrawColor(colorGrid)
	c.SetLineWidth(0.2)
	c.Line(plot.X, baseline, plot.Right(), baseline)

	for i, b := range bars {
		c.SetFillColor(ch.Style.Palette.At(i))
		if b.Rect.H > 0 {
			c.Rect(b.Rect, StyleFill)
		}
		slotW := b.Rect.W / (1 - barGapRatio)
		center := b.Rect.X + b.Rect.W/2

		c.SetFont("", 6.5)
		c.SetTextColor(colorMuted)
		label := fitText(c, b.Label, slotW-1)
		DrawText(c, center-c.TextWidth(label)/2, baseline+4, label)

		if b.ShowValue {
			c.SetFont("B", 7)
			c.SetTextColor(colorText)
			vl := b.ValueLabel
			DrawText(c, center-c.TextWidth(vl)/2, b.Rect.Y-1.2, vl)
		}
	}
	return bars
}

// Line draws one or more series sharing a value axis. labels name the x
// positions and are shown at annotated points only.
func (ch Charts) Line(c Canvas, title string, rect Rect, labels []string, series ...LineSeries) [][]LinePoint {
	plot := drawFrame(c, title, rect)
	maxValue := 0.0
	count := 0
	for _, s := range series {
		if len(s.Values) > count {
			count = len(s.Values)
		}
		for _, v := range s.Values {
			if v = clean(v); v > maxValue {
				maxValue = v
			}
		}
	}
	if count == 0 {
		return nil
	}

	// Leave room for x labels below and the legend above.
	area := Rect{X: plot.X + 2, Y: plot.Y + 6, W: plot.W - 4, H: plot.H - 12}
	c.SetDrawColor(colorGrid)
	c.SetLineWidth(0.1)
	for i := 0; i <= 4; i++ {
		y := Scale(float64(i), 4, area.Bottom(), area.Y)
		c.Line(area.X, y, area.Right(), y)
	}

	out := make([][]LinePoint, 0, len(series))
	for si, s := range series {
		color := ch.Style.Palette.At(si)
		points := LayoutLine(s.Values, area, maxValue)
		out = append(out, points)

		c.SetDrawColor(color)
		c.SetLineWidth(0.6)
		for i := 1; i < len(points); i++ {
			c.Line(points[i-1].X, points[i-1].Y, points[i].X, points[i].Y)
		}
		c.SetFillColor(color)
		c.SetFont("", 6)
		c.SetTextColor(colorText)
		for _, p := range points {
			c.Circle(p.X, p.Y, markerRadius, StyleFill)
			if p.Annotate {
				vl := FormatCount(p.Value)
				DrawText(c, p.X-c.TextWidth(vl)/2, p.Y-1.8, vl)
			}
		}

		// Legend swatch in the top band.
		lx := area.X + float64(si)*32
		c.Rect(Rect{X: lx, Y: plot.Y, W: 3, H: 3}, StyleFill)
		c.SetFont("", 7)
		DrawText(c, lx+4.5, plot.Y+2.6, s.Name)
	}

	if len(out) > 0 {
		c.SetFont("", 6)
		c.SetTextColor(colorMuted)
		for i, p := range out[0] {
			if !p.Annotate || i >= len(labels) {
				continue
			}
			label := fitText(c, labels[i], 18)
			DrawText(c, p.X-c.TextWidth(label)/2, area.Bottom()+4.5, label)
		}
	}
	return out
}

// Pie draws a circle with a color-keyed legend of "label (p%)" rows. With
// Style.PieWedges set, the circle is filled with proportional wedges.
func (ch Charts) Pie(c Canvas, title string, rect Rect, data []Datum) []LegendEntry {
	plot := drawFrame(c, title, rect)
	if len(data) == 0 {
		return nil
	}
	radius := math.Min(plot.W/4, plot.H/2) - 2
	if radius < 1 {
		radius = 1
	}
	cx := plot.X + plot.W/4
	cy := plot.Y + plot.H/2

	if ch.Style.PieWedges {
		for _, s := range LayoutSlices(data, ch.Style.Palette) {
			if s.Sweep <= 0 {
				continue
			}
			c.SetFillColor(s.Color)
			c.Polygon(wedgePoints(cx, cy, radius, s.Start, s.Sweep), StyleFill)
		}
	}
	c.SetDrawColor(colorPrimary)
	c.SetLineWidth(0.4)
	c.Circle(cx, cy, radius, StyleStroke)

	entries := LayoutLegend(data, ch.Style.Palette)
	drawLegend(c, entries, Rect{X: plot.X + plot.W/2 + 4, Y: plot.Y, W: plot.W/2 - 4, H: plot.H})
	return entries
}

// drawLegend stacks entries top to bottom inside area. Entries that do not
// fit wrap into further columns; when the columns run out the rows shrink,
// so every entry is always drawn.
func drawLegend(c Canvas, entries []LegendEntry, area Rect) {
	if len(entries) == 0 || area.W <= 0 || area.H <= 0 {
		return
	}
	rowH := legendRowH
	perCol := max(int(area.H/rowH), 1)
	cols := (len(entries) + perCol - 1) / perCol
	if maxCols := max(int(area.W/legendMinColW), 1); cols > maxCols {
		cols = maxCols
		perCol = (len(entries) + cols - 1) / cols
		rowH = area.H / float64(perCol)
	}
	perCol = min(perCol, len(entries))
	colW := area.W / float64(cols)
	top := area.Y + (area.H-rowH*float64(perCol))/2
	swatch := math.Min(3.5, rowH*0.6)

	c.SetFont("", math.Min(8, 8*rowH/legendRowH))
	c.SetTextColor(colorText)
	for i, e := range entries {
		x := area.X + float64(i/perCol)*colW
		y := top + float64(i%perCol)*rowH
		c.SetFillColor(e.Color)
		c.Rect(Rect{X: x, Y: y + (rowH-swatch)/2, W: swatch, H: swatch}, StyleFill)
		DrawText(c, x+swatch+2.5, y+rowH*2/3, fitText(c, e.Text, colW-swatch-3.5))
	}
}

// drawFrame draws the chart panel and title and returns the inner plot area.
func drawFrame(c Canvas, title string, rect Rect) Rect {
	c.SetFillColor(colorPanel)
	c.SetDrawColor(colorGrid)
	c.SetLineWidth(0.3)
	c.Rect(rect, StyleFillStroke)
	c.SetFont("B", 10)
	c.SetTextColor(colorText)
	DrawText(c, rect.X+framePad, rect.Y+6, title)
	return Rect{
		X: rect.X + framePad,
		Y: rect.Y + frameTitleBand,
		W: rect.W - 2*framePad,
		H: rect.H - frameTitleBand - framePad,
	}
}

func wedgePoints(cx, cy, r, start, sweep float64) []Point {
	steps := int(math.Ceil(sweep / 5))
	if steps < 1 {
		steps = 1
	}
	points := make([]Point, 0, steps+2)
	points = append(points, Point{X: cx, Y: cy})
	for i := 0; i <= steps; i++ {
		deg := start + sweep*float64(i)/float64(steps)
		rad := (deg - 90) * math.Pi / 180
		points = append(points, Point{X: cx + r*math.Cos(rad), Y: cy + r*math.Sin(rad)})
	}
	return points
}
