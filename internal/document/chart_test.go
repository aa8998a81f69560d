package document

import (
	"fmt"
	"math"
	"testing"
)

func TestLayoutBarsPreservesOrder(t *testing.T) {
	data := []Datum{
		{Label: "a", Value: 40},
		{Label: "b", Value: 250},
		{Label: "c", Value: 3},
		{Label: "d", Value: 250},
		{Label: "e", Value: 0},
		{Label: "f", Value: 1200},
	}
	bars := LayoutBars(data, Rect{X: 0, Y: 0, W: 180, H: 60})
	if len(bars) != len(data) {
		t.Fatalf("expected %d bars, got %d", len(data), len(bars))
	}
	for i := range bars {
		for j := range bars {
			if data[i].Value > data[j].Value && bars[i].Rect.H <= bars[j].Rect.H {
				t.Fatalf("bar %s (%v) not taller than bar %s (%v)", data[i].Label, bars[i].Rect.H, data[j].Label, bars[j].Rect.H)
			}
			if data[i].Value == data[j].Value && bars[i].Rect.H != bars[j].Rect.H {
				t.Fatalf("equal values got different heights")
			}
		}
	}
	if bars[5].Rect.H != 60-barMargin {
		t.Fatalf("max bar should use full height, got %v", bars[5].Rect.H)
	}
	if bars[5].ValueLabel != "1.2k" {
		t.Fatalf("expected abbreviated label, got %q", bars[5].ValueLabel)
	}
	if bars[0].ValueLabel != "40" {
		t.Fatalf("expected raw label, got %q", bars[0].ValueLabel)
	}
}

func TestLayoutBarsCapsAtTen(t *testing.T) {
	data := make([]Datum, 0, 12)
	for i := 0; i < 12; i++ {
		data = append(data, Datum{Label: fmt.Sprintf("item-%d", i), Value: float64(i)})
	}
	bars := LayoutBars(data, Rect{W: 180, H: 60})
	if len(bars) != MaxBars {
		t.Fatalf("expected %d bars, got %d", MaxBars, len(bars))
	}
	// The cap also bounds the maximum: item-9 is the tallest bar.
	if bars[9].Rect.H != 60-barMargin {
		t.Fatalf("expected item-9 at full height, got %v", bars[9].Rect.H)
	}
}

func TestLayoutBarsSuppressesNarrowLabels(t *testing.T) {
	data := make([]Datum, 10)
	for i := range data {
		data[i] = Datum{Label: "x", Value: float64(i + 1)}
	}
	wide := LayoutBars(data[:3], Rect{W: 180, H: 60})
	for _, b := range wide {
		if !b.ShowValue {
			t.Fatalf("expected value labels on wide bars")
		}
	}
	narrow := LayoutBars(data, Rect{W: 60, H: 60})
	for _, b := range narrow {
		if b.ShowValue {
			t.Fatalf("expected value labels suppressed on narrow bars")
		}
	}
}

func TestLayoutBarsZeroMax(t *testing.T) {
	bars := LayoutBars([]Datum{{Value: 0}, {Value: math.NaN()}}, Rect{W: 100, H: 50})
	for _, b := range bars {
		if b.Rect.H != 0 {
			t.Fatalf("expected flat bars, got %v", b.Rect.H)
		}
	}
}

func TestLayoutLineAnnotations(t *testing.T) {
	values := make([]float64, 15)
	for i := range values {
		values[i] = float64(i * 10)
	}
	plot := Rect{X: 10, Y: 20, W: 140, H: 50}
	points := LayoutLine(values, plot, 140)
	if len(points) != 15 {
		t.Fatalf("expected 15 points, got %d", len(points))
	}
	annotated := 0
	for i, p := range points {
		if p.Annotate {
			annotated++
			if i%3 != 0 {
				t.Fatalf("unexpected annotation at %d", i)
			}
		}
	}
	if annotated != 5 {
		t.Fatalf("expected 5 annotations, got %d", annotated)
	}
	if points[0].X != plot.X || points[14].X != plot.Right() {
		t.Fatalf("points should span the plot width: %v .. %v", points[0].X, points[14].X)
	}
	if points[0].Y != plot.Bottom() || points[14].Y != plot.Y {
		t.Fatalf("values should map bottom-up: %v .. %v", points[0].Y, points[14].Y)
	}
}

func TestLayoutLineSinglePoint(t *testing.T) {
	points := LayoutLine([]float64{7}, Rect{X: 0, Y: 0, W: 100, H: 10}, 7)
	if len(points) != 1 || points[0].X != 50 || !points[0].Annotate {
		t.Fatalf("unexpected single point layout: %+v", points)
	}
}

func TestLayoutLegendUsesGivenPercentages(t *testing.T) {
	data := []Datum{
		{Label: "Mobile", Value: 876, Percent: 68.2, HasPercent: true},
		{Label: "Desktop", Value: 245, Percent: 19.1, HasPercent: true},
		{Label: "Tablet", Value: 163, Percent: 12.7, HasPercent: true},
	}
	entries := LayoutLegend(data, DefaultStyle().Palette)
	want := []string{"Mobile (68.2%)", "Desktop (19.1%)", "Tablet (12.7%)"}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, e := range entries {
		if e.Text != want[i] {
			t.Fatalf("entry %d: expected %q, got %q", i, want[i], e.Text)
		}
	}
}

func TestLayoutSlicesSweep(t *testing.T) {
	slices := LayoutSlices([]Datum{{Value: 1}, {Value: 3}}, DefaultStyle().Palette)
	if slices[0].Sweep != 90 || slices[1].Start != 90 || slices[1].Sweep != 270 {
		t.Fatalf("unexpected slices: %+v", slices)
	}
}

func TestChartsEmptySeriesDrawFrameOnly(t *testing.T) {
	ch := Charts{Style: DefaultStyle()}
	rect := Rect{X: 10, Y: 10, W: 180, H: 70}
	for name, draw := range map[string]func(Canvas){
		"bar":  func(c Canvas) { ch.Bar(c, "Empty", rect, nil) },
		"line": func(c Canvas) { ch.Line(c, "Empty", rect, nil) },
		"pie":  func(c Canvas) { ch.Pie(c, "Empty", rect, nil) },
	} {
		rec := newRecorder()
		draw(rec)
		if len(rec.ops) != 2 || rec.ops[0].kind != "rect" || rec.ops[1].text != "Empty" {
			t.Fatalf("%s: expected frame and title only, got %+v", name, rec.ops)
		}
	}
}

func TestChartsPieWedges(t *testing.T) {
	data := []Datum{{Label: "a", Value: 1}, {Label: "b", Value: 1}}
	rec := newRecorder()
	Charts{Style: DefaultStyle()}.Pie(rec, "Pie", Rect{W: 180, H: 70}, data)
	if rec.count("polygon") != 0 {
		t.Fatalf("legend-only pie should not draw wedges")
	}
	style := DefaultStyle()
	style.PieWedges = true
	rec = newRecorder()
	Charts{Style: style}.Pie(rec, "Pie", Rect{W: 180, H: 70}, data)
	if rec.count("polygon") != 2 {
		t.Fatalf("expected 2 wedges, got %d", rec.count("polygon"))
	}
	if rec.count("circle:D") != 1 {
		t.Fatalf("expected circle outline")
	}
}

func TestCollectTreatsNaNAsZero(t *testing.T) {
	type row struct{ v float64 }
	data := Collect([]row{{1}, {math.NaN()}, {math.Inf(1)}}, func(r row) float64 { return r.v }, nil)
	if data[1].Value != 0 || data[2].Value != 0 {
		t.Fatalf("expected non-finite values as 0: %+v", data)
	}
	if data[0].Label != "1" || data[2].Label != "3" {
		t.Fatalf("expected index labels: %+v", data)
	}
}

func TestChartsPieLegendDrawsEveryEntry(t *testing.T) {
	for _, n := range []int{3, 14, 40} {
		data := make([]Datum, n)
		for i := range data {
			data[i] = Datum{Label: fmt.Sprintf("d%02d", i+1), Value: 1}
		}
		rect := Rect{W: 180, H: 78}
		rec := newRecorder()
		entries := Charts{Style: DefaultStyle()}.Pie(rec, "Devices", rect, data)
		if len(entries) != n {
			t.Fatalf("n=%d: expected %d entries, got %d", n, n, len(entries))
		}
		for _, e := range entries {
			if rec.countText(e.Text) != 1 {
				t.Fatalf("n=%d: legend entry %q not drawn", n, e.Text)
			}
		}
		for _, op := range rec.ops {
			if op.kind == "text" && op.y > rect.Bottom()-framePad {
				t.Fatalf("n=%d: %q drawn below the plot area at y=%.1f", n, op.text, op.y)
			}
		}
	}
}
