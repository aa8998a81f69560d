package document

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/menureport/internal/generator"
	"github.com/verte-zerg/menureport/internal/model"
)

var testNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

func sampleReport(opts model.ExportOptions) Report {
	return Report{
		Data:        generator.New(1).Analytics(30, testNow),
		Options:     opts,
		Subject:     "Test Cafe",
		GeneratedAt: testNow,
	}
}

func TestAssembleAllSections(t *testing.T) {
	rec := newRecorder()
	res, err := Assemble(rec, sampleReport(model.DefaultExportOptions()), DefaultStyle())
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	want := []SectionKind{
		SectionCover,
		SectionMetricCards,
		SectionTrendChart,
		SectionPopularChart,
		SectionCategoryChart,
		SectionDeviceChart,
		SectionPopularTable,
		SectionCategoryTable,
		SectionFooter,
	}
	if !reflect.DeepEqual(res.Sections, want) {
		t.Fatalf("unexpected sections: %v", res.Sections)
	}
	if res.Pages != rec.pages {
		t.Fatalf("layout reports %d pages, canvas has %d", res.Pages, rec.pages)
	}
	if res.Pages < 2 {
		t.Fatalf("expected charts to spill onto more pages, got %d", res.Pages)
	}
	if !rec.hasTextPrefix("Test Cafe | ") {
		t.Fatalf("expected footer summary line")
	}
	for _, op := range rec.ops {
		if op.kind == "text" && strings.HasPrefix(op.text, "Test Cafe | ") {
			if op.page != rec.pages {
				t.Fatalf("footer drawn on page %d, last page is %d", op.page, rec.pages)
			}
		}
	}
}

func TestAssembleWithoutCharts(t *testing.T) {
	opts := model.DefaultExportOptions()
	opts.IncludeCharts = false
	rec := newRecorder()
	res, err := Assemble(rec, sampleReport(opts), DefaultStyle())
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	for _, s := range res.Sections {
		if s.IsChart() {
			t.Fatalf("chart section %s rendered with charts disabled", s)
		}
	}
	for _, title := range []string{"Views & Scans Trend", "Most Popular Items", "Device Breakdown"} {
		if rec.countText(title) != 0 {
			t.Fatalf("chart title %q drawn with charts disabled", title)
		}
	}
	if rec.count("circle:F") != 0 {
		t.Fatalf("line markers drawn with charts disabled")
	}
}

func TestAssembleCapsBarChartButNotTable(t *testing.T) {
	r := sampleReport(model.DefaultExportOptions())
	r.Data.PopularItems = nil
	for i := 0; i < 12; i++ {
		r.Data.PopularItems = append(r.Data.PopularItems, model.PopularItem{
			Name:     fmt.Sprintf("Dish%c", 'A'+i),
			Category: "Mains",
			Views:    500 - i*10,
		})
	}
	rec := newRecorder()
	if _, err := Assemble(rec, r, DefaultStyle()); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	// Bar labels plus table cells for the first ten, table cells only for the rest.
	for i := 0; i < 10; i++ {
		name := fmt.Sprintf("Dish%c", 'A'+i)
		if got := rec.countText(name); got != 2 {
			t.Fatalf("%s: expected chart label and table row, got %d", name, got)
		}
	}
	for _, name := range []string{"DishK", "DishL"} {
		if got := rec.countText(name); got != 1 {
			t.Fatalf("%s: expected table row only, got %d", name, got)
		}
	}
}

func TestAssembleDeviceLegend(t *testing.T) {
	r := sampleReport(model.DefaultExportOptions())
	r.Data.DeviceBreakdown = []model.DeviceStat{
		{Device: "Mobile", Count: 876, Percentage: 68.2},
		{Device: "Desktop", Count: 245, Percentage: 19.1},
		{Device: "Tablet", Count: 163, Percentage: 12.7},
	}
	rec := newRecorder()
	if _, err := Assemble(rec, r, DefaultStyle()); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	var legend []string
	for _, text := range rec.texts() {
		switch text {
		case "Mobile (68.2%)", "Desktop (19.1%)", "Tablet (12.7%)":
			legend = append(legend, text)
		}
	}
	want := []string{"Mobile (68.2%)", "Desktop (19.1%)", "Tablet (12.7%)"}
	if !reflect.DeepEqual(legend, want) {
		t.Fatalf("unexpected legend: %v", legend)
	}
}

func TestAssembleEmptyData(t *testing.T) {
	rec := newRecorder()
	res, err := Assemble(rec, Report{Options: model.DefaultExportOptions(), Subject: "Empty"}, DefaultStyle())
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if len(res.Sections) != 9 {
		t.Fatalf("expected every section even without data, got %v", res.Sections)
	}
}

func TestAssembleReportsCanvasError(t *testing.T) {
	rec := newRecorder()
	rec.err = errors.New("boom")
	_, err := Assemble(rec, sampleReport(model.DefaultExportOptions()), DefaultStyle())
	var rerr *RenderError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected RenderError, got %v", err)
	}
	if rerr.Section != SectionCover {
		t.Fatalf("expected failure in cover, got %s", rerr.Section)
	}
}

func TestAssembleTrendUsesLastFifteenDays(t *testing.T) {
	r := sampleReport(model.DefaultExportOptions())
	rec := newRecorder()
	if _, err := Assemble(rec, r, DefaultStyle()); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	first := r.Data.ViewsSeries[len(r.Data.ViewsSeries)-TrendPoints].Date
	if rec.countText(first) != 1 {
		t.Fatalf("expected first trend label %s", first)
	}
	if rec.countText(r.Data.ViewsSeries[0].Date) != 0 {
		t.Fatalf("oldest day should be trimmed from the trend chart")
	}
}

func TestChartRectIgnoresTrailingGapWhenFitting(t *testing.T) {
	a := &assembler{c: newRecorder(), content: Rect{X: 15, W: 180}}
	a.l = NewLayout(0, chartHeight+blockGap/2, nil)

	r := a.chartRect()
	if a.l.Pages() != 1 {
		t.Fatalf("chart that fits should stay on the first page, got %d pages", a.l.Pages())
	}
	if r.Y != 0 || r.H != chartHeight {
		t.Fatalf("unexpected chart rect %+v", r)
	}

	a.chartRect()
	if a.l.Pages() != 2 {
		t.Fatalf("second chart should start a new page, got %d pages", a.l.Pages())
	}
}
