package document

import (
	"fmt"
	"time"

	"github.com/verte-zerg/menureport/internal/model"
)

// SectionKind names one block of the section plan.
type SectionKind string

const (
	SectionCover         SectionKind = "cover"
	SectionMetricCards   SectionKind = "metric-cards"
	SectionTrendChart    SectionKind = "trend-chart"
	SectionPopularChart  SectionKind = "popular-items-chart"
	SectionCategoryChart SectionKind = "category-chart"
	SectionDeviceChart   SectionKind = "device-chart"
	SectionPopularTable  SectionKind = "popular-items-table"
	SectionCategoryTable SectionKind = "category-table"
	SectionFooter        SectionKind = "footer"
)

// IsChart reports whether the section is one of the chart blocks.
func (k SectionKind) IsChart() bool {
	switch k {
	case SectionTrendChart, SectionPopularChart, SectionCategoryChart, SectionDeviceChart:
		return true
	}
	return false
}

const (
	// TrendPoints is how many of the most recent days the trend chart shows.
	TrendPoints = 15

	pageMarginX   = 15.0
	pageMarginTop = 22.0
	pageMarginBot = 18.0
	coverHeight   = 44.0
	cardHeight    = 22.0
	cardGap       = 4.0
	sectionTitleH = 10.0
	chartHeight   = 78.0
	blockGap      = 6.0
)

// Report is the input of one document render.
type Report struct {
	Data        model.AnalyticsData
	Options     model.ExportOptions
	Subject     string
	GeneratedAt time.Time
}

// Result describes what a render produced.
type Result struct {
	Pages    int
	Sections []SectionKind
}

// RenderError wraps a failure of the drawing surface while a section was drawn.
type RenderError struct {
	Section SectionKind
	Err     error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to render %s: %v", e.Section, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

type assembler struct {
	c       Canvas
	l       *Layout
	charts  Charts
	report  Report
	pageW   float64
	pageH   float64
	content Rect
	done    []SectionKind
}

// Assemble walks the fixed section plan and draws the report onto c.
// Any canvas failure, including a panic inside a drawing call, is returned
// as a *RenderError and the canvas must then be discarded.
func Assemble(c Canvas, r Report, style Style) (res Result, err error) {
	a := &assembler{c: c, charts: Charts{Style: style}, report: r}
	defer func() {
		if p := recover(); p != nil {
			err = &RenderError{Section: a.current(), Err: fmt.Errorf("panic: %v", p)}
			res = Result{}
		}
	}()

	c.AddPage()
	a.pageW, a.pageH = c.PageSize()
	a.content = Rect{
		X: pageMarginX,
		Y: pageMarginTop,
		W: a.pageW - 2*pageMarginX,
		H: a.pageH - pageMarginTop - pageMarginBot,
	}
	a.l = NewLayout(a.content.Y, a.content.Bottom(), a.pageHeader)

	opts := r.Options
	plan := []struct {
		kind SectionKind
		on   bool
		draw func()
	}{
		{SectionCover, true, a.cover},
		{SectionMetricCards, true, a.metricCards},
		{SectionTrendChart, opts.IncludeCharts, a.trendChart},
		{SectionPopularChart, opts.IncludeCharts && opts.IncludePopularItems, a.popularChart},
		{SectionCategoryChart, opts.IncludeCharts, a.categoryChart},
		{SectionDeviceChart, opts.IncludeCharts && opts.IncludeDeviceStats, a.deviceChart},
		{SectionPopularTable, opts.IncludeRawData && opts.IncludePopularItems, a.popularTable},
		{SectionCategoryTable, opts.IncludeRawData, a.categoryTable},
		{SectionFooter, true, a.footer},
	}
	for _, step := range plan {
		if !step.on {
			continue
		}
		a.done = append(a.done, step.kind)
		step.draw()
		if cerr := c.Err(); cerr != nil {
			return Result{}, &RenderError{Section: step.kind, Err: cerr}
		}
	}
	return Result{Pages: a.l.Pages(), Sections: a.done}, nil
}

func (a *assembler) current() SectionKind {
	if len(a.done) == 0 {
		return SectionCover
	}
	return a.done[len(a.done)-1]
}

// pageHeader starts a physical page and decorates every page after the cover.
func (a *assembler) pageHeader(p Page) {
	c := a.c
	c.AddPage()
	c.SetDrawColor(colorPrimary)
	c.SetLineWidth(0.5)
	c.Line(pageMarginX, 12, a.pageW-pageMarginX, 12)
	c.SetFont("B", 8)
	c.SetTextColor(colorPrimary)
	DrawText(c, pageMarginX, 10, "ANALYTICS REPORT - "+a.report.Subject)
	c.SetFont("", 8)
	c.SetTextColor(colorMuted)
	num := fmt.Sprintf("Page %d", p.Index+1)
	DrawText(c, a.pageW-pageMarginX-c.TextWidth(num), 10, num)
}

func (a *assembler) cover() {
	c := a.c
	y := a.l.Reserve(coverHeight)
	c.SetFillColor(colorPrimary)
	c.Rect(Rect{X: 0, Y: 0, W: a.pageW, H: 8}, StyleFill)

	c.SetFont("B", 22)
	c.SetTextColor(colorPrimary)
	DrawText(c, a.content.X, y+8, "Analytics Report")
	c.SetFont("B", 15)
	c.SetTextColor(colorText)
	DrawText(c, a.content.X, y+18, a.report.Subject)

	c.SetFont("", 9)
	c.SetTextColor(colorMuted)
	DrawText(c, a.content.X, y+27, "Generated: "+a.report.GeneratedAt.Format("January 2, 2006 15:04"))
	label := a.report.Options.DateRangeLabel
	if label == "" {
		label = "All time"
	}
	DrawText(c, a.content.X, y+33, "Period: "+label)

	c.SetDrawColor(colorGrid)
	c.SetLineWidth(0.3)
	c.Line(a.content.X, y+coverHeight-4, a.content.Right(), y+coverHeight-4)
}

type metricCard struct {
	label  string
	value  string
	change float64
}

func (a *assembler) cards() []metricCard {
	d := a.report.Data
	days := len(d.ViewsSeries)
	avgViews, avgScans := 0.0, 0.0
	if days > 0 {
		var views, scans int
		for _, p := range d.ViewsSeries {
			views += p.Views
			scans += p.Scans
		}
		avgViews = float64(views) / float64(days)
		avgScans = float64(scans) / float64(days)
	}
	return []metricCard{
		{label: "Total Views", value: FormatCount(float64(d.ViewsTotal)), change: d.ViewsChangePct},
		{label: "QR Scans", value: FormatCount(float64(d.ScansTotal)), change: d.ScansChangePct},
		{label: "Avg. Daily Views", value: fmt.Sprintf("%.1f", avgViews), change: d.ViewsChangePct},
		{label: "Avg. Daily Scans", value: fmt.Sprintf("%.1f", avgScans), change: d.ScansChangePct},
	}
}

func (a *assembler) metricCards() {
	c := a.c
	cards := a.cards()
	rows := (len(cards) + 1) / 2
	height := sectionTitleH + float64(rows)*(cardHeight+cardGap)
	y := a.l.Reserve(height)
	a.sectionTitle(y, "Key Metrics")
	y += sectionTitleH

	cardW := (a.content.W - cardGap) / 2
	for i, card := range cards {
		x := a.content.X + float64(i%2)*(cardW+cardGap)
		cy := y + float64(i/2)*(cardHeight+cardGap)
		trend := colorUp
		if card.change < 0 {
			trend = colorDown
		}
		c.SetFillColor(colorPanel)
		c.SetDrawColor(colorGrid)
		c.SetLineWidth(0.3)
		c.Rect(Rect{X: x, Y: cy, W: cardW, H: cardHeight}, StyleFillStroke)
		c.SetFillColor(trend)
		c.Rect(Rect{X: x, Y: cy, W: 1.5, H: cardHeight}, StyleFill)

		c.SetFont("", 8)
		c.SetTextColor(colorMuted)
		DrawText(c, x+5, cy+6, card.label)
		c.SetFont("B", 14)
		c.SetTextColor(colorText)
		DrawText(c, x+5, cy+15, card.value)

		ax, ay := x+cardW-30, cy+14
		c.Polygon(trendArrow(ax, ay, card.change >= 0), StyleFill)
		c.SetFont("B", 9)
		c.SetTextColor(trend)
		DrawText(c, ax+4, ay, FormatChange(card.change))
	}
}

// trendArrow returns a small triangle pointing up or down with its base on y.
func trendArrow(x, y float64, up bool) []Point {
	if up {
		return []Point{{X: x, Y: y}, {X: x + 3, Y: y}, {X: x + 1.5, Y: y - 3}}
	}
	return []Point{{X: x, Y: y - 3}, {X: x + 3, Y: y - 3}, {X: x + 1.5, Y: y}}
}

// chartRect reserves a whole chart block, breaking the page if it does not
// fit. The trailing gap never forces a break on its own.
func (a *assembler) chartRect() Rect {
	y := a.l.Reserve(chartHeight)
	a.l.Advance(blockGap)
	return Rect{X: a.content.X, Y: y, W: a.content.W, H: chartHeight}
}

func (a *assembler) trendChart() {
	series := lastN(a.report.Data.ViewsSeries, TrendPoints)
	labels := make([]string, len(series))
	views := make([]float64, len(series))
	scans := make([]float64, len(series))
	for i, p := range series {
		labels[i] = p.Date
		views[i] = float64(p.Views)
		scans[i] = float64(p.Scans)
	}
	a.charts.Line(a.c, "Views & Scans Trend", a.chartRect(), labels,
		LineSeries{Name: "Views", Values: views},
		LineSeries{Name: "Scans", Values: scans},
	)
}

func (a *assembler) popularChart() {
	data := Collect(a.report.Data.PopularItems,
		func(p model.PopularItem) float64 { return float64(p.Views) },
		func(p model.PopularItem) string { return p.Name },
	)
	a.charts.Bar(a.c, "Most Popular Items", a.chartRect(), data)
}

func (a *assembler) categoryChart() {
	data := Collect(a.report.Data.CategoryPerformance,
		func(s model.CategoryStat) float64 { return float64(s.Views) },
		func(s model.CategoryStat) string { return s.Name },
	)
	a.charts.Bar(a.c, "Category Performance", a.chartRect(), data)
}

func (a *assembler) deviceChart() {
	devices := a.report.Data.DeviceBreakdown
	data := make([]Datum, 0, len(devices))
	for _, d := range devices {
		data = append(data, Datum{Label: d.Device, Value: float64(d.Count), Percent: d.Percentage, HasPercent: true})
	}
	a.charts.Pie(a.c, "Device Breakdown", a.chartRect(), data)
}

func (a *assembler) popularTable() {
	items := a.report.Data.PopularItems
	rows := make([][]string, 0, len(items))
	for i, it := range items {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			it.Name,
			it.Category,
			fmt.Sprintf("%d", it.Views),
			FormatChange(it.ChangePct),
		})
	}
	a.table("Popular Items", Table{
		Headers:    []string{"#", "Item", "Category", "Views", "Change"},
		Columns:    []float64{0, 0.07, 0.45, 0.72, 0.86},
		RightAlign: map[int]bool{3: true, 4: true},
		Rows:       rows,
	})
}

func (a *assembler) categoryTable() {
	cats := a.report.Data.CategoryPerformance
	rows := make([][]string, 0, len(cats))
	for _, cs := range cats {
		rating := "-"
		if cs.AvgRating != nil {
			rating = fmt.Sprintf("%.1f", clean(*cs.AvgRating))
		}
		rows = append(rows, []string{
			cs.Name,
			fmt.Sprintf("%d", cs.Views),
			fmt.Sprintf("%d", cs.ItemCount),
			rating,
		})
	}
	a.table("Category Performance", Table{
		Headers:    []string{"Category", "Views", "Items", "Avg. Rating"},
		Columns:    []float64{0, 0.5, 0.7, 0.85},
		RightAlign: map[int]bool{1: true, 2: true, 3: true},
		Rows:       rows,
	})
}

// table keeps the title with the header band and first row, then lets the
// rows split across pages.
func (a *assembler) table(title string, t Table) {
	page := a.l.CurrentPage()
	if !a.l.Fits(sectionTitleH+TableHeaderHeight+TableRowHeight) && page.CursorY > page.ContentTop {
		a.l.Break()
	}
	a.sectionTitle(a.l.Reserve(sectionTitleH), title)
	DrawTable(a.c, a.l, a.content.X, a.content.W, t)
	a.l.Advance(blockGap)
}

func (a *assembler) sectionTitle(y float64, title string) {
	a.c.SetFont("B", 12)
	a.c.SetTextColor(colorPrimary)
	DrawText(a.c, a.content.X, y+7, title)
}

// footer writes the summary line below the content area of the last page.
func (a *assembler) footer() {
	c := a.c
	d := a.report.Data
	y := a.pageH - pageMarginBot/2
	c.SetDrawColor(colorGrid)
	c.SetLineWidth(0.3)
	c.Line(a.content.X, y-5, a.content.Right(), y-5)
	c.SetFont("", 8)
	c.SetTextColor(colorMuted)
	line := fmt.Sprintf("%s | %d views | %d scans | %d popular items | %d pages | generated %s",
		a.report.Subject, d.ViewsTotal, d.ScansTotal, len(d.PopularItems), a.l.Pages(),
		a.report.GeneratedAt.Format("2006-01-02"))
	DrawText(c, a.content.X, y, fitText(c, line, a.content.W))
}

func lastN[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
